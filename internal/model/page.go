package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// PageType names an important secondary page discovered on a website.
type PageType string

const (
	PageTypeAbout    PageType = "about"
	PageTypeServices PageType = "services"
	PageTypeProducts PageType = "products"
	PageTypeContact  PageType = "contact"
	PageTypeTeam     PageType = "team"
	PageTypeClients  PageType = "clients"
)

// AllPageTypes returns the page types the scraper looks for, in priority order.
func AllPageTypes() []PageType {
	return []PageType{
		PageTypeAbout,
		PageTypeServices,
		PageTypeProducts,
		PageTypeContact,
		PageTypeTeam,
		PageTypeClients,
	}
}

// Page is a scraped secondary page. A page that failed to load carries only
// its URL and Error.
type Page struct {
	URL     string `json:"url,omitempty"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Usable reports whether the page loaded and has content.
func (p Page) Usable() bool {
	return p.Error == "" && strings.TrimSpace(p.Content) != ""
}

// WebsiteRecord is the scraped representation of a company website. It is
// the immutable input to analysis.
type WebsiteRecord struct {
	URL            string            `json:"url"`
	Domain         string            `json:"domain"`
	Name           string            `json:"name"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	MainContent    string            `json:"main_content"`
	ImportantPages map[PageType]Page `json:"important_pages"`
}

// Validate rejects records that cannot be analyzed at all.
func (r *WebsiteRecord) Validate() error {
	if r == nil {
		return eris.New("model: website record is nil")
	}
	if strings.TrimSpace(r.Domain) == "" {
		return eris.New("model: website record has no domain")
	}
	return nil
}

// Page returns the page of the given type if it is present and usable.
func (r *WebsiteRecord) Page(pt PageType) (Page, bool) {
	p, ok := r.ImportantPages[pt]
	if !ok || !p.Usable() {
		return Page{}, false
	}
	return p, true
}
