package scrape

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/model"
)

const maxNameWords = 5

// page is the parsed form of one HTML document.
type page struct {
	Title       string
	Name        string
	Description string
	Content     string
	Links       []*url.URL
}

var (
	logoAltRe   = regexp.MustCompile(`(?i)logo`)
	logoWordRe  = regexp.MustCompile(`(?i)\s*\blogo\b\s*`)
	titleTailRe = regexp.MustCompile(`\s*[|:–—-]\s.*$`)
)

// parsePage extracts title, company name, description, visible text and
// links from body. base resolves relative links.
func parsePage(body []byte, base *url.URL) (*page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "scrape: parse html")
	}

	p := &page{
		Title:       collapse(doc.Find("title").First().Text()),
		Description: metaDescription(doc),
	}
	p.Name = companyName(doc, p.Title, base.Hostname())

	// Links come from nav and header too, so collect them before stripping.
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if u, err := base.Parse(strings.TrimSpace(href)); err == nil {
			p.Links = append(p.Links, u)
		}
	})

	p.Content = mainContent(doc)
	return p, nil
}

func metaDescription(doc *goquery.Document) string {
	for _, sel := range []string{`meta[name="description"]`, `meta[name="Description"]`, `meta[property="og:description"]`} {
		if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
			return collapse(v)
		}
	}
	return ""
}

// companyName prefers a short logo alt text, then a short page title with
// its tagline removed, then the first label of the host.
func companyName(doc *goquery.Document, title, host string) string {
	var name string
	doc.Find("img[alt]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		alt, _ := img.Attr("alt")
		if !logoAltRe.MatchString(alt) {
			return true
		}
		alt = collapse(logoWordRe.ReplaceAllString(alt, " "))
		if alt != "" && len(strings.Fields(alt)) <= maxNameWords {
			name = alt
			return false
		}
		return true
	})
	if name != "" {
		return name
	}

	if t := strings.TrimSpace(titleTailRe.ReplaceAllString(title, "")); t != "" && len(strings.Fields(t)) <= maxNameWords {
		return t
	}

	labels := strings.Split(strings.TrimPrefix(host, "www."), ".")
	if len(labels) > 1 && labels[0] != "" {
		return strings.ToUpper(labels[0][:1]) + labels[0][1:]
	}
	return host
}

// mainContent returns the visible text of the main content area with
// boilerplate elements removed.
func mainContent(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, header, footer, form").Remove()

	if m := doc.Find("main").First(); m.Length() > 0 {
		if text := visibleText(m); text != "" {
			return text
		}
	}
	for _, id := range []string{"content", "main", "main-content", "mainContent"} {
		if d := doc.Find("div#" + id).First(); d.Length() > 0 {
			if text := visibleText(d); text != "" {
				return text
			}
		}
	}
	return visibleText(doc.Find("body").First())
}

// visibleText joins every text node under sel with single spaces.
func visibleText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				if t := strings.TrimSpace(c.Text()); t != "" {
					parts = append(parts, t)
				}
				return
			}
			walk(c)
		})
	}
	walk(sel)
	return collapse(strings.Join(parts, " "))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// pagePatterns map link paths to page types. Types are claimed by the first
// matching link in document order.
var pagePatterns = []struct {
	pageType model.PageType
	re       *regexp.Regexp
}{
	{model.PageTypeAbout, regexp.MustCompile(`(?i)(/about|about-us|/company|who-we-are)`)},
	{model.PageTypeServices, regexp.MustCompile(`(?i)(/services?\b|/solutions|what-we-do)`)},
	{model.PageTypeProducts, regexp.MustCompile(`(?i)(/products?\b|/shop\b|/platform\b)`)},
	{model.PageTypeTeam, regexp.MustCompile(`(?i)(/team|our-team|/leadership|/management|/people)`)},
	{model.PageTypeContact, regexp.MustCompile(`(?i)(/contact|get-in-touch)`)},
	{model.PageTypeClients, regexp.MustCompile(`(?i)(/clients|/customers|case-studies|success-stories)`)},
}

// importantPages picks at most one same-site link per page type.
func importantPages(links []*url.URL, home *url.URL) map[model.PageType]string {
	host := strings.TrimPrefix(strings.ToLower(home.Hostname()), "www.")
	homePath := strings.TrimRight(home.Path, "/")

	found := make(map[model.PageType]string)
	for _, u := range links {
		if u.Scheme != "http" && u.Scheme != "https" {
			continue
		}
		if h := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www."); h != host && !strings.HasSuffix(h, "."+host) {
			continue
		}
		path := strings.TrimRight(u.Path, "/")
		if path == homePath {
			continue
		}
		for _, pp := range pagePatterns {
			if _, taken := found[pp.pageType]; taken || !pp.re.MatchString(path) {
				continue
			}
			clean := *u
			clean.Fragment = ""
			found[pp.pageType] = clean.String()
			break
		}
	}
	return found
}
