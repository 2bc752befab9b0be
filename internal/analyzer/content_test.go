package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lead-cli/internal/model"
)

func sampleRecord() *model.WebsiteRecord {
	return &model.WebsiteRecord{
		URL:         "https://example.com",
		Domain:      "example.com",
		Name:        "Example",
		Title:       "Example Inc",
		Description: "We build things",
		MainContent: "Hello world",
		ImportantPages: map[model.PageType]model.Page{
			model.PageTypeAbout:    {URL: "https://example.com/about", Content: "About us text"},
			model.PageTypeServices: {URL: "https://example.com/services", Content: "Services text"},
			model.PageTypeContact:  {URL: "https://example.com/contact", Content: "Contact text"},
			model.PageTypeTeam:     {URL: "https://example.com/team", Error: "404 Not Found"},
		},
	}
}

func TestPrepare_Default(t *testing.T) {
	got := Prepare(sampleRecord(), PrepareOptions{})
	want := "Website: https://example.com\n" +
		"Company Name: Example\n" +
		"Page Title: Example Inc\n" +
		"Description: We build things\n\n" +
		"Main Content: Hello world\n\n" +
		"About Page Content: About us text\n\n"
	assert.Equal(t, want, got)
}

func TestPrepare_OtherPagesSorted(t *testing.T) {
	got := Prepare(sampleRecord(), PrepareOptions{IncludeOtherPages: true})
	assert.True(t, strings.HasSuffix(got,
		"About Page Content: About us text\n\n"+
			"Contact Page Content: Contact text\n\n"+
			"Services Page Content: Services text\n\n"))
	assert.NotContains(t, got, "Team Page Content")
}

func TestPrepare_TruncatesMainContent(t *testing.T) {
	rec := &model.WebsiteRecord{Domain: "a.com", MainContent: "abcdefghijklmnop"}
	got := Prepare(rec, PrepareOptions{MaxTotal: 10})
	assert.Contains(t, got, "Main Content (truncated): abcdefghij...\n\n")
}

func TestPrepare_NoBudgetLeft(t *testing.T) {
	rec := &model.WebsiteRecord{
		Domain:      "a.com",
		MainContent: "main body",
		ImportantPages: map[model.PageType]model.Page{
			model.PageTypeAbout: {Content: "123456"},
		},
	}
	got := Prepare(rec, PrepareOptions{MaxTotal: 5})
	assert.NotContains(t, got, "Main Content")
	assert.Contains(t, got, "About Page Content: 123456")
}

func TestPrepare_CountsRunes(t *testing.T) {
	rec := &model.WebsiteRecord{Domain: "a.com", MainContent: "ééééé"}
	got := Prepare(rec, PrepareOptions{MaxTotal: 3})
	assert.Contains(t, got, "Main Content (truncated): ééé...")
}

func TestPrepare_CapsOtherPages(t *testing.T) {
	rec := &model.WebsiteRecord{
		Domain: "a.com",
		ImportantPages: map[model.PageType]model.Page{
			model.PageTypeClients: {Content: strings.Repeat("x", 600)},
		},
	}
	got := Prepare(rec, PrepareOptions{IncludeOtherPages: true})
	assert.Contains(t, got, "Clients Page Content: "+strings.Repeat("x", 500)+"...\n\n")
}

func TestPrepare_AboutExcerptCapped(t *testing.T) {
	rec := &model.WebsiteRecord{
		Domain: "a.com",
		ImportantPages: map[model.PageType]model.Page{
			model.PageTypeAbout: {Content: strings.Repeat("a", 1500)},
		},
	}
	got := Prepare(rec, PrepareOptions{MaxTotal: 5000})
	assert.Contains(t, got, "About Page Content: "+strings.Repeat("a", 1000)+"\n\n")
	assert.NotContains(t, got, strings.Repeat("a", 1001))
}
