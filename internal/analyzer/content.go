package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/lead-cli/internal/model"
)

const (
	// DefaultMaxContent bounds the main content plus about excerpt.
	DefaultMaxContent = 2000

	aboutExcerptLen = 1000
	otherExcerptLen = 500
)

// PrepareOptions bounds the prompt text built from a website record.
type PrepareOptions struct {
	MaxTotal          int
	IncludeOtherPages bool
}

var titleCaser = cases.Title(language.English)

// Prepare renders rec as prompt text: a header block, the main content
// trimmed to fit next to the about excerpt, the about excerpt, then
// optionally short excerpts of the other pages. Lengths are in runes.
func Prepare(rec *model.WebsiteRecord, opts PrepareOptions) string {
	if opts.MaxTotal <= 0 {
		opts.MaxTotal = DefaultMaxContent
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Website: %s\n", rec.URL)
	fmt.Fprintf(&b, "Company Name: %s\n", rec.Name)
	fmt.Fprintf(&b, "Page Title: %s\n", rec.Title)
	fmt.Fprintf(&b, "Description: %s\n\n", rec.Description)

	about := ""
	if p, ok := rec.Page(model.PageTypeAbout); ok {
		about, _ = truncate(p.Content, aboutExcerptLen)
	}

	if budget := opts.MaxTotal - runeLen(about); budget > 0 {
		if main, cut := truncate(rec.MainContent, budget); cut {
			fmt.Fprintf(&b, "Main Content (truncated): %s...\n\n", main)
		} else {
			fmt.Fprintf(&b, "Main Content: %s\n\n", main)
		}
	}

	if about != "" {
		fmt.Fprintf(&b, "About Page Content: %s\n\n", about)
	}

	if opts.IncludeOtherPages {
		types := make([]string, 0, len(rec.ImportantPages))
		for pt := range rec.ImportantPages {
			if pt != model.PageTypeAbout {
				types = append(types, string(pt))
			}
		}
		sort.Strings(types)

		for _, pt := range types {
			p, ok := rec.Page(model.PageType(pt))
			if !ok {
				continue
			}
			text, cut := truncate(p.Content, otherExcerptLen)
			if cut {
				text += "..."
			}
			fmt.Fprintf(&b, "%s Page Content: %s\n\n", titleCaser.String(pt), text)
		}
	}

	return b.String()
}

func runeLen(s string) int {
	return len([]rune(s))
}

// truncate returns the first n runes of s and whether anything was cut.
func truncate(s string, n int) (string, bool) {
	if n <= 0 {
		return "", s != ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	return string(r[:n]), true
}
