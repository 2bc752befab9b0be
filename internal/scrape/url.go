package scrape

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

// CleanURL normalizes user input into an absolute URL: https is assumed
// when no scheme is given, the host is lowercased and trailing slashes are
// dropped.
func CleanURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", eris.New("scrape: empty url")
	}
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", eris.Wrapf(err, "scrape: parse url %q", raw)
	}
	if u.Hostname() == "" {
		return "", eris.Errorf("scrape: url %q has no host", raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return strings.TrimRight(u.String(), "/"), nil
}

// Domain returns the lowercased host (with port, if any) of a URL.
func Domain(raw string) (string, error) {
	clean, err := CleanURL(raw)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", eris.Wrap(err, "scrape: parse url")
	}
	return u.Host, nil
}
