package scrape

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/config"
)

// Fetcher retrieves the raw HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches pages over net/http and rejects anti-bot interstitials.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewHTTPFetcher creates an HTTPFetcher from scrape settings.
func NewHTTPFetcher(cfg config.ScrapeConfig) *HTTPFetcher {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxBody := int64(cfg.MaxBodyMB) << 20
	if maxBody <= 0 {
		maxBody = 5 << 20
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "Mozilla/5.0 (compatible; lead-cli/1.0)"
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext:         (&net.Dialer{Timeout: timeout}).DialContext,
				TLSHandshakeTimeout: timeout,
			},
		},
		userAgent: ua,
		maxBody:   maxBody,
	}
}

// Fetch returns the body of url. Non-2xx statuses and block pages are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: create request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "scrape: fetch %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, eris.Wrapf(err, "scrape: read %s", url)
	}
	if reason := blockReason(resp, body); reason != "" {
		return nil, eris.Errorf("scrape: %s blocked (%s)", url, reason)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Errorf("scrape: %s returned status %d", url, resp.StatusCode)
	}
	return body, nil
}

// blockReason names the anti-bot protection a response shows, or "".
func blockReason(resp *http.Response, body []byte) string {
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if resp.Header.Get("cf-ray") != "" || strings.EqualFold(resp.Header.Get("Server"), "cloudflare") {
			return "cloudflare"
		}
	}
	lower := strings.ToLower(string(body))
	switch {
	case strings.Contains(lower, "checking your browser"), strings.Contains(lower, "cf-browser-verification"):
		return "cloudflare"
	case strings.Contains(lower, "g-recaptcha"), strings.Contains(lower, "h-captcha"), strings.Contains(lower, "cf-turnstile"):
		return "captcha"
	}
	return ""
}
