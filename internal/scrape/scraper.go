// Package scrape turns a company website into a WebsiteRecord: the home page
// plus the about, services, products, team, contact and clients pages it
// links to.
package scrape

import (
	"context"
	"net/url"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-cli/internal/cache"
	"github.com/sells-group/lead-cli/internal/model"
)

const pageConcurrency = 3

// Scraper builds website records. The cache may be nil.
type Scraper struct {
	fetcher Fetcher
	cache   *cache.Cache
}

// New creates a Scraper.
func New(f Fetcher, c *cache.Cache) *Scraper {
	return &Scraper{fetcher: f, cache: c}
}

// Scrape fetches the site at rawURL. Failure to load the home page is an
// error; a failing secondary page is recorded on that page instead.
func (s *Scraper) Scrape(ctx context.Context, rawURL string, useCache bool) (*model.WebsiteRecord, error) {
	target, err := CleanURL(rawURL)
	if err != nil {
		return nil, err
	}
	home, err := url.Parse(target)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: parse url")
	}
	log := zap.L().With(zap.String("url", target))

	if useCache {
		var cached model.WebsiteRecord
		if s.cache.Load(ctx, cache.NamespaceScrape, target, &cached) {
			log.Info("scrape: cache hit")
			return &cached, nil
		}
	}

	body, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: fetch home page")
	}
	p, err := parsePage(body, home)
	if err != nil {
		return nil, err
	}

	rec := &model.WebsiteRecord{
		URL:            target,
		Domain:         home.Host,
		Name:           p.Name,
		Title:          p.Title,
		Description:    p.Description,
		MainContent:    p.Content,
		ImportantPages: s.fetchPages(ctx, importantPages(p.Links, home)),
	}

	s.cache.Save(ctx, cache.NamespaceScrape, target, rec)
	log.Info("scrape: website scraped",
		zap.Int("content_len", len(rec.MainContent)),
		zap.Int("pages", len(rec.ImportantPages)),
	)
	return rec, nil
}

// fetchPages loads each secondary page, capturing failures per page.
func (s *Scraper) fetchPages(ctx context.Context, urls map[model.PageType]string) map[model.PageType]model.Page {
	types := make([]model.PageType, 0, len(urls))
	for _, pt := range model.AllPageTypes() {
		if _, ok := urls[pt]; ok {
			types = append(types, pt)
		}
	}
	pages := make([]model.Page, len(types))

	var g errgroup.Group
	g.SetLimit(pageConcurrency)
	for i, pt := range types {
		g.Go(func() error {
			pages[i] = s.fetchPage(ctx, pt, urls[pt])
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[model.PageType]model.Page, len(types))
	for i, pt := range types {
		out[pt] = pages[i]
	}
	return out
}

func (s *Scraper) fetchPage(ctx context.Context, pt model.PageType, pageURL string) model.Page {
	log := zap.L().With(zap.String("page_type", string(pt)), zap.String("url", pageURL))
	u, err := url.Parse(pageURL)
	if err != nil {
		return model.Page{URL: pageURL, Error: err.Error()}
	}
	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		log.Warn("scrape: page failed", zap.Error(err))
		return model.Page{URL: pageURL, Error: err.Error()}
	}
	p, err := parsePage(body, u)
	if err != nil {
		log.Warn("scrape: page unparseable", zap.Error(err))
		return model.Page{URL: pageURL, Error: err.Error()}
	}
	return model.Page{URL: pageURL, Title: p.Title, Content: p.Content}
}
