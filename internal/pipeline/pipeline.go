// Package pipeline runs a website through scraping, analysis and lead
// generation and persists the formatted result.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/model"
)

// Scraper turns a URL into a WebsiteRecord.
type Scraper interface {
	Scrape(ctx context.Context, rawURL string, useCache bool) (*model.WebsiteRecord, error)
}

// Analyzer derives a CompanyProfile from a WebsiteRecord.
type Analyzer interface {
	Analyze(ctx context.Context, rec *model.WebsiteRecord, useCache bool) (*model.CompanyProfile, error)
}

// LeadGenerator produces leads for a profile.
type LeadGenerator interface {
	Generate(ctx context.Context, p *model.CompanyProfile, domain string, useCache bool) ([]model.Lead, error)
}

// Pipeline orchestrates scrape, analyze and leads for a single website.
type Pipeline struct {
	scraper  Scraper
	analyzer Analyzer
	leads    LeadGenerator
	results  *ResultStore
	now      func() time.Time
	newID    func() string
}

// New creates a Pipeline. results may be nil, in which case Run never
// persists.
func New(s Scraper, a Analyzer, l LeadGenerator, results *ResultStore) *Pipeline {
	return &Pipeline{
		scraper:  s,
		analyzer: a,
		leads:    l,
		results:  results,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// RunOptions controls a single run.
type RunOptions struct {
	// ForceRefresh bypasses every cache read. Fresh results are still cached.
	ForceRefresh bool
	// Save writes the result to the result store.
	Save bool
}

// Run executes scrape, analyze and leads for rawURL.
func (p *Pipeline) Run(ctx context.Context, rawURL string, opts RunOptions) (*model.Result, error) {
	log := zap.L().With(zap.String("url", rawURL))
	log.Info("pipeline: starting run", zap.Bool("force_refresh", opts.ForceRefresh))
	useCache := !opts.ForceRefresh
	start := time.Now()

	var rec *model.WebsiteRecord
	if err := phase(log, "scrape", func() (err error) {
		rec, err = p.scraper.Scrape(ctx, rawURL, useCache)
		return err
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: scrape")
	}

	var profile *model.CompanyProfile
	if err := phase(log, "analyze", func() (err error) {
		profile, err = p.analyzer.Analyze(ctx, rec, useCache)
		return err
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: analyze")
	}

	var leads []model.Lead
	if err := phase(log, "leads", func() (err error) {
		leads, err = p.leads.Generate(ctx, profile, rec.Domain, useCache)
		return err
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: leads")
	}

	result := model.NewResult(p.newID(), rec.URL, rec.Domain, profile, leads, p.now().UTC())

	if opts.Save {
		if p.results == nil {
			return nil, eris.New("pipeline: no result store configured")
		}
		if err := p.results.Save(result); err != nil {
			return nil, err
		}
	}

	log.Info("pipeline: run complete",
		zap.String("id", result.ID),
		zap.String("domain", result.Domain),
		zap.String("source", profile.Source),
		zap.Int("leads", len(leads)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func phase(log *zap.Logger, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start).Milliseconds()
	if err != nil {
		log.Error("pipeline: phase failed",
			zap.String("phase", name),
			zap.Int64("duration_ms", duration),
			zap.Error(err),
		)
		return err
	}
	log.Debug("pipeline: phase complete",
		zap.String("phase", name),
		zap.Int64("duration_ms", duration),
	)
	return nil
}
