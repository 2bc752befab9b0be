// Package leads fabricates sales leads for an analyzed company: contacts at
// the company itself and at prospect companies matched to its offerings.
package leads

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/cache"
	"github.com/sells-group/lead-cli/internal/llm"
	"github.com/sells-group/lead-cli/internal/model"
)

// Completer is the slice of llm.Gateway the generator needs.
type Completer interface {
	Generate(ctx context.Context, prompt string, opts ...llm.Option) string
	Available() bool
}

// Options configures a Generator.
type Options struct {
	FindExternal bool
	MaxExternal  int
	// Catalog defaults to the embedded catalog.
	Catalog *Catalog
	// Rand defaults to the shared math/rand/v2 source.
	Rand Rand
}

// Generator builds leads for company profiles. The cache and model may be
// nil.
type Generator struct {
	model        Completer
	cache        *cache.Cache
	catalog      *Catalog
	rnd          Rand
	findExternal bool
	maxExternal  int
	validate     *validator.Validate
}

// New creates a Generator.
func New(m Completer, c *cache.Cache, opts Options) (*Generator, error) {
	cat := opts.Catalog
	if cat == nil {
		var err error
		cat, err = LoadCatalog("")
		if err != nil {
			return nil, eris.Wrap(err, "leads: load embedded catalog")
		}
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Generator{
		model:        m,
		cache:        c,
		catalog:      cat,
		rnd:          rnd,
		findExternal: opts.FindExternal,
		maxExternal:  opts.MaxExternal,
		validate:     validator.New(),
	}, nil
}

// Generate returns leads for the company at domain: internal contacts in
// role order, then external prospects by descending match score. Cached
// leads are returned verbatim when useCache is set.
func (g *Generator) Generate(ctx context.Context, p *model.CompanyProfile, domain string, useCache bool) ([]model.Lead, error) {
	if p == nil {
		return nil, eris.New("leads: profile is nil")
	}
	if domain == "" {
		return nil, eris.New("leads: domain is empty")
	}
	key := "leads_" + domain
	log := zap.L().With(zap.String("domain", domain))

	if useCache {
		var cached []model.Lead
		if g.cache.Load(ctx, cache.NamespaceLeads, key, &cached) {
			log.Info("leads: cache hit", zap.Int("count", len(cached)))
			return cached, nil
		}
	}

	out := g.internalLeads(p, domain)
	internal := len(out)
	if g.findExternal {
		out = append(out, g.externalLeads(ctx, p)...)
	}

	g.cache.Save(ctx, cache.NamespaceLeads, key, out)
	log.Info("leads: generated",
		zap.Int("internal", internal),
		zap.Int("external", len(out)-internal),
	)
	return out, nil
}
