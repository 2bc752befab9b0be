package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/analyzer"
	"github.com/sells-group/lead-cli/internal/cache"
	"github.com/sells-group/lead-cli/internal/leads"
	"github.com/sells-group/lead-cli/internal/llm"
	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/pipeline"
	"github.com/sells-group/lead-cli/internal/scrape"
)

// pipelineEnv holds the cache, model gateway and stages needed by the
// run, analyze, leads and serve commands.
type pipelineEnv struct {
	Cache    *cache.Cache
	Gateway  *llm.Gateway
	Analyzer *analyzer.Analyzer
	Leads    *leads.Generator
	Results  *pipeline.ResultStore
	Pipeline *pipeline.Pipeline
}

// Close releases the cache store.
func (pe *pipelineEnv) Close() {
	if pe.Cache != nil {
		if err := pe.Cache.Close(); err != nil {
			zap.L().Warn("close cache", zap.Error(err))
		}
	}
}

// initPipeline validates config for mode and builds every stage. Callers
// should defer env.Close().
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	c, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return nil, eris.Wrap(err, "open cache")
	}
	env := &pipelineEnv{Cache: c}

	gw, err := llm.NewFromConfig(ctx, cfg.LLM)
	if err != nil {
		env.Close()
		return nil, eris.Wrap(err, "init llm")
	}
	env.Gateway = gw

	env.Analyzer = analyzer.New(gw, c, analyzer.PrepareOptions{
		MaxTotal:          cfg.Analysis.MaxContentLength,
		IncludeOtherPages: !cfg.Analysis.ImportantPagesOnly,
	})

	catalog, err := leads.LoadCatalog(cfg.Leads.CatalogPath)
	if err != nil {
		env.Close()
		return nil, eris.Wrap(err, "load lead catalog")
	}
	env.Leads, err = leads.New(gw, c, leads.Options{
		FindExternal: cfg.Leads.FindExternal,
		MaxExternal:  cfg.Leads.MaxExternal,
		Catalog:      catalog,
	})
	if err != nil {
		env.Close()
		return nil, eris.Wrap(err, "init lead generator")
	}

	env.Results, err = pipeline.NewResultStore(cfg.Results.Dir)
	if err != nil {
		env.Close()
		return nil, err
	}

	scraper := scrape.New(scrape.NewHTTPFetcher(cfg.Scrape), c)
	env.Pipeline = pipeline.New(scraper, env.Analyzer, env.Leads, env.Results)

	zap.L().Info("pipeline ready",
		zap.String("llm", gw.Name()),
		zap.Bool("llm_available", gw.Available()),
		zap.String("cache", cfg.Cache.Driver),
	)
	return env, nil
}

// readJSONFile decodes the JSON file at path into v.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "decode %s", path)
	}
	return nil
}

// loadProfile reads a company profile file and normalizes it so every field
// is populated before lead generation.
func loadProfile(ctx context.Context, a *analyzer.Analyzer, path string) (*model.CompanyProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	raw, ok := llm.ParseObject(string(data))
	if !ok {
		return nil, eris.Errorf("decode %s: not a JSON object", path)
	}
	p, err := a.NormalizeProfile(ctx, raw)
	if err != nil {
		return nil, eris.Wrapf(err, "normalize %s", path)
	}
	return p, nil
}
