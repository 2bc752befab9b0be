// Package analyzer turns a scraped website into a CompanyProfile, asking the
// configured model first and falling back to keyword rules.
package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/cache"
	"github.com/sells-group/lead-cli/internal/llm"
	"github.com/sells-group/lead-cli/internal/model"
)

// Generator is the slice of llm.Gateway the analyzer needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts ...llm.Option) string
	Available() bool
}

const analysisPrompt = `Analyze the following company website content and extract key information in JSON format.

%s

Extract the following information in JSON format:
- company_name: The name of the company
- company_type: B2B, B2C, Government, or Non-profit
- industry: The primary industry the company operates in (Technology, Healthcare, Finance, Education, Manufacturing, Retail, Consulting, or Unknown)
- company_size: Small, Medium, or Large
- target_market: Who the company sells to, as a list
- offerings: Specific products or services the company offers, as a list
- decision_maker_roles: Job titles of people likely to buy from this company's customers, as a list
- pain_points: Problems the company solves for its customers, as a list
- company_description: A brief description of what the company does
- location: Company headquarters or main location if mentioned
- founded_year: Year the company was founded if mentioned
- key_people: Names and roles of key executives or team members if mentioned
- contact_info: Any contact information found (email, phone, address)
- social_media: Any social media links or handles mentioned

Guidelines:
- Be specific with offerings. List actual products or services, not general categories.
- Use "Unknown" for any field you cannot determine from the content.
- Do not invent information that is not supported by the content.

Return ONLY valid JSON without any additional text or explanation.`

// Analyzer derives company profiles. The cache may be nil.
type Analyzer struct {
	gen   Generator
	cache *cache.Cache
	opts  PrepareOptions
	now   func() time.Time
}

// New creates an Analyzer.
func New(gen Generator, c *cache.Cache, opts PrepareOptions) *Analyzer {
	return &Analyzer{gen: gen, cache: c, opts: opts, now: time.Now}
}

// WithClock overrides the timestamp source.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// Analyze returns the profile for rec. A cached profile for the domain is
// returned when useCache is set; otherwise the model is queried and the
// result written back to the cache. Only an invalid record is an error.
func (a *Analyzer) Analyze(ctx context.Context, rec *model.WebsiteRecord, useCache bool) (*model.CompanyProfile, error) {
	if err := rec.Validate(); err != nil {
		return nil, eris.Wrap(err, "analyzer: analyze")
	}
	key := "analysis_" + rec.Domain
	log := zap.L().With(zap.String("domain", rec.Domain))

	if useCache {
		var cached model.CompanyProfile
		if a.cache.Load(ctx, cache.NamespaceAnalysis, key, &cached) {
			log.Info("analyzer: cache hit")
			return &cached, nil
		}
	}

	text := ruleText(rec)
	profile, modelAvailable := a.fromModel(ctx, Prepare(rec, a.opts), text)
	if profile == nil {
		log.Info("analyzer: using rule-based analysis", zap.Bool("model_available", modelAvailable))
		profile = a.fromRules(ctx, text, modelAvailable)
	}
	fillDetails(profile, rec)

	a.cache.Save(ctx, cache.NamespaceAnalysis, key, profile)
	log.Info("analyzer: profile ready",
		zap.String("source", profile.Source),
		zap.String("industry", profile.Industry),
		zap.String("company_type", string(profile.CompanyType)),
	)
	return profile, nil
}

// fromModel asks the model for a profile. It returns nil when the reply is
// unusable, along with whether the model answered at all.
func (a *Analyzer) fromModel(ctx context.Context, content, text string) (*model.CompanyProfile, bool) {
	if a.gen == nil || !a.gen.Available() {
		return nil, false
	}
	reply := a.gen.Generate(ctx, fmt.Sprintf(analysisPrompt, content))
	if llm.IsSentinel(reply) {
		zap.L().Warn("analyzer: model unavailable", zap.String("reply", reply))
		return nil, false
	}
	raw, ok := llm.ParseObject(reply)
	if !ok {
		zap.L().Warn("analyzer: could not parse model reply", zap.Int("reply_len", len(reply)))
		return nil, true
	}
	p, err := a.normalize(ctx, raw, text)
	if err != nil {
		zap.L().Warn("analyzer: could not normalize model reply", zap.Error(err))
		return nil, true
	}
	return p, true
}

// fromRules derives every field from keyword rules. It never fails.
func (a *Analyzer) fromRules(ctx context.Context, text string, modelAvailable bool) *model.CompanyProfile {
	p := &model.CompanyProfile{
		CompanyType:        GuessCompanyType(text),
		Industry:           GuessIndustry(text),
		CompanySize:        GuessCompanySize(text),
		TargetMarket:       GuessTargetMarket(text),
		DecisionMakerRoles: GuessDecisionMakerRoles(text),
		PainPoints:         GuessPainPoints(text),
		Timestamp:          a.now().UTC(),
		Details:            map[string]any{},
		Source:             model.SourceRules,
	}
	p.Offerings = a.extractOfferings(ctx, text, modelAvailable, p.Industry, p.CompanyType)
	return p
}

// ruleText is the plain site text the rules read: no prompt labels.
func ruleText(rec *model.WebsiteRecord) string {
	parts := []string{rec.Name, rec.Title, rec.Description, rec.MainContent}
	types := make([]string, 0, len(rec.ImportantPages))
	for pt := range rec.ImportantPages {
		types = append(types, string(pt))
	}
	sort.Strings(types)
	for _, pt := range types {
		if p, ok := rec.Page(model.PageType(pt)); ok {
			parts = append(parts, p.Content)
		}
	}

	kept := parts[:0]
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "\n\n")
}

func fillDetails(p *model.CompanyProfile, rec *model.WebsiteRecord) {
	if p.Details == nil {
		p.Details = map[string]any{}
	}
	if model.IsPlaceholder(p.DetailString("company_name")) && rec.Name != "" {
		p.Details["company_name"] = rec.Name
	}
	if model.IsPlaceholder(p.DetailString("company_description")) && rec.Description != "" {
		p.Details["company_description"] = rec.Description
	}
	if rec.URL != "" {
		p.Details["website"] = rec.URL
	}
}
