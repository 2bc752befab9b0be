package leads

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/llm"
	"github.com/sells-group/lead-cli/internal/model"
)

const (
	minExternal = 4
	maxExternal = 6

	minModelScore     = 60
	maxModelScore     = 95
	defaultModelScore = 75
)

const prospectsPrompt = `Identify 5-7 real-world style companies that would be strong prospective customers for the company described below.

Industry: %s
Offerings: %s
Target Market: %s
Company Size: %s
Description: %s

For each prospect return an object with these fields:
- company_name: the prospect's name
- domain: the prospect's website domain
- industry: the prospect's industry
- size: Small, Medium, or Large
- match_reason: one sentence on why the prospect needs these offerings
- match_score: an integer from 60 to 95
- potential_value: estimated annual deal value, for example "$50K-$100K"

Return ONLY a JSON array of these objects without any additional text or explanation.`

// modelCandidate is one prospect as proposed by the model.
type modelCandidate struct {
	CompanyName    string `mapstructure:"company_name" validate:"required"`
	Domain         string `mapstructure:"domain"`
	Industry       string `mapstructure:"industry" validate:"required"`
	Size           string `mapstructure:"size"`
	MatchReason    string `mapstructure:"match_reason" validate:"required"`
	MatchScore     any    `mapstructure:"match_score"`
	PotentialValue string `mapstructure:"potential_value"`
}

var candidateAliases = map[string]string{
	"name":    "company_name",
	"company": "company_name",
	"reason":  "match_reason",
	"score":   "match_score",
	"value":   "potential_value",
}

// externalLeads discovers prospects with the model, falling back to the
// catalog, and turns the best of them into leads.
func (g *Generator) externalLeads(ctx context.Context, p *model.CompanyProfile) []model.Lead {
	primary := g.primaryCategory(p)

	cands := g.modelCandidates(ctx, p, primary)
	source := "model"
	if len(cands) == 0 {
		cands = g.catalogCandidates(p)
		source = "catalog"
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].MatchScore > cands[j].MatchScore })

	n := clamp(g.maxExternal, minExternal, maxExternal)
	if len(cands) > n {
		cands = cands[:n]
	}
	zap.L().Debug("leads: external candidates selected",
		zap.String("source", source),
		zap.Int("count", len(cands)),
	)

	pains := p.KnownPainPoints()
	out := make([]model.Lead, 0, len(cands))
	for _, c := range cands {
		cat := g.catalog.Category(c.Category)
		if cat == nil {
			cat = primary
		}
		role := g.selectRoles(c.Industry, cat)[0]
		first, last := fabricateName(role, g.rnd)
		out = append(out, model.Lead{
			Name:                first + " " + last,
			FirstName:           first,
			LastName:            last,
			Role:                role,
			Email:               fabricateEmail(first, last, c.Domain, g.rnd),
			CompanyDomain:       c.Domain,
			LeadType:            model.LeadTypeExternal,
			ConfidenceScore:     clamp(c.MatchScore, 0, maxConfidence),
			MatchScore:          c.MatchScore,
			MatchPercentage:     fmt.Sprintf("%d%%", c.MatchScore),
			OutreachSuggestions: outreachSuggestions(role, c.Industry, pains),
			CompanyName:         c.CompanyName,
			TargetReason:        c.MatchReason,
			PotentialValue:      c.PotentialValue,
			Industry:            c.Industry,
			CompanySize:         c.Size,
		})
	}
	return out
}

// primaryCategory is the category of the profile's first known offering.
func (g *Generator) primaryCategory(p *model.CompanyProfile) *Category {
	for _, o := range p.Offerings {
		if !model.IsPlaceholder(o) {
			return g.catalog.Categorize(o)[0]
		}
	}
	return g.catalog.Fallback()
}

// selectRoles joins up to two industry roles with up to two category roles.
// The result is never empty.
func (g *Generator) selectRoles(industry string, cat *Category) []string {
	var roles []string
	roles = append(roles, firstN(g.catalog.IndustryRoles(industry), 2)...)
	if cat != nil {
		roles = append(roles, firstN(cat.Roles, 2)...)
	}
	roles = dedupe(roles)
	if len(roles) == 0 {
		return []string{"CEO"}
	}
	return roles
}

// modelCandidates asks the model for prospects. Invalid entries are dropped;
// nil means the model path produced nothing usable.
func (g *Generator) modelCandidates(ctx context.Context, p *model.CompanyProfile, primary *Category) []model.MatchCandidate {
	if g.model == nil || !g.model.Available() {
		return nil
	}
	prompt := fmt.Sprintf(prospectsPrompt,
		p.Industry,
		strings.Join(p.Offerings, ", "),
		strings.Join(p.TargetMarket, ", "),
		p.CompanySize,
		orUnknown(p.DetailString("company_description")),
	)
	reply := g.model.Generate(ctx, prompt)
	if llm.IsSentinel(reply) {
		return nil
	}
	items, ok := llm.ParseArray(reply)
	if !ok {
		zap.L().Warn("leads: could not parse prospect list")
		return nil
	}

	seen := make(map[string]bool)
	var out []model.MatchCandidate
	for _, it := range items {
		raw, ok := it.(map[string]any)
		if !ok {
			continue
		}
		c, err := g.decodeCandidate(raw)
		if err != nil {
			zap.L().Debug("leads: dropping prospect", zap.Error(err))
			continue
		}
		c.Category = primary.Name
		if seen[c.Domain] {
			continue
		}
		seen[c.Domain] = true
		out = append(out, c)
	}
	return out
}

func (g *Generator) decodeCandidate(raw map[string]any) (model.MatchCandidate, error) {
	in := make(map[string]any, len(raw))
	for k, v := range raw {
		k = strings.ToLower(strings.TrimSpace(k))
		if alias, ok := candidateAliases[k]; ok {
			if _, dup := raw[alias]; dup {
				continue
			}
			k = alias
		}
		in[k] = v
	}

	var mc modelCandidate
	if err := mapstructure.WeakDecode(in, &mc); err != nil {
		return model.MatchCandidate{}, err
	}
	mc.CompanyName = strings.TrimSpace(mc.CompanyName)
	mc.Industry = strings.TrimSpace(mc.Industry)
	mc.MatchReason = strings.TrimSpace(mc.MatchReason)
	if err := g.validate.Struct(&mc); err != nil {
		return model.MatchCandidate{}, err
	}

	score, ok := parseScore(mc.MatchScore)
	if !ok {
		score = defaultModelScore
	}
	score = clamp(score, minModelScore, maxModelScore)

	value := strings.TrimSpace(mc.PotentialValue)
	if value == "" {
		value = potentialValue(score)
	}

	domain := strings.ToLower(strings.TrimSpace(mc.Domain))
	domain = strings.TrimPrefix(strings.TrimPrefix(domain, "https://"), "http://")
	domain = strings.TrimPrefix(strings.TrimSuffix(domain, "/"), "www.")
	if g.validate.Var(domain, "fqdn") != nil {
		domain = syntheticDomain(mc.CompanyName)
	}

	return model.MatchCandidate{
		CompanyName:    mc.CompanyName,
		Domain:         domain,
		Industry:       mc.Industry,
		Size:           canonSize(mc.Size, value),
		MatchScore:     score,
		MatchReason:    mc.MatchReason,
		PotentialValue: value,
	}, nil
}

// catalogCandidates matches each offering's categories to target industries
// and scores the catalog companies found there. It always yields candidates
// unless every target is the profile's own industry.
func (g *Generator) catalogCandidates(p *model.CompanyProfile) []model.MatchCandidate {
	offerings := make([]string, 0, len(p.Offerings))
	for _, o := range p.Offerings {
		if !model.IsPlaceholder(o) {
			offerings = append(offerings, o)
		}
	}
	if len(offerings) == 0 {
		offerings = []string{""}
	}

	seen := make(map[string]bool)
	var out []model.MatchCandidate
	for _, o := range offerings {
		cats := []*Category{g.catalog.Fallback()}
		if o != "" {
			cats = g.catalog.Categorize(o)
		}
		for _, cat := range cats {
			for _, industry := range cat.Targets {
				if strings.EqualFold(industry, p.Industry) {
					continue
				}
				for _, co := range g.catalog.Companies(industry) {
					if seen[co.Domain] {
						continue
					}
					seen[co.Domain] = true
					score := matchScore(cat, industry, co.Size, p.CompanySize, g.rnd)
					out = append(out, model.MatchCandidate{
						CompanyName:    co.Name,
						Domain:         co.Domain,
						Industry:       industry,
						Size:           co.Size,
						MatchScore:     score,
						MatchReason:    matchReason(co.Name, industry, o),
						PotentialValue: potentialValue(score),
						Category:       cat.Name,
					})
				}
			}
		}
	}
	return out
}

func matchReason(company, industry, offering string) string {
	if offering == "" {
		return fmt.Sprintf("%s operates in %s, a strong fit for your services", company, industry)
	}
	return fmt.Sprintf("%s operates in %s and could benefit from your %s", company, industry, offering)
}

func parseScore(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(math.Round(t)), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	}
	return 0, false
}

// canonSize returns Small, Medium or Large, reading the deal value when the
// size is missing.
func canonSize(size, value string) string {
	for _, s := range []model.CompanySize{model.SizeSmall, model.SizeMedium, model.SizeLarge} {
		if strings.EqualFold(strings.TrimSpace(size), string(s)) {
			return string(s)
		}
	}
	v := strings.ToLower(size + " " + value)
	switch {
	case strings.Contains(v, "large"), strings.Contains(v, "enterprise"),
		strings.Contains(v, "million"), strings.Contains(v, "high"):
		return string(model.SizeLarge)
	case strings.Contains(v, "small"), strings.Contains(v, "low"):
		return string(model.SizeSmall)
	}
	return string(model.SizeMedium)
}

func syntheticDomain(name string) string {
	slug := emailPart(name)
	if slug == "" {
		slug = "prospect"
	}
	return slug + ".com"
}

func orUnknown(s string) string {
	if s == "" {
		return model.Unknown
	}
	return s
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		k := strings.ToLower(strings.TrimSpace(it))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}
