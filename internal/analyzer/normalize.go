package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/model"
)

// rawProfile is the loosely shaped analysis object returned by the model.
type rawProfile struct {
	CompanyType        string         `mapstructure:"company_type"`
	Industry           string         `mapstructure:"industry"`
	CompanySize        string         `mapstructure:"company_size"`
	TargetMarket       []string       `mapstructure:"target_market"`
	Offerings          []string       `mapstructure:"offerings"`
	DecisionMakerRoles []string       `mapstructure:"decision_maker_roles"`
	PainPoints         []string       `mapstructure:"pain_points"`
	Extra              map[string]any `mapstructure:",remain"`
}

var (
	scalarFields = []string{"company_type", "industry", "company_size"}
	listFields   = []string{"target_market", "offerings", "decision_maker_roles", "pain_points"}
)

// normalize turns a parsed model reply into a fully populated profile. text
// is the rule corpus used to fill roles and offerings the model left empty.
func (a *Analyzer) normalize(ctx context.Context, raw map[string]any, text string) (*model.CompanyProfile, error) {
	in := make(map[string]any, len(raw))
	for k, v := range raw {
		in[strings.ToLower(strings.TrimSpace(k))] = v
	}
	for _, f := range scalarFields {
		if v, ok := in[f]; ok {
			in[f] = coerceScalar(v)
		}
	}
	for _, f := range listFields {
		if v, ok := in[f]; ok {
			in[f] = coerceList(v)
		}
	}

	var rp rawProfile
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &rp,
	})
	if err != nil {
		return nil, eris.Wrap(err, "analyzer: build decoder")
	}
	if err := dec.Decode(in); err != nil {
		return nil, eris.Wrap(err, "analyzer: decode profile")
	}

	p := &model.CompanyProfile{
		Details:   map[string]any{},
		Timestamp: a.now().UTC(),
		Source:    model.SourceLLM,
	}
	for k, v := range rp.Extra {
		if v != nil {
			p.Details[k] = v
		}
	}

	p.TargetMarket = cleanList(rp.TargetMarket)
	if len(p.TargetMarket) == 0 {
		p.TargetMarket = model.UnknownList()
	}

	p.CompanyType = canonCompanyType(rp.CompanyType)
	if p.CompanyType == model.CompanyTypeUnknown {
		p.CompanyType = canonCompanyType(strings.Join(p.TargetMarket, ", "))
	}

	p.Industry = canonIndustry(rp.Industry)
	if detail := strings.TrimSpace(rp.Industry); detail != "" && !model.IsPlaceholder(detail) && detail != p.Industry {
		p.Details["industry_detail"] = detail
	}

	p.CompanySize = canonSize(rp.CompanySize)

	p.Offerings = cleanOfferings(rp.Offerings)
	if len(p.Offerings) == 0 {
		p.Offerings = a.extractOfferings(ctx, text, false, p.Industry, p.CompanyType)
	}

	p.DecisionMakerRoles = cleanList(rp.DecisionMakerRoles)
	if len(p.DecisionMakerRoles) == 0 {
		p.DecisionMakerRoles = GuessDecisionMakerRoles(text)
	}

	p.PainPoints = cleanList(rp.PainPoints)
	if len(p.PainPoints) == 0 {
		p.PainPoints = model.UnknownList()
	}
	return p, nil
}

// NormalizeProfile normalizes a profile supplied from outside the analyzer,
// such as a saved profile file. Keys under "details" are lifted unless a
// top-level key of the same name exists. A valid source and an RFC 3339
// timestamp are kept; otherwise the timestamp is the current time.
func (a *Analyzer) NormalizeProfile(ctx context.Context, raw map[string]any) (*model.CompanyProfile, error) {
	flat := make(map[string]any, len(raw))
	for k, v := range raw {
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "details", "source", "timestamp":
			continue
		}
		flat[k] = v
	}
	if details, ok := lookup(raw, "details").(map[string]any); ok {
		for k, v := range details {
			if _, exists := flat[k]; !exists {
				flat[k] = v
			}
		}
	}

	p, err := a.normalize(ctx, flat, "")
	if err != nil {
		return nil, err
	}
	p.Source = ""
	if src, _ := lookup(raw, "source").(string); src == model.SourceLLM || src == model.SourceRules {
		p.Source = src
	}
	if ts, _ := lookup(raw, "timestamp").(string); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			p.Timestamp = t.UTC()
		}
	}
	return p, nil
}

// lookup returns the value for key, matched case-insensitively.
func lookup(m map[string]any, key string) any {
	for k, v := range m {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			return v
		}
	}
	return nil
}

func coerceScalar(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case []any:
		return strings.Join(coerceList(t), ", ")
	case map[string]any:
		return firstString(t)
	default:
		return v
	}
}

// coerceList flattens whatever the model sent into a string list. Objects
// contribute their name-like field.
func coerceList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if strings.Contains(t, ",") {
			return strings.Split(t, ",")
		}
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			switch e := it.(type) {
			case string:
				out = append(out, e)
			case map[string]any:
				if s := firstString(e); s != "" {
					out = append(out, s)
				}
			case nil:
			default:
				out = append(out, fmt.Sprint(e))
			}
		}
		return out
	case map[string]any:
		if s := firstString(t); s != "" {
			return []string{s}
		}
		return nil
	default:
		return []string{fmt.Sprint(t)}
	}
}

func firstString(m map[string]any) string {
	for _, k := range []string{"name", "title", "role", "value"} {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func cleanList(items []string) []string {
	kept := make([]string, 0, len(items))
	for _, it := range items {
		if !model.IsPlaceholder(it) {
			kept = append(kept, it)
		}
	}
	return dedupe(kept, 0)
}

// canonCompanyType matches explicit labels before the bare words "consumer"
// and "business", which also appear inside the B2C spellings.
func canonCompanyType(v string) model.CompanyType {
	l := strings.ToLower(v)
	if model.IsPlaceholder(l) {
		return model.CompanyTypeUnknown
	}
	switch {
	case containsAny(l, "b2b", "business-to-business", "business to business"):
		return model.CompanyTypeB2B
	case containsAny(l, "b2c", "business-to-consumer", "business to consumer", "direct-to-consumer", "d2c"):
		return model.CompanyTypeB2C
	case containsAny(l, "government", "public sector"):
		return model.CompanyTypeGovernment
	case containsAny(l, "non-profit", "nonprofit", "non profit", "charity"):
		return model.CompanyTypeNonProfit
	case strings.Contains(l, "consumer"):
		return model.CompanyTypeB2C
	case strings.Contains(l, "business"):
		return model.CompanyTypeB2B
	}
	return model.CompanyTypeUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func canonIndustry(v string) string {
	v = strings.TrimSpace(v)
	if model.IsPlaceholder(v) {
		return model.Unknown
	}
	for _, ind := range model.Industries() {
		if strings.EqualFold(v, ind) {
			return ind
		}
	}
	return GuessIndustry(v)
}

var sizeNumberRe = regexp.MustCompile(`\d[\d,]*`)

func canonSize(v string) model.CompanySize {
	l := strings.ToLower(strings.TrimSpace(v))
	switch {
	case model.IsPlaceholder(l):
		return model.SizeUnknown
	case strings.Contains(l, "large"), strings.Contains(l, "enterprise"):
		return model.SizeLarge
	case strings.Contains(l, "medium"), strings.Contains(l, "mid"):
		return model.SizeMedium
	case strings.Contains(l, "small"), strings.Contains(l, "startup"):
		return model.SizeSmall
	}
	if m := sizeNumberRe.FindString(l); m != "" {
		if n, err := strconv.Atoi(strings.ReplaceAll(m, ",", "")); err == nil {
			switch {
			case n < 50:
				return model.SizeSmall
			case n < 500:
				return model.SizeMedium
			default:
				return model.SizeLarge
			}
		}
	}
	return model.SizeUnknown
}
