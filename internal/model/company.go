package model

import (
	"strings"
	"time"
)

// Unknown is the placeholder used for any field without real data.
const Unknown = "Unknown"

// CompanyType is the business model category of a company.
type CompanyType string

const (
	CompanyTypeB2B        CompanyType = "B2B"
	CompanyTypeB2C        CompanyType = "B2C"
	CompanyTypeGovernment CompanyType = "Government"
	CompanyTypeNonProfit  CompanyType = "Non-profit"
	CompanyTypeUnknown    CompanyType = Unknown
)

// AllCompanyTypes returns the known company types in tie-break order.
func AllCompanyTypes() []CompanyType {
	return []CompanyType{CompanyTypeB2B, CompanyTypeB2C, CompanyTypeGovernment, CompanyTypeNonProfit}
}

// CompanySize is a coarse headcount bucket.
type CompanySize string

const (
	SizeSmall   CompanySize = "Small"
	SizeMedium  CompanySize = "Medium"
	SizeLarge   CompanySize = "Large"
	SizeUnknown CompanySize = Unknown
)

// Industry taxonomy used for profiles.
const (
	IndustryTechnology    = "Technology"
	IndustryHealthcare    = "Healthcare"
	IndustryFinance       = "Finance"
	IndustryEducation     = "Education"
	IndustryManufacturing = "Manufacturing"
	IndustryRetail        = "Retail"
	IndustryConsulting    = "Consulting"
)

// Industries returns the profile taxonomy in detection priority order.
func Industries() []string {
	return []string{
		IndustryTechnology,
		IndustryHealthcare,
		IndustryFinance,
		IndustryEducation,
		IndustryManufacturing,
		IndustryRetail,
		IndustryConsulting,
	}
}

// UnknownList is the placeholder for list fields without real data.
func UnknownList() []string {
	return []string{Unknown}
}

// IsUnknownList reports whether a list carries no real data: it is empty or
// every entry is a placeholder.
func IsUnknownList(items []string) bool {
	for _, it := range items {
		if !IsPlaceholder(it) {
			return false
		}
	}
	return true
}

// IsPlaceholder reports whether s is one of the "no data" markers seen in
// model output or older cache entries.
func IsPlaceholder(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "" || s == "unknown" || s == "not identified" || s == "n/a" || s == "none" ||
		strings.HasPrefix(s, "unknown -")
}

// CompanyProfile is the structured description of a company derived from its
// website. Every field is always populated after normalization.
type CompanyProfile struct {
	CompanyType        CompanyType    `json:"company_type"`
	Industry           string         `json:"industry"`
	CompanySize        CompanySize    `json:"company_size"`
	TargetMarket       []string       `json:"target_market"`
	Offerings          []string       `json:"offerings"`
	DecisionMakerRoles []string       `json:"decision_maker_roles"`
	PainPoints         []string       `json:"pain_points"`
	Timestamp          time.Time      `json:"timestamp"`
	Details            map[string]any `json:"details,omitempty"`
	Source             string         `json:"source,omitempty"` // "llm" or "rules"
}

// Profile sources.
const (
	SourceLLM   = "llm"
	SourceRules = "rules"
)

// DetailString returns a string detail value, or "" when absent.
func (p *CompanyProfile) DetailString(key string) string {
	if p == nil || p.Details == nil {
		return ""
	}
	s, _ := p.Details[key].(string)
	return strings.TrimSpace(s)
}

// Name returns the company name from details, falling back to fallback.
func (p *CompanyProfile) Name(fallback string) string {
	if n := p.DetailString("company_name"); n != "" {
		return n
	}
	return fallback
}

// KnownPainPoints returns pain points with placeholders removed.
func (p *CompanyProfile) KnownPainPoints() []string {
	var out []string
	for _, pp := range p.PainPoints {
		if !IsPlaceholder(pp) {
			out = append(out, pp)
		}
	}
	return out
}
