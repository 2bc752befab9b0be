package model

// LeadType distinguishes contacts at the analyzed company from contacts at
// prospect companies.
type LeadType string

const (
	LeadTypeInternal LeadType = "internal"
	LeadTypeExternal LeadType = "external"
)

// Lead is a fabricated contact with outreach guidance. Leads are never
// mutated after creation.
type Lead struct {
	Name                string   `json:"name" csv:"name" yaml:"name"`
	FirstName           string   `json:"first_name" csv:"first_name" yaml:"first_name"`
	LastName            string   `json:"last_name" csv:"last_name" yaml:"last_name"`
	Role                string   `json:"role" csv:"role" yaml:"role"`
	Email               string   `json:"email" csv:"email" yaml:"email"`
	CompanyDomain       string   `json:"company_domain" csv:"company_domain" yaml:"company_domain"`
	LeadType            LeadType `json:"lead_type" csv:"lead_type" yaml:"lead_type"`
	ConfidenceScore     int      `json:"confidence_score" csv:"confidence_score" yaml:"confidence_score"`
	MatchScore          int      `json:"match_score,omitempty" csv:"match_score,omitempty" yaml:"match_score,omitempty"`
	MatchPercentage     string   `json:"match_percentage,omitempty" csv:"match_percentage,omitempty" yaml:"match_percentage,omitempty"`
	OutreachSuggestions []string `json:"outreach_suggestions" csv:"-" yaml:"outreach_suggestions"`
	CompanyName         string   `json:"company_name,omitempty" csv:"company_name,omitempty" yaml:"company_name,omitempty"`
	TargetReason        string   `json:"target_reason,omitempty" csv:"target_reason,omitempty" yaml:"target_reason,omitempty"`
	PotentialValue      string   `json:"potential_value,omitempty" csv:"potential_value,omitempty" yaml:"potential_value,omitempty"`
	Industry            string   `json:"industry,omitempty" csv:"industry,omitempty" yaml:"industry,omitempty"`
	CompanySize         string   `json:"company_size,omitempty" csv:"company_size,omitempty" yaml:"company_size,omitempty"`
}

// MatchCandidate is a prospect company scored against a profile before it is
// turned into a Lead.
type MatchCandidate struct {
	CompanyName    string `json:"company_name"`
	Domain         string `json:"domain"`
	Industry       string `json:"industry"`
	Size           string `json:"size"`
	MatchScore     int    `json:"match_score"`
	MatchReason    string `json:"match_reason"`
	PotentialValue string `json:"potential_value"`
	Category       string `json:"category,omitempty"`
}
