package model

import (
	"strings"
	"time"
)

// ResultCompany is the flattened company block of a Result.
type ResultCompany struct {
	Name         string   `json:"name" yaml:"name"`
	Type         string   `json:"type" yaml:"type"`
	Industry     string   `json:"industry" yaml:"industry"`
	Size         string   `json:"size" yaml:"size"`
	TargetMarket string   `json:"target_market" yaml:"target_market"`
	Offerings    []string `json:"offerings" yaml:"offerings"`
}

// Result is the formatted outcome of one run, suitable for display, export
// and CRM sync.
type Result struct {
	ID        string          `json:"id" yaml:"id"`
	URL       string          `json:"url" yaml:"url"`
	Domain    string          `json:"domain" yaml:"domain"`
	Company   ResultCompany   `json:"company" yaml:"company"`
	Profile   *CompanyProfile `json:"profile,omitempty" yaml:"-"`
	Leads     []Lead          `json:"leads" yaml:"leads"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
}

// NewResult flattens a profile and its leads into a Result.
func NewResult(id, url, domain string, profile *CompanyProfile, leads []Lead, now time.Time) *Result {
	offerings := profile.Offerings
	if offerings == nil {
		offerings = []string{}
	}
	targetMarket := strings.Join(profile.TargetMarket, ", ")
	if targetMarket == "" {
		targetMarket = Unknown
	}
	if leads == nil {
		leads = []Lead{}
	}
	return &Result{
		ID:     id,
		URL:    url,
		Domain: domain,
		Company: ResultCompany{
			Name:         profile.Name(domain),
			Type:         string(profile.CompanyType),
			Industry:     profile.Industry,
			Size:         string(profile.CompanySize),
			TargetMarket: targetMarket,
			Offerings:    offerings,
		},
		Profile:   profile,
		Leads:     leads,
		CreatedAt: now,
	}
}
