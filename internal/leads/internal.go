package leads

import (
	"github.com/sells-group/lead-cli/internal/model"
)

var defaultRoles = map[model.CompanyType][]string{
	model.CompanyTypeB2B:        {"CTO", "VP of Engineering", "Director of IT"},
	model.CompanyTypeB2C:        {"CMO", "Digital Marketing Director", "Customer Experience Manager"},
	model.CompanyTypeGovernment: {"IT Director", "Program Manager", "Procurement Officer"},
	model.CompanyTypeNonProfit:  {"Executive Director", "Program Director", "Operations Manager"},
	model.CompanyTypeUnknown:    {"CEO", "CTO", "Operations Director"},
}

// internalRoles returns the profile's decision-maker roles, or the default
// roles for its company type when it has none.
func internalRoles(p *model.CompanyProfile) []string {
	var roles []string
	for _, r := range p.DecisionMakerRoles {
		if !model.IsPlaceholder(r) {
			roles = append(roles, r)
		}
	}
	if len(roles) > 0 {
		return roles
	}
	if d, ok := defaultRoles[p.CompanyType]; ok {
		return d
	}
	return defaultRoles[model.CompanyTypeUnknown]
}

// internalLeads fabricates one contact per role at the analyzed company, in
// role order.
func (g *Generator) internalLeads(p *model.CompanyProfile, domain string) []model.Lead {
	roles := internalRoles(p)
	company := p.Name(domain)
	pains := p.KnownPainPoints()

	out := make([]model.Lead, 0, len(roles))
	for _, role := range roles {
		first, last := fabricateName(role, g.rnd)
		out = append(out, model.Lead{
			Name:                first + " " + last,
			FirstName:           first,
			LastName:            last,
			Role:                role,
			Email:               fabricateEmail(first, last, domain, g.rnd),
			CompanyDomain:       domain,
			LeadType:            model.LeadTypeInternal,
			ConfidenceScore:     confidenceScore(role, p.CompanyType),
			OutreachSuggestions: outreachSuggestions(role, p.Industry, pains),
			CompanyName:         company,
		})
	}
	return out
}
