// Package offering supplies canned offerings for a company when none could be
// extracted from its website.
package offering

import "github.com/sells-group/lead-cli/internal/model"

var byIndustry = map[string][]string{
	model.IndustryTechnology:    {"Software Development", "IT Consulting", "Cloud Services", "Data Analytics", "Cybersecurity"},
	model.IndustryHealthcare:    {"Medical Services", "Healthcare IT", "Patient Management", "Medical Equipment", "Telehealth"},
	model.IndustryFinance:       {"Financial Services", "Investment Management", "Banking Solutions", "Insurance", "Payment Processing"},
	model.IndustryEducation:     {"Educational Content", "Learning Management", "Student Services", "Educational Technology", "Training Programs"},
	model.IndustryManufacturing: {"Production Services", "Supply Chain Management", "Quality Control", "Equipment Manufacturing", "Industrial Design"},
	model.IndustryRetail:        {"E-commerce Solutions", "Inventory Management", "Customer Experience", "Point of Sale Systems", "Retail Analytics"},
	model.IndustryConsulting:    {"Business Strategy", "Management Consulting", "Process Improvement", "Change Management", "Industry Expertise"},
}

// Infer returns the top three offerings for industry, or a generic triple
// keyed on company type when the industry is not in the taxonomy.
func Infer(industry string, companyType model.CompanyType) []string {
	if list, ok := byIndustry[industry]; ok {
		return append([]string(nil), list[:3]...)
	}
	switch companyType {
	case model.CompanyTypeB2B:
		return []string{"Business Services", "Professional Solutions", "Enterprise Software"}
	case model.CompanyTypeB2C:
		return []string{"Consumer Products", "Customer Services", "Retail Solutions"}
	default:
		return []string{"Professional Services", "Industry Solutions", "Specialized Expertise"}
	}
}
