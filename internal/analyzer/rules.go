package analyzer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/lead-cli/internal/model"
)

// Rule-based field derivation used when the model is unavailable or its
// reply cannot be parsed. Every function here is deterministic in its input.

var companyTypeIndicators = []struct {
	companyType model.CompanyType
	words       []string
}{
	{model.CompanyTypeB2B, []string{"business", "enterprise", "organization", "company", "client", "solution"}},
	{model.CompanyTypeB2C, []string{"consumer", "customer", "individual", "personal", "user", "people"}},
	{model.CompanyTypeGovernment, []string{"government", "public sector", "agency", "federal", "state", "municipal"}},
	{model.CompanyTypeNonProfit, []string{"non-profit", "nonprofit", "charity", "foundation", "community", "donation"}},
}

// GuessCompanyType tallies substring occurrences per company type. The
// highest tally wins; ties go to the earlier type; all zero is Unknown.
func GuessCompanyType(text string) model.CompanyType {
	text = strings.ToLower(text)
	best, bestCount := model.CompanyTypeUnknown, 0
	for _, ind := range companyTypeIndicators {
		n := 0
		for _, w := range ind.words {
			n += strings.Count(text, w)
		}
		if n > bestCount {
			best, bestCount = ind.companyType, n
		}
	}
	return best
}

var industryPatterns = []struct {
	industry string
	re       *regexp.Regexp
}{
	{model.IndustryTechnology, regexp.MustCompile(`(?i)\b(tech|technology|technologies|software|information technology|computing|digital|ai|artificial intelligence)\b`)},
	{model.IndustryHealthcare, regexp.MustCompile(`(?i)\b(health|healthcare|medical|hospital|pharma|doctor|patient|clinic)\b`)},
	{model.IndustryFinance, regexp.MustCompile(`(?i)\b(finance|bank|banking|investment|insurance|loan|mortgage|financial)\b`)},
	{model.IndustryEducation, regexp.MustCompile(`(?i)\b(education|school|university|college|learning|student|teacher)\b`)},
	{model.IndustryManufacturing, regexp.MustCompile(`(?i)\b(manufacturing|factory|production|industrial|machinery)\b`)},
	{model.IndustryRetail, regexp.MustCompile(`(?i)\b(retail|shop|store|ecommerce|product|consumer)\b`)},
	{model.IndustryConsulting, regexp.MustCompile(`(?i)\b(consulting|consultant|advisor|professional service)\b`)},
}

// GuessIndustry returns the first industry whose pattern matches text.
func GuessIndustry(text string) string {
	for _, p := range industryPatterns {
		if p.re.MatchString(text) {
			return p.industry
		}
	}
	return model.Unknown
}

func wordRe(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

var (
	largeSizeRe  = wordRe("enterprise", "corporation", "global", "nationwide", "international")
	mediumSizeRe = wordRe("growing", "mid-size", "medium")
	smallSizeRe  = wordRe("small", "startup", "founder", "small business")
	teamOfRe     = regexp.MustCompile(`(?i)team of (\d+)`)
)

// GuessCompanySize checks large, medium, then small indicators, then a
// "team of N" mention. Defaults to Medium.
func GuessCompanySize(text string) model.CompanySize {
	switch {
	case largeSizeRe.MatchString(text):
		return model.SizeLarge
	case mediumSizeRe.MatchString(text):
		return model.SizeMedium
	case smallSizeRe.MatchString(text):
		return model.SizeSmall
	}
	if m := teamOfRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
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
	return model.SizeMedium
}

var (
	b2bMarketRe      = wordRe("enterprise", "business", "companies", "organizations", "firms")
	b2cMarketRe      = wordRe("consumer", "individual", "personal", "people", "family")
	marketIndustries = []string{"healthcare", "finance", "retail", "education", "manufacturing", "technology"}
)

// GuessTargetMarket labels the audiences text speaks to.
func GuessTargetMarket(text string) []string {
	var out []string
	if b2bMarketRe.MatchString(text) {
		out = append(out, "B2B Companies")
	}
	if b2cMarketRe.MatchString(text) {
		out = append(out, "Individual Consumers")
	}
	for _, ind := range marketIndustries {
		if wordRe(ind).MatchString(text) {
			out = append(out, titleCaser.String(ind)+" Industry")
		}
	}
	if len(out) == 0 {
		return model.UnknownList()
	}
	return out
}

const maxPainPoints = 5

var painPointRes = func() []*regexp.Regexp {
	indicators := []string{
		"challenge", "problem", "struggle", "difficulty", "obstacle",
		"improve", "optimize", "streamline", "enhance", "simplify",
		"reduce costs", "save time", "increase efficiency",
	}
	res := make([]*regexp.Regexp, len(indicators))
	for i, ind := range indicators {
		res[i] = regexp.MustCompile(`(?i)(?:` + regexp.QuoteMeta(ind) + `)\s+([^.!?;]+)`)
	}
	return res
}()

// GuessPainPoints collects the clause following each problem or improvement
// keyword, keeping clauses of 11 to 99 characters.
func GuessPainPoints(text string) []string {
	var found []string
	for _, re := range painPointRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			clause := strings.TrimSpace(m[1])
			if n := utf8.RuneCountInString(clause); n > 10 && n < 100 {
				found = append(found, clause)
			}
		}
	}
	out := dedupe(found, maxPainPoints)
	if len(out) == 0 {
		return model.UnknownList()
	}
	return out
}

type department struct {
	name     string
	keywords *regexp.Regexp
	roles    []string
	baseline int
}

var departments = []department{
	{"Executive", wordRe("leadership", "strategy", "executive", "vision", "growth"), []string{"CEO", "President", "COO"}, 1},
	{"Technology", wordRe("software", "technology", "platform", "cloud", "data", "engineering", "api", "integration", "security"), []string{"CTO", "VP of Engineering", "Director of IT"}, 0},
	{"Marketing", wordRe("marketing", "brand", "campaign", "content", "audience", "engagement", "social media"), []string{"CMO", "VP of Marketing", "Digital Marketing Director"}, 0},
	{"Sales", wordRe("sales", "revenue", "pipeline", "deal", "deals", "partner", "partners"), []string{"VP of Sales", "Sales Director", "Head of Business Development"}, 0},
	{"Finance", wordRe("finance", "financial", "accounting", "budget", "cost", "costs", "payment", "billing"), []string{"CFO", "VP of Finance", "Controller"}, 0},
	{"Operations", wordRe("operations", "logistics", "supply chain", "efficiency", "process", "workflow"), []string{"COO", "VP of Operations", "Operations Director"}, 0},
	{"Human Resources", wordRe("hiring", "talent", "recruiting", "employee", "employees", "culture", "hr"), []string{"CHRO", "VP of People", "HR Director"}, 0},
	{"Product", wordRe("product", "products", "feature", "features", "design", "roadmap", "user experience", "ux"), []string{"CPO", "VP of Product", "Product Director"}, 0},
}

// GuessDecisionMakerRoles scores each department by keyword hits and returns
// the roles of the two best scoring departments. Departments scoring zero are
// never selected; Executive always scores at least one.
func GuessDecisionMakerRoles(text string) []string {
	type scored struct {
		dept  department
		score int
	}
	all := make([]scored, 0, len(departments))
	for _, d := range departments {
		all = append(all, scored{d, d.baseline + len(d.keywords.FindAllStringIndex(text, -1))})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	var roles []string
	for i := 0; i < 2 && i < len(all); i++ {
		if all[i].score == 0 {
			break
		}
		roles = append(roles, all[i].dept.roles...)
	}
	return dedupe(roles, 0)
}

// dedupe drops blanks and case-insensitive repeats, keeping the first
// spelling. limit <= 0 means no cap.
func dedupe(items []string, limit int) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		it = strings.TrimSpace(it)
		k := strings.ToLower(it)
		if it == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
