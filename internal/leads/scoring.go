package leads

import "github.com/sells-group/lead-cli/internal/model"

const (
	baseMatchScore = 70
	maxMatchScore  = 95
	jitter         = 5
	maxConfidence  = 95
)

// Potential value buckets.
const (
	ValueHigh   = "High"
	ValueMedium = "Medium"
	ValueLow    = "Low"
)

// matchScore rates a catalog prospect: base score, category relevance for
// the prospect's industry, size fit, then jitter. The result is in [0,100].
func matchScore(cat *Category, industry, buyerSize string, sellerSize model.CompanySize, rnd Rand) int {
	score := baseMatchScore + cat.Bonus[industry] + sizeBonus(buyerSize, sellerSize)
	if score > maxMatchScore {
		score = maxMatchScore
	}
	score += rnd.IntN(2*jitter+1) - jitter
	return clamp(score, 0, 100)
}

// sizeBonus rewards prospects of the seller's size, and prospects one size
// up from a small or medium seller.
func sizeBonus(buyer string, seller model.CompanySize) int {
	switch {
	case buyer == string(seller):
		return 10
	case seller == model.SizeMedium && buyer == string(model.SizeLarge),
		seller == model.SizeSmall && buyer == string(model.SizeMedium):
		return 5
	}
	return 0
}

func potentialValue(score int) string {
	switch {
	case score >= 85:
		return ValueHigh
	case score >= 70:
		return ValueMedium
	default:
		return ValueLow
	}
}

// confidenceScore rates an internal contact by how well the profile is known
// and how senior the role is.
func confidenceScore(role string, companyType model.CompanyType) int {
	score := 50
	if companyType != model.CompanyTypeUnknown && companyType != "" {
		score += 10
	}
	score += seniorityBonus(role)
	return clamp(score, 0, maxConfidence)
}

func seniorityBonus(role string) int {
	words := roleWords(role)
	switch {
	case isCLevel(words):
		return 20
	case hasAny(words, "director", "vp", "vice", "head"):
		return 15
	case hasAny(words, "manager"):
		return 10
	}
	return 0
}

func isCLevel(words map[string]bool) bool {
	if hasAny(words, "chief", "founder") || (words["president"] && !words["vice"]) {
		return true
	}
	for w := range words {
		if n := len(w); n >= 3 && n <= 4 && w[0] == 'c' && w[n-1] == 'o' {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
