package leads

import (
	"fmt"

	"github.com/sells-group/lead-cli/internal/model"
)

const maxSuggestions = 3

type roleFamily struct {
	words       []string
	suggestions []string
}

// Families are checked in order; the first whose words appear in the role
// supplies the opening suggestions.
var roleFamilies = []roleFamily{
	{
		words: []string{"cto", "technical", "engineering", "technology", "developer"},
		suggestions: []string{
			"Focus on technical capabilities and integration ease",
			"Highlight case studies with technical ROI metrics",
		},
	},
	{
		words: []string{"cio", "it", "information", "security"},
		suggestions: []string{
			"Emphasize security and system reliability",
			"Show how your solution fits their existing IT landscape",
		},
	},
	{
		words: []string{"coo", "operations", "supply", "procurement", "purchasing", "plant", "fleet"},
		suggestions: []string{
			"Lead with measurable operational efficiency gains",
			"Share process improvement results from similar deployments",
		},
	},
	{
		words: []string{"cmo", "marketing", "brand", "merchandising", "commerce"},
		suggestions: []string{
			"Emphasize marketing analytics and customer insights",
			"Share content about improving customer engagement",
		},
	},
	{
		words: []string{"cfo", "finance", "financial", "controller", "accounting", "risk"},
		suggestions: []string{
			"Focus on cost savings and ROI calculations",
			"Provide clear pricing and implementation timelines",
		},
	},
	{
		words: []string{"ceo", "president", "founder", "owner", "partner", "executive"},
		suggestions: []string{
			"Address strategic business outcomes and competitive advantage",
			"Reference similar companies where your solution made an impact",
		},
	},
}

var genericSuggestions = []string{
	"Open with a concise summary of the business value you deliver",
	"Offer a short discovery call to learn their current priorities",
}

// outreachSuggestions tailors up to three talking points to a contact.
func outreachSuggestions(role, industry string, painPoints []string) []string {
	words := roleWords(role)
	out := genericSuggestions
	for _, f := range roleFamilies {
		if hasAny(words, f.words...) {
			out = f.suggestions
			break
		}
	}
	out = append([]string(nil), out...)

	if industry != "" && !model.IsPlaceholder(industry) {
		out = append(out, fmt.Sprintf("Mention your experience in the %s industry", industry))
	}
	for _, pp := range painPoints {
		if !model.IsPlaceholder(pp) {
			out = append(out, "Address their challenge: "+pp)
			break
		}
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
