package analyzer

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/llm"
	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/offering"
)

const (
	maxOfferings       = 6
	offeringsPromptLen = 4000
	minOfferingLen     = 4
)

const offeringsPrompt = "Analyze the following website content and identify the specific products or services offered by this company. " +
	"Focus on finding concrete offerings rather than general capabilities. " +
	"Look for sections like 'Products', 'Services', 'Solutions', or 'What We Offer'. " +
	"Return a comma-separated list of 3-6 specific offerings (e.g., 'Cloud Storage, AI Consulting, Data Analytics'). " +
	"Be as specific as possible with each offering. " +
	"If you can't determine the offerings with confidence, respond with 'Unknown':\n\n"

// offeringStrategy extracts raw offering candidates from text. Strategies
// are tried in order and the first one yielding cleaned results wins.
type offeringStrategy struct {
	name    string
	extract func(ctx context.Context, text string) []string
}

func (a *Analyzer) offeringStrategies(modelAvailable bool) []offeringStrategy {
	var s []offeringStrategy
	if modelAvailable && a.gen.Available() {
		s = append(s, offeringStrategy{"llm", a.llmOfferings})
	}
	return append(s,
		offeringStrategy{"headings", headingOfferings},
		offeringStrategy{"statements", statementOfferings},
	)
}

// extractOfferings runs the strategy table against text and falls back to
// industry inference using the profile built so far.
func (a *Analyzer) extractOfferings(ctx context.Context, text string, modelAvailable bool, industry string, companyType model.CompanyType) []string {
	if strings.TrimSpace(text) != "" {
		for _, st := range a.offeringStrategies(modelAvailable) {
			if got := cleanOfferings(st.extract(ctx, text)); len(got) > 0 {
				zap.L().Debug("analyzer: offerings extracted",
					zap.String("strategy", st.name),
					zap.Int("count", len(got)),
				)
				return got
			}
		}
	}
	return offering.Infer(industry, companyType)
}

func (a *Analyzer) llmOfferings(ctx context.Context, text string) []string {
	excerpt, _ := truncate(text, offeringsPromptLen)
	reply := strings.TrimSpace(a.gen.Generate(ctx, offeringsPrompt+excerpt))
	if llm.IsSentinel(reply) || model.IsPlaceholder(strings.Trim(reply, "'\".")) {
		return nil
	}
	if items, ok := llm.ParseArray(reply); ok {
		var out []string
		for _, it := range items {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return splitOfferingList(reply)
}

// splitOfferingList splits a comma separated or line based reply. List
// markers are stripped and lead-in lines such as "Offerings:" are dropped.
func splitOfferingList(reply string) []string {
	var out []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}
		line = listMarkerRe.ReplaceAllString(line, "")
		out = append(out, strings.Split(line, ",")...)
	}
	return out
}

var (
	offeringSectionRe = regexp.MustCompile(`(?i)(?:Our|Key|Main)\s+(?:Services|Products|Solutions|Offerings)(?:[:\s]*)([^#]+?)(?:\n\n|$)`)
	offeringBulletRe  = regexp.MustCompile(`(?:•|\*|-|\d+\.)\s*([^\n•*\-\d]+)`)
	offeringClauseRe  = regexp.MustCompile(`(?i)\b(?:We|Our company)\s+(?:provide|offer|deliver|specialize in)\s+([^.]+)`)
	clauseSplitRe     = regexp.MustCompile(`\s+and\s+|,\s*`)
	listMarkerRe      = regexp.MustCompile(`^(?:[-*•]\s+|\d+[.)]\s*)`)
)

// headingOfferings reads bullet items under "Our Services"-style headings.
func headingOfferings(_ context.Context, text string) []string {
	var out []string
	for _, sec := range offeringSectionRe.FindAllStringSubmatch(text, -1) {
		n := 0
		for _, m := range offeringBulletRe.FindAllStringSubmatch(sec[1], -1) {
			if item := strings.TrimSpace(m[1]); len(item) > 3 {
				out = append(out, item)
				if n++; n == maxOfferings {
					break
				}
			}
		}
	}
	return out
}

// statementOfferings splits "we offer X, Y and Z" clauses into items.
func statementOfferings(_ context.Context, text string) []string {
	var out []string
	for _, m := range offeringClauseRe.FindAllStringSubmatch(text, -1) {
		n := 0
		for _, part := range clauseSplitRe.Split(m[1], -1) {
			if item := strings.TrimSpace(part); len(item) > 3 {
				out = append(out, item)
				if n++; n == maxOfferings {
					break
				}
			}
		}
	}
	return out
}

var genericOfferings = map[string]bool{
	"services":  true,
	"products":  true,
	"solutions": true,
}

// cleanOfferings trims list noise, drops short, generic and placeholder
// items, dedupes and caps the result.
func cleanOfferings(items []string) []string {
	kept := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.Trim(strings.TrimSpace(it), "-*•'\".;: ")
		if len([]rune(it)) < minOfferingLen || genericOfferings[strings.ToLower(it)] || model.IsPlaceholder(it) {
			continue
		}
		kept = append(kept, it)
	}
	return dedupe(kept, maxOfferings)
}
