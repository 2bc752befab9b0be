package leads

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/llm"
	"github.com/sells-group/lead-cli/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// fixedRand always draws the lowest value, or the highest when high is set.
type fixedRand struct{ high bool }

func (f fixedRand) IntN(n int) int {
	if f.high {
		return n - 1
	}
	return 0
}

type fakeModel struct {
	mu        sync.Mutex
	available bool
	reply     string
	calls     int
}

func (f *fakeModel) Generate(context.Context, string, ...llm.Option) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.reply
}

func (f *fakeModel) Available() bool { return f.available }

func exampleProfile() *model.CompanyProfile {
	return &model.CompanyProfile{
		CompanyType:        model.CompanyTypeB2B,
		Industry:           model.IndustryTechnology,
		TargetMarket:       []string{"Enterprise companies"},
		Offerings:          []string{"Cloud solutions", "Data analytics"},
		CompanySize:        model.SizeMedium,
		DecisionMakerRoles: []string{"CTO", "VP of Engineering"},
		PainPoints:         []string{"Legacy system integration"},
	}
}
