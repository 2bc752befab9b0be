package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type mockScraper struct{ mock.Mock }

func (m *mockScraper) Scrape(ctx context.Context, rawURL string, useCache bool) (*model.WebsiteRecord, error) {
	args := m.Called(ctx, rawURL, useCache)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WebsiteRecord), args.Error(1)
}

type mockAnalyzer struct{ mock.Mock }

func (m *mockAnalyzer) Analyze(ctx context.Context, rec *model.WebsiteRecord, useCache bool) (*model.CompanyProfile, error) {
	args := m.Called(ctx, rec, useCache)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CompanyProfile), args.Error(1)
}

type mockLeads struct{ mock.Mock }

func (m *mockLeads) Generate(ctx context.Context, p *model.CompanyProfile, domain string, useCache bool) ([]model.Lead, error) {
	args := m.Called(ctx, p, domain, useCache)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

const testID = "0f8fad5b-d9cb-469f-a165-70867728950e"

var (
	testRecord = &model.WebsiteRecord{
		URL:    "https://acme.com",
		Domain: "acme.com",
		Name:   "Acme",
	}
	testProfile = &model.CompanyProfile{
		CompanyType:        model.CompanyTypeB2B,
		Industry:           model.IndustryTechnology,
		CompanySize:        model.SizeMedium,
		TargetMarket:       []string{"B2B Companies", "Retail Industry"},
		Offerings:          []string{"Software Development"},
		DecisionMakerRoles: []string{"CTO"},
		PainPoints:         model.UnknownList(),
		Details:            map[string]any{"company_name": "Acme Corp"},
		Source:             model.SourceLLM,
	}
	testLeads = []model.Lead{{Name: "Alex Smith", Role: "CTO", LeadType: model.LeadTypeInternal}}
)

func newTestPipeline(t *testing.T) (*Pipeline, *mockScraper, *mockAnalyzer, *mockLeads, *ResultStore) {
	t.Helper()
	store, err := NewResultStore(t.TempDir())
	require.NoError(t, err)

	s, a, l := &mockScraper{}, &mockAnalyzer{}, &mockLeads{}
	p := New(s, a, l, store)
	p.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	p.newID = func() string { return testID }
	return p, s, a, l, store
}

func TestPipeline_Run_FullFlow(t *testing.T) {
	ctx := context.Background()
	p, s, a, l, store := newTestPipeline(t)

	s.On("Scrape", ctx, "acme.com", true).Return(testRecord, nil)
	a.On("Analyze", ctx, testRecord, true).Return(testProfile, nil)
	l.On("Generate", ctx, testProfile, "acme.com", true).Return(testLeads, nil)

	result, err := p.Run(ctx, "acme.com", RunOptions{Save: true})
	require.NoError(t, err)

	assert.Equal(t, testID, result.ID)
	assert.Equal(t, "https://acme.com", result.URL)
	assert.Equal(t, "acme.com", result.Domain)
	assert.Equal(t, "Acme Corp", result.Company.Name)
	assert.Equal(t, "B2B", result.Company.Type)
	assert.Equal(t, "B2B Companies, Retail Industry", result.Company.TargetMarket)
	assert.Equal(t, testLeads, result.Leads)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), result.CreatedAt)

	saved, err := store.Load(testID)
	require.NoError(t, err)
	assert.Equal(t, result.Company, saved.Company)
	assert.Equal(t, result.Leads, saved.Leads)

	s.AssertExpectations(t)
	a.AssertExpectations(t)
	l.AssertExpectations(t)
}

func TestPipeline_Run_ForceRefreshBypassesCaches(t *testing.T) {
	ctx := context.Background()
	p, s, a, l, store := newTestPipeline(t)

	s.On("Scrape", ctx, "acme.com", false).Return(testRecord, nil)
	a.On("Analyze", ctx, testRecord, false).Return(testProfile, nil)
	l.On("Generate", ctx, testProfile, "acme.com", false).Return(testLeads, nil)

	_, err := p.Run(ctx, "acme.com", RunOptions{ForceRefresh: true})
	require.NoError(t, err)

	_, err = store.Load(testID)
	assert.ErrorIs(t, err, ErrResultNotFound)
	s.AssertExpectations(t)
}

func TestPipeline_Run_ScrapeFailureStops(t *testing.T) {
	ctx := context.Background()
	p, s, a, l, _ := newTestPipeline(t)

	s.On("Scrape", ctx, "acme.com", true).Return(nil, errors.New("connection refused"))

	_, err := p.Run(ctx, "acme.com", RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline: scrape")
	a.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
	l.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_Run_AnalyzeFailure(t *testing.T) {
	ctx := context.Background()
	p, s, a, l, _ := newTestPipeline(t)

	s.On("Scrape", ctx, "acme.com", true).Return(testRecord, nil)
	a.On("Analyze", ctx, testRecord, true).Return(nil, errors.New("no domain"))

	_, err := p.Run(ctx, "acme.com", RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline: analyze")
	l.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_Run_SaveWithoutStore(t *testing.T) {
	ctx := context.Background()
	s, a, l := &mockScraper{}, &mockAnalyzer{}, &mockLeads{}
	p := New(s, a, l, nil)

	s.On("Scrape", ctx, "acme.com", true).Return(testRecord, nil)
	a.On("Analyze", ctx, testRecord, true).Return(testProfile, nil)
	l.On("Generate", ctx, testProfile, "acme.com", true).Return(testLeads, nil)

	_, err := p.Run(ctx, "acme.com", RunOptions{Save: true})
	assert.Error(t, err)
}
