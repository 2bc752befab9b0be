package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/analyzer"
	"github.com/sells-group/lead-cli/internal/cache"
	"github.com/sells-group/lead-cli/internal/config"
	"github.com/sells-group/lead-cli/internal/leads"
	"github.com/sells-group/lead-cli/internal/llm"
	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/pipeline"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

const testID = "0f8fad5b-d9cb-469f-a165-70867728950e"

func savedResult(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	store, err := pipeline.NewResultStore(dir)
	require.NoError(t, err)

	profile := &model.CompanyProfile{
		CompanyType:  model.CompanyTypeB2B,
		Industry:     model.IndustryTechnology,
		CompanySize:  model.SizeMedium,
		TargetMarket: []string{"B2B Companies"},
		Offerings:    []string{"Cloud Services"},
	}
	leads := []model.Lead{{Name: "Alex Smith", Role: "CTO", Email: "alex.smith@acme.com", LeadType: model.LeadTypeInternal, ConfidenceScore: 80}}
	res := model.NewResult(testID, "https://acme.com", "acme.com", profile, leads, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(res))
	return dir
}

func TestExportResult_Stdout(t *testing.T) {
	dir := savedResult(t)

	var buf bytes.Buffer
	require.NoError(t, exportResult(&buf, dir, testID, "json", ""))

	var got model.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "acme.com", got.Domain)
	require.Len(t, got.Leads, 1)
}

func TestExportResult_File(t *testing.T) {
	dir := savedResult(t)
	out := filepath.Join(t.TempDir(), "leads.csv")

	var buf bytes.Buffer
	require.NoError(t, exportResult(&buf, dir, testID, "CSV", out))
	assert.Zero(t, buf.Len())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "alex.smith@acme.com")
}

func TestExportResult_Errors(t *testing.T) {
	dir := savedResult(t)
	var buf bytes.Buffer

	assert.Error(t, exportResult(&buf, dir, testID, "pdf", ""))

	err := exportResult(&buf, dir, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", "json", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "result not found")
}

func TestClearCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.Open(ctx, config.CacheConfig{Driver: "file", Dir: t.TempDir()})
	require.NoError(t, err)

	c.Save(ctx, cache.NamespaceAnalysis, "analysis_acme.com", map[string]string{"industry": "Technology"})
	c.Save(ctx, cache.NamespaceLeads, "leads_acme.com", []string{"alex"})

	var buf bytes.Buffer
	require.NoError(t, clearCache(ctx, &buf, c, cache.NamespaceLeads))
	assert.Equal(t, "removed 1 cached entries\n", buf.String())

	var out map[string]string
	assert.True(t, c.Load(ctx, cache.NamespaceAnalysis, "analysis_acme.com", &out))

	buf.Reset()
	require.NoError(t, clearCache(ctx, &buf, c, ""))
	assert.Equal(t, "removed 1 cached entries\n", buf.String())
	assert.False(t, c.Load(ctx, cache.NamespaceAnalysis, "analysis_acme.com", &out))
}

func TestClearCache_UnknownNamespace(t *testing.T) {
	ctx := context.Background()
	c, err := cache.Open(ctx, config.CacheConfig{Driver: "file", Dir: t.TempDir()})
	require.NoError(t, err)

	err = clearCache(ctx, &bytes.Buffer{}, c, "sessions")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown namespace")
}

func TestReadJSONFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "record.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"url":"https://acme.com","domain":"acme.com"}`), 0o644))

	var rec model.WebsiteRecord
	require.NoError(t, readJSONFile(good, &rec))
	assert.Equal(t, "acme.com", rec.Domain)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
	assert.Error(t, readJSONFile(bad, &rec))
	assert.Error(t, readJSONFile(filepath.Join(dir, "missing.json"), &rec))
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	a := analyzer.New(llm.New(nil, llm.Options{}), nil, analyzer.PrepareOptions{})

	bare := filepath.Join(dir, "bare.json")
	require.NoError(t, os.WriteFile(bare, []byte(`{"offerings":"Cloud solutions","decision_maker_roles":"CTO"}`), 0o644))
	p, err := loadProfile(ctx, a, bare)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cloud solutions"}, p.Offerings)
	assert.Equal(t, []string{"CTO"}, p.DecisionMakerRoles)
	assert.Equal(t, model.CompanyTypeUnknown, p.CompanyType)
	assert.Equal(t, model.SizeUnknown, p.CompanySize)
	assert.Equal(t, model.UnknownList(), p.TargetMarket)

	g, err := leads.New(llm.New(nil, llm.Options{}), nil, leads.Options{})
	require.NoError(t, err)
	out, err := g.Generate(ctx, p, "acme.com", false)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "CTO", out[0].Role)
	assert.Equal(t, model.LeadTypeInternal, out[0].LeadType)

	sparse := filepath.Join(dir, "sparse.json")
	require.NoError(t, os.WriteFile(sparse, []byte(`{"industry":"Technology"}`), 0o644))
	p, err = loadProfile(ctx, a, sparse)
	require.NoError(t, err)
	assert.Equal(t, model.IndustryTechnology, p.Industry)
	assert.Equal(t, model.CompanyTypeUnknown, p.CompanyType)
	assert.Equal(t, model.SizeUnknown, p.CompanySize)
	assert.Equal(t, model.UnknownList(), p.TargetMarket)
	assert.NotEmpty(t, p.Offerings)
	assert.NotEmpty(t, p.DecisionMakerRoles)
	assert.Equal(t, model.UnknownList(), p.PainPoints)

	notObject := filepath.Join(dir, "list.json")
	require.NoError(t, os.WriteFile(notObject, []byte(`["CTO"]`), 0o644))
	_, err = loadProfile(ctx, a, notObject)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a JSON object")

	_, err = loadProfile(ctx, a, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
