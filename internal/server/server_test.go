package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/pipeline"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

const testID = "0f8fad5b-d9cb-469f-a165-70867728950e"

type fakeRunner struct {
	calls   atomic.Int32
	gate    chan struct{}
	err     error
	lastURL atomic.Value
	lastOpt atomic.Value
}

func (f *fakeRunner) Run(_ context.Context, rawURL string, opts pipeline.RunOptions) (*model.Result, error) {
	f.calls.Add(1)
	f.lastURL.Store(rawURL)
	f.lastOpt.Store(opts)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return testResult(), nil
}

type fakeResults map[string]*model.Result

func (f fakeResults) Load(id string) (*model.Result, error) {
	if id == "bad" {
		return nil, pipeline.ErrInvalidResultID
	}
	if id == "broken" {
		return nil, errors.New("disk error")
	}
	r, ok := f[id]
	if !ok {
		return nil, pipeline.ErrResultNotFound
	}
	return r, nil
}

func testResult() *model.Result {
	profile := &model.CompanyProfile{
		CompanyType:  model.CompanyTypeB2B,
		Industry:     model.IndustryTechnology,
		CompanySize:  model.SizeMedium,
		TargetMarket: []string{"B2B Companies"},
		Offerings:    []string{"Cloud Services"},
	}
	leads := []model.Lead{{Name: "Alex Smith", Role: "CTO", Email: "alex.smith@acme.com", LeadType: model.LeadTypeInternal, ConfidenceScore: 80}}
	return model.NewResult(testID, "https://acme.com", "acme.com", profile, leads, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
}

func newTestServer(t *testing.T, runner *fakeRunner) *httptest.Server {
	t.Helper()
	srv := New(runner, fakeResults{testID: testResult()}, Options{AllowedOrigins: []string{"https://app.example.com"}})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &fakeRunner{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestAnalyze(t *testing.T) {
	runner := &fakeRunner{}
	ts := newTestServer(t, runner)

	resp, err := http.Post(ts.URL+"/analyze", "application/json", strings.NewReader(`{"url":"Acme.com/","force_refresh":true}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.Result
	decode(t, resp, &got)
	assert.Equal(t, testID, got.ID)
	assert.Equal(t, "https://acme.com", runner.lastURL.Load())
	assert.Equal(t, pipeline.RunOptions{ForceRefresh: true, Save: true}, runner.lastOpt.Load())
}

func TestAnalyze_BadRequests(t *testing.T) {
	ts := newTestServer(t, &fakeRunner{})

	for name, body := range map[string]string{
		"not json": `{`,
		"no url":   `{"force_refresh":true}`,
		"bad url":  `{"url":"http://"}`,
	} {
		resp, err := http.Post(ts.URL+"/analyze", "application/json", strings.NewReader(body))
		require.NoError(t, err, name)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, name)
		var e map[string]string
		decode(t, resp, &e)
		assert.NotEmpty(t, e["error"], name)
	}
}

func TestAnalyze_RunFailure(t *testing.T) {
	ts := newTestServer(t, &fakeRunner{err: errors.New("scrape: acme.com returned status 503")})

	resp, err := http.Post(ts.URL+"/analyze", "application/json", strings.NewReader(`{"url":"acme.com"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var e map[string]string
	decode(t, resp, &e)
	assert.Contains(t, e["error"], "returned status 503")
}

func TestAnalyze_ConcurrentRequestsShareRun(t *testing.T) {
	runner := &fakeRunner{gate: make(chan struct{})}
	ts := newTestServer(t, runner)

	const n = 5
	var wg sync.WaitGroup
	codes := make([]int, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(ts.URL+"/analyze", "application/json", strings.NewReader(`{"url":"acme.com"}`))
			if err != nil {
				return
			}
			codes[i] = resp.StatusCode
			_ = resp.Body.Close()
		}()
	}

	require.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	// Let the other requests reach the flight before releasing it.
	time.Sleep(100 * time.Millisecond)
	close(runner.gate)
	wg.Wait()

	for _, c := range codes {
		assert.Equal(t, http.StatusOK, c)
	}
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestResults(t *testing.T) {
	ts := newTestServer(t, &fakeRunner{})

	resp, err := http.Get(ts.URL + "/results/" + testID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got model.Result
	decode(t, resp, &got)
	assert.Equal(t, "acme.com", got.Domain)

	for _, id := range []string{"bad", "1b4e28ba-2fa1-11d2-883f-0016d3cca427"} {
		resp, err := http.Get(ts.URL + "/results/" + id)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, id)
		_ = resp.Body.Close()
	}

	resp, err = http.Get(ts.URL + "/results/broken")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestExport(t *testing.T) {
	ts := newTestServer(t, &fakeRunner{})

	resp, err := http.Get(ts.URL + "/export/" + testID + "/csv")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="leads_acme_com.csv"`, resp.Header.Get("Content-Disposition"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "alex.smith@acme.com")
}

func TestExport_Errors(t *testing.T) {
	ts := newTestServer(t, &fakeRunner{})

	resp, err := http.Get(ts.URL + "/export/" + testID + "/pdf")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = http.Get(ts.URL + "/export/1b4e28ba-2fa1-11d2-883f-0016d3cca427/json")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, &fakeRunner{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/analyze", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}
