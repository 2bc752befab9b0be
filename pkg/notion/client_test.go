package notion

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	args := m.Called(ctx, dbID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.DatabaseQueryResponse), args.Error(1)
}

func (m *MockClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func (m *MockClient) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, pageID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func TestMockClientSatisfiesInterface(t *testing.T) {
	t.Parallel()
	var _ Client = (*MockClient)(nil)
}

func TestNewClient_DefaultRateLimit(t *testing.T) {
	c := NewClient("test-token").(*notionClient)
	require.NotNil(t, c.limiter)
	assert.Equal(t, rate.Limit(DefaultRateLimit), c.limiter.Limit())
}

func TestNewClient_WithRateLimit(t *testing.T) {
	c := NewClient("test-token", WithRateLimit(10)).(*notionClient)
	require.NotNil(t, c.limiter)
	assert.Equal(t, 10, c.limiter.Burst())

	c = NewClient("test-token", WithRateLimit(0)).(*notionClient)
	assert.Nil(t, c.limiter)
}

func TestCall_CancelledContextSkipsRequest(t *testing.T) {
	c := &notionClient{limiter: rate.NewLimiter(rate.Limit(0.001), 0)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := call(ctx, c, "probe", func() (int, error) {
		called = true
		return 1, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notion: rate limit")
	assert.False(t, called)
}

func TestCall_WrapsError(t *testing.T) {
	c := &notionClient{}
	_, err := call(context.Background(), c, "create page", func() (*notionapi.Page, error) {
		return nil, assert.AnError
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notion: create page")
}
