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

func (m *MockClient) FindByKey(ctx context.Context, dbID, key string) (string, error) {
	args := m.Called(ctx, dbID, key)
	return args.String(0), args.Error(1)
}

func (m *MockClient) CreatePage(ctx context.Context, dbID string, props notionapi.Properties) (string, error) {
	args := m.Called(ctx, dbID, props)
	return args.String(0), args.Error(1)
}

func (m *MockClient) UpdatePage(ctx context.Context, pageID string, props notionapi.Properties) error {
	args := m.Called(ctx, pageID, props)
	return args.Error(0)
}

var _ Client = (*MockClient)(nil)

func TestNewClient_DefaultThrottle(t *testing.T) {
	lc := NewClient("test-token").(*leadsClient)
	require.NotNil(t, lc.api)
	require.NotNil(t, lc.limiter)
	assert.Equal(t, rate.Limit(DefaultRPS), lc.limiter.Limit())
}

func TestWithRateLimit(t *testing.T) {
	lc := NewClient("t", WithRateLimit(10)).(*leadsClient)
	assert.Equal(t, 10, lc.limiter.Burst())

	lc = NewClient("t", WithRateLimit(0)).(*leadsClient)
	assert.Nil(t, lc.limiter)
	assert.NoError(t, lc.wait(context.Background()))
}

func TestWait_CancelledContext(t *testing.T) {
	lc := NewClient("t", WithRateLimit(0.001)).(*leadsClient)
	require.True(t, lc.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := lc.wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notion: rate limit")
}

func TestKeyQuery(t *testing.T) {
	req := keyQuery("https://www.linkedin.com/in/jane")

	f, ok := req.Filter.(notionapi.PropertyFilter)
	require.True(t, ok)
	assert.Equal(t, PropLeadKey, f.Property)
	require.NotNil(t, f.RichText)
	assert.Equal(t, "https://www.linkedin.com/in/jane", f.RichText.Equals)
	assert.Equal(t, 1, req.PageSize)
}
