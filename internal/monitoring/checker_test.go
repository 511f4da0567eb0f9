package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/cost"
	"github.com/sells-group/lead-intel/internal/usage"
)

func TestChecker_RunStopsOnCancel(t *testing.T) {
	collector := NewCollector(usage.NewMemoryTracker(), cost.NewCalculator(cost.DefaultQuotas()), nil, nil)
	checker := NewChecker(collector, NewAlerter(config.MonitoringConfig{}), config.MonitoringConfig{CheckIntervalSecs: 1})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		checker.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Checker.Run did not stop after context cancellation")
	}
}

func TestChecker_DefaultInterval(t *testing.T) {
	collector := NewCollector(usage.NewMemoryTracker(), cost.NewCalculator(nil), nil, nil)
	checker := NewChecker(collector, NewAlerter(config.MonitoringConfig{}), config.MonitoringConfig{})
	require.NotNil(t, checker)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	checker.Run(ctx)
}

func TestChecker_SendsEachConditionOnce(t *testing.T) {
	var received atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		received.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	ctx := context.Background()
	tr := usage.NewMemoryTracker()
	cfg := config.MonitoringConfig{WebhookURL: ts.URL, QuotaWarnRatio: 0.8}
	collector := NewCollector(tr, cost.NewCalculator(map[string]cost.Quota{"hunter": {Monthly: 2}}), nil, nil)
	checker := NewChecker(collector, NewAlerter(cfg), cfg)

	assert.Empty(t, checker.Check(ctx))

	_, _ = tr.Increment(ctx, usage.Hunter)
	_, _ = tr.Increment(ctx, usage.Hunter)
	fresh := checker.Check(ctx)
	require.Len(t, fresh, 1)
	assert.Equal(t, AlertQuotaExhausted, fresh[0].Type)

	assert.Empty(t, checker.Check(ctx))
	assert.Equal(t, int32(1), received.Load())
}
