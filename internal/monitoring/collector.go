package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intel/internal/cost"
	"github.com/sells-group/lead-intel/internal/resilience"
	"github.com/sells-group/lead-intel/internal/usage"
)

// Snapshot holds a point-in-time view of provider health and spend.
type Snapshot struct {
	Quotas       []cost.Line                `json:"quotas"`
	TotalCostUSD float64                    `json:"total_cost_usd"`
	Breakers     []resilience.BreakerStatus `json:"breakers"`
	Stats        map[string]int64           `json:"stats,omitempty"`
	Period       string                     `json:"period"`
	CollectedAt  time.Time                  `json:"collected_at"`
}

// StatsReader is the slice of the lead store the collector reads.
type StatsReader interface {
	Stats(ctx context.Context) (map[string]int64, error)
}

// Collector gathers usage, quota and breaker state.
type Collector struct {
	tracker  usage.Tracker
	calc     *cost.Calculator
	breakers *resilience.Breakers
	stats    StatsReader

	now func() time.Time
}

// NewCollector creates a new collector. breakers and stats may be nil.
func NewCollector(tracker usage.Tracker, calc *cost.Calculator, breakers *resilience.Breakers, stats StatsReader) *Collector {
	return &Collector{tracker: tracker, calc: calc, breakers: breakers, stats: stats, now: time.Now}
}

// Collect gathers a snapshot for the current month.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	now := c.now().UTC()
	snap := &Snapshot{Period: usage.Period(now), CollectedAt: now}

	counts, err := c.tracker.Usage(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: read usage")
	}
	snap.Quotas = c.calc.Report(counts)
	snap.TotalCostUSD = cost.Total(snap.Quotas)

	if c.breakers != nil {
		snap.Breakers = c.breakers.Snapshot()
	}

	if c.stats != nil {
		if snap.Stats, err = c.stats.Stats(ctx); err != nil {
			return nil, eris.Wrap(err, "monitoring: read stats")
		}
	}
	return snap, nil
}
