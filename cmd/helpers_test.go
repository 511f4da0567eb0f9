package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/cost"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/pipeline"
	"github.com/sells-group/lead-intel/internal/resilience"
	"github.com/sells-group/lead-intel/internal/scorer"
	"github.com/sells-group/lead-intel/internal/store"
	"github.com/sells-group/lead-intel/internal/usage"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

// newTestEnv wires an offline enricher over a temp-dir SQLite store.
func newTestEnv(t *testing.T) *leadEnv {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })

	return &leadEnv{
		Store: st,
		Enricher: pipeline.NewEnricher(nil, nil, nil, nil, nil,
			pipeline.WithJitter(scorer.FixedJitter(0)),
			pipeline.WithClock(func() time.Time { return testNow }),
		),
		Tracker:    usage.NewMemoryTracker(),
		Breakers:   resilience.NewBreakers(resilience.DefaultBreakerConfig()),
		Calculator: cost.NewCalculator(cost.DefaultQuotas()),
		MinScore:   70,
	}
}

// withTestConfig installs c as the package config for the test.
func withTestConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func testLead(url, name string, score int) *model.Lead {
	return &model.Lead{
		Profile: model.Profile{
			Name:       name,
			ProfileURL: url,
			Title:      "VP Sales",
			Company:    "Acme",
		},
		ContactInfo: model.ContactInfo{Email: "jane@acme.com", EmailConfidence: 92, EmailSource: "Hunter.io"},
		CompanyData: model.UnknownCompany(),
		Score:       score,
		EnrichedAt:  testNow,
	}
}

func saveLeads(t *testing.T, st store.Store, leads ...*model.Lead) {
	t.Helper()
	_, err := st.SaveLeads(context.Background(), leads)
	require.NoError(t, err)
}
