package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCost(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(map[string]Quota{
		"hunter": {Monthly: 25, OverageUSD: 0.10},
		"apollo": {Monthly: 60, PlanUSD: 49, OverageUSD: 0.20},
		"free":   {Monthly: 0, OverageUSD: 1},
	})

	tests := []struct {
		name     string
		provider string
		used     int64
		want     float64
	}{
		{name: "under quota", provider: "hunter", used: 10, want: 0},
		{name: "at quota", provider: "hunter", used: 25, want: 0},
		{name: "over quota", provider: "hunter", used: 30, want: 0.50},
		{name: "plan price", provider: "apollo", used: 0, want: 49},
		{name: "plan plus overage", provider: "apollo", used: 65, want: 50},
		{name: "unlimited", provider: "free", used: 1000, want: 0},
		{name: "unknown provider", provider: "clearbit", used: 5, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, calc.Cost(tt.provider, tt.used), 0.0001)
		})
	}
}

func TestReport(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultQuotas())

	lines := calc.Report(map[string]int64{"hunter": 30, "apollo": 12, "other": 3})
	require.Len(t, lines, 3)

	assert.Equal(t, "apollo", lines[0].Provider)
	assert.Equal(t, int64(48), lines[0].Remaining)
	assert.InDelta(t, 0.2, lines[0].Ratio, 0.0001)
	assert.False(t, lines[0].Exhausted())

	assert.Equal(t, "hunter", lines[1].Provider)
	assert.Equal(t, int64(0), lines[1].Remaining)
	assert.True(t, lines[1].Exhausted())
	assert.InDelta(t, 0.49, lines[1].CostUSD, 0.0001)

	assert.Equal(t, "other", lines[2].Provider)
	assert.Zero(t, lines[2].Quota)
	assert.False(t, lines[2].Exhausted())

	assert.InDelta(t, 0.49, Total(lines), 0.0001)
}

func TestReportNoUsage(t *testing.T) {
	t.Parallel()
	lines := NewCalculator(DefaultQuotas()).Report(nil)
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Zero(t, l.Used)
		assert.Equal(t, l.Quota, l.Remaining)
	}
}

func TestNewCalculatorCopiesQuotas(t *testing.T) {
	t.Parallel()
	q := map[string]Quota{"hunter": {Monthly: 5}}
	calc := NewCalculator(q)
	q["hunter"] = Quota{Monthly: 99}

	got, ok := calc.Quota("hunter")
	require.True(t, ok)
	assert.Equal(t, int64(5), got.Monthly)
}
