// Package cost turns monthly provider usage into quota and spend figures.
package cost

import (
	"math"
	"sort"
)

// Quota holds the monthly allowance and pricing for one provider.
type Quota struct {
	Monthly    int64   `yaml:"monthly" mapstructure:"monthly"`
	PlanUSD    float64 `yaml:"plan_usd" mapstructure:"plan_usd"`
	OverageUSD float64 `yaml:"overage_usd" mapstructure:"overage_usd"`
}

// Line is one provider's position against its quota.
type Line struct {
	Provider  string  `json:"provider"`
	Used      int64   `json:"used"`
	Quota     int64   `json:"quota"`
	Remaining int64   `json:"remaining"`
	Ratio     float64 `json:"ratio"`
	CostUSD   float64 `json:"cost_usd"`
}

// Exhausted reports whether the quota is used up. A zero quota is unlimited.
func (l Line) Exhausted() bool {
	return l.Quota > 0 && l.Used >= l.Quota
}

// Calculator computes quota reports for provider usage.
type Calculator struct {
	quotas map[string]Quota
}

// NewCalculator creates a Calculator with the given quotas.
func NewCalculator(quotas map[string]Quota) *Calculator {
	q := make(map[string]Quota, len(quotas))
	for k, v := range quotas {
		q[k] = v
	}
	return &Calculator{quotas: q}
}

// Quota returns the configured quota for provider.
func (c *Calculator) Quota(provider string) (Quota, bool) {
	q, ok := c.quotas[provider]
	return q, ok
}

// Cost is the plan price plus overage for calls beyond the monthly quota.
func (c *Calculator) Cost(provider string, used int64) float64 {
	q := c.quotas[provider]
	over := used - q.Monthly
	if q.Monthly <= 0 || over < 0 {
		over = 0
	}
	return round2(q.PlanUSD + float64(over)*q.OverageUSD)
}

// Report builds one line per provider that has either a quota or usage,
// sorted by provider name.
func (c *Calculator) Report(usage map[string]int64) []Line {
	names := make(map[string]struct{}, len(c.quotas)+len(usage))
	for k := range c.quotas {
		names[k] = struct{}{}
	}
	for k := range usage {
		names[k] = struct{}{}
	}

	lines := make([]Line, 0, len(names))
	for name := range names {
		used := usage[name]
		q := c.quotas[name]
		l := Line{
			Provider: name,
			Used:     used,
			Quota:    q.Monthly,
			CostUSD:  c.Cost(name, used),
		}
		if q.Monthly > 0 {
			l.Remaining = max(q.Monthly-used, 0)
			l.Ratio = float64(used) / float64(q.Monthly)
		}
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Provider < lines[j].Provider })
	return lines
}

// Total sums the cost column of a report.
func Total(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.CostUSD
	}
	return round2(sum)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DefaultQuotas mirrors the free tiers of the bundled providers.
func DefaultQuotas() map[string]Quota {
	return map[string]Quota{
		"hunter": {Monthly: 25, OverageUSD: 0.098},
		"apollo": {Monthly: 60, OverageUSD: 0.20},
	}
}
