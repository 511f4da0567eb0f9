package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lead-intel/internal/model"
)

func TestBasicScore(t *testing.T) {
	tests := []struct {
		name    string
		profile model.Profile
		jitter  Jitter
		want    int
	}{
		{"senior with company", model.Profile{Title: "Head of Growth", Company: "Acme"}, FixedJitter(7), 82},
		{"senior from headline", model.Profile{Headline: "Sales manager at Acme"}, FixedJitter(0), 65},
		{"nothing known", model.Profile{Headline: "engineer"}, nil, 40},
		{"jitter clamped", model.Profile{Company: "Acme"}, FixedJitter(15), 59},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BasicScore(tt.profile, tt.jitter))
		})
	}
}

func TestRandJitter(t *testing.T) {
	a := NewRandJitter(42)
	b := NewRandJitter(42)
	for range 100 {
		x, y := a.Next(), b.Next()
		assert.Equal(t, x, y)
		assert.GreaterOrEqual(t, x, 0)
		assert.Less(t, x, 10)
	}

	unseeded := NewRandJitter(0)
	for range 50 {
		n := BasicScore(model.Profile{Title: "CHIEF of staff", Company: "Acme"}, unseeded)
		assert.GreaterOrEqual(t, n, 75)
		assert.Less(t, n, 85)
	}
}
