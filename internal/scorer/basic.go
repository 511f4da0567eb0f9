package scorer

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/sells-group/lead-intel/internal/model"
)

var basicTerms = []string{"VP", "DIRECTOR", "HEAD OF", "MANAGER", "CHIEF"}

// Jitter supplies the random component of BasicScore.
type Jitter interface {
	// Next returns a value in [0, 10).
	Next() int
}

// FixedJitter always returns its own value, clamped to [0, 10).
type FixedJitter int

// Next implements Jitter.
func (f FixedJitter) Next() int { return max(0, min(int(f), 9)) }

// RandJitter draws jitter from a seeded PCG source.
type RandJitter struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandJitter creates a RandJitter. A zero seed picks a random one.
func NewRandJitter(seed uint64) *RandJitter {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &RandJitter{r: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

// Next implements Jitter.
func (j *RandJitter) Next() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.r.IntN(10)
}

// BasicScore is the fallback score used when enrichment could not run. It
// only looks at title, headline and whether a company is known.
func BasicScore(p model.Profile, j Jitter) int {
	score := 40
	text := strings.ToUpper(p.Title + " " + p.Headline)
	if containsAny(text, basicTerms) {
		score += 25
	}
	if p.Company != "" {
		score += 10
	}
	if j != nil {
		score += j.Next()
	}
	return min(score, 100)
}
