package resilience

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/sells-group/lead-intel/internal/config"
)

type statusErr struct {
	service string
	code    int
}

func (e *statusErr) Error() string   { return fmt.Sprintf("%s: unexpected status %d", e.service, e.code) }
func (e *statusErr) HTTPStatus() int { return e.code }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("invalid input"), false},
		{"503", &statusErr{service: "apollo", code: 503}, true},
		{"429 wrapped", fmt.Errorf("call: %w", &statusErr{code: 429}), true},
		{"401", &statusErr{code: 401}, false},
		{"conn reset", fmt.Errorf("write: %w", syscall.ECONNRESET), true},
		{"deadline", fmt.Errorf("hunter: %w", context.DeadlineExceeded), true},
		{"dns", errors.New("dial tcp: lookup api.hunter.io: no such host"), true},
	}
	for _, tt := range tests {
		if got := IsTransient(tt.err); got != tt.want {
			t.Errorf("%s: IsTransient = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.CircuitConfig{FailureThreshold: 2, ResetTimeoutSecs: 60, HalfOpenMaxProbes: 3})
	if cfg.FailureThreshold != 2 || cfg.ResetTimeout.Seconds() != 60 || cfg.HalfOpenMaxProbes != 3 {
		t.Errorf("unexpected config: %+v", cfg)
	}

	def := FromConfig(config.CircuitConfig{})
	if def.FailureThreshold != 5 || def.ShouldTrip == nil {
		t.Errorf("expected defaults, got %+v", def)
	}
}
