package resilience

import (
	"time"

	"github.com/sells-group/lead-intel/internal/config"
)

// FromConfig converts the circuit section of the config into a BreakerConfig.
func FromConfig(c config.CircuitConfig) BreakerConfig {
	cfg := DefaultBreakerConfig()
	if c.FailureThreshold > 0 {
		cfg.FailureThreshold = c.FailureThreshold
	}
	if c.ResetTimeoutSecs > 0 {
		cfg.ResetTimeout = time.Duration(c.ResetTimeoutSecs) * time.Second
	}
	if c.HalfOpenMaxProbes > 0 {
		cfg.HalfOpenMaxProbes = c.HalfOpenMaxProbes
	}
	return cfg
}
