package provider

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/resilience"
	"github.com/sells-group/lead-intel/internal/usage"
)

// Guard bounds every call to one provider. Zero fields disable the
// corresponding protection.
type Guard struct {
	Name    string
	Timeout time.Duration
	Breaker *resilience.Breaker
	Usage   usage.Tracker
}

type found[T any] struct {
	value T
	ok    bool
}

// Call runs fn once under g and converts its outcome into a Result. fn
// reports ok=false for "answered, no match". Errors, timeouts, an open
// circuit and panics all become StatusError.
func Call[T any](ctx context.Context, g Guard, fn func(ctx context.Context) (T, bool, error)) (res Result[T]) {
	start := time.Now()
	log := zap.L().With(zap.String("component", "provider"), zap.String("provider", g.Name))

	defer func() {
		if r := recover(); r != nil {
			res = Failed[T](&Error{Provider: g.Name, Err: eris.Errorf("panic: %v", r)})
		}
		fields := []zap.Field{
			zap.String("status", res.Status.String()),
			zap.Duration("duration", time.Since(start)),
		}
		if res.Err != nil {
			log.Warn("provider: call failed", append(fields, zap.Error(res.Err))...)
			return
		}
		log.Debug("provider: call finished", fields...)
	}()

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	call := func(ctx context.Context) (found[T], error) {
		if g.Usage != nil {
			if _, err := g.Usage.Increment(ctx, g.Name); err != nil {
				log.Warn("provider: usage increment failed", zap.Error(err))
			}
		}
		v, ok, err := fn(ctx)
		return found[T]{value: v, ok: ok}, err
	}

	var (
		out found[T]
		err error
	)
	if g.Breaker != nil {
		out, err = resilience.DoVal(ctx, g.Breaker, call)
	} else {
		out, err = call(ctx)
	}

	switch {
	case err != nil:
		return Failed[T](&Error{Provider: g.Name, Err: err})
	case !out.ok:
		return NotFound[T]()
	default:
		return OK(out.value)
	}
}
