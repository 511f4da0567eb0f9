package pipeline

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-intel/internal/model"
)

// Sink receives each lead as soon as it is enriched. It may be called from
// several goroutines at once.
type Sink func(ctx context.Context, lead *model.Lead) error

// EnrichAll enriches raws with at most limit in flight and returns the leads
// in input order. A sink error is logged and does not stop the batch.
// Profiles not started before ctx is cancelled are left nil.
func (e *Enricher) EnrichAll(ctx context.Context, raws []model.RawProfile, limit int, sink Sink) []*model.Lead {
	if limit < 1 {
		limit = 1
	}
	out := make([]*model.Lead, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, raw := range raws {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			lead := e.EnrichOrBasic(gctx, raw)
			out[i] = lead
			if sink != nil {
				if err := sink(gctx, lead); err != nil {
					zap.L().Warn("pipeline: sink failed",
						zap.String("component", "pipeline"),
						zap.String("name", lead.Name),
						zap.Error(err),
					)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
