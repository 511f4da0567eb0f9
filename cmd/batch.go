package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/export"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/pipeline"
)

var (
	batchLimit       int
	batchConcurrency int
	batchOutput      string
)

var batchCmd = &cobra.Command{
	Use:   "batch <profiles.csv|profiles.xlsx>",
	Short: "Enrich and score profiles from a CSV or XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		raws, err := readProfiles(args[0])
		if err != nil {
			return err
		}
		raws = validProfiles(raws)
		if batchLimit > 0 && len(raws) > batchLimit {
			raws = raws[:batchLimit]
		}
		if len(raws) == 0 {
			zap.L().Info("no valid profiles to enrich", zap.String("input", args[0]))
			return nil
		}

		env, err := initEnv(ctx, "batch")
		if err != nil {
			return err
		}
		defer env.Close()

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.MaxConcurrent
		}

		leads, summary := runBatch(ctx, env, raws, concurrency)
		fmt.Fprintf(cmd.OutOrStdout(), "enriched %d/%d profiles, %d leads >= %d, %d basic, in %s\n",
			summary.Enriched, summary.Total, summary.Qualified, env.MinScore, summary.Basic,
			summary.Duration.Round(time.Millisecond))

		if batchOutput != "" {
			return writeLeadsFile(batchOutput, leads)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of profiles to process (0 = all)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max profiles in flight (default from config)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write the scored leads to a .csv or .xlsx file")
	rootCmd.AddCommand(batchCmd)
}

// batchSummary counts what a batch run produced.
type batchSummary struct {
	Total     int
	Enriched  int
	Qualified int
	Basic     int
	Duration  time.Duration
}

// runBatch enriches raws, storing each lead as it finishes. Leads left nil
// by cancellation are dropped from the result.
func runBatch(ctx context.Context, env *leadEnv, raws []model.RawProfile, concurrency int) ([]*model.Lead, batchSummary) {
	start := time.Now()
	var sink pipeline.Sink = env.record
	all := env.Enricher.EnrichAll(ctx, raws, concurrency, sink)

	summary := batchSummary{Total: len(raws)}
	leads := make([]*model.Lead, 0, len(all))
	for _, l := range all {
		if l == nil {
			continue
		}
		leads = append(leads, l)
		summary.Enriched++
		if l.Score >= env.MinScore {
			summary.Qualified++
		}
		if l.Basic {
			summary.Basic++
		}
	}
	summary.Duration = time.Since(start)

	zap.L().Info("batch complete",
		zap.Int("total", summary.Total),
		zap.Int("enriched", summary.Enriched),
		zap.Int("qualified", summary.Qualified),
		zap.Int("basic", summary.Basic),
		zap.Duration("duration", summary.Duration),
	)
	return leads, summary
}

func readProfiles(path string) ([]model.RawProfile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return export.ReadProfilesXLSX(path)
	case ".csv", "":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "open profiles")
		}
		defer f.Close() //nolint:errcheck
		return export.ReadProfilesCSV(f)
	default:
		return nil, eris.Errorf("unsupported profile file: %s (want .csv or .xlsx)", path)
	}
}

// validProfiles drops rows that fail validation and logs why.
func validProfiles(raws []model.RawProfile) []model.RawProfile {
	out := raws[:0:0]
	for i, raw := range raws {
		if err := validate.Struct(raw); err != nil {
			zap.L().Warn("skipping invalid profile",
				zap.Int("index", i),
				zap.String("name", raw.Name),
				zap.Strings("errors", validationMessages(err)),
			)
			continue
		}
		out = append(out, raw)
	}
	return out
}

func writeLeadsFile(path string, leads []*model.Lead) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return export.SaveXLSX(path, leads)
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrap(err, "create output")
		}
		if err := export.WriteCSV(f, leads); err != nil {
			f.Close() //nolint:errcheck
			return err
		}
		return eris.Wrap(f.Close(), "close output")
	default:
		return eris.Errorf("unsupported output file: %s (want .csv or .xlsx)", path)
	}
}
