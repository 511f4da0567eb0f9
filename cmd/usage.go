package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/cost"
	"github.com/sells-group/lead-intel/internal/monitoring"
	"github.com/sells-group/lead-intel/internal/store"
)

var usageOutput string

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show this month's provider usage against quota",
	Long:  "Reads the usage counters (memory counters only cover the current process; use usage.backend=redis to share them) and prices them against the configured quotas.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tracker, closeTracker, err := initTracker(ctx)
		if err != nil {
			return err
		}
		if closeTracker != nil {
			defer func() {
				if err := closeTracker(); err != nil {
					zap.L().Warn("close usage tracker", zap.Error(err))
				}
			}()
		}

		calc := cost.NewCalculator(quotasFromConfig(cfg.Usage.Quotas))
		snap, err := monitoring.NewCollector(tracker, calc, nil, nil).Collect(ctx)
		if err != nil {
			return err
		}
		if usageOutput != "table" {
			return writeLead(cmd.OutOrStdout(), snap, usageOutput)
		}
		return printUsage(cmd.OutOrStdout(), snap)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show profiles scanned and leads found",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st store.Store) error {
			stats, err := st.Stats(ctx)
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), stats)
		})
	},
}

func init() {
	usageCmd.Flags().StringVarP(&usageOutput, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(usageCmd, statsCmd)
}

func printUsage(w io.Writer, snap *monitoring.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "PROVIDER\tUSED\tQUOTA\tREMAINING\tCOST (%s)\n", snap.Period)
	for _, l := range snap.Quotas {
		quota, remaining := "-", "-"
		if l.Quota > 0 {
			quota = fmt.Sprint(l.Quota)
			remaining = fmt.Sprint(l.Remaining)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t$%.2f\n", l.Provider, l.Used, quota, remaining, l.CostUSD)
	}
	fmt.Fprintf(tw, "total\t\t\t\t$%.2f\n", snap.TotalCostUSD)
	return tw.Flush()
}

func printStats(w io.Writer, stats map[string]int64) error {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%d\n", name, stats[name])
	}
	return tw.Flush()
}
