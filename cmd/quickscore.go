package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/scorer"
)

var quickscoreCmd = &cobra.Command{
	Use:   "quickscore <headline>...",
	Short: "Score search-result headlines without calling any provider",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScorer()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, q := range quickScores(sc, args) {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", q.Score, q.Class, q.Headline)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(quickscoreCmd)
}

func quickScores(sc *scorer.Scorer, headlines []string) []quickScore {
	out := make([]quickScore, 0, len(headlines))
	for _, h := range headlines {
		score := sc.QuickScore(h)
		out = append(out, quickScore{Headline: h, Score: score, Class: model.ScoreClass(score)})
	}
	return out
}
