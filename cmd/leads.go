package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/store"
)

// topN is how many leads the popup summary shows.
const topN = 5

var (
	leadsMinScore int
	leadsLimit    int
	leadsOffset   int
	leadsOutput   string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Browse stored leads and the saved-leads list",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored leads, highest score first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st store.Store) error {
			leads, err := st.ListLeads(ctx, store.LeadFilter{MinScore: leadsMinScore, Limit: leadsLimit, Offset: leadsOffset})
			if err != nil {
				return err
			}
			if leadsOutput != "table" {
				return writeLead(cmd.OutOrStdout(), leads, leadsOutput)
			}
			return printSummaries(cmd.OutOrStdout(), summarizeAll(leads))
		})
	},
}

var leadsShowCmd = &cobra.Command{
	Use:   "show <profile-url>",
	Short: "Show one stored lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st store.Store) error {
			lead, err := st.GetLead(ctx, store.CanonicalURL(args[0]))
			if err != nil {
				return err
			}
			format := leadsOutput
			if format == "table" {
				format = "yaml"
			}
			return writeLead(cmd.OutOrStdout(), lead, format)
		})
	},
}

var leadsSaveCmd = &cobra.Command{
	Use:   "save <profile-url>",
	Short: "Add a stored lead to the saved-leads list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st store.Store) error {
			saved, err := st.SaveToList(ctx, store.CanonicalURL(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", saved.Lead.Name, saved.ID)
			return nil
		})
	},
}

var leadsDeleteCmd = &cobra.Command{
	Use:   "delete <profile-url>",
	Short: "Delete a stored lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st store.Store) error {
			return st.DeleteLead(ctx, store.CanonicalURL(args[0]))
		})
	},
}

var leadsSavedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List the saved-leads list",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st store.Store) error {
			saved, err := st.ListSaved(ctx)
			if err != nil {
				return err
			}
			leads := make([]*model.Lead, 0, len(saved))
			for _, s := range saved {
				leads = append(leads, s.Lead)
			}
			return printSummaries(cmd.OutOrStdout(), summarizeAll(leads))
		})
	},
}

var leadsTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the top leads at or above the minimum score",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st store.Store) error {
			minScore := cfg.Scoring.MinScore
			if cmd.Flags().Changed("min-score") {
				minScore = leadsMinScore
			}
			top, err := topLeads(ctx, st, minScore)
			if err != nil {
				return err
			}
			if len(top) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no leads scored %d or higher yet\n", minScore)
				return nil
			}
			return printSummaries(cmd.OutOrStdout(), top)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{leadsListCmd, leadsTopCmd} {
		c.Flags().IntVar(&leadsMinScore, "min-score", 0, "only leads scoring at least this much")
	}
	leadsListCmd.Flags().IntVar(&leadsLimit, "limit", store.DefaultLimit, "max leads to list")
	leadsListCmd.Flags().IntVar(&leadsOffset, "offset", 0, "leads to skip")
	for _, c := range []*cobra.Command{leadsListCmd, leadsShowCmd} {
		c.Flags().StringVarP(&leadsOutput, "output", "o", "table", "output format: table, json or yaml")
	}

	leadsCmd.AddCommand(leadsListCmd, leadsShowCmd, leadsSaveCmd, leadsDeleteCmd, leadsSavedCmd, leadsTopCmd)
	rootCmd.AddCommand(leadsCmd)
}

// withStore opens and migrates the configured store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, st store.Store) error) error {
	ctx := cmd.Context()
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		return err
	}
	return fn(ctx, st)
}

// leadSummary is the compact view of a lead shown in the popup and tables.
type leadSummary struct {
	Key             string   `json:"key"`
	Name            string   `json:"name"`
	Title           string   `json:"title,omitempty"`
	Company         string   `json:"company,omitempty"`
	Score           int      `json:"score"`
	ScoreClass      string   `json:"score_class"`
	Seniority       string   `json:"seniority,omitempty"`
	Email           string   `json:"email"`
	EmailConfidence int      `json:"email_confidence"`
	ConfidenceClass string   `json:"confidence_class"`
	BuyingSignals   []string `json:"buying_signals,omitempty"`
}

func summarize(l *model.Lead) leadSummary {
	s := leadSummary{
		Key:             store.Key(l),
		Name:            l.Name,
		Title:           l.Title,
		Company:         l.Company,
		Score:           l.Score,
		ScoreClass:      model.ScoreClass(l.Score),
		Email:           l.ContactInfo.Email,
		EmailConfidence: l.ContactInfo.EmailConfidence,
		ConfidenceClass: model.ConfidenceClass(l.ContactInfo.EmailConfidence),
		BuyingSignals:   l.BuyingSignals,
	}
	if l.PersonDetails != nil && l.PersonDetails.Seniority != "" {
		s.Seniority = l.PersonDetails.Seniority.Label()
	}
	return s
}

func summarizeAll(leads []*model.Lead) []leadSummary {
	out := make([]leadSummary, 0, len(leads))
	for _, l := range leads {
		out = append(out, summarize(l))
	}
	return out
}

// topLeads returns up to topN stored leads scoring at least minScore,
// highest first.
func topLeads(ctx context.Context, st store.Store, minScore int) ([]leadSummary, error) {
	leads, err := st.ListLeads(ctx, store.LeadFilter{MinScore: minScore, Limit: topN})
	if err != nil {
		return nil, err
	}
	return summarizeAll(leads), nil
}

func printSummaries(w io.Writer, rows []leadSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tNAME\tTITLE\tCOMPANY\tSENIORITY\tEMAIL\tCONFIDENCE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d (%s)\t%s\t%s\t%s\t%s\t%s\t%d%% (%s)\n",
			r.Score, r.ScoreClass, r.Name, r.Title, r.Company, r.Seniority,
			r.Email, r.EmailConfidence, r.ConfidenceClass)
	}
	return tw.Flush()
}
