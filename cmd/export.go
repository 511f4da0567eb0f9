package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/export"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/store"
	"github.com/sells-group/lead-intel/pkg/notion"
	"github.com/sells-group/lead-intel/pkg/salesforce"
)

var (
	exportMinScore int
	exportLimit    int
	exportSaved    bool
	exportPath     string
	insertOnly     bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored leads to Salesforce, Notion or a spreadsheet",
}

var exportSalesforceCmd = &cobra.Command{
	Use:   "salesforce",
	Short: "Create or update Salesforce Lead records",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("export-salesforce"); err != nil {
			return err
		}
		pem, err := os.ReadFile(cfg.Salesforce.KeyPath)
		if err != nil {
			return eris.Wrap(err, "read salesforce JWT private key")
		}
		client, err := salesforce.Connect(salesforce.JWTConfig{
			LoginURL:      cfg.Salesforce.LoginURL,
			Username:      cfg.Salesforce.Username,
			ClientID:      cfg.Salesforce.ClientID,
			PrivateKeyPEM: pem,
		}, salesforce.WithRateLimit(5))
		if err != nil {
			return err
		}

		return withStore(cmd, func(ctx context.Context, st store.Store) error {
			leads, err := exportLeads(ctx, st)
			if err != nil {
				return err
			}
			var res exportResult
			if insertOnly {
				res, err = bulkInsertSalesforce(ctx, client, leads, cfg.Salesforce.LeadSource)
				if err != nil {
					return err
				}
			} else {
				res = exportToSalesforce(ctx, client, leads, cfg.Salesforce.LeadSource)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)
			return res.err()
		})
	},
}

var exportNotionCmd = &cobra.Command{
	Use:   "notion",
	Short: "Create or update pages in the Notion leads database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("export-notion"); err != nil {
			return err
		}
		client := notion.NewClient(cfg.Notion.Token)

		return withStore(cmd, func(ctx context.Context, st store.Store) error {
			leads, err := exportLeads(ctx, st)
			if err != nil {
				return err
			}
			res := exportToNotion(ctx, client, cfg.Notion.LeadDB, leads)
			fmt.Fprintln(cmd.OutOrStdout(), res)
			return res.err()
		})
	},
}

var exportXLSXCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Write stored leads to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, st store.Store) error {
			leads, err := exportLeads(ctx, st)
			if err != nil {
				return err
			}
			if err := export.SaveXLSX(exportPath, leads); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d leads to %s\n", len(leads), exportPath)
			return nil
		})
	},
}

func init() {
	f := exportCmd.PersistentFlags()
	f.IntVar(&exportMinScore, "min-score", 0, "only leads scoring at least this much")
	f.IntVar(&exportLimit, "limit", store.DefaultLimit, "max leads to export")
	f.BoolVar(&exportSaved, "saved", false, "export the saved-leads list instead of all stored leads")
	exportSalesforceCmd.Flags().BoolVar(&insertOnly, "insert-only", false, "skip the email lookup and create every lead in batches")
	exportXLSXCmd.Flags().StringVarP(&exportPath, "output", "o", "leads.xlsx", "workbook path")

	exportCmd.AddCommand(exportSalesforceCmd, exportNotionCmd, exportXLSXCmd)
	rootCmd.AddCommand(exportCmd)
}

// exportLeads picks the leads selected by the export flags.
func exportLeads(ctx context.Context, st store.Store) ([]*model.Lead, error) {
	if !exportSaved {
		return st.ListLeads(ctx, store.LeadFilter{MinScore: exportMinScore, Limit: exportLimit})
	}
	saved, err := st.ListSaved(ctx)
	if err != nil {
		return nil, err
	}
	var leads []*model.Lead
	for _, s := range saved {
		if s.Lead.Score >= exportMinScore {
			leads = append(leads, s.Lead)
		}
	}
	if exportLimit > 0 && len(leads) > exportLimit {
		leads = leads[:exportLimit]
	}
	return leads, nil
}

// exportResult tallies an export run. Failures are logged per lead and do
// not stop the run.
type exportResult struct {
	Target  string
	Created int
	Updated int
	Failed  int
}

func (r exportResult) String() string {
	return fmt.Sprintf("%s: %d created, %d updated, %d failed", r.Target, r.Created, r.Updated, r.Failed)
}

func (r exportResult) err() error {
	if r.Failed > 0 {
		return eris.Errorf("%s export: %d leads failed", r.Target, r.Failed)
	}
	return nil
}

func (r *exportResult) add(name string, created bool, err error) {
	switch {
	case err != nil:
		r.Failed++
		zap.L().Warn("lead export failed",
			zap.String("component", "export"),
			zap.String("target", r.Target),
			zap.String("name", name),
			zap.Error(err),
		)
	case created:
		r.Created++
	default:
		r.Updated++
	}
}

func exportToSalesforce(ctx context.Context, c salesforce.Client, leads []*model.Lead, leadSource string) exportResult {
	res := exportResult{Target: "salesforce"}
	for _, l := range leads {
		_, created, err := salesforce.UpsertLead(ctx, c, export.SalesforceLead(l, leadSource))
		res.add(l.Name, created, err)
	}
	return res
}

func exportToNotion(ctx context.Context, c notion.Client, dbID string, leads []*model.Lead) exportResult {
	res := exportResult{Target: "notion"}
	for _, l := range leads {
		_, created, err := notion.UpsertLeadPage(ctx, c, dbID, export.NotionPage(l))
		res.add(l.Name, created, err)
	}
	return res
}

// bulkInsertSalesforce creates every lead through the collections API
// without checking for an existing record first.
func bulkInsertSalesforce(ctx context.Context, c salesforce.Client, leads []*model.Lead, leadSource string) (exportResult, error) {
	res := exportResult{Target: "salesforce"}
	records := make([]salesforce.Lead, len(leads))
	for i, l := range leads {
		records[i] = export.SalesforceLead(l, leadSource)
	}
	results, err := salesforce.CreateLeads(ctx, c, records)
	if err != nil {
		return res, err
	}
	for i, r := range results {
		var rerr error
		if !r.Success {
			rerr = eris.Errorf("%v", r.Errors)
		}
		res.add(leads[i].Name, true, rerr)
	}
	return res, nil
}
