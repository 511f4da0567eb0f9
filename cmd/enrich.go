package main

import (
	"encoding/json"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/lead-intel/internal/model"
)

var (
	enrichProfile model.RawProfile
	enrichOutput  string
	enrichNoSave  bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich and score a single profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := validate.Struct(enrichProfile); err != nil {
			return eris.Errorf("invalid profile: %s", strings.Join(validationMessages(err), "; "))
		}

		env, err := initEnv(ctx, "enrich")
		if err != nil {
			return err
		}
		defer env.Close()

		lead := env.Enricher.EnrichOrBasic(ctx, enrichProfile)
		if !enrichNoSave {
			if err := env.record(ctx, lead); err != nil {
				zap.L().Warn("failed to save lead", zap.String("name", lead.Name), zap.Error(err))
			}
		}

		return writeLead(cmd.OutOrStdout(), lead, enrichOutput)
	},
}

func init() {
	f := enrichCmd.Flags()
	f.StringVar(&enrichProfile.Name, "name", "", "full name")
	f.StringVar(&enrichProfile.Headline, "headline", "", "profile headline, e.g. \"VP Sales at Acme\"")
	f.StringVar(&enrichProfile.Title, "title", "", "job title (parsed from the headline when empty)")
	f.StringVar(&enrichProfile.Company, "company", "", "company name (parsed from the headline when empty)")
	f.StringVar(&enrichProfile.ProfileURL, "url", "", "profile URL")
	f.StringVar(&enrichProfile.ConnectionDegree, "degree", "", "connection degree (1st, 2nd, 3rd)")
	f.StringVar(&enrichProfile.Location, "location", "", "location")
	f.StringVarP(&enrichOutput, "output", "o", "json", "output format: json or yaml")
	f.BoolVar(&enrichNoSave, "no-save", false, "do not store the lead")
	_ = enrichCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(enrichCmd)
}

// writeLead prints v as indented JSON or YAML.
func writeLead(w io.Writer, v any, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "encode yaml")
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "encode json")
	default:
		return eris.Errorf("unsupported output format: %s", format)
	}
}
