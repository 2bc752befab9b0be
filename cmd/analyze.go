package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-cli/internal/model"
)

var (
	analyzeRecord       string
	analyzeForceRefresh bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Build a company profile from a saved website record",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var rec model.WebsiteRecord
		if err := readJSONFile(analyzeRecord, &rec); err != nil {
			return err
		}

		env, err := initPipeline(ctx, "run")
		if err != nil {
			return err
		}
		defer env.Close()

		profile, err := env.Analyzer.Analyze(ctx, &rec, !analyzeForceRefresh)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}
		return printJSON(cmd.OutOrStdout(), profile)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRecord, "record", "", "website record JSON file (required)")
	analyzeCmd.Flags().BoolVar(&analyzeForceRefresh, "force-refresh", false, "bypass the analysis cache")
	_ = analyzeCmd.MarkFlagRequired("record")
	rootCmd.AddCommand(analyzeCmd)
}
