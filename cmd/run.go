package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/export"
	"github.com/sells-group/lead-cli/internal/pipeline"
)

var (
	runURL          string
	runForceRefresh bool
	runSave         bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze a company website and generate leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx, "run")
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Run(ctx, runURL, pipeline.RunOptions{
			ForceRefresh: runForceRefresh,
			Save:         runSave,
		})
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("analysis complete",
			zap.String("id", result.ID),
			zap.String("summary", export.Summary(result)),
			zap.Bool("saved", runSave),
		)

		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	runCmd.Flags().StringVar(&runURL, "url", "", "company website URL (required)")
	runCmd.Flags().BoolVar(&runForceRefresh, "force-refresh", false, "bypass cached scrape, analysis and leads")
	runCmd.Flags().BoolVar(&runSave, "save", false, "save the result so it can be exported or synced")
	_ = runCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(runCmd)
}
