package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/crm"
	"github.com/sells-group/lead-cli/internal/pipeline"
)

var syncID string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push the leads of a saved result to Salesforce and Notion",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("sync"); err != nil {
			return err
		}

		results, err := pipeline.NewResultStore(cfg.Results.Dir)
		if err != nil {
			return err
		}
		res, err := results.Load(syncID)
		if err != nil {
			return eris.Wrapf(err, "load result %s", syncID)
		}

		syncer, err := crm.NewFromConfig(cfg)
		if err != nil {
			return err
		}

		zap.L().Info("syncing leads",
			zap.String("id", res.ID),
			zap.Strings("targets", syncer.Targets()),
			zap.Int("leads", len(res.Leads)),
		)

		report, err := syncer.Push(ctx, res)
		if report != nil {
			if perr := printJSON(cmd.OutOrStdout(), report); perr != nil {
				return perr
			}
		}
		if err != nil {
			return eris.Wrap(err, "sync")
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncID, "id", "", "result ID (required)")
	_ = syncCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(syncCmd)
}
