package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	leadsProfile      string
	leadsDomain       string
	leadsForceRefresh bool
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Generate leads for a saved company profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx, "run")
		if err != nil {
			return err
		}
		defer env.Close()

		profile, err := loadProfile(ctx, env.Analyzer, leadsProfile)
		if err != nil {
			return err
		}

		out, err := env.Leads.Generate(ctx, profile, leadsDomain, !leadsForceRefresh)
		if err != nil {
			return eris.Wrap(err, "generate leads")
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	leadsCmd.Flags().StringVar(&leadsProfile, "profile", "", "company profile JSON file (required)")
	leadsCmd.Flags().StringVar(&leadsDomain, "domain", "", "company domain used for internal lead emails (required)")
	leadsCmd.Flags().BoolVar(&leadsForceRefresh, "force-refresh", false, "bypass the leads cache")
	_ = leadsCmd.MarkFlagRequired("profile")
	_ = leadsCmd.MarkFlagRequired("domain")
	rootCmd.AddCommand(leadsCmd)
}
