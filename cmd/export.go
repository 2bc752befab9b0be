package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/export"
	"github.com/sells-group/lead-cli/internal/pipeline"
)

var (
	exportID     string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a saved result as json, csv, xlsx or yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportResult(cmd.OutOrStdout(), cfg.Results.Dir, exportID, exportFormat, exportOut)
	},
}

// exportResult writes the saved result id to out, or to stdout when out is
// empty.
func exportResult(stdout io.Writer, resultsDir, id, format, out string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	results, err := pipeline.NewResultStore(resultsDir)
	if err != nil {
		return err
	}
	res, err := results.Load(id)
	if err != nil {
		return eris.Wrapf(err, "load result %s", id)
	}

	w := stdout
	if out != "" {
		file, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "create %s", out)
		}
		defer file.Close() //nolint:errcheck
		w = file
	}

	if err := export.Write(w, res, f); err != nil {
		return eris.Wrap(err, "export")
	}
	if out != "" {
		zap.L().Info("export written",
			zap.String("id", id),
			zap.String("format", string(f)),
			zap.String("path", out),
		)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportID, "id", "", "result ID (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", string(export.FormatJSON), "output format: json, csv, xlsx or yaml")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
	_ = exportCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(exportCmd)
}
