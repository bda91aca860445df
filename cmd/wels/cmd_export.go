package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ambia/UTAPWeLS/internal/export"
	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/session"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <well>",
		Short: "Export a log set to an Arrow IPC or CSV file",
		Long: `Export every log of a set, resampled onto their shared depth grid,
to a columnar file. Arrow files carry each curve's unit as field
metadata; CSV files carry a units row under the header.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, _ := cmd.Flags().GetString("set")
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			return withWell(cmd, args[0], func(sess *session.Session, w *model.Well) error {
				setName := set
				if setName == "" {
					setName = model.LogSetSimulated
				}
				logSet, err := w.LogSet(setName)
				if err != nil {
					return err
				}

				switch format {
				case "arrow", "":
					err = export.WriteArrowFile(output, logSet)
				case "csv":
					err = export.WriteCSVFile(output, logSet)
				default:
					return fmt.Errorf("unknown format %q (valid: arrow, csv)", format)
				}
				if err != nil {
					return fmt.Errorf("export failed: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s/%s to %s\n", w.Name, setName, output)
				return nil
			})
		},
	}

	cmd.Flags().String("set", "", "Log set to export (default Simulated)")
	cmd.Flags().String("format", "arrow", "Output format: arrow or csv")
	cmd.Flags().StringP("output", "o", "", "Output file path")
	cmd.MarkFlagRequired("output")

	return cmd
}
