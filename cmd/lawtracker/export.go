package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportOut  string
	exportFrom string
	exportTo   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored law changes to an XLSX workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := env.Service.ExportLawChanges(cmd.Context(), exportFrom, exportTo)
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", exportOut, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", exportOut, len(data))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "law_changes.xlsx", "output XLSX path")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "first change date to include, YYYY-MM-DD")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "last change date to include, YYYY-MM-DD")
	rootCmd.AddCommand(exportCmd)
}
