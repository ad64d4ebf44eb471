package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shavaan/team2-Hack/constants"
	"github.com/shavaan/team2-Hack/internal/lawchanges"
	"github.com/shavaan/team2-Hack/internal/utils"
)

var processURL string

var processCmd = &cobra.Command{
	Use:   "process <pdf>",
	Short: "Run one PDF through the pipeline",
	Long:  "Loads the PDF (a path, or a file name inside the PDFs directory), extracts law changes and stores the new ones under the given source URL.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := env.Service.ProcessDocument(cmd.Context(), lawchanges.ProcessRequest{Path: args[0], URL: processURL})
		return reportProcess(cmd.OutOrStdout(), res)
	},
}

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Process the first available PDF with the demo source URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		pdfs, err := env.Loader.ListAvailable()
		if err != nil {
			return err
		}
		if len(pdfs) == 0 {
			return fmt.Errorf("no PDF files found in %s", env.Loader.DocsDir())
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Processing %s\nSource: %s\n\n", filepath.Base(pdfs[0]), env.Config.Extraction.QuickDemoURL)

		res := env.Service.ProcessDocument(cmd.Context(), lawchanges.ProcessRequest{
			Path: pdfs[0],
			URL:  env.Config.Extraction.QuickDemoURL,
		})
		return reportProcess(out, res)
	},
}

func init() {
	processCmd.Flags().StringVarP(&processURL, "url", "u", "", "source URL the PDF was published at (required)")
	_ = processCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(processCmd, quickCmd)
}

// reportProcess prints a run result and turns a failure into a non-zero exit.
func reportProcess(w io.Writer, res lawchanges.ProcessResult) error {
	fmt.Fprintf(w, "Status: %s\n", res.Status)
	if res.Message != "" {
		fmt.Fprintf(w, "Message: %s\n", res.Message)
	}
	fmt.Fprintf(w, "Records stored: %d\n", res.RecordsStored)
	if len(res.LawChanges) > 0 {
		fmt.Fprintln(w, "\nLaw changes:")
		for _, c := range res.LawChanges {
			fmt.Fprintf(w, "  [%d] %s | %s | %s\n", c.ID, c.Date, c.State, utils.Truncate(c.Summary, 100, "..."))
		}
	}
	if res.Status == constants.StatusFailure {
		return errors.New(res.Message)
	}
	return nil
}
