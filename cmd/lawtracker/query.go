package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/shavaan/team2-Hack/constants"
	"github.com/shavaan/team2-Hack/internal/lawchanges"
	"github.com/shavaan/team2-Hack/internal/repository"
	"github.com/shavaan/team2-Hack/internal/utils"
)

const pdfListPreview = 10

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the most recent law changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		res := env.Service.GetLawChanges(cmd.Context(), listLimit)
		if res.Status == constants.StatusFailure {
			return errors.New(res.Message)
		}
		printChanges(cmd.OutOrStdout(), res.LawChanges)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals and the per-state breakdown",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		res := env.Service.GetStatistics(cmd.Context())
		if res.Status == constants.StatusFailure {
			return errors.New(res.Message)
		}
		printStatistics(cmd.OutOrStdout(), res.Statistics)
		return nil
	},
}

var viewDBCmd = &cobra.Command{
	Use:   "view-db",
	Short: "Show statistics, recent changes and the store location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Store: %s (%s)\n\n", env.DB.Location(), env.DB.Dialect())

		stats := env.Service.GetStatistics(cmd.Context())
		if stats.Status == constants.StatusFailure {
			return errors.New(stats.Message)
		}
		printStatistics(out, stats.Statistics)

		recent := env.Service.GetLawChanges(cmd.Context(), repository.DefaultQueryLimit)
		if recent.Status == constants.StatusFailure {
			return errors.New(recent.Message)
		}
		fmt.Fprintln(out, "\nRecent law changes:")
		for _, c := range recent.LawChanges {
			fmt.Fprintf(out, "  [%d] %s | %s | %s\n", c.ID, c.DateChanged, c.State, utils.Truncate(c.Summary, 80, "..."))
		}
		return nil
	},
}

var pdfsCmd = &cobra.Command{
	Use:   "pdfs",
	Short: "List the PDFs available for processing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		pdfs, err := env.Loader.ListAvailable()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(pdfs) == 0 {
			fmt.Fprintf(out, "No PDF files found in %s\n", env.Loader.DocsDir())
			return nil
		}
		for i, p := range pdfs {
			if i == pdfListPreview {
				break
			}
			fmt.Fprintf(out, "  %d. %s\n", i+1, filepath.Base(p))
		}
		if len(pdfs) > pdfListPreview {
			fmt.Fprintf(out, "  ... and %d more\n", len(pdfs)-pdfListPreview)
		}
		fmt.Fprintf(out, "Total: %d PDF files\n", len(pdfs))
		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", repository.DefaultQueryLimit, "maximum number of changes to show")
	rootCmd.AddCommand(listCmd, statsCmd, viewDBCmd, pdfsCmd)
}

func printChanges(w io.Writer, changes []lawchanges.LawChangeView) {
	if len(changes) == 0 {
		fmt.Fprintln(w, "No law changes stored yet")
		return
	}
	for _, c := range changes {
		fmt.Fprintf(w, "[%d] %s | %s | %s\n", c.ID, c.DateChanged, c.State, utils.Truncate(c.Summary, 100, "..."))
		fmt.Fprintf(w, "     source: %s (%s)\n", c.URL, c.PDFFilename)
	}
}

func printStatistics(w io.Writer, s *lawchanges.Statistics) {
	if s == nil {
		return
	}
	fmt.Fprintf(w, "Total law changes: %d\n", s.TotalLawChanges)
	fmt.Fprintf(w, "States with changes: %d\n", s.StatesWithChanges)
	states := make([]string, 0, len(s.ChangesByState))
	for st := range s.ChangesByState {
		states = append(states, st)
	}
	sort.Slice(states, func(i, j int) bool {
		if a, b := s.ChangesByState[states[i]], s.ChangesByState[states[j]]; a != b {
			return a > b
		}
		return states[i] < states[j]
	})
	for _, st := range states {
		fmt.Fprintf(w, "  %s: %d\n", st, s.ChangesByState[st])
	}
}
