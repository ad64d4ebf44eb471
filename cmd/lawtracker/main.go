// Command lawtracker runs the law-change pipeline and queries the store from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shavaan/team2-Hack/internal/app"
	"github.com/shavaan/team2-Hack/internal/common"
)

// env is built once per invocation in the root pre-run hook.
var env *app.App

var (
	dbURL     string
	docsDir   string
	extractor string
)

var rootCmd = &cobra.Command{
	Use:           "lawtracker",
	Short:         "Extract state law changes from legislative PDFs",
	Long:          "lawtracker reads legislative PDFs, extracts dated per-state law changes and keeps them in a deduplicated store.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg := common.LoadConfig()
		if dbURL != "" {
			cfg.Database.DSN = dbURL
		}
		if docsDir != "" {
			cfg.Documents.DocsDir = docsDir
		}
		if extractor != "" {
			cfg.Extraction.Mode = extractor
		}
		a, err := app.New(cmd.Context(), cfg, common.NewLogger(cfg.Log))
		if err != nil {
			return err
		}
		env = a
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "store location, sqlite path or postgres URL (defaults to DB_URL)")
	rootCmd.PersistentFlags().StringVar(&docsDir, "pdfs", "", "directory holding PDFs (defaults to PDFS_DIR)")
	rootCmd.PersistentFlags().StringVar(&extractor, "extractor", "", "extraction strategy: rules or openai (defaults to EXTRACTOR)")
}

func main() {
	if err := common.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	env.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
