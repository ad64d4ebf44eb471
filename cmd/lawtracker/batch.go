package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/shavaan/team2-Hack/constants"
	"github.com/shavaan/team2-Hack/internal/async"
	"github.com/shavaan/team2-Hack/internal/ingest"
	"github.com/shavaan/team2-Hack/internal/utils"
)

var (
	batchManifest   string
	batchURL        string
	batchDir        string
	batchSkipHidden bool

	watchURL         string
	watchInitialScan bool
	watchDebounce    time.Duration
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process many PDFs through the worker pool",
	Long: `Processes every entry of a manifest ("path,url" per line, '#' comments), or every PDF
under --dir (default: the PDFs directory) with a single --url.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobs, err := batchJobs()
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to process")
			return nil
		}
		sum := runBatch(cmd.Context(), cmd.OutOrStdout(), env.NewQueue(cmd.Context()), jobs)
		fmt.Fprintf(cmd.OutOrStdout(), "\nSucceeded: %d  Warned: %d  Failed: %d  Records stored: %d\n",
			sum.succeeded, sum.warned, sum.failed, sum.stored)
		if sum.failed > 0 {
			return fmt.Errorf("%d of %d documents failed", sum.failed, len(jobs))
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process PDFs as they appear in the PDFs directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{env.Loader.DocsDir()},
			InitialScan: watchInitialScan,
			SkipHidden:  true,
			Debounce:    watchDebounce,
			Logger:      env.Logger,
		})
		if err != nil {
			return err
		}

		queue := env.NewQueue(ctx)
		printed := make(chan struct{})
		go func() {
			defer close(printed)
			for r := range queue.Results() {
				printResult(cmd.OutOrStdout(), r)
			}
		}()

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl-C to stop)\n", env.Loader.DocsDir())
		for paths != nil || errs != nil {
			select {
			case p, ok := <-paths:
				if !ok {
					paths = nil
					continue
				}
				if err := queue.Enqueue(ctx, async.Job{Path: p, URL: watchURL}); err != nil {
					env.Logger.Warn("watch.enqueue.failed", "path", p, "error", err)
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				env.Logger.Error("watch.error", "error", err)
			}
		}

		queue.Shutdown(context.Background())
		<-printed
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchManifest, "manifest", "m", "", "manifest file of path,url lines")
	batchCmd.Flags().StringVarP(&batchURL, "url", "u", "", "source URL for every PDF (default URL for manifest lines without one)")
	batchCmd.Flags().StringVar(&batchDir, "dir", "", "directory to scan recursively instead of the PDFs directory")
	batchCmd.Flags().BoolVar(&batchSkipHidden, "skip-hidden", true, "ignore dot-files and dot-directories")

	watchCmd.Flags().StringVarP(&watchURL, "url", "u", "", "source URL recorded for every processed PDF (required)")
	watchCmd.Flags().BoolVar(&watchInitialScan, "initial-scan", true, "process PDFs already present when the watch starts")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "quiet period before a changed file is processed")
	_ = watchCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(batchCmd, watchCmd)
}

func batchJobs() ([]async.Job, error) {
	if batchManifest != "" {
		f, err := os.Open(batchManifest)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		entries, err := ingest.ParseManifest(f, batchURL)
		if err != nil {
			return nil, err
		}
		jobs := make([]async.Job, 0, len(entries))
		for _, e := range entries {
			jobs = append(jobs, async.Job{Path: e.Path, URL: e.URL})
		}
		return jobs, nil
	}

	if batchURL == "" {
		return nil, errors.New("either --manifest or --url is required")
	}
	var (
		pdfs []string
		err  error
	)
	if batchDir != "" {
		var stats ingest.DirStats
		pdfs, stats, err = ingest.CollectPDFs(batchDir, batchSkipHidden)
		env.Logger.Info("batch.scan.done", "dir", batchDir, "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)
	} else {
		pdfs, err = env.Loader.ListAvailable()
	}
	if err != nil {
		return nil, err
	}
	jobs := make([]async.Job, 0, len(pdfs))
	for _, p := range pdfs {
		jobs = append(jobs, async.Job{Path: p, URL: batchURL})
	}
	return jobs, nil
}

type batchSummary struct {
	succeeded, warned, failed, stored int
}

// runBatch feeds jobs to the queue and prints outcomes as they arrive.
// It returns once every accepted job has reported.
func runBatch(ctx context.Context, w io.Writer, queue async.Queue, jobs []async.Job) batchSummary {
	go func() {
		defer queue.Shutdown(context.Background())
		for _, j := range jobs {
			if err := queue.Enqueue(ctx, j); err != nil {
				env.Logger.Warn("batch.enqueue.failed", "path", j.Path, "error", err)
				return
			}
		}
	}()

	var sum batchSummary
	for r := range queue.Results() {
		printResult(w, r)
		switch r.Outcome.Status {
		case constants.StatusSuccess:
			sum.succeeded++
		case constants.StatusWarning:
			sum.warned++
		default:
			sum.failed++
		}
		sum.stored += r.Outcome.RecordsStored
	}
	return sum
}

func printResult(w io.Writer, r async.Result) {
	out := r.Outcome
	fmt.Fprintf(w, "%-8s %s: %s\n", out.Status, filepath.Base(r.Job.Path), out.Message)
	for _, c := range out.LawChanges {
		if c.Inserted {
			fmt.Fprintf(w, "    [%d] %s | %s | %s\n", c.ID, c.Date, c.State, utils.Truncate(c.Summary, 80, "..."))
		}
	}
}
