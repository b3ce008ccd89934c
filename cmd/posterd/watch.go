package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/poster-outreach/internal/async"
	"github.com/joseph-ayodele/poster-outreach/internal/ingest"
)

var (
	watchWorkers    int
	watchDebounce   time.Duration
	watchSkipHidden bool
	watchExisting   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Extract posters as they are dropped into folders",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		q := async.NewProcessorQueue(a.processor, logger,
			async.WithWorkers(watchWorkers),
			async.WithResultHandler(func(r async.Result) {
				if r.Err != nil {
					logger.Error("watch.poster.failed", "file", r.Job.Name, "trace_id", r.Job.TraceID, "error", r.Err)
					return
				}
				logger.Info("watch.poster.done",
					"file", r.Job.Name,
					"event", r.Outcome.Record.EventName,
					"fallback", r.Outcome.UsedFallback,
					"persisted", r.Outcome.Persisted,
				)
			}),
		)
		defer q.Shutdown(context.Background())

		paths, errs, err := ingest.Watch(ctx, ingest.WatchConfig{
			Roots:       args,
			InitialScan: watchExisting,
			SkipHidden:  watchSkipHidden,
			Debounce:    watchDebounce,
		}, logger)
		if err != nil {
			return err
		}

		seen := map[string]time.Time{}
		for {
			select {
			case <-ctx.Done():
				return nil
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("watch.error", "error", err)
			case path, ok := <-paths:
				if !ok {
					return nil
				}
				fi, err := os.Stat(path)
				if err != nil {
					logger.Warn("watch.stat.failed", "file", path, "error", err)
					continue
				}
				if prev, ok := seen[path]; ok && !fi.ModTime().After(prev) {
					continue
				}
				seen[path] = fi.ModTime()

				data, err := os.ReadFile(path)
				if err != nil {
					logger.Warn("watch.read.failed", "file", path, "error", err)
					continue
				}
				if err := q.Enqueue(ctx, async.Job{Name: filepath.Base(path), Image: data}); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return err
				}
			}
		}
	},
}

func init() {
	watchCmd.Flags().IntVar(&watchWorkers, "workers", 2, "posters processed concurrently")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "wait for writes to settle before reading a file")
	watchCmd.Flags().BoolVar(&watchSkipHidden, "skip-hidden", true, "ignore dot files and directories")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "also process posters already in the folders")
}
