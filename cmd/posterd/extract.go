package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/poster-outreach/internal/async"
	"github.com/joseph-ayodele/poster-outreach/internal/entity"
)

var (
	extractWorkers int
	extractTimeout time.Duration
)

type extractLine struct {
	File         string              `json:"file"`
	Success      bool                `json:"success"`
	Data         *entity.EventRecord `json:"data,omitempty"`
	UsedFallback bool                `json:"used_fallback,omitempty"`
	Persisted    bool                `json:"persisted"`
	Error        string              `json:"error,omitempty"`
}

var extractCmd = &cobra.Command{
	Use:   "extract <image>...",
	Short: "Extract and store event records from poster images",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		a, err := buildApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		var (
			mu    sync.Mutex
			lines []extractLine
		)
		add := func(l extractLine) {
			mu.Lock()
			defer mu.Unlock()
			lines = append(lines, l)
		}
		q := async.NewProcessorQueue(a.processor, logger,
			async.WithWorkers(extractWorkers),
			async.WithProcessTimeout(extractTimeout),
			async.WithResultHandler(func(r async.Result) {
				line := extractLine{File: r.Job.Name, Success: r.Err == nil, Persisted: r.Outcome.Persisted}
				if r.Err != nil {
					line.Error = r.Err.Error()
				} else {
					rec := r.Outcome.Record
					line.Data = &rec
					line.UsedFallback = r.Outcome.UsedFallback
				}
				add(line)
			}),
		)

		failed := 0
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				add(extractLine{File: filepath.Base(path), Error: err.Error()})
				continue
			}
			if err := q.Enqueue(cmd.Context(), async.Job{Name: filepath.Base(path), Image: data}); err != nil {
				q.Shutdown(context.Background())
				return err
			}
		}
		q.Shutdown(context.Background())

		sort.SliceStable(lines, func(i, j int) bool { return lines[i].File < lines[j].File })
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, l := range lines {
			if !l.Success {
				failed++
			}
			if err := enc.Encode(l); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d posters failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().IntVar(&extractWorkers, "workers", 2, "posters processed concurrently")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 2*time.Minute, "per-poster processing timeout")
}
