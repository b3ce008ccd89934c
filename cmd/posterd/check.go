package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/poster-outreach/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configured store, cache and event bus are reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		out := cmd.OutOrStdout()

		backend, err := openBackend(ctx, cfg.Store, logger)
		if err != nil {
			return fmt.Errorf("store %s: FAIL (%w)", cfg.Store.Backend, err)
		}
		defer backend.Close()
		rows, err := store.NewRecorder(backend, cfg.Store.Name, logger).Rows(ctx)
		if err != nil {
			return fmt.Errorf("store %s: FAIL (%w)", backend.Name(), err)
		}
		fmt.Fprintf(out, "store %s: OK (%d records)\n", backend.Name(), max(len(rows)-1, 0))

		if cfg.Cache.RedisAddr != "" {
			_, closeCache, err := newCompleter(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("cache: FAIL (%w)", err)
			}
			_ = closeCache()
			fmt.Fprintf(out, "cache %s: OK\n", cfg.Cache.RedisAddr)
		}

		if cfg.Events.NATSURL != "" {
			pub, err := newPublisher(cfg.Events, logger)
			if err != nil {
				return fmt.Errorf("events: FAIL (%w)", err)
			}
			_ = pub.Close()
			fmt.Fprintf(out, "events %s: OK\n", cfg.Events.NATSURL)
		}
		return nil
	},
}

var ocrCmd = &cobra.Command{
	Use:   "ocr <image>",
	Short: "Print the normalized OCR text of one image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		res, err := newEngine(cfg.OCR, logger).Recognize(cmd.Context(), data)
		if err != nil {
			return err
		}
		logger.Info("posterd.ocr.ok", "format", res.Format, "width", res.Width, "height", res.Height,
			"elapsed_ms", res.Duration.Milliseconds())
		_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		return err
	},
}
