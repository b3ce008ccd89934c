package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/poster-outreach/internal/export"
	"github.com/joseph-ayodele/poster-outreach/internal/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every stored record to an XLSX workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openBackend(cmd.Context(), cfg.Store, logger)
		if err != nil {
			return err
		}
		defer backend.Close()

		rec := store.NewRecorder(backend, cfg.Store.Name, logger)
		out, err := export.NewService(rec, logger).ExportXLSX(cmd.Context())
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportOut, out, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", exportOut, len(out))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "event-posters.xlsx", "output path")
}
