package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/poster-outreach/internal/entity"
)

var renderData string

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the available email templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry(cfg.Templates)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tROLE")
		for _, info := range reg.List() {
			t, _ := reg.Lookup(info.ID)
			fmt.Fprintf(w, "%s\t%s\t%s\n", info.ID, info.Name, t.Role)
		}
		return w.Flush()
	},
}

var renderCmd = &cobra.Command{
	Use:   "render <template>",
	Short: "Render a template against event data (JSON object, file or - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry(cfg.Templates)
		if err != nil {
			return err
		}
		fields := map[string]string{}
		if renderData != "" {
			raw, err := readInput(cmd.InOrStdin(), renderData)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(raw, &fields); err != nil {
				return fmt.Errorf("parse event data: %w", err)
			}
		}
		email, err := reg.Render(args[0], entity.EventRecordFromMap(fields))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(email)
	},
}

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func init() {
	renderCmd.Flags().StringVar(&renderData, "data", "", "event data JSON file (- for stdin); omitted fields are \"Not specified\"")
}
