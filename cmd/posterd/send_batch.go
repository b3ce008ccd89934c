package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joseph-ayodele/poster-outreach/internal/entity"
)

var sendBatchCmd = &cobra.Command{
	Use:   "send-batch <emails.json|->",
	Short: "Send a JSON array of {to, subject, body} messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		var msgs []entity.RenderedEmail
		if err := json.Unmarshal(raw, &msgs); err != nil {
			return fmt.Errorf("parse emails: %w", err)
		}
		if len(msgs) == 0 {
			return fmt.Errorf("no emails in %s", args[0])
		}

		if cfg.Mail.Password == "" && args[0] != "-" && term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintf(cmd.ErrOrStderr(), "SMTP password for %s: ", cfg.Mail.Username)
			pw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			cfg.Mail.Password = string(pw)
		}

		pub, err := newPublisher(cfg.Events, logger)
		if err != nil {
			return err
		}
		defer pub.Close()

		res := newSender(cfg.Mail, logger).WithPublisher(pub).SendBatch(cmd.Context(), msgs)
		enc := json.NewEncoder(cmd.OutOrStdout())
		if err := enc.Encode(res); err != nil {
			return err
		}
		if res.Failed > 0 {
			return fmt.Errorf("%d of %d emails failed", res.Failed, len(msgs))
		}
		return nil
	},
}
