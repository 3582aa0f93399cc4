package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"invoicegate/internal/app"
	"invoicegate/internal/config"
	"invoicegate/internal/domain"
	"invoicegate/internal/logging"
	"invoicegate/internal/service"
)

func newSweepCmd() *cobra.Command {
	var ov service.SweepOverrides
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep the mailbox once and process every invoice found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger, err := logging.New(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			a, err := app.New(cmd.Context(), cfg, logger, app.Options{Console: os.Stdout})
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					logger.Error("cleanup failed", zap.Error(err))
				}
			}()

			entry, err := a.Sweeps.Sweep(cmd.Context(), domain.SweepTriggerManual, ov)
			if err != nil {
				return err
			}
			printSweep(cmd.OutOrStdout(), entry)
			return nil
		},
	}
	cmd.Flags().StringVar(&ov.Email, "email", "", "mailbox user overriding mail.user")
	cmd.Flags().StringVar(&ov.AppPassword, "app-pass", "", "mailbox app password overriding mail.app_password")
	cmd.Flags().StringVar(&ov.APIKey, "api-key", "", "extraction API key overriding parser.api_key")
	cmd.Flags().StringVar(&ov.Model, "model", "", "extraction model overriding parser.model")
	return cmd
}

func printSweep(w io.Writer, entry *domain.CheckHistoryEntry) {
	fmt.Fprintln(w, service.SweepMessage(entry))
	fmt.Fprintf(w, "checked at: %s\n", entry.CheckedAt.Format("2006-01-02 15:04:05 MST"))
	for _, id := range entry.JobIDs {
		fmt.Fprintf(w, "  job %s\n", id)
	}
	if len(entry.Errors) > 0 {
		fmt.Fprintf(w, "errors:\n  %s\n", strings.Join(entry.Errors, "\n  "))
	}
}
