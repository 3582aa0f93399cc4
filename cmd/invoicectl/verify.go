package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"invoicegate/internal/config"
	"invoicegate/internal/normalizer"
	"invoicegate/internal/parser"
	"invoicegate/internal/report"
	"invoicegate/internal/validator"
)

var errChecksFailed = errors.New("verification failed: one or more critical checks did not pass")

func newVerifyCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "verify <extracted.json>",
		Short: "Verify an extraction result against the configured expectations",
		Long: `Reads raw extraction output (a JSON object, optionally inside a fenced block),
normalizes it, runs the verification checks and prints the console report.
Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return verify(cmd.OutOrStdout(), raw, validator.ExpectationsFromConfig(cfg.Verification), strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when a critical check fails")
	return cmd
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func verify(w io.Writer, raw string, exp validator.Expectations, strict bool) error {
	fields, err := parser.ExtractJSON(raw)
	if err != nil {
		return err
	}
	inv := normalizer.Normalize(fields)
	ver := validator.NewEngine(exp).Verify(&inv)

	if err := report.WriteConsole(w, uuid.New(), &inv, ver); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if strict && !ver.AllChecksPassed {
		return errChecksFailed
	}
	return nil
}
