// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the docredact command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"docredact/internal/config"
	"docredact/internal/core"
	"docredact/internal/observability"
	"docredact/internal/payload"
	"docredact/internal/version"
)

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// usageError marks an error caused by how the command was invoked
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...interface{}) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// usageArgs wraps a positional argument validator so its failures count as usage errors
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// app carries the state shared by every subcommand of one invocation
type app struct {
	stdout io.Writer
	stderr io.Writer

	configFile string
	logLevel   string
	logFormat  string
	debug      bool
	noColor    bool

	cfg      *config.Config
	observer *observability.StandardObserver

	// backends is replaced in tests
	backends core.Backends
}

// NewRootCommand builds the docredact command tree writing to stdout and stderr
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	return newRootCommand(&app{stdout: stdout, stderr: stderr})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "docredact",
		Short: "Find and redact sensitive data in text, PDF and DOCX documents",
		Long: `docredact scans documents for sensitive data such as email addresses,
phone numbers and identity numbers, shows a summary for review, and writes
a redacted copy of each document.

Plain text is redacted by substitution. PDFs receive opaque boxes over the
estimated match positions. DOCX files are rendered as a new PDF from the
redacted text. If the PDF path fails, a plain-text artifact is written
instead so the redaction is never lost.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: docredact.yaml in standard locations)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: console or json")
	flags.BoolVar(&a.debug, "debug", false, "print step-by-step processing details to stderr")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newDetectorsCommand(a),
		newScanCommand(a),
		newRedactCommand(a),
		newChunksCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup loads configuration and builds the observer before any subcommand runs
func (a *app) setup(cmd *cobra.Command, args []string) error {
	configPath := a.configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigOrDefault(configPath)
	if err != nil {
		if a.configFile != "" {
			return fmt.Errorf("failed to load config %s: %w", a.configFile, err)
		}
		fmt.Fprintf(a.stderr, "Warning: %v\nUsing default configuration\n", err)
	}
	a.cfg = cfg

	if a.logLevel != "" {
		a.cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		a.cfg.Logging.Format = a.logFormat
	}
	if err := a.cfg.Validate(); err != nil {
		return &usageError{err: err}
	}

	logger, err := observability.NewLogger(observability.LoggerConfig{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
	}, a.stderr)
	if err != nil {
		return &usageError{err: fmt.Errorf("invalid logging configuration: %w", err)}
	}

	if a.debug {
		a.observer = observability.NewDebugObserver(a.stderr, logger).StandardObserver
	} else {
		a.observer = observability.NewStandardObserver(observability.ObservabilityMetrics, logger)
	}
	a.observer.Logger().Debug("configuration loaded",
		zap.String("config", configPath),
		zap.String("command", cmd.Name()),
		zap.String("request_id", a.observer.RequestID()))

	if !a.noColor && !isTerminal(a.stdout) {
		a.noColor = true
	}
	return nil
}

func (a *app) engine() (*core.Engine, error) {
	return core.NewEngine(a.cfg, a.backends, a.observer)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newVersionCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:               "version",
		Short:             "Print version information",
		Args:              usageArgs(cobra.NoArgs),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				data, err := json.Marshal(version.Get())
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, string(data))
				return nil
			}
			fmt.Fprintln(a.stdout, version.Get())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print version information as JSON")
	return cmd
}

// ExitCode maps an error returned by the command tree to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ue *usageError
	var ve *payload.ValidationError
	switch {
	case errors.As(err, &ue), errors.As(err, &ve):
		return ExitUsage
	case strings.HasPrefix(err.Error(), "unknown command"):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// Execute runs the command tree with args and returns the process exit code
func Execute(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}
