package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gorewood/continuity/internal/config"
	"github.com/gorewood/continuity/internal/continuity"
	"github.com/gorewood/continuity/internal/output"
)

// loadConfig reads the configuration selected by --config and applies
// --root on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, output.NewUserErrorWithCause("invalid configuration", err)
	}
	if root, _ := cmd.Root().PersistentFlags().GetString("root"); root != "" {
		cfg.Root = root
	}
	return cfg, nil
}

// newLogger returns a text logger on w. Diagnostics never go to stdout,
// which belongs to command output and the MCP stdio transport.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level()}))
}

// session bundles what a command needs to run operations.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	svc     *continuity.Service
	printer *output.Printer
	close   func() error
}

// openSession loads configuration and opens the service. Errors are
// printed before being returned.
func openSession(cmd *cobra.Command) (*session, error) {
	printer := newPrinter(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		printer.Error(err)
		return nil, err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	svc, closeFn, err := continuity.Open(commandContext(cmd), cfg, logger)
	if err != nil {
		printer.Error(err)
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, svc: svc, printer: printer, close: closeFn}, nil
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// fail prints err and returns it.
func (s *session) fail(err error) error {
	s.printer.Error(err)
	return err
}
