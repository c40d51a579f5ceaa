package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gorewood/continuity/internal/httpapi"
)

// newWebCmd creates the web command.
func newWebCmd() *cobra.Command {
	var addrFlag string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the project state over HTTP",
		Long: `Serve the JSON HTTP API until interrupted.

Routes: GET /api/state, PUT /api/state, GET /api/prompt, GET /api/status.
Basic authentication is enabled with AUTH_ENABLED=true or http.auth.enabled
in config.yaml; /api/status stays public.

Examples:
  continuity web                 # Listen on :3000 (or $PORT)
  continuity web --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWeb(cmd, addrFlag)
		},
	}

	cmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (default from config, :3000)")

	return cmd
}

// runWeb executes the web command.
func runWeb(cmd *cobra.Command, addr string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = sess.close() }()

	if addr == "" {
		addr = sess.cfg.HTTP.Addr
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpapi.New(httpapi.Options{
		Service:   sess.svc,
		StatePath: sess.cfg.StatePath,
		Version:   buildVersion(),
		Auth:      sess.cfg.HTTP.Auth,
		Logger:    sess.logger,
	})
	if err := srv.Run(ctx, addr); err != nil {
		return sess.fail(err)
	}
	return nil
}
