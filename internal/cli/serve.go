package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/graphbridge/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the contact resource over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				a.settings.Listen = listen
			}
			return a.runServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, :8000)")
	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	contacts, err := a.contactController(store)
	if err != nil {
		return err
	}
	s := &server.RESTServer{
		Listen:   a.settings.Listen,
		BasePath: a.settings.BasePath,
		Contacts: contacts,
		Logger:   a.logger,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- s.Run() }()

	select {
	case err := <-errc:
		if err != nil {
			return sysError("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		a.logger.Info("shutting down")
		if err := s.Stop(); err != nil {
			return sysError("stop: %w", err)
		}
		if err := <-errc; err != nil {
			return sysError("serve: %w", err)
		}
		return nil
	}
}
