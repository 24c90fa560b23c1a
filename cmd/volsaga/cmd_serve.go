package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	natsevents "github.com/kompox/volsaga/adapters/events/nats"
	"github.com/kompox/volsaga/adapters/httpapi"
	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/internal/logging"
	"github.com/spf13/cobra"
)

func newCmdServe() *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:                "serve",
		Short:              "Serve the REST API",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg := configRoot
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cleanup := withCmdRunLogger(ctx, "serve", cfg.Server.Addr)
			defer func() { cleanup(err) }()
			logger := logging.FromContext(ctx)

			h, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer h.Close()

			var events domain.EventPublisher = domain.NopPublisher{}
			if cfg.Events.NatsURL != "" {
				pub, err := natsevents.Connect(ctx, cfg.Events.NatsURL, cfg.Events.SubjectPrefix)
				if err != nil {
					return err
				}
				defer pub.Close()
				events = pub
			}
			ucs := buildUseCases(h, cfg, events)

			api := &httpapi.Server{
				Volumes:    ucs.Volumes,
				Records:    ucs.Records,
				OperateLog: ucs.OperateLog,
				Logger:     logger,
			}
			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      api.Handler(),
				ReadTimeout:  cfg.Server.ReadTimeout.Duration,
				WriteTimeout: cfg.Server.WriteTimeout.Duration,
				BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			logger.Info(ctx, "listening", "addr", cfg.Server.Addr, "cache", cfg.Cache.Enabled, "events", cfg.Events.NatsURL != "")

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info(ctx, "shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout.Duration)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")
	return c
}
