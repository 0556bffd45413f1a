package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/termmap/internal/server"
	"github.com/matzehuels/termmap/pkg/cache"
	"github.com/matzehuels/termmap/pkg/pipeline"
	"github.com/matzehuels/termmap/pkg/session"
)

const shutdownTimeout = 10 * time.Second

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP and highlight websocket API",
		Long: `Serve term maps, reduction graphs and macros over HTTP.

Each build returns a session id. Clients open /ws/highlight?session=ID and send
{"type": "highlight", "redex": "beta-0"} messages; the server answers with the
element ids to colour, applying one change per highlight delay.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			return c.serve(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+`"127.0.0.1:8080"`+")")
	return cmd
}

func (c *CLI) serve(ctx context.Context, addr string) error {
	store, err := cache.NewMemoryCache(c.Config.Serve.CacheEntries)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	if n := c.Config.Serve.MemoEntries; n > 0 {
		if runner, err = runner.WithMemo(n); err != nil {
			return err
		}
	}
	defer runner.Close()

	macros, err := c.openMacros(ctx)
	if err != nil {
		return err
	}
	defer macros.Close()

	sessions, err := session.Open(ctx, c.Config.Sessions)
	if err != nil {
		return err
	}
	defer sessions.Close()

	srv := server.New(server.Config{
		Runner:         runner,
		Macros:         macros,
		Sessions:       sessions,
		Logger:         c.Logger,
		Defaults:       c.baseOptions(""),
		HighlightDelay: time.Duration(c.Config.Highlight.Delay),
		SessionTTL:     time.Duration(c.Config.Serve.SessionTTL),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go srv.RunCleanup(ctx, server.DefaultCleanupInterval)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr, "macros", c.Config.Macros.Backend, "sessions", c.Config.Sessions.Backend)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	sw := startStopwatch(c.Logger)
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	sw.done("server stopped")
	return nil
}
