package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/api"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serves rounds, history, the campaign and seed commitments over HTTP.

Rounds live in memory; finished rounds are written to the database when one
is configured.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	server := api.NewServer(api.Deps{
		Sessions:   a.sessions,
		DB:         a.db,
		Campaign:   a.campaign,
		Seeds:      a.vault,
		ClientSeed: a.settings.Get().ClientSeed,
		Logger:     logger,
	})
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// bind before reporting startup so a busy port fails fast
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	server.SecurityLogger().LogSystemStartup(ln.Addr().String(), map[string]interface{}{
		"database":     cfg.Database.Path,
		"seed_service": cfg.Seeds.Service,
		"log_level":    cfg.Logging.Level,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	reason := "signal"
	if err != nil {
		reason = err.Error()
		logger.Error("server stopped", zap.Error(err))
	}
	server.SecurityLogger().LogSystemShutdown(reason, server.Uptime())
	return err
}
