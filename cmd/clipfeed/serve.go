package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.mkw.dev/clipfeed/internal/feed"
	"go.mkw.dev/clipfeed/internal/hub"
	"go.mkw.dev/clipfeed/internal/wssession"
)

func newServeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the clipboard feed relay",
		Long: `Starts the clipfeed relay. Every client connecting to the /ws endpoint
receives a full sync of the current feed, then live add/sync updates as
entries are published and expired. Entries live in memory only and are
removed once they exceed the TTL.

With --assets, the given directory is served at / so a browser UI speaking
the same protocol can be hosted by the relay itself.

Config file search order:
  /etc/clipfeed/clipfeed.toml
  $HOME/.config/clipfeed/clipfeed.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPFEED_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runServe(v) },
	}

	f := cmd.Flags()
	f.String("addr", "0.0.0.0:9000", "HTTP listen address")
	f.Duration("ttl", feed.DefaultTTL, "how long entries stay in the feed")
	f.Duration("sweep-interval", feed.DefaultSweepInterval, "how often expired entries are pruned")
	f.String("assets", "", "directory of static browser UI assets to serve at / (empty = disabled)")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runServe(v *viper.Viper) error {
	setupLogging(v)

	addr := v.GetString("addr")
	ttl := v.GetDuration("ttl")
	interval := v.GetDuration("sweep-interval")
	assets := v.GetString("assets")

	slog.Info("clipfeed relay starting",
		"version", Version,
		"addr", addr,
		"ttl", ttl,
		"sweep_interval", interval,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := feed.NewStore()
	h := hub.New(store)

	sweeper := feed.NewSweeper(interval, ttl, h.Sweep)
	go sweeper.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/ws", wssession.Handler(h))
	if assets != "" {
		slog.Info("serving static assets", "dir", assets)
		mux.Handle("/", http.FileServer(http.Dir(assets)))
	}

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return nil
}
