package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.mkw.dev/clipfeed/internal/clip"
	"go.mkw.dev/clipfeed/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Publish local clipboard changes to the relay",
		Long: `Polls the local clipboard and publishes every change (text or image) to
the relay. Content is deduplicated per modality by hash, so holding the same
text or image on the clipboard publishes it once. Reconnects forever on
connection loss.

Config file search order:
  /etc/clipfeed/clipfeed.toml
  $HOME/.config/clipfeed/clipfeed.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPFEED_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runWatch(v) },
	}

	f := cmd.Flags()
	f.String("server", watcher.DefaultServerURL, "relay WebSocket URL")
	f.Duration("poll", watcher.DefaultPollInterval, "clipboard poll interval")
	f.Duration("backoff", watcher.DefaultBackoff, "wait between reconnect attempts")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runWatch(v *viper.Viper) error {
	setupLogging(v)

	server := v.GetString("server")

	slog.Info("clipfeed watcher starting", "version", Version, "server", server)

	backend := clip.New()
	defer backend.Close()
	slog.Info("clipboard backend", "name", backend.Name())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := watcher.New(backend, watcher.Dial(server), v.GetDuration("poll"), v.GetDuration("backoff"))
	w.Run(ctx)
	return nil
}
