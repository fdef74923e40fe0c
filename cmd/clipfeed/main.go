// clipfeed: live shared clipboard feed over WebSocket.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.mkw.dev/clipfeed/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipfeed",
		Short: "Live shared clipboard feed over WebSocket",
		Long: `clipfeed relays clipboard entries (text and images) between machines as a
live append-only feed. A central relay fans every published entry out to all
connected clients and expires entries after a fixed time window.

Run "clipfeed serve" once, then "clipfeed watch" on each machine whose
clipboard should feed the relay. Browser clients speak the same protocol at
the /ws endpoint. Use "clipfeed copy/paste/list" as one-shot CLI tools.

Config file search order (first found wins):
  /etc/clipfeed/clipfeed.toml
  $HOME/.config/clipfeed/clipfeed.toml
  path supplied via --config

All flags can be set via CLIPFEED_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newWatchCmd(),
		newCopyCmd(),
		newPasteCmd(),
		newListCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipfeed %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		if interactive {
			level = logging.ParseLevel("debug")
		} else {
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(format, level)
}
