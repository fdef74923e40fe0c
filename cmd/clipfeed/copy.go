package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.mkw.dev/clipfeed/internal/protocol"
)

func newCopyCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Publish stdin to the feed (like pbcopy)",
		Long: `Reads stdin and publishes it to the feed as one entry. The command waits
for the relay to broadcast the entry back before exiting, so a zero exit
means the entry is in the feed.

  echo hello | clipfeed copy
  clipfeed copy --kind image --name shot.png < shot.png`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runCopy(v) },
	}

	f := cmd.Flags()
	f.String("server", "ws://localhost:9000/ws", "relay WebSocket URL")
	f.String("kind", protocol.KindText, "entry kind: text, image, or any custom tag")
	f.String("name", "", "display name (e.g. a filename hint for images)")
	addConfigFlag(cmd)

	return cmd
}

func runCopy(v *viper.Viper) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	kind := v.GetString("kind")
	name := v.GetString("name")

	var sub protocol.Submission
	if kind == protocol.KindText {
		sub = protocol.NewTextSubmission(string(data))
	} else {
		// Non-text payloads go base64 so binary content stays text-safe.
		sub = protocol.Submission{
			Kind: kind,
			Name: name,
			Data: base64.StdEncoding.EncodeToString(data),
		}
	}

	conn, err := dialRelay(v.GetString("server"))
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	if _, err := awaitEcho(conn, sub); err != nil {
		return err
	}
	return nil
}
