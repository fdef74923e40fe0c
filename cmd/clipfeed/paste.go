package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.mkw.dev/clipfeed/internal/protocol"
)

func newPasteCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Print the newest feed entry to stdout (like pbpaste)",
		Long: `Retrieves the current feed and writes the newest entry of the requested
kind to stdout. If the feed holds no matching entry, nothing is printed
(exit 0). To retrieve an image:

  clipfeed paste --kind image > clipboard.png`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runPaste(v) },
	}

	f := cmd.Flags()
	f.String("server", "ws://localhost:9000/ws", "relay WebSocket URL")
	f.String("kind", protocol.KindText, "entry kind to retrieve")
	addConfigFlag(cmd)

	return cmd
}

func runPaste(v *viper.Viper) error {
	conn, err := dialRelay(v.GetString("server"))
	if err != nil {
		return err
	}
	defer conn.Close()

	items, err := awaitSync(conn)
	if err != nil {
		return err
	}

	kind := v.GetString("kind")
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Kind != kind {
			continue
		}
		if kind == protocol.KindText {
			fmt.Print(items[i].Data)
			return nil
		}
		raw, err := items[i].DecodeImage()
		if err != nil {
			return fmt.Errorf("decode %s payload: %w", kind, err)
		}
		_, err = os.Stdout.Write(raw)
		return err
	}
	return nil
}
