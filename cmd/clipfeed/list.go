package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.mkw.dev/clipfeed/internal/protocol"
)

func newListCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the current feed",
		Long: `Connects to the relay, takes the full-sync greeting, and prints the
current feed entries oldest-first.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runList(v) },
	}

	f := cmd.Flags()
	f.String("server", "ws://localhost:9000/ws", "relay WebSocket URL")
	f.Bool("json", false, "output raw JSON")
	addConfigFlag(cmd)

	return cmd
}

func runList(v *viper.Viper) error {
	conn, err := dialRelay(v.GetString("server"))
	if err != nil {
		return err
	}
	defer conn.Close()

	items, err := awaitSync(conn)
	if err != nil {
		return err
	}

	if v.GetBool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(items) == 0 {
		fmt.Println("feed is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tNAME\tAGE\tCONTENT")
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(it.ID),
			it.Kind,
			it.Name,
			time.Since(it.CreatedAt.Time).Round(time.Second),
			preview(it),
		)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func preview(it protocol.Item) string {
	if it.Kind != protocol.KindText {
		return fmt.Sprintf("<%d bytes>", len(it.Data))
	}
	s := strings.ReplaceAll(it.Data, "\n", " ")
	if len(s) > 40 {
		// back up to a rune boundary so multibyte content isn't mangled
		cut := 40
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "…"
	}
	return s
}
