package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.mkw.dev/clipfeed/internal/logging"
)

// bindViper binds a command's flag set into v, layering in the config file
// and CLIPFEED_* environment variables. Every subcommand gets the same
// precedence: defaults, then config file, then env, then explicit flags.
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("clipfeed")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/clipfeed/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/clipfeed")
		}
	}

	// A missing config file is fine; a broken one is not.
	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("config: %w", err)
	}

	v.SetEnvPrefix("CLIPFEED")
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags attaches the shared logging flags.
func addLoggingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("no-background", false, "run interactively: tinter logs + debug level")
	f.String("log-format", "auto", "log format: auto|text|json")
	f.String("log-level", "", "log level: debug|info|warn|error (default: info for service, debug for interactive)")
}

// addConfigFlag attaches the --config override.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// setupLogging resolves the logging flags out of v and installs slog.
func setupLogging(v *viper.Viper) {
	interactive := v.GetBool("no-background") || logging.IsTTY(os.Stderr)
	resolveLogging(interactive, v.GetString("log-format"), v.GetString("log-level"))
}
