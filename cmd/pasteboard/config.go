package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/pasteboard/internal/logging"
	"go.klb.dev/pasteboard/internal/platform"
	"go.klb.dev/pasteboard/internal/selector"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and PASTEBOARD_* env var prefix.
//
// Precedence (lowest to highest): defaults, config file, PASTEBOARD_* env vars, flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("pasteboard")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/pasteboard/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pasteboard"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("PASTEBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-background", false, "run interactively: tinter logs + debug level")
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warn|error")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// addSelectionFlags adds the flags that steer backend selection.
func addSelectionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("platform", "", "platform tag to select for: "+strings.Join(platform.Known, "|")+" (default: detected)")
	f.StringSlice("backends", nil, "try only these backends, in order: "+strings.Join(selector.Names, ","))
	f.StringSlice("exclude", nil, "never try these backends")
	f.String("store", "", "bolt database path for the bolt backend (default: user cache dir)")
	f.String("source", defaultSource(), "name for this host in daemon logs")
}

// addDaemonFlags adds the flags that locate a pasteboard daemon.
func addDaemonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("daemon-addr", "", "host:port of a remote pasteboard daemon (default: local IPC socket)")
	f.String("token", "", "shared secret for a remote daemon")
}

// selectorOptions reads the selection and daemon flags from v. Keys a
// command does not define read as empty.
func selectorOptions(v *viper.Viper) selector.Options {
	return selector.Options{
		Platform:   v.GetString("platform"),
		Backends:   cleanList(v.GetStringSlice("backends")),
		Exclude:    cleanList(v.GetStringSlice("exclude")),
		DaemonAddr: v.GetString("daemon-addr"),
		Token:      v.GetString("token"),
		Source:     v.GetString("source"),
		Store:      v.GetString("store"),
	}
}

// cleanList trims entries and drops empty ones. Env vars arrive as one
// comma-separated string.
func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// setupLogging reads logging flags from v and configures slog. def is the
// level used when --log-level is unset and --no-background is off.
func setupLogging(v *viper.Viper, def slog.Level) {
	if v.GetBool("no-background") {
		def = slog.LevelDebug
	}
	logging.Setup(logging.ParseFormat(v.GetString("log-format")), logging.ParseLevel(v.GetString("log-level"), def))
}
