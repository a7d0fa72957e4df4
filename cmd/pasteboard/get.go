package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/pasteboard/internal/clip"
	"go.klb.dev/pasteboard/internal/selector"
)

func newGetCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Write the clipboard to stdout (like pbpaste)",
		Long: `Writes the clipboard payload stored under --format to stdout.

Nothing is written, and the exit status is still 0, when the clipboard holds
nothing under that format or no working backend exists.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runGet(cmd.OutOrStdout(), v) },
	}

	cmd.Flags().StringP("format", "f", clip.FormatText, "format identifier to read")
	addSelectionFlags(cmd)
	addDaemonFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runGet(out io.Writer, v *viper.Viper) error {
	setupLogging(v, slog.LevelWarn)
	b := bindBackend(v)

	format := v.GetString("format")
	data, ok := b.Get(format)
	if !ok {
		slog.Debug("clipboard empty for format", "format", format, "backend", b.Name())
		return nil
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}

// bindBackend binds the process-wide backend from the selection flags.
func bindBackend(v *viper.Viper) clip.Backend {
	return selector.Init(selectorOptions(v))
}
