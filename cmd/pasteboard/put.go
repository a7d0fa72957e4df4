package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/pasteboard/internal/clip"
)

func newPutCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "put",
		Aliases: []string{"copy"},
		Short:   "Copy stdin to the clipboard (like pbcopy)",
		Long: `Reads stdin and stores it on the clipboard under --format, replacing
whatever the clipboard held before.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runPut(cmd.InOrStdin(), v) },
	}

	cmd.Flags().StringP("format", "f", clip.FormatText, "format identifier to store the data under")
	addSelectionFlags(cmd)
	addDaemonFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runPut(in io.Reader, v *viper.Viper) error {
	setupLogging(v, slog.LevelWarn)

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	b := bindBackend(v)

	format := v.GetString("format")
	b.Put(data, format)
	slog.Debug("clipboard put", "format", format, "size_bytes", len(data), "backend", b.Name())
	return nil
}
