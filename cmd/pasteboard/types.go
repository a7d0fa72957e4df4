package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newTypesCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "types",
		Aliases: []string{"formats"},
		Short:   "List the formats the clipboard can supply",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runTypes(cmd.OutOrStdout(), v) },
	}

	cmd.Flags().Bool("json", false, "output a JSON array")
	addSelectionFlags(cmd)
	addDaemonFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runTypes(out io.Writer, v *viper.Viper) error {
	setupLogging(v, slog.LevelWarn)
	b := bindBackend(v)

	formats := b.Formats()
	if v.GetBool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(formats)
	}
	for _, f := range formats {
		if _, err := fmt.Fprintln(out, f); err != nil {
			return err
		}
	}
	return nil
}
