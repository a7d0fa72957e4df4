// pasteboard: one clipboard interface on every platform.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/pasteboard/internal/selector"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	err := newRootCmd().Execute()
	selector.Release()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pasteboard",
		Short: "Read and write the clipboard from anywhere",
		Long: `pasteboard reads and writes the clipboard through the best backend the
running platform offers: a pasteboard daemon, wl-clipboard, xclip, the native
OS clipboard, termux, OSC 52 over SSH, or, when nothing works, a no-op dummy.

Run "pasteboard backends" to see which one would be used and why.
Run "pasteboard serve" to share one clipboard with containers and other hosts.

Config file search order (first found wins):
  /etc/pasteboard/pasteboard.toml
  $HOME/.config/pasteboard/pasteboard.toml
  path supplied via --config

All flags can be set via PASTEBOARD_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newGetCmd(),
		newPutCmd(),
		newTypesCmd(),
		newBackendsCmd(),
		newServeCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pasteboard %s\n", Version)
		},
	}
}
