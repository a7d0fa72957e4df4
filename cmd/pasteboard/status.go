package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/pasteboard/internal/daemon"
	"go.klb.dev/pasteboard/internal/ipc"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check whether a pasteboard daemon is running",
		Long: `Pings the daemon on the local IPC socket and prints the backend it serves.

With --daemon-addr the daemon's TCP listener is checked instead, through its
gRPC health service and the wire protocol.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runStatus(cmd.Context(), cmd.OutOrStdout(), v) },
	}

	f := cmd.Flags()
	f.String("source", defaultSource(), "name for this host in daemon logs")
	addDaemonFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runStatus(ctx context.Context, out io.Writer, v *viper.Viper) error {
	setupLogging(v, slog.LevelWarn)

	cfg := daemon.ClientConfig{
		Addr:   v.GetString("daemon-addr"),
		Token:  v.GetString("token"),
		Source: v.GetString("source"),
	}

	w := tabwriter.NewWriter(out, 1, 0, 2, ' ', 0)
	defer w.Flush()

	if cfg.Addr == "" {
		fmt.Fprintf(w, "Transport:\tipc (%s)\n", ipc.SocketPath())
	} else {
		fmt.Fprintf(w, "Transport:\ttcp (%s)\n", cfg.Addr)

		hctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		st, err := daemon.HealthCheck(hctx, cfg.Addr)
		if err != nil {
			fmt.Fprintf(w, "Health:\tunreachable\n")
			return fmt.Errorf("no daemon at %s: %w", cfg.Addr, err)
		}
		fmt.Fprintf(w, "Health:\t%s\n", st)
	}

	c, err := daemon.Dial(cfg)
	if err != nil {
		fmt.Fprintf(w, "Daemon:\tnot running\n")
		return err
	}
	fmt.Fprintf(w, "Daemon:\trunning\n")
	fmt.Fprintf(w, "Backend:\t%s\n", c.Remote())
	fmt.Fprintf(w, "Formats:\t%d\n", len(c.Formats()))
	return nil
}
