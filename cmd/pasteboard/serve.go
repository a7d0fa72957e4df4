package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"go.klb.dev/pasteboard/internal/daemon"
	"go.klb.dev/pasteboard/internal/ipc"
	"go.klb.dev/pasteboard/internal/selector"
)

func newServeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the clipboard daemon",
		Long: `Selects a local clipboard backend and serves it to other pasteboard
processes, which then pick the "daemon" backend before any other.

The daemon always listens on the local IPC socket. With --addr it also listens
on TCP, where one port carries three protocols:

  gRPC      grpc.health.v1 health service (used by "pasteboard status")
  HTTP/1.1  GET/PUT /v1/clipboard?format=..., GET /v1/formats, GET /v1/status
  NDJSON    the pasteboard wire protocol (used by --daemon-addr clients)

When no clipboard backend works on this host (containers, headless servers)
the daemon keeps the clipboard in memory, or in a bolt database with --store.

Precedence (lowest to highest): defaults, config file, PASTEBOARD_* env vars, flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runServe(v) },
	}

	f := cmd.Flags()
	f.String("addr", "", "TCP listen address, e.g. 0.0.0.0:8753 (empty = IPC only)")
	f.String("token", "", "shared secret for TCP clients (empty = no auth, no encryption)")
	addSelectionFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

// serveOptions selects the backend the daemon shares. The daemon never
// serves itself, and never serves write-only OSC 52: a daemon started from
// an SSH shell would otherwise swallow every put. The memory (or bolt)
// store is tried before dummy.
func serveOptions(v *viper.Viper) selector.Options {
	opts := selectorOptions(v)
	opts.DaemonAddr, opts.Token = "", ""
	opts.Exclude = append(opts.Exclude, selector.NameDaemon, selector.NameOSC52)
	opts.Fallback = selector.NameMemory
	if opts.Store != "" {
		opts.Fallback = selector.NameBolt
	}
	return opts
}

func runServe(v *viper.Viper) error {
	setupLogging(v, slog.LevelInfo)

	addr := v.GetString("addr")
	token := v.GetString("token")

	b := selector.Init(serveOptions(v))

	srv, err := daemon.NewServer(b, daemon.Config{Token: token})
	if err != nil {
		return fmt.Errorf("daemon: %w", err)
	}

	slog.Info("pasteboard daemon starting",
		"version", Version,
		"backend", b.Name(),
		"addr", addr,
		"encrypted", token != "",
	)

	ipcLn, err := ipc.Listen()
	if err != nil {
		return fmt.Errorf("ipc listen %s: %w", ipc.SocketPath(), err)
	}
	slog.Info("IPC socket listening", "path", ipc.SocketPath())

	var tcpLn net.Listener
	if addr != "" {
		tcpLn, err = net.Listen("tcp", addr)
		if err != nil {
			_ = ipcLn.Close()
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		slog.Info("listening", "addr", tcpLn.Addr())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ServeIPC(ctx, ipcLn) })
	if tcpLn != nil {
		g.Go(func() error { return srv.ServeTCP(ctx, tcpLn) })
	}

	err = g.Wait()
	slog.Info("pasteboard daemon stopped", "err", err)
	return err
}
