package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"go.klb.dev/pasteboard/internal/clip"
	"go.klb.dev/pasteboard/internal/crypto"
	"go.klb.dev/pasteboard/internal/ipc"
	"go.klb.dev/pasteboard/internal/message"
	"go.klb.dev/pasteboard/internal/wire"
)

const requestTimeout = 2 * time.Second

// ClientConfig says where the daemon is.
type ClientConfig struct {
	// Addr is host:port of a daemon's TCP listener. Empty = local IPC socket.
	Addr string
	// Token must match the daemon's. Ignored for IPC.
	Token string
	// Source identifies this host in the daemon's logs.
	Source string
}

// Client is a clip.Backend that forwards every call to a daemon, one
// connection per call. Failures degrade to absent / no-op like any backend.
type Client struct {
	cfg    ClientConfig
	key    *crypto.Key
	dial   func() (net.Conn, error)
	remote string
}

// Dial returns a Client after checking that a daemon answers a ping. It
// fails with clip.ErrBackendUnavailable when none does.
func Dial(cfg ClientConfig) (*Client, error) {
	dial := func() (net.Conn, error) { return ipc.Dial(requestTimeout) }
	if cfg.Addr != "" {
		dial = func() (net.Conn, error) { return net.DialTimeout("tcp", cfg.Addr, requestTimeout) }
	} else {
		cfg.Token = ""
	}
	return newClient(cfg, dial)
}

func newClient(cfg ClientConfig, dial func() (net.Conn, error)) (*Client, error) {
	c := &Client{cfg: cfg, dial: dial}
	if cfg.Token != "" {
		key, err := crypto.DeriveKey(cfg.Token)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", clip.ErrBackendUnavailable, err)
		}
		c.key = key
	}

	resp, err := c.roundtrip(&message.Message{Type: message.TypePing})
	if err != nil {
		return nil, fmt.Errorf("%w: daemon at %s: %w", clip.ErrBackendUnavailable, c.where(), err)
	}
	if resp.Type != message.TypePong {
		return nil, fmt.Errorf("%w: daemon at %s answered %s", clip.ErrBackendUnavailable, c.where(), resp.Type)
	}
	c.remote = resp.Backend
	return c, nil
}

func (c *Client) where() string {
	if c.cfg.Addr != "" {
		return c.cfg.Addr
	}
	return ipc.SocketPath()
}

func (c *Client) Name() string { return fmt.Sprintf("daemon %s (%s)", c.where(), c.remote) }

// Remote returns the name of the backend the daemon serves.
func (c *Client) Remote() string { return c.remote }

func (c *Client) Get(format string) ([]byte, bool) {
	resp, err := c.roundtrip(&message.Message{Type: message.TypeGet, Format: format})
	if err != nil {
		slog.Debug("daemon get failed", "format", format, "err", err)
		return nil, false
	}
	if resp.Type != message.TypeData || !resp.Found {
		return nil, false
	}
	if resp.Data == nil {
		return []byte{}, true
	}
	return resp.Data, true
}

func (c *Client) Put(data []byte, format string) {
	_, err := c.roundtrip(&message.Message{Type: message.TypePut, Format: format, Data: data})
	switch {
	case err == nil:
	case errors.Is(err, wire.ErrTooLarge):
		slog.Warn("clipboard payload too large for the daemon, dropped",
			"format", format, "size_bytes", len(data), "err", err)
	default:
		slog.Debug("daemon put failed", "format", format, "err", err)
	}
}

func (c *Client) Formats() []string {
	resp, err := c.roundtrip(&message.Message{Type: message.TypeTypes})
	if err != nil || resp.Type != message.TypeFormats {
		slog.Debug("daemon types failed", "err", err)
		return []string{}
	}
	if resp.Formats == nil {
		return []string{}
	}
	return resp.Formats
}

func (c *Client) roundtrip(req *message.Message) (*message.Message, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	wc := wire.New(conn, c.key)
	defer wc.Close()

	if c.key != nil {
		if err := wc.WriteMsg(message.NewAuth(c.cfg.Source, c.cfg.Token)); err != nil {
			return nil, fmt.Errorf("auth: %w", err)
		}
	}
	req.Source = c.cfg.Source
	resp, err := wc.Roundtrip(req, requestTimeout)
	if err != nil {
		return nil, err
	}
	if resp.Type == message.TypeError {
		return nil, fmt.Errorf("daemon: %s", resp.Error)
	}
	return resp, nil
}

// HealthCheck asks the gRPC health service on a daemon's TCP listener for
// its serving status.
func HealthCheck(ctx context.Context, addr string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: HealthService})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check: %w", err)
	}
	return resp.GetStatus(), nil
}
