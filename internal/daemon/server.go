// Package daemon shares one clipboard backend with other processes.
//
// A Server owns a clip.Backend and answers the NDJSON protocol from package
// message on the local IPC socket and, optionally, on a TCP listener that is
// split with cmux into three surfaces:
//
//	gRPC (HTTP/2, application/grpc) -> grpc.health.v1 health service
//	HTTP/1.1                        -> JSON/REST gateway (see http.go)
//	anything else                   -> NDJSON wire protocol
//
// A Client is itself a clip.Backend, so CLI invocations and containers can
// select "daemon" like any other backend.
package daemon

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/soheilhy/cmux"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"go.klb.dev/pasteboard/internal/clip"
	"go.klb.dev/pasteboard/internal/crypto"
	"go.klb.dev/pasteboard/internal/message"
	"go.klb.dev/pasteboard/internal/wire"
)

const (
	// HealthService is the service name reported by the gRPC health server.
	HealthService = "pasteboard.v1.Clipboard"

	idleTimeout  = 30 * time.Second
	authTimeout  = 10 * time.Second
	sniffTimeout = 5 * time.Second
)

// Config holds the daemon's network settings.
type Config struct {
	// Token is the shared secret for TCP clients. It enables AUTH and
	// secretbox encryption on the wire protocol and bearer auth on the HTTP
	// gateway. Empty = open. The IPC socket never authenticates.
	Token string
}

// Server serves one backend to many connections.
type Server struct {
	backend clip.Backend
	token   string
	key     *crypto.Key
	health  *health.Server
}

// NewServer returns a Server for b.
func NewServer(b clip.Backend, cfg Config) (*Server, error) {
	s := &Server{
		backend: b,
		token:   cfg.Token,
		health:  health.NewServer(),
	}
	if cfg.Token != "" {
		key, err := crypto.DeriveKey(cfg.Token)
		if err != nil {
			return nil, err
		}
		s.key = key
	}
	s.health.SetServingStatus(HealthService, healthpb.HealthCheckResponse_SERVING)
	return s, nil
}

// Backend returns the backend being served.
func (s *Server) Backend() clip.Backend { return s.backend }

// Handle answers a single request.
func (s *Server) Handle(req *message.Message) *message.Message {
	switch req.Type {
	case message.TypePing:
		return &message.Message{Type: message.TypePong, Backend: s.backend.Name()}

	case message.TypeGet:
		data, ok := s.backend.Get(req.Format)
		return &message.Message{Type: message.TypeData, Format: req.Format, Data: data, Found: ok}

	case message.TypePut:
		s.backend.Put(req.Data, req.Format)
		return &message.Message{Type: message.TypeOK, Format: req.Format}

	case message.TypeTypes:
		return &message.Message{Type: message.TypeFormats, Formats: s.backend.Formats()}

	default:
		return message.Errorf("unexpected message type %q", req.Type)
	}
}

// ServeConn runs the wire protocol on conn until the peer hangs up or goes
// idle. remote selects the TCP rules: token auth and encryption.
func (s *Server) ServeConn(conn net.Conn, remote bool) {
	log := slog.With("conn", uuid.NewString(), "remote", remote)

	var key *crypto.Key
	if remote {
		key = s.key
	}
	wc := wire.New(conn, key)
	defer wc.Close()

	if remote && s.token != "" {
		wc.SetReadDeadline(authTimeout)
		msg, err := wc.ReadMsg()
		if err != nil {
			log.Warn("auth read failed", "addr", wc.RemoteAddr(), "err", err)
			return
		}
		if msg.Type != message.TypeAuth || !s.tokenOK(msg.Token()) {
			log.Warn("auth failed", "addr", wc.RemoteAddr(), "source", msg.Source)
			_ = wc.WriteMsg(message.Errorf("auth_failed"))
			return
		}
		log = log.With("source", msg.Source)
	}

	for {
		wc.SetReadDeadline(idleTimeout)
		req, err := wc.ReadMsg()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Debug("connection closed", "err", err)
			}
			return
		}
		reply := s.Handle(req)
		log.Debug("request", "type", req.Type, "format", req.Format, "reply", reply.Type)
		if err := wc.WriteMsg(reply); err != nil {
			log.Debug("write failed", "err", err)
			return
		}
	}
}

// ServeIPC accepts local connections on ln until ctx is cancelled.
func (s *Server) ServeIPC(ctx context.Context, ln net.Listener) error {
	return s.acceptLoop(ctx, ln, false)
}

// ServeTCP multiplexes ln into the gRPC health service, the HTTP gateway
// and the wire protocol, until ctx is cancelled or the listener fails.
func (s *Server) ServeTCP(ctx context.Context, ln net.Listener) error {
	gw, err := s.Gateway()
	if err != nil {
		return fmt.Errorf("gateway: %w", err)
	}

	m := cmux.New(ln)
	m.SetReadTimeout(sniffTimeout)
	grpcL := m.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpL := m.Match(cmux.HTTP1())
	wireL := m.Match(cmux.Any())

	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, s.health)
	hs := &http.Server{Handler: gw, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 4)
	go func() { errc <- gs.Serve(grpcL) }()
	go func() { errc <- hs.Serve(httpL) }()
	go func() { errc <- s.acceptLoop(ctx, wireL, true) }()
	go func() { errc <- m.Serve() }()

	select {
	case <-ctx.Done():
	case err = <-errc:
	}

	s.health.Shutdown()
	gs.Stop()
	_ = hs.Close()
	_ = ln.Close()

	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener, remote bool) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) || errors.Is(err, cmux.ErrListenerClosed) {
				return nil
			}
			slog.Error("accept failed", "err", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}
		go s.ServeConn(conn, remote)
	}
}

func (s *Server) tokenOK(got string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) == 1
}
