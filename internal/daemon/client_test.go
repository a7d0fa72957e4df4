package daemon

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"go.klb.dev/pasteboard/internal/clip"
)

// pipeDialer connects each call to a fresh ServeConn on s.
func pipeDialer(s *Server, remote bool) func() (net.Conn, error) {
	return func() (net.Conn, error) {
		a, b := net.Pipe()
		go s.ServeConn(b, remote)
		return a, nil
	}
}

func TestClientIsBackend(t *testing.T) {
	s, mem := newTestServer(t, "")
	c, err := newClient(ClientConfig{Source: "test"}, pipeDialer(s, false))
	require.NoError(t, err)

	var b clip.Backend = c
	assert.Equal(t, mem.Name(), c.Remote())
	assert.Contains(t, b.Name(), "daemon")
	assert.Equal(t, []string{}, b.Formats())

	_, ok := b.Get(clip.FormatText)
	assert.False(t, ok)

	b.Put([]byte("hello"), clip.FormatText)
	data, ok := b.Get(clip.FormatText)
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, []string{clip.FormatText}, b.Formats())
}

func TestClientEmptyPayloadIsPresent(t *testing.T) {
	s, _ := newTestServer(t, "")
	c, err := newClient(ClientConfig{}, pipeDialer(s, false))
	require.NoError(t, err)

	c.Put([]byte{}, "image/png")
	data, ok := c.Get("image/png")
	assert.True(t, ok)
	assert.Equal(t, []byte{}, data)
}

func TestClientWithToken(t *testing.T) {
	s, _ := newTestServer(t, "secret")
	c, err := newClient(ClientConfig{Token: "secret"}, pipeDialer(s, true))
	require.NoError(t, err)

	c.Put([]byte("over the wire"), clip.FormatText)
	data, ok := c.Get(clip.FormatText)
	require.True(t, ok)
	assert.Equal(t, "over the wire", string(data))
}

func TestClientWrongTokenUnavailable(t *testing.T) {
	s, _ := newTestServer(t, "secret")
	_, err := newClient(ClientConfig{Token: "wrong"}, pipeDialer(s, true))
	assert.ErrorIs(t, err, clip.ErrBackendUnavailable)
}

func TestClientNoDaemonUnavailable(t *testing.T) {
	dial := func() (net.Conn, error) { return nil, errors.New("connection refused") }
	_, err := newClient(ClientConfig{}, dial)
	assert.ErrorIs(t, err, clip.ErrBackendUnavailable)
}

func TestClientDegradesWhenDaemonGoes(t *testing.T) {
	s, _ := newTestServer(t, "")
	up := true
	dial := func() (net.Conn, error) {
		if !up {
			return nil, errors.New("connection refused")
		}
		return pipeDialer(s, false)()
	}
	c, err := newClient(ClientConfig{}, dial)
	require.NoError(t, err)

	up = false
	_, ok := c.Get(clip.FormatText)
	assert.False(t, ok)
	assert.Equal(t, []string{}, c.Formats())
	c.Put([]byte("dropped"), clip.FormatText)
}

func TestClientWarnsOnOversizePut(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	s, mem := newTestServer(t, "")
	c, err := newClient(ClientConfig{}, pipeDialer(s, false))
	require.NoError(t, err)

	c.Put(make([]byte, 13*1024*1024), "image/png")

	assert.Equal(t, []string{}, mem.Formats(), "oversize put must not reach the daemon")
	assert.Contains(t, logs.String(), `"level":"WARN"`)
	assert.Contains(t, logs.String(), "too large")
}

func TestServeTCP(t *testing.T) {
	s, _ := newTestServer(t, "secret")
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeTCP(ctx, ln) }()

	// NDJSON wire protocol
	c, err := Dial(ClientConfig{Addr: addr, Token: "secret", Source: "test"})
	require.NoError(t, err)
	c.Put([]byte("hello"), clip.FormatText)
	data, ok := c.Get(clip.FormatText)
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))

	// HTTP gateway
	req, err := http.NewRequest(http.MethodGet, "http://"+addr+"/v1/status", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// gRPC health
	hctx, hcancel := context.WithTimeout(ctx, 5*time.Second)
	defer hcancel()
	status, err := HealthCheck(hctx, addr)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ServeTCP did not return after cancel")
	}
}
