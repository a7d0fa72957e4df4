package daemon

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"

	"go.klb.dev/pasteboard/internal/clip"
)

// MaxPayload bounds PUT bodies on the HTTP gateway.
const MaxPayload = 12 * 1024 * 1024

// Gateway returns the HTTP/JSON surface of the daemon:
//
//	GET /v1/status                 {"backend": ...}
//	GET /v1/formats                {"backend": ..., "formats": [...]}
//	GET /v1/clipboard?format=F     raw payload, 404 when absent
//	PUT /v1/clipboard?format=F     body becomes the payload, 204
//
// format defaults to text/plain. With a token configured every route
// requires "Authorization: Bearer <token>".
func (s *Server) Gateway() (*gwruntime.ServeMux, error) {
	mux := gwruntime.NewServeMux()
	routes := []struct {
		method, path string
		h            gwruntime.HandlerFunc
	}{
		{http.MethodGet, "/v1/status", s.httpStatus},
		{http.MethodGet, "/v1/formats", s.httpFormats},
		{http.MethodGet, "/v1/clipboard", s.httpGet},
		{http.MethodPut, "/v1/clipboard", s.httpPut},
	}
	for _, r := range routes {
		if err := mux.HandlePath(r.method, r.path, s.authorize(r.h)); err != nil {
			return nil, err
		}
	}
	return mux, nil
}

func (s *Server) authorize(next gwruntime.HandlerFunc) gwruntime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		if s.token != "" {
			tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || !s.tokenOK(tok) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}
		}
		next(w, r, params)
	}
}

func (s *Server) httpStatus(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, map[string]string{"backend": s.backend.Name()})
}

func (s *Server) httpFormats(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"backend": s.backend.Name(),
		"formats": s.backend.Formats(),
	})
}

func (s *Server) httpGet(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	format := formatParam(r)
	data, ok := s.backend.Get(format)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no data for format", "format": format})
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) httpPut(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	format := formatParam(r)
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxPayload))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "payload too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.backend.Put(data, format)
	slog.Debug("http put", "format", format, "size_bytes", len(data))
	w.WriteHeader(http.StatusNoContent)
}

func formatParam(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	return clip.FormatText
}

// contentType maps a format identifier to a response Content-Type. X11
// targets and other non-MIME identifiers are served as octet-stream.
func contentType(format string) string {
	if clip.IsText(format) {
		return "text/plain; charset=utf-8"
	}
	if mt, _, err := mime.ParseMediaType(format); err == nil && strings.Contains(mt, "/") {
		return format
	}
	return "application/octet-stream"
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
