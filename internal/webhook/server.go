// Package webhook exposes the recognition pipeline over HTTP.
package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/user/ocrbot/internal/dispatch"
	"github.com/user/ocrbot/internal/errs"
	"github.com/user/ocrbot/internal/ocr"
)

// DefaultMaxURLs caps the URLs of one request when no limit is configured.
const DefaultMaxURLs = 10

// Recognizer runs a recognition batch. *ocr.Pipeline satisfies it.
type Recognizer interface {
	RecognizeAll(ctx context.Context, urls []string) ([]ocr.Result, error)
}

// Server is a lightweight HTTP handler for the recognition API.
type Server struct {
	recognizer Recognizer
	registry   *dispatch.Registry
	token      string
	maxURLs    int
	mux        *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires "Authorization: Bearer <token>" on API routes.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithMaxURLs caps the URLs accepted per request.
func WithMaxURLs(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxURLs = n
		}
	}
}

// WithRegistry exposes the registry's command definitions on GET /api/commands.
func WithRegistry(reg *dispatch.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// NewServer creates a Server backed by rec.
func NewServer(rec Recognizer, opts ...Option) *Server {
	s := &Server{
		recognizer: rec,
		maxURLs:    DefaultMaxURLs,
		mux:        http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /recognize", s.authorized(s.handleRecognize))
	s.mux.HandleFunc("GET /api/commands", s.authorized(s.handleCommands))
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// recognizeRequest is the JSON body for POST /recognize.
type recognizeRequest struct {
	URLs []string `json:"urls"`
}

type recognizeResult struct {
	Name  string `json:"name"`
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

type recognizeResponse struct {
	Results []recognizeResult `json:"results"`
}

func (s *Server) handleRecognize(w http.ResponseWriter, r *http.Request) {
	var req recognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "urls are required")
		return
	}
	if len(req.URLs) > s.maxURLs {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d urls are allowed", s.maxURLs))
		return
	}

	results, err := s.recognizer.RecognizeAll(r.Context(), req.URLs)
	if err != nil {
		status := statusFor(err)
		slog.Error("webhook recognize failed", "urls", len(req.URLs), "status", status, "error", err)
		writeError(w, status, err.Error())
		return
	}

	resp := recognizeResponse{Results: make([]recognizeResult, 0, len(results))}
	for _, res := range results {
		out := recognizeResult{Name: res.Name, Text: res.Text}
		if res.Err != nil {
			out.Error = res.Err.Error()
		}
		resp.Results = append(resp.Results, out)
	}
	writeJSON(w, http.StatusOK, resp)
}

type commandResponse struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	if s.registry == nil {
		writeError(w, http.StatusServiceUnavailable, "command registry not configured")
		return
	}
	defs := s.registry.Definitions()
	out := make([]commandResponse, 0, len(defs))
	for _, d := range defs {
		out = append(out, commandResponse{Name: d.Name, Kind: d.Kind.String(), Description: d.Description})
	}
	writeJSON(w, http.StatusOK, out)
}

func statusFor(err error) int {
	switch errs.CodeOf(err) {
	case errs.InvalidInput:
		return http.StatusBadRequest
	case errs.Fetch:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
