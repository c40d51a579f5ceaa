// Package httpapi serves the project state over a small JSON HTTP API.
//
// Routes:
//
//	GET /            plain-text banner
//	GET /api/state   current document
//	PUT /api/state   deep-merge the request body into the document
//	GET /api/prompt  rendered continuity prompt
//	GET /api/status  liveness, always public
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorewood/continuity/internal/config"
	"github.com/gorewood/continuity/internal/continuity"
	"github.com/gorewood/continuity/internal/output"
	"github.com/gorewood/continuity/internal/state"
)

// Banner is the body served at the root path.
const Banner = "MCP Continuity Server - use /api/state, /api/prompt and /api/status"

// maxBodyBytes bounds PUT /api/state request bodies.
const maxBodyBytes = 1 << 20

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Service *continuity.Service
	// StatePath is the document served by the API; empty means the
	// service default.
	StatePath string
	Version   string
	Auth      config.Auth
	Logger    *slog.Logger
}

// Server is the HTTP API.
type Server struct {
	svc     *continuity.Service
	path    string
	version string
	auth    config.Auth
	logger  *slog.Logger
}

// New creates a Server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	return &Server{
		svc:     opts.Service,
		path:    opts.StatePath,
		version: version,
		auth:    opts.Auth,
		logger:  logger,
	}
}

// Handler returns the routed handler with auth, CORS and request logging
// applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/state", s.handleGetState)
	mux.HandleFunc("PUT /api/state", s.handlePutState)
	mux.HandleFunc("GET /api/prompt", s.handlePrompt)
	mux.HandleFunc("GET /api/status", s.handleStatus)

	var h http.Handler = mux
	h = basicAuth(s.auth, s.logger, h)
	h = cors(h)
	return requestLogger(s.logger, h)
}

// Run listens on addr and serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return output.NewSystemErrorWithCause("failed to listen on "+addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("http server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return output.NewSystemErrorWithCause("http server failed", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, Banner)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeDocument(w, http.StatusOK, s.svc.LoadProjectState(r.Context(), s.path))
}

func (s *Server) handlePutState(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Corpo da requisição muito grande", Message: err.Error()})
		return
	}
	if len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Nenhuma atualização fornecida"})
		return
	}
	fragment, err := state.DecodeDocument(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "JSON inválido", Message: err.Error()})
		return
	}
	if len(fragment) == 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Nenhuma atualização fornecida"})
		return
	}

	doc, err := s.svc.UpdateProjectState(r.Context(), fragment, s.path)
	if err != nil {
		s.logger.Error("update project state failed", "error", err)
		writeJSON(w, statusFor(err), ErrorResponse{Error: "Falha ao atualizar estado do projeto", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, UpdateResponse{
		Success: true,
		Message: "Estado do projeto atualizado com sucesso",
		Result:  doc,
	})
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	var text string
	if template := r.URL.Query().Get("template"); template != "" {
		text = s.svc.RenderPrompt(r.Context(), s.path, template)
	} else {
		text = s.svc.GenerateContinuityPrompt(r.Context(), s.path)
	}
	writeJSON(w, http.StatusOK, PromptResponse{Prompt: text})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:    "online",
		Timestamp: state.FormatTimestamp(s.svc.Store().Now()),
		Version:   s.version,
	})
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// UpdateResponse is the body of a successful PUT /api/state.
type UpdateResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Result  state.Document `json:"result"`
}

// PromptResponse is the body of GET /api/prompt.
type PromptResponse struct {
	Prompt string `json:"prompt"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// statusFor maps user errors to 400 and everything else to 500.
func statusFor(err error) int {
	var exitErr *output.ExitError
	if errors.As(err, &exitErr) && !output.IsSystemError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeDocument(w http.ResponseWriter, status int, doc state.Document) {
	data, err := doc.Encode()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Falha ao carregar estado do projeto", Message: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
