package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/keepaway"
	"github.com/aretw0/keepaway/internal/compiler"
	"github.com/aretw0/keepaway/internal/logging"
	"github.com/aretw0/keepaway/pkg/domain"
)

// DefaultMaxUploadBytes caps multipart uploads and JSON bodies.
const DefaultMaxUploadBytes = 1 << 20

// DefaultMaxRounds caps client-supplied rounds on POST /v1/simulations.
const DefaultMaxRounds = domain.UnboundedRounds

// Solver defines the subset of keepaway.Solver the server needs.
type Solver interface {
	Solve(ctx context.Context, input []byte, mode domain.Mode) (domain.Result, error)
	Simulate(ctx context.Context, defs []domain.Definition, rounds int, dampener int64) (domain.Result, error)
}

// Server serves the keepaway HTTP API.
type Server struct {
	Solver    Solver
	logger    *slog.Logger
	metrics   http.Handler
	maxBytes  int64
	maxRounds int
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithMaxUploadBytes overrides DefaultMaxUploadBytes.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		s.maxBytes = n
	}
}

// WithMaxRounds overrides DefaultMaxRounds.
// A run abandoned at its deadline keeps its goroutine until it finishes, so the cap bounds that work.
func WithMaxRounds(n int) Option {
	return func(s *Server) {
		s.maxRounds = n
	}
}

// NewHandler creates a new HTTP handler for the solver.
func NewHandler(solver Solver, opts ...Option) http.Handler {
	server := &Server{
		Solver:    solver,
		logger:    logging.NewNop(),
		maxBytes:  DefaultMaxUploadBytes,
		maxRounds: DefaultMaxRounds,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}
	r.Post("/v1/advent2022/day11/{part}", server.SolveUpload)
	r.Post("/v1/simulations", server.CreateSimulation)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AnswerResponse is the envelope used by the upload routes.
type AnswerResponse struct {
	Response string `json:"response"`
	Answer   *int64 `json:"answer,omitempty"`
	Message  string `json:"message,omitempty"`
}

// SimulationRequest is the body of POST /v1/simulations.
// Either Input (puzzle text, solved with Mode) or Agents (structured definitions) must be set.
type SimulationRequest struct {
	Input    string          `json:"input,omitempty"`
	Mode     string          `json:"mode,omitempty"`
	Agents   json.RawMessage `json:"agents,omitempty"`
	Rounds   int             `json:"rounds,omitempty"`
	Dampener int64           `json:"dampener,omitempty"`
}

// ErrorResponse is returned by the JSON API on failure.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":     "keepaway-http",
		"version": strings.TrimSpace(keepaway.Version),
		"modes": map[string]map[string]int64{
			string(domain.ModeBounded):   {"rounds": domain.BoundedRounds, "dampener": domain.BoundedDampener},
			string(domain.ModeUnbounded): {"rounds": domain.UnboundedRounds, "dampener": domain.UnboundedDampener},
		},
	})
}

// SolveUpload handles POST /v1/advent2022/day11/{part}: a multipart upload in field "file".
func (s *Server) SolveUpload(w http.ResponseWriter, r *http.Request) {
	mode, err := domain.ParseMode(chi.URLParam(r, "part"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, AnswerResponse{Response: "failure", Message: err.Error()})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		s.logger.Warn("SolveUpload: missing file", "request_id", middleware.GetReqID(r.Context()), "err", err)
		writeJSON(w, http.StatusBadRequest, AnswerResponse{Response: "failure", Message: "multipart field \"file\" is required"})
		return
	}
	defer file.Close()

	input, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, AnswerResponse{Response: "failure", Message: err.Error()})
		return
	}

	res, err := s.Solver.Solve(r.Context(), input, mode)
	if err != nil {
		s.logger.Error("SolveUpload failed", "request_id", middleware.GetReqID(r.Context()), "mode", mode, "err", err)
		writeJSON(w, http.StatusInternalServerError, AnswerResponse{Response: "failure", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, AnswerResponse{Response: "success", Answer: &res.Answer})
}

// CreateSimulation handles POST /v1/simulations and returns the full result.
func (s *Server) CreateSimulation(w http.ResponseWriter, r *http.Request) {
	var body SimulationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	res, err := s.simulate(r.Context(), body)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) simulate(ctx context.Context, body SimulationRequest) (domain.Result, error) {
	mode, err := domain.ParseMode(body.Mode)
	if err != nil {
		return domain.Result{}, err
	}

	switch {
	case body.Input != "" && len(body.Agents) > 0:
		return domain.Result{}, fmt.Errorf("%w: set either input or agents, not both", domain.ErrInvalidRunConfig)
	case body.Input != "":
		return s.Solver.Solve(ctx, []byte(body.Input), mode)
	case len(body.Agents) > 0:
		doc := append(append([]byte(`{"agents":`), body.Agents...), '}')
		defs, err := compiler.Decode(doc, compiler.FormatJSON)
		if err != nil {
			return domain.Result{}, err
		}
		rounds, dampener := mode.Params()
		if body.Rounds != 0 {
			rounds = body.Rounds
		}
		if body.Dampener != 0 {
			dampener = body.Dampener
		}
		if rounds > s.maxRounds {
			return domain.Result{}, fmt.Errorf("%w: rounds %d exceeds the server limit of %d", domain.ErrInvalidRunConfig, rounds, s.maxRounds)
		}
		return s.Solver.Simulate(ctx, defs, rounds, dampener)
	default:
		return domain.Result{}, fmt.Errorf("%w: input or agents is required", domain.ErrInvalidRunConfig)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformedDefinition),
		errors.Is(err, domain.ErrInvalidRunConfig),
		errors.Is(err, domain.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrArithmeticOverflow), errors.Is(err, domain.ErrDivisionByZero):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	reqID := middleware.GetReqID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", reqID, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Warn("request rejected", "request_id", reqID, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: reqID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
