// Package httpapi is the thin HTTP surface named in §6 as an external
// collaborator, not core: POST /extract/pending and GET /extract/status,
// both gated by X-API-Key authentication. Grounded on the teacher's
// internal/router/helper.go fireOkResp/fireErrResp response-writing
// convention and its Repo-wraps-Storage composition shape, adapted from
// weathercock's task-submission handlers to this module's extraction
// use case.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/kgraph/extractor-core/internal/auth"
	"github.com/kgraph/extractor-core/internal/cache"
	"github.com/kgraph/extractor-core/internal/extract"
	ec "github.com/kgraph/extractor-core/pkgs/errors"
	"github.com/rs/zerolog"
)

// Server is the composition root's HTTP handler set. It holds no request-
// scoped state; every field is a process-lifetime collaborator.
type Server struct {
	auth    *auth.ApiKeyStore
	pending *extract.PendingBatchUseCase
	cache   cache.Cache
	logger  zerolog.Logger
	started time.Time
}

func NewServer(authStore *auth.ApiKeyStore, pending *extract.PendingBatchUseCase, c cache.Cache, logger zerolog.Logger) *Server {
	return &Server{auth: authStore, pending: pending, cache: c, logger: logger, started: time.Now().UTC()}
}

// NewRouter wires the module's two endpoints behind the auth middleware.
func (s *Server) NewRouter() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/extract/pending", s.withAuth(http.HandlerFunc(s.handleExtractPending)))
	mux.Handle("/extract/status", s.withAuth(http.HandlerFunc(s.handleExtractStatus)))
	return mux
}

// withAuth validates the X-API-Key header against the ApiKeyStore,
// returning 401 with WWW-Authenticate: ApiKey on a missing or invalid
// key, per §6 and §7's Authentication error kind.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-Key")
		ok, err := s.auth.Validate(r.Context(), key)
		if err != nil {
			s.fireErrResp(w, r, "api key validation failed", ec.ErrCacheUnavailable.Clone().Warp(err))
			return
		}
		if !ok {
			w.Header().Set("WWW-Authenticate", "ApiKey")
			s.fireErrResp(w, r, "missing or invalid api key", unauthorized())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized() *ec.Error {
	return ec.NewWithHTTPStatus(http.StatusUnauthorized, http.StatusUnauthorized, "missing or invalid api key")
}

// handleExtractPending triggers one batch of the PendingBatchUseCase
// over at most `limit` documents and returns {processed, succeeded,
// failed}, per §6's HTTP surface contract.
func (s *Server) handleExtractPending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.fireErrResp(w, r, "method not allowed", ec.ErrBadRequest.Clone().WithDetails("POST required"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fireErrResp(w, r, "invalid limit parameter", ec.ErrBadRequest.Clone().WithDetails("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	result, err := s.pending.Execute(r.Context(), limit)
	if err != nil {
		s.fireErrResp(w, r, "pending batch extraction failed", ec.NewWithHTTPStatus(http.StatusInternalServerError, http.StatusInternalServerError, err.Error()))
		return
	}

	s.fireOkResp(w, r, result)
}

// statusResponse is GET /extract/status's payload: overall health plus a
// minimal metrics snapshot, per §6.
type statusResponse struct {
	Status   string `json:"status"`
	UptimeMS int64  `json:"uptime_ms"`
}

func (s *Server) handleExtractStatus(w http.ResponseWriter, r *http.Request) {
	s.fireOkResp(w, r, statusResponse{
		Status:   "ok",
		UptimeMS: time.Since(s.started).Milliseconds(),
	})
}

// fireOkResp and fireErrResp mirror the teacher's router/helper.go
// logging-plus-write convention, adapted to this module's *ec.Error
// shape. Neither path leaks a stack trace to the client; both log
// structured, per §7's user-visible-behaviour contract.
func (s *Server) fireOkResp(w http.ResponseWriter, r *http.Request, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		s.fireErrResp(w, r, "failed to marshal response", ec.NewWithHTTPStatus(http.StatusInternalServerError, http.StatusInternalServerError, err.Error()))
		return
	}
	s.logger.Info().
		Str("path", r.URL.Path).
		Str("method", r.Method).
		Int("status", http.StatusOK).
		Msg("request handled")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) fireErrResp(w http.ResponseWriter, r *http.Request, msg string, err *ec.Error) {
	s.logger.Error().
		Str("path", r.URL.Path).
		Str("method", r.Method).
		Int("status", err.HttpStatusCode).
		Err(err).
		Msg(msg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HttpStatusCode)
	_ = err.MarshalAndWriteTo(w)
}
