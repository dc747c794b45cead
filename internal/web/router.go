// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/assoplat/assoplat/internal/apierr"
	"github.com/assoplat/assoplat/internal/logging"
	"github.com/assoplat/assoplat/internal/session"
	"github.com/assoplat/assoplat/pkg/errutil"
)

// RequestIDHeader carries the request id on responses.
const RequestIDHeader = "X-Request-Id"

// Handler serves one route with the request's session. It returns the value
// to encode as the JSON response body, or an error.
type Handler func(w http.ResponseWriter, r *http.Request, sess *session.Session) (any, error)

// Route binds a handler to a method and path.
type Route struct {
	Method  string
	Path    string
	Handler Handler
}

// NewRouter builds the HTTP handler for routes. Every route is wrapped in
// the session middleware and the access log.
func NewRouter(store *session.Store, routes []Route, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	for _, rt := range routes {
		mux.Handle(rt.Method+" "+rt.Path, withSession(store, rt.Handler, logger))
	}
	return accessLog(mux, logger)
}

// withSession resolves the session cookie, runs h, persists the session and
// writes the JSON response.
func withSession(store *session.Store, h Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := ""
		if c, err := r.Cookie(store.CookieName()); err == nil {
			token = c.Value
		}

		sess, err := store.Resolve(ctx, token)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}

		result, handlerErr := h(w, r, sess)

		directive, err := store.Persist(ctx, sess)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		http.SetCookie(w, directive.HTTPCookie())

		if handlerErr != nil {
			writeError(w, r, logger, handlerErr)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, body := apierr.ResponseFor(err)
	if status >= http.StatusInternalServerError {
		errutil.LogError(r.Context(), logger, "request failed", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // client may have disconnected
	json.NewEncoder(w).Encode(v)
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// accessLog assigns a request id and logs one line per request.
func accessLog(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := ulid.Make().String()

		ctx := logging.WithRequestID(r.Context(), id)
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.InfoContext(ctx, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
