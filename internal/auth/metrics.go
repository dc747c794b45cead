// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package auth

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/assoplat/assoplat/internal/apierr"
)

// Result labels for authentication metrics.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Operation labels for authentication metrics.
const (
	OpRegister       = "register"
	OpLogin          = "login"
	OpLogout         = "logout"
	OpUpdateUserInfo = "update_user_info"
	OpGetUserInfo    = "get_user_info"
)

// AuthAttempts counts service operations by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var AuthAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "assoplat_auth_attempts_total",
		Help: "Total number of authentication operations by operation and result",
	},
	[]string{"operation", "result"},
)

// RegisterMetrics registers auth metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AuthAttempts)
}

// resultOf classifies err for metrics. Client errors are rejections.
func resultOf(err error) string {
	if err == nil {
		return ResultSuccess
	}
	if apierr.KindOf(err).HTTPStatus() < http.StatusInternalServerError {
		return ResultRejected
	}
	return ResultError
}

func recordAttempt(operation string, err error) {
	AuthAttempts.WithLabelValues(operation, resultOf(err)).Inc()
}
