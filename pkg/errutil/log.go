// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

// Package errutil provides helpers for logging and asserting oops errors.
package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/assoplat/assoplat/internal/apierr"
)

// LogError logs err with structured context. Client errors (4xx kinds) are
// logged at warn level, everything else at error level.
func LogError(ctx context.Context, logger *slog.Logger, msg string, err error) {
	level := slog.LevelError
	attrs := []any{"error", err.Error()}

	if apiErr, ok := apierr.Lookup(err); ok {
		attrs = append(attrs, "api_code", int(apiErr.Kind))
		if apiErr.Kind.HTTPStatus() < 500 {
			level = slog.LevelWarn
		}
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != nil && code != "" {
			attrs = append(attrs, "code", code)
		}
		if octx := oopsErr.Context(); len(octx) > 0 {
			attrs = append(attrs, "context", octx)
		}
	}

	logger.Log(ctx, level, msg, attrs...)
}
