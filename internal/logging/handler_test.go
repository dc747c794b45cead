// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func testOptions(format string) Options {
	return Options{Service: "assoplat", Version: "1.0.0", Format: format, Level: slog.LevelDebug}
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "Failed to parse JSON: %s", buf.String())
	return entry
}

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(testOptions("json"), &buf)

	logger.Info("test message")

	entry := decode(t, &buf)
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "assoplat", entry["service"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry, "level")
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(testOptions("text"), &buf)

	logger.Info("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), "service=assoplat")
}

func TestSetup_DefaultFormatIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(testOptions(""), &buf)

	logger.Info("test message")
	decode(t, &buf)
}

func TestSetup_Level(t *testing.T) {
	var buf bytes.Buffer
	opts := testOptions("json")
	opts.Level = slog.LevelWarn
	logger := Setup(opts, &buf)

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Equal(t, "kept", decode(t, &buf)["msg"])
}

func TestHandler_TraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(testOptions("json"), &buf)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	logger.InfoContext(ctx, "traced message")

	entry := decode(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
}

func TestHandler_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(testOptions("json"), &buf)

	ctx := WithRequestID(context.Background(), "01HZX3K4V7Q8R9S0T1U2V3W4X5")
	logger.InfoContext(ctx, "request message")

	entry := decode(t, &buf)
	assert.Equal(t, "01HZX3K4V7Q8R9S0T1U2V3W4X5", entry["request_id"])
	assert.Equal(t, "01HZX3K4V7Q8R9S0T1U2V3W4X5", RequestID(ctx))
}

func TestHandler_NoContext(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(testOptions("json"), &buf)

	logger.Info("plain message")

	entry := decode(t, &buf)
	assert.NotContains(t, entry, "trace_id")
	assert.NotContains(t, entry, "span_id")
	assert.NotContains(t, entry, "request_id")
}

func TestHandler_WithAttrsKeepsContext(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(testOptions("json"), &buf).With("component", "web").WithGroup("http")

	logger.InfoContext(WithRequestID(context.Background(), "req-1"), "grouped", "status", 200)

	entry := decode(t, &buf)
	assert.Equal(t, "web", entry["component"])
	assert.Equal(t, "assoplat", entry["http"].(map[string]any)["service"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetDefault(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	logger := SetDefault(testOptions("json"))

	assert.Same(t, logger, slog.Default())
}
