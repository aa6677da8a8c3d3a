package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogContext_Accumulates(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithDocument(ctx, "guide/intro.md")
	ctx = WithStage(ctx, "render")

	lc := GetContext(ctx)
	assert.Equal(t, LogContext{RunID: "run-1", Document: "guide/intro.md", Stage: "render"}, lc)
}

func TestLogContext_Empty(t *testing.T) {
	assert.Empty(t, Attrs(context.Background()))
	assert.Equal(t, LogContext{}, GetContext(context.Background()))
}

func TestContextHandler_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithDocument(WithRunID(context.Background(), "run-42"), "a.md")
	logger.InfoContext(ctx, "processed", "headings", 3)

	out := buf.String()
	assert.Contains(t, out, "run_id=run-42")
	assert.Contains(t, out, "document=a.md")
	assert.Contains(t, out, "headings=3")
}

func TestContextHandler_WithAttrsKeepsDecorating(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil))).With("component", "build")

	logger.InfoContext(WithStage(context.Background(), "write"), "done")
	assert.Contains(t, buf.String(), "component=build")
	assert.Contains(t, buf.String(), "stage=write")
}

func TestContextHandler_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewContextHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}
