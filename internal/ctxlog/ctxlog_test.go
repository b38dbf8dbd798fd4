package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext_ReturnsEmbeddedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("hello")

	assert.Same(t, logger, FromContext(ctx))
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestDiscard(t *testing.T) {
	ctx := Discard(context.Background())
	assert.NotSame(t, slog.Default(), FromContext(ctx))
}
