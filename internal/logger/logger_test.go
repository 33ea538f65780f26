package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	l := Logger()
	assert.NotNil(t, l)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("production is json at info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		l := New("production", &buf)
		l.Debug("hidden")
		l.Info("batch generated", "files", 40)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "batch generated", entry["msg"])
		assert.EqualValues(t, 40, entry["files"])
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("development is text at debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		l := New("development", &buf)
		l.Debug("visible")

		assert.Contains(t, buf.String(), "msg=visible")
	})
}

func TestWithRequestID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctx = WithRequestID(ctx, "test-request-123")

	val := ctx.Value(requestIDKey)
	assert.Equal(t, "test-request-123", val)
}

func TestWithBatchID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctx = WithBatchID(ctx, "batch-456")

	val := ctx.Value(batchIDKey)
	assert.Equal(t, "batch-456", val)
}

func TestEnrich(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setupCtx func() context.Context
		want     []string
	}{
		{
			name:     "empty context",
			setupCtx: context.Background,
			want:     nil,
		},
		{
			name: "with request ID",
			setupCtx: func() context.Context {
				return WithRequestID(context.Background(), "req-123")
			},
			want: []string{"request_id=req-123"},
		},
		{
			name: "with both IDs",
			setupCtx: func() context.Context {
				ctx := WithRequestID(context.Background(), "req-123")
				return WithBatchID(ctx, "batch-456")
			},
			want: []string{"request_id=req-123", "batch_id=batch-456"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := Enrich(tt.setupCtx(), New("development", &buf))
			l.Info("hello")

			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, FromContext(context.Background()))
	assert.NotNil(t, FromContext(WithBatchID(context.Background(), "b")))
}

func TestConvenienceFunctions(t *testing.T) {
	// These just verify the functions don't panic
	oldStdout := os.Stdout
	defer func() { os.Stdout = oldStdout }()

	r, w, _ := os.Pipe()
	os.Stdout = w

	Info("test info", "key", "value")
	Error("test error", "key", "value")
	Debug("test debug", "key", "value")
	Warn("test warn", "key", "value")

	_ = w.Close()
	_ = r.Close()

	assert.True(t, true)
}
