package slogx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInitGlobal_JSON(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, InitGlobal(&buf, "info", false))

	ctx := context.Background()
	Debug(ctx, "hidden")
	Info(ctx, "memo saved", MemoID(7), Err(errors.New("boom")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "memo saved", rec["msg"])
	assert.Equal(t, "INFO", rec["level"])
	assert.EqualValues(t, 7, rec["memo_id"])
	assert.Equal(t, "boom", rec["err"])
}

func TestInitGlobal_Pretty(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, InitGlobal(&buf, "debug", true))

	Debug(context.Background(), "pretty line")
	assert.Contains(t, buf.String(), "pretty line")
}

func TestInitGlobal_BadLevel(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, InitGlobal(&buf, "loud", false))
}

func TestLoggingMiddleware(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer
	SetDefault(New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	middleware.RequestID(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/memos", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "finish success", line["msg"])
	assert.EqualValues(t, 418, line["status"])
	assert.Equal(t, "/api/memos", line["path"])
	assert.Equal(t, http.MethodGet, line["method"])
	assert.NotEmpty(t, line["request_id"])
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := New(slog.NewJSONHandler(&buf, nil))

	scoped := base.With(MemoID(3), slog.String("op", "update"))
	scoped.Info(context.Background(), "scoped", slog.Bool("found", true))
	base.Info(context.Background(), "plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.EqualValues(t, 3, first["memo_id"])
	assert.Equal(t, "update", first["op"])
	assert.Equal(t, true, first["found"])
	assert.NotContains(t, second, "memo_id")
}
