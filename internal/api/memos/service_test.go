package memos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/memos/internal/entity"
	"github.com/evgeniy-krivenko/memos/internal/repository"
	memosusecase "github.com/evgeniy-krivenko/memos/internal/usecase/memos"
	"github.com/evgeniy-krivenko/memos/pkg/database"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	sqlDB, err := database.NewSQLite(ctx, database.NewOptions(
		filepath.Join(t.TempDir(), "memos.db"),
		database.WithRetry(false),
	))
	require.NoError(t, err)

	db := database.NewDatabase(sqlDB)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(ctx))

	uc, err := memosusecase.New(memosusecase.NewOptions(repo, db))
	require.NoError(t, err)

	svc, err := New(uc)
	require.NoError(t, err)

	srv := httptest.NewServer(svc.Routes())
	t.Cleanup(srv.Close)

	return srv
}

func do(t *testing.T, method, url, body string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw json.RawMessage
	if resp.ContentLength != 0 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	}

	return resp.StatusCode, raw
}

func decodeMemo(t *testing.T, raw []byte) memoResponse {
	t.Helper()

	var m memoResponse
	require.NoError(t, json.Unmarshal(raw, &m))

	return m
}

func TestHealth(t *testing.T) {
	srv := setupServer(t)

	code, body := do(t, http.MethodGet, srv.URL+"/api/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestListEmpty(t *testing.T) {
	srv := setupServer(t)

	code, body := do(t, http.MethodGet, srv.URL+"/api/memos", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))
}

func TestCreateGetUpdate(t *testing.T) {
	srv := setupServer(t)

	code, body := do(t, http.MethodPost, srv.URL+"/api/memos", `{"title":"Groceries","content":"Milk, eggs"}`)
	require.Equal(t, http.StatusCreated, code)
	created := decodeMemo(t, body)
	assert.Equal(t, int64(1), created.ID)
	_, err := time.Parse(time.RFC3339Nano, created.Date)
	require.NoError(t, err)

	code, _ = do(t, http.MethodPost, srv.URL+"/api/memos", `{"title":"Work","content":"Call Bob"}`)
	require.Equal(t, http.StatusCreated, code)

	code, body = do(t, http.MethodPut, srv.URL+"/api/memos/1", `{"title":"Groceries v2","content":"Milk, eggs, bread"}`)
	require.Equal(t, http.StatusOK, code)
	updated := decodeMemo(t, body)
	assert.Equal(t, "Groceries v2", updated.Title)
	assert.Equal(t, created.Date, updated.Date)

	code, body = do(t, http.MethodGet, srv.URL+"/api/memos/2", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Work", decodeMemo(t, body).Title)

	code, body = do(t, http.MethodGet, srv.URL+"/api/memos", "")
	require.Equal(t, http.StatusOK, code)
	var list []memoResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.Equal(t, updated, list[0])
}

func TestNotFound(t *testing.T) {
	srv := setupServer(t)

	for _, path := range []string{"/api/memos/1", "/api/memos/0", "/api/memos/-3", "/api/memos/abc"} {
		code, _ := do(t, http.MethodGet, srv.URL+path, "")
		assert.Equal(t, http.StatusNotFound, code, path)

		code, _ = do(t, http.MethodPut, srv.URL+path, `{"title":"t","content":"c"}`)
		assert.Equal(t, http.StatusNotFound, code, path)
	}

	code, body := do(t, http.MethodGet, srv.URL+"/api/memos", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))
}

func TestValidation(t *testing.T) {
	srv := setupServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "blank title", body: `{"title":"   ","content":"c"}`},
		{name: "missing content", body: `{"title":"t"}`},
		{name: "broken json", body: `{"title":`},
		{name: "trailing object", body: `{"title":"t","content":"c"}{"title":"x"}`},
		{name: "trailing garbage", body: `{"title":"t","content":"c"} junk`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := do(t, http.MethodPost, srv.URL+"/api/memos", tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
		})
	}

	code, body := do(t, http.MethodGet, srv.URL+"/api/memos", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body), "rejected requests must not save anything")
}

func TestBodyTooLarge(t *testing.T) {
	srv := setupServer(t)

	huge := `{"title":"t","content":"` + strings.Repeat("a", maxBodyBytes) + `"}`

	code, _ := do(t, http.MethodPost, srv.URL+"/api/memos", huge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)

	code, _ = do(t, http.MethodGet, srv.URL+"/api/memos", "")
	assert.Equal(t, http.StatusOK, code)
}

type brokenUsecase struct {
	memosUsecase
}

func (brokenUsecase) ListMemos(context.Context) ([]entity.Memo, error) {
	return nil, fmt.Errorf("%w: %w", entity.ErrStorageRead, errors.New("disk I/O error"))
}

func TestStorageFailure(t *testing.T) {
	svc, err := New(brokenUsecase{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/memos", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"failed to read memos"}`, rec.Body.String())
}

func TestEvents(t *testing.T) {
	srv := setupServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/memos/events", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	// the subscription is registered after the upgrade; keep saving until a frame arrives
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				resp, err := http.Post(srv.URL+"/api/memos", "application/json",
					strings.NewReader(`{"title":"ping","content":"pong"}`))
				if err == nil {
					resp.Body.Close()
				}
			}
		}
	}()

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var ev eventResponse
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, entity.MemoCreated, ev.Kind)
	assert.Equal(t, "ping", ev.Memo.Title)
	assert.Equal(t, "pong", ev.Memo.Content)
}
