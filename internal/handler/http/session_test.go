package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/domain"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/session"
	redisstore "github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/store/redis"
)

func newSessionTestRouter(t *testing.T) (chi.Router, *redisstore.SessionStore) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	st := redisstore.NewSessionStore(client, 24*time.Hour, logger)

	handler := NewSessionHandler(session.NewSessionService(st, logger), logger)

	r := chi.NewRouter()
	r.Use(SessionID)
	r.Get("/session", handler.GetSession)
	r.Put("/session/preferences", handler.UpdatePreferences)

	return r, st
}

func TestSessionHandler_GetSession_FreshSession(t *testing.T) {
	router, _ := newSessionTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sess-1", resp.Data.ID)
	assert.False(t, resp.Data.LoggedIn)
	assert.False(t, resp.Data.DarkMode)
	assert.Nil(t, resp.Data.Region)
}

func TestSessionHandler_UpdatePreferences(t *testing.T) {
	router, st := newSessionTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/session/preferences", strings.NewReader(`{"dark_mode":true}`))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dark_mode":true`)

	on, err := st.DarkMode(req.Context(), "sess-1")
	require.NoError(t, err)
	assert.True(t, on)
}

func TestSessionHandler_UpdatePreferences_MissingField(t *testing.T) {
	router, _ := newSessionTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/session/preferences", strings.NewReader(`{}`))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
