package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streame/internal/history"
	"streame/internal/httpapi/middleware"
	"streame/internal/kv"
	"streame/internal/remote"
	"streame/internal/shared"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(tokenString string) (*shared.AuthClaims, error) {
	if tokenString != "good-token" {
		return nil, errors.New("invalid token")
	}
	return &shared.AuthClaims{UserID: "user1", Email: "viewer@example.com"}, nil
}

func setupHistoryRouter(t *testing.T, store remote.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	local := kv.NewMemory()
	svc := history.NewService(store, history.NewLocalCache(local, nil), history.NewQueue(local, nil), nil)
	h := NewHistoryHandler(svc)

	r := gin.New()
	auth := middleware.AuthMiddleware(stubValidator{})
	h.RegisterRoutes(r.Group("/api/history", auth))
	r.POST("/api/save-history", auth, h.SaveBeacon)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func saveBody(tmdbID int64) map[string]any {
	return map[string]any{
		"tmdb_id":  tmdbID,
		"type":     "movie",
		"title":    "Inception",
		"progress": 42.5,
	}
}

func TestHistorySaveThenList(t *testing.T) {
	r := setupHistoryRouter(t, remote.NewMemory())

	w := doJSON(t, r, http.MethodPost, "/api/history", saveBody(27205))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		History   []history.Record `json:"history"`
		FromCache bool             `json:"from_cache"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.History, 1)
	assert.Equal(t, int64(27205), resp.History[0].TMDBID)
	assert.False(t, resp.FromCache)
}

func TestHistoryListFallsBackWhenRemoteDown(t *testing.T) {
	store := remote.NewMemory()
	r := setupHistoryRouter(t, store)

	w := doJSON(t, r, http.MethodPost, "/api/history", saveBody(27205))
	assert.Equal(t, http.StatusOK, w.Code)

	store.Err = errors.New("connection refused")

	w = doJSON(t, r, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		History   []history.Record `json:"history"`
		FromCache bool             `json:"from_cache"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.History, 1)
	assert.True(t, resp.FromCache)
}

func TestHistorySaveOfflineStillSucceeds(t *testing.T) {
	store := remote.NewMemory()
	store.Err = errors.New("connection refused")
	r := setupHistoryRouter(t, store)

	w := doJSON(t, r, http.MethodPost, "/api/history", saveBody(27205))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHistoryBeacon(t *testing.T) {
	store := remote.NewMemory()
	r := setupHistoryRouter(t, store)

	w := doJSON(t, r, http.MethodPost, "/api/save-history", saveBody(27205))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, store.Rows(history.Table), 1)
}

func TestHistoryRemove(t *testing.T) {
	store := remote.NewMemory()
	r := setupHistoryRouter(t, store)

	doJSON(t, r, http.MethodPost, "/api/history", saveBody(27205))

	w := doJSON(t, r, http.MethodDelete, "/api/history/27205?type=movie", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.Rows(history.Table))
}

func TestHistoryRemoveRequiresType(t *testing.T) {
	r := setupHistoryRouter(t, remote.NewMemory())

	w := doJSON(t, r, http.MethodDelete, "/api/history/27205", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryClearPropagatesRemoteFailure(t *testing.T) {
	store := remote.NewMemory()
	r := setupHistoryRouter(t, store)

	doJSON(t, r, http.MethodPost, "/api/history", saveBody(27205))
	store.Err = errors.New("connection refused")

	w := doJSON(t, r, http.MethodDelete, "/api/history", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHistoryGet(t *testing.T) {
	r := setupHistoryRouter(t, remote.NewMemory())

	doJSON(t, r, http.MethodPost, "/api/history", saveBody(27205))

	w := doJSON(t, r, http.MethodGet, "/api/history/27205?type=movie", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rec history.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "Inception", rec.Title)

	w = doJSON(t, r, http.MethodGet, "/api/history/99999?type=movie", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryRejectsMissingToken(t *testing.T) {
	r := setupHistoryRouter(t, remote.NewMemory())

	req, err := http.NewRequest(http.MethodGet, "/api/history", nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHistoryRejectsBadToken(t *testing.T) {
	r := setupHistoryRouter(t, remote.NewMemory())

	req, err := http.NewRequest(http.MethodGet, "/api/history", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer forged")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
