package gamification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfquiz/backend/internal/middleware"
	"github.com/pdfquiz/backend/internal/models"
)

func authed(r *http.Request, userID int64) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), userID, "tester"))
}

func TestHandler_GetProfile(t *testing.T) {
	svc, _ := newTestService(t, "alice")
	h := NewHandler(svc)

	rec := httptest.NewRecorder()
	h.GetProfile(rec, authed(httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil), 1))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ProfileResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "alice", resp.User.Username)
	assert.Empty(t, resp.Badges)

	rec = httptest.NewRecorder()
	h.GetProfile(rec, authed(httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil), 7))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.GetProfile(rec, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_ListBadges(t *testing.T) {
	svc, _ := newTestService(t, "alice")
	h := NewHandler(svc)

	rec := httptest.NewRecorder()
	h.ListBadges(rec, authed(httptest.NewRequest(http.MethodGet, "/api/v1/badges", nil), 1))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Badges []models.Badge `json:"badges"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Badges, len(Badges))
}

func TestHandler_Leaderboard(t *testing.T) {
	svc, _ := newTestService(t, "alice", "bob", "carol")
	h := NewHandler(svc)

	rec := httptest.NewRecorder()
	h.Leaderboard(rec, authed(httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?limit=1", nil), 3))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.LeaderboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "alice", resp.Entries[0].Username)
	require.NotNil(t, resp.CurrentUser)
	assert.Equal(t, 3, resp.CurrentUser.Rank)
}

func TestIntQueryParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=5&bad=x&neg=-1", nil)
	q := r.URL.Query()
	assert.Equal(t, 5, intQueryParam(q, "limit", 20))
	assert.Equal(t, 20, intQueryParam(q, "bad", 20))
	assert.Equal(t, 20, intQueryParam(q, "neg", 20))
	assert.Equal(t, 20, intQueryParam(q, "missing", 20))
}
