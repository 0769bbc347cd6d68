package exams

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfquiz/backend/internal/middleware"
	"github.com/pdfquiz/backend/internal/models"
)

func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/exams", h.Create).Methods("POST")
	r.HandleFunc("/exams", h.List).Methods("GET")
	r.HandleFunc("/exams/{id}", h.Get).Methods("GET")
	r.HandleFunc("/exams/{id}/start", h.Start).Methods("POST")
	r.HandleFunc("/exams/{id}/submit", h.Submit).Methods("POST")
	return r
}

func serve(r http.Handler, method, path, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithUser(req.Context(), userID, "tester"))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ExamFlow(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	r := newRouter(NewHandler(svc))

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodPost, "/exams", "", 0).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/exams", "{", 1).Code)

	rec := serve(r, http.MethodPost, "/exams", `{"math_questions": 2, "computer_questions": 1, "exam_duration": 45}`, 1)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.ExamView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, 45, created.Settings.ExamDuration)
	path := "/exams/" + created.ID

	assert.Equal(t, http.StatusConflict, serve(r, http.MethodPost, path+"/submit", `{"answers": {}}`, 1).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPost, path+"/start", "", 2).Code)

	rec = serve(r, http.MethodPost, path+"/start", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"remaining_seconds":2700`)
	assert.NotContains(t, rec.Body.String(), `"answer"`)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, path+"/submit", "not json", 1).Code)

	rec = serve(r, http.MethodPost, path+"/submit",
		`{"answers": {"mathematics": {"0": "A", "1": "A"}, "computer_awareness": {"0": "C"}}}`, 1)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.SubmitExamResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Score.Correct)
	assert.Equal(t, 3, resp.Score.Total)

	rec = serve(r, http.MethodGet, path, "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)
	assert.Contains(t, rec.Body.String(), `"review"`)
}

func TestHandler_ListAndLookup(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	r := newRouter(NewHandler(svc))

	serve(r, http.MethodPost, "/exams", "", 1)
	rec := serve(r, http.MethodGet, "/exams?limit=5", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	var list models.ExamListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, 5, list.Limit)
	assert.Equal(t, 60, list.Exams[0].Settings.MathQuestions)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/exams/not-a-uuid", "", 1).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/exams/9b2f7e1c-3d4a-4c1e-8f00-000000000001", "", 1).Code)
}
