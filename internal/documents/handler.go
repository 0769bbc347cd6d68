package documents

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pdfquiz/backend/internal/middleware"
	"github.com/pdfquiz/backend/internal/models"
)

type Handler struct {
	service        *Service
	maxUploadBytes int64
}

func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}
	return &Handler{service: service, maxUploadBytes: maxUploadBytes}
}

func getUserID(r *http.Request) (int64, bool) {
	uid := middleware.UserID(r.Context())
	return uid, uid > 0
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// writeServiceError maps service errors to statuses.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Document not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
	case errors.Is(err, ErrInvalidState):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Document has not finished processing"})
	default:
		log.Printf("[documents] %s: %v", fallback, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: fallback})
	}
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: fmt.Sprintf("File exceeds %d MB", h.maxUploadBytes>>20)})
			return
		}
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "No file part"})
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "No selected file"})
		return
	}

	mode := models.OCRMode(r.FormValue("ocr"))
	if mode == "" {
		mode = models.OCRAuto
	}
	if !models.ValidOCRModes[mode] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "ocr must be 'auto', 'force', or 'off'"})
		return
	}

	count := 0
	if v := r.FormValue("question_count"); v != "" {
		count, err = strconv.Atoi(v)
		if err != nil || count < 0 {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "question_count must be a positive integer"})
			return
		}
	}

	doc, err := h.service.Upload(UploadInput{
		UserID:        userID,
		Filename:      header.Filename,
		Title:         r.FormValue("title"),
		QuestionCount: count,
		OCRMode:       mode,
		Size:          header.Size,
		Body:          file,
	})
	if errors.Is(err, ErrInvalidFile) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Only PDF files are allowed"})
		return
	}
	if err != nil {
		writeServiceError(w, err, "Failed to store upload")
		return
	}

	writeJSON(w, http.StatusAccepted, models.UploadResponse{
		Document: *doc,
		Message:  "File uploaded successfully. Processing has started.",
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	query := r.URL.Query()
	resp, err := h.service.List(userID, intQueryParam(query, "limit", 20), intQueryParam(query, "offset", 0))
	if err != nil {
		writeServiceError(w, err, "Failed to list documents")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid document ID"})
		return
	}

	doc, err := h.service.Get(userID, id)
	if err != nil {
		writeServiceError(w, err, "Failed to load document")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid document ID"})
		return
	}

	status, err := h.service.Status(userID, id)
	if err != nil {
		writeServiceError(w, err, "Failed to load status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid document ID"})
		return
	}

	rc, doc, err := h.service.Open(userID, id)
	if err != nil {
		writeServiceError(w, err, "Failed to open document")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
	if doc.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("[documents] download of document %d interrupted: %v", id, err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid document ID"})
		return
	}

	if err := h.service.Delete(userID, id); err != nil {
		writeServiceError(w, err, "Failed to delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid document ID"})
		return
	}

	var req models.RegenerateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
			return
		}
	}

	test, err := h.service.Regenerate(r.Context(), userID, id, req.QuestionCount)
	if err != nil {
		writeServiceError(w, err, "Failed to generate test")
		return
	}
	writeJSON(w, http.StatusCreated, models.TestView{
		Test:          *test,
		QuestionCount: len(test.Questions),
		Questions:     models.PublicQuestions(test.Questions),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
