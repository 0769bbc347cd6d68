package models

import "time"

type DocumentStatus string

const (
	DocumentQueued     DocumentStatus = "queued"
	DocumentProcessing DocumentStatus = "processing"
	DocumentReady      DocumentStatus = "ready"
	DocumentFailed     DocumentStatus = "failed"
)

// OCRMode controls when scanned-page OCR runs during extraction.
type OCRMode string

const (
	OCRAuto  OCRMode = "auto"
	OCRForce OCRMode = "force"
	OCROff   OCRMode = "off"
)

var ValidOCRModes = map[OCRMode]bool{
	OCRAuto:  true,
	OCRForce: true,
	OCROff:   true,
}

type Document struct {
	ID            int64          `json:"id"`
	UserID        int64          `json:"user_id"`
	Filename      string         `json:"filename"`
	Title         string         `json:"title"`
	BlobKey       string         `json:"-"`
	SizeBytes     int64          `json:"size_bytes"`
	OCRMode       OCRMode        `json:"ocr_mode"`
	QuestionCount int            `json:"question_count"`
	Status        DocumentStatus `json:"status"`
	Step          int            `json:"step"`
	Progress      int            `json:"progress"`
	StatusMessage string         `json:"status_message"`
	UsedOCR       bool           `json:"used_ocr"`
	TextChars     int            `json:"text_chars"`
	Text          string         `json:"-"`
	UploadedAt    time.Time      `json:"uploaded_at"`
	ProcessedAt   *time.Time     `json:"processed_at,omitempty"`
	TestID        *int64         `json:"test_id,omitempty"`
}

// Complete reports whether processing has finished, successfully or not.
func (d Document) Complete() bool {
	return d.Status == DocumentReady || d.Status == DocumentFailed
}

// ProcessingStatus is the polling view of a document.
type ProcessingStatus struct {
	DocumentID int64  `json:"document_id"`
	Step       int    `json:"step"`
	Progress   int    `json:"progress"`
	Status     string `json:"status"`
	Complete   bool   `json:"complete"`
	TestID     *int64 `json:"test_id,omitempty"`
}

type UploadResponse struct {
	Document Document `json:"document"`
	Message  string   `json:"message"`
}

type RegenerateRequest struct {
	QuestionCount int `json:"question_count"`
}

type DocumentListResponse struct {
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}
