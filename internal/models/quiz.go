package models

import "time"

// Test is a generated quiz attached to a document.
type Test struct {
	ID         int64            `json:"id"`
	DocumentID int64            `json:"document_id"`
	UserID     int64            `json:"user_id"`
	Title      string           `json:"title"`
	Source     string           `json:"source"`
	Questions  []QuestionRecord `json:"-"`
	CreatedAt  time.Time        `json:"created_at"`
}

type TestView struct {
	Test
	QuestionCount int              `json:"question_count"`
	Questions     []PublicQuestion `json:"questions"`
}

// Result is one submission of a test.
type Result struct {
	ID             int64             `json:"id"`
	UserID         int64             `json:"user_id"`
	TestID         int64             `json:"test_id"`
	Answers        map[string]string `json:"-"`
	CorrectCount   int               `json:"correct_count"`
	TotalQuestions int               `json:"total_questions"`
	Score          float64           `json:"score"`
	SubmittedAt    time.Time         `json:"submitted_at"`
}

// QuestionResult is the per-question review shown after submission.
type QuestionResult struct {
	Index         int               `json:"index"`
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	UserAnswer    string            `json:"user_answer"`
	CorrectAnswer string            `json:"correct_answer"`
	IsCorrect     bool              `json:"is_correct"`
	Explanation   string            `json:"explanation,omitempty"`
}

// ── Request Types ────────────────────────────────────────

type SubmitTestRequest struct {
	Answers map[string]string `json:"answers"`
}

// ── Response Types ───────────────────────────────────────

type SubmitTestResponse struct {
	ResultID       int64            `json:"result_id"`
	Score          float64          `json:"score"`
	CorrectCount   int              `json:"correct_count"`
	TotalQuestions int              `json:"total_questions"`
	Results        []QuestionResult `json:"results"`
	Progress       *ProgressUpdate  `json:"progress,omitempty"`
}

type ResultSummary struct {
	Result
	DocumentID    int64  `json:"document_id"`
	DocumentTitle string `json:"document_title"`
}

type ResultListResponse struct {
	Results []ResultSummary `json:"results"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

type ResultDetail struct {
	ResultSummary
	Questions []QuestionResult `json:"questions"`
}
