package models

import "time"

type ExamStatus string

const (
	ExamCreated    ExamStatus = "created"
	ExamReady      ExamStatus = "ready"
	ExamInProgress ExamStatus = "in_progress"
	ExamCompleted  ExamStatus = "completed"
)

const (
	SectionMathematics       = "mathematics"
	SectionComputerAwareness = "computer_awareness"
)

type ExamSettings struct {
	ExamDuration       int  `json:"exam_duration"`
	MathQuestions      int  `json:"math_questions"`
	ComputerQuestions  int  `json:"computer_questions"`
	EnableFullscreen   bool `json:"enable_fullscreen"`
	EnableAntiCheating bool `json:"enable_anticheating"`
	ShowExplanations   bool `json:"show_explanations"`
}

// DefaultExamSettings mirrors a full-length paper.
func DefaultExamSettings() ExamSettings {
	return ExamSettings{
		ExamDuration:       120,
		MathQuestions:      60,
		ComputerQuestions:  60,
		EnableFullscreen:   true,
		EnableAntiCheating: true,
		ShowExplanations:   true,
	}
}

type Exam struct {
	ID        string            `json:"exam_id"`
	UserID    int64             `json:"user_id"`
	Settings  ExamSettings      `json:"settings"`
	Status    ExamStatus        `json:"status"`
	Questions SyllabusQuestions `json:"-"`
	Answers   ExamAnswers       `json:"-"`
	Score     *ExamScore        `json:"score,omitempty"`
	StartTime *time.Time        `json:"start_time,omitempty"`
	EndTime   *time.Time        `json:"end_time,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Deadline is when the exam clock runs out. Zero if not started.
func (e Exam) Deadline() time.Time {
	if e.StartTime == nil {
		return time.Time{}
	}
	return e.StartTime.Add(time.Duration(e.Settings.ExamDuration) * time.Minute)
}

// ExamAnswers maps section name to question index (as a string) to label.
type ExamAnswers map[string]map[string]string

type SectionScore struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

type ExamScore struct {
	Sections   map[string]SectionScore `json:"sections"`
	Correct    int                     `json:"correct"`
	Total      int                     `json:"total"`
	Percentage float64                 `json:"percentage"`
	TimedOut   bool                    `json:"timed_out"`
}

// ── Request / Response Types ─────────────────────────────

type CreateExamRequest struct {
	ExamDuration       *int  `json:"exam_duration"`
	MathQuestions      *int  `json:"math_questions"`
	ComputerQuestions  *int  `json:"computer_questions"`
	EnableFullscreen   *bool `json:"enable_fullscreen"`
	EnableAntiCheating *bool `json:"enable_anticheating"`
	ShowExplanations   *bool `json:"show_explanations"`
}

type SubmitExamRequest struct {
	Answers ExamAnswers `json:"answers"`
}

type ExamView struct {
	Exam
	Mathematics       []PublicQuestion `json:"mathematics,omitempty"`
	ComputerAwareness []PublicQuestion `json:"computer_awareness,omitempty"`
	Review            *ExamReview      `json:"review,omitempty"`
	RemainingSeconds  *int             `json:"remaining_seconds,omitempty"`
}

type ExamReview struct {
	Mathematics       []QuestionResult `json:"mathematics"`
	ComputerAwareness []QuestionResult `json:"computer_awareness"`
}

type SubmitExamResponse struct {
	ExamID   string          `json:"exam_id"`
	Score    ExamScore       `json:"score"`
	Review   *ExamReview     `json:"review,omitempty"`
	Progress *ProgressUpdate `json:"progress,omitempty"`
}

type ExamListResponse struct {
	Exams  []Exam `json:"exams"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}
