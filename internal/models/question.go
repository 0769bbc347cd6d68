package models

import (
	"errors"
	"fmt"
)

// OptionLabels are the four answer labels every question carries, in order.
var OptionLabels = []string{"A", "B", "C", "D"}

// QuestionRecord is the unit produced by the generators and persisted inside
// tests and exams. The JSON shape is consumed by clients and must not change.
type QuestionRecord struct {
	Question    string            `json:"question"`
	Options     map[string]string `json:"options"`
	Answer      string            `json:"answer"`
	Explanation string            `json:"explanation,omitempty"`
	Category    string            `json:"category,omitempty"`
	Topic       string            `json:"topic,omitempty"`
	Subtopic    string            `json:"subtopic,omitempty"`
}

// Validate checks the option/answer invariant.
func (q QuestionRecord) Validate() error {
	if q.Question == "" {
		return errors.New("empty question")
	}
	if len(q.Options) != len(OptionLabels) {
		return fmt.Errorf("expected %d options, got %d", len(OptionLabels), len(q.Options))
	}
	for _, label := range OptionLabels {
		if q.Options[label] == "" {
			return fmt.Errorf("option %s missing or empty", label)
		}
	}
	if _, ok := q.Options[q.Answer]; !ok {
		return fmt.Errorf("answer %q is not an option label", q.Answer)
	}
	return nil
}

// PublicQuestion is a QuestionRecord with the answer key removed.
type PublicQuestion struct {
	Index    int               `json:"index"`
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
	Category string            `json:"category,omitempty"`
	Topic    string            `json:"topic,omitempty"`
}

func (q QuestionRecord) Public(index int) PublicQuestion {
	return PublicQuestion{
		Index:    index,
		Question: q.Question,
		Options:  q.Options,
		Category: q.Category,
		Topic:    q.Topic,
	}
}

// PublicQuestions strips answers from every record.
func PublicQuestions(qs []QuestionRecord) []PublicQuestion {
	out := make([]PublicQuestion, len(qs))
	for i, q := range qs {
		out[i] = q.Public(i)
	}
	return out
}

// ── Generation Requests ──────────────────────────────────

type GenerateDocumentRequest struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

type GenerateSyllabusRequest struct {
	MathCount     int `json:"math_count"`
	ComputerCount int `json:"computer_count"`
}

// SyllabusQuestions is the two-section result of syllabus generation.
type SyllabusQuestions struct {
	Mathematics       []QuestionRecord `json:"mathematics"`
	ComputerAwareness []QuestionRecord `json:"computer_awareness"`
}

type GenerateDocumentResponse struct {
	Questions []QuestionRecord `json:"questions"`
	Source    string           `json:"source"`
	Count     int              `json:"count"`
}
