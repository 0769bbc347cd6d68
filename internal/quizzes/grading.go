package quizzes

import (
	"strconv"
	"strings"

	"github.com/pdfquiz/backend/internal/models"
)

// Grade compares answers, keyed by question index, against the answer key.
// Unanswered questions count as wrong.
func Grade(questions []models.QuestionRecord, answers map[string]string, withExplanations bool) (int, []models.QuestionResult) {
	correct := 0
	results := make([]models.QuestionResult, len(questions))
	for i, q := range questions {
		selected := strings.ToUpper(strings.TrimSpace(answers[strconv.Itoa(i)]))
		ok := selected != "" && selected == q.Answer
		if ok {
			correct++
		}
		results[i] = models.QuestionResult{
			Index:         i,
			Question:      q.Question,
			Options:       q.Options,
			UserAnswer:    selected,
			CorrectAnswer: q.Answer,
			IsCorrect:     ok,
		}
		if withExplanations {
			results[i].Explanation = q.Explanation
		}
	}
	return correct, results
}
