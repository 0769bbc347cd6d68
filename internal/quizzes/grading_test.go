package quizzes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfquiz/backend/internal/models"
)

func sampleQuestions(answers ...string) []models.QuestionRecord {
	qs := make([]models.QuestionRecord, len(answers))
	for i, a := range answers {
		qs[i] = models.QuestionRecord{
			Question:    "Which option is right?",
			Options:     map[string]string{"A": "one", "B": "two", "C": "three", "D": "four"},
			Answer:      a,
			Explanation: "Because.",
		}
	}
	return qs
}

func TestGrade(t *testing.T) {
	qs := sampleQuestions("A", "B", "C", "D")

	correct, results := Grade(qs, map[string]string{"0": "A", "1": " b ", "2": "D"}, true)
	assert.Equal(t, 2, correct)
	require.Len(t, results, 4)

	assert.True(t, results[0].IsCorrect)
	assert.True(t, results[1].IsCorrect)
	assert.Equal(t, "B", results[1].UserAnswer)
	assert.False(t, results[2].IsCorrect)
	assert.Equal(t, "C", results[2].CorrectAnswer)
	assert.False(t, results[3].IsCorrect, "unanswered")
	assert.Equal(t, "", results[3].UserAnswer)
	assert.Equal(t, "Because.", results[0].Explanation)
}

func TestGrade_WithoutExplanations(t *testing.T) {
	_, results := Grade(sampleQuestions("A"), nil, false)
	assert.Empty(t, results[0].Explanation)
}

func TestGrade_Empty(t *testing.T) {
	correct, results := Grade(nil, map[string]string{"0": "A"}, true)
	assert.Zero(t, correct)
	assert.Empty(t, results)
}
