package quizzes

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfquiz/backend/internal/models"
)

func pageCount(data []byte) int {
	return bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
}

func TestRenderTestPDF(t *testing.T) {
	test := &models.Test{
		ID:        1,
		Title:     "Cell Biology – Unit 1",
		Questions: sampleQuestions("A", "C", "B"),
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	plain, err := RenderTestPDF(test, false)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(plain, []byte("%PDF-")))

	withKey, err := RenderTestPDF(test, true)
	require.NoError(t, err)
	assert.Equal(t, pageCount(plain)+1, pageCount(withKey))
}

func TestRenderResultPDF(t *testing.T) {
	_, results := Grade(sampleQuestions("A", "B"), map[string]string{"0": "A"}, true)
	detail := &models.ResultDetail{
		ResultSummary: models.ResultSummary{
			Result: models.Result{
				CorrectCount:   1,
				TotalQuestions: 2,
				Score:          50,
				SubmittedAt:    time.Now(),
			},
			DocumentTitle: "Networks",
		},
		Questions: results,
	}

	data, err := RenderResultPDF(detail)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
