package quizzes

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/pdfquiz/backend/internal/gamification"
	"github.com/pdfquiz/backend/internal/models"
)

func newDocument(title string) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderTestPDF prints a test as a worksheet. With answers set, an answer
// key with explanations follows on a new page.
func RenderTestPDF(test *models.Test, withAnswers bool) ([]byte, error) {
	pdf, tr := newDocument(test.Title)

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(test.Title), "", "C", false)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d questions | Generated %s", len(test.Questions), test.CreatedAt.Format("2006-01-02")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for i, q := range test.Questions {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, q.Question)), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		for _, label := range models.OptionLabels {
			pdf.SetX(pdf.GetX() + 6)
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s) %s", label, q.Options[label])), "", "L", false)
		}
		pdf.Ln(3)
	}

	if withAnswers {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, "Answer Key", "", 1, "L", false, 0, "")
		pdf.Ln(2)
		for i, q := range test.Questions {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(18, 6, fmt.Sprintf("%d.", i+1), "", 0, "L", false, 0, "")
			pdf.CellFormat(10, 6, q.Answer, "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 6, tr(q.Explanation), "", "L", false)
		}
	}

	return output(pdf)
}

// RenderResultPDF prints a score report for one submission.
func RenderResultPDF(detail *models.ResultDetail) ([]byte, error) {
	pdf, tr := newDocument("Test Results")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Test Results", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 7, tr(detail.DocumentTitle), "", "C", false)
	pdf.CellFormat(0, 7,
		fmt.Sprintf("Score: %d/%d (%.0f%%) | Date: %s",
			detail.CorrectCount, detail.TotalQuestions, detail.Score, detail.SubmittedAt.Format(time.DateOnly)),
		"", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(12, 7, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(118, 7, "Question", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Yours", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 7, "Correct", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 7, "Result", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, q := range detail.Questions {
		mark := "Wrong"
		if q.IsCorrect {
			mark = "Right"
		}
		answer := q.UserAnswer
		if answer == "" {
			answer = "-"
		}
		pdf.CellFormat(12, 6, fmt.Sprintf("%d", q.Index+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(118, 6, tr(truncate(q.Question, 70)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, answer, "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, q.CorrectAnswer, "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, mark, "1", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("XP earned for this test: %d", gamification.TestXP(detail.CorrectCount)), "", 1, "L", false, 0, "")

	return output(pdf)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
