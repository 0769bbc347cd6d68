package quizzes

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/pdfquiz/backend/internal/gamification"
	"github.com/pdfquiz/backend/internal/models"
)

const (
	maxPreviewQuestions = 200
	defaultResultsLimit = 20
	maxResultsLimit     = 100
)

// Repository is the persistence the service needs; *Store implements it.
type Repository interface {
	CreateTest(t *models.Test) error
	GetTest(id int64) (*models.Test, error)
	CreateResult(r *models.Result) error
	GetResult(id int64) (*models.ResultSummary, error)
	ListResults(userID int64, limit, offset int) ([]models.ResultSummary, int, error)
}

// QuestionGenerator is the generation boundary used for previews.
type QuestionGenerator interface {
	DocumentQuestions(ctx context.Context, text string, count int) ([]models.QuestionRecord, string)
	SyllabusQuestions(mathCount, computerCount int) models.SyllabusQuestions
}

// ProgressRecorder folds a scored test into the user's stats.
type ProgressRecorder interface {
	RecordTestResult(userID int64, kind, ref string, correct, total int) (*models.ProgressUpdate, error)
}

type Service struct {
	store     Repository
	generator QuestionGenerator
	progress  ProgressRecorder
}

func NewService(store Repository, gen QuestionGenerator) *Service {
	return &Service{store: store, generator: gen}
}

// SetProgressRecorder injects the gamification service for XP and badges.
func (s *Service) SetProgressRecorder(p ProgressRecorder) {
	s.progress = p
}

func (s *Service) ownedTest(userID, testID int64) (*models.Test, error) {
	test, err := s.store.GetTest(testID)
	if err != nil {
		return nil, err
	}
	if test.UserID != userID {
		return nil, ErrForbidden
	}
	return test, nil
}

// ── Tests ───────────────────────────────────────────────

// GetTest returns the test with answers stripped.
func (s *Service) GetTest(userID, testID int64) (*models.TestView, error) {
	test, err := s.ownedTest(userID, testID)
	if err != nil {
		return nil, err
	}
	return &models.TestView{
		Test:          *test,
		QuestionCount: len(test.Questions),
		Questions:     models.PublicQuestions(test.Questions),
	}, nil
}

func (s *Service) Submit(userID, testID int64, answers map[string]string) (*models.SubmitTestResponse, error) {
	test, err := s.ownedTest(userID, testID)
	if err != nil {
		return nil, err
	}
	if answers == nil {
		answers = map[string]string{}
	}

	correct, results := Grade(test.Questions, answers, true)
	total := len(test.Questions)
	result := &models.Result{
		UserID:         userID,
		TestID:         testID,
		Answers:        answers,
		CorrectCount:   correct,
		TotalQuestions: total,
		Score:          gamification.Percentage(correct, total),
	}
	if err := s.store.CreateResult(result); err != nil {
		return nil, err
	}

	resp := &models.SubmitTestResponse{
		ResultID:       result.ID,
		Score:          result.Score,
		CorrectCount:   correct,
		TotalQuestions: total,
		Results:        results,
	}
	if s.progress != nil {
		update, err := s.progress.RecordTestResult(userID, "test", fmt.Sprintf("result:%d", result.ID), correct, total)
		if err != nil {
			log.Printf("[quizzes] failed to record progress for user %d: %v", userID, err)
		} else {
			resp.Progress = update
		}
	}

	log.Printf("[quizzes] user %d scored %d/%d on test %d", userID, correct, total, testID)
	return resp, nil
}

// ── Results ─────────────────────────────────────────────

func (s *Service) ListResults(userID int64, limit, offset int) (*models.ResultListResponse, error) {
	if limit <= 0 {
		limit = defaultResultsLimit
	}
	limit = min(limit, maxResultsLimit)

	results, total, err := s.store.ListResults(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.ResultSummary{}
	}
	return &models.ResultListResponse{Results: results, Total: total, Limit: limit, Offset: offset}, nil
}

// GetResult rebuilds the per-question review from the stored test.
func (s *Service) GetResult(userID, resultID int64) (*models.ResultDetail, error) {
	rs, err := s.store.GetResult(resultID)
	if err != nil {
		return nil, err
	}
	if rs.UserID != userID {
		return nil, ErrForbidden
	}
	test, err := s.store.GetTest(rs.TestID)
	if err != nil {
		return nil, err
	}

	_, questions := Grade(test.Questions, rs.Answers, true)
	return &models.ResultDetail{ResultSummary: *rs, Questions: questions}, nil
}

// ── Export ──────────────────────────────────────────────

func (s *Service) ExportTest(userID, testID int64, withAnswers bool) ([]byte, *models.Test, error) {
	test, err := s.ownedTest(userID, testID)
	if err != nil {
		return nil, nil, err
	}
	data, err := RenderTestPDF(test, withAnswers)
	if err != nil {
		return nil, nil, err
	}
	return data, test, nil
}

func (s *Service) ResultReport(userID, resultID int64) ([]byte, error) {
	detail, err := s.GetResult(userID, resultID)
	if err != nil {
		return nil, err
	}
	return RenderResultPDF(detail)
}

// ── Preview Generation ──────────────────────────────────

func (s *Service) PreviewDocument(ctx context.Context, req models.GenerateDocumentRequest) ([]models.QuestionRecord, string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, "", fmt.Errorf("%w: text is required", ErrInvalidRequest)
	}
	if req.Count < 1 || req.Count > maxPreviewQuestions {
		return nil, "", fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidRequest, maxPreviewQuestions)
	}
	qs, source := s.generator.DocumentQuestions(ctx, req.Text, req.Count)
	return qs, source, nil
}

func (s *Service) PreviewSyllabus(req models.GenerateSyllabusRequest) (*models.SyllabusQuestions, error) {
	if req.MathCount < 0 || req.ComputerCount < 0 ||
		req.MathCount > maxPreviewQuestions || req.ComputerCount > maxPreviewQuestions {
		return nil, fmt.Errorf("%w: counts must be between 0 and %d", ErrInvalidRequest, maxPreviewQuestions)
	}
	qs := s.generator.SyllabusQuestions(req.MathCount, req.ComputerCount)
	return &qs, nil
}
