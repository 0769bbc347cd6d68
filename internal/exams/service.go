package exams

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/pdfquiz/backend/internal/gamification"
	"github.com/pdfquiz/backend/internal/models"
	"github.com/pdfquiz/backend/internal/quizzes"
)

const (
	minSectionQuestions = 1
	maxSectionQuestions = 200
	minDurationMinutes  = 10
	maxDurationMinutes  = 300
	submitGrace         = 60 * time.Second
	defaultListLimit    = 20
	maxListLimit        = 100
)

type Repository interface {
	CreateExam(e *models.Exam) error
	GetExam(id string) (*models.Exam, error)
	DeleteExam(id string) error
	ListExams(userID int64, limit, offset int) ([]models.Exam, int, error)
	SaveQuestions(id string, qs models.SyllabusQuestions) error
	MarkStarted(id string, at time.Time) error
	MarkCompleted(id string, answers models.ExamAnswers, score models.ExamScore, at time.Time) error
}

// QuestionGenerator builds the two syllabus sections of a paper.
type QuestionGenerator interface {
	SyllabusQuestions(mathCount, computerCount int) models.SyllabusQuestions
}

type ProgressRecorder interface {
	RecordTestResult(userID int64, kind, ref string, correct, total int) (*models.ProgressUpdate, error)
}

type Service struct {
	store     Repository
	generator QuestionGenerator
	progress  ProgressRecorder
	now       func() time.Time
}

func NewService(store Repository, gen QuestionGenerator) *Service {
	return &Service{store: store, generator: gen, now: time.Now}
}

// SetProgressRecorder injects the gamification service for XP and badges.
func (s *Service) SetProgressRecorder(p ProgressRecorder) {
	s.progress = p
}

// ResolveSettings applies defaults and clamps for a create request.
func ResolveSettings(req models.CreateExamRequest) models.ExamSettings {
	st := models.DefaultExamSettings()
	if req.ExamDuration != nil {
		st.ExamDuration = clamp(*req.ExamDuration, minDurationMinutes, maxDurationMinutes)
	}
	if req.MathQuestions != nil {
		st.MathQuestions = clamp(*req.MathQuestions, minSectionQuestions, maxSectionQuestions)
	}
	if req.ComputerQuestions != nil {
		st.ComputerQuestions = clamp(*req.ComputerQuestions, minSectionQuestions, maxSectionQuestions)
	}
	if req.EnableFullscreen != nil {
		st.EnableFullscreen = *req.EnableFullscreen
	}
	if req.EnableAntiCheating != nil {
		st.EnableAntiCheating = *req.EnableAntiCheating
	}
	if req.ShowExplanations != nil {
		st.ShowExplanations = *req.ShowExplanations
	}
	return st
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func (s *Service) owned(userID int64, id string) (*models.Exam, error) {
	exam, err := s.store.GetExam(id)
	if err != nil {
		return nil, err
	}
	if exam.UserID != userID {
		return nil, ErrForbidden
	}
	return exam, nil
}

// ── Lifecycle ───────────────────────────────────────────

// Create records a new exam and generates its paper in one step.
func (s *Service) Create(userID int64, req models.CreateExamRequest) (*models.ExamView, error) {
	exam := &models.Exam{
		ID:       uuid.NewString(),
		UserID:   userID,
		Settings: ResolveSettings(req),
		Status:   models.ExamCreated,
	}
	if err := s.store.CreateExam(exam); err != nil {
		return nil, err
	}

	qs := s.generator.SyllabusQuestions(exam.Settings.MathQuestions, exam.Settings.ComputerQuestions)
	if err := s.store.SaveQuestions(exam.ID, qs); err != nil {
		if derr := s.store.DeleteExam(exam.ID); derr != nil {
			log.Printf("[exams] failed to remove unsaved exam %s: %v", exam.ID, derr)
		}
		return nil, fmt.Errorf("save exam questions: %w", err)
	}
	exam.Questions = qs
	exam.Status = models.ExamReady

	log.Printf("[exams] created exam %s for user %d: %d math, %d computer", exam.ID, userID,
		len(qs.Mathematics), len(qs.ComputerAwareness))
	return s.view(exam), nil
}

func (s *Service) List(userID int64, limit, offset int) (*models.ExamListResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	exams, total, err := s.store.ListExams(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if exams == nil {
		exams = []models.Exam{}
	}
	return &models.ExamListResponse{Exams: exams, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) Get(userID int64, id string) (*models.ExamView, error) {
	exam, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}
	return s.view(exam), nil
}

func (s *Service) Start(userID int64, id string) (*models.ExamView, error) {
	exam, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if exam.Status != models.ExamReady {
		return nil, ErrInvalidState
	}

	at := s.now().UTC()
	if err := s.store.MarkStarted(exam.ID, at); err != nil {
		return nil, err
	}
	exam.Status = models.ExamInProgress
	exam.StartTime = &at

	log.Printf("[exams] user %d started exam %s", userID, exam.ID)
	return s.view(exam), nil
}

// Submit scores an in-progress exam. Late submissions are accepted but
// flagged as timed out.
func (s *Service) Submit(userID int64, id string, answers models.ExamAnswers) (*models.SubmitExamResponse, error) {
	exam, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if exam.Status != models.ExamInProgress {
		return nil, ErrInvalidState
	}
	if answers == nil {
		answers = models.ExamAnswers{}
	}

	at := s.now().UTC()
	score, review := Score(exam.Questions, answers, exam.Settings.ShowExplanations)
	score.TimedOut = at.After(exam.Deadline().Add(submitGrace))

	if err := s.store.MarkCompleted(exam.ID, answers, score, at); err != nil {
		return nil, err
	}

	resp := &models.SubmitExamResponse{ExamID: exam.ID, Score: score, Review: review}
	if s.progress != nil {
		update, err := s.progress.RecordTestResult(userID, "exam", "exam:"+exam.ID, score.Correct, score.Total)
		if err != nil {
			log.Printf("[exams] failed to record progress for user %d: %v", userID, err)
		} else {
			resp.Progress = update
		}
	}

	log.Printf("[exams] user %d completed exam %s: %d/%d timed_out=%t", userID, exam.ID, score.Correct, score.Total, score.TimedOut)
	return resp, nil
}

// ── Scoring ─────────────────────────────────────────────

// Score grades both sections and totals them.
func Score(qs models.SyllabusQuestions, answers models.ExamAnswers, withExplanations bool) (models.ExamScore, *models.ExamReview) {
	mathCorrect, mathResults := quizzes.Grade(qs.Mathematics, answers[models.SectionMathematics], withExplanations)
	compCorrect, compResults := quizzes.Grade(qs.ComputerAwareness, answers[models.SectionComputerAwareness], withExplanations)

	correct := mathCorrect + compCorrect
	total := len(qs.Mathematics) + len(qs.ComputerAwareness)
	score := models.ExamScore{
		Sections: map[string]models.SectionScore{
			models.SectionMathematics: {
				Correct:    mathCorrect,
				Total:      len(qs.Mathematics),
				Percentage: gamification.Percentage(mathCorrect, len(qs.Mathematics)),
			},
			models.SectionComputerAwareness: {
				Correct:    compCorrect,
				Total:      len(qs.ComputerAwareness),
				Percentage: gamification.Percentage(compCorrect, len(qs.ComputerAwareness)),
			},
		},
		Correct:    correct,
		Total:      total,
		Percentage: gamification.Percentage(correct, total),
	}
	return score, &models.ExamReview{Mathematics: mathResults, ComputerAwareness: compResults}
}

// view shapes an exam for its owner. Questions are only visible while the
// clock runs; the graded review replaces them once completed.
func (s *Service) view(exam *models.Exam) *models.ExamView {
	v := &models.ExamView{Exam: *exam}
	switch exam.Status {
	case models.ExamInProgress:
		v.Mathematics = models.PublicQuestions(exam.Questions.Mathematics)
		v.ComputerAwareness = models.PublicQuestions(exam.Questions.ComputerAwareness)
		remaining := max(int(math.Ceil(exam.Deadline().Sub(s.now()).Seconds())), 0)
		v.RemainingSeconds = &remaining
	case models.ExamCompleted:
		_, v.Review = Score(exam.Questions, exam.Answers, exam.Settings.ShowExplanations)
	}
	return v
}
