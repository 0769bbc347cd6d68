package exams

import (
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfquiz/backend/internal/config"
	"github.com/pdfquiz/backend/internal/generator"
	"github.com/pdfquiz/backend/internal/models"
)

type memoryRepo struct {
	exams    map[string]*models.Exam
	seq      int
	failSave error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{exams: map[string]*models.Exam{}}
}

func (m *memoryRepo) CreateExam(e *models.Exam) error {
	m.seq++
	e.CreatedAt = time.Date(2026, 1, 1, 0, 0, m.seq, 0, time.UTC)
	cp := *e
	m.exams[e.ID] = &cp
	return nil
}

func (m *memoryRepo) GetExam(id string) (*models.Exam, error) {
	e, ok := m.exams[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memoryRepo) DeleteExam(id string) error {
	delete(m.exams, id)
	return nil
}

func (m *memoryRepo) ListExams(userID int64, limit, offset int) ([]models.Exam, int, error) {
	var out []models.Exam
	for _, e := range m.exams {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *memoryRepo) transition(id string, from models.ExamStatus, apply func(e *models.Exam)) error {
	e, ok := m.exams[id]
	if !ok || e.Status != from {
		return ErrInvalidState
	}
	apply(e)
	return nil
}

func (m *memoryRepo) SaveQuestions(id string, qs models.SyllabusQuestions) error {
	if m.failSave != nil {
		return m.failSave
	}
	return m.transition(id, models.ExamCreated, func(e *models.Exam) {
		e.Questions = qs
		e.Status = models.ExamReady
	})
}

func (m *memoryRepo) MarkStarted(id string, at time.Time) error {
	return m.transition(id, models.ExamReady, func(e *models.Exam) {
		e.StartTime = &at
		e.Status = models.ExamInProgress
	})
}

func (m *memoryRepo) MarkCompleted(id string, answers models.ExamAnswers, score models.ExamScore, at time.Time) error {
	return m.transition(id, models.ExamInProgress, func(e *models.Exam) {
		e.Answers = answers
		e.Score = &score
		e.EndTime = &at
		e.Status = models.ExamCompleted
	})
}

// fixedPaper answers every math question A and every computer question B.
type fixedPaper struct{}

func (fixedPaper) SyllabusQuestions(mathCount, computerCount int) models.SyllabusQuestions {
	build := func(n int, answer, topic string) []models.QuestionRecord {
		out := make([]models.QuestionRecord, n)
		for i := range out {
			out[i] = models.QuestionRecord{
				Question:    fmt.Sprintf("%s question %d", topic, i+1),
				Options:     map[string]string{"A": "1", "B": "2", "C": "3", "D": "4"},
				Answer:      answer,
				Explanation: "because",
				Topic:       topic,
			}
		}
		return out
	}
	return models.SyllabusQuestions{
		Mathematics:       build(mathCount, "A", "Algebra"),
		ComputerAwareness: build(computerCount, "B", "Networking"),
	}
}

type progressSpy struct {
	kinds          []string
	correct, total int
}

func (p *progressSpy) RecordTestResult(userID int64, kind, ref string, correct, total int) (*models.ProgressUpdate, error) {
	p.kinds = append(p.kinds, kind)
	p.correct, p.total = correct, total
	return &models.ProgressUpdate{XPAwarded: correct * 10, NewBadges: []models.Badge{}}, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(t *testing.T) (*Service, *memoryRepo, *progressSpy, *clock) {
	t.Helper()
	repo := newMemoryRepo()
	svc := NewService(repo, fixedPaper{})
	spy := &progressSpy{}
	svc.SetProgressRecorder(spy)
	c := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc.now = c.now
	return svc, repo, spy, c
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestResolveSettings(t *testing.T) {
	assert.Equal(t, models.DefaultExamSettings(), ResolveSettings(models.CreateExamRequest{}))

	st := ResolveSettings(models.CreateExamRequest{
		ExamDuration:      intPtr(5),
		MathQuestions:     intPtr(0),
		ComputerQuestions: intPtr(999),
		ShowExplanations:  boolPtr(false),
	})
	assert.Equal(t, 10, st.ExamDuration)
	assert.Equal(t, 1, st.MathQuestions)
	assert.Equal(t, 200, st.ComputerQuestions)
	assert.False(t, st.ShowExplanations)
	assert.True(t, st.EnableFullscreen)

	assert.Equal(t, 300, ResolveSettings(models.CreateExamRequest{ExamDuration: intPtr(1000)}).ExamDuration)
}

func TestCreate_GeneratesPaper(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	view, err := svc.Create(1, models.CreateExamRequest{MathQuestions: intPtr(3), ComputerQuestions: intPtr(2)})
	require.NoError(t, err)
	assert.Len(t, view.ID, 36)
	assert.Equal(t, models.ExamReady, view.Status)
	assert.Empty(t, view.Mathematics, "questions stay hidden until the exam starts")

	stored := repo.exams[view.ID]
	assert.Len(t, stored.Questions.Mathematics, 3)
	assert.Len(t, stored.Questions.ComputerAwareness, 2)
}

func TestCreate_WithProceduralGenerator(t *testing.T) {
	gen := generator.NewGenerator(config.GeneratorConfig{Mode: generator.ModeProcedural}, generator.WithRandSource(generator.SeededSource(7)))
	repo := newMemoryRepo()
	svc := NewService(repo, gen)

	view, err := svc.Create(1, models.CreateExamRequest{MathQuestions: intPtr(5), ComputerQuestions: intPtr(4)})
	require.NoError(t, err)

	qs := repo.exams[view.ID].Questions
	require.Len(t, qs.Mathematics, 5)
	require.Len(t, qs.ComputerAwareness, 4)
	for _, q := range append(qs.Mathematics, qs.ComputerAwareness...) {
		assert.NoError(t, q.Validate())
	}
}

func TestCreate_SaveFailureRemovesExam(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	repo.failSave = errors.New("disk full")

	_, err := svc.Create(1, models.CreateExamRequest{MathQuestions: intPtr(1), ComputerQuestions: intPtr(1)})
	require.Error(t, err)
	assert.Empty(t, repo.exams)

	resp, err := svc.List(1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
}

func TestGet_RemainingSecondsRoundsUp(t *testing.T) {
	svc, _, _, c := newTestService(t)
	view, err := svc.Create(1, models.CreateExamRequest{ExamDuration: intPtr(10), MathQuestions: intPtr(1), ComputerQuestions: intPtr(1)})
	require.NoError(t, err)
	_, err = svc.Start(1, view.ID)
	require.NoError(t, err)

	c.t = c.t.Add(10*time.Minute - 300*time.Millisecond)
	got, err := svc.Get(1, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, *got.RemainingSeconds)

	c.t = c.t.Add(90*time.Second)
	got, err = svc.Get(1, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, *got.RemainingSeconds)
}

func TestLifecycle(t *testing.T) {
	svc, _, spy, c := newTestService(t)

	view, err := svc.Create(1, models.CreateExamRequest{MathQuestions: intPtr(2), ComputerQuestions: intPtr(2), ExamDuration: intPtr(30)})
	require.NoError(t, err)
	id := view.ID

	_, err = svc.Submit(1, id, nil)
	assert.ErrorIs(t, err, ErrInvalidState, "cannot submit before starting")

	started, err := svc.Start(1, id)
	require.NoError(t, err)
	assert.Equal(t, models.ExamInProgress, started.Status)
	require.NotNil(t, started.RemainingSeconds)
	assert.Equal(t, 1800, *started.RemainingSeconds)
	assert.Len(t, started.Mathematics, 2)

	_, err = svc.Start(1, id)
	assert.ErrorIs(t, err, ErrInvalidState)

	c.t = c.t.Add(10 * time.Minute)
	got, err := svc.Get(1, id)
	require.NoError(t, err)
	assert.Equal(t, 1200, *got.RemainingSeconds)

	resp, err := svc.Submit(1, id, models.ExamAnswers{
		models.SectionMathematics:       {"0": "a", "1": "C"},
		models.SectionComputerAwareness: {"0": "B", "1": "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Score.Correct)
	assert.Equal(t, 4, resp.Score.Total)
	assert.Equal(t, 75.0, resp.Score.Percentage)
	assert.Equal(t, 1, resp.Score.Sections[models.SectionMathematics].Correct)
	assert.Equal(t, 50.0, resp.Score.Sections[models.SectionMathematics].Percentage)
	assert.Equal(t, 100.0, resp.Score.Sections[models.SectionComputerAwareness].Percentage)
	assert.False(t, resp.Score.TimedOut)
	assert.Equal(t, "because", resp.Review.Mathematics[0].Explanation)
	require.NotNil(t, resp.Progress)
	assert.Equal(t, []string{"exam"}, spy.kinds)
	assert.Equal(t, 3, spy.correct)
	assert.Equal(t, 4, spy.total)

	_, err = svc.Submit(1, id, nil)
	assert.ErrorIs(t, err, ErrInvalidState)

	done, err := svc.Get(1, id)
	require.NoError(t, err)
	assert.Equal(t, models.ExamCompleted, done.Status)
	assert.Empty(t, done.Mathematics)
	require.NotNil(t, done.Review)
	assert.True(t, done.Review.ComputerAwareness[1].IsCorrect)
	assert.Nil(t, done.RemainingSeconds)
}

func TestSubmit_GracePeriod(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		timedOut bool
	}{
		{"on time", 9 * time.Minute, false},
		{"inside grace", 10*time.Minute + 60*time.Second, false},
		{"after grace", 10*time.Minute + 61*time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, c := newTestService(t)
			view, err := svc.Create(1, models.CreateExamRequest{ExamDuration: intPtr(10), MathQuestions: intPtr(1), ComputerQuestions: intPtr(1)})
			require.NoError(t, err)
			_, err = svc.Start(1, view.ID)
			require.NoError(t, err)

			c.t = c.t.Add(tt.elapsed)
			resp, err := svc.Submit(1, view.ID, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.timedOut, resp.Score.TimedOut)
			assert.Equal(t, 0, resp.Score.Correct)
		})
	}
}

func TestSubmit_HidesExplanationsWhenDisabled(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	view, err := svc.Create(1, models.CreateExamRequest{MathQuestions: intPtr(1), ComputerQuestions: intPtr(1), ShowExplanations: boolPtr(false)})
	require.NoError(t, err)
	_, err = svc.Start(1, view.ID)
	require.NoError(t, err)

	resp, err := svc.Submit(1, view.ID, models.ExamAnswers{models.SectionMathematics: {"0": "A"}})
	require.NoError(t, err)
	assert.Empty(t, resp.Review.Mathematics[0].Explanation)
	assert.Equal(t, "A", resp.Review.Mathematics[0].CorrectAnswer)
}

func TestOwnership(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	view, err := svc.Create(1, models.CreateExamRequest{MathQuestions: intPtr(1), ComputerQuestions: intPtr(1)})
	require.NoError(t, err)

	_, err = svc.Get(2, view.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Start(2, view.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Get(1, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	for i := 0; i < 3; i++ {
		_, err := svc.Create(1, models.CreateExamRequest{MathQuestions: intPtr(1), ComputerQuestions: intPtr(1)})
		require.NoError(t, err)
	}
	_, err := svc.Create(2, models.CreateExamRequest{})
	require.NoError(t, err)

	resp, err := svc.List(1, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
	assert.Len(t, resp.Exams, 2)
	assert.True(t, resp.Exams[0].CreatedAt.After(resp.Exams[1].CreatedAt))

	resp, err = svc.List(3, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, resp.Limit)
	assert.NotNil(t, resp.Exams)
	assert.Empty(t, resp.Exams)
}

func TestScore_EmptySections(t *testing.T) {
	score, review := Score(models.SyllabusQuestions{}, nil, true)
	assert.Equal(t, 0, score.Total)
	assert.Equal(t, 0.0, score.Percentage)
	assert.Empty(t, review.Mathematics)
}
