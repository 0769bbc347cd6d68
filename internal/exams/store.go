package exams

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pdfquiz/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const examCols = `id, user_id, settings, status, questions, answers, score, start_time, end_time, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExam(row rowScanner) (*models.Exam, error) {
	var e models.Exam
	var settings, questions, answers, score []byte
	if err := row.Scan(&e.ID, &e.UserID, &settings, &e.Status, &questions, &answers, &score,
		&e.StartTime, &e.EndTime, &e.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(settings, &e.Settings); err != nil {
		return nil, fmt.Errorf("decode settings for exam %s: %w", e.ID, err)
	}
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &e.Questions); err != nil {
			return nil, fmt.Errorf("decode questions for exam %s: %w", e.ID, err)
		}
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &e.Answers); err != nil {
			return nil, fmt.Errorf("decode answers for exam %s: %w", e.ID, err)
		}
	}
	if len(score) > 0 {
		e.Score = &models.ExamScore{}
		if err := json.Unmarshal(score, e.Score); err != nil {
			return nil, fmt.Errorf("decode score for exam %s: %w", e.ID, err)
		}
	}
	return &e, nil
}

func (s *Store) CreateExam(e *models.Exam) error {
	settings, err := json.Marshal(e.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	err = s.db.QueryRow(
		`INSERT INTO exams (id, user_id, settings, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		e.ID, e.UserID, settings, e.Status,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

func (s *Store) GetExam(id string) (*models.Exam, error) {
	e, err := scanExam(s.db.QueryRow(`SELECT `+examCols+` FROM exams WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	return e, nil
}

func (s *Store) DeleteExam(id string) error {
	if _, err := s.db.Exec(`DELETE FROM exams WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return nil
}

func (s *Store) ListExams(userID int64, limit, offset int) ([]models.Exam, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM exams WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count exams: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT `+examCols+` FROM exams
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list exams: %w", err)
	}
	defer rows.Close()

	var out []models.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan exam: %w", err)
		}
		out = append(out, *e)
	}
	return out, total, rows.Err()
}

// transition runs an UPDATE guarded by the expected current status.
func (s *Store) transition(query string, args ...any) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvalidState
	}
	return nil
}

// SaveQuestions stores generated questions and moves created to ready.
func (s *Store) SaveQuestions(id string, qs models.SyllabusQuestions) error {
	data, err := json.Marshal(qs)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	return s.transition(
		`UPDATE exams SET questions = $2, status = $3 WHERE id = $1 AND status = $4`,
		id, data, models.ExamReady, models.ExamCreated,
	)
}

func (s *Store) MarkStarted(id string, at time.Time) error {
	return s.transition(
		`UPDATE exams SET start_time = $2, status = $3 WHERE id = $1 AND status = $4`,
		id, at, models.ExamInProgress, models.ExamReady,
	)
}

func (s *Store) MarkCompleted(id string, answers models.ExamAnswers, score models.ExamScore, at time.Time) error {
	answerData, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	scoreData, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("marshal score: %w", err)
	}
	return s.transition(
		`UPDATE exams SET answers = $2, score = $3, end_time = $4, status = $5 WHERE id = $1 AND status = $6`,
		id, answerData, scoreData, at, models.ExamCompleted, models.ExamInProgress,
	)
}
