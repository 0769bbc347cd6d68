package quizzes

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pdfquiz/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Tests ───────────────────────────────────────────────

// CreateTest persists t and sets its id and creation time.
func (s *Store) CreateTest(t *models.Test) error {
	questions, err := json.Marshal(t.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	var docID *int64
	if t.DocumentID > 0 {
		docID = &t.DocumentID
	}
	err = s.db.QueryRow(
		`INSERT INTO tests (document_id, user_id, title, source, questions)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		docID, t.UserID, t.Title, t.Source, questions,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create test: %w", err)
	}
	return nil
}

func (s *Store) GetTest(id int64) (*models.Test, error) {
	var t models.Test
	var docID sql.NullInt64
	var questions []byte
	err := s.db.QueryRow(
		`SELECT id, document_id, user_id, title, source, questions, created_at
		 FROM tests WHERE id = $1`,
		id,
	).Scan(&t.ID, &docID, &t.UserID, &t.Title, &t.Source, &questions, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	t.DocumentID = docID.Int64
	if err := json.Unmarshal(questions, &t.Questions); err != nil {
		return nil, fmt.Errorf("decode questions for test %d: %w", id, err)
	}
	return &t, nil
}

// ── Results ─────────────────────────────────────────────

func (s *Store) CreateResult(r *models.Result) error {
	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	err = s.db.QueryRow(
		`INSERT INTO results (user_id, test_id, answers, correct_count, total_questions, score)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, submitted_at`,
		r.UserID, r.TestID, answers, r.CorrectCount, r.TotalQuestions, r.Score,
	).Scan(&r.ID, &r.SubmittedAt)
	if err != nil {
		return fmt.Errorf("create result: %w", err)
	}
	return nil
}

const resultSelect = `SELECT r.id, r.user_id, r.test_id, r.answers, r.correct_count, r.total_questions,
	        r.score, r.submitted_at, COALESCE(t.document_id, 0), COALESCE(d.title, t.title)
	 FROM results r
	 JOIN tests t ON t.id = r.test_id
	 LEFT JOIN documents d ON d.id = t.document_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*models.ResultSummary, error) {
	var rs models.ResultSummary
	var answers []byte
	if err := row.Scan(&rs.ID, &rs.UserID, &rs.TestID, &answers, &rs.CorrectCount, &rs.TotalQuestions,
		&rs.Score, &rs.SubmittedAt, &rs.DocumentID, &rs.DocumentTitle); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answers, &rs.Answers); err != nil {
		return nil, fmt.Errorf("decode answers for result %d: %w", rs.ID, err)
	}
	return &rs, nil
}

func (s *Store) GetResult(id int64) (*models.ResultSummary, error) {
	rs, err := scanResult(s.db.QueryRow(resultSelect+` WHERE r.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	return rs, nil
}

// ListResults returns the user's results, newest first, and the total.
func (s *Store) ListResults(userID int64, limit, offset int) ([]models.ResultSummary, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM results WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count results: %w", err)
	}

	rows, err := s.db.Query(
		resultSelect+` WHERE r.user_id = $1 ORDER BY r.submitted_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []models.ResultSummary
	for rows.Next() {
		rs, err := scanResult(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, *rs)
	}
	return out, total, rows.Err()
}
