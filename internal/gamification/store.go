package gamification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pdfquiz/backend/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Users & Stats ───────────────────────────────────────

func (s *Store) EnsureUser(ctx context.Context, userID int64, username string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, updated_at = NOW()
		 WHERE users.username <> EXCLUDED.username`,
		userID, username,
	)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

func (s *Store) GetProfile(userID int64) (*models.User, *models.StudyStats, error) {
	var u models.User
	var st models.StudyStats
	err := s.db.QueryRow(
		`SELECT id, username, xp, created_at, updated_at,
		        tests_taken, avg_score, total_questions, correct_answers, pdfs_processed
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&u.ID, &u.Username, &u.XP, &u.CreatedAt, &u.UpdatedAt,
		&st.TestsTaken, &st.AvgScore, &st.TotalQuestions, &st.CorrectAnswers, &st.PDFsProcessed)
	if err == sql.ErrNoRows {
		return nil, nil, ErrUserNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get profile: %w", err)
	}
	return &u, &st, nil
}

// RecordTest folds one scored test into the running stats. The row is
// locked so concurrent submissions average correctly.
func (s *Store) RecordTest(userID int64, correct, total int, score float64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin record test: %w", err)
	}
	defer tx.Rollback()

	var taken int
	var avg float64
	err = tx.QueryRow(
		`SELECT tests_taken, avg_score FROM users WHERE id = $1 FOR UPDATE`, userID,
	).Scan(&taken, &avg)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	taken++
	_, err = tx.Exec(
		`UPDATE users SET
		    tests_taken = $2,
		    avg_score = $3,
		    total_questions = total_questions + $4,
		    correct_answers = correct_answers + $5,
		    updated_at = NOW()
		 WHERE id = $1`,
		userID, taken, RunningAverage(avg, taken, score), total, correct,
	)
	if err != nil {
		return fmt.Errorf("record test: %w", err)
	}
	return tx.Commit()
}

func (s *Store) IncrementPDFs(userID int64) error {
	_, err := s.db.Exec(
		`UPDATE users SET pdfs_processed = pdfs_processed + 1, updated_at = NOW() WHERE id = $1`,
		userID,
	)
	return err
}

// ── XP ──────────────────────────────────────────────────

// AddXP adds amount and returns the new total.
func (s *Store) AddXP(userID int64, amount int) (int64, error) {
	var total int64
	err := s.db.QueryRow(
		`UPDATE users SET xp = xp + $2, updated_at = NOW() WHERE id = $1 RETURNING xp`,
		userID, amount,
	).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, ErrUserNotFound
	}
	return total, err
}

func (s *Store) LogXPEvent(userID int64, eventType string, xpAmount int, metadata map[string]interface{}) error {
	var metaJSON *string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			m := string(b)
			metaJSON = &m
		}
	}
	_, err := s.db.Exec(
		`INSERT INTO xp_events (user_id, event_type, xp_amount, metadata)
		 VALUES ($1, $2, $3, $4)`,
		userID, eventType, xpAmount, metaJSON,
	)
	return err
}

// ── Badges ──────────────────────────────────────────────

func (s *Store) GetBadges(userID int64) (map[string]time.Time, error) {
	rows, err := s.db.Query(
		`SELECT badge_key, earned_at FROM user_badges WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get badges: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var key string
		var at time.Time
		if err := rows.Scan(&key, &at); err != nil {
			return nil, err
		}
		out[key] = at
	}
	return out, rows.Err()
}

// AwardBadge reports whether the badge was newly inserted.
func (s *Store) AwardBadge(userID int64, key string) (bool, error) {
	res, err := s.db.Exec(
		`INSERT INTO user_badges (user_id, badge_key) VALUES ($1, $2)
		 ON CONFLICT (user_id, badge_key) DO NOTHING`,
		userID, key,
	)
	if err != nil {
		return false, fmt.Errorf("award badge: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ── Leaderboard ─────────────────────────────────────────

func (s *Store) GetLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, username, xp, tests_taken,
		        ROW_NUMBER() OVER (ORDER BY xp DESC, created_at ASC) AS rank
		 FROM users
		 ORDER BY xp DESC, created_at ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.XP, &e.TestsTaken, &e.Rank); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetUserRank(userID int64) (int, error) {
	var rank int
	err := s.db.QueryRow(
		`SELECT COALESCE(
		    (SELECT rank FROM (
		        SELECT id, ROW_NUMBER() OVER (ORDER BY xp DESC, created_at ASC) AS rank
		        FROM users
		    ) r WHERE r.id = $1),
		    0
		)`,
		userID,
	).Scan(&rank)
	return rank, err
}
