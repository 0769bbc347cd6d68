package models

import "time"

// ── Core Gamification Structs ─────────────────────────────

type StudyStats struct {
	TestsTaken     int     `json:"tests_taken"`
	AvgScore       float64 `json:"avg_score"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	PDFsProcessed  int     `json:"pdfs_processed"`
}

// Accuracy is the lifetime share of correct answers as a percentage.
func (s StudyStats) Accuracy() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.TotalQuestions) * 100
}

type XPEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	EventType string    `json:"event_type"`
	XPAmount  int       `json:"xp_amount"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Badge struct {
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Earned      bool       `json:"earned"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}

// ── Response Types ───────────────────────────────────────

// NextLevel is progress towards the next XP badge.
type NextLevel struct {
	Name       string  `json:"name"`
	XPRequired int64   `json:"xp_required"`
	Progress   float64 `json:"progress"`
}

type ProfileResponse struct {
	User      User       `json:"user"`
	Stats     StudyStats `json:"stats"`
	Accuracy  float64    `json:"accuracy"`
	Badges    []Badge    `json:"badges"`
	NextLevel *NextLevel `json:"next_level"`
	Rank      int        `json:"rank"`
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	XP            int64  `json:"xp"`
	TestsTaken    int    `json:"tests_taken"`
	IsCurrentUser bool   `json:"is_current_user"`
}

type LeaderboardResponse struct {
	Entries     []LeaderboardEntry `json:"entries"`
	CurrentUser *LeaderboardEntry  `json:"current_user,omitempty"`
}

// ProgressUpdate summarises what a completed activity earned.
type ProgressUpdate struct {
	XPAwarded int     `json:"xp_awarded"`
	TotalXP   int64   `json:"total_xp"`
	NewBadges []Badge `json:"new_badges"`
}
