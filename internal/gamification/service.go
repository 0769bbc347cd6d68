package gamification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pdfquiz/backend/internal/models"
)

// Repository is the persistence the service needs; *Store implements it.
type Repository interface {
	EnsureUser(ctx context.Context, userID int64, username string) error
	GetProfile(userID int64) (*models.User, *models.StudyStats, error)
	RecordTest(userID int64, correct, total int, score float64) error
	IncrementPDFs(userID int64) error
	AddXP(userID int64, amount int) (int64, error)
	LogXPEvent(userID int64, eventType string, xpAmount int, metadata map[string]interface{}) error
	GetBadges(userID int64) (map[string]time.Time, error)
	AwardBadge(userID int64, key string) (bool, error)
	GetLeaderboard(limit int) ([]models.LeaderboardEntry, error)
	GetUserRank(userID int64) (int, error)
}

const (
	defaultLeaderboardLimit = 20
	maxLeaderboardLimit     = 100
)

type Service struct {
	store Repository
}

func NewService(store Repository) *Service {
	return &Service{store: store}
}

func (s *Service) EnsureUser(ctx context.Context, userID int64, username string) error {
	return s.store.EnsureUser(ctx, userID, username)
}

// ── Progress ────────────────────────────────────────────

// RecordTestResult updates study stats, awards XP for correct answers and
// any newly earned badges. kind is "test" or "exam".
func (s *Service) RecordTestResult(userID int64, kind, ref string, correct, total int) (*models.ProgressUpdate, error) {
	score := Percentage(correct, total)
	if err := s.store.RecordTest(userID, correct, total, score); err != nil {
		return nil, fmt.Errorf("record %s: %w", kind, err)
	}

	xp := TestXP(correct)
	return s.award(userID, kind+"_completed", xp, map[string]interface{}{
		"ref":     ref,
		"correct": correct,
		"total":   total,
		"score":   score,
	})
}

// RecordDocumentProcessed counts a processed upload and awards document XP.
func (s *Service) RecordDocumentProcessed(userID, documentID int64) (*models.ProgressUpdate, error) {
	if err := s.store.IncrementPDFs(userID); err != nil {
		return nil, fmt.Errorf("count document: %w", err)
	}
	return s.award(userID, "document_processed", XPPerDocument, map[string]interface{}{
		"document_id": documentID,
	})
}

func (s *Service) award(userID int64, eventType string, xp int, metadata map[string]interface{}) (*models.ProgressUpdate, error) {
	total, err := s.store.AddXP(userID, xp)
	if err != nil {
		return nil, fmt.Errorf("add xp: %w", err)
	}
	if err := s.store.LogXPEvent(userID, eventType, xp, metadata); err != nil {
		log.Printf("[gamification] failed to log %s for user %d: %v", eventType, userID, err)
	}

	badges, err := s.checkBadges(userID, total)
	if err != nil {
		log.Printf("[gamification] badge check failed for user %d: %v", userID, err)
	}

	return &models.ProgressUpdate{XPAwarded: xp, TotalXP: total, NewBadges: badges}, nil
}

func (s *Service) checkBadges(userID int64, xp int64) ([]models.Badge, error) {
	_, stats, err := s.store.GetProfile(userID)
	if err != nil {
		return []models.Badge{}, err
	}
	held, err := s.store.GetBadges(userID)
	if err != nil {
		return []models.Badge{}, err
	}
	earned := make(map[string]bool, len(held))
	for k := range held {
		earned[k] = true
	}

	newBadges := []models.Badge{}
	now := time.Now().UTC()
	for _, key := range CheckBadges(xp, *stats, earned) {
		inserted, err := s.store.AwardBadge(userID, key)
		if err != nil {
			return newBadges, err
		}
		if !inserted {
			continue
		}
		def, _ := badgeDef(key)
		newBadges = append(newBadges, toBadge(def, &now))
		log.Printf("[gamification] user %d earned badge %s", userID, key)
	}
	return newBadges, nil
}

func toBadge(def BadgeDef, earnedAt *time.Time) models.Badge {
	return models.Badge{
		Key:         def.Key,
		Name:        def.Name,
		Description: def.Description,
		Icon:        def.Icon,
		Earned:      earnedAt != nil,
		EarnedAt:    earnedAt,
	}
}

// ── Profile ─────────────────────────────────────────────

func (s *Service) GetProfile(userID int64) (*models.ProfileResponse, error) {
	user, stats, err := s.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.badgeList(userID, true)
	if err != nil {
		return nil, err
	}
	rank, err := s.store.GetUserRank(userID)
	if err != nil {
		log.Printf("[gamification] rank lookup failed for user %d: %v", userID, err)
	}

	return &models.ProfileResponse{
		User:      *user,
		Stats:     *stats,
		Accuracy:  stats.Accuracy(),
		Badges:    badges,
		NextLevel: NextLevel(user.XP),
		Rank:      rank,
	}, nil
}

// ListBadges returns the full catalogue with earned flags.
func (s *Service) ListBadges(userID int64) ([]models.Badge, error) {
	return s.badgeList(userID, false)
}

func (s *Service) badgeList(userID int64, earnedOnly bool) ([]models.Badge, error) {
	held, err := s.store.GetBadges(userID)
	if err != nil {
		return nil, err
	}

	out := []models.Badge{}
	for _, def := range Badges {
		at, ok := held[def.Key]
		if !ok {
			if !earnedOnly {
				out = append(out, toBadge(def, nil))
			}
			continue
		}
		at = at.UTC()
		out = append(out, toBadge(def, &at))
	}
	return out, nil
}

// ── Leaderboard ─────────────────────────────────────────

func (s *Service) GetLeaderboard(userID int64, limit int) (*models.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	limit = min(limit, maxLeaderboardLimit)

	entries, err := s.store.GetLeaderboard(limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}

	found := false
	for i := range entries {
		if entries[i].UserID == userID {
			entries[i].IsCurrentUser = true
			found = true
		}
	}

	resp := &models.LeaderboardResponse{Entries: entries}
	if !found {
		rank, err := s.store.GetUserRank(userID)
		if err == nil && rank > 0 {
			if user, stats, err := s.store.GetProfile(userID); err == nil {
				resp.CurrentUser = &models.LeaderboardEntry{
					Rank:          rank,
					UserID:        userID,
					Username:      user.Username,
					XP:            user.XP,
					TestsTaken:    stats.TestsTaken,
					IsCurrentUser: true,
				}
			}
		}
	}
	return resp, nil
}
