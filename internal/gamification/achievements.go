package gamification

import "github.com/pdfquiz/backend/internal/models"

// minQuestionsForAccuracy gates accuracy badges until enough answers exist.
const minQuestionsForAccuracy = 50

// BadgeDef defines a single badge and when it is earned.
type BadgeDef struct {
	Key         string
	Name        string
	Description string
	Icon        string
	Qualifies   func(xp int64, stats models.StudyStats) bool
}

func xpAtLeast(n int64) func(int64, models.StudyStats) bool {
	return func(xp int64, _ models.StudyStats) bool { return xp >= n }
}

func testsAtLeast(n int) func(int64, models.StudyStats) bool {
	return func(_ int64, s models.StudyStats) bool { return s.TestsTaken >= n }
}

func accuracyAtLeast(pct float64) func(int64, models.StudyStats) bool {
	return func(_ int64, s models.StudyStats) bool {
		return s.TotalQuestions >= minQuestionsForAccuracy && s.Accuracy() >= pct
	}
}

// Badges is the catalogue in display order.
var Badges = []BadgeDef{
	{Key: "xp_100", Name: "Scholar Initiate", Description: "Earned 100 XP", Icon: "bi-mortarboard", Qualifies: xpAtLeast(100)},
	{Key: "xp_500", Name: "Knowledge Seeker", Description: "Earned 500 XP", Icon: "bi-book", Qualifies: xpAtLeast(500)},
	{Key: "xp_1000", Name: "Master Scholar", Description: "Earned 1000 XP", Icon: "bi-award", Qualifies: xpAtLeast(1000)},
	{Key: "tests_5", Name: "Test Taker", Description: "Completed 5 tests", Icon: "bi-journal-check", Qualifies: testsAtLeast(5)},
	{Key: "tests_20", Name: "Test Expert", Description: "Completed 20 tests", Icon: "bi-journals", Qualifies: testsAtLeast(20)},
	{Key: "tests_50", Name: "Test Master", Description: "Completed 50 tests", Icon: "bi-trophy", Qualifies: testsAtLeast(50)},
	{Key: "accuracy_70", Name: "Sharp Mind", Description: "70% accuracy on tests", Icon: "bi-lightning", Qualifies: accuracyAtLeast(70)},
	{Key: "accuracy_85", Name: "Brilliant Mind", Description: "85% accuracy on tests", Icon: "bi-lightbulb", Qualifies: accuracyAtLeast(85)},
	{Key: "accuracy_95", Name: "Genius", Description: "95% accuracy on tests", Icon: "bi-stars", Qualifies: accuracyAtLeast(95)},
}

func badgeDef(key string) (BadgeDef, bool) {
	for _, b := range Badges {
		if b.Key == key {
			return b, true
		}
	}
	return BadgeDef{}, false
}

// CheckBadges returns the keys of badges the user qualifies for and does not
// already hold, in catalogue order.
func CheckBadges(xp int64, stats models.StudyStats, earned map[string]bool) []string {
	var out []string
	for _, b := range Badges {
		if !earned[b.Key] && b.Qualifies(xp, stats) {
			out = append(out, b.Key)
		}
	}
	return out
}

// xpLevels are the XP badge thresholds used for next-level progress.
var xpLevels = []struct {
	Name string
	XP   int64
}{
	{"Scholar Initiate", 100},
	{"Knowledge Seeker", 500},
	{"Master Scholar", 1000},
}

// NextLevel reports progress from the previous XP threshold to the next one.
// Returns nil once every level is reached.
func NextLevel(xp int64) *models.NextLevel {
	var floor int64
	for _, lvl := range xpLevels {
		if xp < lvl.XP {
			return &models.NextLevel{
				Name:       lvl.Name,
				XPRequired: lvl.XP,
				Progress:   float64(xp-floor) / float64(lvl.XP-floor) * 100,
			}
		}
		floor = lvl.XP
	}
	return nil
}
