package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdfquiz/backend/internal/models"
)

func TestTestXP(t *testing.T) {
	assert.Equal(t, 0, TestXP(0))
	assert.Equal(t, 0, TestXP(-2))
	assert.Equal(t, 70, TestXP(7))
}

func TestRunningAverage(t *testing.T) {
	assert.Equal(t, 80.0, RunningAverage(0, 1, 80))
	assert.Equal(t, 70.0, RunningAverage(80, 2, 60))
	assert.InDelta(t, 73.333, RunningAverage(70, 3, 80), 0.001)
}

func TestRunningAverage_MatchesMean(t *testing.T) {
	scores := []float64{100, 40, 75, 0, 62.5, 90}
	avg, sum := 0.0, 0.0
	for i, score := range scores {
		avg = RunningAverage(avg, i+1, score)
		sum += score
		assert.InDelta(t, sum/float64(i+1), avg, 1e-9)
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(3, 0))
	assert.Equal(t, 75.0, Percentage(3, 4))
	assert.Equal(t, 100.0, Percentage(5, 5))
}

func TestCheckBadges(t *testing.T) {
	cases := []struct {
		name   string
		xp     int64
		stats  models.StudyStats
		earned map[string]bool
		want   []string
	}{
		{"nothing yet", 40, models.StudyStats{TestsTaken: 1}, nil, nil},
		{"xp thresholds", 500, models.StudyStats{}, nil, []string{"xp_100", "xp_500"}},
		{"already held", 500, models.StudyStats{}, map[string]bool{"xp_100": true}, []string{"xp_500"}},
		{"tests", 0, models.StudyStats{TestsTaken: 20}, nil, []string{"tests_5", "tests_20"}},
		{"accuracy needs fifty answers", 0, models.StudyStats{TotalQuestions: 49, CorrectAnswers: 49}, nil, nil},
		{"accuracy", 0, models.StudyStats{TotalQuestions: 100, CorrectAnswers: 90}, nil, []string{"accuracy_70", "accuracy_85"}},
		{"accuracy exact", 0, models.StudyStats{TotalQuestions: 100, CorrectAnswers: 95}, nil, []string{"accuracy_70", "accuracy_85", "accuracy_95"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CheckBadges(tc.xp, tc.stats, tc.earned))
		})
	}
}

func TestNextLevel(t *testing.T) {
	lvl := NextLevel(50)
	assert.Equal(t, "Scholar Initiate", lvl.Name)
	assert.Equal(t, 50.0, lvl.Progress)

	lvl = NextLevel(300)
	assert.Equal(t, "Knowledge Seeker", lvl.Name)
	assert.Equal(t, 50.0, lvl.Progress)

	lvl = NextLevel(500)
	assert.Equal(t, "Master Scholar", lvl.Name)
	assert.Equal(t, 0.0, lvl.Progress)

	assert.Nil(t, NextLevel(1000))
}
