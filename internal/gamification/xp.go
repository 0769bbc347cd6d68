package gamification

const (
	// XPPerCorrectAnswer is earned for every correctly answered question.
	XPPerCorrectAnswer = 10
	// XPPerDocument is earned when an uploaded document finishes processing.
	XPPerDocument = 25
)

// TestXP returns the XP for a submitted test or exam.
func TestXP(correct int) int {
	if correct <= 0 {
		return 0
	}
	return correct * XPPerCorrectAnswer
}

// RunningAverage folds score into an average over n-1 earlier values.
func RunningAverage(avg float64, n int, score float64) float64 {
	if n <= 1 {
		return score
	}
	return (avg*float64(n-1) + score) / float64(n)
}

// Percentage returns correct/total as a percentage, or 0 for an empty test.
func Percentage(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
