package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdfquiz/backend/internal/models"
)

// StructuralIssues lists everything wrong with the shape of a question.
// An empty result means the record can be served.
func StructuralIssues(q models.QuestionRecord) []string {
	var issues []string

	if strings.TrimSpace(q.Question) == "" {
		issues = append(issues, "empty question text")
	}
	if len(q.Options) != len(models.OptionLabels) {
		issues = append(issues, fmt.Sprintf("expected %d options, got %d", len(models.OptionLabels), len(q.Options)))
	}

	seen := make(map[string]string)
	for _, label := range models.OptionLabels {
		text, ok := q.Options[label]
		switch {
		case !ok:
			issues = append(issues, fmt.Sprintf("option %s missing", label))
			continue
		case strings.TrimSpace(text) == "":
			issues = append(issues, fmt.Sprintf("option %s is empty", label))
			continue
		}
		key := strings.ToLower(strings.TrimSpace(text))
		if prev, dup := seen[key]; dup {
			issues = append(issues, fmt.Sprintf("options %s and %s have the same text", prev, label))
		}
		seen[key] = label
	}
	for label := range q.Options {
		if !isOptionLabel(label) {
			issues = append(issues, fmt.Sprintf("unexpected option label %q", label))
		}
	}

	if _, ok := q.Options[q.Answer]; !ok || !isOptionLabel(q.Answer) {
		issues = append(issues, fmt.Sprintf("answer %q is not one of the options", q.Answer))
	}
	return issues
}

func isOptionLabel(s string) bool {
	for _, l := range models.OptionLabels {
		if s == l {
			return true
		}
	}
	return false
}

// BatchWarnings reports batch-level smells that do not invalidate any single
// question: clustered answer labels and near-duplicate stems.
func BatchWarnings(qs []models.QuestionRecord) []string {
	var warnings []string

	if len(qs) >= 8 {
		dist := AnswerDistribution(qs)
		labels := make([]string, 0, len(dist))
		for l := range dist {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		for _, l := range labels {
			if share := float64(dist[l]) / float64(len(qs)); share > 0.5 {
				warnings = append(warnings, fmt.Sprintf("answer %s is correct in %.0f%% of %d questions", l, share*100, len(qs)))
			}
		}
	}

	tokens := make([]map[string]bool, len(qs))
	for i, q := range qs {
		tokens[i] = tokenize(q.Question)
	}
	for i := 0; i < len(qs); i++ {
		for j := i + 1; j < len(qs); j++ {
			if overlap := jaccardSimilarity(tokens[i], tokens[j]); overlap > 0.8 {
				warnings = append(warnings, fmt.Sprintf("questions %d and %d have %.0f%% keyword overlap", i+1, j+1, overlap*100))
			}
		}
	}
	return warnings
}

// AnswerDistribution counts how often each label is the correct answer.
func AnswerDistribution(qs []models.QuestionRecord) map[string]int {
	out := make(map[string]int)
	for _, q := range qs {
		out[q.Answer]++
	}
	return out
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		if len(word) > 3 {
			tokens[word] = true
		}
	}
	return tokens
}

func jaccardSimilarity(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
