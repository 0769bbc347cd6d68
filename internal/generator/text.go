package generator

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

const (
	minParagraphChars = 50
	minSentenceChars  = 30
	maxOptionChars    = 100
	keywordCount      = 5
)

var (
	paragraphBreakRe = regexp.MustCompile(`\n\s*\n`)
	sentenceBreakRe  = regexp.MustCompile(`[.!?]+`)
	keywordRe        = regexp.MustCompile(`\b[a-z]{5,}\b`)
)

// flatten replaces newlines with spaces.
func flatten(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", " "), "\n", " "))
}

// splitParagraphs returns blank-line separated paragraphs of at least
// minParagraphChars, each flattened to one line.
func splitParagraphs(text string) []string {
	var out []string
	for _, p := range paragraphBreakRe.Split(text, -1) {
		p = flatten(p)
		if len(p) >= minParagraphChars {
			out = append(out, p)
		}
	}
	return out
}

// splitSentences splits on runs of sentence terminators and keeps trimmed
// sentences of at least minSentenceChars.
func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceBreakRe.Split(flatten(text), -1) {
		s = strings.TrimSpace(s)
		if len(s) >= minSentenceChars {
			out = append(out, s)
		}
	}
	return out
}

// Keywords returns the n most frequent lowercase words of five or more
// letters. Ties keep first-seen order.
func Keywords(text string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range keywordRe.FindAllString(strings.ToLower(text), -1) {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

// truncate cuts s to maxOptionChars runes and appends an ellipsis.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxOptionChars {
		return s
	}
	return strings.TrimSpace(string(runes[:maxOptionChars])) + "..."
}

// cleanWord strips surrounding punctuation from a token.
func cleanWord(w string) string {
	cleaned := strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if cleaned == "" {
		return w
	}
	return cleaned
}

// longAlphaWords returns words longer than five characters made only of letters.
func longAlphaWords(text string) []string {
	var out []string
	for _, w := range strings.Fields(text) {
		if len(w) <= 5 {
			continue
		}
		alpha := true
		for _, r := range w {
			if !unicode.IsLetter(r) {
				alpha = false
				break
			}
		}
		if alpha {
			out = append(out, w)
		}
	}
	return out
}
