package generator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Bounds on the document text sent in a single request.
const (
	minExcerptChars = 1500
	maxExcerptChars = 12000
)

func DocumentSystemPrompt() string {
	return `You are an experienced teacher who writes multiple-choice quiz questions from study material supplied by a student.

QUESTIONS:
- Every question must be answerable from the excerpt alone; never rely on outside knowledge
- Cover different parts of the excerpt; do not ask two questions about the same sentence
- Mix recall, comprehension and application questions
- Keep each question to one or two sentences

ANSWER OPTIONS:
- Exactly 4 options labelled A, B, C and D
- Exactly ONE correct option
- Wrong options must be plausible and drawn from the same subject area
- No "all of the above" or "none of the above"
- No two options may have the same text
- Vary the position of the correct answer across the batch

EXPLANATIONS:
- One or two sentences saying why the correct option is right, referring to the excerpt

You must respond with valid JSON only. No markdown, no commentary outside the JSON.`
}

// BuildDocumentUserPrompt asks for count questions about excerpt.
func BuildDocumentUserPrompt(excerpt string, count int) string {
	return fmt.Sprintf(`Generate exactly %d multiple-choice questions from the study material below.

MATERIAL:
"""
%s
"""

Respond with this exact JSON structure:
{
  "questions": [
    {
      "question": "...",
      "options": {"A": "...", "B": "...", "C": "...", "D": "..."},
      "answer": "C",
      "explanation": "..."
    }
  ]
}`, count, excerpt)
}

// excerptWindows splits text into at most n windows of roughly equal size,
// each capped at maxExcerptChars and cut on a paragraph boundary where possible.
func excerptWindows(text string, n int) []string {
	text = strings.TrimSpace(text)
	if text == "" || n <= 0 {
		return nil
	}
	size := min(maxExcerptChars, max(minExcerptChars, ceilDiv(len(text), n)))

	var out []string
	for len(text) > 0 && len(out) < n {
		if len(text) <= size {
			out = append(out, text)
			break
		}
		cut := strings.LastIndex(text[:size], "\n\n")
		if cut < size/2 {
			cut = strings.LastIndexAny(text[:size], " \n")
		}
		if cut <= 0 {
			cut = size
			for cut > 1 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}
		out = append(out, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	return out
}
