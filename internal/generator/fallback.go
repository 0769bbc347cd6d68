package generator

import (
	"fmt"

	"github.com/pdfquiz/backend/internal/models"
)

// FallbackQuestions returns count well-formed generic questions. The output
// depends only on count.
func FallbackQuestions(count int) []models.QuestionRecord {
	if count <= 0 {
		return []models.QuestionRecord{}
	}
	out := make([]models.QuestionRecord, count)
	for i := range out {
		out[i] = models.QuestionRecord{
			Question: fmt.Sprintf("Question %d: What is the main topic of this section?", i+1),
			Options: map[string]string{
				"A": "The section covers key information in the document.",
				"B": fmt.Sprintf("The section focuses on concept %d.", i%4+1),
				"C": fmt.Sprintf("The section provides details about technique %d.", i%5+1),
				"D": fmt.Sprintf("The section explains principle %d.", i%3+1),
			},
			Answer: "A",
		}
	}
	return out
}

// fillerQuestion pads a short document quiz. Options B-D mention words
// sampled from the source so the filler still reads as document-specific.
func fillerQuestion(r Rand, index int, words []string) models.QuestionRecord {
	pick := func() string {
		if len(words) == 0 {
			return "the topic"
		}
		return choice(r, words)
	}
	return models.QuestionRecord{
		Question: fmt.Sprintf("Question %d: What is the main topic discussed in this section of the document?", index+1),
		Options: map[string]string{
			"A": "The section relates to key information presented in the text.",
			"B": fmt.Sprintf("The section focuses on %s.", pick()),
			"C": fmt.Sprintf("The section analyzes various aspects of %s.", pick()),
			"D": fmt.Sprintf("The section explains the relationship between %s and %s.", pick(), pick()),
		},
		Answer: "A",
	}
}
