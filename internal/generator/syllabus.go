package generator

import (
	"fmt"
	"log"

	"github.com/pdfquiz/backend/internal/models"
)

// maxAttemptsPerSlot bounds retries when a template fails to format.
const maxAttemptsPerSlot = 5

// SyllabusEngine builds mock-exam questions from the fixed math and
// computer-awareness syllabus. Safe for concurrent use.
type SyllabusEngine struct {
	bank       *TemplateBank
	patterns   *PatternRegistry
	sections   []SyllabusSection
	math       []mathCategory
	mathTopics []string
	rand       RandSource
}

func NewSyllabusEngine(bank *TemplateBank, opts ...Option) *SyllabusEngine {
	o := applyOptions(opts)
	return &SyllabusEngine{
		bank:       bank,
		patterns:   DefaultPatternRegistry(),
		sections:   defaultSections(),
		math:       defaultMathCategories(),
		mathTopics: mathTopics,
		rand:       o.rand,
	}
}

// Sections returns the computer-awareness registry.
func (e *SyllabusEngine) Sections() []SyllabusSection {
	return e.sections
}

// Generate returns exactly mathCount and computerCount questions. Each
// branch falls back independently if it fails.
func (e *SyllabusEngine) Generate(mathCount, computerCount int) models.SyllabusQuestions {
	r := e.rand()
	return models.SyllabusQuestions{
		Mathematics:       e.safely(models.SectionMathematics, mathCount, func() []models.QuestionRecord { return e.mathQuestions(r, mathCount) }),
		ComputerAwareness: e.safely(models.SectionComputerAwareness, computerCount, func() []models.QuestionRecord { return e.computerQuestions(r, computerCount) }),
	}
}

func (e *SyllabusEngine) safely(section string, count int, build func() []models.QuestionRecord) (out []models.QuestionRecord) {
	if count <= 0 {
		return []models.QuestionRecord{}
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[generator] %s generation panicked, using fallback: %v", section, rec)
			out = SyllabusFallback(section, count)
		}
	}()

	out = build()
	for len(out) < count {
		out = append(out, syllabusFallbackQuestion(section, len(out)))
	}
	return out[:count]
}

// SyllabusFallback returns count copies of a fixed question for section.
func SyllabusFallback(section string, count int) []models.QuestionRecord {
	out := make([]models.QuestionRecord, 0, max(0, count))
	for i := 0; i < count; i++ {
		out = append(out, syllabusFallbackQuestion(section, i))
	}
	return out
}

func syllabusFallbackQuestion(section string, i int) models.QuestionRecord {
	if section == models.SectionMathematics {
		return models.QuestionRecord{
			Question:    fmt.Sprintf("[General] Question %d: What is the value of 2 + 2?", i+1),
			Options:     map[string]string{"A": "4", "B": "3", "C": "5", "D": "22"},
			Answer:      "A",
			Explanation: "Basic addition.",
			Category:    section,
			Topic:       "General",
		}
	}
	return models.QuestionRecord{
		Question:    fmt.Sprintf("[GENERAL] Question %d: What does CPU stand for?", i+1),
		Options:     map[string]string{"A": "Central Processing Unit", "B": "Computer Personal Unit", "C": "Central Program Utility", "D": "Control Processing Unit"},
		Answer:      "A",
		Explanation: "CPU stands for Central Processing Unit.",
		Category:    section,
		Topic:       "GENERAL",
	}
}
