package generator

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/pdfquiz/backend/internal/models"
)

const (
	maxChunks          = 20
	minParagraphs      = 10
	minSentencesPerBag = 5
	subjectKeywordProb = 0.7
	relatedKeywordProb = 0.7
)

var errNoContent = errors.New("no usable content in text")

// DocumentEngine builds multiple-choice questions from extracted document text.
// It holds no mutable state and is safe for concurrent use.
type DocumentEngine struct {
	bank    *TemplateBank
	options OptionSynthesizer
	rand    RandSource
}

func NewDocumentEngine(bank *TemplateBank, opts ...Option) *DocumentEngine {
	o := applyOptions(opts)
	return &DocumentEngine{bank: bank, options: DefaultOptionSynthesizer(), rand: o.rand}
}

// Generate returns exactly count questions. Any internal failure yields
// FallbackQuestions(count) instead of an error.
func (e *DocumentEngine) Generate(text string, count int) (out []models.QuestionRecord) {
	if count <= 0 {
		return []models.QuestionRecord{}
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[generator] document generation panicked, using fallback: %v", rec)
			out = FallbackQuestions(count)
		}
	}()

	qs, err := e.generate(e.rand(), text, count)
	if err != nil {
		log.Printf("[generator] document generation failed, using fallback: %v", err)
		return FallbackQuestions(count)
	}
	return qs
}

func (e *DocumentEngine) generate(r Rand, text string, count int) ([]models.QuestionRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errNoContent
	}

	paragraphs := partition(text)
	if len(paragraphs) == 0 {
		return nil, errNoContent
	}

	chunks := bucket(paragraphs, maxChunks)
	perChunk := ceilDiv(count, len(chunks))

	var questions []models.QuestionRecord
	for i, chunk := range chunks {
		if len(questions) >= count {
			break
		}
		remaining := count - len(questions)
		target := min(perChunk, ceilDiv(remaining, len(chunks)-i))

		qs, err := e.chunkQuestions(r, chunk, target)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		questions = append(questions, qs...)
	}

	return reconcile(r, questions, count, longAlphaWords(text)), nil
}

// partition splits text into paragraphs, falling back to synthetic
// paragraphs of grouped sentences when real ones are scarce.
func partition(text string) []string {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) >= minParagraphs {
		return paragraphs
	}

	sentences := splitSentences(text)
	size := max(minSentencesPerBag, len(sentences)/maxChunks)
	var out []string
	for i := 0; i < len(sentences); i += size {
		end := min(i+size, len(sentences))
		out = append(out, strings.Join(sentences[i:end], " "))
	}
	return out
}

// bucket merges paragraphs into at most limit chunks whose sizes differ by
// at most one paragraph.
func bucket(paragraphs []string, limit int) []string {
	n := len(paragraphs)
	k := min(limit, n)
	chunks := make([]string, 0, k)
	for i := 0; i < k; i++ {
		chunks = append(chunks, strings.Join(paragraphs[i*n/k:(i+1)*n/k], " "))
	}
	return chunks
}

// chunkQuestions generates up to target questions seeded by the chunk's sentences.
func (e *DocumentEngine) chunkQuestions(r Rand, chunk string, target int) ([]models.QuestionRecord, error) {
	sentences := splitSentences(chunk)
	if len(sentences) == 0 || target <= 0 {
		return nil, nil
	}

	pool := sentences
	for len(pool) < 3*target {
		pool = append(pool, sentences...)
	}
	keywords := Keywords(chunk, keywordCount)
	shuffleStrings(r, pool)

	templates := e.bank.AllDocumentTemplates()
	if len(templates) == 0 {
		return nil, errors.New("template bank has no document templates")
	}

	var out []models.QuestionRecord
	for _, seed := range pool {
		if len(out) >= target {
			break
		}
		words := strings.Fields(seed)
		if len(words) < 5 {
			continue
		}

		slots := documentSlots(r, words, keywords)
		stem, err := slots.Format(choice(r, templates))
		if err != nil {
			log.Printf("[generator] skipping sentence: %v", err)
			continue
		}

		correct := truncate(seed)
		options, answer := e.options.Synthesize(r, correct, distractorPool(pool, seed, correct))
		out = append(out, models.QuestionRecord{
			Question: stem,
			Options:  options,
			Answer:   answer,
		})
	}
	return out, nil
}

func documentSlots(r Rand, words, keywords []string) Slots {
	subject := cleanWord(words[0]) + " " + cleanWord(words[1])
	if len(keywords) > 0 && r.Float64() < subjectKeywordProb {
		subject = choice(r, keywords)
	}

	related := cleanWord(choice(r, words))
	if len(keywords) >= 2 && r.Float64() < relatedKeywordProb {
		others := make([]string, 0, len(keywords))
		for _, k := range keywords {
			if k != subject {
				others = append(others, k)
			}
		}
		related = choice(r, others)
	}

	return Slots{
		Subject:       subject,
		Related:       related,
		Category:      choice(r, categoryNouns),
		Phrase:        strings.Join(sample(r, words, 3), " "),
		SentenceStart: strings.Join(words[:5], " "),
		Concept:       subject,
		Element:       cleanWord(choice(r, words)),
	}
}

// distractorPool returns truncated, de-duplicated sentences other than the seed.
func distractorPool(pool []string, seed, correct string) []string {
	seen := map[string]bool{correct: true}
	out := make([]string, 0, len(pool))
	for _, s := range pool {
		if s == seed {
			continue
		}
		t := truncate(s)
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// reconcile trims or pads questions to exactly count.
func reconcile(r Rand, questions []models.QuestionRecord, count int, words []string) []models.QuestionRecord {
	if len(questions) > count {
		return questions[:count]
	}
	for len(questions) < count {
		questions = append(questions, fillerQuestion(r, len(questions), words))
	}
	return questions
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
