package generator

import (
	"context"
	"log"

	"github.com/pdfquiz/backend/internal/config"
	"github.com/pdfquiz/backend/internal/models"
)

// Generation modes accepted in GENERATOR_MODE.
const (
	ModeProcedural = "procedural"
	ModeAnthropic  = "anthropic"
	ModeOpenAI     = "openai"
	ModeMock       = "mock"
)

// Question sources recorded on a stored test.
const (
	SourceProcedural = "procedural"
	SourceAssisted   = "assisted"
	SourceMixed      = "mixed"
)

// maxQuestionsPerRequest caps how many questions one LLM call is asked for.
const maxQuestionsPerRequest = 25

// Engines bundles the two procedural engines over one shared template bank.
type Engines struct {
	Document *DocumentEngine
	Syllabus *SyllabusEngine
}

func NewEngines(opts ...Option) *Engines {
	bank := DefaultTemplateBank()
	return &Engines{
		Document: NewDocumentEngine(bank, opts...),
		Syllabus: NewSyllabusEngine(bank, opts...),
	}
}

// Generator is the entry point the services use. Document questions may come
// from an LLM; the procedural engine fills any gap so counts are always exact.
type Generator struct {
	engines *Engines
	llm     LLMClient
	mode    string
}

func NewGenerator(cfg config.GeneratorConfig, opts ...Option) *Generator {
	g := &Generator{engines: NewEngines(opts...), mode: ModeProcedural}

	switch cfg.Mode {
	case ModeAnthropic:
		if cfg.AnthropicAPIKey == "" {
			log.Println("[generator] ANTHROPIC_API_KEY not set, using procedural generation")
			break
		}
		g.llm, g.mode = NewAPIClient(cfg.AnthropicAPIKey, cfg.AnthropicModel), ModeAnthropic
		log.Println("[generator] using Anthropic API:", cfg.AnthropicModel)
	case ModeOpenAI:
		if cfg.OpenAIAPIKey == "" {
			log.Println("[generator] OPENAI_API_KEY not set, using procedural generation")
			break
		}
		g.llm, g.mode = NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL), ModeOpenAI
		log.Println("[generator] using OpenAI API:", cfg.OpenAIModel)
	case ModeMock:
		g.llm, g.mode = NewMockClient(), ModeMock
		log.Println("[generator] using mock LLM client")
	case ModeProcedural, "":
		log.Println("[generator] using procedural generation")
	default:
		log.Printf("[generator] unknown GENERATOR_MODE %q, using procedural generation", cfg.Mode)
	}
	return g
}

// NewGeneratorWithClient wires an arbitrary LLM client, mainly for tests.
func NewGeneratorWithClient(llm LLMClient, opts ...Option) *Generator {
	g := &Generator{engines: NewEngines(opts...), llm: llm, mode: ModeProcedural}
	if llm != nil {
		g.mode = ModeMock
	}
	return g
}

func (g *Generator) Mode() string {
	return g.mode
}

func (g *Generator) Engines() *Engines {
	return g.engines
}

// DocumentQuestions returns exactly count questions about text and reports
// where they came from.
func (g *Generator) DocumentQuestions(ctx context.Context, text string, count int) ([]models.QuestionRecord, string) {
	if count <= 0 {
		return []models.QuestionRecord{}, SourceProcedural
	}
	if g.llm == nil {
		return g.engines.Document.Generate(text, count), SourceProcedural
	}

	assisted := g.assistedQuestions(ctx, text, count)
	if len(assisted) == 0 {
		return g.engines.Document.Generate(text, count), SourceProcedural
	}
	if len(assisted) >= count {
		return assisted[:count], SourceAssisted
	}

	missing := count - len(assisted)
	log.Printf("[generator] %s returned %d of %d questions, filling %d procedurally", g.mode, len(assisted), count, missing)
	return append(assisted, g.engines.Document.Generate(text, missing)...), SourceMixed
}

func (g *Generator) assistedQuestions(ctx context.Context, text string, count int) []models.QuestionRecord {
	requests := ceilDiv(count, maxQuestionsPerRequest)
	windows := excerptWindows(text, requests)
	if len(windows) == 0 {
		return nil
	}

	var out []models.QuestionRecord
	for i := 0; i < requests; i++ {
		remaining := count - len(out)
		if remaining <= 0 {
			break
		}
		want := min(maxQuestionsPerRequest, ceilDiv(remaining, requests-i))
		excerpt := windows[i%len(windows)]

		resp, err := g.llm.Generate(ctx, DocumentSystemPrompt(), BuildDocumentUserPrompt(excerpt, want))
		if err != nil {
			log.Printf("[generator] %s request %d failed: %v", g.mode, i+1, err)
			break
		}
		qs, err := ParseResponse(resp.Content)
		if err != nil {
			log.Printf("[generator] %s response %d rejected: %v", g.mode, i+1, err)
			continue
		}
		if len(qs) > want {
			qs = qs[:want]
		}
		out = append(out, qs...)
	}
	return out
}

// SyllabusQuestions builds a mock-exam paper. Syllabus questions are always
// procedural.
func (g *Generator) SyllabusQuestions(mathCount, computerCount int) models.SyllabusQuestions {
	return g.engines.Syllabus.Generate(mathCount, computerCount)
}
