package generator

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/pdfquiz/backend/internal/models"
)

// LLMBatch is the JSON envelope the models are asked to return.
type LLMBatch struct {
	Questions []models.QuestionRecord `json:"questions"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

const batchSchemaURL = "schema://question-batch.json"

var batchSchema = map[string]any{
	"type":     "object",
	"required": []any{"questions"},
	"properties": map[string]any{
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"question", "options", "answer"},
				"properties": map[string]any{
					"question": map[string]any{"type": "string", "minLength": 1},
					"options": map[string]any{
						"type":                 "object",
						"required":             []any{"A", "B", "C", "D"},
						"additionalProperties": false,
						"properties": map[string]any{
							"A": map[string]any{"type": "string"},
							"B": map[string]any{"type": "string"},
							"C": map[string]any{"type": "string"},
							"D": map[string]any{"type": "string"},
						},
					},
					"answer":      map[string]any{"type": "string", "enum": []any{"A", "B", "C", "D"}},
					"explanation": map[string]any{"type": "string"},
					"category":    map[string]any{"type": "string"},
					"topic":       map[string]any{"type": "string"},
					"subtopic":    map[string]any{"type": "string"},
				},
			},
		},
	},
}

// schemaCache holds the compiled batch schema.
var schemaCache sync.Map

func compiledBatchSchema() (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(batchSchemaURL); ok {
		return cached.(*jsonschema.Schema), nil
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(batchSchemaURL, batchSchema); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(batchSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	schemaCache.Store(batchSchemaURL, compiled)
	return compiled, nil
}

// ParseResponse decodes a model response into question records. The payload
// must match the batch schema; records with structural problems are dropped
// and only an all-invalid batch is an error.
func ParseResponse(responseBody string) ([]models.QuestionRecord, error) {
	cleaned := stripCodeFences(responseBody)

	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	schema, err := compiledBatchSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, &ValidationError{Errors: []string{err.Error()}}
	}

	var batch LLMBatch
	if err := json.Unmarshal([]byte(cleaned), &batch); err != nil {
		return nil, fmt.Errorf("failed to decode question batch: %w", err)
	}

	var (
		kept []models.QuestionRecord
		errs []string
	)
	for i, q := range batch.Questions {
		q = normalizeRecord(q)
		if issues := StructuralIssues(q); len(issues) > 0 {
			for _, issue := range issues {
				errs = append(errs, fmt.Sprintf("question %d: %s", i+1, issue))
			}
			continue
		}
		kept = append(kept, q)
	}

	if len(kept) == 0 {
		return nil, &ValidationError{Errors: errs}
	}
	if len(errs) > 0 {
		log.Printf("[generator] dropped %d of %d generated questions: %s",
			len(batch.Questions)-len(kept), len(batch.Questions), strings.Join(errs, "; "))
	}
	for _, w := range BatchWarnings(kept) {
		log.Printf("[generator] WARNING: %s", w)
	}
	return kept, nil
}

func normalizeRecord(q models.QuestionRecord) models.QuestionRecord {
	q.Question = strings.TrimSpace(q.Question)
	q.Answer = strings.ToUpper(strings.TrimSpace(q.Answer))
	for label, text := range q.Options {
		q.Options[label] = strings.TrimSpace(text)
	}
	return q
}

func encodeBatch(batch LLMBatch) (string, error) {
	data, err := json.Marshal(batch)
	if err != nil {
		return "", fmt.Errorf("encode question batch: %w", err)
	}
	return string(data), nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
