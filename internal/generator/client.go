package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	openai "github.com/sashabaranov/go-openai"

	"github.com/pdfquiz/backend/internal/models"
)

// LLMClient is the interface every assisted-generation backend satisfies.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

const (
	llmMaxTokens   = 8192
	llmTemperature = 0.7
	llmAttempts    = 2
)

// retry runs call up to llmAttempts times with exponential backoff.
func retry[T any](ctx context.Context, provider string, call func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt < llmAttempts; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("[generator] retrying %s call in %v (attempt %d)", provider, wait, attempt+1)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(wait):
			}
		}

		out, err := call()
		if err == nil {
			return out, nil
		}
		lastErr = err
		log.Printf("[generator] %s attempt %d failed: %v", provider, attempt+1, err)
	}
	return zero, fmt.Errorf("%s failed after retries: %w", provider, lastErr)
}

// ── APIClient (Anthropic) ──────────────────────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(apiKey, model string) *APIClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   llmMaxTokens,
		Temperature: param.NewOpt(llmTemperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := retry(ctx, "anthropic", func() (*anthropic.Message, error) {
		return c.client.Messages.New(ctx, params)
	})
	if err != nil {
		return nil, err
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, errors.New("no text content in anthropic response")
	}

	return &LLMResponse{
		Content:      text,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

// ── OpenAIClient ───────────────────────────────────────────

// OpenAIClient talks to OpenAI or any compatible API reachable at baseURL.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxCompletionTokens: llmMaxTokens,
		Temperature:         llmTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := retry(ctx, "openai", func() (openai.ChatCompletionResponse, error) {
		return c.client.CreateChatCompletion(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices in openai response")
	}

	return &LLMResponse{
		Content:      resp.Choices[0].Message.Content,
		PromptTokens: resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

// ── MockClient (local development) ─────────────────────────

// MockClient answers with well-formed questions without calling any API.
// It honours the "exactly N" count in the user prompt.
type MockClient struct {
	// Short makes the mock return one question fewer than requested.
	Short bool
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

var requestedCountRe = regexp.MustCompile(`exactly (\d+)`)

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	n := 5
	if match := requestedCountRe.FindStringSubmatch(userPrompt); match != nil {
		n, _ = strconv.Atoi(match[1])
	}
	if m.Short && n > 0 {
		n--
	}

	batch := LLMBatch{Questions: make([]models.QuestionRecord, n)}
	for i := range batch.Questions {
		answer := models.OptionLabels[i%len(models.OptionLabels)]
		batch.Questions[i] = models.QuestionRecord{
			Question: fmt.Sprintf("[Mock] Which statement about section %d of the document is accurate?", i+1),
			Options: map[string]string{
				"A": fmt.Sprintf("[Mock] Statement %d-A", i+1),
				"B": fmt.Sprintf("[Mock] Statement %d-B", i+1),
				"C": fmt.Sprintf("[Mock] Statement %d-C", i+1),
				"D": fmt.Sprintf("[Mock] Statement %d-D", i+1),
			},
			Answer:      answer,
			Explanation: fmt.Sprintf("[Mock] Statement %d-%s is the one the document supports.", i+1, answer),
		}
	}

	content, err := encodeBatch(batch)
	if err != nil {
		return nil, err
	}
	return &LLMResponse{Content: content, PromptTokens: 1500, OutputTokens: 250 * n}, nil
}
