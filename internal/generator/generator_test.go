package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfquiz/backend/internal/config"
)

type failingClient struct{ calls int }

func (f *failingClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	f.calls++
	return nil, errors.New("service unavailable")
}

type garbageClient struct{}

func (garbageClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	return &LLMResponse{Content: "Sorry, I cannot help with that."}, nil
}

func TestNewGenerator_Modes(t *testing.T) {
	cases := []struct {
		cfg  config.GeneratorConfig
		want string
	}{
		{config.GeneratorConfig{Mode: "procedural"}, ModeProcedural},
		{config.GeneratorConfig{Mode: ""}, ModeProcedural},
		{config.GeneratorConfig{Mode: "mock"}, ModeMock},
		{config.GeneratorConfig{Mode: "anthropic"}, ModeProcedural},
		{config.GeneratorConfig{Mode: "anthropic", AnthropicAPIKey: "k", AnthropicModel: "m"}, ModeAnthropic},
		{config.GeneratorConfig{Mode: "openai"}, ModeProcedural},
		{config.GeneratorConfig{Mode: "openai", OpenAIAPIKey: "k", OpenAIModel: "m"}, ModeOpenAI},
		{config.GeneratorConfig{Mode: "telepathy"}, ModeProcedural},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NewGenerator(tc.cfg).Mode(), "mode %q", tc.cfg.Mode)
	}
}

func TestDocumentQuestions_Procedural(t *testing.T) {
	g := NewGenerator(config.GeneratorConfig{Mode: ModeProcedural}, WithRandSource(SeededSource(2)))

	qs, source := g.DocumentQuestions(context.Background(), sampleDocument(12), 15)
	assert.Len(t, qs, 15)
	assert.Equal(t, SourceProcedural, source)
}

func TestDocumentQuestions_Assisted(t *testing.T) {
	g := NewGeneratorWithClient(NewMockClient(), WithRandSource(SeededSource(2)))

	qs, source := g.DocumentQuestions(context.Background(), sampleDocument(12), 60)
	require.Len(t, qs, 60)
	assert.Equal(t, SourceAssisted, source)
	for _, q := range qs {
		assert.True(t, strings.HasPrefix(q.Question, "[Mock]"), q.Question)
		assert.NoError(t, q.Validate())
	}
}

func TestDocumentQuestions_ShortfallFilledProcedurally(t *testing.T) {
	g := NewGeneratorWithClient(&MockClient{Short: true}, WithRandSource(SeededSource(2)))

	qs, source := g.DocumentQuestions(context.Background(), sampleDocument(12), 10)
	require.Len(t, qs, 10)
	assert.Equal(t, SourceMixed, source)
	assert.True(t, strings.HasPrefix(qs[8].Question, "[Mock]"))
	assert.False(t, strings.HasPrefix(qs[9].Question, "[Mock]"))
}

func TestDocumentQuestions_ClientErrorFallsBack(t *testing.T) {
	client := &failingClient{}
	g := NewGeneratorWithClient(client, WithRandSource(SeededSource(2)))

	qs, source := g.DocumentQuestions(context.Background(), sampleDocument(12), 60)
	require.Len(t, qs, 60)
	assert.Equal(t, SourceProcedural, source)
	assert.Equal(t, 1, client.calls)
}

func TestDocumentQuestions_UnparseableResponseFallsBack(t *testing.T) {
	g := NewGeneratorWithClient(garbageClient{}, WithRandSource(SeededSource(2)))

	qs, source := g.DocumentQuestions(context.Background(), sampleDocument(12), 5)
	assert.Len(t, qs, 5)
	assert.Equal(t, SourceProcedural, source)
}

func TestDocumentQuestions_ZeroCount(t *testing.T) {
	g := NewGeneratorWithClient(NewMockClient())

	qs, _ := g.DocumentQuestions(context.Background(), sampleDocument(12), 0)
	assert.NotNil(t, qs)
	assert.Empty(t, qs)
}

func TestMockClient_HonoursCount(t *testing.T) {
	resp, err := NewMockClient().Generate(context.Background(), DocumentSystemPrompt(), BuildDocumentUserPrompt("text", 7))
	require.NoError(t, err)

	qs, err := ParseResponse(resp.Content)
	require.NoError(t, err)
	assert.Len(t, qs, 7)
}

func TestBuildDocumentUserPrompt(t *testing.T) {
	prompt := BuildDocumentUserPrompt("Cells divide by mitosis.", 12)

	for _, keyword := range []string{"exactly 12", "Cells divide by mitosis.", `"options"`, `"answer"`, `"questions"`} {
		assert.Contains(t, prompt, keyword)
	}
	assert.Contains(t, DocumentSystemPrompt(), "Exactly 4 options")
}

func TestExcerptWindows(t *testing.T) {
	assert.Nil(t, excerptWindows("", 3))
	assert.Equal(t, []string{"short text"}, excerptWindows("short text", 4))

	text := sampleDocument(40)
	windows := excerptWindows(text, 3)
	require.Len(t, windows, 3)
	for _, w := range windows {
		assert.LessOrEqual(t, len(w), maxExcerptChars)
		assert.NotEmpty(t, w)
	}
	assert.True(t, strings.HasPrefix(windows[0], "Paragraph 1 "))
}

func TestSyllabusQuestions(t *testing.T) {
	g := NewGenerator(config.GeneratorConfig{Mode: ModeMock}, WithRandSource(SeededSource(3)))

	out := g.SyllabusQuestions(4, 6)
	assert.Len(t, out.Mathematics, 4)
	assert.Len(t, out.ComputerAwareness, 6)
}
