package generator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfquiz/backend/internal/models"
)

func sampleDocument(paragraphs int) string {
	topics := []string{"photosynthesis", "respiration", "mitochondria", "chlorophyll", "enzymes", "osmosis"}
	var b strings.Builder
	for i := 0; i < paragraphs; i++ {
		topic := topics[i%len(topics)]
		fmt.Fprintf(&b, "Paragraph %d explains how %s works inside living cells. ", i+1, topic)
		fmt.Fprintf(&b, "Researchers measured the rate of %s under %d different conditions. ", topic, i+3)
		fmt.Fprintf(&b, "The results showed that temperature strongly influences %s in plants.\n\n", topic)
	}
	return b.String()
}

func newTestDocumentEngine(seed int64) *DocumentEngine {
	return NewDocumentEngine(DefaultTemplateBank(), WithRandSource(SeededSource(seed)))
}

func TestDocumentGenerate_ExactCount(t *testing.T) {
	engine := newTestDocumentEngine(1)
	text := sampleDocument(12)

	for _, count := range []int{1, 7, 20, 50, 130} {
		t.Run(fmt.Sprintf("count=%d", count), func(t *testing.T) {
			qs := engine.Generate(text, count)
			require.Len(t, qs, count)
			for i, q := range qs {
				assert.NoError(t, q.Validate(), "question %d", i)
			}
		})
	}
}

func TestDocumentGenerate_NonPositiveCount(t *testing.T) {
	engine := newTestDocumentEngine(1)

	assert.Empty(t, engine.Generate(sampleDocument(12), 0))
	assert.Empty(t, engine.Generate(sampleDocument(12), -4))
	assert.NotNil(t, engine.Generate("", 0))
}

func TestDocumentGenerate_CorrectOptionComesFromText(t *testing.T) {
	engine := newTestDocumentEngine(7)
	text := sampleDocument(12)
	flat := flatten(text)

	qs := engine.Generate(text, 20)
	require.Len(t, qs, 20)
	for _, q := range qs {
		correct := strings.TrimSuffix(q.Options[q.Answer], "...")
		assert.Contains(t, flat, correct)
	}
}

func TestDocumentGenerate_OptionsDistinct(t *testing.T) {
	engine := newTestDocumentEngine(3)

	for _, q := range engine.Generate(sampleDocument(15), 25) {
		seen := make(map[string]bool)
		for _, label := range models.OptionLabels {
			text := q.Options[label]
			if text == PlaceholderDistractor {
				continue
			}
			assert.False(t, seen[text], "duplicate option %q in %q", text, q.Question)
			seen[text] = true
		}
	}
}

func TestDocumentGenerate_EmptyTextUsesFallback(t *testing.T) {
	engine := newTestDocumentEngine(1)

	assert.Equal(t, FallbackQuestions(4), engine.Generate("", 4))
	assert.Equal(t, FallbackQuestions(4), engine.Generate("   \n\n  ", 4))
}

func TestDocumentGenerate_ShortSentencesPadWithFillers(t *testing.T) {
	engine := newTestDocumentEngine(1)
	text := strings.Repeat("A", 40) + ". " + strings.Repeat("B", 40) + ". "

	qs := engine.Generate(text, 5)
	require.Len(t, qs, 5)
	for i, q := range qs {
		assert.Equal(t, fmt.Sprintf("Question %d: What is the main topic discussed in this section of the document?", i+1), q.Question)
		assert.Equal(t, "A", q.Answer)
		assert.NoError(t, q.Validate())
	}
}

func TestDocumentGenerate_SeededIsDeterministic(t *testing.T) {
	text := sampleDocument(12)

	a := newTestDocumentEngine(99).Generate(text, 15)
	b := newTestDocumentEngine(99).Generate(text, 15)
	assert.Equal(t, a, b)
}

func TestFallbackQuestions(t *testing.T) {
	qs := FallbackQuestions(6)
	require.Len(t, qs, 6)

	assert.Equal(t, "Question 1: What is the main topic of this section?", qs[0].Question)
	assert.Equal(t, "The section focuses on concept 2.", qs[5].Options["B"])
	assert.Equal(t, "The section provides details about technique 1.", qs[5].Options["C"])
	assert.Equal(t, "The section explains principle 3.", qs[5].Options["D"])
	for _, q := range qs {
		assert.Equal(t, "A", q.Answer)
		assert.NoError(t, q.Validate())
	}

	assert.Empty(t, FallbackQuestions(0))
	assert.Equal(t, FallbackQuestions(3), FallbackQuestions(3))
}

func TestPartition_SentenceFallback(t *testing.T) {
	// one paragraph, many sentences
	var b strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "Sentence number %d talks about a fairly long subject. ", i)
	}

	parts := partition(b.String())
	require.Len(t, parts, 3)
	assert.Contains(t, parts[0], "Sentence number 4 ")
	assert.NotContains(t, parts[0], "Sentence number 5 ")
	assert.True(t, strings.HasPrefix(parts[2], "Sentence number 10 "))
}

func TestBucket(t *testing.T) {
	paragraphs := make([]string, 45)
	for i := range paragraphs {
		paragraphs[i] = fmt.Sprintf("p%d", i)
	}

	chunks := bucket(paragraphs, 20)
	require.Len(t, chunks, 20)
	assert.Equal(t, "p0 p1", chunks[0])
	assert.True(t, strings.HasSuffix(chunks[19], "p44"))

	assert.Len(t, bucket(paragraphs[:3], 20), 3)
	assert.Empty(t, bucket(nil, 20))
}

func TestBucket_BalancedSizes(t *testing.T) {
	for _, n := range []int{20, 21, 39, 45, 59, 100} {
		paragraphs := make([]string, n)
		for i := range paragraphs {
			paragraphs[i] = fmt.Sprintf("p%d", i)
		}

		chunks := bucket(paragraphs, 20)
		require.Len(t, chunks, 20)

		lo, hi, seen := n, 0, 0
		for _, c := range chunks {
			size := len(strings.Fields(c))
			lo, hi = min(lo, size), max(hi, size)
			seen += size
		}
		assert.LessOrEqual(t, hi-lo, 1, "n=%d", n)
		assert.Equal(t, n, seen, "n=%d", n)
	}
}

func TestGenerate_CoversBackOfDocument(t *testing.T) {
	var paras []string
	for i := 0; i < 39; i++ {
		paras = append(paras, fmt.Sprintf(
			"Paragraph%02d describes the quartz%02d formation process in remarkable detail. "+
				"The quartz%02d layer develops slowly under sustained pressure over many centuries.", i, i, i))
	}
	text := strings.Join(paras, "\n\n")

	e := NewDocumentEngine(DefaultTemplateBank(), WithRandSource(SeededSource(11)))
	qs := e.Generate(text, 40)
	require.Len(t, qs, 40)

	back := 0
	for _, q := range qs {
		blob := q.Question + " " + q.Options[q.Answer]
		for i := 20; i < 39; i++ {
			if strings.Contains(blob, fmt.Sprintf("%02d", i)) {
				back++
				break
			}
		}
	}
	assert.GreaterOrEqual(t, back, 10)
}
