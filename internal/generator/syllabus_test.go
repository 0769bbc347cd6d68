package generator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfquiz/backend/internal/models"
)

func newTestSyllabusEngine(seed int64) *SyllabusEngine {
	return NewSyllabusEngine(DefaultTemplateBank(), WithRandSource(SeededSource(seed)))
}

func TestSyllabusGenerate_ExactCounts(t *testing.T) {
	engine := newTestSyllabusEngine(5)

	cases := []struct{ math, computer int }{
		{0, 0}, {1, 1}, {5, 3}, {10, 20}, {60, 60}, {0, 100},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d/%d", tc.math, tc.computer), func(t *testing.T) {
			out := engine.Generate(tc.math, tc.computer)
			assert.Len(t, out.Mathematics, tc.math)
			assert.Len(t, out.ComputerAwareness, tc.computer)
			assert.NotNil(t, out.Mathematics)
			assert.NotNil(t, out.ComputerAwareness)
		})
	}
}

func TestSyllabusGenerate_MathQuestions(t *testing.T) {
	out := newTestSyllabusEngine(11).Generate(40, 0)

	for _, q := range out.Mathematics {
		require.NoError(t, q.Validate())
		assert.Equal(t, "A", q.Answer)
		assert.Equal(t, models.SectionMathematics, q.Category)
		assert.Contains(t, mathTopics, q.Topic)
		assert.True(t, strings.HasPrefix(q.Question, "["+q.Topic+"] "), q.Question)
		assert.NotContains(t, q.Question, "{")
		assert.NotEmpty(t, q.Explanation)
	}
}

func TestSyllabusGenerate_ComputerQuestions(t *testing.T) {
	engine := newTestSyllabusEngine(23)
	names := make(map[string]bool)
	for _, s := range engine.Sections() {
		names[s.Name] = true
	}

	out := engine.Generate(0, 60)
	perSection := make(map[string]int)
	for _, q := range out.ComputerAwareness {
		require.NoError(t, q.Validate())
		assert.True(t, names[q.Topic], "unknown section %q", q.Topic)
		assert.Equal(t, models.SectionComputerAwareness, q.Category)
		assert.True(t, strings.HasPrefix(q.Question, "["+q.Topic+"] "), q.Question)
		assert.NotEmpty(t, q.Subtopic)
		perSection[q.Topic]++
	}

	// every section is represented and C programming dominates
	assert.Len(t, perSection, len(names))
	for name, n := range perSection {
		if name != CProgramming {
			assert.Less(t, n, perSection[CProgramming])
		}
	}
}

func TestSyllabusGenerate_SeededIsDeterministic(t *testing.T) {
	a := newTestSyllabusEngine(8).Generate(10, 10)
	b := newTestSyllabusEngine(8).Generate(10, 10)
	assert.Equal(t, a, b)
}

func TestSyllabusGenerate_BrokenTemplatesFallBack(t *testing.T) {
	bank := NewTemplateBank(nil, map[SyllabusStyle][]string{})
	engine := NewSyllabusEngine(bank, WithRandSource(SeededSource(1)))

	out := engine.Generate(2, 3)
	require.Len(t, out.Mathematics, 2)
	require.Len(t, out.ComputerAwareness, 3)
	assert.Equal(t, "[GENERAL] Question 1: What does CPU stand for?", out.ComputerAwareness[0].Question)
	for _, q := range out.ComputerAwareness {
		assert.NoError(t, q.Validate())
	}
}

func TestSyllabusFallback(t *testing.T) {
	math := SyllabusFallback(models.SectionMathematics, 3)
	require.Len(t, math, 3)
	assert.Equal(t, "4", math[2].Options[math[2].Answer])

	computer := SyllabusFallback(models.SectionComputerAwareness, 2)
	require.Len(t, computer, 2)
	assert.Equal(t, "Central Processing Unit", computer[1].Options["A"])

	assert.Empty(t, SyllabusFallback(models.SectionMathematics, 0))
}

func TestAllocate(t *testing.T) {
	defaults := []int{10, 10, 12, 10, 8, 10, 30, 8, 9, 8}

	cases := []struct {
		name    string
		weights []int
		count   int
		want    []int
	}{
		{"hundred", defaults, 100, []int{9, 9, 10, 9, 7, 9, 25, 7, 8, 7}},
		{"minimum one each", defaults, 5, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{"zero count", defaults, 0, []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{"overshoot", []int{1, 1}, 3, []int{1, 2}},
		{"undershoot", []int{1, 1, 1}, 4, []int{2, 1, 1}},
		{"zero weights", []int{0, 0}, 4, []int{2, 2}},
		{"empty", nil, 10, []int{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Allocate(tc.weights, tc.count))
		})
	}
}

func TestAllocate_SumsToCount(t *testing.T) {
	weights := []int{10, 10, 12, 10, 8, 10, 30, 8, 9, 8}
	for count := 10; count <= 200; count++ {
		alloc := Allocate(weights, count)
		sum := 0
		for _, n := range alloc {
			assert.GreaterOrEqual(t, n, 1)
			sum += n
		}
		assert.Equal(t, count, sum, "count=%d", count)
	}
}

func TestStyleFor(t *testing.T) {
	cases := map[string]SyllabusStyle{
		"Hardware vs software":               SyllabusComparison,
		"TCP vs UDP comparison":              SyllabusComparison,
		"Routers and switches: function":     SyllabusFunction,
		"Purpose of indexes":                 SyllabusFunction,
		"DBMS basics: tables, records":       SyllabusDefinition,
		"Normalization":                      SyllabusGeneral,
		"Canvas drawing":                     SyllabusGeneral,
		"Memory management: paging, virtual": SyllabusGeneral,
	}
	for subtopic, want := range cases {
		assert.Equal(t, want, styleFor(subtopic), subtopic)
	}
}

func TestExtractConcepts(t *testing.T) {
	assert.Equal(t, []string{"Hardware", "software"}, extractConcepts("Hardware vs software"))
	assert.Equal(t, []string{"Input devices", "keyboard"}, extractConcepts("Input devices: keyboard, mouse, scanner"))
	assert.Equal(t, []string{"one two three four"}, extractConcepts("one two three four five six"))
}

func TestPairedConcept(t *testing.T) {
	assert.Equal(t, "software", pairedConcept([]string{"Hardware", "software"}))
	assert.Equal(t, "interpreter", pairedConcept([]string{"Compiler"}))
	assert.Equal(t, "a related concept", pairedConcept([]string{"Spreadsheets"}))
}

func TestNumericOptions(t *testing.T) {
	r := SeededSource(4)()
	for i := 0; i < 50; i++ {
		opts := numericOptions(r)
		require.Len(t, opts, 4)
		assert.NotEqual(t, opts["A"], opts["B"])
		assert.NotEqual(t, opts["B"], opts["D"])
	}
}
