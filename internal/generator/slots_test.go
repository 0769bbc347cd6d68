package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotsFormat(t *testing.T) {
	s := Slots{Subject: "osmosis", Related: "diffusion", LibraryFunction: "strlen"}

	got, err := s.Format("How does {subject} compare to {related}?")
	require.NoError(t, err)
	assert.Equal(t, "How does osmosis compare to diffusion?", got)

	got, err = s.Format("Which header declares {library_function}?")
	require.NoError(t, err)
	assert.Equal(t, "Which header declares strlen?", got)

	got, err = s.Format("No placeholders here.")
	require.NoError(t, err)
	assert.Equal(t, "No placeholders here.", got)

	_, err = s.Format("What is {unknown}?")
	assert.Error(t, err)
}

func TestSlotsFormat_UnsetSlotIsEmpty(t *testing.T) {
	got, err := Slots{}.Format("[{concept}]")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestEveryDefaultTemplateFormats(t *testing.T) {
	bank := DefaultTemplateBank()
	full := Slots{
		Subject: "s", Related: "r", Category: "c", SentenceStart: "ss", Phrase: "p", Concept: "co", Element: "e",
		Acronym: "a", Concept1: "c1", Concept2: "c2", Context: "ctx", System: "sys",
		Code: "int x;", Task: "t", Line: "l", LibraryFunction: "lf",
	}

	for _, tmpl := range bank.AllDocumentTemplates() {
		_, err := full.Format(tmpl)
		assert.NoError(t, err, tmpl)
	}
	for style, templates := range bank.Syllabus {
		for _, tmpl := range templates {
			_, err := full.Format(tmpl)
			assert.NoError(t, err, "%s: %s", style, tmpl)
		}
	}
	for _, cat := range defaultMathCategories() {
		for _, tmpl := range cat.Templates {
			_, err := full.Format(tmpl)
			assert.NoError(t, err, tmpl)
		}
	}
}

func TestFormatPattern(t *testing.T) {
	got, err := formatPattern("{0} for {1}", []string{"Ctrl+C", "copy"})
	require.NoError(t, err)
	assert.Equal(t, "Ctrl+C for copy", got)

	_, err = formatPattern("{0} and {2}", []string{"a", "b"})
	assert.Error(t, err)
}

func TestDefaultPatternsFormat(t *testing.T) {
	reg := DefaultPatternRegistry()
	for section, entries := range reg.bySection {
		for _, e := range entries {
			for _, v := range e.Variations {
				_, err := formatPattern(e.Pattern, v)
				assert.NoError(t, err, "%s / %s", section, e.Prefix)
			}
		}
	}
}

func TestPatternOptions_FourDistinct(t *testing.T) {
	reg := DefaultPatternRegistry()
	r := SeededSource(6)()

	for _, section := range defaultSections() {
		for _, sub := range section.Subtopics {
			opts, err := reg.options(r, section.Name, sub)
			require.NoError(t, err)
			require.Len(t, opts, 4, "%s / %s", section.Name, sub)
			seen := make(map[string]bool)
			for _, text := range opts {
				assert.NotEmpty(t, text)
				assert.False(t, seen[text], "%s / %s duplicate %q", section.Name, sub, text)
				seen[text] = true
			}
		}
	}
}
