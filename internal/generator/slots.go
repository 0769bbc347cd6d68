package generator

import (
	"fmt"
	"regexp"
	"strings"
)

// Slots holds every named placeholder a template may reference. Fields the
// caller does not set format as empty strings.
type Slots struct {
	// document templates
	Subject       string
	Related       string
	Category      string
	SentenceStart string
	Phrase        string
	Concept       string
	Element       string

	// syllabus templates
	Acronym  string
	Concept1 string
	Concept2 string
	Context  string
	System   string

	// math templates
	Equation   string
	Expression string
	Condition  string
	Function   string

	// coding templates
	Code            string
	Task            string
	Line            string
	LibraryFunction string
}

var placeholderRe = regexp.MustCompile(`\{([a-z_0-9]+)\}`)

func (s Slots) lookup(name string) (string, bool) {
	switch name {
	case "subject":
		return s.Subject, true
	case "related":
		return s.Related, true
	case "category":
		return s.Category, true
	case "sentence_start":
		return s.SentenceStart, true
	case "phrase":
		return s.Phrase, true
	case "concept":
		return s.Concept, true
	case "element":
		return s.Element, true
	case "acronym":
		return s.Acronym, true
	case "concept1":
		return s.Concept1, true
	case "concept2":
		return s.Concept2, true
	case "context":
		return s.Context, true
	case "system":
		return s.System, true
	case "equation":
		return s.Equation, true
	case "expression":
		return s.Expression, true
	case "condition":
		return s.Condition, true
	case "function":
		return s.Function, true
	case "code":
		return s.Code, true
	case "task":
		return s.Task, true
	case "line":
		return s.Line, true
	case "library_function":
		return s.LibraryFunction, true
	}
	return "", false
}

// Format fills template placeholders. A placeholder with no matching slot is
// an error; the template is not partially rendered.
func (s Slots) Format(template string) (string, error) {
	matches := placeholderRe.FindAllStringSubmatchIndex(template, -1)
	if len(matches) == 0 {
		return template, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		name := template[m[2]:m[3]]
		val, ok := s.lookup(name)
		if !ok {
			return "", fmt.Errorf("template %q: unknown placeholder {%s}", template, name)
		}
		b.WriteString(template[last:m[0]])
		b.WriteString(val)
		last = m[1]
	}
	b.WriteString(template[last:])
	return b.String(), nil
}

// formatPattern fills positional {0}, {1}, ... placeholders from args.
func formatPattern(pattern string, args []string) (string, error) {
	var err error
	out := positionalRe.ReplaceAllStringFunc(pattern, func(m string) string {
		var idx int
		fmt.Sscanf(m, "{%d}", &idx)
		if idx >= len(args) {
			err = fmt.Errorf("pattern %q: missing argument %d", pattern, idx)
			return m
		}
		return args[idx]
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

var positionalRe = regexp.MustCompile(`\{[0-9]+\}`)
