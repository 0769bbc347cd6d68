package generator

import (
	"fmt"
	"strings"
)

// snippetCategory is a bucket of short C programs for one family of subtopics.
type snippetCategory struct {
	Name     string
	Match    func(subtopic string) bool
	Tasks    []string
	Snippets []string
}

const defaultSnippetCategory = "Data types"

var snippetCategories = []snippetCategory{
	{
		Name:  "Data types",
		Match: hasSubstring("data type", "variable"),
		Tasks: []string{"declare a variable that stores a decimal value", "find the size of an int", "store a single character"},
		Snippets: []string{
			"int a = 7;\nfloat b = a / 2;\nprintf(\"%.1f\", b);",
			"char c = 'A' + 2;\nprintf(\"%c\", c);",
			"printf(\"%zu\", sizeof(char));",
		},
	},
	{
		Name:  "Operators",
		Match: hasSubstring("operator", "expression"),
		Tasks: []string{"find the remainder of a division", "increment a variable by one", "check two conditions at once"},
		Snippets: []string{
			"int x = 5;\nint y = x++ + ++x;\nprintf(\"%d\", y);",
			"int a = 10, b = 3;\nprintf(\"%d %d\", a / b, a % b);",
			"int n = 6;\nprintf(\"%d\", n & 3);",
		},
	},
	{
		Name:  "Control statements",
		Match: hasSubstring("control statement", "switch"),
		Tasks: []string{"choose between several constant cases", "execute code only when a condition holds"},
		Snippets: []string{
			"int n = 2;\nswitch (n) {\ncase 1: printf(\"one\");\ncase 2: printf(\"two\");\ncase 3: printf(\"three\");\n}",
			"int a = 0;\nif (a = 5)\n    printf(\"yes\");\nelse\n    printf(\"no\");",
		},
	},
	{
		Name:  "Loops",
		Match: hasSubstring("loop"),
		Tasks: []string{"repeat a block exactly ten times", "run a block at least once before testing a condition"},
		Snippets: []string{
			"int i;\nfor (i = 0; i < 5; i++);\nprintf(\"%d\", i);",
			"int i = 10;\ndo {\n    printf(\"%d \", i);\n    i -= 4;\n} while (i > 0);",
			"int s = 0;\nfor (int i = 1; i <= 4; i++)\n    s += i;\nprintf(\"%d\", s);",
		},
	},
	{
		Name:  "Functions",
		Match: hasSubstring("function", "recursion"),
		Tasks: []string{"return a value from a function", "pass a variable by reference"},
		Snippets: []string{
			"int f(int n) {\n    if (n <= 1) return 1;\n    return n * f(n - 1);\n}\nprintf(\"%d\", f(4));",
			"void swap(int a, int b) {\n    int t = a; a = b; b = t;\n}\nint x = 1, y = 2;\nswap(x, y);\nprintf(\"%d %d\", x, y);",
		},
	},
	{
		Name:  "Arrays",
		Match: hasSubstring("array", "string"),
		Tasks: []string{"find the length of a string", "copy one string into another"},
		Snippets: []string{
			"int a[5] = {1, 2, 3};\nprintf(\"%d\", a[3]);",
			"char s[] = \"hello\";\nprintf(\"%zu\", sizeof(s));",
			"char s[10] = \"abc\";\nprintf(\"%lu\", strlen(s));",
		},
	},
	{
		Name:  "Pointers",
		Match: hasSubstring("pointer", "address"),
		Tasks: []string{"get the address of a variable", "allocate memory at run time"},
		Snippets: []string{
			"int x = 10;\nint *p = &x;\n*p = 20;\nprintf(\"%d\", x);",
			"int a[] = {4, 8, 12};\nint *p = a;\nprintf(\"%d\", *(p + 2));",
		},
	},
	{
		Name:  "Structures",
		Match: hasSubstring("structure", "union"),
		Tasks: []string{"group related variables of different types", "access a member through a pointer"},
		Snippets: []string{
			"struct point { int x, y; };\nstruct point p = {3, 4};\nprintf(\"%d\", p.x + p.y);",
			"union u { int i; char c; };\nprintf(\"%zu\", sizeof(union u));",
		},
	},
}

var libraryFunctions = []string{"printf", "scanf", "strlen", "strcpy", "strcmp", "malloc", "free", "sqrt", "pow", "fopen", "toupper", "atoi"}

func snippetCategoryFor(subtopic string) snippetCategory {
	var fallback snippetCategory
	for _, c := range snippetCategories {
		if c.Match(subtopic) {
			return c
		}
		if c.Name == defaultSnippetCategory {
			fallback = c
		}
	}
	return fallback
}

func (e *SyllabusEngine) codingStem(r Rand, subtopic string) (string, error) {
	templates := e.bank.Syllabus[SyllabusCoding]
	if len(templates) == 0 {
		return "", fmt.Errorf("no coding templates")
	}

	cat := snippetCategoryFor(subtopic)
	code := choice(r, cat.Snippets)
	slots := Slots{
		Concept:         cat.Name,
		Code:            code,
		Task:            choice(r, cat.Tasks),
		Line:            strings.TrimSpace(choice(r, codeLines(code))),
		LibraryFunction: choice(r, libraryFunctions),
	}
	return slots.Format(choice(r, templates))
}

func codeLines(code string) []string {
	var out []string
	for _, l := range strings.Split(code, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
