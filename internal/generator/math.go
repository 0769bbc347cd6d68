package generator

import (
	"fmt"
	"strconv"

	"github.com/pdfquiz/backend/internal/models"
)

// mathCategory pairs stem templates with a builder for their placeholders.
type mathCategory struct {
	Name      string
	Method    string
	Templates []string
	Build     func(r Rand) Slots
}

var algebraTemplates = []string{
	"Solve for x: {equation}",
	"If {equation}, what is the value of x?",
	"Simplify the expression {expression}.",
	"For how many integer values of x does {condition} hold when {equation}?",
	"If {function}, what is f(3)?",
	"Find the sum of the roots of {equation}.",
}

var geometryTemplates = []string{
	"Find the area of {expression}.",
	"What is the perimeter of {expression}?",
	"The equation of a curve is {equation}. What is its radius or length parameter?",
	"In a triangle, {condition}. Find the remaining angle in degrees.",
	"Find the distance from the origin to {function}.",
}

var calculusTemplates = []string{
	"Find the derivative of {function} at x = 1.",
	"Evaluate {expression}.",
	"Find the limit of {function} as {condition}.",
	"If {equation}, find y when x = 2 given y(0) = 0.",
	"Find the local maximum value of {function}.",
}

// defaultMathCategories returns the five categories. Statistics reuses the
// algebra builders and trigonometry reuses the geometry builders.
func defaultMathCategories() []mathCategory {
	return []mathCategory{
		{Name: "algebra", Method: "algebraic manipulation and substitution", Templates: algebraTemplates, Build: buildAlgebra},
		{Name: "geometry", Method: "standard mensuration formulas", Templates: geometryTemplates, Build: buildGeometry},
		{Name: "calculus", Method: "the rules of differentiation and integration", Templates: calculusTemplates, Build: buildCalculus},
		{Name: "statistics", Method: "the definitions of mean, variance and probability", Templates: algebraTemplates, Build: buildAlgebra},
		{Name: "trigonometry", Method: "trigonometric identities and standard angle values", Templates: geometryTemplates, Build: buildGeometry},
	}
}

var mathTopics = []string{
	"Sets and Relations",
	"Functions",
	"Complex Numbers",
	"Quadratic Equations",
	"Sequences and Series",
	"Permutations and Combinations",
	"Binomial Theorem",
	"Matrices and Determinants",
	"Straight Lines",
	"Circles",
	"Conic Sections",
	"Limits and Continuity",
	"Differentiation",
	"Integration",
	"Probability",
	"Statistics",
	"Trigonometric Ratios",
}

func signed(n int) string {
	if n < 0 {
		return "- " + strconv.Itoa(-n)
	}
	return "+ " + strconv.Itoa(n)
}

func buildAlgebra(r Rand) Slots {
	a, b, c := randInt(r, 2, 9), randInt(r, -20, 20), randInt(r, 10, 60)
	p, q := randInt(r, 1, 9), randInt(r, 1, 9)
	return Slots{
		Equation:   fmt.Sprintf("%dx %s = %d", a, signed(b), c),
		Expression: fmt.Sprintf("(%dx^2 %sx) / %dx", a*p, signed(a*q), a),
		Condition:  fmt.Sprintf("%d < x < %d", p, p+q+2),
		Function:   fmt.Sprintf("f(x) = %dx^2 %sx %s", randInt(r, 1, 5), signed(randInt(r, 1, 9)), signed(randInt(r, -9, -1))),
	}
}

func buildGeometry(r Rand) Slots {
	shapes := []string{
		fmt.Sprintf("a circle of radius %d cm", randInt(r, 2, 14)),
		fmt.Sprintf("a rectangle of sides %d cm and %d cm", randInt(r, 3, 20), randInt(r, 3, 20)),
		fmt.Sprintf("a square of side %d cm", randInt(r, 2, 25)),
		fmt.Sprintf("a right triangle with legs %d cm and %d cm", randInt(r, 3, 12), randInt(r, 3, 12)),
	}
	radius := randInt(r, 2, 12)
	angleA, angleB := randInt(r, 20, 80), randInt(r, 20, 80)
	return Slots{
		Equation:   fmt.Sprintf("x^2 + y^2 = %d", radius*radius),
		Expression: choice(r, shapes),
		Condition:  fmt.Sprintf("two angles measure %d and %d degrees", angleA, angleB),
		Function:   fmt.Sprintf("the point (%d, %d)", randInt(r, -12, 12), randInt(r, -12, 12)),
	}
}

func buildCalculus(r Rand) Slots {
	a, b, n := randInt(r, 1, 6), randInt(r, 1, 9), randInt(r, 2, 4)
	lo, hi := randInt(r, 0, 2), randInt(r, 3, 5)
	return Slots{
		Equation:   fmt.Sprintf("dy/dx = %dx^%d %s", a, n-1, signed(b)),
		Expression: fmt.Sprintf("the integral of (%dx %s) dx from %d to %d", a, signed(b), lo, hi),
		Condition:  fmt.Sprintf("x approaches %d", randInt(r, 0, 4)),
		Function:   fmt.Sprintf("f(x) = %dx^%d %sx", a, n, signed(-b)),
	}
}

// mathQuestions builds count math questions. The numeric options are not
// derived from the stem and the labelled answer is always A.
func (e *SyllabusEngine) mathQuestions(r Rand, count int) []models.QuestionRecord {
	out := make([]models.QuestionRecord, 0, count)
	for attempts := 0; len(out) < count && attempts < count*maxAttemptsPerSlot; attempts++ {
		cat := e.math[r.Intn(len(e.math))]
		topic := choice(r, e.mathTopics)
		slots := cat.Build(r)

		stem, err := slots.Format(choice(r, cat.Templates))
		if err != nil {
			// one template is broken; the others can still fill this slot
			continue
		}

		out = append(out, models.QuestionRecord{
			Question:    fmt.Sprintf("[%s] %s", topic, stem),
			Options:     numericOptions(r),
			Answer:      "A",
			Explanation: fmt.Sprintf("This %s problem is solved by applying %s.", cat.Name, cat.Method),
			Category:    models.SectionMathematics,
			Topic:       topic,
			Subtopic:    cat.Name,
		})
	}
	return out
}

// numericOptions returns c, c+k1, c-k2 and 2c for a random c in [1, 100].
func numericOptions(r Rand) map[string]string {
	c := randInt(r, 1, 100)
	up := c + randInt(r, 1, 10)
	for up == 2*c {
		up = c + randInt(r, 1, 10)
	}
	down := c - randInt(r, 1, 10)
	return map[string]string{
		"A": strconv.Itoa(c),
		"B": strconv.Itoa(up),
		"C": strconv.Itoa(down),
		"D": strconv.Itoa(2 * c),
	}
}
