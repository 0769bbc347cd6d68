package generator

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/pdfquiz/backend/internal/models"
)

// SyllabusSection is one weighted topic area of the computer-awareness paper.
type SyllabusSection struct {
	Name      string
	Context   string
	System    string
	Weight    int
	Subtopics []string
}

// CProgramming is the section answered with code-snippet questions.
const CProgramming = "C PROGRAMMING"

func defaultSections() []SyllabusSection {
	return []SyllabusSection{
		{
			Name: "COMPUTER FUNDAMENTALS", Context: "computer fundamentals", System: "a personal computer", Weight: 10,
			Subtopics: []string{
				"Hardware vs software",
				"Input devices: keyboard, mouse, scanner",
				"Output devices: monitor, printer",
				"Generations of computers",
				"Types of computers: supercomputer, mainframe, microcomputer",
				"Memory basics: RAM, ROM, cache",
			},
		},
		{
			Name: "DATA REPRESENTATION", Context: "data representation", System: "a digital computer", Weight: 10,
			Subtopics: []string{
				"Number systems: binary, octal, hexadecimal",
				"Binary arithmetic basics",
				"Character encoding: ASCII, Unicode",
				"Units of storage: bit, byte, kilobyte",
				"Signed numbers and two's complement",
			},
		},
		{
			Name: "OPERATING SYSTEMS", Context: "operating systems", System: "an operating system", Weight: 12,
			Subtopics: []string{
				"Functions of an OS",
				"Process management: scheduling, deadlock",
				"Memory management: paging, virtual memory",
				"File systems: directories, FAT, NTFS",
				"Types of OS: batch, time-sharing, real-time",
				"Booting process and BIOS",
			},
		},
		{
			Name: "COMPUTER ORGANIZATION", Context: "computer organization", System: "the central processing unit", Weight: 10,
			Subtopics: []string{
				"CPU components: ALU, control unit, registers",
				"Memory hierarchy: registers, cache, main memory",
				"Instruction cycle: fetch, decode, execute",
				"Buses: address bus, data bus, control bus",
				"Purpose of cache memory",
			},
		},
		{
			Name: "SOFTWARE CONCEPTS", Context: "software development", System: "a software system", Weight: 8,
			Subtopics: []string{
				"System software vs application software",
				"Compiler vs interpreter",
				"Software development life cycle",
				"Open source and proprietary software",
			},
		},
		{
			Name: "NETWORKING", Context: "computer networks", System: "a computer network", Weight: 10,
			Subtopics: []string{
				"Network types: LAN, MAN, WAN",
				"Network topologies: star, bus, ring, mesh",
				"OSI model layers",
				"TCP vs UDP comparison",
				"Internet basics: IP address, DNS, URL",
				"Routers and switches: function",
			},
		},
		{
			Name: CProgramming, Context: "C programming", System: "a C program", Weight: 30,
			Subtopics: []string{
				"Data types and variables",
				"Operators and expressions",
				"Control statements: if, else, switch",
				"Loops: for, while, do-while",
				"Functions and recursion",
				"Arrays and strings",
				"Pointers and memory addresses",
				"Structures and unions",
				"Standard input and output",
			},
		},
		{
			Name: "MS OFFICE", Context: "office productivity software", System: "Microsoft Office", Weight: 8,
			Subtopics: []string{
				"MS Word: formatting, mail merge",
				"MS Excel: formulas, functions, charts",
				"MS PowerPoint: slides, transitions",
				"Keyboard shortcuts",
			},
		},
		{
			Name: "DATABASES", Context: "database management", System: "a DBMS", Weight: 9,
			Subtopics: []string{
				"DBMS basics: tables, records, fields",
				"Primary key vs foreign key",
				"SQL commands: SELECT, INSERT, UPDATE, DELETE",
				"Normalization",
				"Purpose of indexes",
			},
		},
		{
			Name: "SECURITY", Context: "information security", System: "a networked computer", Weight: 8,
			Subtopics: []string{
				"Malware: virus, worm, trojan",
				"Firewall function",
				"Encryption basics",
				"Authentication and passwords",
				"Phishing and social engineering",
			},
		},
	}
}

// Allocate distributes count across sections in proportion to weights.
// Every section receives at least one slot, so the total exceeds count when
// count is smaller than the number of sections.
func Allocate(weights []int, count int) []int {
	alloc := make([]int, len(weights))
	if len(weights) == 0 || count <= 0 {
		return alloc
	}

	w := make([]int, len(weights))
	total := 0
	for i, v := range weights {
		w[i] = max(0, v)
		total += w[i]
	}
	if total == 0 {
		for i := range w {
			w[i] = 1
		}
		total = len(w)
	}
	base := append([]int(nil), w...)

	sum := 0
	for i, v := range w {
		alloc[i] = max(1, int(math.Round(float64(v)/float64(total)*float64(count))))
		sum += alloc[i]
	}

	for sum > count {
		i := argmax(alloc)
		if alloc[i] <= 1 {
			break
		}
		alloc[i]--
		sum--
	}

	// each pass hands one extra slot to the heaviest section not yet picked
	for sum < count {
		i := argmax(w)
		if w[i] == 0 {
			copy(w, base)
			i = argmax(w)
		}
		alloc[i]++
		w[i] = 0
		sum++
	}
	return alloc
}

func argmax(vals []int) int {
	best := 0
	for i, v := range vals {
		if v > vals[best] {
			best = i
		}
	}
	return best
}

// ── Style selection ─────────────────────────────────────

type styleRule struct {
	match func(subtopic string) bool
	style SyllabusStyle
}

func hasWord(words ...string) func(string) bool {
	return func(s string) bool {
		for _, tok := range strings.Fields(strings.ToLower(s)) {
			tok = strings.Trim(tok, ".,:;()")
			for _, w := range words {
				if tok == w {
					return true
				}
			}
		}
		return false
	}
}

func hasSubstring(subs ...string) func(string) bool {
	return func(s string) bool {
		lower := strings.ToLower(s)
		for _, sub := range subs {
			if strings.Contains(lower, sub) {
				return true
			}
		}
		return false
	}
}

// styleRules are checked in order; the first match wins.
var styleRules = []styleRule{
	{match: hasWord("vs"), style: SyllabusComparison},
	{match: hasSubstring("comparison"), style: SyllabusComparison},
	{match: hasSubstring("function", "purpose"), style: SyllabusFunction},
	{match: hasSubstring("definition", "basics"), style: SyllabusDefinition},
}

func styleFor(subtopic string) SyllabusStyle {
	for _, rule := range styleRules {
		if rule.match(subtopic) {
			return rule.style
		}
	}
	return SyllabusGeneral
}

// ── Concept extraction ──────────────────────────────────

var (
	clauseSplitRe = regexp.MustCompile(`[,;:()]+|\s+vs\.?\s+`)
	acronymRe     = regexp.MustCompile(`\b[A-Z]{2,}\b`)
)

var fallbackAcronyms = []string{"CPU", "RAM", "ROM", "BIOS", "ALU", "HTTP", "TCP", "DBMS", "SQL", "LAN", "URL", "GUI"}

var conceptPairs = map[string]string{
	"hardware":        "software",
	"software":        "hardware",
	"ram":             "ROM",
	"rom":             "RAM",
	"compiler":        "interpreter",
	"interpreter":     "compiler",
	"tcp":             "UDP",
	"udp":             "TCP",
	"lan":             "WAN",
	"primary key":     "foreign key",
	"system software": "application software",
	"virus":           "worm",
	"paging":          "segmentation",
	"open source":     "proprietary software",
	"binary":          "hexadecimal",
	"input devices":   "output devices",
	"structures":      "unions",
	"authentication":  "authorization",
	"encryption":      "hashing",
	"firewall":        "antivirus",
	"static memory":   "dynamic memory",
	"cache":           "main memory",
	"ascii":           "Unicode",
	"normalization":   "denormalization",
	"mail merge":      "templates",
	"phishing":        "spoofing",
}

// extractConcepts keeps up to two short clauses from the subtopic.
func extractConcepts(subtopic string) []string {
	var out []string
	for _, part := range clauseSplitRe.Split(subtopic, -1) {
		part = strings.TrimSpace(part)
		n := len(strings.Fields(part))
		if n == 0 || n > 4 {
			continue
		}
		out = append(out, part)
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		words := strings.Fields(subtopic)
		out = append(out, strings.Join(words[:min(4, len(words))], " "))
	}
	return out
}

func pickAcronym(r Rand, subtopic string) string {
	found := acronymRe.FindAllString(subtopic, -1)
	if len(found) > 0 {
		return choice(r, found)
	}
	return choice(r, fallbackAcronyms)
}

func pairedConcept(concepts []string) string {
	if len(concepts) > 1 {
		return concepts[1]
	}
	if other, ok := conceptPairs[strings.ToLower(concepts[0])]; ok {
		return other
	}
	return "a related concept"
}

// ── Question assembly ───────────────────────────────────

func (e *SyllabusEngine) computerQuestions(r Rand, count int) []models.QuestionRecord {
	weights := make([]int, len(e.sections))
	for i, s := range e.sections {
		weights[i] = s.Weight
	}
	alloc := Allocate(weights, count)

	var out []models.QuestionRecord
	for i, section := range e.sections {
		for n := 0; n < alloc[i]; n++ {
			q, err := e.sectionQuestion(r, section)
			if err != nil {
				continue
			}
			out = append(out, q)
		}
	}

	shuffleQuestions(r, out)
	if len(out) > count {
		out = out[:count]
	}
	return out
}

func (e *SyllabusEngine) sectionQuestion(r Rand, section SyllabusSection) (models.QuestionRecord, error) {
	subtopic := choice(r, section.Subtopics)

	var stem string
	var err error
	if section.Name == CProgramming {
		stem, err = e.codingStem(r, subtopic)
	} else {
		stem, err = e.conceptStem(r, section, subtopic)
	}
	if err != nil {
		return models.QuestionRecord{}, err
	}

	options, err := e.patterns.options(r, section.Name, subtopic)
	if err != nil {
		return models.QuestionRecord{}, err
	}

	return models.QuestionRecord{
		Question:    fmt.Sprintf("[%s] %s", section.Name, stem),
		Options:     options,
		Answer:      labelAt(r.Intn(len(options))),
		Explanation: fmt.Sprintf("This question covers %s in %s.", strings.ToLower(subtopic), section.Context),
		Category:    models.SectionComputerAwareness,
		Topic:       section.Name,
		Subtopic:    subtopic,
	}, nil
}

func (e *SyllabusEngine) conceptStem(r Rand, section SyllabusSection, subtopic string) (string, error) {
	templates := e.bank.Syllabus[styleFor(subtopic)]
	if len(templates) == 0 {
		templates = e.bank.Syllabus[SyllabusGeneral]
	}
	if len(templates) == 0 {
		return "", fmt.Errorf("no templates for subtopic %q", subtopic)
	}

	concepts := extractConcepts(subtopic)
	slots := Slots{
		Concept:  concepts[0],
		Concept1: concepts[0],
		Concept2: pairedConcept(concepts),
		Acronym:  pickAcronym(r, subtopic),
		Context:  section.Context,
		System:   section.System,
	}
	return slots.Format(choice(r, templates))
}

func shuffleQuestions(r Rand, qs []models.QuestionRecord) {
	r.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
}
