package generator

import (
	"fmt"
	"strings"

	"github.com/pdfquiz/backend/internal/models"
)

// optionPattern renders option text by filling Pattern with each variation.
type optionPattern struct {
	Prefix     string
	Pattern    string
	Variations [][]string
}

// PatternRegistry maps section name to option patterns keyed by subtopic prefix.
type PatternRegistry struct {
	bySection map[string][]optionPattern
	defaults  []optionPattern
}

func (p *PatternRegistry) lookup(section, subtopic string) (optionPattern, bool) {
	lower := strings.ToLower(subtopic)
	for _, entry := range p.bySection[section] {
		if strings.HasPrefix(lower, strings.ToLower(entry.Prefix)) {
			return entry, true
		}
	}
	return optionPattern{}, false
}

// options builds four labelled options for a subtopic.
func (p *PatternRegistry) options(r Rand, section, subtopic string) (map[string]string, error) {
	entry, ok := p.lookup(section, subtopic)
	if !ok {
		if len(p.defaults) == 0 {
			return nil, fmt.Errorf("no option pattern for %s / %s", section, subtopic)
		}
		entry = p.defaults[r.Intn(len(p.defaults))]
	}

	variations := make([][]string, len(entry.Variations))
	copy(variations, entry.Variations)
	r.Shuffle(len(variations), func(i, j int) { variations[i], variations[j] = variations[j], variations[i] })

	seen := make(map[string]bool)
	texts := make([]string, 0, len(models.OptionLabels))
	for _, v := range variations {
		if len(texts) == len(models.OptionLabels) {
			break
		}
		t, err := formatPattern(entry.Pattern, v)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		texts = append(texts, t)
	}
	texts = padOptions(texts, seen)

	out := make(map[string]string, len(texts))
	for i, t := range texts {
		out[labelAt(i)] = t
	}
	return out, nil
}

func padOptions(texts []string, seen map[string]bool) []string {
	candidates := []string{"None of the above", "All of the above"}
	if len(texts) >= 2 {
		candidates = append(candidates, fmt.Sprintf("Both %s and %s", lowerFirst(texts[0]), lowerFirst(texts[1])))
	}
	if len(texts) >= 1 {
		candidates = append(candidates, fmt.Sprintf("Neither %s nor any of the others", lowerFirst(texts[0])))
	}
	for _, c := range candidates {
		if len(texts) == len(models.OptionLabels) {
			return texts
		}
		if !seen[c] {
			seen[c] = true
			texts = append(texts, c)
		}
	}
	for i := 1; len(texts) < len(models.OptionLabels); i++ {
		texts = append(texts, fmt.Sprintf("Option %d", i))
	}
	return texts
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	// keep acronyms such as "RAM" intact
	if len(s) > 1 && strings.ToUpper(s[:2]) == s[:2] {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// DefaultPatternRegistry returns the built-in option patterns.
func DefaultPatternRegistry() *PatternRegistry {
	return &PatternRegistry{
		bySection: map[string][]optionPattern{
			"COMPUTER FUNDAMENTALS": {
				{Prefix: "Hardware", Pattern: "{0} is an example of {1}", Variations: [][]string{
					{"A printer", "hardware"}, {"An operating system", "system software"}, {"A spreadsheet", "application software"},
					{"A compiler", "a language translator"}, {"A motherboard", "hardware"}, {"Firmware", "software stored in ROM"},
				}},
				{Prefix: "Input devices", Pattern: "{0}", Variations: [][]string{
					{"Keyboard"}, {"Scanner"}, {"Light pen"}, {"Plotter"}, {"Microphone"}, {"Joystick"},
				}},
				{Prefix: "Output devices", Pattern: "{0}", Variations: [][]string{
					{"Monitor"}, {"Printer"}, {"Speaker"}, {"Projector"}, {"Plotter"}, {"Barcode reader"},
				}},
				{Prefix: "Generations", Pattern: "{0} generation used {1}", Variations: [][]string{
					{"First", "vacuum tubes"}, {"Second", "transistors"}, {"Third", "integrated circuits"},
					{"Fourth", "microprocessors"}, {"Fifth", "artificial intelligence"},
				}},
				{Prefix: "Memory basics", Pattern: "{0} is {1}", Variations: [][]string{
					{"RAM", "volatile memory"}, {"ROM", "non-volatile memory"}, {"Cache", "faster than main memory"},
					{"A hard disk", "secondary storage"}, {"A register", "inside the CPU"},
				}},
			},
			"DATA REPRESENTATION": {
				{Prefix: "Number systems", Pattern: "The {0} system has base {1}", Variations: [][]string{
					{"binary", "2"}, {"octal", "8"}, {"decimal", "10"}, {"hexadecimal", "16"},
				}},
				{Prefix: "Character encoding", Pattern: "{0} uses {1}", Variations: [][]string{
					{"ASCII", "7 bits per character"}, {"Extended ASCII", "8 bits per character"},
					{"UTF-16", "16-bit code units"}, {"UTF-8", "one to four bytes per character"}, {"EBCDIC", "8 bits per character"},
				}},
				{Prefix: "Units of storage", Pattern: "1 {0} = {1}", Variations: [][]string{
					{"byte", "8 bits"}, {"nibble", "4 bits"}, {"kilobyte", "1024 bytes"}, {"megabyte", "1024 kilobytes"}, {"gigabyte", "1024 megabytes"},
				}},
				{Prefix: "Signed numbers", Pattern: "{0}", Variations: [][]string{
					{"Invert all bits and add one"}, {"Invert all bits only"}, {"Set the most significant bit"}, {"Shift all bits left by one"},
				}},
			},
			"OPERATING SYSTEMS": {
				{Prefix: "Functions of", Pattern: "{0} management", Variations: [][]string{
					{"Process"}, {"Memory"}, {"File"}, {"Device"}, {"Spreadsheet"},
				}},
				{Prefix: "Process management", Pattern: "{0} scheduling", Variations: [][]string{
					{"First-come first-served"}, {"Round robin"}, {"Shortest job first"}, {"Priority"}, {"Multilevel queue"},
				}},
				{Prefix: "Memory management", Pattern: "{0} divides memory into {1}", Variations: [][]string{
					{"Paging", "fixed-size frames"}, {"Segmentation", "variable-size segments"},
					{"Virtual memory", "pages backed by disk"}, {"Swapping", "whole processes on disk"},
				}},
				{Prefix: "Types of OS", Pattern: "{0} operating system", Variations: [][]string{
					{"Batch"}, {"Time-sharing"}, {"Real-time"}, {"Distributed"}, {"Network"},
				}},
				{Prefix: "Booting", Pattern: "{0} runs {1}", Variations: [][]string{
					{"BIOS", "the power-on self test"}, {"The bootloader", "before the kernel"}, {"The kernel", "after the bootloader"}, {"UEFI", "firmware initialization"},
				}},
			},
			"COMPUTER ORGANIZATION": {
				{Prefix: "CPU components", Pattern: "{0} performs {1}", Variations: [][]string{
					{"The ALU", "arithmetic and logic operations"}, {"The control unit", "instruction sequencing"},
					{"Registers", "fast temporary storage"}, {"The program counter", "next-instruction tracking"},
				}},
				{Prefix: "Instruction cycle", Pattern: "{0}", Variations: [][]string{
					{"Fetch, decode, execute"}, {"Decode, fetch, execute"}, {"Execute, fetch, decode"}, {"Fetch, execute, store"},
				}},
				{Prefix: "Buses", Pattern: "The {0} carries {1}", Variations: [][]string{
					{"address bus", "memory locations"}, {"data bus", "the data being transferred"},
					{"control bus", "read and write signals"}, {"system bus", "all three kinds of signal"},
				}},
			},
			"SOFTWARE CONCEPTS": {
				{Prefix: "Compiler", Pattern: "A {0} translates {1}", Variations: [][]string{
					{"compiler", "the whole program at once"}, {"interpreter", "one statement at a time"},
					{"assembler", "assembly language to machine code"}, {"linker", "object files into an executable"},
				}},
				{Prefix: "Software development", Pattern: "{0}", Variations: [][]string{
					{"Requirements analysis"}, {"Design"}, {"Implementation"}, {"Testing"}, {"Maintenance"},
				}},
			},
			"NETWORKING": {
				{Prefix: "Network types", Pattern: "{0} covers {1}", Variations: [][]string{
					{"A LAN", "a building or campus"}, {"A MAN", "a city"}, {"A WAN", "countries and continents"}, {"A PAN", "a few metres"},
				}},
				{Prefix: "Network topologies", Pattern: "{0} topology", Variations: [][]string{
					{"Star"}, {"Bus"}, {"Ring"}, {"Mesh"}, {"Tree"},
				}},
				{Prefix: "OSI", Pattern: "The {0} layer is layer {1}", Variations: [][]string{
					{"physical", "1"}, {"data link", "2"}, {"network", "3"}, {"transport", "4"}, {"application", "7"},
				}},
				{Prefix: "TCP", Pattern: "{0} is {1}", Variations: [][]string{
					{"TCP", "connection-oriented"}, {"UDP", "connectionless"}, {"TCP", "reliable and ordered"}, {"UDP", "best-effort"},
				}},
				{Prefix: "Internet basics", Pattern: "{0} stands for {1}", Variations: [][]string{
					{"DNS", "Domain Name System"}, {"URL", "Uniform Resource Locator"}, {"IP", "Internet Protocol"}, {"HTTP", "HyperText Transfer Protocol"},
				}},
			},
			CProgramming: {
				{Prefix: "Data types", Pattern: "{0}", Variations: [][]string{
					{"3.0"}, {"3.5"}, {"C"}, {"1"}, {"Compilation error"},
				}},
				{Prefix: "Operators", Pattern: "{0}", Variations: [][]string{
					{"12"}, {"3 1"}, {"2"}, {"Undefined behaviour"}, {"13"},
				}},
				{Prefix: "Control statements", Pattern: "{0}", Variations: [][]string{
					{"twothree"}, {"two"}, {"yes"}, {"no"}, {"onetwothree"},
				}},
				{Prefix: "Loops", Pattern: "{0}", Variations: [][]string{
					{"5"}, {"01234"}, {"10 6 2"}, {"10"}, {"Infinite loop"},
				}},
				{Prefix: "Functions", Pattern: "{0}", Variations: [][]string{
					{"24"}, {"1 2"}, {"2 1"}, {"4"}, {"Stack overflow"},
				}},
				{Prefix: "Arrays", Pattern: "{0}", Variations: [][]string{
					{"0"}, {"6"}, {"5"}, {"3"}, {"Garbage value"},
				}},
				{Prefix: "Pointers", Pattern: "{0}", Variations: [][]string{
					{"20"}, {"10"}, {"12"}, {"Address of x"}, {"Segmentation fault"},
				}},
				{Prefix: "Structures", Pattern: "{0}", Variations: [][]string{
					{"7"}, {"4"}, {"sizeof(int)"}, {"Compilation error"},
				}},
				{Prefix: "Standard input", Pattern: "<{0}>", Variations: [][]string{
					{"stdio.h"}, {"stdlib.h"}, {"string.h"}, {"math.h"}, {"conio.h"},
				}},
			},
			"MS OFFICE": {
				{Prefix: "MS Word", Pattern: "{0}", Variations: [][]string{
					{"Mail merge"}, {"Track changes"}, {"Page layout"}, {"Pivot table"},
				}},
				{Prefix: "MS Excel", Pattern: "={0}", Variations: [][]string{
					{"SUM(A1:A10)"}, {"AVERAGE(A1:A10)"}, {"VLOOKUP(B2, D:E, 2, FALSE)"}, {"COUNTIF(A:A, \">5\")"}, {"IF(A1>0, 1, 0)"},
				}},
				{Prefix: "Keyboard shortcuts", Pattern: "{0} for {1}", Variations: [][]string{
					{"Ctrl+C", "copy"}, {"Ctrl+V", "paste"}, {"Ctrl+Z", "undo"}, {"Ctrl+S", "save"}, {"Ctrl+P", "print"},
				}},
			},
			"DATABASES": {
				{Prefix: "Primary key", Pattern: "{0} {1}", Variations: [][]string{
					{"A primary key", "uniquely identifies each row"}, {"A foreign key", "references another table"},
					{"A candidate key", "could serve as the primary key"}, {"A composite key", "spans several columns"},
				}},
				{Prefix: "SQL commands", Pattern: "{0} is a {1} command", Variations: [][]string{
					{"SELECT", "DML"}, {"CREATE", "DDL"}, {"GRANT", "DCL"}, {"COMMIT", "TCL"}, {"DELETE", "DML"},
				}},
				{Prefix: "Normalization", Pattern: "{0} removes {1}", Variations: [][]string{
					{"1NF", "repeating groups"}, {"2NF", "partial dependencies"}, {"3NF", "transitive dependencies"}, {"BCNF", "remaining anomalies from non-key determinants"},
				}},
			},
			"SECURITY": {
				{Prefix: "Malware", Pattern: "A {0} {1}", Variations: [][]string{
					{"virus", "attaches itself to host files"}, {"worm", "spreads over networks on its own"},
					{"trojan", "disguises itself as useful software"}, {"ransomware program", "encrypts files for ransom"}, {"keylogger", "records keystrokes"},
				}},
				{Prefix: "Encryption", Pattern: "{0} uses {1}", Variations: [][]string{
					{"Symmetric encryption", "one shared key"}, {"Asymmetric encryption", "a public and a private key"},
					{"Hashing", "a one-way function"}, {"A digital signature", "the sender's private key"},
				}},
			},
		},
		defaults: []optionPattern{
			{Pattern: "It {0}", Variations: [][]string{
				{"improves overall system performance"}, {"manages hardware resources"}, {"stores data permanently"},
				{"enables communication between devices"}, {"protects data from unauthorized access"},
			}},
			{Pattern: "{0} of a computer system", Variations: [][]string{
				{"A core component"}, {"An optional feature"}, {"A security mechanism"}, {"A storage unit"}, {"A processing element"},
			}},
		},
	}
}
