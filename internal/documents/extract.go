package documents

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pdfquiz/backend/internal/models"
)

const (
	// minDirectTextChars is the amount of embedded text below which a PDF is
	// treated as scanned.
	minDirectTextChars = 100
	maxTitleChars      = 100
	ocrDPI             = 300
)

// Processing steps reported while a document is worked on.
const (
	StepExtracting = 1
	StepAnalyzing  = 2
	StepGenerating = 3
	StepComplete   = 4
)

var ErrNoText = errors.New("no text could be extracted from the PDF")

// ProgressFunc receives step/progress updates during extraction.
type ProgressFunc func(step, progress int, message string)

// Extraction is the cleaned text of a PDF plus what was learned on the way.
type Extraction struct {
	Text    string
	Title   string
	UsedOCR bool
	Pages   int
}

type Extractor interface {
	Extract(ctx context.Context, path string, mode models.OCRMode, progress ProgressFunc) (*Extraction, error)
}

// CommandRunner runs an external program and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%s not found in PATH", name)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%s: %s", name, msg)
	}
	return out.Bytes(), nil
}

// PopplerExtractor reads embedded text with pdftotext and falls back to
// pdftoppm + tesseract for scanned pages.
type PopplerExtractor struct {
	Lang       string
	OCRTimeout time.Duration
	run        CommandRunner
}

func NewPopplerExtractor(lang string) *PopplerExtractor {
	if lang == "" {
		lang = "eng"
	}
	return &PopplerExtractor{Lang: lang, OCRTimeout: 5 * time.Minute, run: execRunner}
}

// WithRunner replaces the command runner. Used by tests.
func (p *PopplerExtractor) WithRunner(run CommandRunner) *PopplerExtractor {
	p.run = run
	return p
}

func (p *PopplerExtractor) Extract(ctx context.Context, path string, mode models.OCRMode, progress ProgressFunc) (*Extraction, error) {
	if progress == nil {
		progress = func(int, int, string) {}
	}

	progress(StepExtracting, 10, "Extracting text from PDF")
	info := p.pdfInfo(ctx, path)

	var text string
	out, err := p.run(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	if err != nil {
		log.Printf("[documents] pdftotext failed for %s: %v", path, err)
	} else {
		text = string(out)
	}
	progress(StepExtracting, 30, "Text extracted")

	progress(StepAnalyzing, 35, "Analyzing text quality")
	ext := &Extraction{Pages: info.pages}
	sufficient := len(strings.TrimSpace(text)) >= minDirectTextChars

	switch {
	case mode == models.OCROff:
		progress(StepAnalyzing, 65, "OCR disabled. Proceeding with analysis.")
	case sufficient && mode != models.OCRForce:
		progress(StepAnalyzing, 65, "Text extraction successful. Proceeding with analysis.")
	default:
		progress(StepAnalyzing, 35, "Running OCR on scanned pages")
		ocrText, err := p.ocr(ctx, path, progress)
		if err != nil {
			log.Printf("[documents] OCR failed for %s: %v", path, err)
		} else if strings.TrimSpace(ocrText) != "" {
			text = ocrText
			ext.UsedOCR = true
		}
		progress(StepAnalyzing, 65, "OCR complete")
	}

	ext.Title = info.title
	if ext.Title == "" {
		ext.Title = titleFromText(text)
	}
	ext.Text = CleanText(text)
	if ext.Text == "" {
		return nil, ErrNoText
	}
	return ext, nil
}

type pdfInfo struct {
	title string
	pages int
}

func (p *PopplerExtractor) pdfInfo(ctx context.Context, path string) pdfInfo {
	out, err := p.run(ctx, "pdfinfo", path)
	if err != nil {
		return pdfInfo{}
	}
	return parsePDFInfo(string(out))
}

func parsePDFInfo(out string) pdfInfo {
	var info pdfInfo
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "Title":
			info.title = val
		case "Pages":
			fmt.Sscanf(val, "%d", &info.pages)
		}
	}
	return info
}

// ocr rasterises every page and runs tesseract on each image in page order.
func (p *PopplerExtractor) ocr(ctx context.Context, path string, progress ProgressFunc) (string, error) {
	if p.OCRTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.OCRTimeout)
		defer cancel()
	}

	dir, err := os.MkdirTemp("", "ocr-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	if _, err := p.run(ctx, "pdftoppm", "-r", fmt.Sprint(ocrDPI), "-png", path, filepath.Join(dir, "page")); err != nil {
		return "", err
	}
	pages, err := filepath.Glob(filepath.Join(dir, "page*.png"))
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", errors.New("pdftoppm produced no images")
	}
	sort.Strings(pages)

	var sb strings.Builder
	for i, page := range pages {
		out, err := p.run(ctx, "tesseract", page, "stdout", "-l", p.Lang)
		if err != nil {
			return "", err
		}
		sb.Write(out)
		sb.WriteString("\n\n")
		progress(StepAnalyzing, 35+30*(i+1)/len(pages), fmt.Sprintf("OCR processed %d/%d pages", i+1, len(pages)))
	}
	return sb.String(), nil
}

// titleFromText uses the first line as the title when it is short enough.
func titleFromText(text string) string {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		if len(line) < maxTitleChars {
			return line
		}
		return ""
	}
	return ""
}

// ResolveTitle picks the first usable title, ending with the filename.
func ResolveTitle(requested, extracted, filename string) string {
	if t := strings.TrimSpace(requested); t != "" {
		return t
	}
	if t := strings.TrimSpace(extracted); t != "" {
		return t
	}
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ── Cleaning ────────────────────────────────────────────

var (
	controlCharsRe = regexp.MustCompile(`[\x00-\x08\x0B\x0E-\x1F\x7F]`)
	blankRunRe     = regexp.MustCompile(`[ \t\x0C]+`)
	pageNumberRe   = regexp.MustCompile(`(?i)^(page\s+\d+(\s+of\s+\d+)?|\d+\s+of\s+\d+|-?\s*\d+\s*-?)$`)
)

// CleanText removes control characters and page-number lines, collapses
// blanks inside lines and keeps blank-line paragraph breaks.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\f", "\n\n")
	text = controlCharsRe.ReplaceAllString(text, "")

	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = current[:0]
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(blankRunRe.ReplaceAllString(line, " "))
		if line == "" {
			flush()
			continue
		}
		if pageNumberRe.MatchString(line) {
			continue
		}
		current = append(current, line)
	}
	flush()
	return strings.Join(paragraphs, "\n\n")
}
