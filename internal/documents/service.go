package documents

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfquiz/backend/internal/models"
)

const (
	MaxQuestionsPerTest = 500
	claimBatchSize      = 2
	staleAfter          = 30 * time.Minute
	pdfMagic            = "%PDF-"
)

// Repository is the persistence the service needs; *Store implements it.
type Repository interface {
	CreateDocument(d *models.Document) error
	GetDocument(id int64) (*models.Document, error)
	ListDocuments(userID int64, limit, offset int) ([]models.Document, int, error)
	DeleteDocument(id int64) error
	ClaimQueued(limit int) ([]models.Document, error)
	RequeueStale(olderThan time.Duration) (int64, error)
	UpdateProgress(id int64, step, progress int, message string) error
	SaveText(id int64, title, text string, usedOCR bool) error
	MarkReady(id int64) error
	FailDocument(id int64, message string) error
}

// QuestionSource produces exactly count questions for a text.
type QuestionSource interface {
	DocumentQuestions(ctx context.Context, text string, count int) ([]models.QuestionRecord, string)
}

// TestCreator persists a generated test and fills in its id.
type TestCreator interface {
	CreateTest(t *models.Test) error
}

// ProgressRecorder is told when a user's document finishes processing.
type ProgressRecorder interface {
	RecordDocumentProcessed(userID, documentID int64) (*models.ProgressUpdate, error)
}

type Service struct {
	store        Repository
	blobs        BlobStore
	extractor    Extractor
	questions    QuestionSource
	tests        TestCreator
	progress     ProgressRecorder
	defaultCount int
}

func NewService(store Repository, blobs BlobStore, extractor Extractor, questions QuestionSource, tests TestCreator, defaultCount int) *Service {
	if defaultCount <= 0 {
		defaultCount = 120
	}
	return &Service{
		store:        store,
		blobs:        blobs,
		extractor:    extractor,
		questions:    questions,
		tests:        tests,
		defaultCount: defaultCount,
	}
}

// SetProgressRecorder injects the gamification hook for processed documents.
func (s *Service) SetProgressRecorder(p ProgressRecorder) {
	s.progress = p
}

func (s *Service) clampCount(n int) int {
	if n <= 0 {
		return s.defaultCount
	}
	return min(n, MaxQuestionsPerTest)
}

// ── Upload ──────────────────────────────────────────────

type UploadInput struct {
	UserID        int64
	Filename      string
	Title         string
	QuestionCount int
	OCRMode       models.OCRMode
	Size          int64
	Body          io.Reader
}

// Upload stores the PDF and queues it for processing.
func (s *Service) Upload(in UploadInput) (*models.Document, error) {
	if !strings.EqualFold(filepath.Ext(in.Filename), ".pdf") {
		return nil, ErrInvalidFile
	}
	br := bufio.NewReader(in.Body)
	head, err := br.Peek(len(pdfMagic))
	if err != nil || string(head) != pdfMagic {
		return nil, ErrInvalidFile
	}

	mode := in.OCRMode
	if mode == "" {
		mode = models.OCRAuto
	}
	if !models.ValidOCRModes[mode] {
		return nil, fmt.Errorf("invalid ocr mode %q", mode)
	}

	key, err := s.blobs.Put(NewBlobKey(), br)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	doc := &models.Document{
		UserID:        in.UserID,
		Filename:      filepath.Base(in.Filename),
		Title:         strings.TrimSpace(in.Title),
		BlobKey:       key,
		SizeBytes:     in.Size,
		OCRMode:       mode,
		QuestionCount: s.clampCount(in.QuestionCount),
	}
	if err := s.store.CreateDocument(doc); err != nil {
		if derr := s.blobs.Delete(key); derr != nil {
			log.Printf("[documents] failed to remove orphaned blob %s: %v", key, derr)
		}
		return nil, err
	}

	log.Printf("[documents] queued document %d (%s) for user %d", doc.ID, doc.Filename, doc.UserID)
	return doc, nil
}

// ── Processing Worker ───────────────────────────────────

func (s *Service) StartProcessingWorker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if n, err := s.store.RequeueStale(staleAfter); err != nil {
		log.Printf("[doc-worker] requeue failed: %v", err)
	} else if n > 0 {
		log.Printf("[doc-worker] requeued %d stale documents", n)
	}

	log.Println("[doc-worker] Background processing worker started")

	for {
		select {
		case <-ctx.Done():
			log.Println("[doc-worker] Shutting down")
			return
		case <-ticker.C:
			s.processQueue(ctx)
		}
	}
}

func (s *Service) processQueue(ctx context.Context) {
	docs, err := s.store.ClaimQueued(claimBatchSize)
	if err != nil {
		log.Printf("[doc-queue] error claiming documents: %v", err)
		return
	}

	for i := range docs {
		if ctx.Err() != nil {
			return
		}
		s.process(ctx, &docs[i])
	}
}

func (s *Service) process(ctx context.Context, doc *models.Document) {
	start := time.Now()
	report := func(step, progress int, message string) {
		if err := s.store.UpdateProgress(doc.ID, step, progress, message); err != nil {
			log.Printf("[doc-queue] progress update failed for document %d: %v", doc.ID, err)
		}
	}

	testID, err := s.run(ctx, doc, report)
	if err != nil {
		log.Printf("[doc-queue] document %d failed: %v", doc.ID, err)
		if ferr := s.store.FailDocument(doc.ID, "Error: "+err.Error()); ferr != nil {
			log.Printf("[doc-queue] failed to mark document %d failed: %v", doc.ID, ferr)
		}
		return
	}

	log.Printf("[doc-queue] document %d ready: test=%d in %s", doc.ID, testID, time.Since(start).Round(time.Millisecond))

	if s.progress != nil {
		if _, err := s.progress.RecordDocumentProcessed(doc.UserID, doc.ID); err != nil {
			log.Printf("[doc-queue] failed to award document XP to user %d: %v", doc.UserID, err)
		}
	}
}

func (s *Service) run(ctx context.Context, doc *models.Document, report ProgressFunc) (int64, error) {
	path, cleanup, err := s.localCopy(doc.BlobKey)
	if err != nil {
		return 0, err
	}
	defer cleanup()

	ext, err := s.extractor.Extract(ctx, path, doc.OCRMode, report)
	if err != nil {
		return 0, err
	}

	title := ResolveTitle(doc.Title, ext.Title, doc.Filename)
	if err := s.store.SaveText(doc.ID, title, ext.Text, ext.UsedOCR); err != nil {
		return 0, err
	}

	report(StepGenerating, 70, "Generating questions")
	test, err := s.buildTest(ctx, doc.UserID, doc.ID, title, ext.Text, doc.QuestionCount, report)
	if err != nil {
		return 0, err
	}

	if err := s.store.MarkReady(doc.ID); err != nil {
		return 0, fmt.Errorf("mark ready: %w", err)
	}
	return test.ID, nil
}

func (s *Service) buildTest(ctx context.Context, userID, documentID int64, title, text string, count int, report ProgressFunc) (*models.Test, error) {
	qs, source := s.questions.DocumentQuestions(ctx, text, count)
	if report != nil {
		report(StepGenerating, 85, fmt.Sprintf("Generated %d questions", len(qs)))
	}

	test := &models.Test{
		DocumentID: documentID,
		UserID:     userID,
		Title:      title,
		Source:     source,
		Questions:  qs,
	}
	if err := s.tests.CreateTest(test); err != nil {
		return nil, fmt.Errorf("save test: %w", err)
	}
	return test, nil
}

// localCopy materialises a blob as a temp file for the external tools.
func (s *Service) localCopy(key string) (string, func(), error) {
	rc, err := s.blobs.Get(key)
	if err != nil {
		return "", func() {}, fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()

	f, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return "", func() {}, err
	}
	cleanup := func() { os.Remove(f.Name()) }
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("copy upload: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, err
	}
	return f.Name(), cleanup, nil
}

// ── Queries ─────────────────────────────────────────────

func (s *Service) owned(userID, id int64) (*models.Document, error) {
	doc, err := s.store.GetDocument(id)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, ErrForbidden
	}
	return doc, nil
}

func (s *Service) Get(userID, id int64) (*models.Document, error) {
	return s.owned(userID, id)
}

func (s *Service) Status(userID, id int64) (*models.ProcessingStatus, error) {
	doc, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}
	status := &models.ProcessingStatus{
		DocumentID: doc.ID,
		Step:       doc.Step,
		Progress:   doc.Progress,
		Status:     doc.StatusMessage,
		Complete:   doc.Complete(),
	}
	if doc.Status == models.DocumentReady {
		status.TestID = doc.TestID
	}
	return status, nil
}

func (s *Service) List(userID int64, limit, offset int) (*models.DocumentListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	docs, total, err := s.store.ListDocuments(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return &models.DocumentListResponse{Documents: docs, Total: total, Limit: limit, Offset: offset}, nil
}

// Open returns the stored PDF. The caller closes the reader.
func (s *Service) Open(userID, id int64) (io.ReadCloser, *models.Document, error) {
	doc, err := s.owned(userID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Get(doc.BlobKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open upload: %w", err)
	}
	return rc, doc, nil
}

// Delete removes the document, its tests and results, and the stored file.
func (s *Service) Delete(userID, id int64) error {
	doc, err := s.owned(userID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteDocument(id); err != nil {
		return err
	}
	if err := s.blobs.Delete(doc.BlobKey); err != nil {
		log.Printf("[documents] failed to remove blob %s: %v", doc.BlobKey, err)
	}
	return nil
}

// Regenerate builds a new test from the document's stored text.
func (s *Service) Regenerate(ctx context.Context, userID, id int64, count int) (*models.Test, error) {
	doc, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.DocumentReady || strings.TrimSpace(doc.Text) == "" {
		return nil, ErrInvalidState
	}
	if count <= 0 {
		count = doc.QuestionCount
	}
	return s.buildTest(ctx, userID, doc.ID, doc.Title, doc.Text, s.clampCount(count), nil)
}
