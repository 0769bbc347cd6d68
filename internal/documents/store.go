package documents

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/pdfquiz/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const documentCols = `id, user_id, filename, title, blob_key, size_bytes, ocr_mode, question_count,
	status, step, progress, status_message, used_ocr, text_chars, text, uploaded_at, processed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var d models.Document
	err := row.Scan(&d.ID, &d.UserID, &d.Filename, &d.Title, &d.BlobKey, &d.SizeBytes, &d.OCRMode,
		&d.QuestionCount, &d.Status, &d.Step, &d.Progress, &d.StatusMessage, &d.UsedOCR,
		&d.TextChars, &d.Text, &d.UploadedAt, &d.ProcessedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ── Documents ───────────────────────────────────────────

func (s *Store) CreateDocument(d *models.Document) error {
	err := s.db.QueryRow(
		`INSERT INTO documents (user_id, filename, title, blob_key, size_bytes, ocr_mode, question_count, status, status_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, uploaded_at`,
		d.UserID, d.Filename, d.Title, d.BlobKey, d.SizeBytes, d.OCRMode, d.QuestionCount,
		models.DocumentQueued, "Queued",
	).Scan(&d.ID, &d.UploadedAt)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	d.Status = models.DocumentQueued
	d.StatusMessage = "Queued"
	return nil
}

func (s *Store) GetDocument(id int64) (*models.Document, error) {
	d, err := scanDocument(s.db.QueryRow(
		`SELECT `+documentCols+` FROM documents WHERE id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	ids, err := s.LatestTestIDs([]int64{id})
	if err != nil {
		return nil, err
	}
	if tid, ok := ids[id]; ok {
		d.TestID = &tid
	}
	return d, nil
}

// ListDocuments returns the user's documents, newest first, and the total.
func (s *Store) ListDocuments(userID int64, limit, offset int) ([]models.Document, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM documents WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT `+documentCols+` FROM documents
		 WHERE user_id = $1
		 ORDER BY uploaded_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	var ids []int64
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan document: %w", err)
		}
		d.Text = ""
		docs = append(docs, *d)
		ids = append(ids, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	testIDs, err := s.LatestTestIDs(ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range docs {
		if tid, ok := testIDs[docs[i].ID]; ok {
			docs[i].TestID = &tid
		}
	}
	return docs, total, nil
}

// LatestTestIDs maps each document id to its most recent test.
func (s *Store) LatestTestIDs(documentIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(documentIDs))
	if len(documentIDs) == 0 {
		return out, nil
	}
	rows, err := s.db.Query(
		`SELECT DISTINCT ON (document_id) document_id, id
		 FROM tests
		 WHERE document_id = ANY($1)
		 ORDER BY document_id, created_at DESC, id DESC`,
		pq.Array(documentIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("latest tests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var docID, testID int64
		if err := rows.Scan(&docID, &testID); err != nil {
			return nil, err
		}
		out[docID] = testID
	}
	return out, rows.Err()
}

// DeleteDocument removes the row; tests and results cascade.
func (s *Store) DeleteDocument(id int64) error {
	res, err := s.db.Exec(`DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Processing Queue ────────────────────────────────────

// ClaimQueued moves up to limit queued documents to processing. Concurrent
// workers never claim the same row.
func (s *Store) ClaimQueued(limit int) ([]models.Document, error) {
	rows, err := s.db.Query(
		`UPDATE documents SET status = $1, step = $2, progress = 0,
		        status_message = 'Starting', claimed_at = NOW()
		 WHERE id IN (
		     SELECT id FROM documents
		     WHERE status = $3
		     ORDER BY uploaded_at ASC
		     LIMIT $4
		     FOR UPDATE SKIP LOCKED
		 )
		 RETURNING `+documentCols,
		models.DocumentProcessing, StepExtracting, models.DocumentQueued, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("claim documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claimed document: %w", err)
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// RequeueStale returns documents stuck in processing for longer than
// olderThan to the queue, e.g. after a crash mid-run.
func (s *Store) RequeueStale(olderThan time.Duration) (int64, error) {
	res, err := s.db.Exec(
		`UPDATE documents SET status = $1, step = 0, progress = 0, status_message = 'Queued', claimed_at = NULL
		 WHERE status = $2 AND claimed_at < NOW() - make_interval(secs => $3)`,
		models.DocumentQueued, models.DocumentProcessing, olderThan.Seconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("requeue stale documents: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) UpdateProgress(id int64, step, progress int, message string) error {
	_, err := s.db.Exec(
		`UPDATE documents SET step = $2, progress = $3, status_message = $4 WHERE id = $1`,
		id, step, progress, message,
	)
	return err
}

// SaveText stores the extraction result before questions are generated.
func (s *Store) SaveText(id int64, title, text string, usedOCR bool) error {
	_, err := s.db.Exec(
		`UPDATE documents SET title = $2, text = $3, text_chars = $4, used_ocr = $5 WHERE id = $1`,
		id, title, text, len(text), usedOCR,
	)
	if err != nil {
		return fmt.Errorf("save text: %w", err)
	}
	return nil
}

func (s *Store) MarkReady(id int64) error {
	_, err := s.db.Exec(
		`UPDATE documents SET status = $2, step = $3, progress = 100,
		        status_message = 'Complete', processed_at = NOW()
		 WHERE id = $1`,
		id, models.DocumentReady, StepComplete,
	)
	return err
}

func (s *Store) FailDocument(id int64, message string) error {
	_, err := s.db.Exec(
		`UPDATE documents SET status = $2, status_message = $3, processed_at = NOW() WHERE id = $1`,
		id, models.DocumentFailed, message,
	)
	return err
}
