// Package store is the upload registry: it maps opaque upload
// identifiers to the stored PDF blob and the derived PPTX artifact.
// Metadata lives in SQLite; the blobs themselves are files under the
// store's blob directory.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when an upload ID does not exist.
var ErrNotFound = errors.New("store: upload not found")

// Upload represents a row in the uploads table.
type Upload struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	PDFPath    string `json:"pdf_path"`
	PPTXPath   string `json:"pptx_path,omitempty"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	SlideCount int    `json:"slide_count"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// Store wraps the SQLite registry and the blob directory.
type Store struct {
	db      *sql.DB
	blobDir string
}

// New opens (or creates) the registry under dataDir: a SQLite database
// plus a blobs/ subdirectory for the PDF and PPTX files.
func New(dataDir string) (*Store, error) {
	blobDir := filepath.Join(dataDir, "blobs")
	if err := os.MkdirAll(blobDir, 0755); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "uploads.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db, blobDir: blobDir}

	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// BlobDir returns the directory holding stored PDF and PPTX files.
func (s *Store) BlobDir() string {
	return s.blobDir
}

// CreateUpload saves the PDF bytes from r under the given ID and records
// the upload. The blob exists on disk before the row is visible, so a
// registered upload can always be extracted.
func (s *Store) CreateUpload(ctx context.Context, id, filename string, r io.Reader) (Upload, error) {
	pdfPath := filepath.Join(s.blobDir, id+".pdf")

	dst, err := os.Create(pdfPath)
	if err != nil {
		return Upload{}, fmt.Errorf("creating pdf blob: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(pdfPath)
		return Upload{}, fmt.Errorf("saving pdf blob: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(pdfPath)
		return Upload{}, fmt.Errorf("closing pdf blob: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO uploads (id, filename, pdf_path, status)
		VALUES (?, ?, ?, ?)
	`, id, filename, pdfPath, StatusUploaded); err != nil {
		os.Remove(pdfPath)
		return Upload{}, fmt.Errorf("recording upload: %w", err)
	}

	return s.GetUpload(ctx, id)
}

// GetUpload returns the upload with the given ID.
func (s *Store) GetUpload(ctx context.Context, id string) (Upload, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, pdf_path, COALESCE(pptx_path, ''),
		       status, COALESCE(error, ''), slide_count, created_at, updated_at
		FROM uploads WHERE id = ?
	`, id)

	var u Upload
	err := row.Scan(&u.ID, &u.Filename, &u.PDFPath, &u.PPTXPath,
		&u.Status, &u.Error, &u.SlideCount, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Upload{}, ErrNotFound
	}
	if err != nil {
		return Upload{}, fmt.Errorf("reading upload: %w", err)
	}
	return u, nil
}

// ArtifactPath returns the path reserved for the upload's rendered deck.
// The caller writes the artifact there and records it with MarkDone.
func (s *Store) ArtifactPath(id string) string {
	return filepath.Join(s.blobDir, id+".pptx")
}

// MarkProcessing transitions an upload into the processing state.
func (s *Store) MarkProcessing(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, `
		UPDATE uploads SET status = ?, error = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, StatusProcessing, id)
}

// MarkDone records a successful render: artifact path and slide count.
func (s *Store) MarkDone(ctx context.Context, id, pptxPath string, slideCount int) error {
	return s.setStatus(ctx, id, `
		UPDATE uploads SET status = ?, pptx_path = ?, slide_count = ?,
		       error = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, StatusDone, pptxPath, slideCount, id)
}

// MarkFailed records a pipeline failure with its description.
func (s *Store) MarkFailed(ctx context.Context, id, detail string) error {
	return s.setStatus(ctx, id, `
		UPDATE uploads SET status = ?, error = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, StatusFailed, detail, id)
}

func (s *Store) setStatus(ctx context.Context, id, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating upload %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUploads returns all uploads, newest first.
func (s *Store) ListUploads(ctx context.Context) ([]Upload, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, pdf_path, COALESCE(pptx_path, ''),
		       status, COALESCE(error, ''), slide_count, created_at, updated_at
		FROM uploads ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	defer rows.Close()

	var uploads []Upload
	for rows.Next() {
		var u Upload
		if err := rows.Scan(&u.ID, &u.Filename, &u.PDFPath, &u.PPTXPath,
			&u.Status, &u.Error, &u.SlideCount, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning upload: %w", err)
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// DeleteUpload removes the registry row and both blobs. Blob removal is
// best-effort; a missing file is not an error.
func (s *Store) DeleteUpload(ctx context.Context, id string) error {
	u, err := s.GetUpload(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM uploads WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting upload %s: %w", id, err)
	}

	os.Remove(u.PDFPath)
	if u.PPTXPath != "" {
		os.Remove(u.PPTXPath)
	}
	return nil
}

// PurgeAll removes every registered upload and its blobs. Invoked at
// server shutdown: storage here is ephemeral by contract.
func (s *Store) PurgeAll(ctx context.Context) error {
	uploads, err := s.ListUploads(ctx)
	if err != nil {
		return err
	}
	for _, u := range uploads {
		if err := s.DeleteUpload(ctx, u.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}
