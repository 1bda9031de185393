// Package pdfdeck converts uploaded PDF documents into short summary
// slide decks. The pipeline is extract -> segment -> render, one-way:
// raw bytes become page text, page text becomes slide records, slide
// records become a .pptx artifact. Each invocation owns its own
// intermediate state; the only shared resource is the upload store.
package pdfdeck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mpanelo/pdfdeck/extract"
	"github.com/mpanelo/pdfdeck/pptx"
	"github.com/mpanelo/pdfdeck/segment"
	"github.com/mpanelo/pdfdeck/store"
)

// Engine is the main entry point for the PDF-to-deck service.
type Engine interface {
	// Upload stores PDF bytes under a fresh opaque ID.
	Upload(ctx context.Context, r io.Reader, filename string) (Upload, error)

	// Process runs the pipeline for a stored upload and returns the
	// generated slides. Extraction or render failures abort the run.
	Process(ctx context.Context, id string) (*Result, error)

	// ArtifactPath returns the path of the rendered deck for download.
	ArtifactPath(ctx context.Context, id string) (string, error)

	// ListUploads returns all registered uploads.
	ListUploads(ctx context.Context) ([]Upload, error)

	// Delete removes an upload and its blobs.
	Delete(ctx context.Context, id string) error

	// Cleanup purges all uploads and artifacts. Storage is ephemeral;
	// the server calls this on shutdown.
	Cleanup(ctx context.Context) error

	// Close shuts down the engine.
	Close() error
}

// Upload describes a stored PDF.
type Upload struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	SlideCount int    `json:"slide_count"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// Result is the outcome of processing one upload.
type Result struct {
	ID     string          `json:"id"`
	Slides []segment.Slide `json:"slides"`
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg       Config
	store     *store.Store
	extractor *extract.Extractor
	segmenter *segment.Segmenter
	renderer  *pptx.Renderer
}

// New creates an Engine with the given configuration. Zero-value limits
// are replaced by the defaults from DefaultConfig.
func New(cfg Config) (Engine, error) {
	def := DefaultConfig()
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = def.MaxPages
	}

	s, err := store.New(cfg.resolveDataDir())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &engine{
		cfg:       cfg,
		store:     s,
		extractor: &extract.Extractor{},
		segmenter: segment.New(segment.Config{
			MaxChars:       cfg.MaxChars,
			MaxSlides:      cfg.MaxSlides,
			IntroSentences: cfg.IntroSentences,
			KeyPointItems:  cfg.KeyPointItems,
			ChunkSize:      cfg.ChunkSize,
		}),
		renderer: &pptx.Renderer{},
	}, nil
}

func (e *engine) Upload(ctx context.Context, r io.Reader, filename string) (Upload, error) {
	// Sanitise the name to prevent path traversal.
	safeName := filepath.Base(filename)
	if !strings.EqualFold(filepath.Ext(safeName), ".pdf") {
		return Upload{}, fmt.Errorf("%w: file must be a PDF", ErrInvalidUpload)
	}

	id := uuid.NewString()
	lr := &io.LimitedReader{R: r, N: e.cfg.MaxUploadBytes + 1}
	u, err := e.store.CreateUpload(ctx, id, safeName, lr)
	if err != nil {
		return Upload{}, fmt.Errorf("storing upload: %w", err)
	}
	if lr.N <= 0 {
		e.store.DeleteUpload(ctx, id)
		return Upload{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidUpload, e.cfg.MaxUploadBytes)
	}
	return toUpload(u), nil
}

func (e *engine) Process(ctx context.Context, id string) (*Result, error) {
	u, err := e.store.GetUpload(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if err := e.store.MarkProcessing(ctx, id); err != nil {
		return nil, mapStoreErr(err)
	}

	text, err := e.extractor.Extract(u.PDFPath, e.cfg.MaxPages)
	if err != nil {
		e.store.MarkFailed(ctx, id, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	// Segmentation never fails: internal faults degrade to a one-slide
	// deck describing the problem.
	slides := e.segmenter.Segment(text)

	dest := e.store.ArtifactPath(id)
	if err := e.renderer.Render(slides, dest); err != nil {
		e.store.MarkFailed(ctx, id, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	if err := e.store.MarkDone(ctx, id, dest, len(slides)); err != nil {
		return nil, mapStoreErr(err)
	}

	return &Result{ID: id, Slides: slides}, nil
}

func (e *engine) ArtifactPath(ctx context.Context, id string) (string, error) {
	u, err := e.store.GetUpload(ctx, id)
	if err != nil {
		return "", mapStoreErr(err)
	}
	if u.Status != store.StatusDone || u.PPTXPath == "" {
		return "", ErrArtifactNotReady
	}
	return u.PPTXPath, nil
}

func (e *engine) ListUploads(ctx context.Context) ([]Upload, error) {
	rows, err := e.store.ListUploads(ctx)
	if err != nil {
		return nil, err
	}
	uploads := make([]Upload, len(rows))
	for i, u := range rows {
		uploads[i] = toUpload(u)
	}
	return uploads, nil
}

func (e *engine) Delete(ctx context.Context, id string) error {
	return mapStoreErr(e.store.DeleteUpload(ctx, id))
}

func (e *engine) Cleanup(ctx context.Context) error {
	return e.store.PurgeAll(ctx)
}

func (e *engine) Close() error {
	return e.store.Close()
}

// toUpload converts a store row to the public upload view. Internal blob
// paths stay internal.
func toUpload(u store.Upload) Upload {
	return Upload{
		ID:         u.ID,
		Filename:   u.Filename,
		Status:     u.Status,
		Error:      u.Error,
		SlideCount: u.SlideCount,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// mapStoreErr translates store sentinels into the engine's taxonomy.
func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUploadNotFound
	}
	return err
}
