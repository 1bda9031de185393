package store

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetUpload(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUpload(ctx, "abc123", "report.pdf", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("CreateUpload: %v", err)
	}
	if u.ID != "abc123" || u.Filename != "report.pdf" {
		t.Errorf("upload = %+v", u)
	}
	if u.Status != StatusUploaded {
		t.Errorf("status = %q, want %q", u.Status, StatusUploaded)
	}

	// The PDF blob must exist before the row is usable.
	data, err := os.ReadFile(u.PDFPath)
	if err != nil {
		t.Fatalf("reading blob: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("blob content = %q", data)
	}

	got, err := s.GetUpload(ctx, "abc123")
	if err != nil {
		t.Fatalf("GetUpload: %v", err)
	}
	if got.PDFPath != u.PDFPath {
		t.Errorf("PDFPath = %q, want %q", got.PDFPath, u.PDFPath)
	}
}

func TestGetUploadNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUpload(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateUpload(ctx, "id1", "a.pdf", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}

	if err := s.MarkProcessing(ctx, "id1"); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	u, _ := s.GetUpload(ctx, "id1")
	if u.Status != StatusProcessing {
		t.Errorf("status = %q, want processing", u.Status)
	}

	if err := s.MarkDone(ctx, "id1", s.ArtifactPath("id1"), 4); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	u, _ = s.GetUpload(ctx, "id1")
	if u.Status != StatusDone || u.SlideCount != 4 {
		t.Errorf("after MarkDone: %+v", u)
	}
	if u.PPTXPath != s.ArtifactPath("id1") {
		t.Errorf("PPTXPath = %q", u.PPTXPath)
	}

	if err := s.MarkFailed(ctx, "id1", "render exploded"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	u, _ = s.GetUpload(ctx, "id1")
	if u.Status != StatusFailed || u.Error != "render exploded" {
		t.Errorf("after MarkFailed: %+v", u)
	}

	if err := s.MarkProcessing(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkProcessing(missing) = %v, want ErrNotFound", err)
	}
}

func TestListUploads(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"one", "two", "three"} {
		if _, err := s.CreateUpload(ctx, id, id+".pdf", strings.NewReader("x")); err != nil {
			t.Fatal(err)
		}
	}

	uploads, err := s.ListUploads(ctx)
	if err != nil {
		t.Fatalf("ListUploads: %v", err)
	}
	if len(uploads) != 3 {
		t.Fatalf("got %d uploads, want 3", len(uploads))
	}
}

func TestDeleteUploadRemovesBlobs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUpload(ctx, "gone", "gone.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	artifact := s.ArtifactPath("gone")
	if err := os.WriteFile(artifact, []byte("deck"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkDone(ctx, "gone", artifact, 1); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteUpload(ctx, "gone"); err != nil {
		t.Fatalf("DeleteUpload: %v", err)
	}

	if _, err := s.GetUpload(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("row still present: %v", err)
	}
	if _, err := os.Stat(u.PDFPath); !os.IsNotExist(err) {
		t.Error("pdf blob still present")
	}
	if _, err := os.Stat(artifact); !os.IsNotExist(err) {
		t.Error("pptx blob still present")
	}
}

func TestPurgeAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if _, err := s.CreateUpload(ctx, id, id+".pdf", strings.NewReader("x")); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.PurgeAll(ctx); err != nil {
		t.Fatalf("PurgeAll: %v", err)
	}
	uploads, err := s.ListUploads(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(uploads) != 0 {
		t.Errorf("uploads remain after purge: %v", uploads)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	s := newTestStore(t)
	// New already ran migrations; a second pass must be a no-op.
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("re-running migrations: %v", err)
	}
}
