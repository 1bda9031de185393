package pdfdeck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mpanelo/pdfdeck/internal/pdftest"
	"github.com/mpanelo/pdfdeck/pptx"
	"github.com/mpanelo/pdfdeck/store"
)

func newTestEngine(t *testing.T) Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("creating engine: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func uploadPDF(t *testing.T, e Engine, pages ...string) Upload {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.pdf")
	if err := pdftest.Write(path, pages...); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	u, err := e.Upload(context.Background(), f, "input.pdf")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	return u
}

func TestPipelineRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	u := uploadPDF(t, e, "1. First point\n2. Second point")

	res, err := e.Process(ctx, u.ID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	var keyPoints []string
	for _, sl := range res.Slides {
		if sl.Title == "Key Points" {
			keyPoints = sl.Content
		}
	}
	want := []string{"First point", "Second point"}
	if !reflect.DeepEqual(keyPoints, want) {
		t.Errorf("Key Points = %v, want %v", keyPoints, want)
	}

	// The artifact must reflect the same records once re-read.
	path, err := e.ArtifactPath(ctx, u.ID)
	if err != nil {
		t.Fatalf("ArtifactPath: %v", err)
	}
	deck, err := pptx.ReadDeck(path)
	if err != nil {
		t.Fatalf("ReadDeck: %v", err)
	}
	found := false
	for _, sl := range deck {
		if sl.Title == "Key Points" && reflect.DeepEqual(sl.Content, want) {
			found = true
		}
	}
	if !found {
		t.Errorf("rendered deck missing Key Points slide: %+v", deck)
	}
}

func TestProcessUnreadableSource(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	// Store garbage bytes under a .pdf name: extraction must fail and
	// nothing may be rendered afterwards.
	u, err := e.Upload(ctx, strings.NewReader("not a pdf at all"), "broken.pdf")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	_, err = e.Process(ctx, u.ID)
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("Process error = %v, want ErrExtraction", err)
	}

	if _, err := e.ArtifactPath(ctx, u.ID); !errors.Is(err, ErrArtifactNotReady) {
		t.Errorf("artifact available after failed extraction: %v", err)
	}

	uploads, err := e.ListUploads(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(uploads) != 1 || uploads[0].Status != store.StatusFailed {
		t.Errorf("uploads after failure = %+v", uploads)
	}
}

func TestUploadValidation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
	}{
		{name: "wrong extension", filename: "notes.txt"},
		{name: "no extension", filename: "README"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Upload(ctx, strings.NewReader("x"), tt.filename)
			if !errors.Is(err, ErrInvalidUpload) {
				t.Errorf("err = %v, want ErrInvalidUpload", err)
			}
		})
	}

	t.Run("oversize payload", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.MaxUploadBytes = 8
		small, err := New(cfg)
		if err != nil {
			t.Fatal(err)
		}
		defer small.Close()

		_, err = small.Upload(ctx, strings.NewReader("way more than eight bytes"), "big.pdf")
		if !errors.Is(err, ErrInvalidUpload) {
			t.Errorf("err = %v, want ErrInvalidUpload", err)
		}
	})
}

func TestProcessUnknownID(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Process(context.Background(), "no-such-id")
	if !errors.Is(err, ErrUploadNotFound) {
		t.Errorf("err = %v, want ErrUploadNotFound", err)
	}
}

func TestArtifactNotReadyBeforeProcess(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	u := uploadPDF(t, e, "Some text. More text.")

	if _, err := e.ArtifactPath(ctx, u.ID); !errors.Is(err, ErrArtifactNotReady) {
		t.Errorf("err = %v, want ErrArtifactNotReady", err)
	}
}

func TestDeleteAndCleanup(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	a := uploadPDF(t, e, "Doc one text.")
	b := uploadPDF(t, e, "Doc two text.")

	if err := e.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := e.Delete(ctx, a.ID); !errors.Is(err, ErrUploadNotFound) {
		t.Errorf("second delete = %v, want ErrUploadNotFound", err)
	}

	if err := e.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	uploads, err := e.ListUploads(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(uploads) != 0 {
		t.Errorf("uploads remain after cleanup: %+v (b was %s)", uploads, b.ID)
	}
}
