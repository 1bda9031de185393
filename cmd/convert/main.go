// Command convert turns a single PDF into a summary deck without going
// through the HTTP service or the upload store.
//
// Usage:
//
//	go run ./cmd/convert --in report.pdf --out report.pptx --verify
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mpanelo/pdfdeck"
	"github.com/mpanelo/pdfdeck/extract"
	"github.com/mpanelo/pdfdeck/pptx"
	"github.com/mpanelo/pdfdeck/segment"
)

func main() {
	in := flag.String("in", "", "Input PDF path")
	out := flag.String("out", "", "Output PPTX path (default: input name with .pptx)")
	maxPages := flag.Int("max-pages", 0, "Page cap (default from config)")
	maxSlides := flag.Int("max-slides", 0, "Slide cap (default from config)")
	verify := flag.Bool("verify", false, "Re-read the generated deck and print its outline")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if *in == "" {
		fmt.Fprintln(os.Stderr, "--in is required")
		os.Exit(1)
	}
	dest := *out
	if dest == "" {
		base := strings.TrimSuffix(filepath.Base(*in), filepath.Ext(*in))
		dest = base + ".pptx"
	}

	cfg := pdfdeck.DefaultConfig()
	if *maxPages > 0 {
		cfg.MaxPages = *maxPages
	}
	if *maxSlides > 0 {
		cfg.MaxSlides = *maxSlides
	}

	var extractor extract.Extractor
	text, err := extractor.Extract(*in, cfg.MaxPages)
	if err != nil {
		slog.Error("extracting text", "path", *in, "error", err)
		os.Exit(1)
	}

	segmenter := segment.New(segment.Config{
		MaxChars:       cfg.MaxChars,
		MaxSlides:      cfg.MaxSlides,
		IntroSentences: cfg.IntroSentences,
		KeyPointItems:  cfg.KeyPointItems,
		ChunkSize:      cfg.ChunkSize,
	})
	slides := segmenter.Segment(text)

	var renderer pptx.Renderer
	if err := renderer.Render(slides, dest); err != nil {
		slog.Error("rendering deck", "path", dest, "error", err)
		os.Exit(1)
	}
	slog.Info("deck written", "path", dest, "slides", len(slides)+1)

	if *verify {
		deck, err := pptx.ReadDeck(dest)
		if err != nil {
			slog.Error("verifying deck", "path", dest, "error", err)
			os.Exit(1)
		}
		for i, sl := range deck {
			fmt.Printf("%d. %s\n", i+1, sl.Title)
			for _, line := range sl.Content {
				fmt.Printf("   - %s\n", line)
			}
		}
	}
}
