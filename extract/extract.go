// Package extract reads plain text out of PDF documents.
package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls page text from a PDF file. The zero value is ready to
// use.
type Extractor struct{}

// Extract opens the PDF at path and returns the concatenated plain text
// of its first maxPages pages (or all pages, whichever is fewer). Pages
// are processed one at a time and the per-page text is released after
// appending, so peak memory is bounded by the page and character caps
// rather than document size. The file handle is closed on every return
// path. A source that cannot be opened or decoded is a terminal error;
// there is no retry.
func (e *Extractor) Extract(path string, maxPages int) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	pageCount := reader.NumPage()
	if maxPages > 0 && pageCount > maxPages {
		pageCount = maxPages
	}

	var text strings.Builder
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		text.WriteString(pageText)
	}

	return text.String(), nil
}
