// Package segment turns raw extracted document text into a bounded,
// ordered sequence of summary slides using rule-based heuristics.
package segment

import (
	"fmt"
	"strings"
	"unicode"
)

// Slide is one generated slide: a title plus its ordered content lines.
type Slide struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
}

// Config controls the segmentation limits.
type Config struct {
	MaxChars       int // Characters of input text considered.
	MaxSlides      int // Hard ceiling on the number of slides.
	IntroSentences int // Sentences placed on the Introduction slide.
	KeyPointItems  int // List items placed on the Key Points slide.
	ChunkSize      int // Leftover sentences grouped per Content slide.
}

// Segmenter converts document text into slides.
type Segmenter struct {
	cfg Config
}

// New returns a Segmenter with the given configuration.
// Zero-value fields are replaced with sensible defaults.
func New(cfg Config) *Segmenter {
	if cfg.MaxChars == 0 {
		cfg.MaxChars = 20000
	}
	if cfg.MaxSlides == 0 {
		cfg.MaxSlides = 6
	}
	if cfg.IntroSentences == 0 {
		cfg.IntroSentences = 3
	}
	if cfg.KeyPointItems == 0 {
		cfg.KeyPointItems = 5
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 4
	}
	return &Segmenter{cfg: cfg}
}

// Segment derives slides from text. It never fails: any internal fault is
// contained and converted into a single error slide so that rendering can
// always proceed. The result is pure — identical input yields identical
// output.
func (s *Segmenter) Segment(text string) (slides []Slide) {
	defer func() {
		if r := recover(); r != nil {
			slides = []Slide{errorSlide(fmt.Sprintf("%v", r))}
		}
	}()

	// Only the first MaxChars characters are considered. The cut is
	// positional, not semantic.
	if len(text) > s.cfg.MaxChars {
		text = text[:s.cfg.MaxChars]
	}

	// Sentences come from blank-line paragraphs; list items from a
	// separate line scan over the same text.
	var sentences []string
	for _, para := range splitParagraphs(text) {
		sentences = append(sentences, splitSentences(para)...)
	}
	items := listItems(text)

	slides = append(slides, Slide{
		Title:   "Document Summary",
		Content: []string{"Generated from PDF document", "Key points extracted"},
	})

	if len(sentences) > 0 {
		slides = append(slides, Slide{
			Title:   "Introduction",
			Content: sentences[:min(s.cfg.IntroSentences, len(sentences))],
		})
	}

	if len(items) > 0 {
		slides = append(slides, Slide{
			Title:   "Key Points",
			Content: items[:min(s.cfg.KeyPointItems, len(items))],
		})
	}

	// Remaining sentences become Content slides in chunks. The ceiling is
	// checked after each chunk is appended, so the chunk that crosses it
	// is kept.
	remaining := sentences[min(s.cfg.IntroSentences, len(sentences)):]
	for i := 0; i < len(remaining); i += s.cfg.ChunkSize {
		group := remaining[i:min(i+s.cfg.ChunkSize, len(remaining))]
		slides = append(slides, Slide{
			Title:   fmt.Sprintf("Content %d", i/s.cfg.ChunkSize+1),
			Content: group,
		})
		if len(slides) >= s.cfg.MaxSlides {
			break
		}
	}

	if len(slides) < s.cfg.MaxSlides && len(sentences) > 0 {
		slides = append(slides, Slide{
			Title: "Conclusion",
			Content: []string{
				"End of document summary",
				"For more detailed information, please refer to the original document",
			},
		})
	}

	return slides
}

// errorSlide is the failure-containment slide emitted when segmentation
// itself breaks.
func errorSlide(detail string) Slide {
	return Slide{
		Title: "Error Processing Document",
		Content: []string{
			"An error occurred: " + detail,
			"Please try again or check if the PDF contains extractable text",
		},
	}
}

// splitParagraphs splits text on blank-line boundaries.
func splitParagraphs(text string) []string {
	raw := strings.Split(text, "\n\n")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSentences is a simple sentence tokeniser. It splits on
// period/question-mark/exclamation followed by whitespace or end of
// string. Trailing text without terminal punctuation counts as a final
// sentence.
func splitSentences(text string) []string {
	var sentences []string
	var cur strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		cur.WriteRune(runes[i])
		if runes[i] == '.' || runes[i] == '?' || runes[i] == '!' {
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				s := strings.TrimSpace(cur.String())
				if s != "" {
					sentences = append(sentences, s)
				}
				cur.Reset()
			}
		}
	}
	if cur.Len() > 0 {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// listItems scans text line by line and collects enumerated or bulleted
// entries: a digit sequence followed by '.', or one of '•', '*', '-',
// with whitespace after the marker. The marker is stripped from the
// returned item text.
func listItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		rest, ok := stripListMarker(line)
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		if rest != "" {
			items = append(items, rest)
		}
	}
	return items
}

// stripListMarker reports whether line starts (after leading whitespace)
// with a list marker, and returns the text after the marker.
func stripListMarker(line string) (string, bool) {
	s := strings.TrimLeft(line, " \t")

	// Numbered: one or more digits followed by '.'
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && s[i] == '.' {
		if rest, ok := requireSpace(s[i+1:]); ok {
			return rest, true
		}
		return "", false
	}

	// Bulleted: '•', '*' or '-'
	for _, marker := range []string{"•", "*", "-"} {
		if strings.HasPrefix(s, marker) {
			if rest, ok := requireSpace(s[len(marker):]); ok {
				return rest, true
			}
			return "", false
		}
	}
	return "", false
}

// requireSpace demands at least one whitespace character after a list
// marker, so that "3.14" or "-flag" is not mistaken for a list item.
func requireSpace(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	if s[0] != ' ' && s[0] != '\t' {
		return "", false
	}
	return s[1:], true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
