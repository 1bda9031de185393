package segment

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestSegmentEmptyInput(t *testing.T) {
	s := New(Config{})

	slides := s.Segment("")

	if len(slides) != 1 {
		t.Fatalf("expected exactly 1 slide for empty input, got %d", len(slides))
	}
	if slides[0].Title != "Document Summary" {
		t.Errorf("title = %q, want %q", slides[0].Title, "Document Summary")
	}
	want := []string{"Generated from PDF document", "Key points extracted"}
	if !reflect.DeepEqual(slides[0].Content, want) {
		t.Errorf("content = %v, want %v", slides[0].Content, want)
	}
}

func TestSegmentFiveSentences(t *testing.T) {
	s := New(Config{})

	slides := s.Segment("Sentence one. Sentence two. Sentence three. Sentence four. Sentence five.")

	titles := make([]string, len(slides))
	for i, sl := range slides {
		titles[i] = sl.Title
	}
	wantTitles := []string{"Document Summary", "Introduction", "Content 1", "Conclusion"}
	if !reflect.DeepEqual(titles, wantTitles) {
		t.Fatalf("titles = %v, want %v", titles, wantTitles)
	}

	intro := slides[1]
	if len(intro.Content) != 3 {
		t.Errorf("Introduction has %d sentences, want 3", len(intro.Content))
	}
	if intro.Content[0] != "Sentence one." {
		t.Errorf("first intro sentence = %q", intro.Content[0])
	}

	content := slides[2]
	wantContent := []string{"Sentence four.", "Sentence five."}
	if !reflect.DeepEqual(content.Content, wantContent) {
		t.Errorf("Content 1 = %v, want %v", content.Content, wantContent)
	}
}

func TestSegmentKeyPoints(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "numbered list",
			input: "1. First point\n2. Second point\n",
			want:  []string{"First point", "Second point"},
		},
		{
			name:  "bullet markers",
			input: "• Alpha\n* Beta\n- Gamma\n",
			want:  []string{"Alpha", "Beta", "Gamma"},
		},
		{
			name:  "indented items",
			input: "   1. Indented first\n\t- Indented second\n",
			want:  []string{"Indented first", "Indented second"},
		},
		{
			name:  "marker without trailing space is not a list item",
			input: "3.14 is pi\n-flag disables it\n*emphasis*\n",
			want:  nil,
		},
		{
			name:  "empty item text is skipped",
			input: "1. \n2. Kept\n",
			want:  []string{"Kept"},
		},
		{
			name:  "capped at five items",
			input: "1. a\n2. b\n3. c\n4. d\n5. e\n6. f\n",
			want:  []string{"a", "b", "c", "d", "e"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{})
			slides := s.Segment(tt.input)

			var got []string
			for _, sl := range slides {
				if sl.Title == "Key Points" {
					got = sl.Content
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Key Points = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentSummaryIntroKeyPointsUnconditional(t *testing.T) {
	// Even with MaxSlides=2 the fixed slides still all appear, and the
	// ceiling is only consulted after a chunk is appended, so exactly one
	// Content slide follows before emission stops.
	s := New(Config{MaxSlides: 2})

	slides := s.Segment("One. Two. Three. Four.\n\n1. Item\n")

	titles := make([]string, len(slides))
	for i, sl := range slides {
		titles[i] = sl.Title
	}
	want := []string{"Document Summary", "Introduction", "Key Points", "Content 1"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("titles = %v, want %v", titles, want)
	}
}

func TestSegmentChunkCapInclusive(t *testing.T) {
	// Summary + Introduction leave the count at 2. With MaxSlides=3 the
	// first chunk pushes the count to 3 and is kept; no further chunks
	// or Conclusion follow.
	var b strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "Sentence number %d. ", i)
	}
	s := New(Config{MaxSlides: 3})

	slides := s.Segment(b.String())

	if len(slides) != 3 {
		t.Fatalf("expected 3 slides, got %d", len(slides))
	}
	if slides[2].Title != "Content 1" {
		t.Errorf("last slide = %q, want Content 1", slides[2].Title)
	}
	// No Conclusion: the ceiling was reached.
	for _, sl := range slides {
		if sl.Title == "Conclusion" {
			t.Error("Conclusion emitted past the slide ceiling")
		}
	}
}

func TestSegmentContentChunkNumbering(t *testing.T) {
	// 11 sentences: 3 intro + 8 leftover = Content 1 (4) + Content 2 (4).
	var b strings.Builder
	for i := 1; i <= 11; i++ {
		fmt.Fprintf(&b, "Sentence %d. ", i)
	}
	s := New(Config{MaxSlides: 10})

	slides := s.Segment(b.String())

	var contents []Slide
	for _, sl := range slides {
		if strings.HasPrefix(sl.Title, "Content ") {
			contents = append(contents, sl)
		}
	}
	if len(contents) != 2 {
		t.Fatalf("expected 2 content slides, got %d", len(contents))
	}
	if contents[0].Title != "Content 1" || contents[1].Title != "Content 2" {
		t.Errorf("content titles = %q, %q", contents[0].Title, contents[1].Title)
	}
	if len(contents[0].Content) != 4 || len(contents[1].Content) != 4 {
		t.Errorf("chunk sizes = %d, %d, want 4, 4", len(contents[0].Content), len(contents[1].Content))
	}
}

func TestSegmentTruncation(t *testing.T) {
	// Text past MaxChars must not contribute sentences.
	s := New(Config{MaxChars: 30})

	slides := s.Segment("Kept sentence here. Discarded sentence far beyond the cap.")

	for _, sl := range slides {
		for _, line := range sl.Content {
			if strings.Contains(line, "beyond the cap") {
				t.Errorf("truncated text leaked into slide %q: %q", sl.Title, line)
			}
		}
	}
}

func TestSegmentIdempotent(t *testing.T) {
	input := "First sentence. Second sentence.\n\n1. Point one\n2. Point two\nThird sentence."
	s := New(Config{})

	a := s.Segment(input)
	b := s.Segment(input)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("Segment is not idempotent:\nfirst:  %v\nsecond: %v", a, b)
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "terminal punctuation variants",
			input: "Really? Yes! Fine.",
			want:  []string{"Really?", "Yes!", "Fine."},
		},
		{
			name:  "trailing text without punctuation",
			input: "Done. And then some",
			want:  []string{"Done.", "And then some"},
		},
		{
			name:  "decimal number is not a boundary",
			input: "Pi is 3.14 roughly. Next.",
			want:  []string{"Pi is 3.14 roughly.", "Next."},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSentences(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitSentences(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
