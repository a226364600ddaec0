package chunker

import (
	"fmt"
	"strings"
)

// Span is one emitted window: [Start, End) rune offsets into the trimmed
// input, plus the trimmed window text.
type Span struct {
	Start int
	End   int
	Text  string
}

// Chunker splits raw text into fixed-size windows with overlap.
// Size and overlap are rune counts, validated once at construction.
type Chunker struct {
	size    int
	overlap int
}

func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunker: size must be > 0, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunker: overlap must be >= 0, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunker: overlap (%d) must be < size (%d)", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

func (c *Chunker) Size() int    { return c.size }
func (c *Chunker) Overlap() int { return c.overlap }

// Split windows over the trimmed input. Each window slice is trimmed and
// skipped when empty. The next window starts at end-overlap so consecutive
// starts differ by size-overlap except for the clipped tail.
func (c *Chunker) Split(text string) []Span {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	n := len(runes)

	var out []Span
	start := 0
	for start < n {
		end := start + c.size
		if end > n {
			end = n
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			out = append(out, Span{Start: start, End: end, Text: piece})
		}

		if end >= n {
			break
		}
		start = end - c.overlap
		if start < 0 {
			start = 0
		}
	}

	return out
}
