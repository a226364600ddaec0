package chunker

import (
	"strings"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{"valid", 1500, 200, false},
		{"zero size", 0, 0, true},
		{"negative size", -1, 0, true},
		{"negative overlap", 100, -1, true},
		{"overlap equals size", 100, 100, true},
		{"overlap exceeds size", 100, 150, true},
		{"zero overlap", 100, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.size, tt.overlap)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%d, %d) error = %v, wantErr %v", tt.size, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestSplitExample(t *testing.T) {
	c, err := New(4, 1)
	if err != nil {
		t.Fatal(err)
	}

	spans := c.Split("ABCDEFGHIJ")

	want := []Span{
		{Start: 0, End: 4, Text: "ABCD"},
		{Start: 3, End: 7, Text: "DEFG"},
		{Start: 6, End: 10, Text: "GHIJ"},
	}

	if len(spans) != len(want) {
		t.Fatalf("got %d spans, want %d: %+v", len(spans), len(want), spans)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}
}

func TestSplitEmptyInput(t *testing.T) {
	c, _ := New(100, 10)

	for _, input := range []string{"", "   ", "\n\t  \n"} {
		if got := c.Split(input); len(got) != 0 {
			t.Errorf("Split(%q) = %d spans, want 0", input, len(got))
		}
	}
}

func TestSplitProperties(t *testing.T) {
	c, _ := New(10, 3)
	text := strings.Repeat("abcdefghij", 7) // 70 runes, no whitespace

	spans := c.Split(text)
	if len(spans) == 0 {
		t.Fatal("expected spans")
	}

	runes := []rune(text)
	stride := c.Size() - c.Overlap()

	for i, s := range spans {
		if s.End-s.Start > c.Size() {
			t.Errorf("span %d length %d exceeds size %d", i, s.End-s.Start, c.Size())
		}
		if s.Text != string(runes[s.Start:s.End]) {
			t.Errorf("span %d text does not match its offsets", i)
		}
		if i > 0 && spans[i].Start-spans[i-1].Start != stride {
			t.Errorf("span %d start stride = %d, want %d", i, spans[i].Start-spans[i-1].Start, stride)
		}
	}

	// Stitching spans at their offsets must reconstruct the input.
	rebuilt := make([]rune, len(runes))
	for _, s := range spans {
		copy(rebuilt[s.Start:s.End], []rune(s.Text))
	}
	if string(rebuilt) != text {
		t.Error("stitched spans do not reconstruct original text")
	}

	last := spans[len(spans)-1]
	if last.End != len(runes) {
		t.Errorf("last span ends at %d, want %d", last.End, len(runes))
	}
}

func TestSplitShortInput(t *testing.T) {
	c, _ := New(1500, 200)

	spans := c.Split("short note")
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Text != "short note" || spans[0].Start != 0 || spans[0].End != 10 {
		t.Errorf("unexpected span: %+v", spans[0])
	}
}

func TestSplitTrimsInput(t *testing.T) {
	c, _ := New(4, 1)

	// Offsets are relative to the trimmed text.
	spans := c.Split("  ABCDEFGHIJ  ")
	if len(spans) != 3 {
		t.Fatalf("got %d spans, want 3", len(spans))
	}
	if spans[0].Start != 0 || spans[0].Text != "ABCD" {
		t.Errorf("unexpected first span: %+v", spans[0])
	}
}
