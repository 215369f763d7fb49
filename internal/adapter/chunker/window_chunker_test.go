package chunker

import (
	"errors"
	"strings"
	"testing"

	"pdfrag/internal/domain"
)

const sample = `Alan Turing was an English mathematician, computer scientist, logician and
cryptanalyst. He was highly influential in the development of theoretical computer
science, providing a formalisation of the concepts of algorithm and computation with
the Turing machine, which can be considered a model of a general-purpose computer.

During the Second World War, Turing worked for the Government Code and Cypher School
at Bletchley Park, Britain's codebreaking centre that produced Ultra intelligence.
He led Hut 8, the section responsible for German naval cryptanalysis.`

func TestWindowChunkerBasic(t *testing.T) {
	c, err := NewWindowChunker(120, 20, 0)
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := c.Chunk(sample)
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}

	for i, chunk := range chunks {
		if chunk.Index != i {
			t.Errorf("chunk %d has index %d", i, chunk.Index)
		}
		if chunk.Text != strings.TrimSpace(chunk.Text) {
			t.Errorf("chunk %d is not trimmed: %q", i, chunk.Text)
		}
		if len([]rune(chunk.Text)) > 120 {
			t.Errorf("chunk %d longer than window: %d", i, len([]rune(chunk.Text)))
		}
	}
}

func TestWindowChunkerContiguousAndOrdered(t *testing.T) {
	c, err := NewWindowChunker(64, 16, 0)
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := c.Chunk(sample)
	if err != nil {
		t.Fatal(err)
	}

	runes := []rune(sample)
	prev := -1
	for _, chunk := range chunks {
		n := len([]rune(chunk.Text))
		if chunk.Offset+n > len(runes) {
			t.Fatalf("chunk %d overruns source", chunk.Index)
		}
		if got := string(runes[chunk.Offset : chunk.Offset+n]); got != chunk.Text {
			t.Errorf("chunk %d is not a contiguous substring at offset %d", chunk.Index, chunk.Offset)
		}
		if chunk.Offset <= prev {
			t.Errorf("chunk %d offset %d not after previous %d", chunk.Index, chunk.Offset, prev)
		}
		prev = chunk.Offset
	}
}

func TestWindowChunkerMinLength(t *testing.T) {
	c, err := NewWindowChunker(50, 10, 0)
	if err != nil {
		t.Fatal(err)
	}

	// The tail window holds only a few characters and must be dropped.
	text := strings.Repeat("abcdefghij", 5) + "   xyz"
	chunks, err := c.Chunk(text)
	if err != nil {
		t.Fatal(err)
	}

	for _, chunk := range chunks {
		if len([]rune(chunk.Text)) < DefaultMinLength {
			t.Errorf("chunk %d shorter than %d: %q", chunk.Index, DefaultMinLength, chunk.Text)
		}
	}
}

func TestWindowChunkerShortTextDropped(t *testing.T) {
	c, err := NewWindowChunker(600, 100, 0)
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := c.Chunk("   too short to keep   ")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}

func TestWindowChunkerBlankWindowKeepsStride(t *testing.T) {
	c, err := NewWindowChunker(50, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	first := strings.Repeat("a", 50)
	blank := strings.Repeat(" ", 50)
	third := strings.Repeat("b", 50)
	chunks, err := c.Chunk(first + blank + third)
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1].Offset != 100 {
		t.Errorf("expected second chunk at offset 100, got %d", chunks[1].Offset)
	}
	if chunks[1].Index != 1 {
		t.Errorf("expected second chunk index 1, got %d", chunks[1].Index)
	}
}

func TestWindowChunkerEmptyContent(t *testing.T) {
	c, err := NewWindowChunker(600, 100, 0)
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := c.Chunk("")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestWindowChunkerWindowCount(t *testing.T) {
	c, err := NewWindowChunker(600, 100, 0)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{500, 1},
		{501, 2},
		{1000, 2},
		{1234, 3},
	}
	for _, tt := range tests {
		if got := c.Windows(tt.n); got != tt.want {
			t.Errorf("Windows(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}

	// Dense text with no whitespace keeps every window, so the number of
	// chunks equals the number of windows.
	text := strings.Repeat("x", 1234)
	chunks, err := c.Chunk(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 3 {
		t.Errorf("expected 3 chunks, got %d", len(chunks))
	}
	for i, want := range []int{0, 500, 1000} {
		if chunks[i].Offset != want {
			t.Errorf("chunk %d offset = %d, want %d", i, chunks[i].Offset, want)
		}
	}
}

func TestWindowChunkerMultibyte(t *testing.T) {
	c, err := NewWindowChunker(45, 5, 0)
	if err != nil {
		t.Fatal(err)
	}

	text := strings.Repeat("é", 90)
	chunks, err := c.Chunk(text)
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	if got := len([]rune(chunks[0].Text)); got != 45 {
		t.Errorf("expected first chunk of 45 runes, got %d", got)
	}
	if chunks[1].Offset != 40 {
		t.Errorf("expected second chunk at rune offset 40, got %d", chunks[1].Offset)
	}
}

func TestWindowChunkerDeterministic(t *testing.T) {
	c, err := NewWindowChunker(80, 30, 0)
	if err != nil {
		t.Fatal(err)
	}

	first, err := c.Chunk(sample)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Chunk(sample)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestNewWindowChunkerInvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -10, 0},
		{"negative overlap", 100, -1},
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWindowChunker(tt.size, tt.overlap, 0)
			if !errors.Is(err, domain.ErrInvalidChunkParams) {
				t.Errorf("expected ErrInvalidChunkParams, got %v", err)
			}
		})
	}
}
