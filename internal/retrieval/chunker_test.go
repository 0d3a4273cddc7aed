package retrieval

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewChunker(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := NewChunker()
		if c.targetSize != DefaultTargetSize {
			t.Errorf("targetSize = %d, want %d", c.targetSize, DefaultTargetSize)
		}
		if c.overlap != DefaultOverlap {
			t.Errorf("overlap = %d, want %d", c.overlap, DefaultOverlap)
		}
	})

	t.Run("custom sizes", func(t *testing.T) {
		c := NewChunker(WithTargetSize(500), WithOverlap(100))
		if c.targetSize != 500 || c.overlap != 100 {
			t.Errorf("got (%d, %d), want (500, 100)", c.targetSize, c.overlap)
		}
	})

	t.Run("overlap clamped below target", func(t *testing.T) {
		c := NewChunker(WithTargetSize(100), WithOverlap(200))
		if c.overlap >= c.targetSize {
			t.Errorf("overlap %d not clamped below target %d", c.overlap, c.targetSize)
		}
	})

	t.Run("non-positive options ignored", func(t *testing.T) {
		c := NewChunker(WithTargetSize(0), WithOverlap(-1))
		if c.targetSize != DefaultTargetSize || c.overlap != DefaultOverlap {
			t.Errorf("got (%d, %d), want defaults", c.targetSize, c.overlap)
		}
	})
}

func TestChunkEmptyInput(t *testing.T) {
	c := NewChunker()
	for _, in := range []string{"", "   ", "\n\n\t"} {
		if got := c.Chunk(in); len(got) != 0 {
			t.Errorf("Chunk(%q) = %d chunks, want 0", in, len(got))
		}
	}
}

func TestChunkBelowNoiseFloor(t *testing.T) {
	c := NewChunker()
	if got := c.Chunk("short text"); len(got) != 0 {
		t.Errorf("got %d chunks for sub-floor input, want 0", len(got))
	}
}

// Four ~300-character paragraphs separated by blank lines survive the cascade
// untouched: one chunk per paragraph.
func TestChunkParagraphs(t *testing.T) {
	para := strings.TrimSpace(strings.Repeat("lorem ipsum dolor sit amet ", 11))
	paras := []string{para, para, para, para}
	text := strings.Join(paras, "\n\n")

	c := NewChunker()
	got := c.Chunk(text)
	if len(got) != 4 {
		t.Fatalf("got %d chunks, want 4", len(got))
	}
	for i, chunk := range got {
		if chunk != para {
			t.Errorf("chunk %d = %q, want the paragraph unchanged", i, chunk)
		}
	}
}

// A 3000-character block with no paragraph breaks and no sentence punctuation
// defeats the semantic cascade; the sliding window takes over with windows of
// targetSize at a stride of targetSize-overlap.
func TestChunkSlidingWindowFallback(t *testing.T) {
	text := strings.Repeat("abcdefghij", 300)

	c := NewChunker() // target 1000, overlap 250, stride 750
	got := c.Chunk(text)
	if len(got) != 4 {
		t.Fatalf("got %d chunks, want 4", len(got))
	}
	wantOffsets := []int{0, 750, 1500, 2250}
	for i, off := range wantOffsets {
		end := off + 1000
		if end > len(text) {
			end = len(text)
		}
		if got[i] != text[off:end] {
			t.Errorf("chunk %d does not match window at offset %d", i, off)
		}
		if len(got[i]) > 1000 {
			t.Errorf("chunk %d length %d exceeds target size", i, len(got[i]))
		}
	}
}

// A single oversized sentence cannot be packed under the bound, so the
// post-cascade hard cap re-splits it by window.
func TestChunkHardCapResplit(t *testing.T) {
	para := strings.TrimSpace(strings.Repeat("lorem ipsum dolor sit amet ", 11))
	huge := strings.Repeat("x", 1600) // no punctuation, no newlines
	text := strings.Join([]string{para, para, para, para, huge}, "\n\n")

	c := NewChunker()
	got := c.Chunk(text)
	if len(got) != 7 {
		t.Fatalf("got %d chunks, want 7 (4 paragraphs + 3 windows)", len(got))
	}
	for i, chunk := range got {
		if len(chunk) > DefaultTargetSize+hardCapSlack {
			t.Errorf("chunk %d length %d exceeds hard cap", i, len(chunk))
		}
	}
	if got[4] != huge[:1000] || got[5] != huge[750:] || got[6] != huge[1500:] {
		t.Errorf("oversized section not window-split at stride 750")
	}
}

// Sentence packing never splits a sentence and prefers fewer, larger chunks
// up to the bound: re-joining the chunks reproduces the input exactly.
func TestChunkSentencePacking(t *testing.T) {
	sentences := make([]string, 80)
	for i := range sentences {
		sentences[i] = fmt.Sprintf("This is sentence number %02d padded out to be around eighty characters long total.", i)
	}
	text := strings.Join(sentences, " ")

	c := NewChunker()
	got := c.Chunk(text)
	if len(got) < 5 {
		t.Fatalf("got %d chunks, want at least 5", len(got))
	}
	for i, chunk := range got {
		if len(chunk) > oversizeSection {
			t.Errorf("chunk %d length %d exceeds sentence-pack bound", i, len(chunk))
		}
		if !strings.HasSuffix(chunk, ".") {
			t.Errorf("chunk %d does not end on a sentence boundary: %q", i, chunk[len(chunk)-20:])
		}
	}
	if strings.Join(got, " ") != text {
		t.Error("re-joined chunks do not reproduce the input; a sentence was split or dropped")
	}
}

func TestChunkNoiseFloorInvariant(t *testing.T) {
	inputs := []string{
		strings.Repeat("abcdefghij", 300),
		strings.Join([]string{"tiny", strings.Repeat("real content here ", 20), "x"}, "\n\n"),
		strings.Repeat("A full sentence of reasonable length sits right here. ", 60),
	}
	c := NewChunker()
	for _, in := range inputs {
		for i, chunk := range c.Chunk(in) {
			if len(chunk) <= MinChunkLength {
				t.Errorf("chunk %d of %q... has length %d, below noise floor", i, in[:20], len(chunk))
			}
		}
	}
}
