package retrieval

import (
	"regexp"
	"strings"
)

// DefaultTargetSize is the soft chunk size target in characters.
const DefaultTargetSize = 1000

// DefaultOverlap is the overlap between sliding-window chunks in characters.
const DefaultOverlap = 250

// MinChunkLength is the noise floor: chunks at or below this length are
// dropped.
const MinChunkLength = 50

const (
	// Sections longer than this are split further down the cascade.
	oversizeSection = 1500
	// Chunks exceeding targetSize+hardCapSlack are re-split by window.
	hardCapSlack = 500
	// At or below this many surviving sections the cascade result is
	// discarded in favor of the sliding window.
	minSemanticSections = 3
)

var (
	paragraphBoundary = regexp.MustCompile(`\n\s*\n`)
	sentenceBoundary  = regexp.MustCompile(`([.!?]+)(\s+)`)
)

// Chunker splits extracted text into retrieval chunks. It tries semantic
// boundaries first (paragraphs, then lines, then sentence groups) and falls
// back to a fixed sliding window when the text has too little structure to
// split on.
type Chunker struct {
	targetSize int
	overlap    int
}

// ChunkerOption configures a Chunker.
type ChunkerOption func(*Chunker)

// WithTargetSize sets the target chunk size in characters.
func WithTargetSize(size int) ChunkerOption {
	return func(c *Chunker) {
		if size > 0 {
			c.targetSize = size
		}
	}
}

// WithOverlap sets the sliding-window overlap in characters.
func WithOverlap(overlap int) ChunkerOption {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// NewChunker creates a Chunker with the given options.
func NewChunker(opts ...ChunkerOption) *Chunker {
	c := &Chunker{
		targetSize: DefaultTargetSize,
		overlap:    DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.overlap >= c.targetSize {
		c.overlap = c.targetSize / 4
	}
	return c
}

// Chunk splits text into ordered chunks. The slice index of each chunk is its
// ordinal, the join key to its embedding row in the index. Empty input yields
// no chunks, not an error.
func (c *Chunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sections := paragraphBoundary.Split(text, -1)
	sections = splitOversizeLines(sections)
	sections = packOversizeSentences(sections)
	sections = dropNoise(sections)

	if len(sections) <= minSemanticSections {
		return c.slidingWindow(Normalize(text))
	}

	chunks := make([]string, 0, len(sections))
	for _, s := range sections {
		s = Normalize(s)
		if len(s) <= MinChunkLength {
			continue
		}
		// Semantic splitting bounds the typical size but offers no hard
		// ceiling; anything past the cap gets the window treatment.
		if len(s) > c.targetSize+hardCapSlack {
			chunks = append(chunks, c.slidingWindow(s)...)
			continue
		}
		chunks = append(chunks, s)
	}
	return chunks
}

// slidingWindow emits fixed-size chunks at a stride of targetSize-overlap,
// keeping only windows above the noise floor.
func (c *Chunker) slidingWindow(text string) []string {
	stride := c.targetSize - c.overlap
	if stride <= 0 {
		stride = c.targetSize
	}
	var chunks []string
	for start := 0; start < len(text); start += stride {
		end := start + c.targetSize
		if end > len(text) {
			end = len(text)
		}
		if window := text[start:end]; len(window) > MinChunkLength {
			chunks = append(chunks, window)
		}
	}
	return chunks
}

// splitOversizeLines breaks sections longer than oversizeSection on single
// newline boundaries.
func splitOversizeLines(sections []string) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		if len(s) > oversizeSection {
			out = append(out, strings.Split(s, "\n")...)
			continue
		}
		out = append(out, s)
	}
	return out
}

// packOversizeSentences splits sections still longer than oversizeSection into
// sentences and greedily re-packs them: sentences are appended while the
// accumulated length stays under the bound, and a sentence is never split.
func packOversizeSentences(sections []string) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		if len(s) <= oversizeSection {
			out = append(out, s)
			continue
		}
		out = append(out, packSentences(splitSentences(s), oversizeSection)...)
	}
	return out
}

// splitSentences splits on terminal punctuation followed by whitespace,
// keeping the punctuation with its sentence.
func splitSentences(s string) []string {
	var sentences []string
	start := 0
	for _, idx := range sentenceBoundary.FindAllStringSubmatchIndex(s, -1) {
		// idx[3] is the end of the punctuation group; the trailing
		// whitespace is discarded.
		sentences = append(sentences, s[start:idx[3]])
		start = idx[1]
	}
	if tail := s[start:]; strings.TrimSpace(tail) != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func packSentences(sentences []string, bound int) []string {
	var packed []string
	current := ""
	for _, sentence := range sentences {
		if current == "" {
			current = sentence
			continue
		}
		if len(current)+1+len(sentence) < bound {
			current = current + " " + sentence
			continue
		}
		packed = append(packed, current)
		current = sentence
	}
	if current != "" {
		packed = append(packed, current)
	}
	return packed
}

// dropNoise trims sections and drops those at or below the noise floor.
func dropNoise(sections []string) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		s = strings.TrimSpace(s)
		if len(s) > MinChunkLength {
			out = append(out, s)
		}
	}
	return out
}
