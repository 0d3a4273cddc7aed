package retrieval

import (
	"context"
	"fmt"
)

// DefaultTopK is the number of chunks returned per query.
const DefaultTopK = 3

// DefaultDistanceThreshold is the squared-L2 cutoff for relevant chunks.
// Tunable; there is no derivation behind the default beyond observed
// behavior with text-embedding models.
const DefaultDistanceThreshold = 0.8

// Oversampling factor applied to the index query so FilterMatches has
// candidates to discard.
const searchOversample = 2

// Embedder maps a text string to a fixed-dimension vector. Implementations
// are external gateways (network round-trips); failures propagate to the
// caller unmodified, with no retry or partial-result caching here.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// ScoredChunk is one retrieved chunk with its ordinal and distance.
type ScoredChunk struct {
	Ordinal  int     `json:"ordinal"`
	Distance float64 `json:"distance"`
	Text     string  `json:"text"`
}

// Retriever owns one corpus session: the ordered chunk texts, their index,
// and the embedder used for both corpus build and queries. Invariant: index i
// of the chunk list is row i of the index and the ordinal returned by Search;
// callers persisting chunk lists must preserve that order when rehydrating.
// A Retriever is read-only after BuildCorpus; rebuild by creating a new one
// and swapping it in whole.
type Retriever struct {
	embedder  Embedder
	chunks    []string
	index     *FlatIndex
	topK      int
	threshold float64
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithTopK sets the number of chunks returned per query.
func WithTopK(k int) RetrieverOption {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithDistanceThreshold sets the relevance cutoff.
func WithDistanceThreshold(threshold float64) RetrieverOption {
	return func(r *Retriever) {
		if threshold > 0 {
			r.threshold = threshold
		}
	}
}

// NewRetriever creates a Retriever around the given embedding gateway.
func NewRetriever(embedder Embedder, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		embedder:  embedder,
		index:     &FlatIndex{},
		topK:      DefaultTopK,
		threshold: DefaultDistanceThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BuildCorpus embeds every chunk and builds the index in one shot. Chunk
// order is preserved; embedding failures abort the build and surface as-is.
func (r *Retriever) BuildCorpus(ctx context.Context, chunks []string) error {
	vectors := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		vec, err := r.embedder.EmbedText(ctx, chunk)
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", i, err)
		}
		vectors = append(vectors, vec)
	}
	index, err := BuildIndex(vectors)
	if err != nil {
		return err
	}
	r.chunks = append([]string(nil), chunks...)
	r.index = index
	return nil
}

// Query embeds the query text, searches the index with oversampling, filters
// by distance, and resolves ordinals to chunk text, most relevant first. An
// empty corpus yields an empty result, not an error.
func (r *Retriever) Query(ctx context.Context, text string) ([]ScoredChunk, error) {
	if r.index.Len() == 0 {
		return nil, nil
	}
	qvec, err := r.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	raw, err := r.index.Search(qvec, searchOversample*r.topK)
	if err != nil {
		return nil, err
	}
	kept := FilterMatches(raw, r.topK, r.threshold)

	scored := make([]ScoredChunk, len(kept))
	for i, m := range kept {
		scored[i] = ScoredChunk{
			Ordinal:  m.Ordinal,
			Distance: m.Distance,
			Text:     r.chunks[m.Ordinal],
		}
	}
	return scored, nil
}

// Size returns the number of chunks in the corpus.
func (r *Retriever) Size() int {
	return r.index.Len()
}

// Chunks returns the ordered chunk texts, e.g. for persistence. The returned
// slice is a copy.
func (r *Retriever) Chunks() []string {
	return append([]string(nil), r.chunks...)
}
