package retrieval

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
)

// stubEmbedder maps known texts to fixed vectors, standing in for the
// external embedding gateway.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	vec, ok := s.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no stub vector for %q", text)
	}
	return vec, nil
}

func TestRetrieverEmptyCorpus(t *testing.T) {
	r := NewRetriever(&stubEmbedder{})
	got, err := r.Query(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Query on empty corpus: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d chunks, want 0", len(got))
	}
}

func TestRetrieverGatewayFailurePropagates(t *testing.T) {
	gatewayErr := errors.New("rate limited")
	r := NewRetriever(&stubEmbedder{err: gatewayErr})
	err := r.BuildCorpus(context.Background(), []string{"some chunk"})
	if !errors.Is(err, gatewayErr) {
		t.Fatalf("err = %v, want wrapped gateway error", err)
	}
}

func TestRetrieverBuildDimensionMismatch(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"a": {1, 2, 3, 4, 5},
		"b": {1, 2, 3, 4, 5, 6, 7, 8},
	}}
	err := NewRetriever(emb).BuildCorpus(context.Background(), []string{"a", "b"})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}

// Ten chunks whose true distances are all 0.5 with a threshold of 0.1: the
// fallback returns the top 3 raw candidates rather than nothing.
func TestRetrieverThresholdFallback(t *testing.T) {
	vectors := map[string][]float32{"query": {0}}
	chunks := make([]string, 10)
	for i := range chunks {
		chunks[i] = fmt.Sprintf("chunk %d", i)
		vectors[chunks[i]] = []float32{float32(math.Sqrt(0.5 + 0.01*float64(i)))}
	}
	r := NewRetriever(&stubEmbedder{vectors: vectors},
		WithTopK(3), WithDistanceThreshold(0.1))
	if err := r.BuildCorpus(context.Background(), chunks); err != nil {
		t.Fatalf("BuildCorpus: %v", err)
	}
	if r.Size() != 10 {
		t.Fatalf("Size = %d, want 10", r.Size())
	}

	got, err := r.Query(context.Background(), "query")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d chunks, want top-3 fallback", len(got))
	}
	for i, sc := range got {
		if sc.Ordinal != i {
			t.Errorf("result %d has ordinal %d, want %d", i, sc.Ordinal, i)
		}
		if sc.Text != chunks[sc.Ordinal] {
			t.Errorf("ordinal %d resolved to %q, want %q", sc.Ordinal, sc.Text, chunks[sc.Ordinal])
		}
	}
}

func TestRetrieverOrdinalJoin(t *testing.T) {
	vectors := map[string][]float32{"near five": {5.01, 0}}
	chunks := make([]string, 8)
	for i := range chunks {
		chunks[i] = fmt.Sprintf("content of chunk %d", i)
		vectors[chunks[i]] = []float32{float32(i), 0}
	}
	r := NewRetriever(&stubEmbedder{vectors: vectors}, WithTopK(1), WithDistanceThreshold(10))
	if err := r.BuildCorpus(context.Background(), chunks); err != nil {
		t.Fatalf("BuildCorpus: %v", err)
	}

	got, err := r.Query(context.Background(), "near five")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || got[0].Ordinal != 5 || got[0].Text != chunks[5] {
		t.Fatalf("got %+v, want chunk 5", got)
	}
}

func TestRetrieverChunksCopy(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{"only chunk in the corpus": {1}}}
	r := NewRetriever(emb)
	if err := r.BuildCorpus(context.Background(), []string{"only chunk in the corpus"}); err != nil {
		t.Fatalf("BuildCorpus: %v", err)
	}
	cp := r.Chunks()
	cp[0] = "mutated"
	if r.Chunks()[0] != "only chunk in the corpus" {
		t.Fatal("Chunks did not return a copy")
	}
}
