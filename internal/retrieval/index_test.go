package retrieval

import (
	"errors"
	"testing"
)

func TestBuildIndexDimensionMismatch(t *testing.T) {
	vectors := [][]float32{
		make([]float32, 5),
		make([]float32, 8),
	}
	_, err := BuildIndex(vectors)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestBuildIndexEmptyFirstVector(t *testing.T) {
	_, err := BuildIndex([][]float32{{}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	ix, err := BuildIndex(nil)
	if err != nil {
		t.Fatalf("BuildIndex(nil): %v", err)
	}
	got, err := ix.Search([]float32{1, 2, 3}, 5)
	if err != nil {
		t.Fatalf("Search on empty index: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d matches, want 0", len(got))
	}
}

func TestSearchOrderingAndTruncation(t *testing.T) {
	vectors := [][]float32{
		{3, 0}, // distance 9
		{1, 0}, // distance 1
		{0, 0}, // distance 0
		{2, 0}, // distance 4
	}
	ix, err := BuildIndex(vectors)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if ix.Len() != 4 || ix.Dimension() != 2 {
		t.Fatalf("Len/Dimension = %d/%d, want 4/2", ix.Len(), ix.Dimension())
	}

	t.Run("ascending squared distances", func(t *testing.T) {
		got, err := ix.Search([]float32{0, 0}, 4)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		wantOrdinals := []int{2, 1, 3, 0}
		wantDistances := []float64{0, 1, 4, 9}
		for i := range got {
			if got[i].Ordinal != wantOrdinals[i] || got[i].Distance != wantDistances[i] {
				t.Errorf("match %d = (%d, %g), want (%d, %g)",
					i, got[i].Ordinal, got[i].Distance, wantOrdinals[i], wantDistances[i])
			}
		}
	})

	t.Run("k caps result length", func(t *testing.T) {
		got, _ := ix.Search([]float32{0, 0}, 2)
		if len(got) != 2 {
			t.Fatalf("got %d matches, want 2", len(got))
		}
	})

	t.Run("k beyond size returns all", func(t *testing.T) {
		got, _ := ix.Search([]float32{0, 0}, 100)
		if len(got) != 4 {
			t.Fatalf("got %d matches, want 4", len(got))
		}
	})

	t.Run("non-positive k", func(t *testing.T) {
		if got, _ := ix.Search([]float32{0, 0}, 0); len(got) != 0 {
			t.Fatalf("k=0 returned %d matches", len(got))
		}
	})

	t.Run("query dimension mismatch", func(t *testing.T) {
		_, err := ix.Search([]float32{0, 0, 0}, 2)
		if !errors.Is(err, ErrDimensionMismatch) {
			t.Fatalf("err = %v, want ErrDimensionMismatch", err)
		}
	})
}

func TestSearchTiesBreakByOrdinal(t *testing.T) {
	ix, err := BuildIndex([][]float32{{1, 1}, {1, 1}, {1, 1}})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	got, err := ix.Search([]float32{0, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for i, m := range got {
		if m.Ordinal != i {
			t.Errorf("match %d has ordinal %d, want %d", i, m.Ordinal, i)
		}
	}
}
