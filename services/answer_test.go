package services

import (
	"context"
	"strings"
	"testing"

	"website-chatbot-builder/internal/retrieval"
)

type fakeGenerator struct {
	answer     string
	gotChunks  []string
	gotSiteURL string
}

func (f *fakeGenerator) GenerateAnswer(ctx context.Context, question string, contextChunks []string, websiteURL string) (string, error) {
	f.gotChunks = contextChunks
	f.gotSiteURL = websiteURL
	return f.answer, nil
}

func TestGenerateWithoutContext(t *testing.T) {
	gen := &fakeGenerator{answer: "should not be called"}
	svc := &AnswerService{generator: gen}

	answer, sources, err := svc.generate(context.Background(), "https://example.com", "anything?", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if answer != nothingFoundAnswer {
		t.Errorf("got %q, want the holding answer", answer)
	}
	if sources != nil {
		t.Error("expected no sources without context")
	}
	if gen.gotChunks != nil {
		t.Error("generator was called despite empty context")
	}
}

func TestGenerateBuildsSources(t *testing.T) {
	gen := &fakeGenerator{answer: "We ship worldwide."}
	svc := &AnswerService{generator: gen}

	scored := []retrieval.ScoredChunk{
		{Ordinal: 4, Distance: 0.12, Text: "Shipping is available worldwide."},
		{Ordinal: 1, Distance: 0.30, Text: strings.Repeat("very long chunk ", 20)},
	}

	answer, sources, err := svc.generate(context.Background(), "https://example.com", "do you ship?", scored)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if answer != "We ship worldwide." {
		t.Errorf("unexpected answer %q", answer)
	}
	if gen.gotSiteURL != "https://example.com" {
		t.Errorf("generator got site %q", gen.gotSiteURL)
	}
	if len(gen.gotChunks) != 2 || gen.gotChunks[0] != scored[0].Text {
		t.Error("context chunks not passed through in retrieval order")
	}

	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	if sources[0].Ordinal != 4 || sources[0].Distance != 0.12 {
		t.Errorf("source 0 = %+v", sources[0])
	}
	if sources[0].Snippet != scored[0].Text {
		t.Error("short chunk should be its own snippet")
	}
	if len(sources[1].Snippet) > sourceSnippetLength+len("…") {
		t.Errorf("snippet not truncated: %d chars", len(sources[1].Snippet))
	}
	if !strings.HasSuffix(sources[1].Snippet, "…") {
		t.Error("truncated snippet missing ellipsis")
	}
}

func TestSnippetKeepsRuneBoundaries(t *testing.T) {
	text := strings.Repeat("é", sourceSnippetLength) // 2 bytes per rune
	got := snippet(text)
	if !strings.HasSuffix(got, "…") {
		t.Fatal("expected truncation")
	}
	body := strings.TrimSuffix(got, "…")
	for _, r := range body {
		if r == '�' {
			t.Fatal("snippet split a rune")
		}
	}
}
