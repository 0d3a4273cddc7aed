package ai

import (
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestBuildAnswerPrompt(t *testing.T) {
	chunks := []string{
		"We offer free shipping on orders over $50.",
		"Returns are accepted within 30 days.",
	}
	prompt := buildAnswerPrompt("What is the return policy?", chunks, "https://shop.example.com")

	if !strings.Contains(prompt, "https://shop.example.com") {
		t.Error("prompt missing website URL")
	}
	if !strings.Contains(prompt, "Context 1:\nWe offer free shipping on orders over $50.") {
		t.Error("prompt missing first context block")
	}
	if !strings.Contains(prompt, "Context 2:\nReturns are accepted within 30 days.") {
		t.Error("prompt missing second context block")
	}
	if !strings.Contains(prompt, "QUESTION:\nWhat is the return policy?") {
		t.Error("prompt missing question")
	}
	if !strings.Contains(prompt, "based ONLY on the provided content") {
		t.Error("prompt missing grounding instruction")
	}
	if !strings.Contains(prompt, "I don't have enough information from the website") {
		t.Error("prompt missing refusal instruction")
	}

	// Context blocks must appear in retrieval order.
	if strings.Index(prompt, "Context 1:") > strings.Index(prompt, "Context 2:") {
		t.Error("context blocks out of order")
	}
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello "), genai.Text("world")}}},
			{Content: nil},
		},
	}
	if got := extractText(resp); got != "Hello world" {
		t.Errorf("got %q", got)
	}

	empty := &genai.GenerateContentResponse{}
	if got := extractText(empty); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestGetRateLimits(t *testing.T) {
	free := getRateLimits("free")
	tier1 := getRateLimits("tier1")
	if free.RPM >= tier1.RPM {
		t.Error("free tier should allow fewer requests than tier1")
	}
	if unknown := getRateLimits("nonsense"); unknown != free {
		t.Error("unknown tier should fall back to free limits")
	}
}
