package services

import (
	"context"
	"os"
	"testing"

	"website-chatbot-builder/internal/ai"
	"website-chatbot-builder/internal/config"
)

func TestGeminiEmbedText(t *testing.T) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("GEMINI_API_KEY not set")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Skipf("config load failed: %v", err)
	}
	client, err := ai.NewGeminiClient(cfg)
	if err != nil {
		t.Fatalf("client init failed: %v", err)
	}
	defer client.Close()

	vec, err := client.EmbedText(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("embedding error: %v", err)
	}
	if len(vec) == 0 {
		t.Fatalf("empty embedding")
	}
}
