// Package ai wraps the Gemini API behind narrow embedding and generation
// interfaces so the retrieval core and services never touch the SDK directly.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"

	"website-chatbot-builder/internal/config"
	"website-chatbot-builder/internal/logger"
)

// Generator produces a grounded answer from a question and context chunks.
type Generator interface {
	GenerateAnswer(ctx context.Context, question string, contextChunks []string, websiteURL string) (string, error)
}

// GeminiClient calls the Gemini API for embeddings and answer generation,
// guarded by a circuit breaker and an RPM rate limiter. It implements
// retrieval.Embedder and Generator.
type GeminiClient struct {
	client          *genai.Client
	breaker         *gobreaker.CircuitBreaker
	rateLimiter     *rate.Limiter
	embeddingModel  string
	generationModel string
}

// RateLimits describes the per-tier Gemini API request budget.
type RateLimits struct {
	RPM int // Requests per minute
	RPD int // Requests per day
}

func NewGeminiClient(cfg *config.Config) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}

	limits := getRateLimits(cfg.GeminiTier)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	// RPM limit with some buffer
	rateLimiter := rate.NewLimiter(rate.Limit(float64(limits.RPM)*0.9/60.0), limits.RPM/10+1)

	return &GeminiClient{
		client:          client,
		breaker:         breaker,
		rateLimiter:     rateLimiter,
		embeddingModel:  cfg.EmbeddingModel,
		generationModel: cfg.GenerationModel,
	}, nil
}

func getRateLimits(tier string) RateLimits {
	switch tier {
	case "tier1":
		return RateLimits{RPM: 1000, RPD: 10000}
	case "tier2":
		return RateLimits{RPM: 2000, RPD: 50000}
	default:
		return RateLimits{RPM: 10, RPD: 250}
	}
}

// EmbedText returns the embedding vector for the given text. Failures,
// including an open circuit breaker, surface to the caller unmodified: the
// retrieval core performs no retries on gateway errors.
func (gc *GeminiClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.embed_content")
	defer span.End()
	span.SetAttributes(
		attribute.String("gemini.model", gc.embeddingModel),
		attribute.Int("gemini.text_length", len(text)),
	)

	if err := gc.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.EmbeddingModel(gc.embeddingModel)
		resp, err := model.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, err
		}
		if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
			return nil, errors.New("no embedding returned")
		}
		return resp.Embedding.Values, nil
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		return nil, err
	}

	return result.([]float32), nil
}

// GenerateAnswer asks the generation model to answer the question using only
// the provided context chunks. When the circuit breaker is open a polite
// holding response is returned instead of an error.
func (gc *GeminiClient) GenerateAnswer(ctx context.Context, question string, contextChunks []string, websiteURL string) (string, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.generate_answer")
	defer span.End()
	span.SetAttributes(
		attribute.String("gemini.model", gc.generationModel),
		attribute.Int("gemini.context_chunks", len(contextChunks)),
	)

	if err := gc.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.GenerativeModel(gc.generationModel)
		model.SetTemperature(0.7)
		model.SetMaxOutputTokens(2048)

		resp, err := model.GenerateContent(ctx, genai.Text(buildAnswerPrompt(question, contextChunks, websiteURL)))
		if err != nil {
			return nil, err
		}
		return extractText(resp), nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			span.SetAttributes(attribute.Bool("gemini.circuit_breaker_open", true))
			return "I'm experiencing high demand right now. Please try again in a moment.", nil
		}
		span.SetAttributes(attribute.Bool("gemini.error", true))
		return "", err
	}

	answer := result.(string)
	if strings.TrimSpace(answer) == "" {
		return "", errors.New("empty response from generation model")
	}
	return answer, nil
}

// buildAnswerPrompt grounds the model in the retrieved chunks and instructs
// it to admit insufficient information rather than invent an answer.
func buildAnswerPrompt(question string, contextChunks []string, websiteURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I'm going to provide you with content from the website %s and a question about this content.\n\n", websiteURL)
	b.WriteString("CONTENT:\n")
	for i, chunk := range contextChunks {
		fmt.Fprintf(&b, "Context %d:\n%s\n\n", i+1, chunk)
	}
	fmt.Fprintf(&b, "QUESTION:\n%s\n\n", question)
	b.WriteString("Please answer the question based ONLY on the provided content. ")
	b.WriteString("If the information needed to answer the question is not in the provided content, ")
	b.WriteString(`say "I don't have enough information from the website to answer that question" instead of making up an answer. `)
	b.WriteString("Your answer should be helpful, concise, and accurate.")
	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String()
}

// Close the underlying SDK client.
func (gc *GeminiClient) Close() error {
	if gc.client != nil {
		return gc.client.Close()
	}
	return nil
}
