package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"website-chatbot-builder/internal/ai"
	"website-chatbot-builder/internal/logger"
	"website-chatbot-builder/internal/retrieval"
	"website-chatbot-builder/internal/store"
	"website-chatbot-builder/internal/telemetry"
	"website-chatbot-builder/models"
)

const sourceSnippetLength = 160

// nothingFoundAnswer is returned without calling the model when the corpus
// holds nothing to ground an answer on.
const nothingFoundAnswer = "I don't have any information from this website yet. Please try again once ingestion has finished."

// Rehydrator rebuilds a website's in-memory corpus from persisted chunks.
type Rehydrator interface {
	Rehydrate(ctx context.Context, websiteID string) (*retrieval.Retriever, error)
}

// AnswerService turns a user question into a grounded answer: retrieve the
// most relevant chunks, prompt the generator with them, persist both sides
// of the exchange.
type AnswerService struct {
	websites   *store.WebsiteStore
	chats      *store.ChatStore
	registry   *CorpusRegistry
	rehydrator Rehydrator
	generator  ai.Generator
	metrics    *telemetry.Metrics
}

func NewAnswerService(
	websites *store.WebsiteStore,
	chats *store.ChatStore,
	registry *CorpusRegistry,
	rehydrator Rehydrator,
	generator ai.Generator,
	metrics *telemetry.Metrics,
) *AnswerService {
	return &AnswerService{
		websites:   websites,
		chats:      chats,
		registry:   registry,
		rehydrator: rehydrator,
		generator:  generator,
		metrics:    metrics,
	}
}

// Ask answers one question within a session. The user message is persisted
// before retrieval so a failed generation still leaves the question in the
// transcript.
func (s *AnswerService) Ask(ctx context.Context, sessionID primitive.ObjectID, question string) (*models.ChatResponse, error) {
	session, err := s.chats.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	site, err := s.websites.GetByID(ctx, session.WebsiteID)
	if err != nil {
		return nil, fmt.Errorf("load website: %w", err)
	}
	if site.Status != models.WebsiteStatusReady {
		return nil, fmt.Errorf("website %s is not ready (status %s)", site.ID.Hex(), site.Status)
	}

	userMsg := &models.ChatMessage{
		SessionID: sessionID,
		Role:      models.RoleUser,
		Content:   question,
	}
	if err := s.chats.AppendMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("persist question: %w", err)
	}

	start := time.Now()
	scored, err := s.retrieve(ctx, site.ID.Hex(), question)
	if err != nil {
		return nil, err
	}

	answer, sources, err := s.generate(ctx, site.URL, question, scored)
	if err != nil {
		return nil, err
	}

	assistantMsg := &models.ChatMessage{
		SessionID: sessionID,
		Role:      models.RoleAssistant,
		Content:   answer,
		Sources:   sources,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if err := s.chats.AppendMessage(ctx, assistantMsg); err != nil {
		logger.Error("failed to persist answer", "session_id", sessionID.Hex(), "error", err)
	}

	if s.metrics != nil {
		s.metrics.RecordQuestion(site.ID.Hex(), len(sources) > 0)
	}

	return &models.ChatResponse{Answer: answer, Sources: sources}, nil
}

func (s *AnswerService) retrieve(ctx context.Context, websiteID, question string) ([]retrieval.ScoredChunk, error) {
	retriever := s.registry.Get(websiteID)
	if retriever == nil {
		var err error
		retriever, err = s.rehydrator.Rehydrate(ctx, websiteID)
		if err != nil {
			return nil, fmt.Errorf("rehydrate corpus: %w", err)
		}
	}

	scored, err := retriever.Query(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	return scored, nil
}

func (s *AnswerService) generate(ctx context.Context, siteURL, question string, scored []retrieval.ScoredChunk) (string, []models.MessageSource, error) {
	if len(scored) == 0 {
		return nothingFoundAnswer, nil, nil
	}

	contextChunks := make([]string, len(scored))
	sources := make([]models.MessageSource, len(scored))
	for i, sc := range scored {
		contextChunks[i] = sc.Text
		sources[i] = models.MessageSource{
			Ordinal:  sc.Ordinal,
			Distance: sc.Distance,
			Snippet:  snippet(sc.Text),
		}
	}

	answer, err := s.generator.GenerateAnswer(ctx, question, contextChunks, siteURL)
	if err != nil {
		return "", nil, fmt.Errorf("generate answer: %w", err)
	}
	return answer, sources, nil
}

func snippet(text string) string {
	if len(text) <= sourceSnippetLength {
		return text
	}
	cut := sourceSnippetLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "…"
}
