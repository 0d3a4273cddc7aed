package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"website-chatbot-builder/internal/logger"
	"website-chatbot-builder/internal/retrieval"
	"website-chatbot-builder/internal/scraper"
	"website-chatbot-builder/internal/store"
	"website-chatbot-builder/internal/telemetry"
	"website-chatbot-builder/models"
	"website-chatbot-builder/utils"
)

// IngestService runs the full pipeline for one website: crawl, extract,
// chunk, embed, persist chunks and install the retriever in the registry.
type IngestService struct {
	websites *store.WebsiteStore
	chunks   *store.ChunkStore
	scraper  *scraper.Scraper
	chunker  *retrieval.Chunker
	embedder retrieval.Embedder
	registry *CorpusRegistry
	metrics  *telemetry.Metrics

	topK      int
	threshold float64
}

// IngestOptions carries the retrieval tunables applied to every corpus the
// service builds.
type IngestOptions struct {
	TopK              int
	DistanceThreshold float64
}

func NewIngestService(
	websites *store.WebsiteStore,
	chunks *store.ChunkStore,
	sc *scraper.Scraper,
	chunker *retrieval.Chunker,
	embedder retrieval.Embedder,
	registry *CorpusRegistry,
	metrics *telemetry.Metrics,
	opts IngestOptions,
) *IngestService {
	if opts.TopK <= 0 {
		opts.TopK = retrieval.DefaultTopK
	}
	if opts.DistanceThreshold <= 0 {
		opts.DistanceThreshold = retrieval.DefaultDistanceThreshold
	}
	return &IngestService{
		websites:  websites,
		chunks:    chunks,
		scraper:   sc,
		chunker:   chunker,
		embedder:  embedder,
		registry:  registry,
		metrics:   metrics,
		topK:      opts.TopK,
		threshold: opts.DistanceThreshold,
	}
}

// Ingest runs the pipeline for the given website ID. It transitions the
// website through ingesting and into ready or failed, and on success the
// chunk collection and the in-memory corpus are replaced together.
func (s *IngestService) Ingest(ctx context.Context, websiteID string) error {
	id, err := primitive.ObjectIDFromHex(websiteID)
	if err != nil {
		return fmt.Errorf("invalid website id %q: %w", websiteID, err)
	}

	site, err := s.websites.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load website: %w", err)
	}

	if err := s.websites.SetStatus(ctx, id, models.WebsiteStatusIngesting, ""); err != nil {
		return fmt.Errorf("mark ingesting: %w", err)
	}

	start := time.Now()
	texts, result, err := s.run(ctx, site)
	if err != nil {
		s.recordIngest(start, 0, "failed")
		if stErr := s.websites.SetStatus(ctx, id, models.WebsiteStatusFailed, err.Error()); stErr != nil {
			logger.Error("failed to record ingest failure", "website_id", websiteID, "error", stErr)
		}
		return err
	}

	s.recordIngest(start, int64(len(texts)), "ready")
	logger.Info("website ingested",
		"website_id", websiteID,
		"url", site.URL,
		"pages", result.PagesCrawled,
		"chunks", len(texts),
		"took", time.Since(start).String(),
	)
	return nil
}

func (s *IngestService) run(ctx context.Context, site *models.Website) ([]string, *scraper.Result, error) {
	result, err := s.scraper.ForSite(site.MaxPages, site.RenderJS).Scrape(ctx, site.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("scrape %s: %w", site.URL, err)
	}

	texts := s.chunker.Chunk(result.Content)
	if len(texts) == 0 {
		return nil, nil, fmt.Errorf("no usable content at %s", site.URL)
	}

	retriever := retrieval.NewRetriever(s.embedder,
		retrieval.WithTopK(s.topK),
		retrieval.WithDistanceThreshold(s.threshold),
	)
	if err := retriever.BuildCorpus(ctx, texts); err != nil {
		return nil, nil, fmt.Errorf("build corpus: %w", err)
	}

	if err := s.chunks.Replace(ctx, site.ID, texts); err != nil {
		return nil, nil, fmt.Errorf("persist chunks: %w", err)
	}

	compressed, algorithm, err := utils.CompressText(result.Content)
	if err != nil {
		return nil, nil, fmt.Errorf("compress content: %w", err)
	}

	err = s.websites.MarkIngested(ctx, site.ID, store.IngestResult{
		Title:        result.Title,
		Content:      compressed,
		Compression:  string(algorithm),
		Method:       result.Method,
		PagesCrawled: result.PagesCrawled,
		ChunkCount:   len(texts),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("mark ingested: %w", err)
	}

	// Install last so readers only ever see a corpus whose persisted
	// chunk ordinals match the index rows.
	s.registry.Set(site.ID.Hex(), retriever)
	return texts, result, nil
}

// Rehydrate rebuilds the in-memory corpus of a ready website from its
// persisted chunks, re-embedding each chunk text. Used after restarts.
func (s *IngestService) Rehydrate(ctx context.Context, websiteID string) (*retrieval.Retriever, error) {
	id, err := primitive.ObjectIDFromHex(websiteID)
	if err != nil {
		return nil, fmt.Errorf("invalid website id %q: %w", websiteID, err)
	}

	texts, err := s.chunks.ListTexts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("website %s has no persisted chunks", websiteID)
	}

	retriever := retrieval.NewRetriever(s.embedder,
		retrieval.WithTopK(s.topK),
		retrieval.WithDistanceThreshold(s.threshold),
	)
	if err := retriever.BuildCorpus(ctx, texts); err != nil {
		return nil, fmt.Errorf("rebuild corpus: %w", err)
	}

	s.registry.Set(websiteID, retriever)
	logger.Info("corpus rehydrated", "website_id", websiteID, "chunks", len(texts))
	return retriever, nil
}

func (s *IngestService) recordIngest(start time.Time, chunks int64, status string) {
	if s.metrics != nil {
		s.metrics.RecordIngest(time.Since(start).Seconds(), chunks, status)
	}
}
