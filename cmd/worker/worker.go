package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"website-chatbot-builder/internal/ai"
	"website-chatbot-builder/internal/config"
	"website-chatbot-builder/internal/logger"
	"website-chatbot-builder/internal/queue"
	"website-chatbot-builder/internal/retrieval"
	"website-chatbot-builder/internal/scraper"
	"website-chatbot-builder/internal/store"
	"website-chatbot-builder/internal/telemetry"
	"website-chatbot-builder/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("metrics disabled", "error", err)
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.DBName)

	// Connect to Redis for the embedding cache
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// Gemini client behind the Redis embedding cache
	geminiClient, err := ai.NewGeminiClient(cfg)
	if err != nil {
		log.Fatal("Failed to initialize Gemini client:", err)
	}
	defer geminiClient.Close()
	embedder := services.NewCachedEmbedder(geminiClient, rdb, cfg.EmbeddingModel, metrics)

	// Ingest pipeline
	websites := store.NewWebsiteStore(db)
	chunks := store.NewChunkStore(db)
	registry := services.NewCorpusRegistry()

	sc := scraper.New(
		scraper.WithSerpAPIKey(cfg.SerpAPIKey),
		scraper.WithMaxPages(cfg.CrawlMaxPages),
		scraper.WithTimeout(time.Duration(cfg.CrawlTimeoutSec)*time.Second),
		scraper.WithJSRendering(cfg.RenderJS),
	)
	chunker := retrieval.NewChunker(
		retrieval.WithTargetSize(cfg.ChunkTargetSize),
		retrieval.WithOverlap(cfg.ChunkOverlap),
	)
	ingest := services.NewIngestService(websites, chunks, sc, chunker, embedder, registry, metrics,
		services.IngestOptions{TopK: cfg.TopK, DistanceThreshold: cfg.DistanceThreshold})

	// Create Asynq server
	server := asynq.NewServer(
		queue.RedisConnOpt(cfg),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"ingest": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	processor := queue.NewTaskProcessor(ingest)
	mux := asynq.NewServeMux()
	processor.Register(mux)

	logger.Info("starting ingest worker", "concurrency", 4, "redis", cfg.RedisURL)

	// Start the server
	if err := server.Run(mux); err != nil {
		log.Fatal("Failed to start worker:", err)
	}
}
