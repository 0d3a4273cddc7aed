package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"website-chatbot-builder/internal/ai"
	"website-chatbot-builder/internal/config"
	"website-chatbot-builder/internal/logger"
	"website-chatbot-builder/internal/queue"
	"website-chatbot-builder/internal/retrieval"
	"website-chatbot-builder/internal/scraper"
	"website-chatbot-builder/internal/store"
	"website-chatbot-builder/internal/telemetry"
	"website-chatbot-builder/middleware"
	"website-chatbot-builder/models"
	"website-chatbot-builder/routes"
	"website-chatbot-builder/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Initialize tracing and metrics
	shutdownTracer, err := telemetry.InitTracer("website-chatbot-api", cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	} else {
		defer shutdownTracer()
	}
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

	// Connect to Redis
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

	// Stores and services
	websites := store.NewWebsiteStore(db)
	chunks := store.NewChunkStore(db)
	chats := store.NewChatStore(db)
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
	answers := services.NewAnswerService(websites, chats, registry, ingest, geminiClient, metrics)

	// Task queue client for ingest jobs
	queueClient := asynq.NewClient(queue.RedisConnOpt(cfg))
	defer queueClient.Close()

	// Periodic re-ingest keeps corpora in sync with the live sites
	scheduler := scraper.NewScheduler()
	if cfg.ReingestCron != "" {
		err := scheduler.ScheduleCron("reingest-all", cfg.ReingestCron, func() error {
			return enqueueReingestAll(websites, queueClient)
		})
		if err != nil {
			logger.Error("failed to schedule re-ingest", "error", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("website-chatbot-api"))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RateLimitMiddleware(rdb, cfg))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Setup routes
	routes.SetupWebsiteRoutes(router, websites, chunks, chats, registry, queueClient)
	routes.SetupChatRoutes(router, websites, chats, answers)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("server exited")
}

// enqueueReingestAll queues a fresh ingest for every ready website.
func enqueueReingestAll(websites *store.WebsiteStore, queueClient *asynq.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sites, err := websites.List(ctx)
	if err != nil {
		return err
	}

	queued := 0
	for _, site := range sites {
		if site.Status != models.WebsiteStatusReady {
			continue
		}
		task, err := queue.NewIngestTask(site.ID.Hex(), site.URL)
		if err != nil {
			logger.Error("failed to build re-ingest task", "website_id", site.ID.Hex(), "error", err)
			continue
		}
		if _, err := queueClient.Enqueue(task); err != nil {
			logger.Error("failed to enqueue re-ingest", "website_id", site.ID.Hex(), "error", err)
			continue
		}
		queued++
	}

	logger.Info("scheduled re-ingest pass", "websites", queued)
	return nil
}
