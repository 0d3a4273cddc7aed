package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"website-chatbot-builder/internal/logger"
	"website-chatbot-builder/internal/queue"
	"website-chatbot-builder/internal/store"
	"website-chatbot-builder/models"
	"website-chatbot-builder/services"
	"website-chatbot-builder/utils"
)

// RegisterWebsiteRequest is the payload for registering a site.
type RegisterWebsiteRequest struct {
	URL      string `json:"url" binding:"required"`
	MaxPages int    `json:"max_pages"`
	RenderJS bool   `json:"render_js"`
}

// SetupWebsiteRoutes wires the website lifecycle endpoints: register,
// inspect, list, delete and re-ingest.
func SetupWebsiteRoutes(
	router *gin.Engine,
	websites *store.WebsiteStore,
	chunks *store.ChunkStore,
	chats *store.ChatStore,
	registry *services.CorpusRegistry,
	queueClient *asynq.Client,
) {
	group := router.Group("/websites")

	group.POST("", func(c *gin.Context) {
		var req RegisterWebsiteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		siteURL := strings.TrimSpace(req.URL)
		if !strings.Contains(siteURL, "://") {
			siteURL = "https://" + siteURL
		}

		site := &models.Website{
			URL:      siteURL,
			MaxPages: req.MaxPages,
			RenderJS: req.RenderJS,
		}
		if err := websites.Create(c.Request.Context(), site); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.RespondWithConflict(c, "Website is already registered")
				return
			}
			utils.RespondWithInternalError(c, "Failed to register website", nil)
			return
		}

		if err := enqueueIngest(c, queueClient, site); err != nil {
			return
		}

		c.JSON(http.StatusAccepted, site)
	})

	group.GET("", func(c *gin.Context) {
		sites, err := websites.List(c.Request.Context())
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list websites", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"websites": sites, "count": len(sites)})
	})

	group.GET("/:id", func(c *gin.Context) {
		site, ok := loadWebsite(c, websites)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, site)
	})

	group.DELETE("/:id", func(c *gin.Context) {
		site, ok := loadWebsite(c, websites)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		if err := chunks.DeleteByWebsite(ctx, site.ID); err != nil {
			utils.RespondWithInternalError(c, "Failed to delete website content", nil)
			return
		}
		if err := chats.DeleteByWebsite(ctx, site.ID); err != nil {
			utils.RespondWithInternalError(c, "Failed to delete website conversations", nil)
			return
		}
		if err := websites.Delete(ctx, site.ID); err != nil {
			utils.RespondWithInternalError(c, "Failed to delete website", nil)
			return
		}
		registry.Remove(site.ID.Hex())

		logger.Info("website deleted", "website_id", site.ID.Hex(), "url", site.URL)
		c.JSON(http.StatusOK, gin.H{"deleted": site.ID.Hex()})
	})

	group.POST("/:id/reingest", func(c *gin.Context) {
		site, ok := loadWebsite(c, websites)
		if !ok {
			return
		}
		if site.Status == models.WebsiteStatusIngesting {
			utils.RespondWithConflict(c, "Website is already being ingested")
			return
		}

		if err := websites.SetStatus(c.Request.Context(), site.ID, models.WebsiteStatusPending, ""); err != nil {
			utils.RespondWithInternalError(c, "Failed to queue re-ingest", nil)
			return
		}
		if err := enqueueIngest(c, queueClient, site); err != nil {
			return
		}

		c.JSON(http.StatusAccepted, gin.H{"website_id": site.ID.Hex(), "status": models.WebsiteStatusPending})
	})
}

func loadWebsite(c *gin.Context, websites *store.WebsiteStore) (*models.Website, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.RespondWithBadRequest(c, "Invalid website ID", nil)
		return nil, false
	}

	site, err := websites.GetByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithNotFound(c, "Website not found")
		return nil, false
	}
	if err != nil {
		utils.RespondWithInternalError(c, "Failed to load website", nil)
		return nil, false
	}
	return site, true
}

func enqueueIngest(c *gin.Context, queueClient *asynq.Client, site *models.Website) error {
	task, err := queue.NewIngestTask(site.ID.Hex(), site.URL)
	if err != nil {
		utils.RespondWithInternalError(c, "Failed to build ingest task", nil)
		return err
	}
	if _, err := queueClient.Enqueue(task); err != nil {
		logger.Error("failed to enqueue ingest", "website_id", site.ID.Hex(), "error", err)
		utils.RespondWithInternalError(c, "Failed to queue ingestion", nil)
		return err
	}
	return nil
}
