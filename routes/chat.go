package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"website-chatbot-builder/internal/store"
	"website-chatbot-builder/models"
	"website-chatbot-builder/services"
	"website-chatbot-builder/utils"
)

const maxQuestionLength = 2000

// SetupChatRoutes wires the conversation endpoints: open a session against
// a website, ask questions in it and read back the transcript.
func SetupChatRoutes(
	router *gin.Engine,
	websites *store.WebsiteStore,
	chats *store.ChatStore,
	answers *services.AnswerService,
) {
	router.POST("/websites/:id/sessions", func(c *gin.Context) {
		site, ok := loadWebsite(c, websites)
		if !ok {
			return
		}
		if site.Status != models.WebsiteStatusReady {
			utils.RespondWithConflict(c, "Website is not ready for chat yet")
			return
		}

		session, err := chats.CreateSession(c.Request.Context(), site.ID)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to create session", nil)
			return
		}
		c.JSON(http.StatusCreated, session)
	})

	sessions := router.Group("/sessions")

	sessions.POST("/:id/messages", func(c *gin.Context) {
		sessionID, ok := sessionIDParam(c)
		if !ok {
			return
		}

		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		question := strings.TrimSpace(req.Message)
		if question == "" {
			utils.RespondWithBadRequest(c, "Message must not be empty", nil)
			return
		}
		if len(question) > maxQuestionLength {
			utils.RespondWithBadRequest(c, "Message too long", gin.H{"max_length": maxQuestionLength})
			return
		}

		resp, err := answers.Ask(c.Request.Context(), sessionID, question)
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithNotFound(c, "Session not found")
			return
		}
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to answer question", nil)
			return
		}
		c.JSON(http.StatusOK, resp)
	})

	sessions.GET("/:id/messages", func(c *gin.Context) {
		sessionID, ok := sessionIDParam(c)
		if !ok {
			return
		}

		if _, err := chats.GetSession(c.Request.Context(), sessionID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.RespondWithNotFound(c, "Session not found")
			} else {
				utils.RespondWithInternalError(c, "Failed to load session", nil)
			}
			return
		}

		msgs, err := chats.ListMessages(c.Request.Context(), sessionID, 0)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to load messages", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": msgs, "count": len(msgs)})
	})
}

func sessionIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.RespondWithBadRequest(c, "Invalid session ID", nil)
		return primitive.NilObjectID, false
	}
	return id, true
}
