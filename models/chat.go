package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatSession groups the messages of one conversation about one website.
// Conversation history is external state; the retrieval core is stateless
// across messages.
type ChatSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WebsiteID primitive.ObjectID `bson:"website_id" json:"website_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// ChatMessage is one user question or assistant answer in a session.
type ChatMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID primitive.ObjectID `bson:"session_id" json:"session_id"`
	Role      string             `bson:"role" json:"role"`
	Content   string             `bson:"content" json:"content"`
	Sources   []MessageSource    `bson:"sources,omitempty" json:"sources,omitempty"`
	LatencyMS int64              `bson:"latency_ms,omitempty" json:"latency_ms,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// MessageSource records which chunks grounded an assistant answer.
type MessageSource struct {
	Ordinal  int     `bson:"ordinal" json:"ordinal"`
	Distance float64 `bson:"distance" json:"distance"`
	Snippet  string  `bson:"snippet" json:"snippet"`
}

// ChatRequest is the inbound question payload.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse is the outbound answer payload.
type ChatResponse struct {
	Answer  string          `json:"answer"`
	Sources []MessageSource `json:"sources,omitempty"`
}
