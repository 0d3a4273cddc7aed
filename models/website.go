package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Website ingest lifecycle states.
const (
	WebsiteStatusPending   = "pending"
	WebsiteStatusIngesting = "ingesting"
	WebsiteStatusReady     = "ready"
	WebsiteStatusFailed    = "failed"
)

// Website is one registered site and its ingest state. The extracted content
// is stored compressed; the retrieval corpus itself lives in the chunks
// collection.
type Website struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	URL          string             `bson:"url" json:"url"`
	Title        string             `bson:"title,omitempty" json:"title,omitempty"`
	Status       string             `bson:"status" json:"status"`
	Error        string             `bson:"error,omitempty" json:"error,omitempty"`
	Content      []byte             `bson:"content,omitempty" json:"-"`
	Compression  string             `bson:"compression,omitempty" json:"-"`
	Method       string             `bson:"method,omitempty" json:"method,omitempty"`
	PagesCrawled int                `bson:"pages_crawled" json:"pages_crawled"`
	ChunkCount   int                `bson:"chunk_count" json:"chunk_count"`
	MaxPages     int                `bson:"max_pages,omitempty" json:"max_pages,omitempty"`
	RenderJS     bool               `bson:"render_js,omitempty" json:"render_js,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
	IngestedAt   *time.Time         `bson:"ingested_at,omitempty" json:"ingested_at,omitempty"`
}
