package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ContentChunk is one retrieval chunk of a website's text. Ordinal is the
// join key between the persisted chunk list and the rows of the in-memory
// vector index: ordinal i must always be chunk list position i. Embeddings
// are deliberately not persisted; a rehydrated corpus is re-embedded from
// the chunk text.
type ContentChunk struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WebsiteID primitive.ObjectID `bson:"website_id" json:"website_id"`
	Ordinal   int                `bson:"ordinal" json:"ordinal"`
	Text      string             `bson:"text" json:"text"`
	CharCount int                `bson:"char_count" json:"char_count"`
}
