package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"website-chatbot-builder/models"
)

// ChunkStore persists the retrieval chunks of each website.
type ChunkStore struct {
	col *mongo.Collection
}

func NewChunkStore(db *mongo.Database) *ChunkStore {
	return &ChunkStore{col: db.Collection("chunks")}
}

// Replace swaps the full chunk set of a website in ordinal order. The old
// set is removed first so a re-ingest never leaves stale ordinals behind.
func (s *ChunkStore) Replace(ctx context.Context, websiteID primitive.ObjectID, texts []string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := s.col.DeleteMany(ctx, bson.M{"website_id": websiteID}); err != nil {
		return err
	}
	if len(texts) == 0 {
		return nil
	}

	docs := make([]interface{}, len(texts))
	for i, text := range texts {
		docs[i] = models.ContentChunk{
			WebsiteID: websiteID,
			Ordinal:   i,
			Text:      text,
			CharCount: len(text),
		}
	}
	_, err := s.col.InsertMany(ctx, docs)
	return err
}

// ListTexts returns the chunk texts of a website sorted by ordinal, so that
// slice position i is the text of ordinal i.
func (s *ChunkStore) ListTexts(ctx context.Context, websiteID primitive.ObjectID) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "ordinal", Value: 1}})
	cursor, err := s.col.Find(ctx, bson.M{"website_id": websiteID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chunks []models.ContentChunk
	if err := cursor.All(ctx, &chunks); err != nil {
		return nil, err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts, nil
}

func (s *ChunkStore) Count(ctx context.Context, websiteID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.col.CountDocuments(ctx, bson.M{"website_id": websiteID})
}

// DeleteByWebsite removes all chunks of a website, used when the website
// itself is deleted.
func (s *ChunkStore) DeleteByWebsite(ctx context.Context, websiteID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.col.DeleteMany(ctx, bson.M{"website_id": websiteID})
	return err
}
