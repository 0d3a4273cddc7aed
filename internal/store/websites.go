// Package store wraps the MongoDB collections behind small repositories so
// services and handlers never build bson filters inline.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"website-chatbot-builder/models"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("document not found")

const queryTimeout = 10 * time.Second

// WebsiteStore persists websites and their ingest state.
type WebsiteStore struct {
	col *mongo.Collection
}

func NewWebsiteStore(db *mongo.Database) *WebsiteStore {
	return &WebsiteStore{col: db.Collection("websites")}
}

// Create inserts a new website in pending state. The unique index on url
// surfaces duplicate registrations as a mongo write error.
func (s *WebsiteStore) Create(ctx context.Context, site *models.Website) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	site.Status = models.WebsiteStatusPending
	site.CreatedAt = now
	site.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, site)
	if err != nil {
		return err
	}
	site.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *WebsiteStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Website, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var site models.Website
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&site)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *WebsiteStore) GetByURL(ctx context.Context, url string) (*models.Website, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var site models.Website
	err := s.col.FindOne(ctx, bson.M{"url": url}).Decode(&site)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}

// List returns all websites, newest first, without the compressed content.
func (s *WebsiteStore) List(ctx context.Context) ([]models.Website, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"content": 0})

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sites []models.Website
	if err := cursor.All(ctx, &sites); err != nil {
		return nil, err
	}
	return sites, nil
}

// SetStatus moves a website through the ingest lifecycle. A non-empty
// errMsg is recorded alongside a failed status and cleared otherwise.
func (s *WebsiteStore) SetStatus(ctx context.Context, id primitive.ObjectID, status, errMsg string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{
		"status":     status,
		"error":      errMsg,
		"updated_at": time.Now().UTC(),
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkIngested records the outcome of a successful ingest run.
func (s *WebsiteStore) MarkIngested(ctx context.Context, id primitive.ObjectID, result IngestResult) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"status":        models.WebsiteStatusReady,
		"error":         "",
		"title":         result.Title,
		"content":       result.Content,
		"compression":   result.Compression,
		"method":        result.Method,
		"pages_crawled": result.PagesCrawled,
		"chunk_count":   result.ChunkCount,
		"ingested_at":   now,
		"updated_at":    now,
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IngestResult carries everything MarkIngested writes back to the website
// document after a crawl and chunking pass.
type IngestResult struct {
	Title        string
	Content      []byte
	Compression  string
	Method       string
	PagesCrawled int
	ChunkCount   int
}

func (s *WebsiteStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
