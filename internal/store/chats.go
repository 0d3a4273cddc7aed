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

// ChatStore persists chat sessions and their messages.
type ChatStore struct {
	sessions *mongo.Collection
	messages *mongo.Collection
}

func NewChatStore(db *mongo.Database) *ChatStore {
	return &ChatStore{
		sessions: db.Collection("chat_sessions"),
		messages: db.Collection("messages"),
	}
}

func (s *ChatStore) CreateSession(ctx context.Context, websiteID primitive.ObjectID) (*models.ChatSession, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	session := &models.ChatSession{
		WebsiteID: websiteID,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.sessions.InsertOne(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = res.InsertedID.(primitive.ObjectID)
	return session, nil
}

func (s *ChatStore) GetSession(ctx context.Context, id primitive.ObjectID) (*models.ChatSession, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var session models.ChatSession
	err := s.sessions.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *ChatStore) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	msg.CreatedAt = time.Now().UTC()
	res, err := s.messages.InsertOne(ctx, msg)
	if err != nil {
		return err
	}
	msg.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// ListMessages returns a session's messages in chronological order,
// capped at limit when limit > 0.
func (s *ChatStore) ListMessages(ctx context.Context, sessionID primitive.ObjectID, limit int64) ([]models.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.messages.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var msgs []models.ChatMessage
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// DeleteByWebsite removes all sessions of a website together with their
// messages, used when the website itself is deleted.
func (s *ChatStore) DeleteByWebsite(ctx context.Context, websiteID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := s.sessions.Find(ctx, bson.M{"website_id": websiteID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return err
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	if len(ids) > 0 {
		if _, err := s.messages.DeleteMany(ctx, bson.M{"session_id": bson.M{"$in": ids}}); err != nil {
			return err
		}
	}
	_, err = s.sessions.DeleteMany(ctx, bson.M{"website_id": websiteID})
	return err
}
