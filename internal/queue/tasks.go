// Package queue defines the asynq tasks that move website ingestion off the
// request path. Handlers stay thin; the actual crawl/chunk/embed pipeline
// lives in the services package behind the Ingestor interface.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"website-chatbot-builder/internal/logger"
)

const (
	// TaskIngestWebsite crawls a site, chunks its text and builds the
	// retrieval corpus.
	TaskIngestWebsite = "website:ingest"
)

// IngestPayload identifies the website to (re-)ingest. Crawl options such
// as max pages and JS rendering live on the website document itself.
type IngestPayload struct {
	WebsiteID string `json:"website_id"`
	URL       string `json:"url"`
}

// NewIngestTask builds the task that runs one full ingest of a website.
func NewIngestTask(websiteID, url string) (*asynq.Task, error) {
	payload, err := json.Marshal(IngestPayload{
		WebsiteID: websiteID,
		URL:       url,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskIngestWebsite,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue("ingest"),
	), nil
}

// Ingestor runs the ingest pipeline for one website.
type Ingestor interface {
	Ingest(ctx context.Context, websiteID string) error
}

// TaskProcessor dispatches queued tasks to their services.
type TaskProcessor struct {
	ingestor Ingestor
}

func NewTaskProcessor(ingestor Ingestor) *TaskProcessor {
	return &TaskProcessor{ingestor: ingestor}
}

// HandleIngestWebsite processes one website:ingest task. Malformed payloads
// skip retries; pipeline errors are retried by asynq up to MaxRetry.
func (p *TaskProcessor) HandleIngestWebsite(ctx context.Context, t *asynq.Task) error {
	var payload IngestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal ingest payload: %v: %w", err, asynq.SkipRetry)
	}

	logger.Info("processing ingest task", "website_id", payload.WebsiteID, "url", payload.URL)

	if err := p.ingestor.Ingest(ctx, payload.WebsiteID); err != nil {
		logger.Error("ingest task failed", "website_id", payload.WebsiteID, "error", err)
		return err
	}

	logger.Info("ingest task complete", "website_id", payload.WebsiteID)
	return nil
}

// Register attaches all task handlers to an asynq mux.
func (p *TaskProcessor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskIngestWebsite, p.HandleIngestWebsite)
}
