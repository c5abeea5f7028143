// Package events publishes crawl-run lifecycle events to Redis Streams.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hoehoe5252-yong/yong2/internal/logger"
	"github.com/hoehoe5252-yong/yong2/internal/models"
)

// StreamName is the Redis stream crawl-run events land on.
const StreamName = "yong2:crawl-runs"

// RunEvent is the wire form of a closed crawl run.
type RunEvent struct {
	EventID      uuid.UUID        `json:"event_id"`
	Timestamp    time.Time        `json:"timestamp"`
	RunID        string           `json:"run_id"`
	SourceID     string           `json:"source_id"`
	Status       models.RunStatus `json:"status"`
	ArticleCount int              `json:"article_count"`
	ErrorMessage string           `json:"error_message,omitempty"`
}

// Publisher publishes run events to Redis Streams. A nil publisher is a
// valid no-op, so callers never branch on whether events are enabled.
type Publisher struct {
	client *redis.Client
	log    logger.Logger
}

// NewPublisher creates an event publisher. Returns nil if client is nil.
func NewPublisher(client *redis.Client, log logger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	return &Publisher{
		client: client,
		log:    log,
	}
}

// RunClosed publishes a terminal run to the stream.
func (p *Publisher) RunClosed(ctx context.Context, run *models.CrawlRun) error {
	if p == nil || p.client == nil {
		return nil
	}

	event := RunEvent{
		EventID:      uuid.New(),
		Timestamp:    time.Now().UTC(),
		RunID:        run.ID,
		SourceID:     run.SourceID,
		Status:       run.Status,
		ArticleCount: run.ArticleCount,
		ErrorMessage: run.ErrorMessage,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		Values: map[string]any{
			"event": string(payload),
		},
	})

	if publishErr := result.Err(); publishErr != nil {
		if p.log != nil {
			p.log.Error("Failed to publish run event",
				logger.String("run_id", run.ID),
				logger.String("source_id", run.SourceID),
				logger.Error(publishErr),
			)
		}
		return fmt.Errorf("publish to stream: %w", publishErr)
	}

	if p.log != nil {
		p.log.Info("Published run event",
			logger.String("run_id", run.ID),
			logger.String("source_id", run.SourceID),
			logger.String("status", string(run.Status)),
			logger.String("stream_id", result.Val()),
		)
	}

	return nil
}
