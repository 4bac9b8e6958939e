package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"floorwatch.app/tracker/internal/model"
)

// EventMessage is one issue lifecycle event on the stream.
type EventMessage struct {
	IssueID   string
	FactoryID string
	EventType model.IssueEventType
	Status    model.Status
	Attempt   int
}

type Producer interface {
	Enqueue(ctx context.Context, msg EventMessage) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, msg EventMessage) error {
	attempt := msg.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	fields := map[string]any{
		"issue_id":   msg.IssueID,
		"factory_id": msg.FactoryID,
		"event_type": string(msg.EventType),
		"status":     string(msg.Status),
		"attempt":    attempt,
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue issue event: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued issue event", "issue_id", msg.IssueID, "factory_id", msg.FactoryID, "event_type", msg.EventType, "attempt", attempt)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
