package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"floorwatch.app/tracker/common/logger"
	"floorwatch.app/tracker/internal/model"
	"floorwatch.app/tracker/internal/queue"
	"floorwatch.app/tracker/internal/store"
)

// Worker drains the issue event stream into the audit-trail collection. It
// runs outside the request path: API responses never wait on it.
type Worker struct {
	consumer *queue.RedisConsumer
	events   store.IssueEventStore

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer *queue.RedisConsumer, events store.IssueEventStore) *Worker {
	return &Worker{
		consumer:  consumer,
		events:    events,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				// Brief backoff on error
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessage(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "message processing failed",
				"error", err,
				"message_id", msg.ID,
				"issue_id", msg.IssueID)
			w.handleFailedMessage(ctx, msg, err)
			continue
		}
		if err := w.consumer.Ack(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "failed to ack message",
				"error", err,
				"message_id", msg.ID)
		}
	}

	return nil
}

func (w *Worker) processMessage(ctx context.Context, msg queue.Message) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		IssueID:   logger.Ptr(msg.IssueID),
		FactoryID: logger.Ptr(msg.FactoryID),
		MessageID: logger.Ptr(msg.ID),
		EventType: logger.Ptr(string(msg.EventType)),
		Component: "tracker.worker",
	})

	slog.InfoContext(ctx, "processing issue event", "attempt", msg.Attempt)

	return w.events.Record(ctx, model.IssueEvent{
		IssueID:    msg.IssueID,
		FactoryID:  msg.FactoryID,
		Type:       msg.EventType,
		Status:     msg.Status,
		OccurredAt: time.Now().UTC(),
	})
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, procErr error) {
	if msg.Attempt >= w.consumer.MaxAttempts() {
		if err := w.consumer.SendDLQ(ctx, msg, procErr.Error()); err != nil {
			slog.ErrorContext(ctx, "failed to send message to DLQ",
				"error", err,
				"message_id", msg.ID)
		}
		return
	}

	if err := w.consumer.Requeue(ctx, msg, procErr.Error()); err != nil {
		slog.ErrorContext(ctx, "failed to requeue message",
			"error", err,
			"message_id", msg.ID)
	}
}
