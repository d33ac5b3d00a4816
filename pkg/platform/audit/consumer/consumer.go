// Package consumer materializes audit events from Kafka into the queryable
// audit_events table. Inserts are idempotent on event ID, so replays from
// the at-least-once relay are harmless.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	id "byggekrav/pkg/domain"
	"byggekrav/pkg/platform/audit"
)

// Materializer is the storage side of the consumer. The audit postgres
// store satisfies it.
type Materializer interface {
	AppendWithID(ctx context.Context, eventID uuid.UUID, event audit.Event) error
}

// Poller abstracts the broker client. *kgo.Client satisfies it.
type Poller interface {
	PollFetches(ctx context.Context) kgo.Fetches
}

// Consumer drains the audit topic into the materialized table.
type Consumer struct {
	client Poller
	store  Materializer
	logger *slog.Logger
}

func New(client Poller, store Materializer, logger *slog.Logger) *Consumer {
	return &Consumer{client: client, store: store, logger: logger}
}

// payload mirrors the outbox JSON written by the audit postgres store.
type payload struct {
	ID        string `json:"ID"`
	Category  string `json:"Category"`
	Timestamp string `json:"Timestamp"`
	ClaimID   string `json:"ClaimID"`
	ProjectID string `json:"ProjectID"`
	Subject   string `json:"Subject"`
	Action    string `json:"Action"`
	Decision  string `json:"Decision"`
	Reason    string `json:"Reason"`
	RequestID string `json:"RequestID"`
	ActorID   string `json:"ActorID"`
	Device    string `json:"Device"`
}

// Run polls until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Warn("audit fetch error", "topic", topic, "partition", partition, "error", err)
		})

		var failed error
		fetches.EachRecord(func(record *kgo.Record) {
			if failed != nil {
				return
			}
			if err := c.handle(ctx, record); err != nil {
				failed = err
			}
		})
		if failed != nil {
			return failed
		}
	}
}

func (c *Consumer) handle(ctx context.Context, record *kgo.Record) error {
	var p payload
	if err := json.Unmarshal(record.Value, &p); err != nil {
		// Malformed messages must not wedge the partition.
		c.logger.Error("malformed audit payload, skipping", "key", string(record.Key), "error", err)
		return nil
	}

	eventID, err := uuid.Parse(p.ID)
	if err != nil {
		c.logger.Error("audit payload with unparseable ID, skipping", "id", p.ID)
		return nil
	}

	event := audit.Event{
		Category:  audit.EventCategory(p.Category),
		Subject:   p.Subject,
		Action:    p.Action,
		Decision:  p.Decision,
		Reason:    p.Reason,
		RequestID: p.RequestID,
		ActorID:   p.ActorID,
		Device:    p.Device,
	}
	if ts, err := time.Parse(time.RFC3339Nano, p.Timestamp); err == nil {
		event.Timestamp = ts
	} else {
		event.Timestamp = time.Now()
	}
	if p.ClaimID != "" {
		if claimID, err := id.ParseClaimID(p.ClaimID); err == nil {
			event.ClaimID = claimID
		}
	}
	if p.ProjectID != "" {
		if projectID, err := id.ParseProjectID(p.ProjectID); err == nil {
			event.ProjectID = projectID
		}
	}

	if err := c.store.AppendWithID(ctx, eventID, event); err != nil {
		return fmt.Errorf("materialize audit event %s: %w", eventID, err)
	}
	return nil
}
