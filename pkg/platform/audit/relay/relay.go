// Package relay moves audit events from the transactional outbox to Kafka.
// Rows are published in insert order and deleted only after the broker
// acknowledges, giving at-least-once delivery; the consumer deduplicates on
// event ID.
package relay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	// Topic carries every audit event; consumers route on the Category
	// field of the payload.
	Topic = "byggekrav.audit.v1"

	defaultBatchSize    = 100
	defaultPollInterval = time.Second
)

// Producer is the broker-facing side of the relay. *kgo.Client satisfies it.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Row is one pending outbox entry.
type Row struct {
	ID          string
	AggregateID string
	Payload     []byte
}

// Outbox is the database-facing side of the relay.
type Outbox interface {
	// Pending returns up to limit rows in insert order.
	Pending(ctx context.Context, limit int) ([]Row, error)
	// Delete removes a published row.
	Delete(ctx context.Context, rowID string) error
}

// SQLOutbox reads the outbox table written by the audit postgres store.
type SQLOutbox struct {
	db *sql.DB
}

func NewSQLOutbox(db *sql.DB) *SQLOutbox {
	return &SQLOutbox{db: db}
}

func (o *SQLOutbox) Pending(ctx context.Context, limit int) ([]Row, error) {
	rows, err := o.db.QueryContext(ctx, `
		SELECT id, aggregate_id, payload
		FROM outbox
		ORDER BY created_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select outbox: %w", err)
	}
	defer rows.Close()

	var pending []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ID, &row.AggregateID, &row.Payload); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		pending = append(pending, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox: %w", err)
	}
	return pending, nil
}

func (o *SQLOutbox) Delete(ctx context.Context, rowID string) error {
	if _, err := o.db.ExecContext(ctx, `DELETE FROM outbox WHERE id = $1`, rowID); err != nil {
		return fmt.Errorf("delete outbox row %s: %w", rowID, err)
	}
	return nil
}

// Relay polls the outbox and publishes pending rows.
type Relay struct {
	outbox   Outbox
	producer Producer
	logger   *slog.Logger

	batchSize    int
	pollInterval time.Duration
}

// Option configures a Relay.
type Option func(*Relay)

// WithBatchSize bounds how many outbox rows one poll publishes.
func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithPollInterval overrides the outbox poll cadence.
func WithPollInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.pollInterval = d
		}
	}
}

// New creates a relay between an outbox and a producer.
func New(outbox Outbox, producer Producer, logger *slog.Logger, opts ...Option) *Relay {
	r := &Relay{
		outbox:       outbox,
		producer:     producer,
		logger:       logger,
		batchSize:    defaultBatchSize,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// EnsureTopic creates the audit topic when it does not exist yet. Call once
// at startup before Run.
func EnsureTopic(ctx context.Context, client *kgo.Client, partitions int32, replicas int16) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopic(ctx, partitions, replicas, nil, Topic)
	if err != nil {
		return fmt.Errorf("create audit topic: %w", err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create audit topic: %w", resp.Err)
	}
	return nil
}

// Run polls until the context is canceled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.PublishPending(ctx); err != nil {
				r.logger.Warn("outbox publish failed", "error", err)
			}
		}
	}
}

// PublishPending publishes one batch. A row is deleted only after its record
// is acknowledged; a mid-batch failure leaves the remainder for the next
// poll.
func (r *Relay) PublishPending(ctx context.Context) error {
	pending, err := r.outbox.Pending(ctx, r.batchSize)
	if err != nil {
		return err
	}

	for _, row := range pending {
		record := &kgo.Record{
			Topic: Topic,
			// Key by aggregate so one claim's trail stays ordered
			// within a partition.
			Key:   []byte(row.AggregateID),
			Value: row.Payload,
		}
		if err := r.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
			return fmt.Errorf("produce outbox row %s: %w", row.ID, err)
		}
		if err := r.outbox.Delete(ctx, row.ID); err != nil {
			return err
		}
	}
	return nil
}
