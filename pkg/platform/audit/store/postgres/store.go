package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "byggekrav/pkg/domain"
	"byggekrav/pkg/platform/audit"
	txcontext "byggekrav/pkg/platform/tx"
)

// Store implements audit.Store with the transactional outbox pattern. Append
// writes to the outbox table inside the caller's transaction when one is in
// context; the relay publishes outbox rows to Kafka, and the consumer
// materializes them into audit_events for querying.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store that writes through the outbox.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Schema creates the outbox and the materialized audit table.
const Schema = `
CREATE TABLE IF NOT EXISTS outbox (
	id             UUID PRIMARY KEY,
	aggregate_type TEXT NOT NULL,
	aggregate_id   TEXT NOT NULL,
	event_type     TEXT NOT NULL,
	payload        JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_events (
	id         UUID PRIMARY KEY,
	category   TEXT NOT NULL,
	timestamp  TIMESTAMPTZ NOT NULL,
	claim_id   UUID,
	project_id UUID,
	subject    TEXT NOT NULL DEFAULT '',
	action     TEXT NOT NULL,
	decision   TEXT NOT NULL DEFAULT '',
	reason     TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT '',
	actor_id   TEXT NOT NULL DEFAULT '',
	device     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS audit_events_claim_idx ON audit_events (claim_id, timestamp DESC);
`

// Migrate applies the audit schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply audit schema: %w", err)
	}
	return nil
}

// outboxPayload is the JSON published to Kafka. Field names match
// audit.Event so the consumer can deserialize directly.
type outboxPayload struct {
	ID        string `json:"ID"`
	Category  string `json:"Category"`
	Timestamp string `json:"Timestamp"`
	ClaimID   string `json:"ClaimID,omitempty"`
	ProjectID string `json:"ProjectID,omitempty"`
	Subject   string `json:"Subject"`
	Action    string `json:"Action"`
	Decision  string `json:"Decision,omitempty"`
	Reason    string `json:"Reason,omitempty"`
	RequestID string `json:"RequestID,omitempty"`
	ActorID   string `json:"ActorID,omitempty"`
	Device    string `json:"Device,omitempty"`
}

// Append writes an audit event to the outbox table for Kafka publishing.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()

	// The action-to-category map is the source of truth, not the caller.
	category := audit.Action(event.Action).Category()

	payload := outboxPayload{
		ID:        eventID.String(),
		Category:  string(category),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Subject:   event.Subject,
		Action:    event.Action,
		Decision:  event.Decision,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		ActorID:   event.ActorID,
		Device:    event.Device,
	}
	if !event.ClaimID.IsNil() {
		payload.ClaimID = event.ClaimID.String()
	}
	if !event.ProjectID.IsNil() {
		payload.ProjectID = event.ProjectID.String()
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	aggregateType := "audit"
	aggregateID := eventID.String()
	if !event.ClaimID.IsNil() {
		aggregateType = "claim"
		aggregateID = event.ClaimID.String()
	}

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = txcontext.Or(ctx, s.db).ExecContext(ctx, query,
		eventID,
		aggregateType,
		aggregateID,
		event.Action,
		payloadBytes,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// AppendWithID materializes an event into audit_events with a fixed ID.
// Used by the Kafka consumer; idempotent via ON CONFLICT DO NOTHING.
func (s *Store) AppendWithID(ctx context.Context, eventID uuid.UUID, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, category, timestamp, claim_id, project_id, subject,
			action, decision, reason, request_id, actor_id, device
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`

	var claimID, projectID *uuid.UUID
	if !event.ClaimID.IsNil() {
		cid := uuid.UUID(event.ClaimID)
		claimID = &cid
	}
	if !event.ProjectID.IsNil() {
		pid := uuid.UUID(event.ProjectID)
		projectID = &pid
	}

	_, err := s.db.ExecContext(ctx, query,
		eventID,
		string(event.Category),
		event.Timestamp,
		claimID,
		projectID,
		event.Subject,
		event.Action,
		event.Decision,
		event.Reason,
		event.RequestID,
		event.ActorID,
		event.Device,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByClaim returns the audit trail for one claim, newest first.
func (s *Store) ListByClaim(ctx context.Context, claimID id.ClaimID) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, claim_id, project_id, subject,
		       action, decision, reason, request_id, actor_id, device
		FROM audit_events
		WHERE claim_id = $1
		ORDER BY timestamp DESC
	`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(claimID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return s.scanEvents(rows)
}

// ListRecent returns the N most recent events across all claims.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, claim_id, project_id, subject,
		       action, decision, reason, request_id, actor_id, device
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return s.scanEvents(rows)
}

func (s *Store) scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event

	for rows.Next() {
		var (
			category           string
			event              audit.Event
			claimID, projectID *uuid.UUID
		)

		err := rows.Scan(
			&category,
			&event.Timestamp,
			&claimID,
			&projectID,
			&event.Subject,
			&event.Action,
			&event.Decision,
			&event.Reason,
			&event.RequestID,
			&event.ActorID,
			&event.Device,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		event.Category = audit.EventCategory(category)
		if claimID != nil {
			event.ClaimID = id.ClaimID(*claimID)
		}
		if projectID != nil {
			event.ProjectID = id.ProjectID(*projectID)
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}

	return events, nil
}
