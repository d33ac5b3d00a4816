package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/google/uuid"

	"byggekrav/internal/claims/models"
	"byggekrav/internal/justification"
	"byggekrav/internal/preclusion"
	id "byggekrav/pkg/domain"
	"byggekrav/pkg/platform/sentinel"
)

// Postgres persists claims and event logs with pgx. Event appends rely on
// the (claim_id, seq) primary key: a lost optimistic race surfaces as a
// unique violation and is reported as ErrSequenceConflict.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Schema is the DDL for the claims tables. Applied by Migrate; kept here so
// integration tests and deploy tooling share one definition.
const Schema = `
CREATE TABLE IF NOT EXISTS claims (
	id             UUID PRIMARY KEY,
	project_id     UUID NOT NULL,
	contractor_id  UUID NOT NULL,
	client_id      UUID NOT NULL,
	reference      TEXT NOT NULL,
	title          TEXT NOT NULL,
	category       TEXT NOT NULL,
	rule_type      TEXT NOT NULL,
	method         TEXT NOT NULL,
	claimed_amount DOUBLE PRECISION NOT NULL,
	claimed_days   INTEGER NOT NULL,
	discovered_at  TIMESTAMPTZ NOT NULL,
	status         TEXT NOT NULL,
	version        INTEGER NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL,
	UNIQUE (project_id, reference)
);

CREATE TABLE IF NOT EXISTS claim_events (
	claim_id    UUID NOT NULL REFERENCES claims (id),
	seq         INTEGER NOT NULL,
	id          UUID NOT NULL,
	event_type  TEXT NOT NULL,
	payload     JSONB NOT NULL,
	actor_id    UUID NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (claim_id, seq)
);
`

// Migrate applies the schema.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply claims schema: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Postgres) CreateClaim(ctx context.Context, claim *models.Claim) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO claims (
			id, project_id, contractor_id, client_id, reference, title,
			category, rule_type, method, claimed_amount, claimed_days,
			discovered_at, status, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		uuid.UUID(claim.ID), uuid.UUID(claim.ProjectID), uuid.UUID(claim.Contractor),
		uuid.UUID(claim.Client), claim.Reference, claim.Title,
		string(claim.Category), string(claim.RuleType), string(claim.Method),
		claim.ClaimedAmount, claim.ClaimedDays,
		claim.DiscoveredAt, string(claim.Status), claim.Version,
		claim.CreatedAt, claim.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

func (s *Postgres) GetClaim(ctx context.Context, claimID id.ClaimID) (*models.Claim, error) {
	var (
		claim                              models.Claim
		cid, pid, contractorID, clientID   uuid.UUID
		category, ruleType, method, status string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, project_id, contractor_id, client_id, reference, title,
		       category, rule_type, method, claimed_amount, claimed_days,
		       discovered_at, status, version, created_at, updated_at
		FROM claims WHERE id = $1`, uuid.UUID(claimID),
	).Scan(
		&cid, &pid, &contractorID, &clientID, &claim.Reference, &claim.Title,
		&category, &ruleType, &method, &claim.ClaimedAmount, &claim.ClaimedDays,
		&claim.DiscoveredAt, &status, &claim.Version, &claim.CreatedAt, &claim.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select claim: %w", err)
	}
	claim.ID = id.ClaimID(cid)
	claim.ProjectID = id.ProjectID(pid)
	claim.Contractor = id.PartyID(contractorID)
	claim.Client = id.PartyID(clientID)
	claim.Category = preclusion.Category(category)
	claim.RuleType = preclusion.RuleType(ruleType)
	claim.Method = justification.Method(method)
	claim.Status = models.ClaimStatus(status)
	return &claim, nil
}

func (s *Postgres) UpdateClaim(ctx context.Context, claim *models.Claim) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE claims
		SET status = $2, version = $3, updated_at = $4,
		    claimed_amount = $5, claimed_days = $6
		WHERE id = $1`,
		uuid.UUID(claim.ID), string(claim.Status), claim.Version, claim.UpdatedAt,
		claim.ClaimedAmount, claim.ClaimedDays,
	)
	if err != nil {
		return fmt.Errorf("update claim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) AppendEvent(ctx context.Context, event *models.ClaimEvent) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO claim_events (claim_id, seq, id, event_type, payload, actor_id, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		uuid.UUID(event.ClaimID), event.Seq, uuid.UUID(event.ID),
		string(event.Type), []byte(event.Payload), uuid.UUID(event.ActorID), event.OccurredAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrSequenceConflict
	}
	if err != nil {
		return fmt.Errorf("append claim event: %w", err)
	}
	return nil
}

func (s *Postgres) ListEvents(ctx context.Context, claimID id.ClaimID) ([]models.ClaimEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT claim_id, seq, id, event_type, payload, actor_id, occurred_at
		FROM claim_events WHERE claim_id = $1 ORDER BY seq`, uuid.UUID(claimID))
	if err != nil {
		return nil, fmt.Errorf("select claim events: %w", err)
	}
	defer rows.Close()

	var events []models.ClaimEvent
	for rows.Next() {
		var (
			ev                models.ClaimEvent
			cid, eid, actorID uuid.UUID
			eventType         string
		)
		if err := rows.Scan(&cid, &ev.Seq, &eid, &eventType, &ev.Payload, &actorID, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan claim event: %w", err)
		}
		ev.ClaimID = id.ClaimID(cid)
		ev.ID = id.EventID(eid)
		ev.ActorID = id.PartyID(actorID)
		ev.Type = models.EventType(eventType)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claim events: %w", err)
	}
	return events, nil
}
