package audit

import (
	"context"

	id "byggekrav/pkg/domain"
)

// Store is the persistence port for audit events.
type Store interface {
	// Append records one event. Implementations decide whether that means
	// a direct insert or an outbox row.
	Append(ctx context.Context, event Event) error

	// ListByClaim returns the trail for one claim, newest first.
	ListByClaim(ctx context.Context, claimID id.ClaimID) ([]Event, error)

	// ListRecent returns the N most recent events across all claims.
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
