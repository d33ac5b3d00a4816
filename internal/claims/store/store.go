// Package store persists claims and their event logs. Two implementations
// exist: an in-memory store for tests and single-node development, and a
// PostgreSQL store for production. A Redis-backed snapshot cache can wrap
// either for read-heavy deployments.
package store

import (
	"context"

	"byggekrav/internal/claims/models"
	id "byggekrav/pkg/domain"
)

// Store is the persistence port of the claims service. Implementations
// return pkg/platform/sentinel errors for infrastructure facts; the service
// translates them into coded domain errors.
type Store interface {
	// CreateClaim inserts a new claim. ErrConflict when the reference is
	// already taken within the project.
	CreateClaim(ctx context.Context, claim *models.Claim) error

	// GetClaim fetches the current claim row. ErrNotFound when absent.
	GetClaim(ctx context.Context, claimID id.ClaimID) (*models.Claim, error)

	// UpdateClaim persists projection fields (status, version, timestamps).
	UpdateClaim(ctx context.Context, claim *models.Claim) error

	// AppendEvent appends to the claim's log. The event's Seq must be
	// exactly one past the stored head; ErrSequenceConflict otherwise.
	AppendEvent(ctx context.Context, event *models.ClaimEvent) error

	// ListEvents returns the claim's events in sequence order.
	ListEvents(ctx context.Context, claimID id.ClaimID) ([]models.ClaimEvent, error)
}
