package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"byggekrav/internal/claims/models"
	id "byggekrav/pkg/domain"
)

// loadClaimAndEvents fetches the claim row and its event log in parallel.
// Both queries hit the same store; the fan-out matters when the row comes
// from the cache and the log from Postgres.
func (s *Service) loadClaimAndEvents(ctx context.Context, claimID id.ClaimID) (*models.Claim, []models.ClaimEvent, error) {
	var (
		claim  *models.Claim
		events []models.ClaimEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.store.GetClaim(gctx, claimID)
		if err != nil {
			return err
		}
		claim = c
		return nil
	})
	g.Go(func() error {
		evs, err := s.store.ListEvents(gctx, claimID)
		if err != nil {
			return err
		}
		events = evs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, s.translateRead(err)
	}
	return claim, events, nil
}
