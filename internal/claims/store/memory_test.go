package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"byggekrav/internal/claims/models"
	"byggekrav/internal/preclusion"
	id "byggekrav/pkg/domain"
	"byggekrav/pkg/platform/sentinel"
)

func newTestClaim(t *testing.T, reference string) *models.Claim {
	t.Helper()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &models.Claim{
		ID:           id.NewClaimID(),
		ProjectID:    id.NewProjectID(),
		Contractor:   id.NewPartyID(),
		Client:       id.NewPartyID(),
		Reference:    reference,
		Title:        "Endret fundamentering akse 3",
		Category:     preclusion.CategoryEndring,
		DiscoveredAt: now.AddDate(0, 0, -5),
		Status:       models.StatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newTestEvent(claimID id.ClaimID, seq int) *models.ClaimEvent {
	payload, _ := json.Marshal(models.NoticePayload{
		Type:   models.NoticeNeutral,
		SentAt: time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC),
	})
	return &models.ClaimEvent{
		ID:         id.NewEventID(),
		ClaimID:    claimID,
		Seq:        seq,
		Type:       models.EventNoticeRecorded,
		Payload:    payload,
		ActorID:    id.NewPartyID(),
		OccurredAt: time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC),
	}
}

func TestMemoryCreateClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("create then get", func(t *testing.T) {
		s := NewMemory()
		claim := newTestClaim(t, "KOE-1")
		require.NoError(t, s.CreateClaim(ctx, claim))

		got, err := s.GetClaim(ctx, claim.ID)
		require.NoError(t, err)
		assert.Equal(t, claim.Reference, got.Reference)
		assert.Equal(t, models.StatusOpen, got.Status)
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		s := NewMemory()
		claim := newTestClaim(t, "KOE-1")
		require.NoError(t, s.CreateClaim(ctx, claim))
		assert.ErrorIs(t, s.CreateClaim(ctx, claim), sentinel.ErrConflict)
	})

	t.Run("duplicate reference within project conflicts", func(t *testing.T) {
		s := NewMemory()
		first := newTestClaim(t, "KOE-7")
		require.NoError(t, s.CreateClaim(ctx, first))

		second := newTestClaim(t, "KOE-7")
		second.ProjectID = first.ProjectID
		assert.ErrorIs(t, s.CreateClaim(ctx, second), sentinel.ErrConflict)
	})

	t.Run("same reference in another project is fine", func(t *testing.T) {
		s := NewMemory()
		require.NoError(t, s.CreateClaim(ctx, newTestClaim(t, "KOE-7")))
		require.NoError(t, s.CreateClaim(ctx, newTestClaim(t, "KOE-7")))
	})
}

func TestMemoryGetClaim(t *testing.T) {
	s := NewMemory()
	_, err := s.GetClaim(context.Background(), id.NewClaimID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryUpdateClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("updates stored row", func(t *testing.T) {
		s := NewMemory()
		claim := newTestClaim(t, "KOE-2")
		require.NoError(t, s.CreateClaim(ctx, claim))

		claim.Status = models.StatusResponded
		claim.Version = 3
		require.NoError(t, s.UpdateClaim(ctx, claim))

		got, err := s.GetClaim(ctx, claim.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusResponded, got.Status)
		assert.Equal(t, 3, got.Version)
	})

	t.Run("unknown claim", func(t *testing.T) {
		s := NewMemory()
		assert.ErrorIs(t, s.UpdateClaim(ctx, newTestClaim(t, "KOE-3")), sentinel.ErrNotFound)
	})
}

func TestMemoryAppendEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("sequential appends and ordered listing", func(t *testing.T) {
		s := NewMemory()
		claim := newTestClaim(t, "KOE-4")
		require.NoError(t, s.CreateClaim(ctx, claim))

		require.NoError(t, s.AppendEvent(ctx, newTestEvent(claim.ID, 1)))
		require.NoError(t, s.AppendEvent(ctx, newTestEvent(claim.ID, 2)))
		require.NoError(t, s.AppendEvent(ctx, newTestEvent(claim.ID, 3)))

		events, err := s.ListEvents(ctx, claim.ID)
		require.NoError(t, err)
		require.Len(t, events, 3)
		for i, ev := range events {
			assert.Equal(t, i+1, ev.Seq)
		}
	})

	t.Run("gap in sequence conflicts", func(t *testing.T) {
		s := NewMemory()
		claim := newTestClaim(t, "KOE-5")
		require.NoError(t, s.CreateClaim(ctx, claim))

		require.NoError(t, s.AppendEvent(ctx, newTestEvent(claim.ID, 1)))
		assert.ErrorIs(t, s.AppendEvent(ctx, newTestEvent(claim.ID, 3)), sentinel.ErrSequenceConflict)
	})

	t.Run("stale sequence conflicts", func(t *testing.T) {
		s := NewMemory()
		claim := newTestClaim(t, "KOE-6")
		require.NoError(t, s.CreateClaim(ctx, claim))

		require.NoError(t, s.AppendEvent(ctx, newTestEvent(claim.ID, 1)))
		assert.ErrorIs(t, s.AppendEvent(ctx, newTestEvent(claim.ID, 1)), sentinel.ErrSequenceConflict)
	})

	t.Run("unknown claim", func(t *testing.T) {
		s := NewMemory()
		err := s.AppendEvent(ctx, newTestEvent(id.NewClaimID(), 1))
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

func TestMemoryListEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown claim", func(t *testing.T) {
		s := NewMemory()
		_, err := s.ListEvents(ctx, id.NewClaimID())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("empty log for existing claim", func(t *testing.T) {
		s := NewMemory()
		claim := newTestClaim(t, "KOE-8")
		require.NoError(t, s.CreateClaim(ctx, claim))

		events, err := s.ListEvents(ctx, claim.ID)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		s := NewMemory()
		claim := newTestClaim(t, "KOE-9")
		require.NoError(t, s.CreateClaim(ctx, claim))
		require.NoError(t, s.AppendEvent(ctx, newTestEvent(claim.ID, 1)))

		events, err := s.ListEvents(ctx, claim.ID)
		require.NoError(t, err)
		events[0].Seq = 99

		again, err := s.ListEvents(ctx, claim.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, again[0].Seq)
	})
}
