package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"byggekrav/internal/claims/models"
	"byggekrav/internal/justification"
	id "byggekrav/pkg/domain"
	dErrors "byggekrav/pkg/domain-errors"
	"byggekrav/pkg/platform/audit"
	"byggekrav/pkg/requestcontext"
)

// RespondInput carries the responder's decision record for one track. Exactly
// one of the three inputs must be set, matching the track.
type RespondInput struct {
	Track models.Track

	Compensation *justification.CompensationInput
	Deadline     *justification.DeadlineInput
	Acceleration *justification.AccelerationInput
}

func (in RespondInput) validate() error {
	if !models.ValidTracks[in.Track] {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid track: "+string(in.Track))
	}
	switch in.Track {
	case models.TrackVederlag:
		if in.Compensation == nil {
			return dErrors.New(dErrors.CodeInvalidInput, "compensation decision is required for the vederlag track")
		}
	case models.TrackFrist:
		if in.Deadline == nil {
			return dErrors.New(dErrors.CodeInvalidInput, "deadline decision is required for the frist track")
		}
	case models.TrackForsering:
		if in.Acceleration == nil {
			return dErrors.New(dErrors.CodeInvalidInput, "acceleration decision is required for the forsering track")
		}
	}
	return nil
}

// compose renders the justification text and resolves the approved totals
// for the track.
func (in RespondInput) compose() (text string, approvedTotal float64, approvedDays int) {
	switch in.Track {
	case models.TrackVederlag:
		return justification.ComposeCompensation(*in.Compensation), in.Compensation.ApprovedTotal(), 0
	case models.TrackFrist:
		return justification.ComposeDeadline(*in.Deadline), 0, in.Deadline.ApprovedDaysTotal()
	default:
		return justification.ComposeAcceleration(*in.Acceleration), in.Acceleration.ApprovedTotal(), 0
	}
}

// Respond issues the response on one track: composes the justification,
// appends the response event, and marks the claim responded. Each track can
// be responded to once.
func (s *Service) Respond(ctx context.Context, claimID id.ClaimID, in RespondInput) (*models.Response, error) {
	ctx, span := s.tracer.Start(ctx, "claims.Respond")
	defer span.End()

	if err := in.validate(); err != nil {
		return nil, err
	}

	claim, events, err := s.loadClaimAndEvents(ctx, claimID)
	if err != nil {
		return nil, err
	}
	view := models.Project(*claim, events)
	if view.HasResponse(in.Track) {
		return nil, dErrors.New(dErrors.CodeConflict, "track already responded: "+string(in.Track))
	}

	start := time.Now()
	text, approvedTotal, approvedDays := in.compose()
	s.metrics.ObserveComposeLatency(string(in.Track), time.Since(start))

	now := requestcontext.Now(ctx)
	payload, err := json.Marshal(models.ResponsePayload{
		Track:         in.Track,
		Justification: text,
		ApprovedTotal: approvedTotal,
		ApprovedDays:  approvedDays,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to encode event payload", err)
	}
	event := &models.ClaimEvent{
		ID:         id.NewEventID(),
		ClaimID:    claim.ID,
		Seq:        claim.Version + 1,
		Type:       models.EventResponseIssued,
		Payload:    payload,
		ActorID:    requestcontext.PartyID(ctx),
		OccurredAt: now,
	}
	if err := s.store.AppendEvent(ctx, event); err != nil {
		return nil, s.translateAppend(err)
	}

	claim.Version = event.Seq
	claim.Status = models.StatusResponded
	claim.UpdatedAt = now
	if err := s.store.UpdateClaim(ctx, claim); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to update claim", err)
	}

	s.emitAudit(ctx, claim, audit.ActionResponseIssued, string(in.Track),
		fmt.Sprintf("approved_total=%.2f approved_days=%d", approvedTotal, approvedDays))
	s.metrics.IncrementResponsesIssued(string(in.Track))
	s.logger.InfoContext(ctx, "response issued",
		"claim_id", claim.ID.String(),
		"track", in.Track,
		"approved_total", approvedTotal,
		"approved_days", approvedDays)

	return &models.Response{
		Track:         in.Track,
		Justification: text,
		ApprovedTotal: approvedTotal,
		ApprovedDays:  approvedDays,
		IssuedAt:      now,
	}, nil
}

// ComposeDraft renders the justification for a decision record without
// persisting anything, so responders can iterate on wording before issuing.
func (s *Service) ComposeDraft(ctx context.Context, claimID id.ClaimID, in RespondInput) (*models.Response, error) {
	ctx, span := s.tracer.Start(ctx, "claims.ComposeDraft")
	defer span.End()

	if err := in.validate(); err != nil {
		return nil, err
	}
	claim, err := s.store.GetClaim(ctx, claimID)
	if err != nil {
		return nil, s.translateRead(err)
	}

	start := time.Now()
	text, approvedTotal, approvedDays := in.compose()
	s.metrics.ObserveComposeLatency(string(in.Track), time.Since(start))

	s.emitAudit(ctx, claim, audit.ActionDraftComposed, string(in.Track), "")
	return &models.Response{
		Track:         in.Track,
		Justification: text,
		ApprovedTotal: approvedTotal,
		ApprovedDays:  approvedDays,
		IssuedAt:      requestcontext.Now(ctx),
	}, nil
}
