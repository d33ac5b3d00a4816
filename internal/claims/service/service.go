// Package service orchestrates the claims workflow: submitting claims,
// recording notices, evaluating deadline risk, and issuing responses with
// composed justification text. Handlers stay thin; domain rules live in
// internal/preclusion and internal/justification.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"byggekrav/internal/claims/models"
	"byggekrav/internal/claims/store"
	"byggekrav/internal/justification"
	"byggekrav/internal/platform/metrics"
	"byggekrav/internal/preclusion"
	id "byggekrav/pkg/domain"
	dErrors "byggekrav/pkg/domain-errors"
	"byggekrav/pkg/platform/audit"
	"byggekrav/pkg/platform/sentinel"
	"byggekrav/pkg/requestcontext"
)

// AuditPublisher records audit events. Satisfied by
// pkg/platform/audit/publisher.Publisher.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service coordinates stores, the deadline evaluator, and the justification
// composers for one claims workflow.
type Service struct {
	store      store.Store
	thresholds preclusion.Thresholds
	auditor    AuditPublisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

// NewService builds a Service. metrics may be nil in tests.
func NewService(st store.Store, thresholds preclusion.Thresholds, auditor AuditPublisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:      st,
		thresholds: thresholds,
		auditor:    auditor,
		logger:     logger,
		metrics:    m,
		tracer:     otel.Tracer("byggekrav/claims"),
	}
}

// evaluatorAt builds an evaluator pinned to the request clock, so a request
// carrying an injected time sees consistent day counts across every check.
func (s *Service) evaluatorAt(ctx context.Context) *preclusion.Evaluator {
	now := requestcontext.Now(ctx)
	return preclusion.NewEvaluator(s.thresholds, preclusion.WithClock(func() time.Time { return now }))
}

// SubmitInput carries the fields of a new claim. The transport layer has
// already validated formats; the service enforces business rules.
type SubmitInput struct {
	ProjectID  id.ProjectID
	Contractor id.PartyID
	Client     id.PartyID

	Reference string
	Title     string

	Category preclusion.Category
	RuleType preclusion.RuleType
	Method   justification.Method

	ClaimedAmount float64
	ClaimedDays   int
	DiscoveredAt  time.Time
}

// submittedPayload is the claim_submitted event body. It snapshots the fields
// a later reader needs without refetching the claim row.
type submittedPayload struct {
	Reference     string              `json:"reference"`
	Title         string              `json:"title"`
	Category      preclusion.Category `json:"category"`
	ClaimedAmount float64             `json:"claimedAmount"`
	ClaimedDays   int                 `json:"claimedDays"`
}

// Submit registers a new claim and its first event.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "claims.Submit")
	defer span.End()

	if in.DiscoveredAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "discoveredAt is required")
	}
	now := requestcontext.Now(ctx)
	if in.DiscoveredAt.After(now) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "discoveredAt cannot be in the future")
	}

	claim := &models.Claim{
		ID:            id.NewClaimID(),
		ProjectID:     in.ProjectID,
		Contractor:    in.Contractor,
		Client:        in.Client,
		Reference:     in.Reference,
		Title:         in.Title,
		Category:      in.Category,
		RuleType:      in.RuleType,
		Method:        in.Method,
		ClaimedAmount: in.ClaimedAmount,
		ClaimedDays:   in.ClaimedDays,
		DiscoveredAt:  in.DiscoveredAt,
		Status:        models.StatusOpen,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateClaim(ctx, claim); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "claim reference already in use within the project")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to create claim", err)
	}

	payload, err := json.Marshal(submittedPayload{
		Reference:     claim.Reference,
		Title:         claim.Title,
		Category:      claim.Category,
		ClaimedAmount: claim.ClaimedAmount,
		ClaimedDays:   claim.ClaimedDays,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to encode event payload", err)
	}
	event := &models.ClaimEvent{
		ID:         id.NewEventID(),
		ClaimID:    claim.ID,
		Seq:        1,
		Type:       models.EventClaimSubmitted,
		Payload:    payload,
		ActorID:    requestcontext.PartyID(ctx),
		OccurredAt: now,
	}
	if err := s.store.AppendEvent(ctx, event); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to record claim event", err)
	}

	s.emitAudit(ctx, claim, audit.ActionClaimSubmitted, string(claim.Category), claim.Reference)
	s.metrics.IncrementClaimsSubmitted()
	s.logger.InfoContext(ctx, "claim submitted",
		"claim_id", claim.ID.String(),
		"project_id", claim.ProjectID.String(),
		"reference", claim.Reference,
		"category", claim.Category)
	return claim, nil
}

// Get returns the full projection of one claim.
func (s *Service) Get(ctx context.Context, claimID id.ClaimID) (*models.ClaimView, error) {
	ctx, span := s.tracer.Start(ctx, "claims.Get")
	defer span.End()
	return s.loadView(ctx, claimID)
}

// NoticeInput carries one notice to record on a claim.
type NoticeInput struct {
	Type   models.NoticeType
	SentAt time.Time
	Note   string
}

// RecordNotice appends a notice to the claim's event log.
func (s *Service) RecordNotice(ctx context.Context, claimID id.ClaimID, in NoticeInput) (*models.Notice, error) {
	ctx, span := s.tracer.Start(ctx, "claims.RecordNotice")
	defer span.End()

	if !models.ValidNoticeTypes[in.Type] {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid notice type: "+string(in.Type))
	}
	if in.SentAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "sentAt is required")
	}

	claim, err := s.store.GetClaim(ctx, claimID)
	if err != nil {
		return nil, s.translateRead(err)
	}

	now := requestcontext.Now(ctx)
	payload, err := json.Marshal(models.NoticePayload{Type: in.Type, SentAt: in.SentAt, Note: in.Note})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to encode event payload", err)
	}
	event := &models.ClaimEvent{
		ID:         id.NewEventID(),
		ClaimID:    claim.ID,
		Seq:        claim.Version + 1,
		Type:       models.EventNoticeRecorded,
		Payload:    payload,
		ActorID:    requestcontext.PartyID(ctx),
		OccurredAt: now,
	}
	if err := s.store.AppendEvent(ctx, event); err != nil {
		return nil, s.translateAppend(err)
	}

	claim.Version = event.Seq
	claim.UpdatedAt = now
	if err := s.store.UpdateClaim(ctx, claim); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to update claim", err)
	}

	s.emitAudit(ctx, claim, audit.ActionNoticeRecorded, string(in.Type), in.Note)
	s.metrics.IncrementNoticesRecorded(string(in.Type))
	s.logger.InfoContext(ctx, "notice recorded",
		"claim_id", claim.ID.String(),
		"notice_type", in.Type,
		"seq", event.Seq)
	return &models.Notice{Type: in.Type, SentAt: in.SentAt, Note: in.Note}, nil
}

// loadView fetches the claim row and its event log concurrently and folds
// them into the read model.
func (s *Service) loadView(ctx context.Context, claimID id.ClaimID) (*models.ClaimView, error) {
	claim, events, err := s.loadClaimAndEvents(ctx, claimID)
	if err != nil {
		return nil, err
	}
	view := models.Project(*claim, events)
	return &view, nil
}

func (s *Service) emitAudit(ctx context.Context, claim *models.Claim, action audit.Action, decision, reason string) {
	event := audit.Event{
		ClaimID:   claim.ID,
		ProjectID: claim.ProjectID,
		Subject:   claim.Reference,
		Action:    string(action),
		Decision:  decision,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
		ActorID:   requestcontext.PartyID(ctx).String(),
		Device:    requestcontext.Device(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}

// translateRead maps store sentinels on read paths.
func (s *Service) translateRead(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "claim not found")
	}
	return dErrors.Wrap(dErrors.CodeInternal, "failed to load claim", err)
}

// translateAppend maps store sentinels on event-append paths. A sequence
// conflict means a concurrent writer got there first; the client should
// refetch and retry.
func (s *Service) translateAppend(err error) error {
	if errors.Is(err, sentinel.ErrSequenceConflict) {
		return dErrors.New(dErrors.CodeConflict, "claim was modified concurrently, retry with current state")
	}
	return dErrors.Wrap(dErrors.CodeInternal, "failed to record claim event", err)
}
