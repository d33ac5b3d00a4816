package service

import (
	"context"
	"time"

	"byggekrav/internal/preclusion"
	dErrors "byggekrav/pkg/domain-errors"
	"byggekrav/pkg/platform/audit"
	"byggekrav/pkg/requestcontext"
)

// EvaluateInput is one stateless preclusion evaluation: no claim needs to
// exist. NotifiedAt, when set, closes the notice window; otherwise the window
// runs to now.
type EvaluateInput struct {
	Category     preclusion.Category
	RuleType     preclusion.RuleType
	DiscoveredAt time.Time
	NotifiedAt   *time.Time
}

// EvaluateResult pairs the notice ladder verdict with the monetary-forfeiture
// verdict for the category.
type EvaluateResult struct {
	Notice       preclusion.Result                 `json:"notice"`
	Compensation preclusion.CompensationPreclusion `json:"compensation"`
}

// EvaluatePreclusion runs the deadline ladders over caller-supplied dates.
func (s *Service) EvaluatePreclusion(ctx context.Context, in EvaluateInput) (*EvaluateResult, error) {
	ctx, span := s.tracer.Start(ctx, "claims.EvaluatePreclusion")
	defer span.End()

	if in.DiscoveredAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "discoveredAt is required")
	}

	start := time.Now()
	ev := s.evaluatorAt(ctx)

	var notice preclusion.Result
	if in.NotifiedAt != nil {
		notice = ev.EvaluateBetweenDates(in.DiscoveredAt, *in.NotifiedAt, in.RuleType, in.Category)
	} else {
		notice = ev.Evaluate(ev.DaysSince(in.DiscoveredAt), in.RuleType, in.Category)
	}
	compensation := ev.EvaluateCompensationPreclusion(in.Category, ev.DaysSince(in.DiscoveredAt))
	s.metrics.ObserveEvaluateLatency(time.Since(start))

	if err := s.auditor.Emit(ctx, audit.Event{
		Action:    string(audit.ActionPreclusionEvaluated),
		Decision:  string(notice.Status),
		RequestID: requestcontext.RequestID(ctx),
		ActorID:   requestcontext.PartyID(ctx).String(),
		Device:    requestcontext.Device(ctx),
	}); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", audit.ActionPreclusionEvaluated, "error", err)
	}

	return &EvaluateResult{Notice: notice, Compensation: compensation}, nil
}
