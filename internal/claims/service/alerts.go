package service

import (
	"context"

	"byggekrav/internal/claims/models"
	"byggekrav/internal/preclusion"
	id "byggekrav/pkg/domain"
	"byggekrav/pkg/platform/audit"
)

// ClaimAlerts is the deadline-risk picture of one claim at the time of the
// request. Optional checks are nil when their preconditions do not hold, e.g.
// no passivity check before a specified claim exists.
type ClaimAlerts struct {
	ClaimID id.ClaimID `json:"claimId"`

	// Notice is the basis-notice ladder: discovery to neutral notice when one
	// was sent, discovery to now otherwise.
	Notice preclusion.Result `json:"notice"`

	// Passivity tracks the client's own response deadline once a specified
	// claim is on the table.
	Passivity *preclusion.Result `json:"passivity,omitempty"`

	// SpecificClaim tracks the separate notice duty for rig/site cost and
	// productivity claims.
	SpecificClaim *preclusion.Result `json:"specificClaim,omitempty"`

	// Specification tracks the duty to specify after a neutral notice, until
	// a specified claim is recorded.
	Specification *preclusion.Result `json:"specification,omitempty"`

	// Compensation is the category-keyed verdict on monetary forfeiture.
	Compensation preclusion.CompensationPreclusion `json:"compensation"`

	// Alerts flattens every non-nil alert from the checks above, in a stable
	// order, for clients that render a single list.
	Alerts []preclusion.Alert `json:"alerts"`
}

// Alerts evaluates every applicable deadline ladder for one claim.
func (s *Service) Alerts(ctx context.Context, claimID id.ClaimID) (*ClaimAlerts, error) {
	ctx, span := s.tracer.Start(ctx, "claims.Alerts")
	defer span.End()

	view, err := s.loadView(ctx, claimID)
	if err != nil {
		return nil, err
	}

	ev := s.evaluatorAt(ctx)
	claim := view.Claim
	out := &ClaimAlerts{ClaimID: claim.ID}

	neutral := view.LatestNotice(models.NoticeNeutral)
	specified := view.LatestNotice(models.NoticeSpecified)
	specRequest := view.LatestNotice(models.NoticeSpecRequest)

	if neutral != nil {
		out.Notice = ev.EvaluateBetweenDates(claim.DiscoveredAt, neutral.SentAt, claim.RuleType, claim.Category)
	} else {
		out.Notice = ev.Evaluate(ev.DaysSince(claim.DiscoveredAt), claim.RuleType, claim.Category)
	}

	// The passivity clock starts when a specified claim reaches the client
	// and stops once a response is issued.
	if specified != nil && claim.Status == models.StatusOpen {
		res := ev.CheckClientPassivity(specified.SentAt, preclusion.ResponseAvslag)
		out.Passivity = &res
	}

	if claim.RuleType == preclusion.RuleRiggDrift {
		res := ev.CheckSpecificClaimDeadline(claim.DiscoveredAt)
		out.SpecificClaim = &res
	}

	if neutral != nil && specified == nil {
		res := ev.CheckSpecificationDeadline(neutral.SentAt, specRequest != nil)
		out.Specification = &res
	}

	out.Compensation = ev.EvaluateCompensationPreclusion(claim.Category, ev.DaysSince(claim.DiscoveredAt))

	out.Alerts = collectAlerts(out)
	for _, alert := range out.Alerts {
		s.metrics.IncrementAlertsRaised(string(alert.Severity))
	}

	s.emitAudit(ctx, &claim, audit.ActionAlertsViewed, string(out.Notice.Status), "")
	return out, nil
}

func collectAlerts(a *ClaimAlerts) []preclusion.Alert {
	alerts := []preclusion.Alert{}
	add := func(r *preclusion.Result) {
		if r != nil && r.Alert != nil {
			alerts = append(alerts, *r.Alert)
		}
	}
	add(&a.Notice)
	add(a.Passivity)
	add(a.SpecificClaim)
	add(a.Specification)
	if a.Compensation.Alert != nil {
		alerts = append(alerts, *a.Compensation.Alert)
	}
	return alerts
}
