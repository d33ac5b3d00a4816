// Package audit records who did what to which claim. Events are written
// through a transactional outbox and relayed to Kafka; a materialized table
// serves queries.
package audit

import (
	"time"

	id "byggekrav/pkg/domain"
)

// EventCategory classifies audit events by retention and routing needs.
type EventCategory string

const (
	// CategoryCompliance covers events with contractual significance under
	// NS 8407: anything a party could later rely on in a dispute. These
	// need tamper-evident storage and ten-year retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events kept for debugging and operational
	// visibility. Shorter retention, may be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	ClaimID   id.ClaimID
	ProjectID id.ProjectID
	Subject   string
	Action    string
	Decision  string
	Reason    string
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string
	// ActorID identifies the party member who performed the action.
	ActorID string
	// Device is a human-readable client description parsed from the
	// User-Agent header, e.g. "Chrome 126 on Windows".
	Device string
}

// Action names the auditable claim operations.
type Action string

const (
	ActionClaimSubmitted      Action = "claim_submitted"
	ActionNoticeRecorded      Action = "notice_recorded"
	ActionResponseIssued      Action = "response_issued"
	ActionDraftComposed       Action = "draft_composed"
	ActionPreclusionEvaluated Action = "preclusion_evaluated"
	ActionAlertsViewed        Action = "alerts_viewed"
)

// actionCategories maps each action to its category. Anything that changes
// the legal position of a claim is compliance; read-side activity is
// operations.
var actionCategories = map[Action]EventCategory{
	ActionClaimSubmitted: CategoryCompliance,
	ActionNoticeRecorded: CategoryCompliance,
	ActionResponseIssued: CategoryCompliance,

	ActionDraftComposed:       CategoryOperations,
	ActionPreclusionEvaluated: CategoryOperations,
	ActionAlertsViewed:        CategoryOperations,
}

// Category returns the category for this action. Unknown actions default to
// CategoryOperations.
func (a Action) Category() EventCategory {
	if cat, ok := actionCategories[a]; ok {
		return cat
	}
	return CategoryOperations
}
