package models

import (
	"encoding/json"
	"time"

	id "byggekrav/pkg/domain"
)

// EventType classifies entries in a claim's event log.
type EventType string

const (
	EventClaimSubmitted EventType = "claim_submitted"
	EventNoticeRecorded EventType = "notice_recorded"
	EventResponseIssued EventType = "response_issued"
)

// ClaimEvent is one append-only entry in a claim's log. Seq starts at 1 and
// increases by exactly one per event; the store rejects out-of-order appends.
type ClaimEvent struct {
	ID         id.EventID
	ClaimID    id.ClaimID
	Seq        int
	Type       EventType
	Payload    json.RawMessage
	ActorID    id.PartyID
	OccurredAt time.Time
}

// NoticePayload is the JSON payload of an EventNoticeRecorded entry.
type NoticePayload struct {
	Type   NoticeType `json:"type"`
	SentAt time.Time  `json:"sentAt"`
	Note   string     `json:"note,omitempty"`
}

// ResponsePayload is the JSON payload of an EventResponseIssued entry.
type ResponsePayload struct {
	Track         Track   `json:"track"`
	Justification string  `json:"justification"`
	ApprovedTotal float64 `json:"approvedTotal"`
	ApprovedDays  int     `json:"approvedDays"`
}

// Project folds an ordered event log into the claim's read model. Unknown
// event types are skipped: old logs must stay replayable after the type set
// grows.
func Project(claim Claim, events []ClaimEvent) ClaimView {
	view := ClaimView{Claim: claim}
	for _, ev := range events {
		switch ev.Type {
		case EventNoticeRecorded:
			var p NoticePayload
			if err := json.Unmarshal(ev.Payload, &p); err != nil {
				continue
			}
			view.Notices = append(view.Notices, Notice{Type: p.Type, SentAt: p.SentAt, Note: p.Note})
		case EventResponseIssued:
			var p ResponsePayload
			if err := json.Unmarshal(ev.Payload, &p); err != nil {
				continue
			}
			view.Responses = append(view.Responses, Response{
				Track:         p.Track,
				Justification: p.Justification,
				ApprovedTotal: p.ApprovedTotal,
				ApprovedDays:  p.ApprovedDays,
				IssuedAt:      ev.OccurredAt,
			})
		}
	}
	return view
}

// LatestNotice returns the most recent notice of the given type, or nil.
func (v ClaimView) LatestNotice(t NoticeType) *Notice {
	for i := len(v.Notices) - 1; i >= 0; i-- {
		if v.Notices[i].Type == t {
			return &v.Notices[i]
		}
	}
	return nil
}

// HasResponse reports whether a track has already been responded to.
func (v ClaimView) HasResponse(track Track) bool {
	for _, r := range v.Responses {
		if r.Track == track {
			return true
		}
	}
	return false
}
