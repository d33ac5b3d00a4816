// Package models holds the claim aggregate: the claim record, its
// append-only event log, and the notice/response records projected from it.
package models

import (
	"time"

	"byggekrav/internal/justification"
	"byggekrav/internal/preclusion"
	id "byggekrav/pkg/domain"
)

// ClaimStatus tracks where a claim is in the notice/response workflow.
type ClaimStatus string

const (
	StatusOpen      ClaimStatus = "open"
	StatusResponded ClaimStatus = "responded"
	StatusClosed    ClaimStatus = "closed"
)

// Track names the three response tracks of a claim.
type Track string

const (
	TrackVederlag  Track = "vederlag"
	TrackFrist     Track = "frist"
	TrackForsering Track = "forsering"
)

// ValidTracks is the closed set accepted at the transport boundary.
var ValidTracks = map[Track]bool{
	TrackVederlag:  true,
	TrackFrist:     true,
	TrackForsering: true,
}

// NoticeType classifies a notice in the NS 8407 sequence.
type NoticeType string

const (
	NoticeNeutral     NoticeType = "noytralt_varsel"
	NoticeSpecified   NoticeType = "spesifisert_krav"
	NoticeSpecRequest NoticeType = "krav_om_spesifisering"
)

// ValidNoticeTypes is the closed set accepted at the transport boundary.
var ValidNoticeTypes = map[NoticeType]bool{
	NoticeNeutral:     true,
	NoticeSpecified:   true,
	NoticeSpecRequest: true,
}

// Claim is the current projection of one claim. Version is the sequence
// number of the last applied event; appends carry the expected next sequence
// so concurrent writers cannot silently interleave.
type Claim struct {
	ID         id.ClaimID
	ProjectID  id.ProjectID
	Contractor id.PartyID
	Client     id.PartyID

	// Reference is the human-facing claim number, e.g. "KOE-12".
	Reference string
	Title     string

	Category preclusion.Category
	RuleType preclusion.RuleType
	Method   justification.Method

	ClaimedAmount float64
	ClaimedDays   int

	// DiscoveredAt is when the claimant became aware of the circumstance;
	// every deadline ladder measures from here or from a later notice.
	DiscoveredAt time.Time

	Status    ClaimStatus
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Notice is one recorded notice on a claim.
type Notice struct {
	Type   NoticeType `json:"type"`
	SentAt time.Time  `json:"sentAt"`
	Note   string     `json:"note,omitempty"`
}

// Response is one issued response on a track, carrying the composed
// justification text (possibly supplemented by the responder's comment).
type Response struct {
	Track         Track     `json:"track"`
	Justification string    `json:"justification"`
	ApprovedTotal float64   `json:"approvedTotal"`
	ApprovedDays  int       `json:"approvedDays"`
	IssuedAt      time.Time `json:"issuedAt"`
}

// ClaimView is the full read model handed to clients: the claim plus the
// notices and responses projected from its event log.
type ClaimView struct {
	Claim     Claim
	Notices   []Notice
	Responses []Response
}
