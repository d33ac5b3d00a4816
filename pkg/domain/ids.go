// Package domain holds shared domain primitives: typed identifiers and
// closed enumerations used across bounded contexts.
//
// Typed UUID wrappers prevent cross-assignment between identifier kinds at
// compile time. Construct them via the Parse* functions at trust boundaries;
// direct casting bypasses validation and is reserved for tests and stores.
package domain

import (
	"github.com/google/uuid"

	dErrors "byggekrav/pkg/domain-errors"
)

// ClaimID identifies a claim (krav) across its whole lifecycle.
type ClaimID uuid.UUID

// EventID identifies a single claim event in the event log.
type EventID uuid.UUID

// ProjectID identifies the construction project a claim belongs to.
type ProjectID uuid.UUID

// PartyID identifies a contract party (totalentreprenør or byggherre).
type PartyID uuid.UUID

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be the nil UUID")
	}
	return u, nil
}

// ParseClaimID validates and returns a ClaimID.
func ParseClaimID(s string) (ClaimID, error) {
	u, err := parseUUID("claim id", s)
	return ClaimID(u), err
}

// ParseEventID validates and returns an EventID.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID("event id", s)
	return EventID(u), err
}

// ParseProjectID validates and returns a ProjectID.
func ParseProjectID(s string) (ProjectID, error) {
	u, err := parseUUID("project id", s)
	return ProjectID(u), err
}

// ParsePartyID validates and returns a PartyID.
func ParsePartyID(s string) (PartyID, error) {
	u, err := parseUUID("party id", s)
	return PartyID(u), err
}

// NewClaimID returns a fresh random ClaimID.
func NewClaimID() ClaimID { return ClaimID(uuid.New()) }

// NewEventID returns a fresh random EventID.
func NewEventID() EventID { return EventID(uuid.New()) }

// NewProjectID returns a fresh random ProjectID.
func NewProjectID() ProjectID { return ProjectID(uuid.New()) }

// NewPartyID returns a fresh random PartyID.
func NewPartyID() PartyID { return PartyID(uuid.New()) }

func (id ClaimID) String() string   { return uuid.UUID(id).String() }
func (id EventID) String() string   { return uuid.UUID(id).String() }
func (id ProjectID) String() string { return uuid.UUID(id).String() }
func (id PartyID) String() string   { return uuid.UUID(id).String() }

func (id ClaimID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ProjectID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id PartyID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps the canonical UUID form in JSON payloads and cache
// snapshots instead of the underlying byte array.

func (id ClaimID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id EventID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id ProjectID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id PartyID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }

func (id *ClaimID) UnmarshalText(b []byte) error {
	parsed, err := ParseClaimID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *EventID) UnmarshalText(b []byte) error {
	parsed, err := ParseEventID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ProjectID) UnmarshalText(b []byte) error {
	parsed, err := ParseProjectID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *PartyID) UnmarshalText(b []byte) error {
	parsed, err := ParsePartyID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
