package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: claim or event does not exist in the store
// - ErrConflict: unique constraint hit (duplicate claim reference)
// - ErrSequenceConflict: optimistic append lost the race on the event log
// - ErrInvalidState: claim in wrong status for the requested operation
// - ErrUnavailable: backing store temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrSequenceConflict = errors.New("event sequence conflict")
	ErrInvalidState     = errors.New("invalid state")
	ErrUnavailable      = errors.New("unavailable")
)
