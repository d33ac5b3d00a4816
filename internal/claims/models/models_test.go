package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "byggekrav/pkg/domain"
)

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestProject(t *testing.T) {
	claimID := id.NewClaimID()
	claim := Claim{ID: claimID, Status: StatusOpen, Version: 3}
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	events := []ClaimEvent{
		{ClaimID: claimID, Seq: 1, Type: EventClaimSubmitted, Payload: json.RawMessage(`{}`), OccurredAt: base},
		{ClaimID: claimID, Seq: 2, Type: EventNoticeRecorded, OccurredAt: base.AddDate(0, 0, 1),
			Payload: mustMarshal(t, NoticePayload{Type: NoticeNeutral, SentAt: base.AddDate(0, 0, 1)})},
		{ClaimID: claimID, Seq: 3, Type: EventResponseIssued, OccurredAt: base.AddDate(0, 0, 10),
			Payload: mustMarshal(t, ResponsePayload{Track: TrackFrist, Justification: "Innvilges.", ApprovedDays: 5})},
	}

	view := Project(claim, events)
	require.Len(t, view.Notices, 1)
	assert.Equal(t, NoticeNeutral, view.Notices[0].Type)
	require.Len(t, view.Responses, 1)
	assert.Equal(t, TrackFrist, view.Responses[0].Track)
	assert.Equal(t, 5, view.Responses[0].ApprovedDays)
	assert.Equal(t, base.AddDate(0, 0, 10), view.Responses[0].IssuedAt)
}

func TestProjectSkipsUnknownAndMalformed(t *testing.T) {
	claimID := id.NewClaimID()
	events := []ClaimEvent{
		{ClaimID: claimID, Seq: 1, Type: "claim_archived", Payload: json.RawMessage(`{}`)},
		{ClaimID: claimID, Seq: 2, Type: EventNoticeRecorded, Payload: json.RawMessage(`not json`)},
	}

	view := Project(Claim{ID: claimID}, events)
	assert.Empty(t, view.Notices)
	assert.Empty(t, view.Responses)
}

func TestLatestNotice(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	view := ClaimView{Notices: []Notice{
		{Type: NoticeNeutral, SentAt: base},
		{Type: NoticeSpecified, SentAt: base.AddDate(0, 0, 5)},
		{Type: NoticeNeutral, SentAt: base.AddDate(0, 0, 8)},
	}}

	latest := view.LatestNotice(NoticeNeutral)
	require.NotNil(t, latest)
	assert.Equal(t, base.AddDate(0, 0, 8), latest.SentAt)

	assert.Nil(t, view.LatestNotice(NoticeSpecRequest))
}

func TestHasResponse(t *testing.T) {
	view := ClaimView{Responses: []Response{{Track: TrackVederlag}}}
	assert.True(t, view.HasResponse(TrackVederlag))
	assert.False(t, view.HasResponse(TrackFrist))
	assert.False(t, view.HasResponse(TrackForsering))
}
