package justification

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeAcceleration_NoEntitlement(t *testing.T) {
	in := AccelerationInput{
		Cases: []DenialCase{
			{Reference: "KOE-3", DaysDenied: 5, DenialJustified: true},
			{Reference: "KOE-7", DaysDenied: 3, DenialJustified: true},
		},
		DailyRate:     10000,
		EstimatedCost: 90000,
		MainCost:      timelyClaim(90000, VerdictDelvis, 60000),
	}
	got := ComposeAcceleration(in)

	assert.Contains(t, got, "Avslaget på 5 dager fristforlengelse (KOE-3) anses berettiget.")
	assert.Contains(t, got, "har ikke rett til å forsere")

	// The amount evaluation is counterfactual only: no live approval, no
	// cost-cap arithmetic.
	assert.Contains(t, got, "ville ha blitt godkjent delvis, med kr 60 000")
	assert.NotContains(t, got, "1,3")
	assert.NotContains(t, got, "Samlet godkjennes")
}

func TestComposeAcceleration_CapExceeded(t *testing.T) {
	in := AccelerationInput{
		Cases: []DenialCase{
			{Reference: "KOE-4", DaysDenied: 4, DenialJustified: false},
		},
		DailyRate:     10000,
		EstimatedCost: 60000,
		MainCost:      timelyClaim(60000, VerdictGodkjent, 0),
	}
	got := ComposeAcceleration(in)

	// 4 x 10 000 x 1.3 = 52 000 < 60 000: the cap stops composition.
	assert.Contains(t, got, "4 dager × kr 10 000 × 1,3 = kr 52 000")
	assert.Contains(t, got, "overstiger denne grensen")
	assert.NotContains(t, got, "Samlet godkjennes")
	assert.NotContains(t, got, "Forseringskostnaden på kr 60 000 godkjennes")
}

func TestComposeAcceleration_FullEvaluation(t *testing.T) {
	in := AccelerationInput{
		Cases: []DenialCase{
			{Reference: "KOE-2", DaysDenied: 6, DenialJustified: false},
			{Reference: "KOE-5", DaysDenied: 2, DenialJustified: true},
		},
		DailyRate:     10000,
		EstimatedCost: 70000,
		MainCost:      timelyClaim(70000, VerdictGodkjent, 0),
		RiggClaim:     &AmountClaim{Claimed: 20000, Verdict: VerdictGodkjent, NotifiedInTime: false},
	}
	got := ComposeAcceleration(in)

	assert.Contains(t, got, "Avslaget anses uberettiget for KOE-2.")
	assert.Contains(t, got, "For KOE-5 anses avslaget berettiget.")
	assert.Contains(t, got, "pålegg om forsering for 6 dager")

	// 6 x 10 000 x 1.3 = 78 000 >= 70 000: within the cap.
	assert.Contains(t, got, "6 dager × kr 10 000 × 1,3 = kr 78 000")
	assert.Contains(t, got, "ligger innenfor grensen")

	assert.Contains(t, got, "Forseringskostnaden på kr 70 000 godkjennes i sin helhet.")
	assert.Contains(t, got, "Prinsipalt: Kravet om dekning av økte rigg- og driftskostnader er ikke varslet særskilt")
	assert.Contains(t, got, "Samlet godkjennes kr 70 000 av et samlet forseringskrav på kr 90 000.")
	assert.Contains(t, got, "ville samlet godkjent beløp utgjort kr 90 000.")
}

func TestComposeAcceleration_NoCases(t *testing.T) {
	got := ComposeAcceleration(AccelerationInput{MainCost: timelyClaim(10000, VerdictAvslatt, 0)})
	assert.Contains(t, got, "ingen avslåtte krav om fristforlengelse")
	assert.Contains(t, got, "ville ikke ha blitt godkjent")
}

func TestComposeAcceleration_Determinism(t *testing.T) {
	in := AccelerationInput{
		Cases:         []DenialCase{{Reference: "KOE-1", DaysDenied: 3, DenialJustified: false}},
		DailyRate:     7500,
		EstimatedCost: 20000,
		MainCost:      timelyClaim(20000, VerdictGodkjent, 0),
		Comment:       "Forsering vurdert mot fremdriftsplan rev. C.",
	}
	first := ComposeAcceleration(in)
	second := ComposeAcceleration(in)
	require.Equal(t, first, second)
	assert.True(t, strings.HasSuffix(first, "Forsering vurdert mot fremdriftsplan rev. C."))
}
