package justification

// Method enumerates the NS 8407 compensation calculation methods.
type Method string

const (
	MethodFastpris     Method = "FASTPRIS"       // fixed-price offer
	MethodEnhetspriser Method = "ENHETSPRISER"   // contract unit prices
	MethodRegning      Method = "REGNINGSARBEID" // cost reimbursement
)

// Verdict is the outcome of evaluating a claimed amount or day count.
type Verdict string

const (
	VerdictGodkjent Verdict = "godkjent"
	VerdictDelvis   Verdict = "delvis"
	VerdictAvslatt  Verdict = "avslatt"
)

// AmountClaim is one evaluated monetary claim: the main claim or an itemized
// sub-claim. For a delvis verdict the caller must supply Approved <= Claimed;
// the composer does not enforce the invariant but its output is only
// meaningful under it.
type AmountClaim struct {
	Claimed        float64
	Verdict        Verdict
	Approved       float64 // used for delvis only
	NotifiedInTime bool
}

// approved resolves the effective approved amount for a verdict.
func (c AmountClaim) approved() float64 {
	switch c.Verdict {
	case VerdictGodkjent:
		return c.Claimed
	case VerdictDelvis:
		return c.Approved
	default:
		return 0
	}
}

// CompensationInput is the decision record for a response on the vederlag
// track. It is assembled by the caller from the claim and the responder's
// selections, passed in once, and never stored.
type CompensationInput struct {
	// Method is the calculation method the claimant proposed.
	Method Method
	// AcceptsMethod is false when the responder substitutes DesiredMethod.
	AcceptsMethod bool
	DesiredMethod Method

	// Unit-price adjustment request, when one accompanies the claim.
	HasUnitPriceAdjustment bool
	AdjustmentTimely       bool
	AcceptsAdjustment      bool

	// WithholdsPayment suppresses all amount sections: payment is withheld
	// pending a cost estimate, so only the method section applies.
	WithholdsPayment bool

	MainClaim         *AmountClaim
	RiggClaim         *AmountClaim
	ProductivityClaim *AmountClaim

	// Comment is caller-supplied free text appended under the addendum label.
	Comment string
}

// DeadlineInput is the decision record for a response on the fristforlengelse
// track.
type DeadlineInput struct {
	// IssueSpecificationRequest short-circuits the response: the client is
	// formally requesting that the claim be specified, nothing more.
	IssueSpecificationRequest bool

	// BasisRejected wraps the entire evaluation as subsidiary: the underlying
	// liability basis was rejected on its own track.
	BasisRejected bool

	// Forfeiture family: the response to a formal specification request came
	// too late, or the claim was never specified after a neutral notice.
	PrecludedLateResponse   bool
	PrecludedNeverSpecified bool

	// ReducedLateSpecification is the lesser consequence: the claim was
	// specified, but later than "as soon as grounds existed". It can co-occur
	// with the forfeiture flags, in which case forfeiture is argued as the
	// principal standpoint and reduction as a subsidiary addendum.
	ReducedLateSpecification bool

	ConditionsMet    bool
	ConditionsReason string

	DaysClaimed  int
	DaysApproved int

	// DailyRate is the dagmulkt rate used by the acceleration advisory.
	DailyRate float64

	Comment string
}

// precluded reports whether a forfeiture standpoint applies.
func (in DeadlineInput) precluded() bool {
	return in.PrecludedLateResponse || in.PrecludedNeverSpecified
}

// DenialCase is one earlier denied deadline-extension claim evaluated for an
// acceleration response.
type DenialCase struct {
	// Reference names the underlying claim (free text, e.g. "KOE-12").
	Reference string
	// DaysDenied is the number of extension days that were denied.
	DaysDenied int
	// DenialJustified is the responder's verdict on that denial.
	DenialJustified bool
}

// AccelerationInput is the decision record for a response on the forsering
// track.
type AccelerationInput struct {
	Cases []DenialCase

	// DailyRate is the dagmulkt rate entering the 30 percent cost cap.
	DailyRate float64
	// EstimatedCost is the acceleration cost the claimant notified.
	EstimatedCost float64

	MainCost          *AmountClaim
	RiggClaim         *AmountClaim
	ProductivityClaim *AmountClaim

	Comment string
}

// entitledDays sums the denied days of every denial found unjustified.
func (in AccelerationInput) entitledDays() int {
	total := 0
	for _, c := range in.Cases {
		if !c.DenialJustified {
			total += c.DaysDenied
		}
	}
	return total
}

// ApprovedTotal is the principal approved sum: untimely claims count as
// forfeited and contribute nothing.
func (in CompensationInput) ApprovedTotal() float64 {
	if in.WithholdsPayment {
		return 0
	}
	var total float64
	for _, c := range []*AmountClaim{in.MainClaim, in.RiggClaim, in.ProductivityClaim} {
		if c != nil && c.NotifiedInTime {
			total += c.approved()
		}
	}
	return total
}

// ApprovedDaysTotal is the principal granted extension: zero when the claim
// is precluded, wrapped as subsidiary, or the conditions are not met.
func (in DeadlineInput) ApprovedDaysTotal() int {
	if in.IssueSpecificationRequest || in.precluded() || in.BasisRejected || !in.ConditionsMet {
		return 0
	}
	return in.DaysApproved
}

// ApprovedTotal is the approved acceleration cost: zero without entitlement
// or when the notified estimate exceeds the 30 percent cost limit.
func (in AccelerationInput) ApprovedTotal() float64 {
	days := in.entitledDays()
	if days == 0 {
		return 0
	}
	limit := float64(days) * in.DailyRate * 1.3
	if in.EstimatedCost > limit {
		return 0
	}
	var total float64
	for _, c := range []*AmountClaim{in.MainCost, in.RiggClaim, in.ProductivityClaim} {
		if c != nil && c.NotifiedInTime {
			total += c.approved()
		}
	}
	return total
}
