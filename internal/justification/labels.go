package justification

// methodTerms carries the terminology a calculation method dictates for the
// amount evaluation: a fixed-price claim is "godkjent/avslått", while
// cost-reimbursement and unit-price claims are "akseptert/ikke akseptert" and
// their subject is the estimate respectively the calculation.
type methodTerms struct {
	Label    string // display name of the method
	Noun     string // subject of the amount sentence, lower case
	Positive string // verb for approval
	Negative string // verb for rejection
}

var termsByMethod = map[Method]methodTerms{
	MethodFastpris: {
		Label:    "fastpris",
		Noun:     "kravet",
		Positive: "godkjennes",
		Negative: "avslås",
	},
	MethodRegning: {
		Label:    "regningsarbeid",
		Noun:     "overslaget",
		Positive: "aksepteres",
		Negative: "aksepteres ikke",
	},
	MethodEnhetspriser: {
		Label:    "kontraktens enhetspriser",
		Noun:     "beregningen",
		Positive: "aksepteres",
		Negative: "aksepteres ikke",
	},
}

// genericTerms is the fallback for unrecognized method codes; composition
// must never fail on an unmapped enum.
var genericTerms = methodTerms{
	Label:    "den foreslåtte oppgjørsmetoden",
	Noun:     "kravet",
	Positive: "godkjennes",
	Negative: "avslås",
}

func termsFor(m Method) methodTerms {
	if t, ok := termsByMethod[m]; ok {
		return t
	}
	return genericTerms
}

// Sub-claim section labels and their notice rule.
const (
	riggLabel          = "Kravet om dekning av økte rigg- og driftskostnader"
	productivityLabel  = "Kravet om dekning av nedsatt produktivitet"
	specificClaimRef   = "NS 8407 pkt. 34.1.3"
	mainClaimNoticeRef = "NS 8407 pkt. 34.1.2"
)
