package handler

import (
	"strings"
	"time"

	"byggekrav/internal/claims/models"
	"byggekrav/internal/claims/service"
	"byggekrav/internal/justification"
	"byggekrav/internal/preclusion"
	id "byggekrav/pkg/domain"
	dErrors "byggekrav/pkg/domain-errors"
)

// dateLayout is the wire format for domain dates. Notices and discoveries
// are calendar dates, not instants.
const dateLayout = "2006-01-02"

var validCategories = map[preclusion.Category]bool{
	preclusion.CategoryEndring:      true,
	preclusion.CategorySvikt:        true,
	preclusion.CategoryAndre:        true,
	preclusion.CategoryForceMajeure: true,
}

var validRuleTypes = map[preclusion.RuleType]bool{
	preclusion.RuleDefault:     true,
	preclusion.RuleRiggDrift:   true,
	preclusion.RuleIrregulaer:  true,
	preclusion.RuleSpesifisert: true,
}

var validMethods = map[justification.Method]bool{
	justification.MethodFastpris:     true,
	justification.MethodEnhetspriser: true,
	justification.MethodRegning:      true,
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeInvalidInput, field+" must be a date on the form YYYY-MM-DD")
	}
	return t, nil
}

// SubmitRequest is the HTTP request body for POST /claims.
type SubmitRequest struct {
	ProjectID     string  `json:"project_id"`
	ContractorID  string  `json:"contractor_id"`
	ClientID      string  `json:"client_id"`
	Reference     string  `json:"reference"`
	Title         string  `json:"title"`
	Category      string  `json:"category"`
	RuleType      string  `json:"rule_type"`
	Method        string  `json:"method"`
	ClaimedAmount float64 `json:"claimed_amount"`
	ClaimedDays   int     `json:"claimed_days"`
	DiscoveredAt  string  `json:"discovered_at"`

	parsed service.SubmitInput
}

// Validate normalizes and parses the request into a service input.
func (r *SubmitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	projectID, err := id.ParseProjectID(strings.TrimSpace(r.ProjectID))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "project_id must be a valid UUID")
	}
	contractorID, err := id.ParsePartyID(strings.TrimSpace(r.ContractorID))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "contractor_id must be a valid UUID")
	}
	clientID, err := id.ParsePartyID(strings.TrimSpace(r.ClientID))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "client_id must be a valid UUID")
	}

	r.Reference = strings.TrimSpace(r.Reference)
	if r.Reference == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "reference is required")
	}
	if len(r.Reference) > 64 {
		return dErrors.New(dErrors.CodeInvalidInput, "reference must be at most 64 characters")
	}
	r.Title = strings.TrimSpace(r.Title)
	if len(r.Title) > 256 {
		return dErrors.New(dErrors.CodeInvalidInput, "title must be at most 256 characters")
	}

	category := preclusion.Category(r.Category)
	if !validCategories[category] {
		return dErrors.New(dErrors.CodeInvalidInput, "category must be one of ENDRING, SVIKT, ANDRE, FORCE_MAJEURE")
	}
	ruleType := preclusion.RuleType(r.RuleType)
	if !validRuleTypes[ruleType] {
		return dErrors.New(dErrors.CodeInvalidInput, "rule_type must be one of RIGG_DRIFT, IRREGULAER, SPESIFISERT or empty")
	}
	method := justification.Method(r.Method)
	if !validMethods[method] {
		return dErrors.New(dErrors.CodeInvalidInput, "method must be one of FASTPRIS, ENHETSPRISER, REGNINGSARBEID")
	}

	if r.ClaimedAmount < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "claimed_amount must not be negative")
	}
	if r.ClaimedDays < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "claimed_days must not be negative")
	}

	discoveredAt, err := parseDate("discovered_at", strings.TrimSpace(r.DiscoveredAt))
	if err != nil {
		return err
	}

	r.parsed = service.SubmitInput{
		ProjectID:     projectID,
		Contractor:    contractorID,
		Client:        clientID,
		Reference:     r.Reference,
		Title:         r.Title,
		Category:      category,
		RuleType:      ruleType,
		Method:        method,
		ClaimedAmount: r.ClaimedAmount,
		ClaimedDays:   r.ClaimedDays,
		DiscoveredAt:  discoveredAt,
	}
	return nil
}

// Parsed returns the validated service input.
func (r *SubmitRequest) Parsed() service.SubmitInput { return r.parsed }

// NoticeRequest is the HTTP request body for POST /claims/{claimID}/notices.
type NoticeRequest struct {
	Type   string `json:"type"`
	SentAt string `json:"sent_at"`
	Note   string `json:"note"`

	parsed service.NoticeInput
}

func (r *NoticeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	noticeType := models.NoticeType(strings.TrimSpace(r.Type))
	if !models.ValidNoticeTypes[noticeType] {
		return dErrors.New(dErrors.CodeInvalidInput, "type must be one of noytralt_varsel, spesifisert_krav, krav_om_spesifisering")
	}
	sentAt, err := parseDate("sent_at", strings.TrimSpace(r.SentAt))
	if err != nil {
		return err
	}
	r.Note = strings.TrimSpace(r.Note)
	if len(r.Note) > 2000 {
		return dErrors.New(dErrors.CodeInvalidInput, "note must be at most 2000 characters")
	}

	r.parsed = service.NoticeInput{Type: noticeType, SentAt: sentAt, Note: r.Note}
	return nil
}

func (r *NoticeRequest) Parsed() service.NoticeInput { return r.parsed }

// AmountClaimDecision mirrors one evaluated monetary claim on the wire.
type AmountClaimDecision struct {
	Claimed        float64 `json:"claimed"`
	Verdict        string  `json:"verdict"`
	Approved       float64 `json:"approved"`
	NotifiedInTime bool    `json:"notified_in_time"`
}

func (d *AmountClaimDecision) parse(field string) (*justification.AmountClaim, error) {
	if d == nil {
		return nil, nil
	}
	verdict := justification.Verdict(d.Verdict)
	switch verdict {
	case justification.VerdictGodkjent, justification.VerdictDelvis, justification.VerdictAvslatt:
	default:
		return nil, dErrors.New(dErrors.CodeInvalidInput, field+".verdict must be one of godkjent, delvis, avslatt")
	}
	if d.Claimed < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, field+".claimed must not be negative")
	}
	if verdict == justification.VerdictDelvis {
		if d.Approved < 0 || d.Approved > d.Claimed {
			return nil, dErrors.New(dErrors.CodeInvalidInput, field+".approved must be between 0 and the claimed amount")
		}
	}
	return &justification.AmountClaim{
		Claimed:        d.Claimed,
		Verdict:        verdict,
		Approved:       d.Approved,
		NotifiedInTime: d.NotifiedInTime,
	}, nil
}

// CompensationDecision is the vederlag decision record on the wire.
type CompensationDecision struct {
	Method                 string               `json:"method"`
	AcceptsMethod          bool                 `json:"accepts_method"`
	DesiredMethod          string               `json:"desired_method"`
	HasUnitPriceAdjustment bool                 `json:"has_unit_price_adjustment"`
	AdjustmentTimely       bool                 `json:"adjustment_timely"`
	AcceptsAdjustment      bool                 `json:"accepts_adjustment"`
	WithholdsPayment       bool                 `json:"withholds_payment"`
	MainClaim              *AmountClaimDecision `json:"main_claim"`
	RiggClaim              *AmountClaimDecision `json:"rigg_claim"`
	ProductivityClaim      *AmountClaimDecision `json:"productivity_claim"`
	Comment                string               `json:"comment"`
}

func (d *CompensationDecision) parse() (*justification.CompensationInput, error) {
	method := justification.Method(d.Method)
	if !validMethods[method] {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "compensation.method must be one of FASTPRIS, ENHETSPRISER, REGNINGSARBEID")
	}
	in := &justification.CompensationInput{
		Method:                 method,
		AcceptsMethod:          d.AcceptsMethod,
		HasUnitPriceAdjustment: d.HasUnitPriceAdjustment,
		AdjustmentTimely:       d.AdjustmentTimely,
		AcceptsAdjustment:      d.AcceptsAdjustment,
		WithholdsPayment:       d.WithholdsPayment,
		Comment:                strings.TrimSpace(d.Comment),
	}
	if !d.AcceptsMethod {
		desired := justification.Method(d.DesiredMethod)
		if !validMethods[desired] {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "compensation.desired_method is required when the method is not accepted")
		}
		in.DesiredMethod = desired
	}

	var err error
	if in.MainClaim, err = d.MainClaim.parse("compensation.main_claim"); err != nil {
		return nil, err
	}
	if in.RiggClaim, err = d.RiggClaim.parse("compensation.rigg_claim"); err != nil {
		return nil, err
	}
	if in.ProductivityClaim, err = d.ProductivityClaim.parse("compensation.productivity_claim"); err != nil {
		return nil, err
	}
	return in, nil
}

// DeadlineDecision is the fristforlengelse decision record on the wire.
type DeadlineDecision struct {
	IssueSpecificationRequest bool    `json:"issue_specification_request"`
	BasisRejected             bool    `json:"basis_rejected"`
	PrecludedLateResponse     bool    `json:"precluded_late_response"`
	PrecludedNeverSpecified   bool    `json:"precluded_never_specified"`
	ReducedLateSpecification  bool    `json:"reduced_late_specification"`
	ConditionsMet             bool    `json:"conditions_met"`
	ConditionsReason          string  `json:"conditions_reason"`
	DaysClaimed               int     `json:"days_claimed"`
	DaysApproved              int     `json:"days_approved"`
	DailyRate                 float64 `json:"daily_rate"`
	Comment                   string  `json:"comment"`
}

func (d *DeadlineDecision) parse() (*justification.DeadlineInput, error) {
	if d.DaysClaimed < 0 || d.DaysApproved < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "deadline day counts must not be negative")
	}
	if d.DaysApproved > d.DaysClaimed {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "deadline.days_approved must not exceed days_claimed")
	}
	if d.DailyRate < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "deadline.daily_rate must not be negative")
	}
	return &justification.DeadlineInput{
		IssueSpecificationRequest: d.IssueSpecificationRequest,
		BasisRejected:             d.BasisRejected,
		PrecludedLateResponse:     d.PrecludedLateResponse,
		PrecludedNeverSpecified:   d.PrecludedNeverSpecified,
		ReducedLateSpecification:  d.ReducedLateSpecification,
		ConditionsMet:             d.ConditionsMet,
		ConditionsReason:          strings.TrimSpace(d.ConditionsReason),
		DaysClaimed:               d.DaysClaimed,
		DaysApproved:              d.DaysApproved,
		DailyRate:                 d.DailyRate,
		Comment:                   strings.TrimSpace(d.Comment),
	}, nil
}

// DenialCaseDecision is one denied extension claim on the wire.
type DenialCaseDecision struct {
	Reference       string `json:"reference"`
	DaysDenied      int    `json:"days_denied"`
	DenialJustified bool   `json:"denial_justified"`
}

// AccelerationDecision is the forsering decision record on the wire.
type AccelerationDecision struct {
	Cases             []DenialCaseDecision `json:"cases"`
	DailyRate         float64              `json:"daily_rate"`
	EstimatedCost     float64              `json:"estimated_cost"`
	MainCost          *AmountClaimDecision `json:"main_cost"`
	RiggClaim         *AmountClaimDecision `json:"rigg_claim"`
	ProductivityClaim *AmountClaimDecision `json:"productivity_claim"`
	Comment           string               `json:"comment"`
}

func (d *AccelerationDecision) parse() (*justification.AccelerationInput, error) {
	if d.DailyRate < 0 || d.EstimatedCost < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "acceleration amounts must not be negative")
	}
	cases := make([]justification.DenialCase, 0, len(d.Cases))
	for i, c := range d.Cases {
		reference := strings.TrimSpace(c.Reference)
		if reference == "" {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "acceleration.cases entries need a reference")
		}
		if c.DaysDenied <= 0 {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "acceleration.cases entries need a positive days_denied")
		}
		cases = append(cases, justification.DenialCase{
			Reference:       reference,
			DaysDenied:      c.DaysDenied,
			DenialJustified: d.Cases[i].DenialJustified,
		})
	}

	in := &justification.AccelerationInput{
		Cases:         cases,
		DailyRate:     d.DailyRate,
		EstimatedCost: d.EstimatedCost,
		Comment:       strings.TrimSpace(d.Comment),
	}
	var err error
	if in.MainCost, err = d.MainCost.parse("acceleration.main_cost"); err != nil {
		return nil, err
	}
	if in.RiggClaim, err = d.RiggClaim.parse("acceleration.rigg_claim"); err != nil {
		return nil, err
	}
	if in.ProductivityClaim, err = d.ProductivityClaim.parse("acceleration.productivity_claim"); err != nil {
		return nil, err
	}
	return in, nil
}

// RespondRequest is the HTTP request body for POST
// /claims/{claimID}/responses/{track} and the draft variant. Exactly one
// decision record must be present; the handler matches it against the track
// in the URL.
type RespondRequest struct {
	Compensation *CompensationDecision `json:"compensation"`
	Deadline     *DeadlineDecision     `json:"deadline"`
	Acceleration *AccelerationDecision `json:"acceleration"`

	parsedCompensation *justification.CompensationInput
	parsedDeadline     *justification.DeadlineInput
	parsedAcceleration *justification.AccelerationInput
}

func (r *RespondRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	count := 0
	if r.Compensation != nil {
		count++
	}
	if r.Deadline != nil {
		count++
	}
	if r.Acceleration != nil {
		count++
	}
	if count != 1 {
		return dErrors.New(dErrors.CodeInvalidInput, "exactly one of compensation, deadline, acceleration is required")
	}

	var err error
	if r.Compensation != nil {
		if r.parsedCompensation, err = r.Compensation.parse(); err != nil {
			return err
		}
	}
	if r.Deadline != nil {
		if r.parsedDeadline, err = r.Deadline.parse(); err != nil {
			return err
		}
	}
	if r.Acceleration != nil {
		if r.parsedAcceleration, err = r.Acceleration.parse(); err != nil {
			return err
		}
	}
	return nil
}

// Parsed assembles the service input for the given track.
func (r *RespondRequest) Parsed(track models.Track) service.RespondInput {
	return service.RespondInput{
		Track:        track,
		Compensation: r.parsedCompensation,
		Deadline:     r.parsedDeadline,
		Acceleration: r.parsedAcceleration,
	}
}

// EvaluateRequest is the HTTP request body for POST /evaluate/preclusion.
type EvaluateRequest struct {
	Category     string `json:"category"`
	RuleType     string `json:"rule_type"`
	DiscoveredAt string `json:"discovered_at"`
	NotifiedAt   string `json:"notified_at"`

	parsed service.EvaluateInput
}

func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	category := preclusion.Category(r.Category)
	if !validCategories[category] {
		return dErrors.New(dErrors.CodeInvalidInput, "category must be one of ENDRING, SVIKT, ANDRE, FORCE_MAJEURE")
	}
	ruleType := preclusion.RuleType(r.RuleType)
	if !validRuleTypes[ruleType] {
		return dErrors.New(dErrors.CodeInvalidInput, "rule_type must be one of RIGG_DRIFT, IRREGULAER, SPESIFISERT or empty")
	}
	discoveredAt, err := parseDate("discovered_at", strings.TrimSpace(r.DiscoveredAt))
	if err != nil {
		return err
	}

	r.parsed = service.EvaluateInput{
		Category:     category,
		RuleType:     ruleType,
		DiscoveredAt: discoveredAt,
	}
	if notified := strings.TrimSpace(r.NotifiedAt); notified != "" {
		notifiedAt, err := parseDate("notified_at", notified)
		if err != nil {
			return err
		}
		r.parsed.NotifiedAt = &notifiedAt
	}
	return nil
}

func (r *EvaluateRequest) Parsed() service.EvaluateInput { return r.parsed }
