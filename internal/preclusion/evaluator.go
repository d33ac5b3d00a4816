package preclusion

import (
	"fmt"
	"time"
)

// Evaluator applies the NS 8407 notice-deadline ladders. The zero value is
// not usable; construct with NewEvaluator.
type Evaluator struct {
	thresholds Thresholds
	now        func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock replaces the wall clock, letting tests pin "now".
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

// NewEvaluator builds an Evaluator over the given thresholds.
func NewEvaluator(t Thresholds, opts ...Option) *Evaluator {
	e := &Evaluator{thresholds: t, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// wholeDays truncates a duration to whole days, toward zero.
func wholeDays(d time.Duration) int {
	return int(d.Hours() / 24)
}

// DaysSince returns the whole-day difference between now and t; negative when
// t is in the future.
func (e *Evaluator) DaysSince(t time.Time) int {
	return wholeDays(e.now().Sub(t))
}

// IsCritical reports whether the elapsed days exceed the critical limit for
// the rule type. The limit itself is not critical (strict greater-than).
func (e *Evaluator) IsCritical(days int, rule RuleType) bool {
	return days > e.thresholds.critical(rule)
}

// Evaluate runs the three-tier severity ladder over an elapsed-day count.
func (e *Evaluator) Evaluate(days int, rule RuleType, cat Category) Result {
	switch {
	case e.IsCritical(days, rule):
		return Result{Status: StatusCritical, DaysElapsed: days, Alert: criticalAlert(cat, days)}
	case days > e.thresholds.WarningFloor:
		return Result{Status: StatusWarning, DaysElapsed: days, Alert: warningAlert(cat, days)}
	default:
		return Result{Status: StatusOK, DaysElapsed: max(days, 0)}
	}
}

// EvaluateBetweenDates runs the same ladder over the gap between discovery
// and notice. A notice dated before the discovery is a registration anomaly,
// not a business state: the result is ok with an informational alert and a
// zero day count rather than a negative one.
func (e *Evaluator) EvaluateBetweenDates(discovered, notified time.Time, rule RuleType, cat Category) Result {
	gap := wholeDays(notified.Sub(discovered))
	if gap < 0 {
		return Result{Status: StatusOK, DaysElapsed: 0, Alert: dateAnomalyAlert(gap)}
	}
	return e.Evaluate(gap, rule, cat)
}

// CheckClientPassivity evaluates the responding party's own delay. A stale
// rejection is critical (the claimant may rely on passivity); any response
// older than the warning limit gets a soft reminder.
func (e *Evaluator) CheckClientPassivity(received time.Time, response ResponseType) Result {
	days := e.DaysSince(received)
	switch {
	case days > e.thresholds.PassivityCritical && response == ResponseAvslag:
		return Result{Status: StatusCritical, DaysElapsed: days, Alert: &Alert{
			Severity: SeverityCritical,
			Title:    "Svarfrist oversittet",
			Message: fmt.Sprintf(
				"Kravet ble mottatt for %d dager siden. Et avslag som kommer etter så lang tid kan være avskåret fordi passivitet regnes som aksept, jf. NS 8407 pkt. 32.3.",
				days),
		}}
	case days > e.thresholds.PassivityWarning:
		return Result{Status: StatusWarning, DaysElapsed: days, Alert: &Alert{
			Severity: SeverityWarning,
			Title:    "Svar bør gis snarest",
			Message: fmt.Sprintf(
				"Kravet ble mottatt for %d dager siden. Svar uten ugrunnet opphold for å unngå at passivitet får virkning, jf. NS 8407 pkt. 32.3.",
				days),
		}}
	default:
		return Result{Status: StatusOK, DaysElapsed: max(days, 0)}
	}
}

// CheckSpecificClaimDeadline evaluates itemized sub-claims (rig/site costs,
// productivity loss), which share one ladder regardless of parent category.
func (e *Evaluator) CheckSpecificClaimDeadline(aware time.Time) Result {
	days := e.DaysSince(aware)
	switch {
	case days > e.thresholds.SpecificClaimCritical:
		return Result{Status: StatusCritical, DaysElapsed: days, Alert: &Alert{
			Severity: SeverityCritical,
			Title:    "Særskilt varsel mangler",
			Message: fmt.Sprintf(
				"Det har gått %d dager siden forholdet ble kjent. Krav om dekning av økte rigg- og driftskostnader eller nedsatt produktivitet må varsles særskilt uten ugrunnet opphold, jf. NS 8407 pkt. 34.1.3. Kravet kan være tapt.",
				days),
		}}
	case days > e.thresholds.SpecificClaimWarning:
		return Result{Status: StatusWarning, DaysElapsed: days, Alert: &Alert{
			Severity: SeverityWarning,
			Title:    "Varsle særskilt krav",
			Message: fmt.Sprintf(
				"Det har gått %d dager siden forholdet ble kjent. Send særskilt varsel om kravet snarest, jf. NS 8407 pkt. 34.1.3.",
				days),
		}}
	default:
		return Result{Status: StatusOK, DaysElapsed: max(days, 0)}
	}
}

// CheckSpecificationDeadline evaluates the duty to specify a deadline-extension
// claim after a neutral notice. A formal specification request from the client
// removes all remaining grace: any delay after it is immediately critical.
// Without such a request the consequence is reduction, not loss, so the ladder
// language is softer.
func (e *Evaluator) CheckSpecificationDeadline(notice time.Time, receivedFormalRequest bool) Result {
	days := e.DaysSince(notice)
	if receivedFormalRequest {
		return Result{Status: StatusCritical, DaysElapsed: max(days, 0), Alert: &Alert{
			Severity: SeverityCritical,
			Title:    "Byggherren har etterlyst spesifisert krav",
			Message:  "Byggherren har fremsatt krav om spesifisering. Kravet må spesifiseres og begrunnes omgående; oversittelse medfører at kravet tapes, jf. NS 8407 pkt. 33.6.2.",
		}}
	}
	switch {
	case days > e.thresholds.SpecificationCritical:
		return Result{Status: StatusCritical, DaysElapsed: days, Alert: &Alert{
			Severity: SeverityCritical,
			Title:    "Spesifiser kravet",
			Message: fmt.Sprintf(
				"Det har gått %d dager siden nøytralt varsel ble sendt. Spesifiseres ikke kravet, kan det bli redusert til det byggherren måtte forstå at forholdet ville medføre, jf. NS 8407 pkt. 33.6.1.",
				days),
		}}
	case days > e.thresholds.SpecificationAdvisory:
		return Result{Status: StatusWarning, DaysElapsed: days, Alert: &Alert{
			Severity: SeverityWarning,
			Title:    "Spesifisering bør sendes",
			Message: fmt.Sprintf(
				"Det har gått %d dager siden nøytralt varsel ble sendt. Spesifiser og begrunn kravet så snart det er grunnlag for å beregne omfanget, jf. NS 8407 pkt. 33.6.1.",
				days),
		}}
	default:
		return Result{Status: StatusOK, DaysElapsed: max(days, 0)}
	}
}

// IsEstimateIncreaseNoticeable reports whether a cost-estimate increase is
// material enough to trigger a new notice duty. Comparison is strictly
// greater-than: an increase of exactly the materiality threshold does not yet
// require notice. A non-positive old estimate can never trigger the duty.
func (e *Evaluator) IsEstimateIncreaseNoticeable(oldEstimate, newEstimate float64) bool {
	if oldEstimate <= 0 {
		return false
	}
	return (newEstimate-oldEstimate)/oldEstimate > e.thresholds.EstimateMateriality
}
