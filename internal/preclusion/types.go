// Package preclusion evaluates NS 8407 notice deadlines. Given elapsed-day
// measurements and a classification of which statutory notice rule applies, it
// produces a severity verdict and, for non-ok severities, a display-ready
// Norwegian message citing the relevant contract reference.
//
// Every function is pure: no I/O, no shared state, never panics. Unknown
// category or rule-type codes degrade to documented generic behavior. Dates
// are time.Time values; parsing (and rejecting) malformed date strings is the
// caller's responsibility at the transport boundary.
package preclusion

// Status is the three-tier severity verdict of a deadline evaluation.
type Status string

const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Severity classifies an Alert for display purposes. It mirrors Status for
// warning/critical alerts; informational alerts accompany StatusOK results
// that still deserve a note (e.g. a date anomaly).
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is a display-ready message about deadline risk.
type Alert struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

// Result is produced fresh on every evaluation call and never mutated.
// Alert is nil for unremarkable ok results.
type Result struct {
	Status      Status `json:"status"`
	DaysElapsed int    `json:"daysElapsed"`
	Alert       *Alert `json:"alert,omitempty"`
}

// Category classifies the basis (grunnlag) of a claim. The zero value is not
// a valid category; evaluation falls back to generic messaging for anything
// outside the closed set.
type Category string

const (
	CategoryEndring      Category = "ENDRING"       // change to the contract work
	CategorySvikt        Category = "SVIKT"         // failure of the client's contribution
	CategoryAndre        Category = "ANDRE"         // other client-side circumstances
	CategoryForceMajeure Category = "FORCE_MAJEURE" // force majeure, time-only relief
)

// RuleType refines which notice deadline applies within a category.
// RuleDefault is the zero value and selects the general threshold.
type RuleType string

const (
	RuleDefault     RuleType = ""
	RuleRiggDrift   RuleType = "RIGG_DRIFT"  // rig/site cost claims
	RuleIrregulaer  RuleType = "IRREGULAER"  // irregular change orders
	RuleSpesifisert RuleType = "SPESIFISERT" // specified claims after neutral notice
)

// ResponseType classifies the responding party's answer for passivity checks.
type ResponseType string

const (
	ResponseAvslag ResponseType = "avslag" // rejection
	ResponseAnnet  ResponseType = "annet"
)

// CompensationPreclusion is the category-keyed verdict on whether delay can
// forfeit a monetary claim at all, and if so whether it has.
type CompensationPreclusion struct {
	HasPreclusion bool   `json:"hasPreclusion"`
	Reference     string `json:"reference"`
	Explanation   string `json:"explanation"`
	Alert         *Alert `json:"alert,omitempty"`
}
