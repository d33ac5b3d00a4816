package preclusion

// Thresholds collects every day limit and ratio used by the evaluator.
// Injectable so tests can exercise boundaries without magic-number duplication;
// production code uses DefaultThresholds.
type Thresholds struct {
	// Critical day limits per rule type. Elapsed days strictly greater than
	// the limit escalate to critical; the limit itself does not.
	CriticalDefault     int
	CriticalRiggDrift   int
	CriticalIrregulaer  int
	CriticalSpesifisert int

	// WarningFloor is the number of days considered unremarkable. Elapsed
	// days strictly greater than the floor (but within the critical limit)
	// yield a warning.
	WarningFloor int

	// Client passivity: responses older than PassivityCritical days are
	// critical when the response was a rejection; older than PassivityWarning
	// days always warn.
	PassivityCritical int
	PassivityWarning  int

	// Itemized sub-claims (rig/site costs, productivity loss) have a uniform
	// rule regardless of parent category.
	SpecificClaimCritical int
	SpecificClaimWarning  int

	// Specification of a deadline-extension claim after a neutral notice.
	SpecificationCritical int
	SpecificationAdvisory int

	// EstimateMateriality is the relative cost-estimate increase above which
	// a new notice is required. Strictly greater-than: exactly the threshold
	// does not yet require notice.
	EstimateMateriality float64
}

// DefaultThresholds returns the NS 8407 day limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalDefault:       14,
		CriticalRiggDrift:     7,
		CriticalIrregulaer:    10,
		CriticalSpesifisert:   21,
		WarningFloor:          3,
		PassivityCritical:     10,
		PassivityWarning:      5,
		SpecificClaimCritical: 7,
		SpecificClaimWarning:  3,
		SpecificationCritical: 21,
		SpecificationAdvisory: 14,
		EstimateMateriality:   0.15,
	}
}

// critical returns the day limit for the given rule type. Unknown rule types
// fall back to the default limit rather than failing.
func (t Thresholds) critical(rule RuleType) int {
	switch rule {
	case RuleRiggDrift:
		return t.CriticalRiggDrift
	case RuleIrregulaer:
		return t.CriticalIrregulaer
	case RuleSpesifisert:
		return t.CriticalSpesifisert
	default:
		return t.CriticalDefault
	}
}
