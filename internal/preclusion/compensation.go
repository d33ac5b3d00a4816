package preclusion

// EvaluateCompensationPreclusion answers whether delay can forfeit the
// monetary (vederlag) claim for the given category, and if so whether it has.
//
// The dispatch is category-keyed because the consequence differs in kind:
//
//   - ENDRING: delay never forfeits the monetary claim itself; only the
//     separate notice of the underlying change can be precluded. The day
//     count is irrelevant and is not evaluated.
//   - SVIKT, ANDRE: full forfeiture on delay, evaluated against the default
//     day limit.
//   - FORCE_MAJEURE: there is no monetary claim at all (time-only relief),
//     so the day count is likewise skipped.
//
// Unknown categories fall back to the general duty to notify without
// unjustified delay, with no forfeiture verdict.
func (e *Evaluator) EvaluateCompensationPreclusion(cat Category, daysSinceDiscovery int) CompensationPreclusion {
	switch cat {
	case CategoryEndring:
		return CompensationPreclusion{
			HasPreclusion: false,
			Reference:     "NS 8407 pkt. 34.1.1",
			Explanation: "Vederlagskravet ved endringer prekluderes ikke av sen fremsettelse. " +
				"Det er bare varselet om selve endringen som er underlagt preklusjonsfrist, jf. NS 8407 pkt. 32.2.",
		}
	case CategorySvikt, CategoryAndre:
		res := e.Evaluate(daysSinceDiscovery, RuleDefault, cat)
		return CompensationPreclusion{
			HasPreclusion: res.Status == StatusCritical,
			Reference:     messagesFor(cat).Reference,
			Explanation: "Vederlagskravet må varsles uten ugrunnet opphold. " +
				"Oversittes fristen, tapes kravet i sin helhet.",
			Alert: res.Alert,
		}
	case CategoryForceMajeure:
		return CompensationPreclusion{
			HasPreclusion: false,
			Reference:     "NS 8407 pkt. 33.3",
			Explanation: "Force majeure gir bare rett til fristforlengelse. " +
				"Det foreligger ikke noe vederlagskrav som kan prekluderes.",
		}
	default:
		return CompensationPreclusion{
			HasPreclusion: false,
			Reference:     genericMessages.Reference,
			Explanation:   "Ukjent kravskategori. Varsle uten ugrunnet opphold etter kontraktens alminnelige varslingsregler.",
		}
	}
}
