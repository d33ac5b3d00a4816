package justification

import (
	"fmt"
	"strings"
)

// ComposeDeadline renders the justification for a response on the
// fristforlengelse track. The opening paragraph depends on the procedural
// posture; the conditions and day-count paragraphs follow, marked subsidiary
// whenever an upstream standpoint (preclusion or a rejected liability basis)
// already disposes of the claim.
func ComposeDeadline(in DeadlineInput) string {
	// Posture (a): the client is only issuing a formal specification
	// request. Nothing else is evaluated.
	if in.IssueSpecificationRequest {
		text := "Byggherren krever med dette at kravet om fristforlengelse spesifiseres og begrunnes, jf. NS 8407 pkt. 33.6.2. Spesifisert og begrunnet krav må fremsettes uten ugrunnet opphold; oversittelse medfører at kravet tapes."
		return withComment(text, in.Comment)
	}

	var b builder

	if in.BasisRejected {
		b.add("Ansvarsgrunnlaget for kravet er avvist i eget svar. Vurderingen nedenfor er i sin helhet subsidiær, for det tilfellet at grunnlaget likevel skulle føre frem.")
	}

	b.add(preclusionParagraph(in))
	b.add(conditionsParagraph(in))
	b.add(dayCountParagraph(in))
	b.add(deadlineConclusion(in))
	b.add(accelerationAdvisory(in))

	return withComment(b.String(), in.Comment)
}

// preclusionParagraph distinguishes postures (b) through (e). Forfeiture and
// reduction can co-occur; forfeiture is then the principal standpoint and
// reduction an explicit subsidiary addendum.
func preclusionParagraph(in DeadlineInput) string {
	reduction := "Kravet ble spesifisert senere enn da det var grunnlag for å beregne omfanget. Kravet reduseres derfor til den fristforlengelsen byggherren måtte forstå at forholdet ville medføre, jf. NS 8407 pkt. 33.6.1."

	switch {
	case in.PrecludedLateResponse:
		forfeiture := "Prinsipalt: Svaret på byggherrens krav om spesifisering ble fremsatt for sent. Kravet om fristforlengelse er dermed tapt, jf. NS 8407 pkt. 33.6.2."
		if in.ReducedLateSpecification {
			return forfeiture + "\n\nSubsidiært: Dersom kravet ikke anses tapt, " + lowerFirst(reduction)
		}
		return forfeiture
	case in.PrecludedNeverSpecified:
		forfeiture := "Prinsipalt: Kravet ble aldri spesifisert og begrunnet etter det nøytrale varselet. Kravet om fristforlengelse er dermed tapt, jf. NS 8407 pkt. 33.5, jf. pkt. 33.4."
		if in.ReducedLateSpecification {
			return forfeiture + "\n\nSubsidiært: Dersom kravet ikke anses tapt, " + lowerFirst(reduction)
		}
		return forfeiture
	case in.ReducedLateSpecification:
		// Posture (d): reduction, not forfeiture.
		return reduction
	default:
		// Posture (e): both notices timely.
		return "Både det nøytrale varselet og spesifiseringen av kravet er fremsatt i tide. Det foreligger ingen preklusjonsinnsigelser."
	}
}

// subsidiaryMarked reports whether downstream paragraphs argue in the
// alternative.
func (in DeadlineInput) subsidiaryMarked() bool {
	return in.precluded() || in.BasisRejected
}

func conditionsParagraph(in DeadlineInput) string {
	var sb strings.Builder
	if in.subsidiaryMarked() {
		sb.WriteString("Subsidiært: ")
	}
	if in.ConditionsMet {
		sb.WriteString("Vilkårene for fristforlengelse anses oppfylt; fremdriften hindres av forhold byggherren har risikoen for, jf. NS 8407 pkt. 33.1.")
	} else {
		sb.WriteString("Vilkårene for fristforlengelse anses ikke oppfylt, jf. NS 8407 pkt. 33.1.")
		if in.ConditionsReason != "" {
			sb.WriteString(" ")
			sb.WriteString(in.ConditionsReason)
		}
	}
	return sb.String()
}

func dayCountParagraph(in DeadlineInput) string {
	var sb strings.Builder
	if in.subsidiaryMarked() {
		sb.WriteString("Subsidiært: ")
	}
	switch {
	case in.DaysClaimed > 0 && in.DaysApproved >= in.DaysClaimed:
		sb.WriteString(fmt.Sprintf("Kravet om %s fristforlengelse godkjennes fullt ut.", dager(in.DaysClaimed)))
	case in.DaysApproved <= 0:
		sb.WriteString(fmt.Sprintf("Kravet om %s fristforlengelse avslås i sin helhet.", dager(in.DaysClaimed)))
	default:
		sb.WriteString(fmt.Sprintf("Av kravet om %s fristforlengelse godkjennes %s. De resterende %s avslås.",
			dager(in.DaysClaimed), dager(in.DaysApproved), dager(in.DaysClaimed-in.DaysApproved)))
	}
	return sb.String()
}

// deadlineConclusion restates the principal total and, when an upstream
// standpoint zeroes it, the subsidiary what-if total.
func deadlineConclusion(in DeadlineInput) string {
	principal := in.DaysApproved
	if in.subsidiaryMarked() || !in.ConditionsMet {
		principal = 0
	}

	conclusion := fmt.Sprintf("Konklusjon: Det innvilges %s fristforlengelse.", dager(principal))
	if in.subsidiaryMarked() && in.DaysApproved > 0 {
		conclusion += fmt.Sprintf(" Subsidiært, dersom kravet ikke anses tapt, ville %s blitt innvilget.", dager(in.DaysApproved))
	}
	return conclusion
}

// accelerationAdvisory notes the claimant's statutory recourse when days were
// denied: an unjustified denial may be treated as an order to accelerate,
// capped at the daily penalty rate plus 30 percent.
func accelerationAdvisory(in DeadlineInput) string {
	denied := in.DaysClaimed - in.DaysApproved
	if in.DaysClaimed <= 0 || denied <= 0 {
		return ""
	}

	text := "Dersom totalentreprenøren mener avslaget er uberettiget, kan avslaget velges ansett som et pålegg om forsering, jf. NS 8407 pkt. 33.8. Retten gjelder ikke dersom vederlaget for forseringen må antas å ville overstige dagmulkten for de omtvistede dagene med tillegg av 30 prosent."
	if in.DailyRate > 0 {
		limit := float64(denied) * in.DailyRate * 1.3
		text += fmt.Sprintf(" Med en dagmulktsats på %s utgjør denne grensen %s for de %s som er avslått.",
			formatKr(in.DailyRate), formatKr(limit), dager(denied))
	}
	return text
}

// lowerFirst folds the leading letter for mid-sentence splicing. The prose
// here starts with ASCII letters, so a byte fold is sufficient.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
