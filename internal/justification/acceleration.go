package justification

import (
	"fmt"
	"strings"
)

// ComposeAcceleration renders the justification for a response on the
// forsering track. Each underlying denied deadline-extension claim gets its
// own justified/unjustified verdict; entitlement is aggregated from the
// unjustified ones. Without entitlement the amount evaluation is rendered
// fully subsidiary and composition stops there. With entitlement the 30
// percent cost cap is evaluated explicitly, and the amount sections follow
// only when the cap is satisfied.
func ComposeAcceleration(in AccelerationInput) string {
	var b builder

	b.add(caseVerdictParagraph(in))

	entitled := in.entitledDays()
	if entitled == 0 {
		b.add("Totalentreprenøren har ikke rett til å forsere for byggherrens regning, ettersom avslagene anses berettigede, jf. NS 8407 pkt. 33.8.")
		b.add(subsidiaryAmountParagraph(in))
		return withComment(b.String(), in.Comment)
	}

	b.add(entitlementParagraph(in, entitled))

	limit := float64(entitled) * in.DailyRate * 1.3
	b.addf("Forseringsretten forutsetter at forseringsvederlaget ikke må antas å ville overstige dagmulkten for de aktuelle dagene med tillegg av 30 prosent: %s × %s × 1,3 = %s.",
		dager(entitled), formatKr(in.DailyRate), formatKr(limit))

	if in.EstimatedCost > limit {
		b.addf("Det varslede forseringsvederlaget på %s overstiger denne grensen. Forsering kan derfor ikke iverksettes for byggherrens regning.",
			formatKr(in.EstimatedCost))
		return withComment(b.String(), in.Comment)
	}
	b.addf("Det varslede forseringsvederlaget på %s ligger innenfor grensen.", formatKr(in.EstimatedCost))

	b.add(accelerationAmountSection("Forseringskostnaden", in.MainCost))
	b.add(subClaimSection(riggLabel, in.RiggClaim))
	b.add(subClaimSection(productivityLabel, in.ProductivityClaim))
	b.add(accelerationConclusion(in))

	return withComment(b.String(), in.Comment)
}

// caseVerdictParagraph evaluates every underlying denial individually.
func caseVerdictParagraph(in AccelerationInput) string {
	if len(in.Cases) == 0 {
		return "Det foreligger ingen avslåtte krav om fristforlengelse å vurdere forseringen mot."
	}
	sentences := make([]string, 0, len(in.Cases))
	for _, c := range in.Cases {
		verdict := "berettiget"
		if !c.DenialJustified {
			verdict = "uberettiget"
		}
		sentences = append(sentences, fmt.Sprintf("Avslaget på %s fristforlengelse (%s) anses %s.",
			dager(c.DaysDenied), c.Reference, verdict))
	}
	return strings.Join(sentences, " ")
}

func entitlementParagraph(in AccelerationInput, entitled int) string {
	var justified, unjustified []string
	for _, c := range in.Cases {
		if c.DenialJustified {
			justified = append(justified, c.Reference)
		} else {
			unjustified = append(unjustified, c.Reference)
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Avslaget anses uberettiget for %s.", strings.Join(unjustified, ", ")))
	if len(justified) > 0 {
		sb.WriteString(fmt.Sprintf(" For %s anses avslaget berettiget.", strings.Join(justified, ", ")))
	}
	sb.WriteString(fmt.Sprintf(" Totalentreprenøren kan derfor velge å anse avslaget som et pålegg om forsering for %s, jf. NS 8407 pkt. 33.8.",
		dager(entitled)))
	return sb.String()
}

// subsidiaryAmountParagraph is the counterfactual evaluation rendered when
// no entitlement exists: the wording must say what would have been approved,
// never what is approved, and no live cost-cap or amount section follows.
func subsidiaryAmountParagraph(in AccelerationInput) string {
	if in.MainCost == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Subsidiært, for det tilfellet at avslagene likevel skulle anses uberettigede: ")
	switch in.MainCost.Verdict {
	case VerdictGodkjent:
		sb.WriteString(fmt.Sprintf("forseringskostnaden på %s ville ha blitt godkjent i sin helhet.",
			formatKr(in.MainCost.Claimed)))
	case VerdictDelvis:
		sb.WriteString(fmt.Sprintf("forseringskostnaden på %s ville ha blitt godkjent delvis, med %s.",
			formatKr(in.MainCost.Claimed), formatKr(in.MainCost.Approved)))
	default:
		sb.WriteString(fmt.Sprintf("forseringskostnaden på %s ville ikke ha blitt godkjent.",
			formatKr(in.MainCost.Claimed)))
	}
	return sb.String()
}

// accelerationAmountSection is the live main-cost evaluation with the same
// timeliness branching as the compensation composer.
func accelerationAmountSection(label string, c *AmountClaim) string {
	if c == nil {
		return ""
	}
	verdict := itemSentence(label, *c)
	if c.NotifiedInTime {
		return verdict
	}
	return fmt.Sprintf(
		"Prinsipalt: %s er ikke varslet uten ugrunnet opphold og er prekludert. Kravet avvises.\n\nSubsidiært, dersom kravet ikke anses prekludert: %s",
		label, verdict)
}

func accelerationConclusion(in AccelerationInput) string {
	claims := []*AmountClaim{in.MainCost, in.RiggClaim, in.ProductivityClaim}

	var claimed, principal, counterfactual float64
	anyForfeited := false
	anyPresent := false
	for _, c := range claims {
		if c == nil {
			continue
		}
		anyPresent = true
		claimed += c.Claimed
		counterfactual += c.approved()
		if c.NotifiedInTime {
			principal += c.approved()
		} else {
			anyForfeited = true
		}
	}
	if !anyPresent {
		return ""
	}

	conclusion := fmt.Sprintf("Samlet godkjennes %s av et samlet forseringskrav på %s.",
		formatKr(principal), formatKr(claimed))
	if anyForfeited {
		conclusion += fmt.Sprintf(
			" Subsidiært, dersom de for sent varslede kravene ikke anses prekludert, ville samlet godkjent beløp utgjort %s.",
			formatKr(counterfactual))
	}
	return conclusion
}
