package justification

import (
	"fmt"
	"strings"
)

// ComposeCompensation renders the justification for a response on the
// vederlag track. Section order: method acceptance, main-claim amount,
// itemized sub-claims, conclusion. When payment is withheld pending a cost
// estimate, only the method section applies.
func ComposeCompensation(in CompensationInput) string {
	var b builder

	b.add(methodSection(in))

	if !in.WithholdsPayment {
		b.add(mainAmountSection(in))
		b.add(subClaimSection(riggLabel, in.RiggClaim))
		b.add(subClaimSection(productivityLabel, in.ProductivityClaim))
		b.add(compensationConclusion(in))
	}

	return withComment(b.String(), in.Comment)
}

// methodSection states whether the proposed calculation method is accepted,
// handles the unit-price-adjustment sub-decision, and notes any withholding
// of payment.
func methodSection(in CompensationInput) string {
	var sb strings.Builder

	if in.AcceptsMethod {
		sb.WriteString(fmt.Sprintf(
			"Byggherren aksepterer at vederlaget beregnes etter %s.",
			termsFor(in.Method).Label))
	} else {
		sb.WriteString(fmt.Sprintf(
			"Byggherren aksepterer ikke den foreslåtte oppgjørsmetoden (%s). Vederlaget skal i stedet beregnes etter %s.",
			termsFor(in.Method).Label, termsFor(in.DesiredMethod).Label))
		if in.Method == MethodFastpris {
			// A rejected fixed-price offer falls back to the contract's
			// default settlement forms.
			sb.WriteString(" Tilbudet om fastpris anses ikke akseptert, og vederlaget gjøres da opp etter kontraktens enhetspriser eller som regningsarbeid, jf. NS 8407 pkt. 34.2.1.")
		}
	}

	if in.HasUnitPriceAdjustment {
		sb.WriteString(" ")
		sb.WriteString(adjustmentSentence(in))
	}

	if in.WithholdsPayment {
		sb.WriteString(" Byggherren holder tilbake betaling inntil totalentreprenøren har fremlagt overslag over vederlagskonsekvensene, jf. NS 8407 pkt. 34.1.3. Beløpsvurderingen utstår til overslaget foreligger.")
	}

	return sb.String()
}

// adjustmentSentence branches on timeliness before acceptance: an untimely
// adjustment request is rejected on that ground alone.
func adjustmentSentence(in CompensationInput) string {
	if !in.AdjustmentTimely {
		return "Kravet om justering av enhetsprisene er fremsatt for sent og avvises allerede av den grunn, jf. NS 8407 pkt. 34.3.2."
	}
	if in.AcceptsAdjustment {
		return "Kravet om justering av enhetsprisene er fremsatt i tide og aksepteres."
	}
	return "Kravet om justering av enhetsprisene er fremsatt i tide, men aksepteres ikke; enhetsprisene gir fortsatt et riktig uttrykk for arbeidet."
}

// amountSentence renders the verdict on one claimed amount with the
// terminology its effective method dictates.
func amountSentence(terms methodTerms, c AmountClaim) string {
	noun := strings.ToUpper(terms.Noun[:1]) + terms.Noun[1:]
	switch c.Verdict {
	case VerdictGodkjent:
		return fmt.Sprintf("%s på %s %s i sin helhet.", noun, formatKr(c.Claimed), terms.Positive)
	case VerdictDelvis:
		return fmt.Sprintf("%s på %s %s delvis, med %s. Differansen på %s %s.",
			noun, formatKr(c.Claimed), terms.Positive, formatKr(c.Approved),
			formatKr(c.Claimed-c.Approved), terms.Negative)
	case VerdictAvslatt:
		return fmt.Sprintf("%s på %s %s.", noun, formatKr(c.Claimed), terms.Negative)
	default:
		return fmt.Sprintf("%s på %s er ikke vurdert.", noun, formatKr(c.Claimed))
	}
}

// effectiveMethod is the method the amount evaluation is phrased in: the
// proposed one when accepted, otherwise the responder's substitute.
func (in CompensationInput) effectiveMethod() Method {
	if in.AcceptsMethod {
		return in.Method
	}
	return in.DesiredMethod
}

func mainAmountSection(in CompensationInput) string {
	if in.MainClaim == nil {
		return ""
	}
	terms := termsFor(in.effectiveMethod())
	verdict := amountSentence(terms, *in.MainClaim)

	if in.MainClaim.NotifiedInTime {
		return verdict
	}
	// Untimely main claim: principal forfeiture, subsidiary evaluation.
	return fmt.Sprintf(
		"Prinsipalt: Hovedkravet er varslet for sent og er prekludert, jf. %s. Kravet avvises.\n\nSubsidiært, dersom kravet ikke anses prekludert: %s",
		mainClaimNoticeRef, verdict)
}

// subClaimSection renders an itemized sub-claim with its own timeliness
// branching. Absent claims produce no section.
func subClaimSection(label string, c *AmountClaim) string {
	if c == nil {
		return ""
	}
	verdict := itemSentence(label, *c)
	if c.NotifiedInTime {
		return verdict
	}
	return fmt.Sprintf(
		"Prinsipalt: %s er ikke varslet særskilt uten ugrunnet opphold og er prekludert, jf. %s. Kravet avvises.\n\nSubsidiært, dersom kravet ikke anses prekludert: %s",
		label, specificClaimRef, verdict)
}

// itemSentence is the verdict sentence for an itemized sub-claim; sub-claims
// keep godkjent/avslått terminology regardless of the main claim's method.
func itemSentence(label string, c AmountClaim) string {
	switch c.Verdict {
	case VerdictGodkjent:
		return fmt.Sprintf("%s på %s godkjennes i sin helhet.", label, formatKr(c.Claimed))
	case VerdictDelvis:
		return fmt.Sprintf("%s på %s godkjennes delvis, med %s. Differansen på %s avslås.",
			label, formatKr(c.Claimed), formatKr(c.Approved), formatKr(c.Claimed-c.Approved))
	case VerdictAvslatt:
		return fmt.Sprintf("%s på %s avslås.", label, formatKr(c.Claimed))
	default:
		return fmt.Sprintf("%s på %s er ikke vurdert.", label, formatKr(c.Claimed))
	}
}

// compensationConclusion sums the principal totals and, when any claim was
// principally forfeited, adds the counterfactual subsidiary total.
func compensationConclusion(in CompensationInput) string {
	claims := []*AmountClaim{in.MainClaim, in.RiggClaim, in.ProductivityClaim}

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

	conclusion := fmt.Sprintf("Samlet godkjennes %s av et samlet krav på %s.",
		formatKr(principal), formatKr(claimed))
	if anyForfeited {
		conclusion += fmt.Sprintf(
			" Subsidiært, dersom de for sent varslede kravene ikke anses prekludert, ville samlet godkjent beløp utgjort %s.",
			formatKr(counterfactual))
	}
	return conclusion
}
