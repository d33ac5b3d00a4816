package preclusion

import "fmt"

// categoryMessages holds the per-category statutory framing used when a
// deadline evaluation needs display text. The prose is Norwegian because the
// alerts are shown verbatim to the contract parties.
type categoryMessages struct {
	// Reference cites the NS 8407 provision the notice duty follows from.
	Reference string
	// RightLost names what forfeits if notice comes too late, inserted into
	// the critical consequence sentence.
	RightLost string
	// Subject is the short name of the claim used in warning prose.
	Subject string
}

var messagesByCategory = map[Category]categoryMessages{
	CategoryEndring: {
		Reference: "NS 8407 pkt. 32.2",
		RightLost: "retten til å påberope seg at arbeidet utgjør en endring",
		Subject:   "endringskravet",
	},
	CategorySvikt: {
		Reference: "NS 8407 pkt. 25.1.2",
		RightLost: "kravet, og byggherren kan kreve erstattet tap som kunne vært unngått ved tidligere varsel",
		Subject:   "kravet som følge av byggherrens forhold",
	},
	CategoryAndre: {
		Reference: "NS 8407 pkt. 33.4",
		RightLost: "retten til fristforlengelse",
		Subject:   "kravet om fristforlengelse",
	},
	CategoryForceMajeure: {
		Reference: "NS 8407 pkt. 33.3",
		RightLost: "retten til fristforlengelse",
		Subject:   "kravet om fristforlengelse etter force majeure",
	},
}

// genericMessages is the documented fallback for unrecognized categories:
// the general duty to notify without unjustified delay.
var genericMessages = categoryMessages{
	Reference: "NS 8407 pkt. 5",
	RightLost: "kravet",
	Subject:   "kravet",
}

// messagesFor never fails; unknown categories get the generic framing.
func messagesFor(cat Category) categoryMessages {
	if m, ok := messagesByCategory[cat]; ok {
		return m
	}
	return genericMessages
}

func criticalAlert(cat Category, days int) *Alert {
	m := messagesFor(cat)
	return &Alert{
		Severity: SeverityCritical,
		Title:    "Varslingsfrist oversittet",
		Message: fmt.Sprintf(
			"Det har gått %d dager siden forholdet ble oppdaget. Etter %s kan %s være tapt (prekludert). Varsle byggherren umiddelbart.",
			days, m.Reference, m.RightLost),
	}
}

func warningAlert(cat Category, days int) *Alert {
	m := messagesFor(cat)
	return &Alert{
		Severity: SeverityWarning,
		Title:    "Varslingsfrist nærmer seg",
		Message: fmt.Sprintf(
			"Det har gått %d dager siden forholdet ble oppdaget. Varsle %s snarest for å unngå preklusjon, jf. %s.",
			days, m.Subject, m.Reference),
	}
}

func dateAnomalyAlert(days int) *Alert {
	return &Alert{
		Severity: SeverityInfo,
		Title:    "Datoavvik",
		Message: fmt.Sprintf(
			"Varseldatoen ligger %d dager før oppdagelsesdatoen. Kontroller at datoene er registrert riktig.",
			-days),
	}
}
