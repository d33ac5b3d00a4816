// Package justification deterministically composes the Norwegian prose
// paragraphs of a formal response to an NS 8407 claim. Each composer renders
// a fixed section order driven entirely by its input record: same input, same
// bytes out, every time. There is no templating engine; paragraphs are
// collected in order and empty sections are simply never added.
package justification

import (
	"fmt"
	"strconv"
	"strings"
)

// builder accumulates paragraphs in section order.
type builder struct {
	paras []string
}

// add appends a paragraph, silently skipping empty strings so callers can
// pass the result of a branch that produced nothing.
func (b *builder) add(p string) {
	if p != "" {
		b.paras = append(b.paras, p)
	}
}

func (b *builder) addf(format string, args ...any) {
	b.add(fmt.Sprintf(format, args...))
}

// String joins the collected paragraphs with blank lines.
func (b *builder) String() string {
	return strings.Join(b.paras, "\n\n")
}

// commentLabel introduces caller-supplied free text. The appendix below the
// separator is the only place free text enters composed output.
const (
	commentSeparator = "---"
	commentLabel     = "Tilleggskommentar:"
)

// withComment appends a free-text addendum beneath a visual separator. An
// empty comment leaves the text untouched.
func withComment(text, comment string) string {
	if strings.TrimSpace(comment) == "" {
		return text
	}
	return text + "\n\n" + commentSeparator + "\n" + commentLabel + "\n" + comment
}

// formatKr renders an amount as Norwegian currency prose: space-grouped
// thousands, comma decimals, decimals omitted for whole amounts.
func formatKr(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	whole := int64(amount)
	frac := int64((amount-float64(whole))*100 + 0.5)
	if frac >= 100 {
		whole++
		frac -= 100
	}

	digits := strconv.FormatInt(whole, 10)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(' ')
		}
		grouped.WriteRune(d)
	}

	out := "kr " + grouped.String()
	if frac > 0 {
		out += fmt.Sprintf(",%02d", frac)
	}
	if neg {
		return "minus " + out
	}
	return out
}

// dager renders a day count with its unit.
func dager(n int) string {
	if n == 1 {
		return "1 dag"
	}
	return fmt.Sprintf("%d dager", n)
}
