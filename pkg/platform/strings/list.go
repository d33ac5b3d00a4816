// Package strings holds small string helpers shared by configuration parsing.
package strings

import "strings"

// SplitList parses a comma-separated env value into its distinct entries.
// Entries are trimmed; empties and repeats are dropped, first occurrence
// wins. An empty or all-whitespace input yields nil.
func SplitList(raw string) []string {
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		entry := strings.TrimSpace(part)
		if entry == "" || seen[entry] {
			continue
		}
		seen[entry] = true
		out = append(out, entry)
	}
	return out
}
