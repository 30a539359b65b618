package dialogue

import "strings"

// Spoken titles often reach the skill differently from how the library
// spells them ("Se7en" vs "Seseven", "Dr. No" vs "Doctor No"). Each rule
// pairs a trigger with a transform; triggered rules double the variant set,
// so a title matching both rules expands to four queries.
type rewriteRule struct {
	applies   func(string) bool
	transform func(string) string
}

var rewriteRules = []rewriteRule{
	{
		applies:   func(s string) bool { return strings.ContainsAny(s, "0123456789") },
		transform: digitsToWords,
	},
	{
		applies:   func(s string) bool { return strings.Contains(s, "Dr.") },
		transform: func(s string) string { return strings.ReplaceAll(s, "Dr.", "Doctor") },
	},
}

var digitWords = [...]string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}

func digitsToWords(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteString(digitWords[r-'0'])
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Alternatives expands a spoken title into the spelling variants to query
// for. The original always comes first; duplicates are kept so the result
// order stays aligned with the rule combination that produced each entry.
func Alternatives(name string) []string {
	variants := []string{name}
	for _, rule := range rewriteRules {
		if !rule.applies(name) {
			continue
		}
		expanded := make([]string, 0, len(variants)*2)
		for _, v := range variants {
			expanded = append(expanded, v, rule.transform(v))
		}
		variants = expanded
	}
	return variants
}
