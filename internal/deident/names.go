// Package deident inserts assigned names into de-identified note text, so
// downstream prompts can refer to a consistent synthetic patient.
package deident

import (
	"regexp"
	"strings"
)

var (
	firstNamePattern = regexp.MustCompile(`(?i)\[\*\*[^*]*?Known firstname[^*]*?\*\*\]`)
	lastNamePattern  = regexp.MustCompile(`(?i)\[\*\*[^*]*?Known lastname[^*]*?\*\*\]`)
)

// Options selects which insertion strategies run.
type Options struct {
	// ReplacePlaceholders substitutes [**...Known firstname...**] and
	// [**...Known lastname...**] markers with the assigned name.
	ReplacePlaceholders bool
	// PrependToLines prefixes "{first} {last} " to every line, for
	// experiments that need the name present in every sentence.
	PrependToLines bool
}

// Apply returns the note text with the patient's assigned name inserted
// according to opts. The input is never modified in place.
func Apply(text, firstName, lastName string, opts Options) string {
	out := text
	if opts.ReplacePlaceholders {
		out = firstNamePattern.ReplaceAllString(out, firstName)
		out = lastNamePattern.ReplaceAllString(out, lastName)
	}
	if opts.PrependToLines {
		lines := strings.Split(out, "\n")
		for i, line := range lines {
			lines[i] = firstName + " " + lastName + " " + line
		}
		out = strings.Join(lines, "\n")
	}
	return out
}

// Modified reports whether Apply with placeholder replacement would change
// the text.
func Modified(text string) bool {
	return firstNamePattern.MatchString(text) || lastNamePattern.MatchString(text)
}
