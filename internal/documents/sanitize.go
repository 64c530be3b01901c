package documents

import (
	"regexp"
	"strings"
)

var (
	// \s is ASCII only; \p{Z} adds NBSP, em space and ideographic space.
	// Combining marks stay so Indic vowel signs and NFD accents survive.
	unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\p{Z}-]`)
	separatorRuns       = regexp.MustCompile(`[-\s\p{Z}]+`)
)

// SanitizeFilename reduces free text to word characters joined by single
// hyphens, e.g. "Raj & Sons, Pvt. Ltd." -> "Raj-Sons-Pvt-Ltd".
func SanitizeFilename(s string) string {
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = separatorRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
