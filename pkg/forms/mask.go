package forms

import (
	"strconv"
	"strings"
	"time"
)

// GenerateIDMask resolves a visual-ID mask into the user-editable seed value:
// every exact "YYYY" token becomes the current four-digit year and every '*'
// wildcard is stripped, all other characters verbatim. Lower-case "yyyy" is
// not a token.
//
// Single-pass on purpose: masks are resolved once at identifier generation
// time, and re-applying to output that still contains a literal "YYYY" would
// substitute again. That matches upstream behaviour; no fixpoint semantic.
func GenerateIDMask(mask string) string {
	return GenerateIDMaskAt(mask, time.Now())
}

// GenerateIDMaskAt is GenerateIDMask with an explicit clock.
func GenerateIDMaskAt(mask string, now time.Time) string {
	out := strings.ReplaceAll(mask, "YYYY", strconv.Itoa(now.Year()))
	return strings.ReplaceAll(out, "*", "")
}
