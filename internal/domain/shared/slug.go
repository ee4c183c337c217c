package shared

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugStrip   = regexp.MustCompile(`[^a-z0-9-]`)
	slugSqueeze = regexp.MustCompile(`-{2,}`)
)

// Slugify turns free text into a URL-safe label: lowercase, trimmed,
// runs of whitespace collapsed to single hyphens, everything outside
// [a-z0-9-] stripped. Diacritics are folded to their ASCII base first,
// so "Café" becomes "cafe". Text with no usable characters reduces to
// the empty string, never to bare hyphens. The result is stable under
// re-application.
func Slugify(s string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	out := strings.ToLower(strings.TrimSpace(folded))
	out = strings.Join(strings.Fields(out), "-")
	out = slugStrip.ReplaceAllString(out, "")
	out = slugSqueeze.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}
