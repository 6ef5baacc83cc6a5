package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanLabel prepares an entity label for output and deduplication: leading
// and trailing whitespace is trimmed and the text is brought to NFC so that
// composed and decomposed accents compare equal.
func CleanLabel(label string) string {
	return strings.TrimSpace(norm.NFC.String(label))
}
