package scorer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/width"
)

// Fingerprint derives the deterministic identity of a record from its
// normalized title, origin, and date-only publish timestamp. Records that
// collide are the same logical item; collisions drive deduplication and
// cross-version diffing.
func Fingerprint(title, origin string, publishedAt time.Time) string {
	key := NormalizeTitle(title) + "|" + origin + "|" + publishedAt.UTC().Format("2006-01-02")
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:16]
}

// NormalizeTitle folds full-width characters to their narrow forms,
// lowercases Latin text, and collapses whitespace so near-identical
// titles from mixed CJK/Latin sources fingerprint the same.
func NormalizeTitle(title string) string {
	folded := width.Narrow.String(title)
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	space := false
	for _, r := range folded {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteRune(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
