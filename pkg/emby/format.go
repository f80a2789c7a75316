package emby

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ticksPerMillisecond converts Emby run-time ticks (100ns units).
const ticksPerMillisecond = 10000

// ticksToClock formats a tick count as hh:mm:ss.
func ticksToClock(ticks int64) string {
	if ticks <= 0 {
		return ""
	}
	total := ticks / (ticksPerMillisecond * 1000)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// msToClock formats a millisecond count as hh:mm:ss.
func msToClock(ms int64) string {
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// fold lowercases s and strips diacritics so "Beyoncé" matches "beyonce".
// Used for the client-side lyrics phrase search and name comparisons, where
// agents frequently supply plain-ASCII spellings.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// foldContains reports whether needle occurs in haystack after folding.
func foldContains(haystack, needle string) bool {
	return strings.Contains(fold(haystack), fold(needle))
}

// foldEqual reports whether two strings are equal after folding.
func foldEqual(a, b string) bool {
	return fold(a) == fold(b)
}
