package diff

import (
	"slices"
	"unicode/utf16"
)

// ChangedSpanUTF16 returns the single range [start, end) of newLine that differs from oldLine, in UTF-16 code units. It trims the longest common prefix, then
// the longest common suffix of what remains, so the two trims never overlap.
//
// ok is false if the lines are identical, or if trimming leaves nothing of newLine (ex: newLine is oldLine with characters removed from its middle).
func ChangedSpanUTF16(oldLine, newLine string) (start, end uint32, ok bool) {
	a := utf16.Encode([]rune(oldLine))
	b := utf16.Encode([]rune(newLine))

	if slices.Equal(a, b) {
		return 0, 0, false
	}

	i := 0
	maxPrefix := min(len(a), len(b))
	for i < maxPrefix && a[i] == b[i] {
		i++
	}

	j := 0
	maxSuffix := min(len(a)-i, len(b)-i)
	for j < maxSuffix && a[len(a)-1-j] == b[len(b)-1-j] {
		j++
	}

	s, e := i, len(b)-j
	if s >= e {
		return 0, 0, false
	}
	return clampCount(s), clampCount(e), true
}
