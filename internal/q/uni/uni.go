package uni

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// Options control width calculation in TextWidth.
//
// Currently only relevant for East Asian code points and their locale.
type Options struct {
	EastAsianWidth   bool // if true, treats certain East Asian code points as 2 wide (e.g., Chinese, Japanese, Korean). Use if the locale is one of CJK.
	TreatEmojiAsWide bool // Only considered if EastAsianWidth. If true, treats emoji as wide (2 columns).
}

// TextWidth returns the text width of str for monospace fonts in terminals. If opts is nil, locale is assumed to be non-East Asian.
func TextWidth(str string, opts *Options) int {
	return conditionFromOptions(opts).StringWidth(str)
}

// UTF16Len returns the number of UTF-16 code units needed to encode str. Invalid bytes count as one unit each (they encode as U+FFFD).
func UTF16Len(str string) int {
	n := 0
	for _, r := range str {
		n += utf16.RuneLen(r)
	}
	return n
}

// ByteOffset converts a UTF-16 column in str to a byte offset. A column that falls inside a surrogate pair maps to the start of that rune; columns past the end
// map to len(str); negative columns map to 0.
func ByteOffset(str string, col int) int {
	if col <= 0 {
		return 0
	}
	units := 0
	for i, r := range str {
		next := units + utf16.RuneLen(r)
		if next > col {
			return i
		}
		units = next
		if units == col {
			// An invalid byte decodes to RuneError but occupies one byte.
			_, size := utf8.DecodeRuneInString(str[i:])
			return i + size
		}
	}
	return len(str)
}

// Snap widens the byte range [start, end) of str outward to grapheme cluster boundaries, so that a highlight never splits a user-perceived character (ex:
// a combining accent, or a flag made of two regional indicators). The result is clamped to [0, len(str)].
func Snap(str string, start, end int) (int, int) {
	start = max(0, min(start, len(str)))
	end = max(start, min(end, len(str)))

	iter := graphemes.FromString(str)
	for iter.Next() {
		s, e := iter.Start(), iter.End()
		if s < start && start < e {
			start = s
		}
		if s < end && end < e {
			end = e
			break
		}
		if s >= end {
			break
		}
	}
	return start, end
}

const hexDigits = "0123456789ABCDEF"

// Escape makes str safe to print on a terminal line: tabs are kept, other ASCII control characters (including \r, \n, and ESC) become "\xXX", and invalid
// UTF-8 bytes become U+FFFD.
func Escape(str string) string {
	clean := true
	for i := 0; i < len(str); i++ {
		if c := str[i]; (c < 0x20 && c != '\t') || c == 0x7F || c >= utf8.RuneSelf {
			clean = false
			break
		}
	}
	if clean {
		return str
	}

	var b strings.Builder
	b.Grow(len(str))
	for i := 0; i < len(str); {
		r, size := utf8.DecodeRuneInString(str[i:])
		i += size
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteRune('\uFFFD')
		case r == '\t':
			b.WriteByte('\t')
		case r < 0x20 || r == 0x7F:
			b.WriteString(`\x`)
			b.WriteByte(hexDigits[r>>4])
			b.WriteByte(hexDigits[r&0x0F])
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func conditionFromOptions(opts *Options) *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true

	if opts == nil {
		return cond
	}

	cond.EastAsianWidth = opts.EastAsianWidth
	if opts.EastAsianWidth && opts.TreatEmojiAsWide {
		cond.StrictEmojiNeutral = false
	}

	return cond
}
