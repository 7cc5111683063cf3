package diff

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
)

func TestChangedSpanUTF16(t *testing.T) {
	tests := []struct {
		name   string
		old    string
		new    string
		start  uint32
		end    uint32
		wantOK bool
	}{
		{name: "identical", old: "same", new: "same", wantOK: false},
		{name: "both empty", old: "", new: "", wantOK: false},
		{name: "single char", old: "b", new: "x", start: 0, end: 1, wantOK: true},
		{name: "bmp accent", old: "héllo", new: "hbllo", start: 1, end: 2, wantOK: true},
		{name: "after surrogate pair", old: "😀x", new: "😀y", start: 2, end: 3, wantOK: true},
		{name: "surrogate pair replaced", old: "a😀b", new: "a😁b", start: 2, end: 3, wantOK: true},
		{name: "insert in middle", old: "abc", new: "abXc", start: 2, end: 3, wantOK: true},
		{name: "append", old: "aaa", new: "aaaa", start: 3, end: 4, wantOK: true},
		{name: "prepend", old: "bc", new: "abc", start: 0, end: 1, wantOK: true},
		{name: "from empty", old: "", new: "xy", start: 0, end: 2, wantOK: true},
		{name: "to empty", old: "xy", new: "", wantOK: false},
		{name: "removed from middle", old: "aXa", new: "aa", wantOK: false},
		{name: "replace whole", old: "abc", new: "xyz", start: 0, end: 3, wantOK: true},
		{name: "prefix and suffix would overlap", old: "abab", new: "ab", wantOK: false},
		{name: "trailing cr", old: "line", new: "line\r", start: 4, end: 5, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := ChangedSpanUTF16(tt.old, tt.new)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

// TestChangedSpanUTF16_Minimality checks that splicing the changed range of newLine into oldLine's unchanged prefix and suffix reconstructs newLine, and that
// the prefix and suffix really are shared.
func TestChangedSpanUTF16_Minimality(t *testing.T) {
	pairs := [][2]string{
		{"hello world", "hello there world"},
		{"func foo(x int) int {", "func foo(x, y int) int {"},
		{"😀😀😀", "😀😁😀"},
		{"naïve café", "naive cafe"},
		{"abcdef", "abXYef"},
	}
	for _, p := range pairs {
		oldLine, newLine := p[0], p[1]
		start, end, ok := ChangedSpanUTF16(oldLine, newLine)
		if !assert.True(t, ok, "%q -> %q", oldLine, newLine) {
			continue
		}

		a := utf16.Encode([]rune(oldLine))
		b := utf16.Encode([]rune(newLine))
		suffix := len(b) - int(end)

		assert.Equal(t, a[:start], b[:start])
		assert.Equal(t, a[len(a)-suffix:], b[len(b)-suffix:])
		assert.LessOrEqual(t, int(start)+suffix, len(a))

		// Growing either trim by one unit must break the match.
		if int(start) < len(a) && int(start) < len(b) {
			assert.NotEqual(t, a[start], b[start])
		}
	}
}
