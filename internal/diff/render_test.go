package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDecorations_WholeText(t *testing.T) {
	current := "a\nxbc\nd\ne"
	dec := Decorations{
		LineBlocks: []LineBlock{
			{Kind: KindChange, StartLine: 1, LineCount: 1},
			{Kind: KindDelete, StartLine: 3, LineCount: 2},
			{Kind: KindInsert, StartLine: 3, LineCount: 1},
		},
		InlineSpans: []InlineSpan{{Line: 1, StartColUTF16: 0, EndColUTF16: 1}},
	}

	got := RenderDecorations(current, dec, RenderOptions{ContextLines: -1})
	assert.Equal(t, " a\n~xbc\n ^\n d\n- 2 lines removed\n+e", got)
}

func TestRenderDecorations_Context(t *testing.T) {
	tests := []struct {
		name    string
		current string
		dec     Decorations
		context int
		want    string
	}{
		{
			name:    "no decorations",
			current: "a\nb",
			context: 3,
			want:    "",
		},
		{
			name:    "separate regions",
			current: "1\n2\n3\n4\n5\n6\n7",
			dec: Decorations{
				LineBlocks:  []LineBlock{{Kind: KindChange, StartLine: 1, LineCount: 1}, {Kind: KindInsert, StartLine: 5, LineCount: 1}},
				InlineSpans: []InlineSpan{{Line: 1, StartColUTF16: 0, EndColUTF16: 1}},
			},
			context: 0,
			want:    "~2\n ^\n...\n+6",
		},
		{
			name:    "small gap merges",
			current: "1\n2\n3\n4\n5",
			dec: Decorations{
				LineBlocks: []LineBlock{{Kind: KindInsert, StartLine: 0, LineCount: 1}, {Kind: KindInsert, StartLine: 4, LineCount: 1}},
			},
			context: 1,
			want:    "+1\n 2\n 3\n 4\n+5",
		},
		{
			name:    "deletion with no context",
			current: "a\nb\nc",
			dec: Decorations{
				LineBlocks: []LineBlock{{Kind: KindDelete, StartLine: 1, LineCount: 1}},
			},
			context: 0,
			want:    "- 1 line removed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderDecorations(tt.current, tt.dec, RenderOptions{ContextLines: tt.context})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderDecorations_LineNumbersAndTrailingDelete(t *testing.T) {
	dec := Decorations{LineBlocks: []LineBlock{{Kind: KindDelete, StartLine: 2, LineCount: 1}}}

	got := RenderDecorations("a\nb", dec, RenderOptions{ContextLines: 1, LineNumbers: true})
	assert.Equal(t, "2  b\n  - 1 line removed", got)
}

func TestRenderDecorations_Filename(t *testing.T) {
	got := RenderDecorations("a", Decorations{}, RenderOptions{Filename: "f.txt"})
	assert.Equal(t, "f.txt:", got)

	got = RenderDecorations("a", Decorations{}, RenderOptions{Filename: "f.txt", Color: true})
	assert.Equal(t, "\x1b[1;36mf.txt:\x1b[0m", got)
}

func TestRenderDecorations_ColorSurrogatePair(t *testing.T) {
	const (
		reset    = "\x1b[0m"
		blackFG  = "\x1b[30m"
		blueLine = "\x1b[48;5;189m"
		blueSpan = "\x1b[48;5;147m"
	)

	dec := ComputeDecorations("😀x", "😀y")
	assert.Equal(t, []InlineSpan{{Line: 0, StartColUTF16: 2, EndColUTF16: 3}}, dec.InlineSpans)

	got := RenderDecorations("😀y", dec, RenderOptions{Color: true, ContextLines: -1})
	want := blackFG + blueLine + "~😀" + reset + blackFG + blueSpan + "y" + reset + blackFG + blueLine + reset
	assert.Equal(t, want, got)
}

func TestRenderDecorations_SnapsToGraphemes(t *testing.T) {
	// The span covers only the combining accent; the underline widens to the whole "é".
	current := "xe\u0301y"
	dec := Decorations{
		LineBlocks:  []LineBlock{{Kind: KindChange, StartLine: 0, LineCount: 1}},
		InlineSpans: []InlineSpan{{Line: 0, StartColUTF16: 2, EndColUTF16: 3}},
	}

	got := RenderDecorations(current, dec, RenderOptions{ContextLines: -1})
	assert.Equal(t, "~"+current+"\n  ^", got)
}

func TestRenderDecorations_TabsKeepCaretsAligned(t *testing.T) {
	dec := ComputeDecorations("\treturn x", "\treturn y")

	got := RenderDecorations("\treturn y", dec, RenderOptions{ContextLines: -1})
	assert.Equal(t, "~\treturn y\n \t       ^", got)
}

func TestRenderDecorations_EscapesControlCharacters(t *testing.T) {
	dec := ComputeDecorations("a\x1b[31mb", "a\x1b[31mc")
	require.Len(t, dec.InlineSpans, 1)

	got := RenderDecorations("a\x1b[31mc", dec, RenderOptions{ContextLines: -1})
	assert.Equal(t, "~a\\x1B[31mc\n          ^", got)
}

func TestRenderDecorations_SpanAfterInvalidByte(t *testing.T) {
	dec := ComputeDecorations("\xffab", "\xffxb")
	assert.Equal(t, []InlineSpan{{Line: 0, StartColUTF16: 1, EndColUTF16: 2}}, dec.InlineSpans)

	got := RenderDecorations("\xffxb", dec, RenderOptions{ContextLines: -1})
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "~\uFFFDxb", lines[0])
	assert.Equal(t, 1, strings.Count(lines[1], "^"))
	assert.True(t, strings.HasSuffix(lines[1], "^"), "underline %q", lines[1])
}
