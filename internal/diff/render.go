package diff

import (
	"fmt"
	"strings"

	"github.com/codalotl/diffy/internal/q/uni"
)

// RenderOptions controls RenderDecorations.
type RenderOptions struct {
	// Color emits ANSI 256-color backgrounds for changed lines and spans. Without it, spans are marked with a '^' underline on the following line.
	Color bool

	// ContextLines is how many unchanged lines to show around each changed region. A negative value shows the whole text. Regions separated by at most
	// 2*ContextLines unchanged lines are shown as one region.
	ContextLines int

	// LineNumbers prefixes each line with its 1-based current-text line number.
	LineNumbers bool

	// Filename, if set, is printed as a header line.
	Filename string

	// Width controls display width when aligning '^' underlines. nil means a non-East Asian locale.
	Width *uni.Options
}

// RenderDecorations renders current with dec painted over it, the way an editor would show it: inserted lines and changed lines are marked in the gutter ("+" and
// "~"), changed spans are highlighted, and each deleted block becomes a "-" marker line at the position the lines were removed from.
//
// Spans are given in UTF-16 columns; they are converted to byte offsets and widened to grapheme cluster boundaries before highlighting. Control characters in
// current are shown escaped (see uni.Escape). Lines are separated by
// "\n" in the result. If dec has no line blocks and Filename is empty, the result is the empty string unless ContextLines is negative.
func RenderDecorations(current string, dec Decorations, opts RenderOptions) string {
	const (
		reset     = "\x1b[0m"
		blackFG   = "\x1b[30m"
		pinkLine  = "\x1b[48;5;224m" // deleted-block marker
		greenLine = "\x1b[48;5;194m" // inserted lines
		blueLine  = "\x1b[48;5;189m" // changed lines
		blueSpan  = "\x1b[48;5;147m" // changed spans
		cyanBold  = "\x1b[1;36m"
		dim       = "\x1b[2m"
	)

	lines := splitLines(current)
	n := len(lines)

	kinds := make(map[int]DeltaKind)
	deleted := make(map[int]uint32) // line index -> removed line count anchored before it
	for _, b := range dec.LineBlocks {
		start := int(b.StartLine)
		if b.Kind == KindDelete {
			deleted[start] += b.LineCount
			continue
		}
		for i := start; i < start+int(b.LineCount) && i < n; i++ {
			kinds[i] = b.Kind
		}
	}
	spans := make(map[int][]InlineSpan)
	for _, s := range dec.InlineSpans {
		spans[int(s.Line)] = append(spans[int(s.Line)], s)
	}

	// Decide which lines are visible. Deletion markers are always shown; slot n (after the last line) only ever holds a marker.
	visible := make([]bool, n)
	if opts.ContextLines < 0 {
		for i := range visible {
			visible[i] = true
		}
	} else {
		mark := func(lo, hi int) {
			for i := max(0, lo); i <= hi && i < n; i++ {
				visible[i] = true
			}
		}
		for i := range kinds {
			mark(i-opts.ContextLines, i+opts.ContextLines)
		}
		for i := range deleted {
			mark(i-opts.ContextLines, i+opts.ContextLines-1)
		}
		// Merge regions whose gap is small enough.
		for i := 0; i < n; {
			if visible[i] {
				i++
				continue
			}
			j := i
			for j < n && !visible[j] {
				j++
			}
			if i > 0 && j < n && j-i <= 2*opts.ContextLines {
				mark(i, j-1)
			}
			i = j
		}
	}

	numWidth := len(fmt.Sprint(n))

	paint := func(s, codes string) string {
		if !opts.Color {
			return s
		}
		return codes + s + reset
	}

	gutter := func(marker byte, lineIdx int) string {
		if !opts.LineNumbers {
			return string(marker)
		}
		if lineIdx < 0 {
			return fmt.Sprintf("%*s %c", numWidth, "", marker)
		}
		return fmt.Sprintf("%*d %c", numWidth, lineIdx+1, marker)
	}

	var out []string
	if opts.Filename != "" {
		out = append(out, paint(uni.Escape(opts.Filename)+":", cyanBold))
	}

	prevShown := -1
	for i := 0; i <= n; i++ {
		removed := deleted[i]
		showLine := i < n && visible[i]
		if removed == 0 && !showLine {
			continue
		}
		if prevShown >= 0 && i-prevShown > 1 {
			out = append(out, paint("...", dim))
		}
		prevShown = i

		if removed > 0 {
			noun := "lines"
			if removed == 1 {
				noun = "line"
			}
			out = append(out, paint(fmt.Sprintf("%s %d %s removed", gutter('-', -1), removed, noun), blackFG+pinkLine))
		}
		if !showLine {
			continue
		}

		line := lines[i]
		kind, changed := kinds[i]
		switch {
		case !changed:
			out = append(out, gutter(' ', i)+uni.Escape(line))
		case kind == KindInsert:
			out = append(out, paint(gutter('+', i)+uni.Escape(line), blackFG+greenLine))
		default:
			g := gutter('~', i)
			ranges := byteRanges(line, spans[i])
			if opts.Color {
				var b strings.Builder
				b.WriteString(blackFG + blueLine + g)
				pos := 0
				for _, r := range ranges {
					b.WriteString(uni.Escape(line[pos:r[0]]))
					b.WriteString(reset + blackFG + blueSpan)
					b.WriteString(uni.Escape(line[r[0]:r[1]]))
					b.WriteString(reset + blackFG + blueLine)
					pos = r[1]
				}
				b.WriteString(uni.Escape(line[pos:]))
				b.WriteString(reset)
				out = append(out, b.String())
				continue
			}
			out = append(out, g+uni.Escape(line))
			if len(ranges) > 0 {
				out = append(out, strings.Repeat(" ", len(g))+underline(line, ranges, opts.Width))
			}
		}
	}

	return strings.Join(out, defaultEOL)
}

// byteRanges converts spans on line to sorted, non-overlapping byte ranges snapped to grapheme boundaries.
func byteRanges(line string, spans []InlineSpan) [][2]int {
	var ranges [][2]int
	for _, s := range spans {
		start := uni.ByteOffset(line, int(s.StartColUTF16))
		end := uni.ByteOffset(line, int(s.EndColUTF16))
		start, end = uni.Snap(line, start, end)
		if start >= end {
			continue
		}
		if k := len(ranges); k > 0 && start <= ranges[k-1][1] {
			ranges[k-1][1] = max(ranges[k-1][1], end)
			continue
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

// underline returns a line of '^' under each range of line, as displayed after uni.Escape. Tabs in line are copied so the carets stay aligned regardless of
// tab width.
func underline(line string, ranges [][2]int, width *uni.Options) string {
	var b strings.Builder
	pad := func(s string) {
		for _, r := range s {
			if r == '\t' {
				b.WriteByte('\t')
				continue
			}
			b.WriteString(strings.Repeat(" ", uni.TextWidth(string(r), width)))
		}
	}
	pos := 0
	for _, r := range ranges {
		pad(uni.Escape(line[pos:r[0]]))
		b.WriteString(strings.Repeat("^", max(1, uni.TextWidth(uni.Escape(line[r[0]:r[1]]), width))))
		pos = r[1]
	}
	return b.String()
}
