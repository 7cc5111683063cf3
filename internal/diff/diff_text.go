package diff

import (
	"math"
	"strings"
)

// ComputeDeltas diffs previous to current with the default raw source and groups the result into deltas.
func ComputeDeltas(previous, current string) []Delta {
	return Group(Changeset(previous, current))
}

// ComputeDecorations diffs previous to current with the default raw source and returns line blocks and UTF-16 inline spans.
func ComputeDecorations(previous, current string) Decorations {
	return Decorate(Changeset(previous, current))
}

// Group groups a raw block sequence into deltas in a single left-to-right pass. A Removed block immediately followed by an Added block becomes one KindChange;
// otherwise Removed blocks become KindDelete and Added blocks become KindInsert.
//
// Group never fails. Blocks with empty Text contribute no lines.
func Group(blocks []Block) []Delta {
	var e deltaEmitter
	walk(blocks, &e)
	return e.out
}

// Decorate walks blocks exactly like Group, but produces line blocks, plus an inline span for each index-aligned old/new line pair inside a change that differs.
// When a change has unequal line counts, lines past the shorter side get no inline span.
func Decorate(blocks []Block) Decorations {
	var e decorationEmitter
	walk(blocks, &e)
	return e.dec
}

// emitter receives grouped operations from walk, in ascending current-text position.
type emitter interface {
	insert(pos uint32, tgt []string)
	delete(pos uint32, src []string)
	change(pos uint32, src, tgt []string)
}

// pendingRemoval is a Removed block waiting to see whether an Added block follows it.
type pendingRemoval struct {
	pos   uint32 // cursor when the removal was seen
	lines []string
}

// walk drives e over blocks. cursor counts current-text lines seen so far; pending is the only other state, and both live for one call.
func walk(blocks []Block, e emitter) {
	var cursor uint32
	var pending *pendingRemoval

	flush := func() {
		if pending != nil {
			e.delete(pending.pos, pending.lines)
			pending = nil
		}
	}

	for _, b := range blocks {
		switch b.Tag {
		case TagSame:
			flush()
			cursor = saturatingAdd(cursor, countLines(b.Text))
		case TagRemoved:
			// Two Removed blocks in a row only happen with unnormalized input. Keep the earlier one as a delete rather than drop it.
			flush()
			pending = &pendingRemoval{pos: cursor, lines: splitLines(b.Text)}
		case TagAdded:
			tgt := splitLines(b.Text)
			if pending != nil {
				e.change(pending.pos, pending.lines, tgt)
				pending = nil
			} else {
				e.insert(cursor, tgt)
			}
			cursor = saturatingAdd(cursor, len(tgt))
		}
	}
	flush()
}

type deltaEmitter struct {
	out []Delta
}

func (e *deltaEmitter) insert(pos uint32, tgt []string) {
	e.out = append(e.out, Delta{Kind: KindInsert, TargetPosition: pos, SourceLines: []string{}, TargetLines: tgt})
}

func (e *deltaEmitter) delete(pos uint32, src []string) {
	e.out = append(e.out, Delta{Kind: KindDelete, TargetPosition: pos, SourceLines: src, TargetLines: []string{}})
}

func (e *deltaEmitter) change(pos uint32, src, tgt []string) {
	e.out = append(e.out, Delta{Kind: KindChange, TargetPosition: pos, SourceLines: src, TargetLines: tgt})
}

type decorationEmitter struct {
	dec Decorations
}

func (e *decorationEmitter) insert(pos uint32, tgt []string) {
	e.dec.LineBlocks = append(e.dec.LineBlocks, LineBlock{Kind: KindInsert, StartLine: pos, LineCount: clampCount(len(tgt))})
}

func (e *decorationEmitter) delete(pos uint32, src []string) {
	e.dec.LineBlocks = append(e.dec.LineBlocks, LineBlock{Kind: KindDelete, StartLine: pos, LineCount: clampCount(len(src))})
}

func (e *decorationEmitter) change(pos uint32, src, tgt []string) {
	e.dec.LineBlocks = append(e.dec.LineBlocks, LineBlock{Kind: KindChange, StartLine: pos, LineCount: clampCount(len(tgt))})

	// Pair lines index by index, up to the shorter side.
	n := min(len(src), len(tgt))
	for i := 0; i < n; i++ {
		start, end, ok := ChangedSpanUTF16(src[i], tgt[i])
		if !ok {
			continue
		}
		e.dec.InlineSpans = append(e.dec.InlineSpans, InlineSpan{Line: saturatingAdd(pos, i), StartColUTF16: start, EndColUTF16: end})
	}
}

// saturatingAdd returns a+n, clamped to [a, math.MaxUint32].
func saturatingAdd(a uint32, n int) uint32 {
	if n <= 0 {
		return a
	}
	if uint64(n) >= uint64(math.MaxUint32-a) {
		return math.MaxUint32
	}
	return a + uint32(n)
}

func clampCount(n int) uint32 {
	return saturatingAdd(0, n)
}

// splitLines splits text into lines without their terminators. "" has no lines, a trailing "\n" does not start an extra empty line, and "\r\n" counts as a
// single terminator.
func splitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	lines := make([]string, 0, strings.Count(text, defaultEOL)+1)
	for text != "" {
		idx := strings.Index(text, defaultEOL)
		if idx == -1 {
			lines = append(lines, text)
			break
		}
		line := text[:idx]
		line = strings.TrimSuffix(line, "\r")
		lines = append(lines, line)
		text = text[idx+len(defaultEOL):]
	}
	return lines
}

// countLines returns len(splitLines(text)) without allocating.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, defaultEOL)
	if !strings.HasSuffix(text, defaultEOL) {
		n++
	}
	return n
}

// splitPreserveEOL splits text into lines that keep their "\n", except possibly the last.
func splitPreserveEOL(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for {
		idx := strings.Index(text, defaultEOL)
		if idx == -1 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:idx+len(defaultEOL)])
		text = text[idx+len(defaultEOL):]
		if text == "" {
			break
		}
	}
	return lines
}
