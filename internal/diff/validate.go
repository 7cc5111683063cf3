package diff

import (
	"fmt"
)

// validateDeltas checks per-kind line invariants and that positions never decrease. It returns an error on the first violation.
func validateDeltas(deltas []Delta) error {
	var last uint32
	for i, d := range deltas {
		switch d.Kind {
		case KindInsert:
			if len(d.SourceLines) != 0 {
				return fmt.Errorf("delta[%d]: insert requires empty SourceLines", i)
			}
		case KindDelete:
			if len(d.TargetLines) != 0 {
				return fmt.Errorf("delta[%d]: delete requires empty TargetLines", i)
			}
		case KindChange:
		default:
			return fmt.Errorf("delta[%d]: invalid kind %d", i, int(d.Kind))
		}
		if d.TargetPosition < last {
			return fmt.Errorf("delta[%d]: position %d is before previous position %d", i, d.TargetPosition, last)
		}
		last = d.TargetPosition
	}
	return nil
}

// Validate checks that line blocks and inline spans are ordered by position, that every span is a non-empty range, and that every span lies on a line covered
// by a change block. It returns an error on the first violation.
func (d Decorations) Validate() error {
	var last uint32
	for i, b := range d.LineBlocks {
		if b.Kind < KindInsert || b.Kind > KindChange {
			return fmt.Errorf("line_blocks[%d]: invalid kind %d", i, int(b.Kind))
		}
		if b.StartLine < last {
			return fmt.Errorf("line_blocks[%d]: start %d is before previous start %d", i, b.StartLine, last)
		}
		last = b.StartLine
	}

	last = 0
	for i, s := range d.InlineSpans {
		if s.StartColUTF16 >= s.EndColUTF16 {
			return fmt.Errorf("inline_spans[%d]: empty range [%d, %d)", i, s.StartColUTF16, s.EndColUTF16)
		}
		if s.Line < last {
			return fmt.Errorf("inline_spans[%d]: line %d is before previous line %d", i, s.Line, last)
		}
		last = s.Line
		if !d.inChange(s.Line) {
			return fmt.Errorf("inline_spans[%d]: line %d is not inside a change block", i, s.Line)
		}
	}
	return nil
}

func (d Decorations) inChange(line uint32) bool {
	for _, b := range d.LineBlocks {
		if b.Kind != KindChange {
			continue
		}
		if line >= b.StartLine && uint64(line) < uint64(b.StartLine)+uint64(b.LineCount) {
			return true
		}
	}
	return false
}
