package diff

import (
	"fmt"
	"slices"
	"strings"
)

// ApplyError reports a delta that cannot be applied to the previous text.
type ApplyError struct {
	Index    int    // index of the offending delta
	Position uint32 // its TargetPosition
	Reason   string
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply delta[%d] at line %d: %s", e.Index, e.Position, e.Reason)
}

// Apply applies deltas, in order, to the lines of the previous text and returns the lines of the current text. For deltas produced by Group from a well-formed
// block sequence, Apply(splitLines(previous), deltas) equals splitLines(current).
//
// Lines removed by a delete or change must match the delta's SourceLines exactly; otherwise an *ApplyError is returned. Malformed deltas (wrong kind invariants,
// decreasing positions) are rejected before anything is applied.
func Apply(previous []string, deltas []Delta) ([]string, error) {
	if err := validateDeltas(deltas); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(previous))
	old := 0 // next unconsumed line of previous

	for i, d := range deltas {
		pos := int(d.TargetPosition)
		if pos < len(out) {
			return nil, &ApplyError{Index: i, Position: d.TargetPosition, Reason: fmt.Sprintf("overlaps the previous delta (output already has %d lines)", len(out))}
		}

		// Copy unchanged lines up to the delta.
		keep := pos - len(out)
		if old+keep > len(previous) {
			return nil, &ApplyError{Index: i, Position: d.TargetPosition, Reason: "position is past the end of the previous text"}
		}
		out = append(out, previous[old:old+keep]...)
		old += keep

		if d.Kind != KindInsert {
			end := old + len(d.SourceLines)
			if end > len(previous) {
				return nil, &ApplyError{Index: i, Position: d.TargetPosition, Reason: "source lines run past the end of the previous text"}
			}
			if !slices.Equal(previous[old:end], d.SourceLines) {
				return nil, &ApplyError{Index: i, Position: d.TargetPosition, Reason: "source lines do not match the previous text"}
			}
			old = end
		}
		if d.Kind != KindDelete {
			out = append(out, d.TargetLines...)
		}
	}

	return append(out, previous[old:]...), nil
}

// ApplyText is Apply on whole texts. The result joins lines with "\n" and has no trailing newline.
func ApplyText(previous string, deltas []Delta) (string, error) {
	lines, err := Apply(splitLines(previous), deltas)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, defaultEOL), nil
}
