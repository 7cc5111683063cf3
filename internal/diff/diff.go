package diff

import (
	"fmt"
	"strings"
)

// DeltaKind is the kind of a grouped edit operation from previous text to current text.
type DeltaKind int

// Kinds of grouped edit operations.
const (
	KindInsert DeltaKind = iota
	KindDelete
	KindChange
)

var kindNames = [...]string{
	KindInsert: "insert",
	KindDelete: "delete",
	KindChange: "change",
}

func (k DeltaKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("DeltaKind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText encodes k as its lowercase name. It lets JSON, YAML, and TOML encoders emit "insert" instead of 0.
func (k DeltaKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("diff: invalid DeltaKind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind name as produced by MarshalText.
func (k *DeltaKind) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range kindNames {
		if n == name {
			*k = DeltaKind(i)
			return nil
		}
	}
	return fmt.Errorf("diff: unknown delta kind %q", string(text))
}

// Delta is one grouped edit operation.
//
// TargetPosition is a zero-based line index into the current text:
//   - KindInsert, KindChange: the first affected current-text line.
//   - KindDelete: the current-text line before which the deleted lines used to sit.
//
// Invariants:
//   - KindInsert: SourceLines is empty.
//   - KindDelete: TargetLines is empty.
//   - KindChange: both are non-empty (unless the raw diff produced a degenerate empty block).
type Delta struct {
	Kind           DeltaKind `json:"kind" yaml:"kind"`
	TargetPosition uint32    `json:"target_position" yaml:"target_position"`
	SourceLines    []string  `json:"source_lines" yaml:"source_lines"` // Lines from the previous text; empty for inserts.
	TargetLines    []string  `json:"target_lines" yaml:"target_lines"` // Lines from the current text; empty for deletes.
}

// LineBlock is a coarse line range in the current text.
//
// For KindDelete no current-text lines are occupied: StartLine is the insertion point and LineCount is the number of removed lines.
type LineBlock struct {
	Kind      DeltaKind `json:"kind" yaml:"kind"`
	StartLine uint32    `json:"start_line" yaml:"start_line"`
	LineCount uint32    `json:"line_count" yaml:"line_count"`
}

// InlineSpan highlights [StartColUTF16, EndColUTF16) on a current-text line inside a KindChange block. Columns are UTF-16 code units from the start of the line.
type InlineSpan struct {
	Line          uint32 `json:"line" yaml:"line"`
	StartColUTF16 uint32 `json:"start_col_utf16" yaml:"start_col_utf16"`
	EndColUTF16   uint32 `json:"end_col_utf16" yaml:"end_col_utf16"`
}

// Decorations is the renderer-oriented view of a diff. Both slices are ordered by ascending current-text position.
type Decorations struct {
	LineBlocks  []LineBlock  `json:"line_blocks" yaml:"line_blocks"`
	InlineSpans []InlineSpan `json:"inline_spans" yaml:"inline_spans"`
}

// BlockTag tags a raw diff block.
type BlockTag int

// Raw block tags.
const (
	TagSame BlockTag = iota
	TagRemoved
	TagAdded
)

func (t BlockTag) String() string {
	switch t {
	case TagSame:
		return "same"
	case TagRemoved:
		return "removed"
	case TagAdded:
		return "added"
	}
	return fmt.Sprintf("BlockTag(%d)", int(t))
}

// Block is one block of a raw line diff. Text may span several lines and usually keeps its '\n' terminators.
//
// For a well-formed block sequence:
//   - concat(Same and Removed Text) == previous
//   - concat(Same and Added Text) == current
//   - no two consecutive blocks share a Tag
type Block struct {
	Tag  BlockTag
	Text string
}

// defaultEOL is the line separator.
const defaultEOL = "\n"
