// Package diff turns a line diff between a "previous" and a "current" text into grouped edit operations and editor-ready decorations.
//
// Pipeline: a RawSource produces an ordered sequence of Blocks tagged Same, Removed, or Added. Group and Decorate consume that sequence in one left-to-right pass,
// keeping a cursor into the current text and at most one pending removal:
//   - Removed immediately followed by Added: one KindChange at the removal's position.
//   - Removed followed by Same (or the end): KindDelete, anchored at the current-text line the removed lines used to sit before.
//   - Added with no pending removal: KindInsert at the cursor.
//
// Group returns Deltas (with the affected lines). Decorate returns LineBlocks, plus InlineSpans for changed lines: old and new lines of a change are paired by
// index (up to the shorter side), and ChangedSpanUTF16 trims their common prefix and suffix to find the single changed range. Columns are UTF-16 code units,
// which is what most editor and UI toolkits index text by.
//
// Getting results:
//
//	deltas := diff.ComputeDeltas(previous, current)
//	dec := diff.ComputeDecorations(previous, current)
//
// Both use the default RawSource ("dmp", diff-match-patch in line mode). Other sources are registered by name ("difflib", "myers"); use Source and BlocksFrom
// to pick one, or SetDefaultSource.
//
// Invariants (for block sequences from a RawSource):
//   - Apply(lines(previous), deltas) == lines(current)
//   - Group and Decorate agree on the kind and position of every operation.
//   - Positions never decrease along the output.
//   - previous == current yields no deltas and no decorations.
//
// Newlines: '\n' separates lines; a trailing '\n' does not create an empty last line, and a '\r' before '\n' is dropped. Callers should normalize line endings
// between the two texts, since spans compare lines exactly.
package diff
