package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

func init() {
	Register(dmpSource{})
}

// dmpSource is diff-match-patch in line mode: each distinct line is mapped to a rune, the rune strings are diffed, and the result is decoded back to lines.
type dmpSource struct{}

func (dmpSource) Name() string { return "dmp" }

func (dmpSource) Blocks(previous, current string) []Block {
	dmp := diffmatchpatch.New()

	rOld, rNew, lineArray := dmp.DiffLinesToRunes(previous, current)
	lineDiffs := dmp.DiffMainRunes(rOld, rNew, false)
	lineDiffs = dmp.DiffCleanupMerge(lineDiffs)

	// Decode rune-string back to the original lines using the lineArray mapping.
	decode := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			idx := int(r)
			if idx >= 0 && idx < len(lineArray) {
				b.WriteString(lineArray[idx])
			}
		}
		return b.String()
	}

	blocks := make([]Block, 0, len(lineDiffs))
	for _, d := range lineDiffs {
		text := decode(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			blocks = append(blocks, Block{Tag: TagSame, Text: text})
		case diffmatchpatch.DiffDelete:
			blocks = append(blocks, Block{Tag: TagRemoved, Text: text})
		case diffmatchpatch.DiffInsert:
			blocks = append(blocks, Block{Tag: TagAdded, Text: text})
		}
	}
	return blocks
}
