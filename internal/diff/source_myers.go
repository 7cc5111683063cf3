package diff

import (
	zdiff "znkr.io/diff"
	"znkr.io/diff/textdiff"
)

func init() {
	Register(myersSource{})
}

// myersSource uses znkr.io/diff's line differ (Myers with preprocessing heuristics).
type myersSource struct{}

func (myersSource) Name() string { return "myers" }

func (myersSource) Blocks(previous, current string) []Block {
	var blocks []Block
	for _, e := range textdiff.Edits(previous, current) {
		var tag BlockTag
		switch e.Op {
		case zdiff.Match:
			tag = TagSame
		case zdiff.Delete:
			tag = TagRemoved
		case zdiff.Insert:
			tag = TagAdded
		default:
			continue
		}
		if n := len(blocks); n > 0 && blocks[n-1].Tag == tag {
			blocks[n-1].Text += e.Line
			continue
		}
		blocks = append(blocks, Block{Tag: tag, Text: e.Line})
	}
	return blocks
}
