package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

func init() {
	Register(difflibSource{})
}

// difflibSource uses difflib's SequenceMatcher (Ratcliff/Obershelp). It tends to keep long matching runs together at the cost of minimality.
type difflibSource struct{}

func (difflibSource) Name() string { return "difflib" }

func (difflibSource) Blocks(previous, current string) []Block {
	// difflib.SplitLines appends a "\n" to the last line, which would break reconstruction, so keep our own split.
	a := splitPreserveEOL(previous)
	b := splitPreserveEOL(current)

	m := difflib.NewMatcher(a, b)
	var blocks []Block
	for _, op := range m.GetOpCodes() {
		switch op.Tag {
		case 'e':
			blocks = append(blocks, Block{Tag: TagSame, Text: strings.Join(a[op.I1:op.I2], "")})
		case 'd':
			blocks = append(blocks, Block{Tag: TagRemoved, Text: strings.Join(a[op.I1:op.I2], "")})
		case 'i':
			blocks = append(blocks, Block{Tag: TagAdded, Text: strings.Join(b[op.J1:op.J2], "")})
		case 'r':
			blocks = append(blocks,
				Block{Tag: TagRemoved, Text: strings.Join(a[op.I1:op.I2], "")},
				Block{Tag: TagAdded, Text: strings.Join(b[op.J1:op.J2], "")},
			)
		}
	}
	return blocks
}
