package diff

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// RawSource is a line-level diff algorithm. Blocks returns the raw Same/Removed/Added sequence between previous and current, with '\n' as the line separator.
//
// Implementations need not merge adjacent blocks or order removals before additions; Changeset and BlocksFrom normalize their output.
type RawSource interface {
	Name() string
	Blocks(previous, current string) []Block
}

// ErrUnknownSource is returned when a raw source name is not registered.
var ErrUnknownSource = errors.New("unknown diff source")

// DefaultSourceName is the source used by Changeset, ComputeDeltas, and ComputeDecorations until SetDefaultSource changes it.
const DefaultSourceName = "dmp"

var (
	registryMu  sync.RWMutex
	registry    = make(map[string]RawSource)
	defaultName = DefaultSourceName
)

// Register registers src under src.Name(), replacing any source with the same name.
func Register(src RawSource) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[src.Name()] = src
}

// Source returns the registered source called name.
func Source(name string) (RawSource, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if src, ok := registry[name]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("diff source %q: %w", name, ErrUnknownSource)
}

// DefaultSource returns the current default source.
func DefaultSource() RawSource {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[defaultName]
}

// SetDefaultSource makes the registered source called name the default.
func SetDefaultSource(name string) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; !ok {
		return fmt.Errorf("diff source %q: %w", name, ErrUnknownSource)
	}
	defaultName = name
	return nil
}

// Sources returns the names of all registered sources, sorted.
func Sources() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Changeset returns the normalized raw block sequence between previous and current, using the default source.
func Changeset(previous, current string) []Block {
	return BlocksFrom(DefaultSource(), previous, current)
}

// BlocksFrom returns the normalized raw block sequence between previous and current, using src.
//
// An unterminated last line compares equal to the same line with a '\n', so "a\nb" -> "a\nb\nc" is an insert of "c" rather than a change of "b". The blocks
// rebuild each side up to its final line terminator: when only one side ends in '\n' and their last lines match, the shared Same block keeps the '\n'.
func BlocksFrom(src RawSource, previous, current string) []Block {
	prevEOL := needsEOL(previous)
	curEOL := needsEOL(current)
	if prevEOL {
		previous += defaultEOL
	}
	if curEOL {
		current += defaultEOL
	}
	blocks := normalizeBlocks(src.Blocks(previous, current))
	return trimAddedEOL(blocks, prevEOL, curEOL)
}

func needsEOL(text string) bool {
	return text != "" && !strings.HasSuffix(text, defaultEOL)
}

// trimAddedEOL strips the '\n' that BlocksFrom appended to previous (prevEOL) and current (curEOL) from the last block of each side. A Same block is shared by
// both sides, so it is only trimmed when it ends both.
func trimAddedEOL(blocks []Block, prevEOL, curEOL bool) []Block {
	if !prevEOL && !curEOL {
		return blocks
	}
	lastPrev, lastCur := -1, -1
	for i, b := range blocks {
		switch b.Tag {
		case TagSame:
			lastPrev, lastCur = i, i
		case TagRemoved:
			lastPrev = i
		case TagAdded:
			lastCur = i
		}
	}

	trim := func(i int) {
		blocks[i].Text = strings.TrimSuffix(blocks[i].Text, defaultEOL)
	}
	if lastPrev >= 0 && lastPrev == lastCur {
		if prevEOL && curEOL {
			trim(lastPrev)
		}
		return normalizeBlocks(blocks)
	}
	if prevEOL && lastPrev >= 0 && blocks[lastPrev].Tag == TagRemoved {
		trim(lastPrev)
	}
	if curEOL && lastCur >= 0 && blocks[lastCur].Tag == TagAdded {
		trim(lastCur)
	}
	return normalizeBlocks(blocks)
}

// normalizeBlocks drops empty blocks, merges adjacent blocks with the same tag, and, within each run of changed blocks, places all removed text before all added
// text. Concatenated Same+Removed and Same+Added text are unchanged by this.
func normalizeBlocks(blocks []Block) []Block {
	var out []Block
	var removed, added strings.Builder

	flushRun := func() {
		if removed.Len() > 0 {
			out = append(out, Block{Tag: TagRemoved, Text: removed.String()})
			removed.Reset()
		}
		if added.Len() > 0 {
			out = append(out, Block{Tag: TagAdded, Text: added.String()})
			added.Reset()
		}
	}

	for _, b := range blocks {
		if b.Text == "" {
			continue
		}
		switch b.Tag {
		case TagRemoved:
			removed.WriteString(b.Text)
		case TagAdded:
			added.WriteString(b.Text)
		default:
			flushRun()
			if n := len(out); n > 0 && out[n-1].Tag == TagSame {
				out[n-1].Text += b.Text
				continue
			}
			out = append(out, Block{Tag: TagSame, Text: b.Text})
		}
	}
	flushRun()
	return out
}
