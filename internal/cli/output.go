package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/tidwall/pretty"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/codalotl/diffy/internal/diff"
)

// colorEnabled resolves the color setting against w.
func colorEnabled(setting string, w io.Writer) bool {
	switch setting {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeValue writes v as JSON or YAML. Text output is handled by the caller.
func writeValue(env *runEnv, v any) error {
	switch env.cfg.Format {
	case formatYAML:
		enc := yaml.NewEncoder(env.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return err
		}
		b := pretty.Pretty(buf.Bytes())
		if env.color {
			b = pretty.Color(b, nil)
		}
		_, err := env.out.Write(b)
		return err
	}
}

func writeDeltas(env *runEnv, deltas []diff.Delta) error {
	if deltas == nil {
		deltas = []diff.Delta{}
	}
	if env.cfg.Format != formatText {
		return writeValue(env, deltas)
	}

	var b strings.Builder
	for _, d := range deltas {
		fmt.Fprintf(&b, "%s @%d\n", d.Kind, d.TargetPosition)
		for _, l := range d.SourceLines {
			fmt.Fprintf(&b, "- %s\n", l)
		}
		for _, l := range d.TargetLines {
			fmt.Fprintf(&b, "+ %s\n", l)
		}
	}
	_, err := io.WriteString(env.out, b.String())
	return err
}

func writeDecorations(env *runEnv, dec diff.Decorations) error {
	if dec.LineBlocks == nil {
		dec.LineBlocks = []diff.LineBlock{}
	}
	if dec.InlineSpans == nil {
		dec.InlineSpans = []diff.InlineSpan{}
	}
	if env.cfg.Format != formatText {
		return writeValue(env, dec)
	}

	var b strings.Builder
	for _, lb := range dec.LineBlocks {
		fmt.Fprintf(&b, "%s %d +%d\n", lb.Kind, lb.StartLine, lb.LineCount)
	}
	for _, s := range dec.InlineSpans {
		fmt.Fprintf(&b, "span %d [%d,%d)\n", s.Line, s.StartColUTF16, s.EndColUTF16)
	}
	_, err := io.WriteString(env.out, b.String())
	return err
}

type statOutput struct {
	diff.Stats  `yaml:",inline"`
	BytesBefore int `json:"bytes_before" yaml:"bytes_before"`
	BytesAfter  int `json:"bytes_after" yaml:"bytes_after"`
}

func writeStats(env *runEnv, s diff.Stats, before, after int) error {
	if env.cfg.Format != formatText {
		return writeValue(env, statOutput{Stats: s, BytesBefore: before, BytesAfter: after})
	}

	if s.Empty() {
		_, err := fmt.Fprintf(env.out, "no changes (%s)\n", humanize.Bytes(uint64(after)))
		return err
	}
	_, err := fmt.Fprintf(env.out, "%s, %s, %s; +%s -%s lines (%s -> %s)\n",
		english.Plural(s.Inserts, "insert", ""),
		english.Plural(s.Deletes, "delete", ""),
		english.Plural(s.Changes, "change", ""),
		humanize.Comma(int64(s.LinesAdded)),
		humanize.Comma(int64(s.LinesRemoved)),
		humanize.Bytes(uint64(before)),
		humanize.Bytes(uint64(after)),
	)
	return err
}

type sourceInfo struct {
	Name    string `json:"name" yaml:"name"`
	Default bool   `json:"default" yaml:"default"`
}

func writeSources(env *runEnv) error {
	def := env.cfg.Source
	var infos []sourceInfo
	for _, name := range diff.Sources() {
		infos = append(infos, sourceInfo{Name: name, Default: name == def})
	}
	if env.cfg.Format != formatText {
		return writeValue(env, infos)
	}

	var b strings.Builder
	for _, info := range infos {
		marker := " "
		if info.Default {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s\n", marker, info.Name)
	}
	_, err := io.WriteString(env.out, b.String())
	return err
}

// decodeDeltas decodes a delta list. Files ending in .yaml or .yml are YAML; anything else is JSON.
func decodeDeltas(name string, data []byte) ([]diff.Delta, error) {
	var deltas []diff.Delta
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &deltas); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&deltas); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	}
	return deltas, nil
}
