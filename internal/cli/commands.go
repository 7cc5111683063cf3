package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/codalotl/diffy/internal/diff"
)

const (
	deltasCommand      = "deltas"
	decorationsCommand = "decorations"
	showCommand        = "show"
	statCommand        = "stat"
	applyCommand       = "apply"
	watchCommand       = "watch"
	sourcesCommand     = "sources"
	configCommand      = "config"
	versionCommand     = "version"
)

// runEnv is what a command runs against: I/O, the effective config, and a logger.
type runEnv struct {
	in   io.Reader
	out  io.Writer
	errW io.Writer

	cfg   Config
	log   *slog.Logger
	color bool
}

// flags holds everything kingpin parses. Unset flags leave the configuration alone.
type flags struct {
	source   string
	format   string
	color    string
	logLevel string

	mmap     bool
	mmapSet  bool
	maxBytes int64
	maxSet   bool

	context     int
	contextSet  bool
	lineNumbers bool
	debounce    time.Duration
	debounceSet bool

	oldPath    string
	newPath    string
	deltasPath string
	watchPath  string
}

func newApp(env *runEnv) (*kingpin.Application, *flags) {
	f := &flags{}

	app := kingpin.New("diffy", "Group line diffs into edit operations and UTF-16 highlight spans.")
	app.UsageWriter(env.out)
	app.ErrorWriter(env.errW)
	app.Terminate(func(code int) { panic(terminated(code)) })
	app.HelpFlag.Short('h')

	app.Flag("source", "Raw line diff source (see `diffy sources`).").Envar("DIFFY_SOURCE").StringVar(&f.source)
	app.Flag("format", "Output format.").Envar("DIFFY_FORMAT").EnumVar(&f.format, formatJSON, formatYAML, formatText)
	app.Flag("color", "Colorize output.").Envar("DIFFY_COLOR").EnumVar(&f.color, colorAuto, colorAlways, colorNever)
	app.Flag("log-level", "Level for the DIFFY_LOG_FILE log.").Envar("DIFFY_LOG_LEVEL").StringVar(&f.logLevel)
	app.Flag("mmap", "Read input files through mmap.").IsSetByUser(&f.mmapSet).BoolVar(&f.mmap)
	app.Flag("max-bytes", "Refuse inputs larger than this many bytes (0 disables the limit).").IsSetByUser(&f.maxSet).Int64Var(&f.maxBytes)

	pair := func(cmd *kingpin.CmdClause) {
		cmd.Arg("old", "Previous revision ('-' for stdin).").Required().StringVar(&f.oldPath)
		cmd.Arg("new", "Current revision ('-' for stdin).").Required().StringVar(&f.newPath)
	}

	pair(app.Command(deltasCommand, "Print grouped edit operations (insert, delete, change)."))
	pair(app.Command(decorationsCommand, "Print line blocks and UTF-16 inline spans."))

	show := app.Command(showCommand, "Render the current revision with its decorations.")
	pair(show)
	show.Flag("context", "Unchanged lines shown around each change (-1 shows everything).").IsSetByUser(&f.contextSet).IntVar(&f.context)
	show.Flag("line-numbers", "Prefix lines with their line number.").Short('n').BoolVar(&f.lineNumbers)

	pair(app.Command(statCommand, "Summarize the changes between two revisions."))

	apply := app.Command(applyCommand, "Apply a delta list (JSON or YAML) to a previous revision.")
	apply.Arg("old", "Previous revision ('-' for stdin).").Required().StringVar(&f.oldPath)
	apply.Arg("deltas", "Delta list file ('-' for stdin).").Required().StringVar(&f.deltasPath)

	watch := app.Command(watchCommand, "Print decorations against a snapshot of FILE each time it changes.")
	watch.Arg("file", "File to watch.").Required().StringVar(&f.watchPath)
	watch.Flag("debounce", "Quiet period before a change is reported.").IsSetByUser(&f.debounceSet).DurationVar(&f.debounce)

	app.Command(sourcesCommand, "List raw line diff sources.")
	app.Command(configCommand, "Print the effective configuration as TOML.")
	app.Command(versionCommand, "Print diffy version.")

	return app, f
}

// applyTo layers set flags (and their environment variables) over cfg.
func (f *flags) applyTo(cfg *Config) error {
	if f.source != "" {
		cfg.Source = f.source
	}
	if f.format != "" {
		cfg.Format = f.format
	}
	if f.color != "" {
		cfg.Color = f.color
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.mmapSet {
		cfg.Mmap = f.mmap
	}
	if f.maxSet {
		cfg.MaxBytes = f.maxBytes
	}
	if f.contextSet {
		cfg.ContextLines = f.context
	}
	if f.debounceSet {
		if f.debounce <= 0 {
			return fmt.Errorf("--debounce must be > 0 (got %s)", f.debounce)
		}
		cfg.DebounceMillis = int(f.debounce / time.Millisecond)
	}
	return nil
}

func runCommand(ctx context.Context, env *runEnv, f *flags, cmd string) error {
	switch cmd {
	case deltasCommand:
		src, prev, cur, err := loadPair(env, f)
		if err != nil {
			return err
		}
		deltas := diff.Group(diff.BlocksFrom(src, prev, cur))
		env.log.Info("deltas", "source", src.Name(), "count", len(deltas))
		return writeDeltas(env, deltas)

	case decorationsCommand:
		src, prev, cur, err := loadPair(env, f)
		if err != nil {
			return err
		}
		dec := diff.Decorate(diff.BlocksFrom(src, prev, cur))
		env.log.Info("decorations", "source", src.Name(), "line_blocks", len(dec.LineBlocks), "inline_spans", len(dec.InlineSpans))
		return writeDecorations(env, dec)

	case showCommand:
		src, prev, cur, err := loadPair(env, f)
		if err != nil {
			return err
		}
		dec := diff.Decorate(diff.BlocksFrom(src, prev, cur))
		filename := ""
		if f.newPath != stdinName {
			filename = f.newPath
		}
		s := diff.RenderDecorations(cur, dec, diff.RenderOptions{
			Color:        env.color,
			ContextLines: env.cfg.ContextLines,
			LineNumbers:  f.lineNumbers,
			Filename:     filename,
		})
		if s == "" {
			return nil
		}
		_, err = fmt.Fprintln(env.out, s)
		return err

	case statCommand:
		src, prev, cur, err := loadPair(env, f)
		if err != nil {
			return err
		}
		stats := diff.Stat(diff.Group(diff.BlocksFrom(src, prev, cur)))
		return writeStats(env, stats, len(prev), len(cur))

	case applyCommand:
		return runApply(env, f)

	case watchCommand:
		return runWatch(ctx, env, f.watchPath)

	case sourcesCommand:
		return writeSources(env)

	case configCommand:
		return writeConfigTOML(env.out, env.cfg)
	}

	return usageError("unknown command %q", cmd)
}

// loadPair reads the old and new revisions and resolves the configured source.
func loadPair(env *runEnv, f *flags) (diff.RawSource, string, string, error) {
	if f.oldPath == stdinName && f.newPath == stdinName {
		return nil, "", "", usageError("only one of old and new may be read from stdin")
	}
	src, err := diff.Source(env.cfg.Source)
	if err != nil {
		return nil, "", "", err
	}
	opts := inputOptions{maxBytes: env.cfg.MaxBytes, mmap: env.cfg.Mmap, stdin: env.in}
	prev, err := readInput(f.oldPath, opts)
	if err != nil {
		return nil, "", "", err
	}
	cur, err := readInput(f.newPath, opts)
	if err != nil {
		return nil, "", "", err
	}
	env.log.Debug("inputs", "old", f.oldPath, "old_bytes", len(prev), "new", f.newPath, "new_bytes", len(cur))
	return src, prev, cur, nil
}

func runApply(env *runEnv, f *flags) error {
	if f.oldPath == stdinName && f.deltasPath == stdinName {
		return usageError("only one of old and deltas may be read from stdin")
	}
	opts := inputOptions{maxBytes: env.cfg.MaxBytes, mmap: env.cfg.Mmap, stdin: env.in}
	prev, err := readInput(f.oldPath, opts)
	if err != nil {
		return err
	}
	raw, err := readInput(f.deltasPath, opts)
	if err != nil {
		return err
	}
	deltas, err := decodeDeltas(f.deltasPath, []byte(raw))
	if err != nil {
		return err
	}

	got, err := diff.ApplyText(prev, deltas)
	if err != nil {
		return fmt.Errorf("apply %s: %w", f.deltasPath, err)
	}
	env.log.Info("apply", "deltas", len(deltas))
	if got == "" {
		return nil
	}
	_, err = fmt.Fprintln(env.out, got)
	return err
}
