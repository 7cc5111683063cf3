package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/codalotl/diffy/internal/simplelogger"
)

// Version is the diffy version. It is a var (not a const) so build tooling can override it (for example via `-ldflags "-X .../internal/cli.Version=1.2.3"`).
var Version = "0.3.0"

// In/Out/Err override standard I/O. If nil, defaults are used. Overriding is useful for testing.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Context bounds long-running commands (watch). If nil, Run uses a context canceled on interrupt.
	Context context.Context
}

// exitError carries an exit code through command execution.
type exitError struct {
	Code int
	Err  error
}

func (e exitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e exitError) Unwrap() error { return e.Err }

func usageError(format string, args ...any) error {
	return exitError{Code: 2, Err: fmt.Errorf(format, args...)}
}

// terminated is panicked by kingpin's terminate hook (after --help) and recovered in parse.
type terminated int

// Run runs the CLI with args (typically you'd use os.Args).
//
// It returns a recommended exit code (0, 1, or 2) and an error, if any:
//   - 0 -> err == nil
//   - 1 -> err != nil, but the structure of args is sound (flags are correct, etc).
//   - 2 -> err != nil, args parse error or misuse of flags, etc.
//
// Note that in cases of errors, Run has already displayed an error message to opts.Err || Stderr. Callers may use os.Exit with the exit code.
func Run(args []string, opts *RunOptions) (int, error) {
	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	env := &runEnv{in: os.Stdin, out: os.Stdout, errW: os.Stderr}
	ctx := context.Context(nil)
	if opts != nil {
		if opts.In != nil {
			env.in = opts.In
		}
		if opts.Out != nil {
			env.out = opts.Out
		}
		if opts.Err != nil {
			env.errW = opts.Err
		}
		ctx = opts.Context
	}
	if ctx == nil {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
	}

	app, f := newApp(env)
	cmd, code, err := parse(app, argv)
	if err != nil {
		app.Errorf("%s, try --help", err)
		return 2, err
	}
	if code >= 0 {
		return code, nil
	}

	err = execute(ctx, env, f, cmd)
	if err == nil {
		return 0, nil
	}

	code = 1
	var ee exitError
	if errors.As(err, &ee) {
		code = ee.Code
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = "command failed"
	}
	app.Errorf("%s", msg)
	return code, errors.New(msg)
}

// parse parses argv. code is >= 0 when kingpin asked to terminate (for example after printing help).
func parse(app *kingpin.Application, argv []string) (cmd string, code int, err error) {
	code = -1
	defer func() {
		if r := recover(); r != nil {
			t, ok := r.(terminated)
			if !ok {
				panic(r)
			}
			cmd, code, err = "", int(t), nil
		}
	}()
	cmd, err = app.Parse(argv)
	return cmd, code, err
}

// execute resolves the effective configuration and runs cmd.
func execute(ctx context.Context, env *runEnv, f *flags, cmd string) error {
	if cmd == versionCommand {
		_, err := fmt.Fprintln(env.out, Version)
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := f.applyTo(&cfg); err != nil {
		return exitError{Code: 2, Err: err}
	}
	if err := validateConfig(cfg); err != nil {
		return exitError{Code: 2, Err: err}
	}

	level, _ := simplelogger.ParseLevel(cfg.LogLevel) // validated above
	logger := simplelogger.New(level)
	defer logger.Close()

	env.cfg = cfg
	env.log = logger.Logger
	env.color = colorEnabled(cfg.Color, env.out)
	env.log.Debug("run", "command", cmd, "source", cfg.Source, "format", cfg.Format, "color", env.color)

	return runCommand(ctx, env, f, cmd)
}
