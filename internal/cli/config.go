package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/codalotl/diffy/internal/diff"
	"github.com/codalotl/diffy/internal/simplelogger"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"

	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// Config is diffy's configuration.
//
// Sources, lowest precedence first: defaults, ~/.diffy/config.toml, the nearest .diffy/config.toml at or above the working directory, environment variables,
// then flags.
type Config struct {
	Source string `toml:"source"`
	Format string `toml:"format"`
	Color  string `toml:"color"`

	// MaxBytes caps the size of each input. 0 disables the cap. Defaults to 750000.
	MaxBytes int64 `toml:"max_bytes"`
	Mmap     bool  `toml:"mmap"`

	// ContextLines is used by `show`. -1 shows the whole text.
	ContextLines int `toml:"context_lines"`

	LogLevel       string `toml:"log_level"`
	DebounceMillis int    `toml:"debounce_millis"`
}

func defaultConfig() Config {
	return Config{
		Source:         diff.DefaultSourceName,
		Format:         formatJSON,
		Color:          colorAuto,
		MaxBytes:       750000,
		ContextLines:   3,
		LogLevel:       "info",
		DebounceMillis: 100,
	}
}

func loadConfig() (Config, error) {
	cfg := defaultConfig()

	var paths []string
	home, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths, filepath.Join(home, ".diffy", "config.toml"))
	}
	if wd, err := os.Getwd(); err == nil {
		if p := nearestFile(wd, filepath.Join(".diffy", "config.toml")); p != "" && (len(paths) == 0 || p != paths[0]) {
			paths = append(paths, p)
		}
	}

	for _, p := range paths {
		if err := decodeConfigFile(p, &cfg); err != nil {
			return Config{}, fmt.Errorf("load configuration: %w", err)
		}
	}
	return cfg, nil
}

// decodeConfigFile decodes path over cfg. Keys missing from the file keep their current values; unknown keys are errors. A missing file is not an error.
func decodeConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%s: %s", path, strings.TrimSpace(strict.String()))
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// nearestFile returns the first dir/rel that exists, walking from dir up to the filesystem root, or "".
func nearestFile(dir, rel string) string {
	for {
		p := filepath.Join(dir, rel)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func validateConfig(cfg Config) error {
	if _, err := diff.Source(cfg.Source); err != nil {
		return fmt.Errorf("invalid configuration: %w (available: %s)", err, strings.Join(diff.Sources(), ", "))
	}
	switch cfg.Format {
	case formatJSON, formatYAML, formatText:
	default:
		return fmt.Errorf("invalid configuration: format must be one of json, yaml, text (got %q)", cfg.Format)
	}
	switch cfg.Color {
	case colorAuto, colorAlways, colorNever:
	default:
		return fmt.Errorf("invalid configuration: color must be one of auto, always, never (got %q)", cfg.Color)
	}
	if cfg.MaxBytes < 0 {
		return fmt.Errorf("invalid configuration: max_bytes must be >= 0 (got %d)", cfg.MaxBytes)
	}
	if cfg.ContextLines < -1 {
		return fmt.Errorf("invalid configuration: context_lines must be >= -1 (got %d)", cfg.ContextLines)
	}
	if _, err := simplelogger.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid configuration: log_level: %w", err)
	}
	if cfg.DebounceMillis <= 0 {
		return fmt.Errorf("invalid configuration: debounce_millis must be > 0 (got %d)", cfg.DebounceMillis)
	}
	return nil
}

func writeConfigTOML(w io.Writer, cfg Config) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(cfg)
}
