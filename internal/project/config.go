package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"binder/internal/parser"
)

// ConfigName is the file FindConfig looks for.
const ConfigName = "binder.toml"

// SourceConfig overrides the per-extension source type. Unset keys keep
// the extension default.
type SourceConfig struct {
	TypeScript *bool `toml:"typescript"`
	Module     *bool `toml:"module"`
	JSX        *bool `toml:"jsx"`
	Strict     *bool `toml:"strict"`
}

type CheckConfig struct {
	Extensions     []string `toml:"extensions"`
	Exclude        []string `toml:"exclude"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"` // 0 means GOMAXPROCS
	// Globals lists names assumed to exist (console, window) when unresolved
	// references are reported.
	Globals []string `toml:"globals"`
}

// Config is the decoded binder.toml. Path and Root are empty when no file
// was found.
type Config struct {
	Source SourceConfig `toml:"source"`
	Check  CheckConfig  `toml:"check"`

	Path string `toml:"-"`
	Root string `toml:"-"`
}

// DefaultExtensions are the file kinds SourceTypeFor understands.
var DefaultExtensions = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".mts", ".cts", ".tsx"}

func Default() Config {
	return Config{Check: CheckConfig{
		Extensions:     slices.Clone(DefaultExtensions),
		Exclude:        []string{"node_modules", "dist"},
		MaxDiagnostics: 100,
	}}
}

// FindConfig walks up from startDir looking for binder.toml.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadConfig decodes path over the defaults. Unknown keys are an error
// naming every offending key.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	return cfg, nil
}

// Discover finds and loads the config governing target. Without a file it
// returns Default rooted at target.
func Discover(target string) (Config, error) {
	path, ok, err := FindConfig(target)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		cfg := Default()
		if abs, err := filepath.Abs(target); err == nil {
			cfg.Root = abs
			if info, err := os.Stat(abs); err == nil && !info.IsDir() {
				cfg.Root = filepath.Dir(abs)
			}
		}
		return cfg, nil
	}
	return LoadConfig(path)
}

func (c *Config) validate() error {
	var errs []error
	for _, ext := range c.Check.Extensions {
		if _, ok := parser.SourceTypeFromPath("x" + ext); !ok {
			errs = append(errs, fmt.Errorf("check.extensions: unsupported extension %q", ext))
		}
	}
	if c.Check.MaxDiagnostics < 0 {
		errs = append(errs, errors.New("check.max_diagnostics must not be negative"))
	}
	if c.Check.Jobs < 0 {
		errs = append(errs, errors.New("check.jobs must not be negative"))
	}
	return errors.Join(errs...)
}

// SourceTypeFor returns the source type for path: the extension default
// with the [source] overrides applied.
func (c *Config) SourceTypeFor(path string) (parser.SourceType, bool) {
	st, ok := parser.SourceTypeFromPath(path)
	if !ok {
		return st, false
	}
	c.Source.apply(&st)
	return st, true
}

func (s SourceConfig) apply(st *parser.SourceType) {
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&st.TypeScript, s.TypeScript)
	set(&st.Module, s.Module)
	set(&st.JSX, s.JSX)
	set(&st.AlwaysStrict, s.Strict)
}

// Merge returns s with o's set keys taking precedence.
func (s SourceConfig) Merge(o SourceConfig) SourceConfig {
	pick := func(a, b *bool) *bool {
		if b != nil {
			return b
		}
		return a
	}
	return SourceConfig{
		TypeScript: pick(s.TypeScript, o.TypeScript),
		Module:     pick(s.Module, o.Module),
		JSX:        pick(s.JSX, o.JSX),
		Strict:     pick(s.Strict, o.Strict),
	}
}
