// Package config loads the optional fibre.yaml that configures a Fibre host.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/engine"
	fibreerrors "github.com/go-drift/fibre/pkg/errors"
	"github.com/go-drift/fibre/pkg/graphics"
)

// FileName is the name of the configuration file looked up by LoadOptional.
const FileName = "fibre.yaml"

// Version is the configuration format version written by Default.
const Version = "v1.0.0"

// Config represents fibre.yaml.
type Config struct {
	// Version is the format version. Only major version v1 is understood.
	Version string       `yaml:"version"`
	Window  WindowConfig `yaml:"window"`
	Core    CoreConfig   `yaml:"core"`
	Log     LogConfig    `yaml:"log"`
	Trace   TraceConfig  `yaml:"trace"`
	Debug   DebugConfig  `yaml:"debug"`
}

// WindowConfig contains the initial window settings.
type WindowConfig struct {
	Title      string  `yaml:"title,omitempty"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Background string  `yaml:"background"`
}

// CoreConfig contains the caps of the command phase.
type CoreConfig struct {
	MaxDrainPasses int `yaml:"maxDrainPasses"`
	MaxMountDepth  int `yaml:"maxMountDepth"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TraceConfig sizes the frame trace.
type TraceConfig struct {
	Capacity    int     `yaml:"capacity"`
	ThresholdMs float64 `yaml:"thresholdMs"`
}

// DebugConfig enables the diagnostics server. An empty Addr disables it.
type DebugConfig struct {
	Addr            string `yaml:"addr,omitempty"`
	RuntimeSampleMs int    `yaml:"runtimeSampleMs,omitempty"`
}

// Default returns the configuration used when no fibre.yaml exists.
func Default() *Config {
	return &Config{
		Version: Version,
		Window: WindowConfig{
			Title:      "fibre",
			Width:      800,
			Height:     600,
			Background: "#000000",
		},
		Core: CoreConfig{
			MaxDrainPasses: core.DefaultMaxDrainPasses,
			MaxMountDepth:  core.DefaultMaxMountDepth,
		},
		Log:   LogConfig{Level: "info", Format: "text"},
		Trace: TraceConfig{Capacity: 240, ThresholdMs: 16.667},
	}
}

// Load reads and validates the configuration at path. Fields absent from
// the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configError("config.Load", fmt.Errorf("read %s: %w", path, err))
	}
	return Parse(data)
}

// LoadOptional reads fibre.yaml from dir if present, and returns the
// defaults otherwise. When the file sets no title, the last element of the
// module path in dir/go.mod is used.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
		cfg.Window.Title = ""
	}
	if strings.TrimSpace(cfg.Window.Title) == "" {
		cfg.Window.Title = defaultTitle(dir)
	}
	return cfg, nil
}

// Parse decodes and validates fibre.yaml contents.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, configError("config.Parse", fmt.Errorf("parse %s: %w", FileName, err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find walks up from dir to the nearest directory containing fibre.yaml.
func Find(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", configError("config.Find", fmt.Errorf("no %s found: %w", FileName, os.ErrNotExist))
		}
		dir = parent
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	var problems []string
	if !semver.IsValid(c.Version) {
		problems = append(problems, fmt.Sprintf("version %q is not a semantic version", c.Version))
	} else if semver.Major(c.Version) != semver.Major(Version) {
		problems = append(problems, fmt.Sprintf("version %s is not supported, want %s.x.x", c.Version, semver.Major(Version)))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		problems = append(problems, fmt.Sprintf("window size %gx%g must be positive", c.Window.Width, c.Window.Height))
	}
	if _, err := graphics.ParseHex(c.Window.Background); err != nil {
		problems = append(problems, fmt.Sprintf("window background: %v", err))
	}
	if c.Core.MaxDrainPasses < 0 || c.Core.MaxMountDepth < 0 {
		problems = append(problems, "core caps must not be negative")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		problems = append(problems, fmt.Sprintf("log format %q must be text or json", c.Log.Format))
	}
	if c.Trace.Capacity < 0 || c.Trace.ThresholdMs < 0 {
		problems = append(problems, "trace settings must not be negative")
	}
	if len(problems) > 0 {
		return configError("config.Validate", errors.New(strings.Join(problems, "; ")))
	}
	return nil
}

// Background returns the parsed clear color.
func (c *Config) Background() graphics.Color {
	color, err := graphics.ParseHex(c.Window.Background)
	if err != nil {
		return graphics.ColorBlack
	}
	return color
}

// Logger builds the configured slog logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Options converts the configuration to core options.
func (c *Config) Options(logger *slog.Logger) []core.Option {
	return []core.Option{
		core.WithLogger(logger),
		core.WithBackground(c.Background()),
		core.WithMaxDrainPasses(c.Core.MaxDrainPasses),
		core.WithMaxMountDepth(c.Core.MaxMountDepth),
	}
}

// RunnerOptions converts the configuration to engine options.
func (c *Config) RunnerOptions(logger *slog.Logger) []engine.Option {
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithFrameTrace(c.Trace.Capacity, time.Duration(c.Trace.ThresholdMs*float64(time.Millisecond))),
	}
	if c.Debug.Addr != "" && c.Debug.RuntimeSampleMs > 0 {
		opts = append(opts, engine.WithRuntimeSampling(time.Duration(c.Debug.RuntimeSampleMs)*time.Millisecond))
	}
	return opts
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

func defaultTitle(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err == nil {
		if path := modfile.ModulePath(data); path != "" {
			if prefix, _, ok := module.SplitPathVersion(path); ok {
				parts := strings.Split(prefix, "/")
				return parts[len(parts)-1]
			}
		}
	}
	if base := filepath.Base(dir); base != "." && base != string(filepath.Separator) {
		return base
	}
	return "fibre"
}

func configError(op string, err error) error {
	return fibreerrors.New(op, fibreerrors.KindConfig, err)
}
