package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fibre/pkg/core"
	fibreerrors "github.com/go-drift/fibre/pkg/errors"
	"github.com/go-drift/fibre/pkg/graphics"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
version: v1.2.0
window:
  width: 320
  background: "#102030"
core:
  maxDrainPasses: 8
log:
  level: debug
  format: json
debug:
  addr: 127.0.0.1:9339
  runtimeSampleMs: 500
`))
	require.NoError(t, err)

	assert.Equal(t, 320.0, cfg.Window.Width)
	assert.Equal(t, 600.0, cfg.Window.Height, "unset fields keep defaults")
	assert.Equal(t, graphics.RGB(0x10, 0x20, 0x30), cfg.Background())
	assert.Equal(t, 8, cfg.Core.MaxDrainPasses)
	assert.Equal(t, core.DefaultMaxMountDepth, cfg.Core.MaxMountDepth)
	assert.Len(t, cfg.Options(cfg.Logger(&bytes.Buffer{})), 4)
	assert.Len(t, cfg.RunnerOptions(nil), 3)
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"major version", "version: v2.0.0", "not supported"},
		{"not semver", "version: one", "not a semantic version"},
		{"size", "window: {width: 0}", "must be positive"},
		{"background", "window: {background: blue}", "window background"},
		{"level", "log: {level: loud}", "log level"},
		{"format", "log: {format: xml}", "log format"},
		{"caps", "core: {maxMountDepth: -1}", "caps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, fibreerrors.KindConfig, fibreerrors.KindOf(err))
		})
	}

	_, err := Parse([]byte("window: ["))
	require.Error(t, err)
	assert.Equal(t, fibreerrors.KindConfig, fibreerrors.KindOf(err))
}

func TestLoadOptional(t *testing.T) {
	t.Run("missing file uses defaults and module name", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "go.mod", "module example.com/apps/paint/v2\n\ngo 1.24\n")

		cfg, err := LoadOptional(dir)
		require.NoError(t, err)
		assert.Equal(t, "paint", cfg.Window.Title)
		assert.Equal(t, Version, cfg.Version)
	})

	t.Run("file title wins", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FileName, "version: v1.0.0\nwindow: {title: Sketch}\n")

		cfg, err := LoadOptional(dir)
		require.NoError(t, err)
		assert.Equal(t, "Sketch", cfg.Window.Title)
	})

	t.Run("invalid file is an error", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FileName, "version: v0.1.0\n")

		_, err := LoadOptional(dir)
		assert.Error(t, err)
	})
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "version: v1.0.0\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestMarshalRoundTripsDefaults(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoggerHonoursLevelAndFormat(t *testing.T) {
	cfg := Default()
	cfg.Log = LogConfig{Level: "warn", Format: "json"}

	var buf bytes.Buffer
	log := cfg.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown", "d", time.Second)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
