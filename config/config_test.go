package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wbrown/img2comment"
	"github.com/wbrown/img2comment/imageutil"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, img2comment.DefaultAspectDivisor, cfg.AspectDivisor)
	assert.Equal(t, "area", cfg.Interpolation)
	assert.Equal(t, "#", cfg.DefaultMarker)
	assert.Equal(t, imageutil.DefaultMaxPixels, cfg.MaxPixels)
	assert.False(t, cfg.AutoOrient)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "img2comment.yaml", `
language: rust
aspect_divisor: 2.5
interpolation: lanczos
concurrency: 3
max_pixels: 1000000
auto_orient: true
languages:
  lua: "-- "
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "rust", cfg.Language)
	assert.Equal(t, 2.5, cfg.AspectDivisor)
	assert.Equal(t, "lanczos", cfg.Interpolation)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 1000000, cfg.MaxPixels)
	assert.True(t, cfg.AutoOrient)
	assert.Equal(t, map[string]string{"lua": "-- "}, cfg.Languages)
	// Unset keys keep their defaults.
	assert.Equal(t, "#", cfg.DefaultMarker)
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "img2comment.toml", `
language = "go"
default_marker = "# "
out_dir = "comments"

[languages]
sql = "-- "
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "go", cfg.Language)
	assert.Equal(t, "# ", cfg.DefaultMarker)
	assert.Equal(t, "comments", cfg.OutDir)
	assert.Equal(t, "-- ", cfg.Languages["sql"])
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown yaml key", "bad.yaml", "colour: true\n"},
		{"unknown toml key", "bad.toml", "colour = true\n"},
		{"malformed yaml", "bad.yaml", "language: [unterminated\n"},
		{"bad interpolation", "bad.yaml", "interpolation: sinc\n"},
		{"zero divisor", "bad.toml", "aspect_divisor = 0.0\n"},
		{"negative concurrency", "bad.yaml", "concurrency: -2\n"},
		{"negative max pixels", "bad.toml", "max_pixels = -1\n"},
		{"unsupported format", "config.json", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConverterOptions(t *testing.T) {
	cfg := Default()
	cfg.AspectDivisor = 1
	cfg.Interpolation = "nearest"
	cfg.DefaultMarker = ";; "
	cfg.Concurrency = 2
	cfg.MaxPixels = 0
	cfg.AutoOrient = true
	cfg.Languages = map[string]string{"Lisp": ";; ", "lua": "-- "}

	opts, err := cfg.ConverterOptions(zap.NewNop())
	require.NoError(t, err)

	c := img2comment.NewConverter(opts...)
	assert.Equal(t, 1.0, c.AspectDivisor)
	assert.Equal(t, imageutil.InterpolationNearest, c.Interpolation)
	assert.Equal(t, 2, c.Concurrency)
	assert.Equal(t, 0, c.MaxPixels)
	assert.True(t, c.AutoOrientation)

	prefix, ok := c.Languages().Prefix("lisp")
	assert.True(t, ok)
	assert.Equal(t, ";; ", prefix)

	prefix, ok = c.Languages().Prefix("cobol")
	assert.False(t, ok)
	assert.Equal(t, ";; ", prefix)

	cfg.AspectDivisor = -1
	_, err = cfg.ConverterOptions(zap.NewNop())
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	cfg := Default()
	input := filepath.Join("art", "logo.png")

	assert.Equal(t, filepath.Join("art", DefaultOutputName), cfg.OutputPath(input, false))
	assert.Equal(t, filepath.Join("art", "logo.txt"), cfg.OutputPath(input, true))

	cfg.Output = "out.txt"
	cfg.OutDir = "comments"
	assert.Equal(t, "out.txt", cfg.OutputPath(input, false))
	assert.Equal(t, filepath.Join("comments", "logo.txt"), cfg.OutputPath(input, true))
}

func TestCheckOutputs(t *testing.T) {
	a := filepath.Join("a", "logo.png")
	b := filepath.Join("b", "logo.png")
	c := filepath.Join("b", "icon.png")

	cfg := Default()
	assert.NoError(t, cfg.CheckOutputs([]string{a}))
	assert.NoError(t, cfg.CheckOutputs([]string{a, b, c}), "documents land next to their inputs")
	assert.Error(t, cfg.CheckOutputs([]string{a, a}))

	cfg.OutDir = "comments"
	err := cfg.CheckOutputs([]string{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), filepath.Join("comments", "logo.txt"))
	assert.NoError(t, cfg.CheckOutputs([]string{a, c}))

	cfg.OutDir = ""
	cfg.DebugDir = "debug"
	err = cfg.CheckOutputs([]string{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logo-*.png")

	// A single input never collides with itself.
	cfg.Output = "-"
	assert.NoError(t, cfg.CheckOutputs([]string{a}))
}
