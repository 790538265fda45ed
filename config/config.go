// Package config loads img2comment settings from YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wbrown/img2comment"
	"github.com/wbrown/img2comment/imageutil"
)

// DefaultOutputName is the file written next to a single input image when
// no output path is given.
const DefaultOutputName = "output_comments.txt"

// Config holds every setting the CLI accepts.
type Config struct {
	Language      string            `yaml:"language" toml:"language"`
	Output        string            `yaml:"output" toml:"output"`
	OutDir        string            `yaml:"out_dir" toml:"out_dir"`
	AspectDivisor float64           `yaml:"aspect_divisor" toml:"aspect_divisor"`
	Interpolation string            `yaml:"interpolation" toml:"interpolation"`
	DefaultMarker string            `yaml:"default_marker" toml:"default_marker"`
	Languages     map[string]string `yaml:"languages" toml:"languages"`
	Concurrency   int               `yaml:"concurrency" toml:"concurrency"`
	MaxPixels     int               `yaml:"max_pixels" toml:"max_pixels"`
	AutoOrient    bool              `yaml:"auto_orient" toml:"auto_orient"`
	DebugDir      string            `yaml:"debug_dir" toml:"debug_dir"`
	LogFile       string            `yaml:"log_file" toml:"log_file"`
	Verbose       bool              `yaml:"verbose" toml:"verbose"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Language:      "c#",
		AspectDivisor: img2comment.DefaultAspectDivisor,
		Interpolation: imageutil.InterpolationArea.String(),
		DefaultMarker: img2comment.DefaultMarker,
		MaxPixels:     imageutil.DefaultMaxPixels,
	}
}

// Load reads path on top of the defaults. The format is chosen by
// extension: .yaml/.yml or .toml.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("failed to parse %s: unknown keys %v", path, undecoded)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q", ext)
	}

	return cfg, cfg.Validate()
}

// Validate checks values that cannot be caught by the decoders.
func (c Config) Validate() error {
	if !(c.AspectDivisor > 0) {
		return fmt.Errorf("aspect divisor must be positive, got %g", c.AspectDivisor)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.MaxPixels < 0 {
		return fmt.Errorf("max pixels must not be negative, got %d", c.MaxPixels)
	}
	if _, err := imageutil.ParseInterpolation(c.Interpolation); err != nil {
		return err
	}
	return nil
}

// ConverterOptions translates the settings into converter options.
func (c Config) ConverterOptions(logger *zap.Logger) ([]img2comment.ConverterOption, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	interp, _ := imageutil.ParseInterpolation(c.Interpolation)

	opts := []img2comment.ConverterOption{
		img2comment.WithAspectDivisor(c.AspectDivisor),
		img2comment.WithInterpolation(interp),
		img2comment.WithDefaultMarker(c.DefaultMarker),
		img2comment.WithConcurrency(c.Concurrency),
		img2comment.WithMaxPixels(c.MaxPixels),
		img2comment.WithAutoOrientation(c.AutoOrient),
		img2comment.WithDebugDir(c.DebugDir),
		img2comment.WithLogger(logger),
	}

	names := make([]string, 0, len(c.Languages))
	for name := range c.Languages {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		opts = append(opts, img2comment.WithLanguage(name, c.Languages[name]))
	}
	return opts, nil
}

// OutputPath returns where the document for input should be written.
// With a single input and no explicit output it is DefaultOutputName next
// to the input; with several inputs it is <name>.txt in OutDir, or next to
// the input when OutDir is empty.
func (c Config) OutputPath(input string, batch bool) string {
	if !batch {
		if c.Output != "" {
			return c.Output
		}
		return filepath.Join(filepath.Dir(input), DefaultOutputName)
	}
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".txt"
	dir := c.OutDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

// CheckOutputs reports inputs that would overwrite each other's document or
// debug images, such as a/logo.png and b/logo.png written to one out_dir.
func (c Config) CheckOutputs(inputs []string) error {
	batch := len(inputs) > 1
	outputs := make(map[string]string, len(inputs))
	stems := make(map[string]string, len(inputs))
	for _, input := range inputs {
		if out := c.OutputPath(input, batch); out != "-" {
			if prev, ok := outputs[out]; ok {
				return fmt.Errorf("%s and %s would both be written to %s", prev, input, out)
			}
			outputs[out] = input
		}
		if c.DebugDir != "" {
			stem := img2comment.DebugBaseName(input)
			if prev, ok := stems[stem]; ok {
				return fmt.Errorf("%s and %s would both write debug images named %s-*.png", prev, input, stem)
			}
			stems[stem] = input
		}
	}
	return nil
}
