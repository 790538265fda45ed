// Package img2comment renders raster images as ' '/'*' glyph art for
// embedding in source code comments. The grid resolution is derived from
// the thinnest feature in the image so that it survives the reduction.
package img2comment

import (
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wbrown/img2comment/imageutil"
)

// Converter turns images into comment-prefixed glyph documents. A Converter
// is safe for concurrent use once constructed; every conversion allocates
// its own matrices.
type Converter struct {
	// Configuration options
	AspectDivisor float64
	Interpolation imageutil.Interpolation
	Concurrency   int
	DebugDir      string

	// Decoding limits
	MaxPixels       int
	AutoOrientation bool

	languages *LanguageTable
	logger    *zap.Logger
}

// ConverterOption is a functional option for configuring a Converter.
type ConverterOption func(*Converter)

// NewConverter creates a new Converter with the given options.
// Default values: AspectDivisor=2, Interpolation=area,
// Concurrency=GOMAXPROCS, MaxPixels=imageutil.DefaultMaxPixels, no EXIF
// rotation, no debug output, no logging.
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{
		AspectDivisor: DefaultAspectDivisor,
		Interpolation: imageutil.InterpolationArea,
		Concurrency:   runtime.GOMAXPROCS(0),
		MaxPixels:     imageutil.DefaultMaxPixels,
		languages:     builtinLanguages.clone(),
		logger:        zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithAspectDivisor sets how much both grid dimensions are divided by to
// account for the height-to-width ratio of a text cell.
func WithAspectDivisor(divisor float64) ConverterOption {
	return func(c *Converter) {
		c.AspectDivisor = divisor
	}
}

// WithInterpolation sets the resampling filter.
func WithInterpolation(interp imageutil.Interpolation) ConverterOption {
	return func(c *Converter) {
		c.Interpolation = interp
	}
}

// WithConcurrency limits the number of files ConvertFiles works on at once.
func WithConcurrency(n int) ConverterOption {
	return func(c *Converter) {
		if n > 0 {
			c.Concurrency = n
		}
	}
}

// WithMaxPixels rejects inputs whose header declares more than n pixels.
// Zero or less disables the check.
func WithMaxPixels(n int) ConverterOption {
	return func(c *Converter) {
		c.MaxPixels = n
	}
}

// WithAutoOrientation rotates JPEG inputs according to their EXIF
// orientation tag before analysis.
func WithAutoOrientation(enabled bool) ConverterOption {
	return func(c *Converter) {
		c.AutoOrientation = enabled
	}
}

// WithDebugDir makes ConvertFile write the binarized and resampled stages
// as PNG files into dir.
func WithDebugDir(dir string) ConverterOption {
	return func(c *Converter) {
		c.DebugDir = dir
	}
}

// WithLogger sets the logger used for per-stage diagnostics.
func WithLogger(logger *zap.Logger) ConverterOption {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDefaultMarker overrides the prefix used for unrecognized languages.
func WithDefaultMarker(marker string) ConverterOption {
	return func(c *Converter) {
		c.languages.defaultMarker = marker
	}
}

// WithLanguage registers an extra language or overrides a built-in one.
func WithLanguage(language, prefix string) ConverterOption {
	return func(c *Converter) {
		c.languages.Register(language, prefix)
	}
}

// Languages returns the language table used by the converter.
func (c *Converter) Languages() *LanguageTable {
	return c.languages
}

// Result holds the output of every pipeline stage of one conversion.
type Result struct {
	Source             PixelMatrix
	SourceBinary       BinaryMatrix
	SourceThreshold    Threshold
	Runs               RunLengthStats
	FeatureSize        int
	Target             TargetResolution
	Clamped            bool
	Resampled          PixelMatrix
	ResampledBinary    BinaryMatrix
	ResampledThreshold Threshold
	Prefix             string
	Document           GlyphDocument
}

// ConvertGray runs the full pipeline on a grayscale image.
func (c *Converter) ConvertGray(img *imageutil.GrayImage, language string) (*Result, error) {
	src := PixelMatrixFromGray(img)
	if src.Empty() {
		return nil, fmt.Errorf("convert: %w", ErrEmptyImage)
	}
	res := &Result{Source: src}
	log := c.logger.With(zap.Int("width", src.Width), zap.Int("height", src.Height))

	var err error
	res.SourceBinary, res.SourceThreshold, err = Binarize(src)
	if err != nil {
		return nil, err
	}
	log.Debug("binarized source",
		zap.Uint8("min", res.SourceThreshold.Min),
		zap.Uint8("max", res.SourceThreshold.Max),
		zap.Float64("threshold", res.SourceThreshold.Value()))

	res.FeatureSize, res.Runs, err = FeatureSize(res.SourceBinary)
	if err != nil {
		return nil, err
	}
	log.Debug("measured runs",
		zap.Stringer("horizontalBlack", res.Runs.HorizontalBlack),
		zap.Stringer("horizontalWhite", res.Runs.HorizontalWhite),
		zap.Stringer("verticalBlack", res.Runs.VerticalBlack),
		zap.Stringer("verticalWhite", res.Runs.VerticalWhite),
		zap.Int("featureSize", res.FeatureSize))

	res.Target, res.Clamped, err = PlanResolution(src.Width, src.Height, res.FeatureSize, c.AspectDivisor)
	if err != nil {
		return nil, err
	}
	if res.Clamped {
		log.Debug("raised zero-sized target dimension to 1", zap.Stringer("target", res.Target))
	}

	res.Resampled, res.ResampledBinary, res.ResampledThreshold, err = Resample(src, res.Target, c.Interpolation)
	if err != nil {
		return nil, err
	}
	log.Debug("resampled",
		zap.Stringer("target", res.Target),
		zap.Stringer("interpolation", c.Interpolation),
		zap.Float64("threshold", res.ResampledThreshold.Value()))

	var known bool
	res.Prefix, known = c.languages.Prefix(language)
	if !known {
		log.Debug("unrecognized language, using default marker",
			zap.String("language", language), zap.String("marker", res.Prefix))
	}
	lines := RenderLines(res.ResampledBinary, res.Prefix)
	res.Document = Assemble(lines, src.Width, src.Height)
	return res, nil
}

// Convert runs the pipeline on any decoded image, converting it to
// grayscale first.
func (c *Converter) Convert(img image.Image, language string) (*Result, error) {
	return c.ConvertGray(imageutil.ToGrayscale(img), language)
}

// ConvertReader decodes an image from r and converts it.
func (c *Converter) ConvertReader(r io.Reader, language string) (*Result, error) {
	img, err := imageutil.DecodeGrayWith(r, c.decodeOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return c.ConvertGray(img, language)
}

// ConvertFile converts the image at path and returns the document text.
// It never fails: any error, including a panic inside the pipeline, is
// reported as a single diagnostic line instead.
func (c *Converter) ConvertFile(path, language string) (out string) {
	log := c.logger.With(zap.String("path", path), zap.String("language", language))
	defer func() {
		if r := recover(); r != nil {
			log.Error("conversion panicked", zap.Any("panic", r))
			out = ErrorDocument(fmt.Errorf("%v", r)).String()
		}
	}()

	res, err := c.convertPath(path, language)
	if err != nil {
		log.Warn("conversion failed", zap.Error(err))
		return ErrorDocument(err).String()
	}
	log.Info("converted image",
		zap.Stringer("target", res.Target),
		zap.Int("featureSize", res.FeatureSize))

	if c.DebugDir != "" {
		if err := c.saveStages(path, res); err != nil {
			log.Warn("could not write debug images", zap.Error(err))
		}
	}
	return res.Document.String()
}

func (c *Converter) convertPath(path, language string) (*Result, error) {
	img, err := imageutil.LoadGrayWith(path, c.decodeOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return c.ConvertGray(img, language)
}

func (c *Converter) decodeOptions() imageutil.DecodeOptions {
	return imageutil.DecodeOptions{MaxPixels: c.MaxPixels, AutoOrientation: c.AutoOrientation}
}

// DebugBaseName is the file name prefix of the stage images written for
// path, as in <base>-resampled.png.
func DebugBaseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// saveStages dumps the intermediate matrices next to each other in the
// debug directory, named after the input file.
func (c *Converter) saveStages(path string, res *Result) error {
	base := DebugBaseName(path)
	stages := []struct {
		name string
		m    PixelMatrix
	}{
		{"source-binary", res.SourceBinary.PixelMatrix},
		{"resampled", res.Resampled},
		{"resampled-binary", res.ResampledBinary.PixelMatrix},
	}
	for _, s := range stages {
		out := filepath.Join(c.DebugDir, base+"-"+s.name+".png")
		if err := imageutil.SaveGrayImage(s.m.Gray(), out); err != nil {
			return err
		}
	}
	return nil
}

// ConvertFiles converts several files in parallel, at most Concurrency at a
// time, and returns the documents in the order of paths. Files not started
// before ctx is cancelled get a diagnostic document.
func (c *Converter) ConvertFiles(ctx context.Context, paths []string, language string) []string {
	results := make([]string, len(paths))

	var g errgroup.Group
	g.SetLimit(max(c.Concurrency, 1))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = ErrorDocument(err).String()
				return nil
			}
			results[i] = c.ConvertFile(path, language)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
