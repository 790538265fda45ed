package img2comment

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wbrown/img2comment/imageutil"
)

// barImage is 32x8: a 4 pixel black bar on the left, white elsewhere. The
// bar sets the feature size to 4, giving a 4x1 grid whose first cell is the
// only dark one.
func barImage() *imageutil.GrayImage {
	img := imageutil.CreateSolidImage(32, 8, 255)
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			img.SetGrayValue(x, y, 0)
		}
	}
	return img
}

func savePNG(t *testing.T, dir, name string, img *imageutil.GrayImage) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, imageutil.SaveGrayImage(img, path))
	return path
}

func TestConvertGrayPipeline(t *testing.T) {
	img := barImage()
	res, err := NewConverter().ConvertGray(img, "rust")
	require.NoError(t, err)

	assert.Equal(t, 4, res.FeatureSize)
	assert.Equal(t, RunMin{Len: 4, Valid: true}, res.Runs.HorizontalBlack)
	assert.Equal(t, RunMin{Len: 28, Valid: true}, res.Runs.HorizontalWhite)
	assert.Equal(t, TargetResolution{Width: 4, Height: 1}, res.Target)
	assert.False(t, res.Clamped)
	assert.Equal(t, "// ", res.Prefix)
	assert.Equal(t, []uint8{0, 255, 255, 255}, res.ResampledBinary.Pix)

	want := "// Automatically generated from PNG image\n" +
		"// Original size: 32x8 pixels\n" +
		"// *   \n" +
		"// End of ASCII representation"
	assert.Equal(t, want, res.Document.String())

	// The source stage is kept untouched for diagnostics.
	assert.Equal(t, img.Pixels(), res.Source.Pix)
}

func TestConvertGrayCheckerboard(t *testing.T) {
	res, err := NewConverter().ConvertGray(imageutil.CreateCheckerboardImage(4, 4, 1), "C#")
	require.NoError(t, err)
	assert.Equal(t, 1, res.FeatureSize)
	assert.Equal(t, TargetResolution{Width: 2, Height: 2}, res.Target)
	assert.Len(t, res.Document.Body(), 2)
	for _, line := range res.Document.Body() {
		assert.Len(t, line, len("// ")+2)
	}
}

func TestConvertGrayOptions(t *testing.T) {
	c := NewConverter(
		WithAspectDivisor(1),
		WithInterpolation(imageutil.InterpolationNearest),
		WithDefaultMarker("; "),
	)
	res, err := c.ConvertGray(barImage(), "asm")
	require.NoError(t, err)
	assert.Equal(t, TargetResolution{Width: 8, Height: 2}, res.Target)
	assert.Equal(t, "; ", res.Prefix)
	require.Len(t, res.Document.Body(), 2)
	assert.Equal(t, "; *       ", res.Document.Body()[0])
}

func TestConvertGrayClampsTinyTargets(t *testing.T) {
	// A 1x1 image has feature size 1, and 1/1/2 truncates to 0.
	res, err := NewConverter().ConvertGray(imageutil.CreateSolidImage(1, 1, 200), "go")
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.Equal(t, TargetResolution{Width: 1, Height: 1}, res.Target)
	assert.Equal(t, []string{"// *"}, res.Document.Body())
}

func TestConvertGrayEmpty(t *testing.T) {
	_, err := NewConverter().ConvertGray(imageutil.NewGrayImage(0, 0), "go")
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = NewConverter().ConvertGray(nil, "go")
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestConvertColorImage(t *testing.T) {
	img := imageutil.CreateColorImage(8, 4, color.NRGBA{B: 255, A: 255})
	res, err := NewConverter().Convert(img, "python")
	require.NoError(t, err)
	// Blue is dark (~29), white is 255: left half black, right half white.
	assert.Equal(t, 4, res.FeatureSize)
	assert.Equal(t, TargetResolution{Width: 1, Height: 1}, res.Target)
	assert.Equal(t, "// Original size: 8x4 pixels", res.Document.Lines[1])
}

func TestConvertReader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, barImage().Gray))

	res, err := NewConverter().ConvertReader(&buf, "js")
	require.NoError(t, err)
	assert.Equal(t, []string{"// *   "}, res.Document.Body())

	_, err = NewConverter().ConvertReader(strings.NewReader("GIF89a broken"), "js")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	path := savePNG(t, dir, "bar.png", barImage())

	doc := NewConverter().ConvertFile(path, "COBOL")
	lines := strings.Split(doc, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "#*   ", lines[2])
}

func TestConvertFileFailuresAreDiagnostics(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("\x89PNG\r\n\x1a\nnot really"), 0644))

	paths := []string{empty, corrupt, filepath.Join(dir, "missing.png"), dir}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			var doc string
			require.NotPanics(t, func() {
				doc = NewConverter().ConvertFile(path, "go")
			})
			assert.True(t, strings.HasPrefix(doc, "// Error during processing: "), doc)
			assert.NotContains(t, doc, "\n")
		})
	}
}

func TestConvertFileRejectsOversizedImages(t *testing.T) {
	dir := t.TempDir()
	bomb := filepath.Join(dir, "bomb.png")
	require.NoError(t, os.WriteFile(bomb, imageutil.CreateHeaderOnlyPNG(131072, 131072), 0644))

	doc := NewConverter().ConvertFile(bomb, "go")
	assert.True(t, strings.HasPrefix(doc, "// Error during processing: "), doc)
	assert.Contains(t, doc, "131072x131072")
	assert.NotContains(t, doc, "\n")

	_, err := NewConverter().ConvertReader(bytes.NewReader(imageutil.CreateHeaderOnlyPNG(131072, 131072)), "go")
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, imageutil.ErrTooLarge)

	// barImage is 32x8 = 256 pixels.
	bar := savePNG(t, dir, "bar.png", barImage())
	doc = NewConverter(WithMaxPixels(255)).ConvertFile(bar, "go")
	assert.True(t, strings.HasPrefix(doc, "// Error during processing: "), doc)
	doc = NewConverter(WithMaxPixels(256)).ConvertFile(bar, "go")
	assert.Contains(t, doc, "// Original size: 32x8 pixels")
}

func TestConverterDecodeOptions(t *testing.T) {
	c := NewConverter()
	assert.Equal(t, imageutil.DefaultMaxPixels, c.MaxPixels)
	assert.False(t, c.AutoOrientation)

	c = NewConverter(WithMaxPixels(0), WithAutoOrientation(true))
	assert.Equal(t, 0, c.MaxPixels)
	assert.True(t, c.AutoOrientation)
}

func TestConvertFileLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := NewConverter(WithLogger(zap.New(core)))

	path := savePNG(t, t.TempDir(), "bar.png", barImage())
	c.ConvertFile(path, "go")
	assert.Equal(t, 1, logs.FilterMessage("binarized source").Len())
	assert.Equal(t, 1, logs.FilterMessage("measured runs").Len())
	assert.Equal(t, 1, logs.FilterMessage("converted image").Len())

	c.ConvertFile(filepath.Join(t.TempDir(), "missing.png"), "go")
	failed := logs.FilterMessage("conversion failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
}

func TestConvertFileDebugDir(t *testing.T) {
	dir := t.TempDir()
	debugDir := filepath.Join(dir, "debug")
	require.NoError(t, os.Mkdir(debugDir, 0755))
	path := savePNG(t, dir, "bar.png", barImage())

	NewConverter(WithDebugDir(debugDir)).ConvertFile(path, "go")

	resampled, err := imageutil.LoadGray(filepath.Join(debugDir, "bar-resampled-binary.png"))
	require.NoError(t, err)
	assert.Equal(t, 4, resampled.Width())
	assert.Equal(t, 1, resampled.Height())
	for _, stage := range []string{"bar-source-binary.png", "bar-resampled.png"} {
		_, err := os.Stat(filepath.Join(debugDir, stage))
		assert.NoError(t, err, stage)
	}
}

func TestConvertFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	paths := []string{
		savePNG(t, dir, "bar.png", barImage()),
		filepath.Join(dir, "missing.png"),
		savePNG(t, dir, "checker.png", imageutil.CreateCheckerboardImage(4, 4, 1)),
	}

	c := NewConverter(WithConcurrency(2))
	docs := c.ConvertFiles(context.Background(), paths, "go")
	require.Len(t, docs, 3)
	assert.Equal(t, c.ConvertFile(paths[0], "go"), docs[0])
	assert.True(t, strings.HasPrefix(docs[1], "// Error during processing: "))
	assert.Contains(t, docs[2], "// Original size: 4x4 pixels")
}

func TestConvertFilesCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := savePNG(t, t.TempDir(), "bar.png", barImage())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs := NewConverter().ConvertFiles(ctx, []string{path, path}, "go")
	for _, doc := range docs {
		assert.Equal(t, "// Error during processing: context canceled", doc)
	}
}

func TestConverterConcurrentUse(t *testing.T) {
	c := NewConverter()
	want, err := c.ConvertGray(barImage(), "go")
	require.NoError(t, err)

	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func() {
			res, err := c.ConvertGray(barImage(), "go")
			if err != nil {
				done <- err.Error()
				return
			}
			done <- res.Document.String()
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want.Document.String(), <-done)
	}
}
