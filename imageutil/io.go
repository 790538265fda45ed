package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"

	// Formats beyond the ones imaging registers itself.
	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels is the largest width*height DecodeGray accepts, about
// 13k x 13k.
const DefaultMaxPixels = 178956970

// ErrTooLarge is returned when the dimensions declared in an image header
// exceed the pixel limit.
var ErrTooLarge = errors.New("image too large")

// DecodeOptions controls DecodeGrayWith.
type DecodeOptions struct {
	// MaxPixels is checked against the header before any pixel data is
	// allocated. Zero or less disables the check.
	MaxPixels int

	// AutoOrientation rotates JPEGs according to their EXIF orientation tag.
	AutoOrientation bool
}

// DefaultDecodeOptions returns the options DecodeGray and LoadGray use:
// DefaultMaxPixels and no EXIF rotation.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{MaxPixels: DefaultMaxPixels}
}

// DecodeGray decodes an image from r with DefaultDecodeOptions and converts
// it to grayscale. Supports PNG, JPEG, GIF, BMP, TIFF and WebP.
func DecodeGray(r io.Reader) (*GrayImage, error) {
	return DecodeGrayWith(r, DefaultDecodeOptions())
}

// DecodeGrayWith decodes an image from r and converts it to grayscale. The
// header is read first so oversized images fail before the full decode.
func DecodeGrayWith(r io.Reader, opts DecodeOptions) (*GrayImage, error) {
	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if err := checkPixels(cfg.Width, cfg.Height, opts.MaxPixels); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(io.MultiReader(&header, r), imaging.AutoOrientation(opts.AutoOrientation))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return ToGrayscale(img), nil
}

func checkPixels(width, height, maxPixels int) error {
	if maxPixels <= 0 {
		return nil
	}
	if int64(width)*int64(height) > int64(maxPixels) {
		return fmt.Errorf("%w: %dx%d exceeds the limit of %d pixels", ErrTooLarge, width, height, maxPixels)
	}
	return nil
}

// LoadGray loads the image at path as grayscale with DefaultDecodeOptions.
func LoadGray(path string) (*GrayImage, error) {
	return LoadGrayWith(path, DefaultDecodeOptions())
}

// LoadGrayWith loads the image at path as grayscale.
func LoadGrayWith(path string, opts DecodeOptions) (*GrayImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return DecodeGrayWith(f, opts)
}

// SavePNG saves an image as PNG to the specified path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}

// SaveGrayImage saves a grayscale image as PNG to the specified path.
func SaveGrayImage(img *GrayImage, path string) error {
	return SavePNG(img.Gray, path)
}
