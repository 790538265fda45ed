// Package imageutil provides the pure Go image plumbing used by img2comment:
// decoding, grayscale conversion, resampling and PNG dumps of intermediate
// stages.
package imageutil

import (
	"image"
	"image/color"
)

// GrayImage wraps image.Gray with convenience methods for pixel access.
// Its bounds always start at the origin.
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
}

// GrayImageFromPix wraps a row-major slice of intensities as a GrayImage.
// The slice is copied.
func GrayImageFromPix(width, height int, pix []uint8) *GrayImage {
	img := NewGrayImage(width, height)
	copy(img.Pix, pix)
	return img
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Bounds().Dy()
}

// GetGray returns the grayscale value at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.GrayAt(x, y).Y
}

// SetGrayValue sets the grayscale value at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Gray.SetGray(x, y, color.Gray{Y: v})
}

// Empty reports whether the image has no pixels.
func (img *GrayImage) Empty() bool {
	return img == nil || img.Gray == nil || img.Width() == 0 || img.Height() == 0
}

// Pixels returns a tightly packed row-major copy of the intensities,
// dropping any stride padding.
func (img *GrayImage) Pixels() []uint8 {
	width, height := img.Width(), img.Height()
	pix := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width]
		copy(pix[y*width:], row)
	}
	return pix
}

// Clone creates a deep copy of the image.
func (img *GrayImage) Clone() *GrayImage {
	return GrayImageFromPix(img.Width(), img.Height(), img.Pixels())
}
