package imageutil

import (
	"image"
	"image/color"
)

// ToGrayscale converts any image to grayscale using the BT.601 luminance
// formula: Y = 0.299*R + 0.587*G + 0.114*B. Alpha is ignored, so fully
// transparent pixels keep their stored color. The result is rebased to
// start at the origin.
func ToGrayscale(img image.Image) *GrayImage {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	gray := NewGrayImage(width, height)

	// Fast path: already single channel, only rebase and repack.
	if src, ok := img.(*image.Gray); ok {
		for y := 0; y < height; y++ {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(gray.Pix[y*gray.Stride:y*gray.Stride+width], src.Pix[start:start+width])
		}
		return gray
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			gray.Pix[y*gray.Stride+x] = luma(c.R, c.G, c.B)
		}
	}
	return gray
}

// luma uses integer math scaled by 1000 with rounding.
func luma(r, g, b uint8) uint8 {
	lum := (299*int(r) + 587*int(g) + 114*int(b) + 500) / 1000
	if lum > 255 {
		lum = 255
	}
	return uint8(lum)
}
