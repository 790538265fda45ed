package imageutil

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
)

// CreateGradientImage creates a horizontal black-to-white gradient.
func CreateGradientImage(width, height int) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(0)
			if width > 1 {
				v = uint8(255 * x / (width - 1))
			}
			img.SetGrayValue(x, y, v)
		}
	}
	return img
}

// CreateCheckerboardImage creates a black and white checkerboard whose
// top-left square is white.
func CreateCheckerboardImage(width, height, squareSize int) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				img.SetGrayValue(x, y, 255)
			}
		}
	}
	return img
}

// CreateSolidImage creates an image filled with a single intensity.
func CreateSolidImage(width, height int, v uint8) *GrayImage {
	img := NewGrayImage(width, height)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// CreateStripesImage creates vertical stripes of alternating dark and light
// intensities, each stripeWidth pixels wide, starting with dark.
func CreateStripesImage(width, height, stripeWidth int, dark, light uint8) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := dark
			if (x/stripeWidth)%2 == 1 {
				v = light
			}
			img.SetGrayValue(x, y, v)
		}
	}
	return img
}

// CreateFrameImage creates a white image with a black border of the given
// thickness, useful for feature-size tests.
func CreateFrameImage(width, height, thickness int) *GrayImage {
	img := CreateSolidImage(width, height, 255)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < thickness || y < thickness || x >= width-thickness || y >= height-thickness {
				img.SetGrayValue(x, y, 0)
			}
		}
	}
	return img
}

// CreateColorImage creates an NRGBA image with a colored left half and white
// right half. Used to check the grayscale conversion of decoded files.
func CreateColorImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.SetNRGBA(x, y, c)
			} else {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	return img
}

// CalculateMaxDiffGray returns the largest absolute pixel difference
// between two grayscale images, or 256 if their sizes differ.
func CalculateMaxDiffGray(img1, img2 *GrayImage) int {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return 256
	}

	maxDiff := 0
	for y := 0; y < img1.Height(); y++ {
		for x := 0; x < img1.Width(); x++ {
			d := abs(int(img1.GetGray(x, y)) - int(img2.GetGray(x, y)))
			if d > maxDiff {
				maxDiff = d
			}
		}
	}
	return maxDiff
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// CreateHeaderOnlyPNG returns a valid PNG stream that declares an 8-bit
// grayscale image of the given size but carries a single tiny IDAT chunk.
// Decoding it fully would allocate width*height bytes.
func CreateHeaderOnlyPNG(width, height uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], width)
	binary.BigEndian.PutUint32(ihdr[4:], height)
	ihdr[8] = 8 // bit depth
	writePNGChunk(&buf, "IHDR", ihdr)

	var idat bytes.Buffer
	zw := zlib.NewWriter(&idat)
	zw.Write(make([]byte, 16))
	zw.Close()
	writePNGChunk(&buf, "IDAT", idat.Bytes())

	writePNGChunk(&buf, "IEND", nil)
	return buf.Bytes()
}

func writePNGChunk(buf *bytes.Buffer, typ string, data []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(data)))
	buf.Write(n[:])

	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	buf.WriteString(typ)
	buf.Write(data)
	binary.BigEndian.PutUint32(n[:], crc.Sum32())
	buf.Write(n[:])
}
