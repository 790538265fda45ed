package img2comment

import (
	"fmt"

	"github.com/wbrown/img2comment/imageutil"
)

const (
	// Black is the binarized value rendered as a glyph.
	Black uint8 = 0
	// White is the binarized value rendered as blank space.
	White uint8 = 255
)

// PixelMatrix is a row-major grid of 8-bit intensities. Pipeline stages
// never modify a matrix they are given; they return a new one.
type PixelMatrix struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelMatrix allocates a zeroed (all black) matrix.
func NewPixelMatrix(width, height int) PixelMatrix {
	return PixelMatrix{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// PixelMatrixFromRows builds a matrix from a slice of equal-length rows.
func PixelMatrixFromRows(rows [][]uint8) (PixelMatrix, error) {
	if len(rows) == 0 {
		return PixelMatrix{}, nil
	}
	width := len(rows[0])
	m := NewPixelMatrix(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return PixelMatrix{}, fmt.Errorf("row %d has %d pixels, expected %d", y, len(row), width)
		}
		copy(m.Pix[y*width:], row)
	}
	return m, nil
}

// PixelMatrixFromGray copies a grayscale image into a matrix.
func PixelMatrixFromGray(img *imageutil.GrayImage) PixelMatrix {
	if img.Empty() {
		return PixelMatrix{}
	}
	return PixelMatrix{Width: img.Width(), Height: img.Height(), Pix: img.Pixels()}
}

// Gray copies the matrix into a grayscale image.
func (m PixelMatrix) Gray() *imageutil.GrayImage {
	return imageutil.GrayImageFromPix(m.Width, m.Height, m.Pix)
}

// Empty reports whether the matrix has zero rows or columns.
func (m PixelMatrix) Empty() bool {
	return m.Width <= 0 || m.Height <= 0
}

// At returns the intensity at column x, row y.
func (m PixelMatrix) At(x, y int) uint8 {
	return m.Pix[y*m.Width+x]
}

// Row returns row y. The slice aliases the matrix and must not be modified.
func (m PixelMatrix) Row(y int) []uint8 {
	return m.Pix[y*m.Width : (y+1)*m.Width]
}

// Bounds returns the smallest and largest intensity. The matrix must not
// be empty.
func (m PixelMatrix) Bounds() (lo, hi uint8) {
	lo, hi = m.Pix[0], m.Pix[0]
	for _, v := range m.Pix[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// BinaryMatrix is a PixelMatrix holding only Black and White. The only way
// to obtain a non-empty one is Binarize.
type BinaryMatrix struct {
	PixelMatrix
}
