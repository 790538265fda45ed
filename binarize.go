package img2comment

import "fmt"

// Threshold describes the midpoint split used by Binarize. A pixel is
// white when it is strictly brighter than Min + (Max-Min)/2.
type Threshold struct {
	Min uint8
	Max uint8
}

// Value returns the real-valued midpoint.
func (t Threshold) Value() float64 {
	return float64(t.Min) + float64(int(t.Max)-int(t.Min))/2
}

// IsWhite reports whether v lies strictly above the midpoint. The
// comparison is done on doubled integers so that odd ranges split exactly
// where the real-valued midpoint does.
func (t Threshold) IsWhite(v uint8) bool {
	return 2*int(v) > int(t.Min)+int(t.Max)
}

// ThresholdOf computes the midpoint threshold of a non-empty matrix.
func ThresholdOf(m PixelMatrix) Threshold {
	lo, hi := m.Bounds()
	return Threshold{Min: lo, Max: hi}
}

// Binarize maps every pixel of m to White if it is above the midpoint of
// m's own intensity range and to Black otherwise. A flat image has no
// pixel above its midpoint and therefore comes out all Black.
func Binarize(m PixelMatrix) (BinaryMatrix, Threshold, error) {
	if m.Empty() {
		return BinaryMatrix{}, Threshold{}, fmt.Errorf("binarize %dx%d: %w", m.Width, m.Height, ErrEmptyImage)
	}

	t := ThresholdOf(m)
	out := NewPixelMatrix(m.Width, m.Height)
	for i, v := range m.Pix {
		if t.IsWhite(v) {
			out.Pix[i] = White
		}
	}
	return BinaryMatrix{out}, t, nil
}
