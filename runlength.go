package img2comment

import "fmt"

// Orientation selects the scan direction of a run-length pass.
type Orientation int

const (
	// Horizontal scans each row left to right.
	Horizontal Orientation = iota
	// Vertical scans each column top to bottom.
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// RunMin is the shortest run found by one pass. Valid is false when the
// scanned value never occurs, meaning the pass places no constraint on the
// feature size.
type RunMin struct {
	Len   int
	Valid bool
}

func (r RunMin) String() string {
	if !r.Valid {
		return "none"
	}
	return fmt.Sprint(r.Len)
}

// merge keeps the shorter of two minimums, ignoring invalid ones.
func (r RunMin) merge(o RunMin) RunMin {
	if !o.Valid || (r.Valid && r.Len <= o.Len) {
		return r
	}
	return o
}

// RunLengthStats holds the shortest black and white runs in each direction.
type RunLengthStats struct {
	HorizontalBlack RunMin
	HorizontalWhite RunMin
	VerticalBlack   RunMin
	VerticalWhite   RunMin
}

// Min returns the smallest valid minimum across all four passes.
func (s RunLengthStats) Min() RunMin {
	return s.HorizontalBlack.
		merge(s.HorizontalWhite).
		merge(s.VerticalBlack).
		merge(s.VerticalWhite)
}

// FeatureSize returns the global minimum run length in pixels.
func (s RunLengthStats) FeatureSize() (int, error) {
	m := s.Min()
	if !m.Valid {
		return 0, ErrDegenerateImage
	}
	return m.Len, nil
}

// minRun returns the shortest maximal run of value along every line of m
// in the given orientation.
func minRun(m PixelMatrix, o Orientation, value uint8) RunMin {
	lines, length := m.Height, m.Width
	at := func(line, i int) uint8 { return m.Pix[line*m.Width+i] }
	if o == Vertical {
		lines, length = m.Width, m.Height
		at = func(line, i int) uint8 { return m.Pix[i*m.Width+line] }
	}

	var best RunMin
	for line := 0; line < lines; line++ {
		run := 0
		for i := 0; i <= length; i++ {
			if i < length && at(line, i) == value {
				run++
				continue
			}
			if run > 0 {
				best = best.merge(RunMin{Len: run, Valid: true})
				run = 0
			}
		}
	}
	return best
}

// AnalyzeRuns measures the shortest contiguous run of black and of white
// pixels along rows and along columns.
func AnalyzeRuns(m BinaryMatrix) RunLengthStats {
	return RunLengthStats{
		HorizontalBlack: minRun(m.PixelMatrix, Horizontal, Black),
		HorizontalWhite: minRun(m.PixelMatrix, Horizontal, White),
		VerticalBlack:   minRun(m.PixelMatrix, Vertical, Black),
		VerticalWhite:   minRun(m.PixelMatrix, Vertical, White),
	}
}

// FeatureSize returns the smallest run length found anywhere in m: the
// finest detail the output grid has to keep.
func FeatureSize(m BinaryMatrix) (int, RunLengthStats, error) {
	if m.Empty() {
		return 0, RunLengthStats{}, fmt.Errorf("feature size: %w", ErrEmptyImage)
	}
	stats := AnalyzeRuns(m)
	size, err := stats.FeatureSize()
	if err != nil {
		return 0, stats, fmt.Errorf("feature size: %w", err)
	}
	return size, stats, nil
}
