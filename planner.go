package img2comment

import "fmt"

// DefaultAspectDivisor compensates for text cells being roughly twice as
// tall as they are wide.
const DefaultAspectDivisor = 2.0

// TargetResolution is the size of the glyph grid in characters.
type TargetResolution struct {
	Width  int
	Height int
}

func (r TargetResolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// PlanResolution divides the original size by the feature size, so that the
// smallest feature maps to about one cell, and then by the aspect divisor.
// Results are truncated. The second return value reports whether either
// dimension came out as zero and was raised to one.
func PlanResolution(width, height, featureSize int, aspectDivisor float64) (TargetResolution, bool, error) {
	if featureSize < 1 || !(aspectDivisor > 0) {
		return TargetResolution{}, false, fmt.Errorf(
			"plan %dx%d with feature size %d and divisor %g: %w",
			width, height, featureSize, aspectDivisor, ErrInvalidPlan)
	}
	if width < 1 || height < 1 {
		return TargetResolution{}, false, fmt.Errorf("plan %dx%d: %w", width, height, ErrEmptyImage)
	}

	w := int(float64(width) / float64(featureSize) / aspectDivisor)
	h := int(float64(height) / float64(featureSize) / aspectDivisor)

	clamped := false
	if w < 1 {
		w, clamped = 1, true
	}
	if h < 1 {
		h, clamped = 1, true
	}
	return TargetResolution{Width: w, Height: h}, clamped, nil
}
