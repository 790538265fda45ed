package img2comment

import (
	"fmt"

	"github.com/wbrown/img2comment/imageutil"
)

// Resample resizes the original grayscale matrix to the target grid and
// binarizes the result. The threshold is recomputed from the resized
// pixels; downscaling narrows the intensity range, so the source threshold
// would be wrong here.
func Resample(src PixelMatrix, target TargetResolution, interp imageutil.Interpolation) (PixelMatrix, BinaryMatrix, Threshold, error) {
	if src.Empty() {
		return PixelMatrix{}, BinaryMatrix{}, Threshold{}, fmt.Errorf("resample: %w", ErrEmptyImage)
	}
	if target.Width < 1 || target.Height < 1 {
		return PixelMatrix{}, BinaryMatrix{}, Threshold{}, fmt.Errorf("resample to %v: %w", target, ErrInvalidPlan)
	}

	resized := PixelMatrixFromGray(imageutil.ResizeGray(src.Gray(), target.Width, target.Height, interp))
	binary, t, err := Binarize(resized)
	if err != nil {
		return PixelMatrix{}, BinaryMatrix{}, Threshold{}, fmt.Errorf("resample: %w", err)
	}
	return resized, binary, t, nil
}
