package roialign

import (
	"fmt"

	"github.com/regionops-ml/regionops/internal/tensor"
)

// ShapeError reports an input tensor that disagrees with the operator's
// shape contract. It is surfaced by CheckForward before any numeric work
// begins, so a failed call leaves no partial side effects.
type ShapeError struct {
	Arg  string // which input: "x" or "rois"
	Want string
	Got  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("roialign: %s: want %s, got %s", e.Arg, e.Want, e.Got)
}

// CheckForward validates the forward-pass inputs:
//
//   - x is a rank-4 (batch, channels, height, width) float tensor,
//   - rois is a rank-2 (numROIs, 5) tensor of the same float dtype.
func CheckForward(x, rois *tensor.RawTensor) error {
	if n := len(x.Shape()); n != 4 {
		return &ShapeError{Arg: "x", Want: "rank-4 [N,C,H,W]", Got: fmt.Sprintf("rank-%d %v", n, x.Shape())}
	}
	roisShape := rois.Shape()
	if len(roisShape) != 2 || roisShape[1] != 5 {
		return &ShapeError{Arg: "rois", Want: "[numROIs, 5]", Got: roisShape.String()}
	}
	if x.DType() != rois.DType() {
		return &ShapeError{
			Arg:  "rois",
			Want: fmt.Sprintf("dtype %s (same as x)", x.DType()),
			Got:  rois.DType().String(),
		}
	}
	return nil
}
