package roialign

import (
	"errors"
	"fmt"

	"github.com/regionops-ml/regionops/internal/tensor"
)

// ROIAlign2D pools a fixed-size feature patch from every region of interest
// using average pooling over a bilinear sampling grid.
//
// Input shapes:
//
//	x:    [batch, channels, height, width]
//	rois: [numROIs, 5] rows of (batchIndex, xMin, yMin, xMax, yMax)
//
// Output shape: [numROIs, channels, OutHeight, OutWidth]
//
// Example:
//
//	cfg, _ := roialign.NewConfig(7, 7, 1.0/16, 2)
//	op, _ := roialign.New(cfg, cpu.New())
//	pooled, err := op.Forward(features, rois)
//	...
//	gradIn, err := op.Backward(gradPooled)
type ROIAlign2D[B tensor.Backend] struct {
	cfg     Config
	backend B

	// Retained from the last Forward for the matching Backward: the ROI
	// list and the feature map's shape. The feature map's values are not
	// needed for the gradient.
	rois       *tensor.RawTensor
	inputShape tensor.Shape
}

// New creates a ROI-Align operator from a validated configuration.
func New[B tensor.Backend](cfg Config, backend B) (*ROIAlign2D[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ROIAlign2D[B]{cfg: cfg, backend: backend}, nil
}

// Forward performs the forward pass and retains rois plus the input shape
// for a later Backward call.
func (r *ROIAlign2D[B]) Forward(x, rois *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := CheckForward(x, rois); err != nil {
		return nil, err
	}

	r.rois = rois
	r.inputShape = x.Shape().Clone()

	out := r.backend.ROIAlign(x, rois,
		r.cfg.OutHeight, r.cfg.OutWidth, r.cfg.SpatialScale,
		r.cfg.SamplingRatio[0], r.cfg.SamplingRatio[1])
	return out, nil
}

// Backward computes the gradient with respect to the feature map of the
// matching Forward call. ROI coordinates receive no gradient.
func (r *ROIAlign2D[B]) Backward(gradOutput *tensor.RawTensor) (*tensor.RawTensor, error) {
	if r.rois == nil {
		return nil, errors.New("roialign: Backward called before Forward")
	}

	expected := tensor.Shape{r.rois.Shape()[0], r.inputShape[1], r.cfg.OutHeight, r.cfg.OutWidth}
	if !gradOutput.Shape().Equal(expected) {
		return nil, &ShapeError{Arg: "gradOutput", Want: expected.String(), Got: gradOutput.Shape().String()}
	}
	if gradOutput.DType() != r.rois.DType() {
		return nil, &ShapeError{
			Arg:  "gradOutput",
			Want: fmt.Sprintf("dtype %s (same as forward inputs)", r.rois.DType()),
			Got:  gradOutput.DType().String(),
		}
	}

	grad := r.backend.ROIAlignBackward(gradOutput, r.rois, r.inputShape,
		r.cfg.OutHeight, r.cfg.OutWidth, r.cfg.SpatialScale,
		r.cfg.SamplingRatio[0], r.cfg.SamplingRatio[1])
	return grad, nil
}

// Config returns the operator configuration.
func (r *ROIAlign2D[B]) Config() Config {
	return r.cfg
}

// String returns a string representation of the operator.
func (r *ROIAlign2D[B]) String() string {
	return r.cfg.String()
}
