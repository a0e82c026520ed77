package cpu

import (
	"fmt"

	"github.com/regionops-ml/regionops/internal/parallel"
	"github.com/regionops-ml/regionops/internal/tensor"
)

// ROIAlignBackward scatters the pooled-output gradient back onto the feature
// map. The feature map's values are not needed, only its shape; the returned
// gradient tensor is zero-initialized and then accumulated into.
//
// Input shapes:
//
//	gradOutput: [numROIs, channels, outH, outW]
//	rois:       [numROIs, 5]
//	inputShape: [batch, channels, height, width]
//
// Multiple output cells may scatter into the same feature-map cell, so the
// parallel path accumulates through atomic adds; contributions always sum,
// never overwrite.
func (cpu *CPUBackend) ROIAlignBackward(gradOutput, rois *tensor.RawTensor, inputShape tensor.Shape,
	outH, outW int, spatialScale float64, ratioH, ratioW int) *tensor.RawTensor {

	gradShape := gradOutput.Shape()
	roisShape := rois.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("roialign backward: expected 4D input shape [N,C,H,W], got %v", inputShape))
	}
	if len(roisShape) != 2 || roisShape[1] != 5 {
		panic(fmt.Sprintf("roialign backward: expected rois shape [numROIs, 5], got %v", roisShape))
	}
	expected := tensor.Shape{roisShape[0], inputShape[1], outH, outW}
	if !gradShape.Equal(expected) {
		panic(fmt.Sprintf("roialign backward: expected gradient shape %v, got %v", expected, gradShape))
	}
	if gradOutput.DType() != rois.DType() {
		panic(fmt.Sprintf("roialign backward: dtype mismatch: gradient is %s, rois is %s",
			gradOutput.DType(), rois.DType()))
	}

	channels := inputShape[1]
	height := inputShape[2]
	width := inputShape[3]

	grad, err := tensor.NewRaw(inputShape, gradOutput.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("roialign backward: failed to create gradient tensor: %v", err))
	}

	switch gradOutput.DType() {
	case tensor.Float32:
		roiAlignBackward(grad.AsFloat32(), gradOutput.AsFloat32(), rois.AsFloat32(),
			channels, height, width, outH, outW,
			float32(spatialScale), ratioH, ratioW, cpu.par)
	case tensor.Float64:
		roiAlignBackward(grad.AsFloat64(), gradOutput.AsFloat64(), rois.AsFloat64(),
			channels, height, width, outH, outW,
			spatialScale, ratioH, ratioW, cpu.par)
	default:
		panic(fmt.Sprintf("roialign backward: unsupported dtype %v", gradOutput.DType()))
	}

	return grad
}

// roiAlignBackward is the backward driver: one task per output cell. The
// parallel path swaps the accumulation primitive for an atomic add since
// destination cells are shared between tasks.
func roiAlignBackward[T tensor.DType](grad, gradOut, rois []T,
	channels, height, width, outH, outW int,
	spatialScale T, ratioH, ratioW int, cfg parallel.Config) {

	add := plainAdd[T]
	if cfg.Enabled {
		add = atomicAdd[T]
	}

	parallel.For(len(gradOut), func(i int) {
		backwardCell(grad, gradOut, rois,
			channels, height, width, outH, outW,
			spatialScale, ratioH, ratioW, i, add)
	}, cfg)
}
