package cpu

import (
	"fmt"

	"github.com/regionops-ml/regionops/internal/parallel"
	"github.com/regionops-ml/regionops/internal/tensor"
)

// ROIAlign extracts a fixed-size pooled patch from x for every ROI.
//
// Input shapes:
//
//	x:    [batch, channels, height, width]
//	rois: [numROIs, 5] rows of (batchIndex, xMin, yMin, xMax, yMax)
//
// Output shape: [numROIs, channels, outH, outW].
//
// Each output cell averages bilinear samples over its bin's sampling grid.
// Cells are independent, so scheduling (sequential or parallel) does not
// change the result.
func (cpu *CPUBackend) ROIAlign(x, rois *tensor.RawTensor,
	outH, outW int, spatialScale float64, ratioH, ratioW int) *tensor.RawTensor {

	xShape := x.Shape()
	roisShape := rois.Shape()
	if len(xShape) != 4 {
		panic(fmt.Sprintf("roialign: expected 4D input [N,C,H,W], got %dD", len(xShape)))
	}
	if len(roisShape) != 2 || roisShape[1] != 5 {
		panic(fmt.Sprintf("roialign: expected rois shape [numROIs, 5], got %v", roisShape))
	}
	if x.DType() != rois.DType() {
		panic(fmt.Sprintf("roialign: dtype mismatch: x is %s, rois is %s", x.DType(), rois.DType()))
	}
	if outH <= 0 || outW <= 0 {
		panic(fmt.Sprintf("roialign: invalid output size %dx%d", outH, outW))
	}
	if spatialScale <= 0 {
		panic(fmt.Sprintf("roialign: invalid spatial scale %g", spatialScale))
	}
	if ratioH < 0 || ratioW < 0 {
		panic(fmt.Sprintf("roialign: invalid sampling ratio (%d, %d)", ratioH, ratioW))
	}

	numROIs := roisShape[0]
	channels := xShape[1]
	height := xShape[2]
	width := xShape[3]

	output, err := tensor.NewRaw(tensor.Shape{numROIs, channels, outH, outW}, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("roialign: failed to create output: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		roiAlignForward(output.AsFloat32(), x.AsFloat32(), rois.AsFloat32(),
			channels, height, width, outH, outW,
			float32(spatialScale), ratioH, ratioW, cpu.par)
	case tensor.Float64:
		roiAlignForward(output.AsFloat64(), x.AsFloat64(), rois.AsFloat64(),
			channels, height, width, outH, outW,
			spatialScale, ratioH, ratioW, cpu.par)
	default:
		panic(fmt.Sprintf("roialign: unsupported dtype %v", x.DType()))
	}

	return output
}

// roiAlignForward is the forward driver: one task per output cell. Writes
// are disjoint, so no synchronization is needed in the parallel path.
func roiAlignForward[T tensor.DType](dst, src, rois []T,
	channels, height, width, outH, outW int,
	spatialScale T, ratioH, ratioW int, cfg parallel.Config) {

	parallel.For(len(dst), func(i int) {
		dst[i] = forwardCell(src, rois,
			channels, height, width, outH, outW,
			spatialScale, ratioH, ratioW, i)
	}, cfg)
}
