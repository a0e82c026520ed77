package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for the ROI-Align operator.
//
// Implementations:
//   - CPU: Pure Go, sequential or goroutine-parallel execution
//   - WebGPU: GPU compute shaders, one invocation per output element
//
// Shape contracts (violations panic; use roialign.CheckForward to validate
// caller input up front):
//   - x:    [batch, channels, height, width], Float32 or Float64
//   - rois: [numROIs, 5] rows of (batchIndex, xMin, yMin, xMax, yMax),
//     same dtype as x
type Backend interface {
	// ROIAlign extracts a fixed-size pooled patch from x for every ROI
	// using average pooling over a bilinear sampling grid.
	// Returns a tensor of shape [numROIs, channels, outH, outW].
	ROIAlign(x, rois *RawTensor, outH, outW int, spatialScale float64, ratioH, ratioW int) *RawTensor

	// ROIAlignBackward scatters the pooled-output gradient back onto a
	// zero-initialized gradient map of shape inputShape. Only the feature
	// map receives a gradient; ROI coordinates do not.
	ROIAlignBackward(gradOutput, rois *RawTensor, inputShape Shape,
		outH, outW int, spatialScale float64, ratioH, ratioW int) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
