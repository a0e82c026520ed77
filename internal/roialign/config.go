// Package roialign implements the ROI-Align operator: differentiable
// spatial pooling that extracts fixed-size feature patches from arbitrary
// rectangular regions of a feature map using bilinear interpolation.
//
// The package holds the operator configuration, input validation and the
// layer-style Forward/Backward API; the numeric work happens in the compute
// backends (internal/backend/cpu, internal/backend/webgpu).
//
// See the Mask R-CNN paper for the algorithm: https://arxiv.org/abs/1703.06870.
package roialign

import (
	"errors"
	"fmt"
)

// Configuration error kinds, reported at construction and never
// mid-computation.
var (
	// ErrOutputSize indicates a non-positive output height or width.
	ErrOutputSize = errors.New("roialign: output dimensions must be positive")

	// ErrSpatialScale indicates a non-positive spatial scale.
	ErrSpatialScale = errors.New("roialign: spatial scale must be positive")

	// ErrSamplingRatio indicates a negative sampling ratio.
	ErrSamplingRatio = errors.New("roialign: sampling ratio must be non-negative")
)

// Config is the immutable operator configuration. A single configured
// operator may be invoked across many (feature map, ROI list) pairs.
type Config struct {
	// OutHeight and OutWidth are the pooled output dimensions per ROI.
	OutHeight int
	OutWidth  int

	// SpatialScale converts ROI coordinates (original image space) into
	// feature-map coordinate space.
	SpatialScale float64

	// SamplingRatio is the per-axis (height, width) sampling grid
	// resolution inside each bin. 0 derives the resolution from the bin
	// size: ceil(regionSize / outputSize).
	SamplingRatio [2]int
}

// NewConfig validates and builds an operator configuration.
//
// samplingRatio accepts zero, one or two values: none defaults to (0, 0),
// one value applies to both axes, two values are (height, width).
func NewConfig(outHeight, outWidth int, spatialScale float64, samplingRatio ...int) (Config, error) {
	cfg := Config{
		OutHeight:    outHeight,
		OutWidth:     outWidth,
		SpatialScale: spatialScale,
	}

	switch len(samplingRatio) {
	case 0:
	case 1:
		cfg.SamplingRatio = [2]int{samplingRatio[0], samplingRatio[0]}
	case 2:
		cfg.SamplingRatio = [2]int{samplingRatio[0], samplingRatio[1]}
	default:
		return Config{}, fmt.Errorf("%w: expected at most 2 values, got %d",
			ErrSamplingRatio, len(samplingRatio))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against the constructor contract.
func (c Config) Validate() error {
	if c.OutHeight <= 0 || c.OutWidth <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrOutputSize, c.OutHeight, c.OutWidth)
	}
	if c.SpatialScale <= 0 {
		return fmt.Errorf("%w: got %g", ErrSpatialScale, c.SpatialScale)
	}
	if c.SamplingRatio[0] < 0 || c.SamplingRatio[1] < 0 {
		return fmt.Errorf("%w: got (%d, %d)", ErrSamplingRatio, c.SamplingRatio[0], c.SamplingRatio[1])
	}
	return nil
}

// String returns a human-readable description of the configuration.
func (c Config) String() string {
	return fmt.Sprintf("ROIAlign2D(out=%dx%d, spatial_scale=%g, sampling_ratio=(%d, %d))",
		c.OutHeight, c.OutWidth, c.SpatialScale, c.SamplingRatio[0], c.SamplingRatio[1])
}
