// Copyright 2025 RegionOps ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package roialign provides the public API for the ROI-Align operator:
// differentiable spatial pooling over regions of interest with bilinear
// interpolation, as introduced by Mask R-CNN.
//
// Example:
//
//	backend := cpu.New()
//	cfg, err := roialign.NewConfig(7, 7, 1.0/16, 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	op, err := roialign.New(cfg, backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pooled, err := op.Forward(features, rois) // [numROIs, C, 7, 7]
//	...
//	gradFeatures, err := op.Backward(gradPooled)
package roialign

import (
	"github.com/regionops-ml/regionops/internal/roialign"
	"github.com/regionops-ml/regionops/tensor"
)

// Config is the immutable operator configuration.
type Config = roialign.Config

// ShapeError reports an input tensor that disagrees with the operator's
// shape contract.
type ShapeError = roialign.ShapeError

// ROIAlign2D is the ROI-Align operator bound to a compute backend.
type ROIAlign2D[B tensor.Backend] = roialign.ROIAlign2D[B]

// Configuration error kinds.
var (
	ErrOutputSize    = roialign.ErrOutputSize
	ErrSpatialScale  = roialign.ErrSpatialScale
	ErrSamplingRatio = roialign.ErrSamplingRatio
)

// NewConfig validates and builds an operator configuration.
//
// samplingRatio accepts zero, one or two values: none defaults to (0, 0)
// (grid resolution derived from bin size), one value applies to both axes,
// two values are (height, width).
func NewConfig(outHeight, outWidth int, spatialScale float64, samplingRatio ...int) (Config, error) {
	return roialign.NewConfig(outHeight, outWidth, spatialScale, samplingRatio...)
}

// New creates a ROI-Align operator from a validated configuration.
func New[B tensor.Backend](cfg Config, backend B) (*ROIAlign2D[B], error) {
	return roialign.New(cfg, backend)
}

// CheckForward validates the forward-pass shape contract: x is rank-4
// (batch, channels, height, width) and rois is rank-2 (numROIs, 5) with the
// same float dtype. Returns a *ShapeError on violation.
func CheckForward(x, rois *tensor.RawTensor) error {
	return roialign.CheckForward(x, rois)
}
