//go:build windows

// Copyright 2025 RegionOps ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for GPU-accelerated ROI-Align.
//
// WebGPU is a cross-platform graphics and compute API. Forward and backward
// dispatch one compute-shader invocation per output element; the backward
// pass accumulates gradients with a compare-and-swap loop standing in for a
// float atomic add.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	cfg, _ := roialign.NewConfig(7, 7, 1.0/16, 2)
//	op, _ := roialign.New(cfg, gpu)
package webgpu

import (
	internalwebgpu "github.com/regionops-ml/regionops/internal/backend/webgpu"
	"github.com/regionops-ml/regionops/tensor"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new WebGPU backend.
//
// This initializes the WebGPU device and returns a backend ready for
// ROI-Align dispatch. Call Release() when done to free GPU resources.
// Returns an error if WebGPU initialization fails (e.g., no compatible GPU).
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
