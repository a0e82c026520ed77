// Copyright 2025 RegionOps ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the tensor types used by the
// RegionOps library.
//
// The package defines the core container consumed by the ROI-Align operator:
//   - RawTensor: dense row-major buffer with shape/dtype metadata
//   - Shape, DataType, Device: core type definitions
//   - Backend: interface for device-specific compute implementations
//
// Example:
//
//	backend := cpu.New()
//	x, err := tensor.Zeros[float32](tensor.Shape{1, 256, 38, 50}, tensor.CPU)
package tensor

import (
	"github.com/regionops-ml/regionops/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor element types.
// Supported types: float32, float64.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	WebGPU Device = tensor.WebGPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// RawTensor is the dense tensor container: a row-major buffer plus shape,
// stride and type metadata.
type RawTensor = tensor.RawTensor

// Backend is the interface compute backends implement; see backend/cpu and
// backend/webgpu for the two implementations.
type Backend = tensor.Backend

// Creation functions

// NewRaw creates a new zero-initialized tensor with the given shape and dtype.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
//
// Example:
//
//	rois, err := tensor.FromSlice(
//	    []float32{0, 4, 4, 20, 20},
//	    tensor.Shape{1, 5}, tensor.CPU)
func FromSlice[T DType](data []T, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromSlice[T](data, shape, device)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType](shape Shape, device Device) (*RawTensor, error) {
	return tensor.Zeros[T](shape, device)
}

// Full creates a tensor filled with a specific value.
func Full[T DType](shape Shape, value T, device Device) (*RawTensor, error) {
	return tensor.Full[T](shape, value, device)
}
