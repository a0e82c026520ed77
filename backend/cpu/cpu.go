// Copyright 2025 RegionOps ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU backend for the ROI-Align operator.
package cpu

import (
	internalcpu "github.com/regionops-ml/regionops/internal/backend/cpu"
	"github.com/regionops-ml/regionops/internal/parallel"
	"github.com/regionops-ml/regionops/tensor"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend provides pure Go implementations of the ROI-Align forward
// and backward passes, parallelized across output cells by default.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// ParallelConfig controls parallel execution of the backend.
type ParallelConfig = parallel.Config

// New creates a new CPU backend with parallel execution across all cores.
//
// Example:
//
//	import (
//	    "github.com/regionops-ml/regionops/backend/cpu"
//	    "github.com/regionops-ml/regionops/roialign"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    cfg, _ := roialign.NewConfig(7, 7, 1.0/16)
//	    op, _ := roialign.New(cfg, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewSequential creates a CPU backend that executes on a single goroutine.
// The result is numerically identical to the parallel path; cells are
// independent and per-cell operation order does not change.
func NewSequential() *Backend {
	return internalcpu.NewSequential()
}
