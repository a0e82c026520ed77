// Package cpu implements the CPU backend for the ROI-Align operator.
//
// One generic geometry/sampling kernel (roialign.go) is shared by the
// sequential and parallel execution drivers, so both paths run the exact
// same floating-point operations per output cell.
package cpu

import (
	"github.com/regionops-ml/regionops/internal/parallel"
	"github.com/regionops-ml/regionops/internal/tensor"
)

// CPUBackend implements the ROI-Align operations in pure Go.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// New creates a new CPU backend with parallel execution across all cores.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    parallel.DefaultConfig(),
	}
}

// NewSequential creates a CPU backend that executes every operation on the
// calling goroutine. Useful for deterministic debugging and as the reference
// path in backend-equivalence tests.
func NewSequential() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    parallel.Sequential(),
	}
}

// SetParallel overrides the parallel execution configuration.
func (cpu *CPUBackend) SetParallel(cfg parallel.Config) {
	cpu.par = cfg
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	if cpu.par.Enabled {
		return "CPU"
	}
	return "CPU(sequential)"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}
