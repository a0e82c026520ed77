//go:build windows

package webgpu

import (
	"math"
	"math/rand"
	"testing"

	"github.com/regionops-ml/regionops/internal/backend/cpu"
	"github.com/regionops-ml/regionops/internal/tensor"
)

func TestNew(t *testing.T) {
	backend, err := New()
	if err != nil {
		t.Logf("WebGPU not available: %v", err)
		t.Skip("WebGPU not available on this system")
	}
	defer backend.Release()

	if backend.Name() != "WebGPU" {
		t.Errorf("Backend name: expected WebGPU, got %s", backend.Name())
	}
	if backend.Device() != tensor.WebGPU {
		t.Errorf("Expected device WebGPU, got %v", backend.Device())
	}
}

func TestBackendInterface(t *testing.T) {
	var _ tensor.Backend = (*Backend)(nil)
}

// TestROIAlign_MatchesCPU compares the GPU forward and backward kernels
// against the CPU reference on random inputs. Weight computation and
// accumulation order differ only within float rounding.
func TestROIAlign_MatchesCPU(t *testing.T) {
	gpu, err := New()
	if err != nil {
		t.Skip("WebGPU not available on this system")
	}
	defer gpu.Release()

	ref := cpu.NewSequential()
	rng := rand.New(rand.NewSource(42))

	const (
		batch, channels, height, width = 2, 3, 9, 11
		numROIs, outH, outW            = 5, 3, 4
		spatialScale                   = 0.5
	)

	data := make([]float32, batch*channels*height*width)
	for i := range data {
		data[i] = rng.Float32()*2 - 1
	}
	x, err := tensor.FromSlice(data, tensor.Shape{batch, channels, height, width}, tensor.CPU)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	roiData := make([]float32, 0, numROIs*5)
	for i := 0; i < numROIs; i++ {
		x0 := rng.Float32() * width
		y0 := rng.Float32() * height
		roiData = append(roiData, float32(i%batch), x0-1, y0-1,
			x0+rng.Float32()*width, y0+rng.Float32()*height)
	}
	rois, err := tensor.FromSlice(roiData, tensor.Shape{numROIs, 5}, tensor.CPU)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	want := ref.ROIAlign(x, rois, outH, outW, spatialScale, 0, 0).AsFloat32()
	got := gpu.ROIAlign(x, rois, outH, outW, spatialScale, 0, 0).AsFloat32()
	for i := range want {
		if math.Abs(float64(want[i]-got[i])) > 1e-4 {
			t.Errorf("forward[%d]: cpu %v vs gpu %v", i, want[i], got[i])
		}
	}

	gyData := make([]float32, numROIs*channels*outH*outW)
	for i := range gyData {
		gyData[i] = rng.Float32()
	}
	gy, err := tensor.FromSlice(gyData, tensor.Shape{numROIs, channels, outH, outW}, tensor.CPU)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	wantGrad := ref.ROIAlignBackward(gy, rois, x.Shape(), outH, outW, spatialScale, 0, 0).AsFloat32()
	gotGrad := gpu.ROIAlignBackward(gy, rois, x.Shape(), outH, outW, spatialScale, 0, 0).AsFloat32()
	for i := range wantGrad {
		if math.Abs(float64(wantGrad[i]-gotGrad[i])) > 1e-4 {
			t.Errorf("backward[%d]: cpu %v vs gpu %v", i, wantGrad[i], gotGrad[i])
		}
	}
}
