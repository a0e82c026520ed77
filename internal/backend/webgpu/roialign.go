//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/regionops-ml/regionops/internal/tensor"
)

// packParams serializes the kernel parameter block. Field order matches the
// Params struct in both WGSL shaders.
func packParams(size, channels, height, width, outH, outW, ratioH, ratioW int, spatialScale float64) []byte {
	params := make([]byte, 48) // 16-byte aligned uniform block
	for i, v := range []int{size, channels, height, width, outH, outW, ratioH, ratioW} {
		//nolint:gosec // G115: Safe conversion, dimensions are validated non-negative
		binary.LittleEndian.PutUint32(params[i*4:], uint32(v))
	}
	binary.LittleEndian.PutUint32(params[32:], math.Float32bits(float32(spatialScale)))
	return params
}

// ROIAlign extracts a fixed-size pooled patch from x for every ROI on GPU.
// Only float32 tensors are supported. Panics on GPU failures; shape
// contracts are the same as the CPU backend's.
func (b *Backend) ROIAlign(x, rois *tensor.RawTensor,
	outH, outW int, spatialScale float64, ratioH, ratioW int) *tensor.RawTensor {

	out, err := b.runROIAlignForward(x, rois, outH, outW, spatialScale, ratioH, ratioW)
	if err != nil {
		panic(fmt.Sprintf("roialign: %v", err))
	}
	return out
}

// ROIAlignBackward scatters the pooled-output gradient back onto a
// zero-initialized gradient map on GPU.
func (b *Backend) ROIAlignBackward(gradOutput, rois *tensor.RawTensor, inputShape tensor.Shape,
	outH, outW int, spatialScale float64, ratioH, ratioW int) *tensor.RawTensor {

	grad, err := b.runROIAlignBackward(gradOutput, rois, inputShape, outH, outW, spatialScale, ratioH, ratioW)
	if err != nil {
		panic(fmt.Sprintf("roialign backward: %v", err))
	}
	return grad
}

func (b *Backend) runROIAlignForward(x, rois *tensor.RawTensor,
	outH, outW int, spatialScale float64, ratioH, ratioW int) (*tensor.RawTensor, error) {

	if x.DType() != tensor.Float32 {
		return nil, fmt.Errorf("webgpu: only float32 is supported, got %s", x.DType())
	}
	xShape := x.Shape()
	roisShape := rois.Shape()
	if len(xShape) != 4 {
		return nil, fmt.Errorf("webgpu: expected 4D input [N,C,H,W], got %v", xShape)
	}
	if len(roisShape) != 2 || roisShape[1] != 5 {
		return nil, fmt.Errorf("webgpu: expected rois shape [numROIs, 5], got %v", roisShape)
	}

	numROIs := roisShape[0]
	channels := xShape[1]
	outShape := tensor.Shape{numROIs, channels, outH, outW}
	total := outShape.NumElements()

	shader := b.compileShader("roialign_fwd", roiAlignForwardShader)
	pipeline := b.getOrCreatePipeline("roialign_fwd", shader)

	bufferData := b.createBuffer(x.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferData.Release()

	bufferROIs := b.createBuffer(rois.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferROIs.Release()

	//nolint:gosec // G115: Safe conversion, element count is non-negative
	resultSize := uint64(total * tensor.Float32.Size())
	bufferResult := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer bufferResult.Release()

	bufferParams := b.createUniformBuffer(packParams(
		total, channels, xShape[2], xShape[3], outH, outW, ratioH, ratioW, spatialScale))
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferData, 0, uint64(x.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferROIs, 0, uint64(rois.ByteSize())),
		wgpu.BufferBindingEntry(2, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, 48),
	})
	defer bindGroup.Release()

	b.dispatch(pipeline, bindGroup, total)

	resultData, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return nil, err
	}

	result, err := tensor.NewRaw(outShape, tensor.Float32, tensor.WebGPU)
	if err != nil {
		return nil, err
	}
	copy(result.Data(), resultData)
	return result, nil
}

func (b *Backend) runROIAlignBackward(gradOutput, rois *tensor.RawTensor, inputShape tensor.Shape,
	outH, outW int, spatialScale float64, ratioH, ratioW int) (*tensor.RawTensor, error) {

	if gradOutput.DType() != tensor.Float32 {
		return nil, fmt.Errorf("webgpu: only float32 is supported, got %s", gradOutput.DType())
	}
	if len(inputShape) != 4 {
		return nil, fmt.Errorf("webgpu: expected 4D input shape [N,C,H,W], got %v", inputShape)
	}
	roisShape := rois.Shape()
	if len(roisShape) != 2 || roisShape[1] != 5 {
		return nil, fmt.Errorf("webgpu: expected rois shape [numROIs, 5], got %v", roisShape)
	}

	total := gradOutput.NumElements()

	shader := b.compileShader("roialign_bwd", roiAlignBackwardShader)
	pipeline := b.getOrCreatePipeline("roialign_bwd", shader)

	bufferGradOut := b.createBuffer(gradOutput.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferGradOut.Release()

	bufferROIs := b.createBuffer(rois.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferROIs.Release()

	// Zero-filled gradient buffer; the shader only ever accumulates into it.
	//nolint:gosec // G115: Safe conversion, element count is non-negative
	gradSize := uint64(inputShape.NumElements() * tensor.Float32.Size())
	bufferGrad := b.createBuffer(make([]byte, gradSize),
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	defer bufferGrad.Release()

	bufferParams := b.createUniformBuffer(packParams(
		total, inputShape[1], inputShape[2], inputShape[3], outH, outW, ratioH, ratioW, spatialScale))
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferGradOut, 0, uint64(gradOutput.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferROIs, 0, uint64(rois.ByteSize())),
		wgpu.BufferBindingEntry(2, bufferGrad, 0, gradSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, 48),
	})
	defer bindGroup.Release()

	b.dispatch(pipeline, bindGroup, total)

	gradData, err := b.readBuffer(bufferGrad, gradSize)
	if err != nil {
		return nil, err
	}

	grad, err := tensor.NewRaw(inputShape, tensor.Float32, tensor.WebGPU)
	if err != nil {
		return nil, err
	}
	copy(grad.Data(), gradData)
	return grad, nil
}
