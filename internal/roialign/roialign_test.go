package roialign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regionops-ml/regionops/internal/backend/cpu"
	"github.com/regionops-ml/regionops/internal/tensor"
)

func TestNewConfig_Valid(t *testing.T) {
	cfg, err := NewConfig(7, 7, 1.0/16)
	require.NoError(t, err)
	assert.Equal(t, [2]int{0, 0}, cfg.SamplingRatio)

	cfg, err = NewConfig(7, 7, 1.0/16, 2)
	require.NoError(t, err)
	assert.Equal(t, [2]int{2, 2}, cfg.SamplingRatio)

	cfg, err = NewConfig(7, 7, 1.0/16, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, [2]int{2, 3}, cfg.SamplingRatio)
}

func TestNewConfig_Errors(t *testing.T) {
	cases := []struct {
		name string
		call func() (Config, error)
		kind error
	}{
		{"zero_height", func() (Config, error) { return NewConfig(0, 7, 1.0) }, ErrOutputSize},
		{"negative_width", func() (Config, error) { return NewConfig(7, -1, 1.0) }, ErrOutputSize},
		{"zero_scale", func() (Config, error) { return NewConfig(7, 7, 0) }, ErrSpatialScale},
		{"negative_scale", func() (Config, error) { return NewConfig(7, 7, -0.25) }, ErrSpatialScale},
		{"negative_ratio", func() (Config, error) { return NewConfig(7, 7, 1.0, -1) }, ErrSamplingRatio},
		{"negative_ratio_w", func() (Config, error) { return NewConfig(7, 7, 1.0, 2, -2) }, ErrSamplingRatio},
		{"too_many_ratios", func() (Config, error) { return NewConfig(7, 7, 1.0, 1, 2, 3) }, ErrSamplingRatio},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestCheckForward(t *testing.T) {
	x4d, err := tensor.Zeros[float32](tensor.Shape{1, 2, 4, 4}, tensor.CPU)
	require.NoError(t, err)
	rois, err := tensor.Zeros[float32](tensor.Shape{3, 5}, tensor.CPU)
	require.NoError(t, err)

	assert.NoError(t, CheckForward(x4d, rois))

	x3d, err := tensor.Zeros[float32](tensor.Shape{2, 4, 4}, tensor.CPU)
	require.NoError(t, err)
	err = CheckForward(x3d, rois)
	require.Error(t, err)
	var shapeErr *ShapeError
	assert.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "x", shapeErr.Arg)

	rois4, err := tensor.Zeros[float32](tensor.Shape{3, 4}, tensor.CPU)
	require.NoError(t, err)
	err = CheckForward(x4d, rois4)
	require.Error(t, err)
	assert.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "rois", shapeErr.Arg)

	rois64, err := tensor.Zeros[float64](tensor.Shape{3, 5}, tensor.CPU)
	require.NoError(t, err)
	err = CheckForward(x4d, rois64)
	require.Error(t, err)
	assert.ErrorAs(t, err, &shapeErr)
}

func TestROIAlign2D_ForwardBackward(t *testing.T) {
	backend := cpu.New()

	cfg, err := NewConfig(2, 2, 1.0, 1)
	require.NoError(t, err)
	op, err := New(cfg, backend)
	require.NoError(t, err)

	data := make([]float32, 16)
	for i := range data {
		data[i] = float32(i)
	}
	x, err := tensor.FromSlice(data, tensor.Shape{1, 1, 4, 4}, tensor.CPU)
	require.NoError(t, err)
	rois, err := tensor.FromSlice([]float32{0, 0, 0, 4, 4}, tensor.Shape{1, 5}, tensor.CPU)
	require.NoError(t, err)

	out, err := op.Forward(x, rois)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{1, 1, 2, 2}))
	assert.Equal(t, []float32{5, 7, 13, 15}, out.AsFloat32())

	gy, err := tensor.Full[float32](out.Shape(), 1, tensor.CPU)
	require.NoError(t, err)
	grad, err := op.Backward(gy)
	require.NoError(t, err)
	assert.True(t, grad.Shape().Equal(x.Shape()))

	// Each output cell's single sample hits exactly one feature cell with
	// weight 1, so the total gradient mass equals the output cell count.
	var total float32
	for _, v := range grad.AsFloat32() {
		total += v
	}
	assert.InDelta(t, 4.0, float64(total), 1e-6)
}

func TestROIAlign2D_BackwardBeforeForward(t *testing.T) {
	cfg, err := NewConfig(2, 2, 1.0)
	require.NoError(t, err)
	op, err := New(cfg, cpu.New())
	require.NoError(t, err)

	gy, err := tensor.Zeros[float32](tensor.Shape{1, 1, 2, 2}, tensor.CPU)
	require.NoError(t, err)

	_, err = op.Backward(gy)
	assert.Error(t, err)
}

func TestROIAlign2D_BackwardShapeMismatch(t *testing.T) {
	backend := cpu.New()
	cfg, err := NewConfig(2, 2, 1.0, 1)
	require.NoError(t, err)
	op, err := New(cfg, backend)
	require.NoError(t, err)

	x, err := tensor.Zeros[float32](tensor.Shape{1, 1, 4, 4}, tensor.CPU)
	require.NoError(t, err)
	rois, err := tensor.FromSlice([]float32{0, 0, 0, 4, 4}, tensor.Shape{1, 5}, tensor.CPU)
	require.NoError(t, err)

	_, err = op.Forward(x, rois)
	require.NoError(t, err)

	wrong, err := tensor.Zeros[float32](tensor.Shape{1, 1, 3, 3}, tensor.CPU)
	require.NoError(t, err)
	_, err = op.Backward(wrong)
	require.Error(t, err)
	var shapeErr *ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{OutHeight: 0, OutWidth: 2, SpatialScale: 1}, cpu.New())
	assert.ErrorIs(t, err, ErrOutputSize)
}

func TestROIAlign2D_ReusableAcrossInputs(t *testing.T) {
	backend := cpu.New()
	cfg, err := NewConfig(2, 2, 1.0, 1)
	require.NoError(t, err)
	op, err := New(cfg, backend)
	require.NoError(t, err)

	for _, size := range []int{4, 6, 8} {
		data := make([]float32, size*size)
		for i := range data {
			data[i] = float32(i)
		}
		x, err := tensor.FromSlice(data, tensor.Shape{1, 1, size, size}, tensor.CPU)
		require.NoError(t, err)
		rois, err := tensor.FromSlice(
			[]float32{0, 0, 0, float32(size), float32(size)}, tensor.Shape{1, 5}, tensor.CPU)
		require.NoError(t, err)

		out, err := op.Forward(x, rois)
		require.NoError(t, err)
		assert.True(t, out.Shape().Equal(tensor.Shape{1, 1, 2, 2}), "size %d", size)

		gy, err := tensor.Full[float32](out.Shape(), 1, tensor.CPU)
		require.NoError(t, err)
		grad, err := op.Backward(gy)
		require.NoError(t, err)
		assert.True(t, grad.Shape().Equal(x.Shape()), "size %d", size)
	}
}
