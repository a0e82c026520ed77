package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 1, Shape{}.NumElements())
}

func TestShape_Validate(t *testing.T) {
	assert.NoError(t, Shape{1, 2, 3}.Validate())
	assert.Error(t, Shape{1, 0, 3}.Validate())
	assert.Error(t, Shape{-1}.Validate())
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, Shape{7}.ComputeStrides())
}

func TestNewRaw_ZeroInitialized(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	require.NoError(t, err)

	assert.Equal(t, 6, raw.NumElements())
	assert.Equal(t, 24, raw.ByteSize())
	for _, v := range raw.AsFloat32() {
		assert.Zero(t, v)
	}
}

func TestNewRaw_InvalidShape(t *testing.T) {
	_, err := NewRaw(Shape{2, 0}, Float32, CPU)
	assert.Error(t, err)
}

func TestFromSlice_RoundTrip(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	raw, err := FromSlice(data, Shape{2, 3}, CPU)
	require.NoError(t, err)

	assert.Equal(t, Float64, raw.DType())
	assert.Equal(t, data, raw.AsFloat64())
}

func TestFromSlice_LengthMismatch(t *testing.T) {
	_, err := FromSlice([]float32{1, 2, 3}, Shape{2, 2}, CPU)
	assert.Error(t, err)
}

func TestAs_DTypeMismatchPanics(t *testing.T) {
	raw, err := NewRaw(Shape{2}, Float32, CPU)
	require.NoError(t, err)

	assert.Panics(t, func() { raw.AsFloat64() })
}

func TestClone_Independent(t *testing.T) {
	raw, err := FromSlice([]float32{1, 2, 3}, Shape{3}, CPU)
	require.NoError(t, err)

	clone := raw.Clone()
	clone.AsFloat32()[0] = 99

	assert.Equal(t, float32(1), raw.AsFloat32()[0])
	assert.Equal(t, float32(99), clone.AsFloat32()[0])
	assert.True(t, raw.Shape().Equal(clone.Shape()))
}

func TestFull(t *testing.T) {
	raw, err := Full(Shape{4}, float32(3.5), CPU)
	require.NoError(t, err)

	for _, v := range raw.AsFloat32() {
		assert.Equal(t, float32(3.5), v)
	}
}
