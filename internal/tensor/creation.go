package tensor

import "fmt"

// FromSlice creates a RawTensor from a Go slice. The slice is copied.
func FromSlice[T DType](data []T, shape Shape, device Device) (*RawTensor, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}

	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), device)
	if err != nil {
		return nil, err
	}

	switch dst := any(data).(type) {
	case []float32:
		copy(raw.AsFloat32(), dst)
	case []float64:
		copy(raw.AsFloat64(), dst)
	}
	return raw, nil
}

// Zeros creates a zero-filled RawTensor of the given element type.
func Zeros[T DType](shape Shape, device Device) (*RawTensor, error) {
	var dummy T
	return NewRaw(shape, inferDataType(dummy), device)
}

// Full creates a RawTensor filled with a specific value.
func Full[T DType](shape Shape, value T, device Device) (*RawTensor, error) {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), device)
	if err != nil {
		return nil, err
	}

	switch v := any(value).(type) {
	case float32:
		data := raw.AsFloat32()
		for i := range data {
			data[i] = v
		}
	case float64:
		data := raw.AsFloat64()
		for i := range data {
			data[i] = v
		}
	}
	return raw, nil
}
