// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/cbpkrp/internal/tensor"
)

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Int32   DataType = tensor.Int32
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// RawTensor is a dense row-major tensor.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Strides()
//   - Typed zero-copy data access via AsFloat32() and AsInt32()
//   - Deep copies via Clone()
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	data := raw.AsFloat32()
//	clone := raw.Clone()
type RawTensor = tensor.RawTensor

// NewRaw creates a zero-filled tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromFloat32 creates a Float32 tensor holding a copy of data.
// len(data) must equal shape.NumElements().
func FromFloat32(shape Shape, data []float32) (*RawTensor, error) {
	return tensor.FromFloat32(shape, data)
}

// FromInt32 creates an Int32 tensor holding a copy of data.
// len(data) must equal shape.NumElements().
func FromInt32(shape Shape, data []int32) (*RawTensor, error) {
	return tensor.FromInt32(shape, data)
}
