// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cbpkrp/backend/cpu"
	"github.com/born-ml/cbpkrp/tensor"
)

// TestBackendInterface verifies that cpu.Backend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.Backend)(nil)
}

// TestRawTensorAPI verifies the RawTensor alias exposes the expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
	require.NoError(t, err)

	assert.True(t, raw.Shape().Equal(tensor.Shape{2, 3}))
	assert.Equal(t, tensor.Float32, raw.DType())
	assert.Equal(t, 6, raw.NumElements())
	assert.Equal(t, 24, raw.ByteSize())
	assert.Equal(t, []int{3, 1}, raw.Strides())

	data := raw.AsFloat32()
	data[4] = 2.5
	assert.InDelta(t, 2.5, raw.AsFloat32()[4], 0)

	clone := raw.Clone()
	clone.AsFloat32()[4] = 1
	assert.InDelta(t, 2.5, raw.AsFloat32()[4], 0, "clone must not share storage")
}

func TestFromSlices(t *testing.T) {
	src := []int32{3, 1, 4, 1, 5, 9}
	raw, err := tensor.FromInt32(tensor.Shape{3, 2}, src)
	require.NoError(t, err)
	src[0] = 0
	assert.Equal(t, []int32{3, 1, 4, 1, 5, 9}, raw.AsInt32())

	_, err = tensor.FromFloat32(tensor.Shape{2, 2}, []float32{1, 2, 3})
	require.Error(t, err)
}

func TestBackendMatMul(t *testing.T) {
	a, err := tensor.FromFloat32(tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	b, err := tensor.FromFloat32(tensor.Shape{3, 2}, []float32{1, 0, 0, 1, 1, 1})
	require.NoError(t, err)

	for _, backend := range []tensor.Backend{cpu.New(), cpu.NewSerial(), cpu.NewOrdered()} {
		c := backend.MatMul(a, b)
		require.True(t, c.Shape().Equal(tensor.Shape{2, 2}), backend.Name())
		assert.InDeltaSlice(t, []float32{4, 5, 10, 11}, c.AsFloat32(), 1e-6, backend.Name())
	}

	assert.Panics(t, func() { cpu.New().MatMul(a, a) })
}
