// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package krp_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cbpkrp/krp"
	"github.com/born-ml/cbpkrp/tensor"
)

func batchOf(t *testing.T, n, c, h, w int) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(tensor.Shape{n, c, h, w}, tensor.Float32)
	require.NoError(t, err)
	data := raw.AsFloat32()
	for i := range data {
		data[i] = float32((i*7)%11) / 10
	}
	return raw
}

// TestDenseToSparseHandoff covers the intended workflow: generate on a
// workstation, export, import on a low-power device.
func TestDenseToSparseHandoff(t *testing.T) {
	cfg := krp.Config{Channels: 32, OutputDim: 64, Sparsity: 4, PoolSize: 40, Repeats: 3, Seed: 7}
	dense, m, err := krp.Create(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "material.safetensors")
	require.NoError(t, krp.Save(path, m))
	loaded, err := krp.Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Fingerprint(), loaded.Fingerprint())

	pool, indexA, indexB := loaded.Export()
	assert.True(t, pool.Shape().Equal(tensor.Shape{cfg.PoolSize, cfg.Channels}))
	assert.True(t, indexA.Shape().Equal(tensor.Shape{cfg.OutputDim, cfg.Repeats}))
	assert.True(t, indexB.Shape().Equal(tensor.Shape{cfg.OutputDim, cfg.Repeats}))

	sparse, err := krp.CreateFromMaterial(pool, indexA, indexB, cfg.Sparsity, true, krp.WithWorkers(2))
	require.NoError(t, err)

	batch := batchOf(t, 3, cfg.Channels, 4, 4)
	want, err := dense.Forward(batch)
	require.NoError(t, err)
	got, err := sparse.Forward(batch)
	require.NoError(t, err)
	require.True(t, got.Shape().Equal(tensor.Shape{3, cfg.OutputDim}))

	var scale float32
	for _, v := range want.AsFloat32() {
		scale = max(scale, v, -v)
	}
	assert.InDeltaSlice(t, want.AsFloat32(), got.AsFloat32(), 1e-3*float64(scale))
}

func TestErrors(t *testing.T) {
	_, _, err := krp.Create(krp.Config{Channels: 10, OutputDim: 8, Sparsity: 11, PoolSize: 4, Repeats: 1})
	assert.True(t, errors.Is(err, krp.ErrInvalidParameter))

	cfg := krp.Config{Channels: 8, OutputDim: 4, Sparsity: 2, PoolSize: 5, Repeats: 2}
	m, err := krp.Generate(cfg)
	require.NoError(t, err)
	pool, indexA, indexB := m.Export()
	indexB.AsInt32()[0] = int32(cfg.PoolSize)
	_, err = krp.CreateFromMaterial(pool, indexA, indexB, cfg.Sparsity, false)
	assert.True(t, errors.Is(err, krp.ErrMaterialMismatch))

	_, err = krp.Import(pool, indexA, indexA, cfg.Sparsity+1)
	assert.True(t, errors.Is(err, krp.ErrMaterialMismatch))

	dense, err := krp.NewDenseEngine(m)
	require.NoError(t, err)
	_, err = dense.Forward(batchOf(t, 1, cfg.Channels+1, 2, 2))
	assert.True(t, errors.Is(err, krp.ErrShapeMismatch))
}

func TestOptions(t *testing.T) {
	opts := krp.DefaultOptions()
	assert.Equal(t, krp.AggregateSum, opts.Aggregation)
	assert.Equal(t, krp.NormalizeNone, opts.Normalization)
	assert.True(t, opts.UseSparseMatrixMultiplication)

	m, err := krp.Generate(krp.Config{Channels: 8, OutputDim: 16, Sparsity: 2, PoolSize: 5, Repeats: 2, Seed: 3})
	require.NoError(t, err)

	e, err := krp.NewSparseEngine(m,
		krp.WithAggregation(krp.AggregateMean),
		krp.WithNormalization(krp.NormalizeSignedSqrtL2),
		krp.WithSparseMultiplication(false),
		krp.WithParallel(krp.ParallelConfig{Enabled: false}),
	)
	require.NoError(t, err)
	assert.False(t, e.UsesSparseMultiplication())
	assert.Equal(t, krp.AggregateMean, e.Options().Aggregation)

	out, err := e.Forward(batchOf(t, 2, 8, 3, 3))
	require.NoError(t, err)
	var norm float64
	for _, v := range out.AsFloat32()[:16] {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestDefaultConfig(t *testing.T) {
	cfg := krp.DefaultConfig(4)
	assert.Equal(t, 4, cfg.Sparsity)
	assert.Equal(t, 512, cfg.OutputDim)
	require.NoError(t, cfg.Validate())
}
