// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package krp

import (
	"github.com/born-ml/cbpkrp/internal/cbp"
	"github.com/born-ml/cbpkrp/internal/material"
	"github.com/born-ml/cbpkrp/tensor"
)

// Config holds the construction-time parameters of a random realization:
// Channels (C), OutputDim (K), Sparsity (S), PoolSize (P), Repeats (T) and
// Seed.
type Config = material.Config

// Material is one random realization: the pool and the two index tables.
type Material = material.Material

// Set selects one of the two index tables.
type Set = material.Set

// Index table selectors.
const (
	SetA Set = material.SetA
	SetB Set = material.SetB
)

// Engine computes compact bilinear descriptors.
type Engine = cbp.Engine

// DenseEngine multiplies dense projection matrices through BLAS.
type DenseEngine = cbp.DenseEngine

// SparseEngine multiplies the CSR projection matrix.
type SparseEngine = cbp.SparseEngine

// Compile-time checks that both engines implement Engine.
var (
	_ Engine = (*DenseEngine)(nil)
	_ Engine = (*SparseEngine)(nil)
)

// Sentinel errors. Match with errors.Is.
var (
	// ErrShapeMismatch reports an input batch that is not Float32
	// (N, C, H, W) with the engine's channel count.
	ErrShapeMismatch = cbp.ErrShapeMismatch

	// ErrInvalidParameter reports construction parameters out of range.
	ErrInvalidParameter = material.ErrInvalidParameter

	// ErrMaterialMismatch reports imported material that is inconsistent
	// with itself or with the declared parameters.
	ErrMaterialMismatch = material.ErrMaterialMismatch
)

// DefaultConfig returns K=512, S=min(8, channels), P=1024, T=4 and seed 0.
func DefaultConfig(channels int) Config {
	return material.DefaultConfig(channels)
}

// Generate creates random material from cfg. Equal configs yield identical
// material.
func Generate(cfg Config) (*Material, error) {
	return material.Generate(cfg)
}

// Import validates interchange arrays and builds material from them: pool is
// Float32 (P, C), indexA and indexB are Int32 (K, T) with entries in [0, P).
func Import(pool, indexA, indexB *tensor.RawTensor, sparsity int) (*Material, error) {
	return material.Import(pool, indexA, indexB, sparsity)
}

// Save writes material to a SafeTensors file.
func Save(path string, m *Material) error {
	return material.Save(path, m)
}

// Load reads material written by Save and verifies its fingerprint.
func Load(path string) (*Material, error) {
	return material.Load(path)
}

// Create generates material from cfg and builds a dense engine over it.
func Create(cfg Config, opts ...Option) (*DenseEngine, *Material, error) {
	return cbp.Create(cfg, opts...)
}

// CreateFromMaterial imports interchange arrays and builds a sparse engine.
// useSparse selects the CSR kernel; false keeps the dense kernel as a
// performance baseline with identical results.
func CreateFromMaterial(pool, indexA, indexB *tensor.RawTensor, sparsity int, useSparse bool, opts ...Option) (*SparseEngine, error) {
	return cbp.CreateFromMaterial(pool, indexA, indexB, sparsity, useSparse, opts...)
}

// NewDenseEngine builds a dense engine over existing material.
func NewDenseEngine(m *Material, opts ...Option) (*DenseEngine, error) {
	return cbp.NewDenseEngine(m, opts...)
}

// NewSparseEngine builds a sparse engine over existing material.
func NewSparseEngine(m *Material, opts ...Option) (*SparseEngine, error) {
	return cbp.NewSparseEngine(m, opts...)
}
