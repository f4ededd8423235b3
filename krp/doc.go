// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package krp computes compact bilinear descriptors of convolutional feature
// maps by random projection.
//
// # Overview
//
// Bilinear pooling sums the outer product x x^T of every spatial position of
// a (C, H, W) feature map. The resulting C*C descriptor is too large for
// deep networks. This package approximates it with K numbers whose inner
// products estimate the bilinear kernel (x·y)^2:
//
//	phi(x)[k] = C/sqrt(K) * sum over positions of (a_k·x) * (b_k·x)
//
// Projection columns a_k and b_k are built from a shared pool of P sparse
// random vectors (S nonzeros of magnitude 1/sqrt(S) each). Every column sums
// T pool vectors chosen by an index table and scales by 1/sqrt(T).
//
// # Engines
//
//   - DenseEngine generates material and multiplies dense matrices with BLAS
//   - SparseEngine imports material and multiplies a CSR matrix, or the same
//     values densely when sparse multiplication is off
//
// Both produce the same descriptors within float32 rounding.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/cbpkrp/krp"
//	    "github.com/born-ml/cbpkrp/tensor"
//	)
//
//	func main() {
//	    cfg := krp.DefaultConfig(512)
//	    dense, material, err := krp.Create(cfg)
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    // Hand the random material to a low-power device.
//	    pool, indexA, indexB := material.Export()
//	    sparse, err := krp.CreateFromMaterial(pool, indexA, indexB, cfg.Sparsity, true)
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    batch, _ := tensor.NewRaw(tensor.Shape{8, 512, 14, 14}, tensor.Float32)
//	    y1, _ := dense.Forward(batch)  // (8, 512)
//	    y2, _ := sparse.Forward(batch) // (8, 512), same values
//	}
//
// # Errors
//
// All failures are reported before any computation and match one of
// ErrShapeMismatch, ErrInvalidParameter or ErrMaterialMismatch via errors.Is.
//
// # Concurrency
//
// Engines are immutable after construction. Forward may be called from many
// goroutines at once. Each call spreads its samples over the workers set by
// WithWorkers.
package krp
