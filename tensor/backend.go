// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

// Backend multiplies dense matrices.
//
// Implementations:
//   - backend/cpu: gonum BLAS (New, NewSerial) or the ordered reference loop (NewOrdered)
//
// Example:
//
//	import (
//	    "github.com/born-ml/cbpkrp/tensor"
//	    "github.com/born-ml/cbpkrp/backend/cpu"
//	)
//
//	var backend tensor.Backend = cpu.New()
//	a, _ := tensor.FromFloat32(tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
//	b, _ := tensor.FromFloat32(tensor.Shape{3, 1}, []float32{1, 1, 1})
//	c := backend.MatMul(a, b) // (2, 1): [6, 15]
type Backend interface {
	// MatMul multiplies 2D Float32 tensors: (M, K) @ (K, N) -> (M, N).
	// Panics on rank, dtype or inner dimension mismatch.
	MatMul(a, b *RawTensor) *RawTensor

	// Name returns the backend name.
	Name() string
}
