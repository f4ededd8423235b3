// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend for dense matrix products.
//
// # Overview
//
// Three variants share one implementation:
//   - New multiplies through gonum's float32 BLAS
//   - NewSerial multiplies through BLAS without spawning goroutines
//   - NewOrdered accumulates every output over ascending inner index, the
//     same order the sparse CSR kernel uses
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/cbpkrp/backend/cpu"
//	    "github.com/born-ml/cbpkrp/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    a, _ := tensor.NewRaw(tensor.Shape{4, 8}, tensor.Float32)
//	    b, _ := tensor.NewRaw(tensor.Shape{8, 2}, tensor.Float32)
//	    c := backend.MatMul(a, b) // (4, 2)
//	}
package cpu
