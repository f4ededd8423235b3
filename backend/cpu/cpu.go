// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/cbpkrp/internal/backend/cpu"
	"github.com/born-ml/cbpkrp/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Kernel selects how a Backend multiplies.
type Kernel = internalcpu.Kernel

// Available kernels.
const (
	KernelBLAS       Kernel = internalcpu.KernelBLAS
	KernelBLASSerial Kernel = internalcpu.KernelBLASSerial
	KernelOrdered    Kernel = internalcpu.KernelOrdered
)

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend that multiplies through gonum BLAS.
//
// Example:
//
//	backend := cpu.New()
//	c := backend.MatMul(a, b)
func New() *Backend {
	return internalcpu.New()
}

// NewSerial creates a CPU backend that multiplies through gonum BLAS on the
// calling goroutine only.
func NewSerial() *Backend {
	return internalcpu.NewSerial()
}

// NewOrdered creates a CPU backend whose results match the sparse CSR kernel
// bit for bit.
func NewOrdered() *Backend {
	return internalcpu.NewOrdered()
}
