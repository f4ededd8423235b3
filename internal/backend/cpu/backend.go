// Package cpu implements the dense CPU multiply kernels: a BLAS-backed GEMM
// for throughput and an ordered reference loop that mirrors the sparse
// kernels' accumulation order.
package cpu

import (
	"fmt"

	"github.com/born-ml/cbpkrp/internal/tensor"
)

// Kernel selects how a CPUBackend multiplies.
type Kernel int

// Available kernels.
const (
	KernelBLAS       Kernel = iota // gonum BLAS, may use several goroutines
	KernelBLASSerial               // gonum BLAS on tiles, calling goroutine only
	KernelOrdered                  // i-k-j loop, ascending inner index
)

// CPUBackend performs dense float32 matrix multiplication.
type CPUBackend struct {
	kernel Kernel
}

// New creates a CPU backend that multiplies through gonum BLAS.
func New() *CPUBackend {
	return &CPUBackend{kernel: KernelBLAS}
}

// NewSerial creates a CPU backend that multiplies through gonum BLAS without
// spawning goroutines.
func NewSerial() *CPUBackend {
	return &CPUBackend{kernel: KernelBLASSerial}
}

// NewOrdered creates a CPU backend that multiplies with the ordered
// reference loop.
func NewOrdered() *CPUBackend {
	return &CPUBackend{kernel: KernelOrdered}
}

// Kernel returns the multiplication kernel.
func (cpu *CPUBackend) Kernel() Kernel {
	return cpu.kernel
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	switch cpu.kernel {
	case KernelBLASSerial:
		return "CPU(blas-serial)"
	case KernelOrdered:
		return "CPU(ordered)"
	default:
		return "CPU(blas)"
	}
}

// Multiply computes c (m x n) = a (m x k) @ b (k x n) on row-major buffers
// with the backend's kernel. c is overwritten.
func (cpu *CPUBackend) Multiply(c, a, b []float32, m, k, n int) {
	switch cpu.kernel {
	case KernelBLASSerial:
		GemmSerial(c, a, b, m, k, n)
	case KernelOrdered:
		MatMulOrdered(c, a, b, m, k, n)
	default:
		Gemm(c, a, b, m, k, n)
	}
}

// MatMul performs matrix multiplication on 2D Float32 tensors:
// (M, K) @ (K, N) -> (M, N).
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("matmul: unsupported dtypes %s and %s", a.DType(), b.DType()))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	result, err := tensor.NewRaw(tensor.Shape{m, n}, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("matmul: failed to create result tensor: %v", err))
	}

	cpu.Multiply(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	return result
}
