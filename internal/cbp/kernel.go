package cbp

import (
	"github.com/born-ml/cbpkrp/internal/backend/cpu"
	"github.com/born-ml/cbpkrp/internal/material"
	"github.com/born-ml/cbpkrp/internal/parallel"
	"github.com/born-ml/cbpkrp/internal/sparse"
)

// Multiplier multiplies the stacked 2K x C projection matrix by one sample.
type Multiplier interface {
	// Mul computes dst (2K x n) = W (2K x C) @ x (C x n), row-major.
	// dst is overwritten. Safe for concurrent use with distinct dst.
	Mul(dst, x []float32, n int)

	// Name identifies the kernel in logs and benchmarks.
	Name() string

	// ByteSize returns the memory held by the projection representation.
	ByteSize() int
}

// denseMultiplier multiplies the dense matrix on a CPU backend.
type denseMultiplier struct {
	backend    *cpu.CPUBackend
	w          []float32
	rows, cols int
}

func newDenseMultiplier(backend *cpu.CPUBackend, w []float32, m *material.Material) *denseMultiplier {
	return &denseMultiplier{backend: backend, w: w, rows: 2 * m.OutputDim(), cols: m.Channels()}
}

// gemmBackend picks BLAS for the dense engine. A single worker must stay on
// the calling goroutine, which rules out BLAS's own fan-out.
func gemmBackend(cfg parallel.Config) *cpu.CPUBackend {
	if cfg.Workers() == 1 {
		return cpu.NewSerial()
	}
	return cpu.New()
}

func (d *denseMultiplier) Mul(dst, x []float32, n int) {
	d.backend.Multiply(dst, d.w, x, d.rows, d.cols, n)
}

func (d *denseMultiplier) Name() string {
	if d.backend.Kernel() == cpu.KernelOrdered {
		return "dense-ordered"
	}
	return "dense-gemm"
}

func (d *denseMultiplier) ByteSize() int { return len(d.w) * 4 }

// csrMultiplier multiplies the compressed matrix.
type csrMultiplier struct {
	m *sparse.CSR
}

func (s *csrMultiplier) Mul(dst, x []float32, n int) {
	if n == 1 {
		s.m.MulVec(dst, x)
		return
	}
	s.m.MulDense(dst, x, n)
}

func (s *csrMultiplier) Name() string  { return "sparse-csr" }
func (s *csrMultiplier) ByteSize() int { return s.m.ByteSize() }

// countNonzero returns the nonzero entries of w.
func countNonzero(w []float32) int {
	n := 0
	for _, v := range w {
		if v != 0 {
			n++
		}
	}
	return n
}
