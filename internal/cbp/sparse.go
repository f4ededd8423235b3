package cbp

import (
	"k8s.io/klog/v2"

	"github.com/born-ml/cbpkrp/internal/backend/cpu"
	"github.com/born-ml/cbpkrp/internal/material"
	"github.com/born-ml/cbpkrp/internal/tensor"
)

// SparseEngine computes descriptors from a CSR projection matrix, for
// low-power CPU inference. It never generates randomness: it is always built
// over imported material.
type SparseEngine struct {
	proj *projector
	nnz  int
}

// Compile-time check that SparseEngine implements Engine.
var _ Engine = (*SparseEngine)(nil)

// CreateFromMaterial imports the interchange arrays and builds a sparse
// engine over them. useSparse selects the CSR kernel; false multiplies the
// same values densely as a performance baseline.
func CreateFromMaterial(pool, indexA, indexB *tensor.RawTensor, sparsity int, useSparse bool, opts ...Option) (*SparseEngine, error) {
	m, err := material.Import(pool, indexA, indexB, sparsity)
	if err != nil {
		return nil, err
	}
	return NewSparseEngine(m, append(append([]Option(nil), opts...), WithSparseMultiplication(useSparse))...)
}

// NewSparseEngine builds a sparse engine over existing material.
func NewSparseEngine(m *material.Material, opts ...Option) (*SparseEngine, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	var (
		mul Multiplier
		nnz int
	)
	if o.UseSparseMatrixMultiplication {
		csr := m.CSR()
		mul, nnz = &csrMultiplier{m: csr}, csr.NNZ()
	} else {
		w := m.DenseMatrix(o.Parallel)
		mul, nnz = newDenseMultiplier(cpu.NewOrdered(), w, m), countNonzero(w)
	}

	e := &SparseEngine{
		proj: newProjector(m, mul, o),
		nnz:  nnz,
	}
	if klog.V(1).Enabled() {
		density := float64(nnz) / float64(2*m.OutputDim()*m.Channels())
		klog.Infof("cbp: sparse engine over %s [%s], kernel=%s, nnz=%d (density %.4f), workers=%d",
			m, m.Fingerprint(), mul.Name(), nnz, density, o.Parallel.Workers())
	}
	return e, nil
}

// Forward implements Engine.
func (e *SparseEngine) Forward(batch *tensor.RawTensor) (*tensor.RawTensor, error) {
	return e.proj.forward(e.Name(), batch)
}

// Material implements Engine.
func (e *SparseEngine) Material() *material.Material {
	return e.proj.material
}

// Name implements Engine.
func (e *SparseEngine) Name() string {
	return "sparse/" + e.proj.mul.Name()
}

// Options returns the engine configuration.
func (e *SparseEngine) Options() Options {
	return e.proj.opts
}

// UsesSparseMultiplication reports whether the CSR kernel is active.
func (e *SparseEngine) UsesSparseMultiplication() bool {
	return e.proj.opts.UseSparseMatrixMultiplication
}

// ProjectionNNZ returns the nonzeros of the stacked 2K x C projection
// matrix, at most 2*K*T*S.
func (e *SparseEngine) ProjectionNNZ() int {
	return e.nnz
}

// MemoryFootprint returns the bytes held by the active projection
// representation.
func (e *SparseEngine) MemoryFootprint() int {
	return e.proj.mul.ByteSize()
}
