package material

import (
	"math"

	"github.com/born-ml/cbpkrp/internal/parallel"
	"github.com/born-ml/cbpkrp/internal/sparse"
)

// Column returns projection column k of set as a dense vector of length C:
// the sum of the T pool vectors referenced by the index table, scaled by
// 1/sqrt(T).
func (m *Material) Column(set Set, k int) []float32 {
	col := make([]float32, m.Channels())
	m.assemble(col, set, k)
	return col
}

// SparseColumn returns the same column as Column holding only its nonzeros,
// at most T*S of them. Values are bit-identical to Column.
func (m *Material) SparseColumn(set Set, k int) sparse.Vector {
	return sparse.VectorFromDense(m.Column(set, k))
}

// DenseMatrix returns all 2K columns as rows of a row-major 2K x C matrix:
// rows [0, K) are set A, rows [K, 2K) are set B. Rows are assembled under cfg.
func (m *Material) DenseMatrix(cfg parallel.Config) []float32 {
	c, k := m.Channels(), m.OutputDim()
	out := make([]float32, 2*k*c)
	parallel.For(2*k, func(row int) {
		m.assemble(out[row*c:(row+1)*c], Set(row/k), row%k)
	}, cfg)
	return out
}

// CSR returns the DenseMatrix layout in compressed sparse row form, stacked
// from the sparse columns without materializing the dense matrix.
func (m *Material) CSR() *sparse.CSR {
	k := m.OutputDim()
	rows := make([]sparse.Vector, 0, 2*k)
	for _, set := range []Set{SetA, SetB} {
		for slot := 0; slot < k; slot++ {
			rows = append(rows, m.SparseColumn(set, slot))
		}
	}
	return sparse.FromRows(rows)
}

// assemble writes column k of set into col, which must be zeroed and of
// length C. Both dense and sparse views go through here so their values
// agree exactly.
func (m *Material) assemble(col []float32, set Set, k int) {
	for _, p := range m.index[set].Row(k) {
		support, weights := m.pool.Support(int(p))
		for i, c := range support {
			col[c] += weights[i]
		}
	}
	norm := float32(1 / math.Sqrt(float64(m.Repeats())))
	for i := range col {
		col[i] *= norm
	}
}
