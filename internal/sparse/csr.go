// Package sparse implements the compressed sparse row (CSR) matrices and
// sparse vectors used by the low-power inference path.
//
// Column indices within a row are always sorted ascending, and every
// multiplication accumulates each output element over ascending column index.
// That ordering makes a CSR product bit-identical to the dense i-k-j product of
// the same matrix for finite inputs, since skipped entries only ever add zero.
package sparse

import (
	"fmt"
)

// Vector is a sparse vector of dimension Dim with sorted Indices.
type Vector struct {
	Dim     int
	Indices []int32
	Values  []float32
}

// NNZ returns the number of stored entries.
func (v Vector) NNZ() int {
	return len(v.Indices)
}

// Dot returns v·x, accumulated over ascending index. Panics if
// len(x) != v.Dim.
func (v Vector) Dot(x []float32) float32 {
	if len(x) != v.Dim {
		panic(fmt.Sprintf("sparse: dot dimension mismatch %d vs %d", v.Dim, len(x)))
	}
	var sum float32
	for i, idx := range v.Indices {
		sum += float32(v.Values[i] * x[idx])
	}
	return sum
}

// ToDense expands v into a new dense slice.
func (v Vector) ToDense() []float32 {
	out := make([]float32, v.Dim)
	for i, idx := range v.Indices {
		out[idx] = v.Values[i]
	}
	return out
}

// VectorFromDense compresses the nonzero entries of data.
func VectorFromDense(data []float32) Vector {
	v := Vector{Dim: len(data)}
	for i, x := range data {
		if x != 0 {
			v.Indices = append(v.Indices, int32(i)) //nolint:gosec // G115: i < len(data)
			v.Values = append(v.Values, x)
		}
	}
	return v
}

// CSR is a Rows x Cols matrix in compressed sparse row format.
// Row i occupies ColIdx[RowPtr[i]:RowPtr[i+1]] and the matching Values.
type CSR struct {
	Rows, Cols int
	RowPtr     []int
	ColIdx     []int32
	Values     []float32
}

// FromDense compresses a row-major rows x cols matrix, dropping zeros.
func FromDense(rows, cols int, data []float32) *CSR {
	if len(data) != rows*cols {
		panic(fmt.Sprintf("sparse: data length %d does not match %dx%d", len(data), rows, cols))
	}

	m := &CSR{
		Rows:   rows,
		Cols:   cols,
		RowPtr: make([]int, rows+1),
	}
	for i := 0; i < rows; i++ {
		row := data[i*cols : (i+1)*cols]
		for j, x := range row {
			if x != 0 {
				m.ColIdx = append(m.ColIdx, int32(j)) //nolint:gosec // G115: j < cols
				m.Values = append(m.Values, x)
			}
		}
		m.RowPtr[i+1] = len(m.ColIdx)
	}
	return m
}

// FromRows stacks sparse row vectors into a CSR matrix. All rows must share
// the same dimension, which becomes Cols.
func FromRows(rows []Vector) *CSR {
	if len(rows) == 0 {
		return &CSR{RowPtr: []int{0}}
	}

	cols := rows[0].Dim
	nnz := 0
	for i, r := range rows {
		if r.Dim != cols {
			panic(fmt.Sprintf("sparse: row %d has dimension %d, want %d", i, r.Dim, cols))
		}
		nnz += r.NNZ()
	}

	m := &CSR{
		Rows:   len(rows),
		Cols:   cols,
		RowPtr: make([]int, len(rows)+1),
		ColIdx: make([]int32, 0, nnz),
		Values: make([]float32, 0, nnz),
	}
	for i, r := range rows {
		m.ColIdx = append(m.ColIdx, r.Indices...)
		m.Values = append(m.Values, r.Values...)
		m.RowPtr[i+1] = len(m.ColIdx)
	}
	return m
}

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int {
	return len(m.Values)
}

// Density returns NNZ / (Rows*Cols).
func (m *CSR) Density() float64 {
	if m.Rows == 0 || m.Cols == 0 {
		return 0
	}
	return float64(m.NNZ()) / float64(m.Rows*m.Cols)
}

// Row returns row i as a sparse vector sharing storage with m.
func (m *CSR) Row(i int) Vector {
	lo, hi := m.RowPtr[i], m.RowPtr[i+1]
	return Vector{
		Dim:     m.Cols,
		Indices: m.ColIdx[lo:hi:hi],
		Values:  m.Values[lo:hi:hi],
	}
}

// ToDense expands m into a new row-major slice.
func (m *CSR) ToDense() []float32 {
	out := make([]float32, m.Rows*m.Cols)
	for i := 0; i < m.Rows; i++ {
		base := i * m.Cols
		for p := m.RowPtr[i]; p < m.RowPtr[i+1]; p++ {
			out[base+int(m.ColIdx[p])] = m.Values[p]
		}
	}
	return out
}

// ByteSize returns the memory held by the index and value arrays.
func (m *CSR) ByteSize() int {
	return len(m.RowPtr)*8 + len(m.ColIdx)*4 + len(m.Values)*4
}
