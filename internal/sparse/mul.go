package sparse

import "fmt"

// MulVec computes dst = m @ x. Each row is the Dot of that row with x, so
// results equal MulDense with n == 1.
func (m *CSR) MulVec(dst, x []float32) {
	if len(x) != m.Cols || len(dst) != m.Rows {
		panic(fmt.Sprintf("sparse: mulvec shape mismatch [%d,%d] @ [%d] -> [%d]",
			m.Rows, m.Cols, len(x), len(dst)))
	}
	for i := range dst {
		dst[i] = m.Row(i).Dot(x)
	}
}

// MulDense computes dst (Rows x n) = m (Rows x Cols) @ x (Cols x n), all
// row-major. dst is overwritten.
func (m *CSR) MulDense(dst, x []float32, n int) {
	if len(x) != m.Cols*n || len(dst) != m.Rows*n {
		panic(fmt.Sprintf("sparse: muldense shape mismatch [%d,%d] @ [%d,%d] -> %d elements",
			m.Rows, m.Cols, len(x)/max(n, 1), n, len(dst)))
	}

	for i := 0; i < m.Rows; i++ {
		out := dst[i*n : (i+1)*n]
		for j := range out {
			out[j] = 0
		}
		for p := m.RowPtr[i]; p < m.RowPtr[i+1]; p++ {
			v := m.Values[p]
			c := int(m.ColIdx[p])
			in := x[c*n : (c+1)*n]
			for j, xv := range in {
				// Explicit rounding keeps the compiler from fusing into FMA.
				out[j] += float32(v * xv)
			}
		}
	}
}
