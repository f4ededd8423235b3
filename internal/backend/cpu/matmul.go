package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// Serial GEMM tile. gonum's Sgemm fans out to GOMAXPROCS goroutines once the
// output spans 4 or more 64x64 blocks, so tiles stay at 1x2 blocks.
const (
	serialTileRows = 64
	serialTileCols = 128
)

// Gemm computes c (m x n) = a (m x k) @ b (k x n), all row-major, through
// gonum's float32 BLAS. c is overwritten. Large products run on several
// goroutines.
func Gemm(c, a, b []float32, m, k, n int) {
	checkDims("gemm", c, a, b, m, k, n)
	gemmTile(c, a, b, m, k, n, n)
}

// GemmSerial computes the same product as Gemm on the calling goroutine only,
// by multiplying output tiles below BLAS's parallel threshold.
func GemmSerial(c, a, b []float32, m, k, n int) {
	checkDims("gemm", c, a, b, m, k, n)

	for i0 := 0; i0 < m; i0 += serialTileRows {
		rows := min(serialTileRows, m-i0)
		for j0 := 0; j0 < n; j0 += serialTileCols {
			cols := min(serialTileCols, n-j0)
			gemmTile(c[i0*n+j0:], a[i0*k:], b[j0:], rows, k, cols, n)
		}
	}
}

// gemmTile multiplies an m x k block of a with a k x n block of b into c,
// where rows of b and c are ldn apart.
func gemmTile(c, a, b []float32, m, k, n, ldn int) {
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas32.General{Rows: m, Cols: k, Stride: k, Data: a},
		blas32.General{Rows: k, Cols: n, Stride: ldn, Data: b},
		0,
		blas32.General{Rows: m, Cols: n, Stride: ldn, Data: c},
	)
}

// MatMulOrdered computes c = a @ b with an i-k-j loop. Each c[i,j] is
// accumulated over ascending k, skipping nothing, which is the dense twin of
// sparse.CSR.MulDense.
func MatMulOrdered(c, a, b []float32, m, k, n int) {
	checkDims("matmul", c, a, b, m, k, n)

	for i := 0; i < m; i++ {
		out := c[i*n : (i+1)*n]
		for j := range out {
			out[j] = 0
		}
		row := a[i*k : (i+1)*k]
		for kIdx, w := range row {
			in := b[kIdx*n : (kIdx+1)*n]
			for j, xv := range in {
				// Explicit rounding keeps the compiler from fusing into FMA.
				out[j] += float32(w * xv)
			}
		}
	}
}

func checkDims(op string, c, a, b []float32, m, k, n int) {
	if len(a) != m*k || len(b) != k*n || len(c) != m*n {
		panic(fmt.Sprintf("%s: shape mismatch [%d,%d] @ [%d,%d] with buffers %d, %d -> %d",
			op, m, k, k, n, len(a), len(b), len(c)))
	}
}
