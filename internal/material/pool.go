package material

import (
	"math"

	"github.com/pkg/errors"
)

// Pool is the shared set of sparse random basis vectors. Vector p is stored
// both densely (row p of a P x C matrix, the interchange layout) and as its
// sorted support with the matching weights.
type Pool struct {
	size     int
	dim      int
	sparsity int
	values   []float32 // size x dim, row-major
	support  []int32   // size x sparsity, ascending per vector
	weights  []float32 // size x sparsity, aligned with support
}

// Size returns P.
func (p *Pool) Size() int { return p.size }

// Dim returns C.
func (p *Pool) Dim() int { return p.dim }

// Sparsity returns S.
func (p *Pool) Sparsity() int { return p.sparsity }

// Vector returns pool vector i as a dense slice. The slice aliases the pool
// and must not be modified.
func (p *Pool) Vector(i int) []float32 {
	return p.values[i*p.dim : (i+1)*p.dim : (i+1)*p.dim]
}

// Support returns the nonzero positions of vector i and their weights. Both
// slices alias the pool and must not be modified.
func (p *Pool) Support(i int) ([]int32, []float32) {
	lo, hi := i*p.sparsity, (i+1)*p.sparsity
	return p.support[lo:hi:hi], p.weights[lo:hi:hi]
}

// Magnitude returns 1/sqrt(S), the absolute value of every nonzero entry.
func (p *Pool) Magnitude() float32 {
	return poolMagnitude(p.sparsity)
}

func poolMagnitude(sparsity int) float32 {
	return float32(1 / math.Sqrt(float64(sparsity)))
}

// poolFromDense builds a Pool from a row-major size x dim matrix, checking
// that every row has exactly sparsity nonzeros of magnitude 1/sqrt(S).
func poolFromDense(values []float32, size, dim, sparsity int) (*Pool, error) {
	p := &Pool{
		size:     size,
		dim:      dim,
		sparsity: sparsity,
		values:   make([]float32, len(values)),
		support:  make([]int32, 0, size*sparsity),
		weights:  make([]float32, 0, size*sparsity),
	}
	copy(p.values, values)

	magnitude := float64(poolMagnitude(sparsity))
	for i := 0; i < size; i++ {
		nnz := 0
		for c, v := range p.Vector(i) {
			if v == 0 {
				continue
			}
			// Negated so NaN fails the check.
			if !(math.Abs(math.Abs(float64(v))-magnitude) <= 1e-6*magnitude) {
				return nil, errors.Wrapf(ErrMaterialMismatch,
					"pool vector %d position %d has magnitude %g, want %g", i, c, math.Abs(float64(v)), magnitude)
			}
			nnz++
			if nnz > sparsity {
				break
			}
			p.support = append(p.support, int32(c)) //nolint:gosec // G115: c < dim <= MaxInt32
			p.weights = append(p.weights, v)
		}
		if nnz != sparsity {
			return nil, errors.Wrapf(ErrMaterialMismatch,
				"pool vector %d has %d nonzeros, want exactly %d", i, nnz, sparsity)
		}
	}
	return p, nil
}
