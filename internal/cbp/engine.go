package cbp

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/blas/blas32"
	"k8s.io/klog/v2"

	"github.com/born-ml/cbpkrp/internal/material"
	"github.com/born-ml/cbpkrp/internal/parallel"
	"github.com/born-ml/cbpkrp/internal/tensor"
)

// Engine computes compact bilinear descriptors.
type Engine interface {
	// Forward maps a Float32 (N, C, H, W) batch to a Float32 (N, K)
	// descriptor batch. The input is never modified.
	Forward(batch *tensor.RawTensor) (*tensor.RawTensor, error)

	// Material returns the random material the engine projects with.
	Material() *material.Material

	// Name identifies the engine and its kernel.
	Name() string
}

// projector is the forward pass shared by both engines; only the
// multiplication kernel differs.
type projector struct {
	material *material.Material
	mul      Multiplier
	opts     Options
	scale    float64 // C / sqrt(K)
}

func newProjector(m *material.Material, mul Multiplier, opts Options) *projector {
	return &projector{
		material: m,
		mul:      mul,
		opts:     opts,
		scale:    float64(m.Channels()) / math.Sqrt(float64(m.OutputDim())),
	}
}

// checkBatch validates batch before any computation and returns N and H*W.
func (p *projector) checkBatch(batch *tensor.RawTensor) (n, hw int, err error) {
	if batch == nil {
		return 0, 0, errors.Wrap(ErrShapeMismatch, "nil batch")
	}
	if batch.DType() != tensor.Float32 {
		return 0, 0, errors.Wrapf(ErrShapeMismatch, "batch must be float32, got %s", batch.DType())
	}
	shape := batch.Shape()
	if len(shape) != 4 {
		return 0, 0, errors.Wrapf(ErrShapeMismatch, "batch must be (N, C, H, W), got %v", shape)
	}
	if c := p.material.Channels(); shape[1] != c {
		return 0, 0, errors.Wrapf(ErrShapeMismatch, "batch %v has %d channels, engine expects %d", shape, shape[1], c)
	}
	return shape[0], shape[2] * shape[3], nil
}

func (p *projector) forward(name string, batch *tensor.RawTensor) (*tensor.RawTensor, error) {
	n, hw, err := p.checkBatch(batch)
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("cbp: %s forward %v", name, batch.Shape())

	k, c := p.material.OutputDim(), p.material.Channels()
	out, err := tensor.NewRaw(tensor.Shape{n, k}, tensor.Float32)
	if err != nil {
		return nil, err
	}

	x := batch.AsFloat32()
	y := out.AsFloat32()
	parallel.ForRange(n, func(start, end int) {
		z := make([]float32, 2*k*hw)
		for s := start; s < end; s++ {
			p.mul.Mul(z, x[s*c*hw:(s+1)*c*hw], hw)
			p.pool(y[s*k:(s+1)*k], z, hw)
		}
	}, p.opts.Parallel)

	return out, nil
}

// pool combines the two projections in z (rows [0, K) set A, [K, 2K) set B,
// hw columns each) into dst.
func (p *projector) pool(dst, z []float32, hw int) {
	k := len(dst)
	scale := p.scale
	if p.opts.Aggregation == AggregateMean {
		scale /= float64(hw)
	}

	for slot := range dst {
		a := z[slot*hw : (slot+1)*hw]
		b := z[(k+slot)*hw : (k+slot+1)*hw]
		var sum float64
		for j, av := range a {
			sum += float64(av) * float64(b[j])
		}
		dst[slot] = float32(scale * sum)
	}

	if p.opts.Normalization == NormalizeSignedSqrtL2 {
		signedSqrtL2(dst)
	}
}

// signedSqrtL2 applies sign(y)*sqrt(|y|) then scales y to unit L2 norm.
func signedSqrtL2(y []float32) {
	for i, v := range y {
		r := float32(math.Sqrt(math.Abs(float64(v))))
		if v < 0 {
			r = -r
		}
		y[i] = r
	}
	vec := blas32.Vector{N: len(y), Inc: 1, Data: y}
	if norm := blas32.Nrm2(vec); norm > 0 {
		blas32.Scal(1/norm, vec)
	}
}
