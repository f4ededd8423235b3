package cbp

import (
	"k8s.io/klog/v2"

	"github.com/born-ml/cbpkrp/internal/material"
	"github.com/born-ml/cbpkrp/internal/tensor"
)

// DenseEngine computes descriptors with dense BLAS matrix products. It is
// the engine that generates random material.
type DenseEngine struct {
	proj *projector
}

// Compile-time check that DenseEngine implements Engine.
var _ Engine = (*DenseEngine)(nil)

// Create generates new material from cfg and builds a dense engine over it.
// The material is returned so it can be exported to other engines.
func Create(cfg material.Config, opts ...Option) (*DenseEngine, *material.Material, error) {
	m, err := material.Generate(cfg)
	if err != nil {
		return nil, nil, err
	}
	e, err := NewDenseEngine(m, opts...)
	if err != nil {
		return nil, nil, err
	}
	return e, m, nil
}

// NewDenseEngine builds a dense engine over existing material.
func NewDenseEngine(m *material.Material, opts ...Option) (*DenseEngine, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	mul := newDenseMultiplier(gemmBackend(o.Parallel), m.DenseMatrix(o.Parallel), m)
	e := &DenseEngine{proj: newProjector(m, mul, o)}
	if klog.V(1).Enabled() {
		klog.Infof("cbp: dense engine over %s [%s], aggregation=%s, workers=%d",
			m, m.Fingerprint(), o.Aggregation, o.Parallel.Workers())
	}
	return e, nil
}

// Forward implements Engine.
func (e *DenseEngine) Forward(batch *tensor.RawTensor) (*tensor.RawTensor, error) {
	return e.proj.forward(e.Name(), batch)
}

// Material implements Engine.
func (e *DenseEngine) Material() *material.Material {
	return e.proj.material
}

// Name implements Engine.
func (e *DenseEngine) Name() string {
	return "dense/" + e.proj.mul.Name()
}

// Options returns the engine configuration.
func (e *DenseEngine) Options() Options {
	return e.proj.opts
}

// MemoryFootprint returns the bytes held by the dense projection matrix.
func (e *DenseEngine) MemoryFootprint() int {
	return e.proj.mul.ByteSize()
}
