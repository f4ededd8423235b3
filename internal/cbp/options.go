package cbp

import (
	"github.com/pkg/errors"

	"github.com/born-ml/cbpkrp/internal/material"
	"github.com/born-ml/cbpkrp/internal/parallel"
)

// Aggregation selects how per-position descriptors are pooled over H*W.
type Aggregation int

// Aggregation modes.
const (
	AggregateSum Aggregation = iota
	AggregateMean
)

// String returns the mode name.
func (a Aggregation) String() string {
	switch a {
	case AggregateSum:
		return "sum"
	case AggregateMean:
		return "mean"
	default:
		return "unknown"
	}
}

// Normalization selects the post-processing applied to each descriptor.
type Normalization int

// Normalization modes.
const (
	NormalizeNone Normalization = iota
	// NormalizeSignedSqrtL2 maps y to sign(y)*sqrt(|y|), then scales to unit
	// L2 norm. An all-zero descriptor stays zero.
	NormalizeSignedSqrtL2
)

// String returns the mode name.
func (n Normalization) String() string {
	switch n {
	case NormalizeNone:
		return "none"
	case NormalizeSignedSqrtL2:
		return "signed-sqrt-l2"
	default:
		return "unknown"
	}
}

// Options configures an engine.
type Options struct {
	Parallel      parallel.Config // Parallelism over samples.
	Aggregation   Aggregation
	Normalization Normalization

	// UseSparseMatrixMultiplication selects the CSR kernel of SparseEngine.
	// When false the engine multiplies the same values densely. Ignored by
	// DenseEngine.
	UseSparseMatrixMultiplication bool
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns sum aggregation, no normalization, sparse
// multiplication on and one worker per CPU.
func DefaultOptions() Options {
	return Options{
		Parallel:                      parallel.DefaultConfig(),
		Aggregation:                   AggregateSum,
		Normalization:                 NormalizeNone,
		UseSparseMatrixMultiplication: true,
	}
}

// WithWorkers caps the goroutines used per forward call. 1 runs every sample
// on the calling goroutine.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Parallel = o.Parallel.WithWorkers(n) }
}

// WithParallel replaces the parallel configuration.
func WithParallel(cfg parallel.Config) Option {
	return func(o *Options) { o.Parallel = cfg }
}

// WithAggregation selects the spatial aggregation.
func WithAggregation(a Aggregation) Option {
	return func(o *Options) { o.Aggregation = a }
}

// WithNormalization selects descriptor post-processing.
func WithNormalization(n Normalization) Option {
	return func(o *Options) { o.Normalization = n }
}

// WithSparseMultiplication toggles the CSR kernel of SparseEngine.
func WithSparseMultiplication(enabled bool) Option {
	return func(o *Options) { o.UseSparseMatrixMultiplication = enabled }
}

func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Aggregation != AggregateSum && o.Aggregation != AggregateMean {
		return o, errors.Wrapf(material.ErrInvalidParameter, "unknown aggregation %d", o.Aggregation)
	}
	if o.Normalization != NormalizeNone && o.Normalization != NormalizeSignedSqrtL2 {
		return o, errors.Wrapf(material.ErrInvalidParameter, "unknown normalization %d", o.Normalization)
	}
	return o, nil
}
