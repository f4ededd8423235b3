// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package krp

import (
	"github.com/born-ml/cbpkrp/internal/cbp"
	"github.com/born-ml/cbpkrp/internal/parallel"
)

// Options configures an engine.
type Options = cbp.Options

// Option mutates Options.
type Option = cbp.Option

// Aggregation selects how per-position descriptors are pooled.
type Aggregation = cbp.Aggregation

// Normalization selects descriptor post-processing.
type Normalization = cbp.Normalization

// ParallelConfig controls how samples are spread over goroutines.
type ParallelConfig = parallel.Config

// Aggregation modes.
const (
	AggregateSum  Aggregation = cbp.AggregateSum
	AggregateMean Aggregation = cbp.AggregateMean
)

// Normalization modes.
const (
	NormalizeNone         Normalization = cbp.NormalizeNone
	NormalizeSignedSqrtL2 Normalization = cbp.NormalizeSignedSqrtL2
)

// DefaultOptions returns sum aggregation, no normalization, sparse
// multiplication on and one worker per CPU.
func DefaultOptions() Options {
	return cbp.DefaultOptions()
}

// WithWorkers caps the goroutines used per Forward call.
func WithWorkers(n int) Option {
	return cbp.WithWorkers(n)
}

// WithParallel replaces the parallel configuration.
func WithParallel(cfg ParallelConfig) Option {
	return cbp.WithParallel(cfg)
}

// WithAggregation selects spatial aggregation.
func WithAggregation(a Aggregation) Option {
	return cbp.WithAggregation(a)
}

// WithNormalization selects descriptor post-processing.
func WithNormalization(n Normalization) Option {
	return cbp.WithNormalization(n)
}

// WithSparseMultiplication toggles the CSR kernel of SparseEngine.
func WithSparseMultiplication(enabled bool) Option {
	return cbp.WithSparseMultiplication(enabled)
}
