package material

import (
	"math"

	"github.com/pkg/errors"
)

// Config holds the construction-time parameters of a random realization.
type Config struct {
	Channels  int    // C: input channel count, length of every pool vector.
	OutputDim int    // K: compact descriptor width.
	Sparsity  int    // S: nonzeros per pool vector.
	PoolSize  int    // P: number of distinct pool vectors.
	Repeats   int    // T: pool vectors summed per projection column.
	Seed      uint64 // Seed of the PCG stream used by Generate.
}

// DefaultConfig returns a configuration for the given channel count with
// K=512, S=8 (capped at channels), P=1024 and T=4.
func DefaultConfig(channels int) Config {
	return Config{
		Channels:  channels,
		OutputDim: 512,
		Sparsity:  min(8, max(channels, 1)),
		PoolSize:  1024,
		Repeats:   4,
	}
}

// Validate checks 1 <= S <= C, P >= 1, K >= 1 and T >= 1.
func (c Config) Validate() error {
	if c.Channels < 1 || c.Channels > math.MaxInt32 {
		return errors.Wrapf(ErrInvalidParameter, "channels must be in [1, %d], got %d", math.MaxInt32, c.Channels)
	}
	if c.OutputDim < 1 {
		return errors.Wrapf(ErrInvalidParameter, "output dim must be >= 1, got %d", c.OutputDim)
	}
	if c.PoolSize < 1 || c.PoolSize > math.MaxInt32 {
		return errors.Wrapf(ErrInvalidParameter, "pool size must be in [1, %d], got %d", math.MaxInt32, c.PoolSize)
	}
	if c.Repeats < 1 {
		return errors.Wrapf(ErrInvalidParameter, "repeats must be >= 1, got %d", c.Repeats)
	}
	if c.Sparsity < 1 || c.Sparsity > c.Channels {
		return errors.Wrapf(ErrInvalidParameter, "sparsity must be in [1, %d], got %d", c.Channels, c.Sparsity)
	}
	return nil
}
