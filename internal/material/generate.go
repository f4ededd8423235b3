package material

import (
	"math/rand/v2"

	"k8s.io/klog/v2"
)

// seedStream derives the second PCG word from the seed.
const seedStream = 0x9e3779b97f4a7c15

// NewRand returns the PCG generator Generate uses for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^seedStream)) //nolint:gosec // G404: reproducibility, not secrecy
}

// Generate creates a new random realization from cfg.Seed. The same Config
// always yields byte-identical material.
func Generate(cfg Config) (*Material, error) {
	return GenerateWithRand(cfg, NewRand(cfg.Seed))
}

// GenerateWithRand creates a new random realization drawing from rng.
// cfg.Seed is ignored. rng must not be used concurrently during the call.
func GenerateWithRand(cfg Config, rng *rand.Rand) (*Material, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	values := generatePool(rng, cfg.PoolSize, cfg.Channels, cfg.Sparsity)
	pool, err := poolFromDense(values, cfg.PoolSize, cfg.Channels, cfg.Sparsity)
	if err != nil {
		// Unreachable for validated configs.
		return nil, err
	}

	m := &Material{pool: pool}
	for _, set := range []Set{SetA, SetB} {
		entries := generateIndex(rng, cfg.OutputDim, cfg.Repeats, cfg.PoolSize)
		m.index[set], err = newIndexTable(cfg.OutputDim, cfg.Repeats, entries, cfg.PoolSize)
		if err != nil {
			return nil, err
		}
	}

	if klog.V(1).Enabled() {
		klog.Infof("material: generated %s (seed=%d)", m, cfg.Seed)
	}
	return m, nil
}

// generatePool draws size vectors of length dim with exactly sparsity
// nonzeros each, returned as a row-major size x dim matrix.
func generatePool(rng *rand.Rand, size, dim, sparsity int) []float32 {
	magnitude := poolMagnitude(sparsity)
	values := make([]float32, size*dim)
	perm := make([]int, dim)
	chosen := make([]bool, dim)

	for p := 0; p < size; p++ {
		for i := range perm {
			perm[i] = i
		}
		// Partial Fisher-Yates: perm[:sparsity] becomes a uniform sample
		// without replacement.
		for i := 0; i < sparsity; i++ {
			j := i + rng.IntN(dim-i)
			perm[i], perm[j] = perm[j], perm[i]
		}

		clear(chosen)
		for _, c := range perm[:sparsity] {
			chosen[c] = true
		}
		row := values[p*dim : (p+1)*dim]
		for c, ok := range chosen {
			if !ok {
				continue
			}
			if rng.IntN(2) == 0 {
				row[c] = -magnitude
			} else {
				row[c] = magnitude
			}
		}
	}
	return values
}

// generateIndex draws outputs*repeats pool indices uniformly with replacement.
func generateIndex(rng *rand.Rand, outputs, repeats, poolSize int) []int32 {
	entries := make([]int32, outputs*repeats)
	for i := range entries {
		entries[i] = int32(rng.IntN(poolSize)) //nolint:gosec // G115: poolSize <= MaxInt32
	}
	return entries
}
