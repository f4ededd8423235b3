package material

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cbpkrp/internal/parallel"
	"github.com/born-ml/cbpkrp/internal/tensor"
)

func testConfig() Config {
	return Config{Channels: 16, OutputDim: 8, Sparsity: 3, PoolSize: 10, Repeats: 4, Seed: 42}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"sparsity above channels", func(c *Config) { c.Channels, c.Sparsity = 10, 11 }},
		{"zero sparsity", func(c *Config) { c.Sparsity = 0 }},
		{"empty pool", func(c *Config) { c.PoolSize = 0 }},
		{"zero outputs", func(c *Config) { c.OutputDim = 0 }},
		{"zero repeats", func(c *Config) { c.Repeats = 0 }},
		{"negative channels", func(c *Config) { c.Channels = -4 }},
		{"negative pool", func(c *Config) { c.PoolSize = -1 }},
	}

	require.NoError(t, testConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidParameter)

			_, err = Generate(cfg)
			require.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	require.NoError(t, DefaultConfig(64).Validate())
	assert.Equal(t, 8, DefaultConfig(64).Sparsity)
	assert.Equal(t, 3, DefaultConfig(3).Sparsity, "sparsity is capped at the channel count")
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(testConfig())
	require.NoError(t, err)
	b, err := Generate(testConfig())
	require.NoError(t, err)

	poolA, idxA1, idxA2 := a.Export()
	poolB, idxB1, idxB2 := b.Export()
	assert.Equal(t, poolA.Data(), poolB.Data())
	assert.Equal(t, idxA1.Data(), idxB1.Data())
	assert.Equal(t, idxA2.Data(), idxB2.Data())
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	cfg := testConfig()
	cfg.Seed++
	c, err := Generate(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestGenerateWithRandMatchesGenerate(t *testing.T) {
	cfg := testConfig()
	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := GenerateWithRand(Config{
		Channels: cfg.Channels, OutputDim: cfg.OutputDim, Sparsity: cfg.Sparsity,
		PoolSize: cfg.PoolSize, Repeats: cfg.Repeats,
	}, NewRand(cfg.Seed))
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestSparsityInvariant(t *testing.T) {
	cfg := Config{Channels: 32, OutputDim: 4, Sparsity: 5, PoolSize: 200, Repeats: 2, Seed: 7}
	m, err := Generate(cfg)
	require.NoError(t, err)

	pool := m.Pool()
	magnitude := float32(1 / math.Sqrt(5))
	assert.Equal(t, magnitude, pool.Magnitude())

	for p := 0; p < pool.Size(); p++ {
		nnz := 0
		for _, v := range pool.Vector(p) {
			if v != 0 {
				nnz++
				assert.Equal(t, magnitude, float32(math.Abs(float64(v))), "vector %d", p)
			}
		}
		assert.Equal(t, cfg.Sparsity, nnz, "vector %d", p)

		support, weights := pool.Support(p)
		require.Len(t, support, cfg.Sparsity)
		for i := 1; i < len(support); i++ {
			assert.Less(t, support[i-1], support[i], "support of vector %d must be sorted and distinct", p)
		}
		for i, c := range support {
			assert.Equal(t, pool.Vector(p)[c], weights[i])
		}
	}
}

func TestGenerateDistribution(t *testing.T) {
	cfg := Config{Channels: 4, OutputDim: 500, Sparsity: 2, PoolSize: 4000, Repeats: 4, Seed: 1}
	m, err := Generate(cfg)
	require.NoError(t, err)

	positions := make([]int, cfg.Channels)
	positive := 0
	for p := 0; p < cfg.PoolSize; p++ {
		for c, v := range m.Pool().Vector(p) {
			if v != 0 {
				positions[c]++
			}
			if v > 0 {
				positive++
			}
		}
	}
	total := float64(cfg.PoolSize * cfg.Sparsity)
	for c, n := range positions {
		assert.InDelta(t, 0.25, float64(n)/total, 0.03, "position %d", c)
	}
	assert.InDelta(t, 0.5, float64(positive)/total, 0.03)

	hits := make([]int, cfg.PoolSize)
	for _, set := range []Set{SetA, SetB} {
		for _, e := range m.Index(set).Entries() {
			hits[e]++
		}
	}
	low, high := 0, 0
	for p, n := range hits {
		if p < cfg.PoolSize/2 {
			low += n
		} else {
			high += n
		}
	}
	assert.InDelta(t, 0.5, float64(low)/float64(low+high), 0.05)
}

func TestExportImportRoundTrip(t *testing.T) {
	m, err := Generate(testConfig())
	require.NoError(t, err)

	pool, a, b := m.Export()
	assert.True(t, pool.Shape().Equal(tensor.Shape{10, 16}))
	assert.True(t, a.Shape().Equal(tensor.Shape{8, 4}))
	assert.True(t, b.Shape().Equal(tensor.Shape{8, 4}))

	imported, err := Import(pool, a, b, 3)
	require.NoError(t, err)
	assert.Equal(t, m.Fingerprint(), imported.Fingerprint())
	assert.Equal(t, m.String(), imported.String())
	assert.Equal(t, m.DenseMatrix(parallel.Sequential()), imported.DenseMatrix(parallel.Sequential()))

	// Export hands out copies.
	pool.AsFloat32()[0] = 123
	assert.NotEqual(t, float32(123), m.Pool().Vector(0)[0])
}

func TestImportMismatch(t *testing.T) {
	m, err := Generate(testConfig())
	require.NoError(t, err)
	pool, a, b := m.Export()

	t.Run("index out of range", func(t *testing.T) {
		bad := a.Clone()
		bad.AsInt32()[5] = int32(m.PoolSize())
		_, err := Import(pool, bad, b, 3)
		require.ErrorIs(t, err, ErrMaterialMismatch)
	})

	t.Run("negative index", func(t *testing.T) {
		bad := b.Clone()
		bad.AsInt32()[0] = -1
		_, err := Import(pool, a, bad, 3)
		require.ErrorIs(t, err, ErrMaterialMismatch)
	})

	t.Run("wrong sparsity", func(t *testing.T) {
		_, err := Import(pool, a, b, 4)
		require.ErrorIs(t, err, ErrMaterialMismatch)
	})

	t.Run("sparsity above channels", func(t *testing.T) {
		_, err := Import(pool, a, b, 17)
		require.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("wrong magnitude", func(t *testing.T) {
		bad := pool.Clone()
		for i, v := range bad.AsFloat32()[:16] {
			if v != 0 {
				bad.AsFloat32()[i] = 2 * v
				break
			}
		}
		_, err := Import(bad, a, b, 3)
		require.ErrorIs(t, err, ErrMaterialMismatch)
	})

	t.Run("nan entry", func(t *testing.T) {
		bad := pool.Clone()
		for i, v := range bad.AsFloat32()[:16] {
			if v != 0 {
				bad.AsFloat32()[i] = float32(math.NaN())
				break
			}
		}
		_, err := Import(bad, a, b, 3)
		require.ErrorIs(t, err, ErrMaterialMismatch)
	})

	t.Run("infinite entry", func(t *testing.T) {
		bad := pool.Clone()
		bad.AsFloat32()[0] = float32(math.Inf(-1))
		_, err := Import(bad, a, b, 3)
		require.ErrorIs(t, err, ErrMaterialMismatch)
	})

	t.Run("index shapes disagree", func(t *testing.T) {
		short, err := tensor.FromInt32(tensor.Shape{4, 4}, make([]int32, 16))
		require.NoError(t, err)
		_, err = Import(pool, a, short, 3)
		require.ErrorIs(t, err, ErrMaterialMismatch)
	})

	t.Run("wrong dtypes", func(t *testing.T) {
		_, err := Import(a, a, b, 3)
		require.ErrorIs(t, err, ErrMaterialMismatch)
		_, err = Import(pool, pool, b, 3)
		require.ErrorIs(t, err, ErrMaterialMismatch)
	})

	t.Run("nil", func(t *testing.T) {
		_, err := Import(nil, a, b, 3)
		require.ErrorIs(t, err, ErrMaterialMismatch)
	})

	assert.False(t, errors.Is(ErrMaterialMismatch, ErrInvalidParameter))
}

func TestColumnAssembly(t *testing.T) {
	m, err := Generate(testConfig())
	require.NoError(t, err)

	norm := 1 / math.Sqrt(float64(m.Repeats()))
	for _, set := range []Set{SetA, SetB} {
		for k := 0; k < m.OutputDim(); k++ {
			want := make([]float64, m.Channels())
			for r := 0; r < m.Repeats(); r++ {
				for c, v := range m.Pool().Vector(m.Index(set).At(k, r)) {
					want[c] += float64(v)
				}
			}
			col := m.Column(set, k)
			require.Len(t, col, m.Channels())
			for c := range want {
				assert.InDelta(t, want[c]*norm, float64(col[c]), 1e-6, "set %s slot %d channel %d", set, k, c)
			}

			sp := m.SparseColumn(set, k)
			assert.LessOrEqual(t, sp.NNZ(), m.Repeats()*m.Sparsity())
			assert.Equal(t, col, sp.ToDense(), "sparse and dense columns must agree exactly")
		}
	}
}

func TestDenseMatrixAndCSR(t *testing.T) {
	m, err := Generate(testConfig())
	require.NoError(t, err)

	dense := m.DenseMatrix(parallel.Sequential())
	c, k := m.Channels(), m.OutputDim()
	require.Len(t, dense, 2*k*c)
	assert.Equal(t, m.Column(SetA, 3), dense[3*c:4*c])
	assert.Equal(t, m.Column(SetB, 3), dense[(k+3)*c:(k+4)*c])
	assert.Equal(t, dense, m.DenseMatrix(parallel.DefaultConfig().WithWorkers(4)))

	csr := m.CSR()
	assert.Equal(t, 2*k, csr.Rows)
	assert.Equal(t, c, csr.Cols)
	assert.Equal(t, dense, csr.ToDense())
	assert.LessOrEqual(t, csr.NNZ(), 2*k*m.Repeats()*m.Sparsity())

	for _, set := range []Set{SetA, SetB} {
		for slot := 0; slot < k; slot++ {
			row := csr.Row(int(set)*k + slot)
			col := m.SparseColumn(set, slot)
			assert.Equal(t, col.NNZ(), row.NNZ(), "set %s slot %d", set, slot)
			assert.Equal(t, col.ToDense(), row.ToDense(), "set %s slot %d", set, slot)
		}
	}
}

func TestSingleRepeatColumnIsPoolVector(t *testing.T) {
	cfg := testConfig()
	cfg.Repeats = 1
	m, err := Generate(cfg)
	require.NoError(t, err)

	for k := 0; k < m.OutputDim(); k++ {
		assert.Equal(t, m.Pool().Vector(m.Index(SetA).At(k, 0)), m.Column(SetA, k))
	}
}

func TestByteSize(t *testing.T) {
	m, err := Generate(testConfig())
	require.NoError(t, err)
	// pool dense + support + weights + two tables
	want := 10*16*4 + 10*3*4 + 10*3*4 + 2*8*4*4
	assert.Equal(t, want, m.ByteSize())
}
