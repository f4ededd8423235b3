package material

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/born-ml/cbpkrp/internal/serialization"
	"github.com/born-ml/cbpkrp/internal/tensor"
)

// Material is one random realization: the pool plus the index tables of both
// projection sets.
type Material struct {
	pool  *Pool
	index [2]*IndexTable
}

// Channels returns C.
func (m *Material) Channels() int { return m.pool.dim }

// OutputDim returns K.
func (m *Material) OutputDim() int { return m.index[SetA].outputs }

// Sparsity returns S.
func (m *Material) Sparsity() int { return m.pool.sparsity }

// PoolSize returns P.
func (m *Material) PoolSize() int { return m.pool.size }

// Repeats returns T.
func (m *Material) Repeats() int { return m.index[SetA].repeats }

// Pool returns the shared pool.
func (m *Material) Pool() *Pool { return m.pool }

// Index returns the index table of set.
func (m *Material) Index(set Set) *IndexTable { return m.index[set] }

// ByteSize returns the memory held by the pool and index tables.
func (m *Material) ByteSize() int {
	n := len(m.pool.values)*4 + len(m.pool.support)*4 + len(m.pool.weights)*4
	for _, t := range m.index {
		n += len(t.entries) * 4
	}
	return n
}

// String summarizes the dimensions, e.g. "C=64 K=512 S=8 P=1024 T=4".
func (m *Material) String() string {
	return fmt.Sprintf("C=%d K=%d S=%d P=%d T=%d",
		m.Channels(), m.OutputDim(), m.Sparsity(), m.PoolSize(), m.Repeats())
}

// Export returns the interchange arrays: the pool as a Float32 (P, C) tensor
// and both index tables as Int32 (K, T) tensors. The tensors are copies.
func (m *Material) Export() (pool, indexA, indexB *tensor.RawTensor) {
	var err error
	pool, err = tensor.FromFloat32(tensor.Shape{m.pool.size, m.pool.dim}, m.pool.values)
	if err != nil {
		panic(fmt.Sprintf("material: export pool: %v", err))
	}
	exportIndex := func(t *IndexTable) *tensor.RawTensor {
		raw, err := tensor.FromInt32(tensor.Shape{t.outputs, t.repeats}, t.entries)
		if err != nil {
			panic(fmt.Sprintf("material: export index: %v", err))
		}
		return raw
	}
	return pool, exportIndex(m.index[SetA]), exportIndex(m.index[SetB])
}

// Import rebuilds material from interchange arrays without drawing any
// randomness. pool must be Float32 (P, C); indexA and indexB Int32 (K, T) of
// equal shape. Returns ErrInvalidParameter if sparsity is outside [1, C] and
// ErrMaterialMismatch if the arrays are inconsistent with each other or with
// sparsity.
func Import(pool, indexA, indexB *tensor.RawTensor, sparsity int) (*Material, error) {
	if pool == nil || indexA == nil || indexB == nil {
		return nil, errors.Wrap(ErrMaterialMismatch, "pool and both index tables are required")
	}
	if pool.DType() != tensor.Float32 || len(pool.Shape()) != 2 {
		return nil, errors.Wrapf(ErrMaterialMismatch,
			"pool must be a 2D float32 array, got %s %v", pool.DType(), pool.Shape())
	}
	for _, idx := range []*tensor.RawTensor{indexA, indexB} {
		if idx.DType() != tensor.Int32 || len(idx.Shape()) != 2 {
			return nil, errors.Wrapf(ErrMaterialMismatch,
				"index table must be a 2D int32 array, got %s %v", idx.DType(), idx.Shape())
		}
	}
	if !indexA.Shape().Equal(indexB.Shape()) {
		return nil, errors.Wrapf(ErrMaterialMismatch,
			"index tables disagree in shape: %v vs %v", indexA.Shape(), indexB.Shape())
	}

	size, dim := pool.Shape()[0], pool.Shape()[1]
	outputs, repeats := indexA.Shape()[0], indexA.Shape()[1]
	cfg := Config{Channels: dim, OutputDim: outputs, Sparsity: sparsity, PoolSize: size, Repeats: repeats}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := poolFromDense(pool.AsFloat32(), size, dim, sparsity)
	if err != nil {
		return nil, err
	}
	m := &Material{pool: p}
	for set, idx := range []*tensor.RawTensor{indexA, indexB} {
		m.index[set], err = newIndexTable(outputs, repeats, idx.AsInt32(), size)
		if err != nil {
			return nil, errors.WithMessagef(err, "index table %s", Set(set))
		}
	}
	return m, nil
}

// fingerprintNamespace scopes material fingerprints.
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/born-ml/cbpkrp/material"))

// Fingerprint returns a name-based UUID over the exported arrays. Two
// materials have equal fingerprints exactly when their interchange arrays are
// byte-identical.
func (m *Material) Fingerprint() uuid.UUID {
	var buf bytes.Buffer
	if err := serialization.Encode(&buf, m.stateDict(), nil); err != nil {
		panic(fmt.Sprintf("material: fingerprint: %v", err))
	}
	return uuid.NewSHA1(fingerprintNamespace, buf.Bytes())
}

// Interchange tensor names.
const (
	TensorPool   = "pool"
	TensorIndexA = "index.a"
	TensorIndexB = "index.b"
)

func (m *Material) stateDict() map[string]*tensor.RawTensor {
	pool, a, b := m.Export()
	return map[string]*tensor.RawTensor{
		TensorPool:   pool,
		TensorIndexA: a,
		TensorIndexB: b,
	}
}
