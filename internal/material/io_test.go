package material

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cbpkrp/internal/parallel"
	"github.com/born-ml/cbpkrp/internal/serialization"
	"github.com/born-ml/cbpkrp/internal/tensor"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "material.safetensors")

	m, err := Generate(testConfig())
	require.NoError(t, err)
	require.NoError(t, Save(path, m))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Fingerprint(), loaded.Fingerprint())
	assert.Equal(t, m.Sparsity(), loaded.Sparsity())
	assert.Equal(t, m.DenseMatrix(parallel.Sequential()), loaded.DenseMatrix(parallel.Sequential()))

	reader, err := serialization.NewSafeTensorsReader(path)
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, []string{TensorIndexA, TensorIndexB, TensorPool}, reader.TensorNames())
	assert.Equal(t, FormatVersion, reader.Metadata()[MetaFormat])
	assert.Equal(t, m.Fingerprint().String(), reader.Metadata()[MetaFingerprint])
}

func TestLoadRejectsTampering(t *testing.T) {
	dir := t.TempDir()
	m, err := Generate(testConfig())
	require.NoError(t, err)
	pool, a, b := m.Export()

	write := func(name string, metadata map[string]string, a *tensor.RawTensor) string {
		path := filepath.Join(dir, name)
		require.NoError(t, serialization.WriteSafeTensors(path, map[string]*tensor.RawTensor{
			TensorPool: pool, TensorIndexA: a, TensorIndexB: b,
		}, metadata))
		return path
	}

	t.Run("fingerprint mismatch", func(t *testing.T) {
		swapped := a.Clone()
		entries := swapped.AsInt32()
		entries[0] = (entries[0] + 1) % int32(m.PoolSize())
		path := write("tampered.safetensors", map[string]string{
			MetaFormat:      FormatVersion,
			MetaSparsity:    "3",
			MetaFingerprint: m.Fingerprint().String(),
		}, swapped)

		_, err := Load(path)
		require.ErrorIs(t, err, ErrMaterialMismatch)
	})

	t.Run("no fingerprint", func(t *testing.T) {
		path := write("plain.safetensors", map[string]string{
			MetaFormat:   FormatVersion,
			MetaSparsity: "3",
		}, a)

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, m.Fingerprint(), loaded.Fingerprint())
	})

	t.Run("unknown format", func(t *testing.T) {
		path := write("format.safetensors", map[string]string{MetaSparsity: "3"}, a)
		_, err := Load(path)
		require.ErrorIs(t, err, ErrMaterialMismatch)
	})

	t.Run("bad sparsity", func(t *testing.T) {
		path := write("sparsity.safetensors", map[string]string{
			MetaFormat:   FormatVersion,
			MetaSparsity: "three",
		}, a)
		_, err := Load(path)
		require.ErrorIs(t, err, ErrMaterialMismatch)
	})

	t.Run("missing tensor", func(t *testing.T) {
		path := filepath.Join(dir, "missing.safetensors")
		require.NoError(t, serialization.WriteSafeTensors(path, map[string]*tensor.RawTensor{
			TensorPool: pool,
		}, map[string]string{MetaFormat: FormatVersion, MetaSparsity: "3"}))
		_, err := Load(path)
		require.ErrorIs(t, err, serialization.ErrTensorNotFound)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.safetensors"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
