package material

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/cbpkrp/internal/serialization"
)

// FormatVersion tags material files.
const FormatVersion = "cbp-krp/v1"

// Metadata keys of material files.
const (
	MetaFormat      = "format"
	MetaSparsity    = "sparsity"
	MetaFingerprint = "fingerprint"
)

// Save writes m to path as a SafeTensors file holding the interchange arrays.
func Save(path string, m *Material) error {
	metadata := map[string]string{
		MetaFormat:      FormatVersion,
		MetaSparsity:    strconv.Itoa(m.Sparsity()),
		MetaFingerprint: m.Fingerprint().String(),
	}
	if err := serialization.WriteSafeTensors(path, m.stateDict(), metadata); err != nil {
		return errors.WithMessagef(err, "saving material to %s", path)
	}
	klog.V(1).Infof("material: saved %s to %s", m, path)
	return nil
}

// Load reads material written by Save. The stored fingerprint, when present,
// must match the loaded arrays.
func Load(path string) (*Material, error) {
	reader, err := serialization.NewSafeTensorsReader(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "loading material from %s", path)
	}
	defer func() {
		_ = reader.Close() // Read-only, nothing to flush
	}()

	meta := reader.Metadata()
	if format := meta[MetaFormat]; format != FormatVersion {
		return nil, errors.Wrapf(ErrMaterialMismatch, "%s: unsupported format %q", path, format)
	}
	sparsity, err := strconv.Atoi(meta[MetaSparsity])
	if err != nil {
		return nil, errors.Wrapf(ErrMaterialMismatch, "%s: bad sparsity %q", path, meta[MetaSparsity])
	}

	pool, err := reader.LoadTensor(TensorPool)
	if err != nil {
		return nil, errors.WithMessagef(err, "loading material from %s", path)
	}
	indexA, err := reader.LoadTensor(TensorIndexA)
	if err != nil {
		return nil, errors.WithMessagef(err, "loading material from %s", path)
	}
	indexB, err := reader.LoadTensor(TensorIndexB)
	if err != nil {
		return nil, errors.WithMessagef(err, "loading material from %s", path)
	}

	m, err := Import(pool, indexA, indexB, sparsity)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s", path)
	}

	if stored, ok := meta[MetaFingerprint]; ok {
		want, err := uuid.Parse(stored)
		if err != nil {
			return nil, errors.Wrapf(ErrMaterialMismatch, "%s: bad fingerprint %q", path, stored)
		}
		if got := m.Fingerprint(); got != want {
			return nil, errors.Wrapf(ErrMaterialMismatch, "%s: fingerprint %s does not match contents %s", path, want, got)
		}
	}

	klog.V(1).Infof("material: loaded %s from %s", m, path)
	return m, nil
}
