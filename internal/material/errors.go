package material

import "github.com/pkg/errors"

// Errors reported by construction and import. Returned errors wrap these with
// context and match them under errors.Is.
var (
	// ErrInvalidParameter reports a construction parameter out of range,
	// e.g. sparsity larger than the channel count.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrMaterialMismatch reports imported arrays that do not form a
	// consistent pool and index tables, e.g. an index >= pool size.
	ErrMaterialMismatch = errors.New("material mismatch")
)
