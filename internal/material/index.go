package material

import "github.com/pkg/errors"

// Set selects one of the two independently indexed projection sets.
type Set int

// Projection sets. The per-position descriptor is the elementwise product of
// the projections through SetA and SetB.
const (
	SetA Set = iota
	SetB
)

// String returns "a" or "b", the suffix used in interchange files.
func (s Set) String() string {
	if s == SetB {
		return "b"
	}
	return "a"
}

// IndexTable maps each of K output slots x T repeats to a pool vector.
type IndexTable struct {
	outputs int
	repeats int
	entries []int32 // outputs x repeats, row-major
}

// Outputs returns K.
func (t *IndexTable) Outputs() int { return t.outputs }

// Repeats returns T.
func (t *IndexTable) Repeats() int { return t.repeats }

// Row returns the T pool indices of output slot k. The slice aliases the
// table and must not be modified.
func (t *IndexTable) Row(k int) []int32 {
	lo, hi := k*t.repeats, (k+1)*t.repeats
	return t.entries[lo:hi:hi]
}

// At returns the pool index for slot k, repeat r.
func (t *IndexTable) At(k, r int) int {
	return int(t.entries[k*t.repeats+r])
}

// Entries returns a copy of the K x T row-major entries.
func (t *IndexTable) Entries() []int32 {
	return append([]int32(nil), t.entries...)
}

// newIndexTable copies entries and checks every one lies in [0, poolSize).
func newIndexTable(outputs, repeats int, entries []int32, poolSize int) (*IndexTable, error) {
	if len(entries) != outputs*repeats {
		return nil, errors.Wrapf(ErrMaterialMismatch,
			"index table has %d entries, want %dx%d", len(entries), outputs, repeats)
	}
	for i, e := range entries {
		if e < 0 || int(e) >= poolSize {
			return nil, errors.Wrapf(ErrMaterialMismatch,
				"index entry [%d,%d] = %d outside pool of size %d", i/repeats, i%repeats, e, poolSize)
		}
	}
	return &IndexTable{
		outputs: outputs,
		repeats: repeats,
		entries: append([]int32(nil), entries...),
	}, nil
}
