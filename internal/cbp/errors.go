package cbp

import "github.com/pkg/errors"

// ErrShapeMismatch reports a feature batch that is not a Float32
// (N, C, H, W) tensor with the engine's channel count.
var ErrShapeMismatch = errors.New("shape mismatch")
