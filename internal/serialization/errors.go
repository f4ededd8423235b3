package serialization

import "errors"

// Common errors.
var (
	ErrHeaderTooLarge   = errors.New("header exceeds maximum size")
	ErrTensorNotFound   = errors.New("tensor not found")
	ErrUnsupportedDType = errors.New("unsupported dtype")
	ErrOutOfBounds      = errors.New("tensor extends beyond data section")
	ErrWriterClosed     = errors.New("writer is closed")
)

// maxHeaderSize bounds the JSON header read from untrusted files.
const maxHeaderSize = 100 * 1024 * 1024
