package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/born-ml/cbpkrp/internal/tensor"
)

// SafeTensorInfo describes a tensor in a SafeTensors header.
type SafeTensorInfo struct {
	DType       string   `json:"dtype"`
	Shape       []int    `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"` // [start, end]
}

// SafeTensorsHeader is the parsed JSON header.
type SafeTensorsHeader struct {
	Metadata map[string]string
	Tensors  map[string]SafeTensorInfo
}

// UnmarshalJSON splits "__metadata__" from the tensor entries.
func (h *SafeTensorsHeader) UnmarshalJSON(data []byte) error {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}

	if metadataRaw, ok := rawMap["__metadata__"]; ok {
		if err := json.Unmarshal(metadataRaw, &h.Metadata); err != nil {
			return fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	h.Tensors = make(map[string]SafeTensorInfo, len(rawMap))
	for key, value := range rawMap {
		if key == "__metadata__" {
			continue
		}
		var info SafeTensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("failed to unmarshal tensor %s: %w", key, err)
		}
		h.Tensors[key] = info
	}
	return nil
}

// SafeTensorsReader reads SafeTensors files.
type SafeTensorsReader struct {
	file       *os.File
	header     SafeTensorsHeader
	dataOffset int64 // Offset where tensor data starts
	dataSize   int64 // Size of the data section
}

// NewSafeTensorsReader opens path and parses its header.
func NewSafeTensorsReader(path string) (*SafeTensorsReader, error) {
	//nolint:gosec // G304: File path comes from the caller, which is expected for material loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader, err := newReader(file)
	if err != nil {
		_ = file.Close() // Best effort close on error
		return nil, err
	}
	return reader, nil
}

func newReader(file *os.File) (*SafeTensorsReader, error) {
	var headerSize uint64
	if err := binary.Read(file, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > maxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(file, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var header SafeTensorsHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	dataOffset := int64(8 + headerSize) //nolint:gosec // G115: headerSize bounded by maxHeaderSize
	return &SafeTensorsReader{
		file:       file,
		header:     header,
		dataOffset: dataOffset,
		dataSize:   info.Size() - dataOffset,
	}, nil
}

// Close closes the underlying file.
func (r *SafeTensorsReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Metadata returns the metadata map from the header.
func (r *SafeTensorsReader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns all tensor names in the file, sorted.
func (r *SafeTensorsReader) TensorNames() []string {
	names := make([]string, 0, len(r.header.Tensors))
	for name := range r.header.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TensorInfo returns information about a specific tensor.
func (r *SafeTensorsReader) TensorInfo(name string) (*SafeTensorInfo, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTensorNotFound, name)
	}
	return &info, nil
}

// ReadTensorData reads the raw bytes of a tensor.
func (r *SafeTensorsReader) ReadTensorData(name string) ([]byte, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	start, end := info.DataOffsets[0], info.DataOffsets[1]
	if start < 0 || end < start || end > r.dataSize {
		return nil, fmt.Errorf("%w: tensor %s [%d, %d] with %d data bytes",
			ErrOutOfBounds, name, start, end, r.dataSize)
	}

	data := make([]byte, end-start)
	if _, err := r.file.ReadAt(data, r.dataOffset+start); err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	return data, nil
}

// LoadTensor loads a tensor by name.
func (r *SafeTensorsReader) LoadTensor(name string) (*tensor.RawTensor, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	dtype, err := safeTensorsToDType(info.DType)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}

	raw, err := tensor.NewRaw(tensor.Shape(info.Shape), dtype)
	if err != nil {
		return nil, fmt.Errorf("invalid shape for tensor %s: %w", name, err)
	}

	data, err := r.ReadTensorData(name)
	if err != nil {
		return nil, err
	}
	if len(data) != raw.ByteSize() {
		return nil, fmt.Errorf("%w: tensor %s holds %d bytes, shape %v needs %d",
			ErrOutOfBounds, name, len(data), info.Shape, raw.ByteSize())
	}

	copy(raw.Data(), data)
	return raw, nil
}

// safeTensorsToDType converts a SafeTensors dtype string to tensor.DataType.
func safeTensorsToDType(dtype string) (tensor.DataType, error) {
	switch dtype {
	case "F32":
		return tensor.Float32, nil
	case "I32":
		return tensor.Int32, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedDType, dtype)
	}
}
