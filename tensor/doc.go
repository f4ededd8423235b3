// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense tensor container used to exchange batches,
// descriptors and random material with the cbpkrp engines.
//
// # Overview
//
// A RawTensor is a contiguous row-major buffer with a Shape and a DataType.
// Two data types are supported:
//   - Float32 for feature maps, descriptors and pool vectors
//   - Int32 for index tables
//
// # Basic Usage
//
//	import "github.com/born-ml/cbpkrp/tensor"
//
//	func main() {
//	    // A batch of 2 feature maps with 512 channels on a 14x14 grid.
//	    batch, _ := tensor.NewRaw(tensor.Shape{2, 512, 14, 14}, tensor.Float32)
//	    data := batch.AsFloat32() // Zero-copy view, layout (N, C, H, W)
//	    data[0] = 1
//	}
//
// # Memory
//
// FromFloat32 and FromInt32 copy their input. AsFloat32 and AsInt32 return
// views of the tensor's own buffer. Clone makes a deep copy.
package tensor
