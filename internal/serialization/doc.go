// Package serialization reads and writes SafeTensors files, the interchange
// format for random projection material.
//
//	Format Structure:
//	  [8 bytes: header size (uint64 LE)]
//	  [header: JSON, tensor name -> {dtype, shape, data_offsets}, plus "__metadata__"]
//	  [tensor data: raw little-endian bytes, tensors in alphabetical order]
//
// Example usage:
//
//	err := serialization.WriteSafeTensors("material.safetensors", map[string]*tensor.RawTensor{
//	    "pool": pool,
//	}, map[string]string{"sparsity": "8"})
//
//	reader, err := serialization.NewSafeTensorsReader("material.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reader.Close()
//	pool, err := reader.LoadTensor("pool")
package serialization
