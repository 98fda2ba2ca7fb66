// Package serialization stores layer state dicts in the SafeTensors format.
//
// SafeTensors is a flat, alignment-free container:
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON object, tensor name -> {dtype, shape, data_offsets}]
//	  [Tensor data: raw little-endian bytes, tensors in name order]
//
// Supported dtypes are F32, F64, C64 and C128, which cover real biases and
// complex spectral weights. The writer records a SHA-256 of the data section
// in the "sha256" metadata entry; the reader verifies it when present.
//
// Example usage:
//
//	// Save a layer
//	err := serialization.WriteSafeTensors("conv.safetensors", conv.StateDict(), nil)
//
//	// Load it back
//	state, metadata, err := serialization.ReadSafeTensors("conv.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = conv.LoadStateDict(state)
package serialization
