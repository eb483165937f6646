package format

import "encoding/binary"

// Fixed-width little-endian field access for block headers and footers.
//
// Headers may start at any byte offset because payload sizes are not rounded,
// so every accessor goes through encoding/binary rather than casting the
// region to a struct pointer.

// PutU64 writes v at b[off:off+8].
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// PutI64 writes v at b[off:off+8].
func PutI64(b []byte, off int, v int64) {
	binary.LittleEndian.PutUint64(b[off:off+8], uint64(v))
}

// ReadU64 reads the uint64 at b[off:off+8].
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

// ReadI64 reads the int64 at b[off:off+8].
func ReadI64(b []byte, off int) int64 {
	return int64(binary.LittleEndian.Uint64(b[off : off+8]))
}
