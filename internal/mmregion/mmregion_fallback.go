//go:build !linux && !darwin

// Package mmregion acquires and releases the single anonymous memory region a
// heap manages.
package mmregion

import (
	"fmt"
	"unsafe"
)

// FixedAddress reports whether Map honors address hints on this platform.
const FixedAddress = false

// Map allocates size bytes from the Go heap when anonymous mappings are not
// available. The address hint is ignored.
func Map(size int, _ uintptr) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmregion: invalid size %d", size)
	}
	data := make([]byte, size)
	return data, func() error { return nil }, nil
}

// Addr returns the address of the first byte of region, or 0 for an empty region.
func Addr(region []byte) uintptr {
	if len(region) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(region)))
}
