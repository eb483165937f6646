//go:build linux || darwin

// Package mmregion acquires and releases the single anonymous memory region a
// heap manages.
package mmregion

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// FixedAddress reports whether Map honors address hints on this platform.
const FixedAddress = true

// Map reserves size bytes of private, zero-filled, read-write memory. A
// non-zero addr is passed to the kernel as the preferred base address; the
// kernel may place the mapping elsewhere, so callers that need the exact
// address must compare it with the returned slice.
//
// The returned release function unmaps the region. Calling it more than once
// is a no-op.
func Map(size int, addr uintptr) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmregion: invalid size %d", size)
	}

	ptr, err := unix.MmapPtr(
		-1,
		0,
		unsafe.Pointer(addr), //nolint:govet // address hint, never dereferenced
		uintptr(size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("mmregion: mmap %d bytes: %w", size, err)
	}
	data := unsafe.Slice((*byte)(ptr), size)

	release := func() error {
		if ptr == nil {
			return nil
		}
		err := unix.MunmapPtr(ptr, uintptr(size))
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			err = nil
		}
		ptr = nil
		return err
	}
	return data, release, nil
}

// Addr returns the address of the first byte of region, or 0 for an empty region.
func Addr(region []byte) uintptr {
	if len(region) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(region)))
}
