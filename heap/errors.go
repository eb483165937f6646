package heap

import "errors"

var (
	// ErrHeapTooSmall indicates the configured heap cannot hold even one empty block.
	ErrHeapTooSmall = errors.New("heap: size too small for a block overhead")

	// ErrNoSpace indicates that no available block is large enough for the request.
	ErrNoSpace = errors.New("heap: no available block large enough")

	// ErrBaseAddress indicates the region could not be reserved at the configured base address.
	ErrBaseAddress = errors.New("heap: region not placed at requested base address")

	// ErrBadConfig indicates a malformed configuration value.
	ErrBadConfig = errors.New("heap: bad configuration")

	// ErrClosed indicates an operation on a heap that has been torn down.
	ErrClosed = errors.New("heap: closed")

	// ErrBadSize indicates a negative request size or one that overflows with block overhead.
	ErrBadSize = errors.New("heap: invalid request size")
)
