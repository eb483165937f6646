// Package buf contains overflow-safe arithmetic and range helpers for sizing
// blocks inside a heap region.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// CheckSpan validates that n bytes starting at off fit inside a region of
// regionLen bytes. It returns the exclusive end offset on success.
//
//	end, err := buf.CheckSpan(len(mem), off, format.HeaderSize)
//	if err != nil {
//	    return fmt.Errorf("header: %w", err)
//	}
func CheckSpan(regionLen, off, n int) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset: %d", off)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative length: %d", n)
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + length=%d", off, n)
	}
	if end > regionLen {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", end, regionLen)
	}
	return end, nil
}

// Has reports whether [off, off+n) lies within a region of regionLen bytes.
func Has(regionLen, off, n int) bool {
	_, err := CheckSpan(regionLen, off, n)
	return err == nil
}
