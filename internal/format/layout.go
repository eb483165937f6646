// Package format describes the in-region layout of heap blocks: the header and
// footer records written around every payload, their field offsets, and the
// state tags stored in headers. Nothing here touches a live heap; the heap
// package composes these helpers over its mapped region.
package format

// Block header layout (little-endian, 32 bytes):
//
//	Offset  Size  Description
//	0x00    8     State tag. Low byte holds one of the State* letters.
//	0x08    8     Payload size in bytes (excludes header and footer).
//	0x10    8     Next link (block handle). Meaningful only while listed.
//	0x18    8     Prev link (block handle). Meaningful only while listed.
//	0x20    ...   Payload.
//
// Block footer layout (little-endian, 8 bytes), immediately after the payload:
//
//	Offset  Size  Description
//	0x00    8     Payload size, mirroring the header.
const (
	HeaderStateOffset = 0x00
	HeaderSizeOffset  = 0x08
	HeaderNextOffset  = 0x10
	HeaderPrevOffset  = 0x18

	// HeaderSize is the number of bytes preceding every payload.
	HeaderSize = 0x20

	FooterSizeOffset = 0x00

	// FooterSize is the number of bytes following every payload.
	FooterSize = 0x08

	// Overhead is the fixed cost of one block beyond its payload.
	Overhead = HeaderSize + FooterSize
)

// State tags. The letters match the single-character codes printed in heap
// statistics reports.
const (
	StateAvailable byte = 'a'
	StateUsed      byte = 'u'
	StateBegin     byte = 'b'
	StateEnd       byte = 'e'
)

// Uninitialized is the size recorded in sentinel headers, which never carry
// a payload.
const Uninitialized = -1
