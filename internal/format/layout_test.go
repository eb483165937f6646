package format

import "testing"

func TestOverheadMatchesRecords(t *testing.T) {
	if Overhead != 40 {
		t.Fatalf("Overhead = %d, want 40", Overhead)
	}
	if HeaderPrevOffset+8 != HeaderSize {
		t.Fatalf("header fields end at %d, header is %d bytes", HeaderPrevOffset+8, HeaderSize)
	}
	if FooterSizeOffset+8 != FooterSize {
		t.Fatalf("footer fields end at %d, footer is %d bytes", FooterSizeOffset+8, FooterSize)
	}
}

func TestEncodingUnaligned(t *testing.T) {
	b := make([]byte, 32)

	// Headers land on odd offsets whenever a payload size is odd.
	PutI64(b, 3, -42)
	if got := ReadI64(b, 3); got != -42 {
		t.Fatalf("ReadI64 = %d, want -42", got)
	}

	PutU64(b, 17, 0x0123456789abcdef)
	if got := ReadU64(b, 17); got != 0x0123456789abcdef {
		t.Fatalf("ReadU64 = 0x%x, want 0x0123456789abcdef", got)
	}
	if b[17] != 0xef || b[24] != 0x01 {
		t.Fatalf("expected little-endian byte order, got % x", b[17:25])
	}
}
