// Package trace parses and replays allocation trace scripts.
//
// A script is line oriented. Blank lines and lines starting with # are
// ignored; every other line is one operation:
//
//	alloc <name> <size>   allocate size bytes and bind the payload to name
//	free <name>           release the payload bound to name
//	print                 emit a statistics report
//	check                 validate every heap invariant
//
// Sizes are decimal byte counts and may carry a unit ("64", "4KiB", "1k").
// Input is UTF-8 unless it starts with a UTF-16 or UTF-8 byte order mark.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// CommentPrefix starts a line that is skipped.
	CommentPrefix = "#"

	scannerInitialBufferSize = 4096
	scannerMaxLineSize       = 1 << 20
)

// Kind identifies a script operation.
type Kind int

const (
	KindAlloc Kind = iota + 1
	KindFree
	KindPrint
	KindCheck
)

var kindNames = map[Kind]string{
	KindAlloc: "alloc",
	KindFree:  "free",
	KindPrint: "print",
	KindCheck: "check",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Op is one parsed script line.
type Op struct {
	Kind Kind
	Name string // alloc, free
	Size int    // alloc
	Line int    // 1-based source line
}

func (o Op) String() string {
	switch o.Kind {
	case KindAlloc:
		return fmt.Sprintf("alloc %s %d", o.Name, o.Size)
	case KindFree:
		return "free " + o.Name
	default:
		return o.Kind.String()
	}
}

// ErrSyntax is wrapped by every ParseError.
var ErrSyntax = errors.New("trace: syntax error")

// ParseError reports a malformed script line.
type ParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

func (e *ParseError) Unwrap() error { return ErrSyntax }

// Parse reads a whole script.
func Parse(r io.Reader) ([]Op, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(r, decoder))
	scanner.Buffer(make([]byte, 0, scannerInitialBufferSize), scannerMaxLineSize)

	var ops []Op
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}
		op, err := parseLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning trace script: %w", err)
	}
	return ops, nil
}

// ParseFile reads the script at path.
func ParseFile(path string) ([]Op, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ops, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ops, nil
}

func parseLine(line string, lineNo int) (Op, error) {
	fields := strings.Fields(line)
	fail := func(msg string) (Op, error) {
		return Op{}, &ParseError{Line: lineNo, Text: line, Msg: msg}
	}

	switch fields[0] {
	case "alloc":
		if len(fields) != 3 {
			return fail("alloc takes a name and a size")
		}
		size, err := humanize.ParseBytes(fields[2])
		if err != nil {
			return fail("bad size")
		}
		if size > math.MaxInt {
			return fail("size too large")
		}
		return Op{Kind: KindAlloc, Name: fields[1], Size: int(size), Line: lineNo}, nil

	case "free":
		if len(fields) != 2 {
			return fail("free takes a name")
		}
		return Op{Kind: KindFree, Name: fields[1], Line: lineNo}, nil

	case "print", "check":
		if len(fields) != 1 {
			return fail(fields[0] + " takes no arguments")
		}
		kind := KindPrint
		if fields[0] == "check" {
			kind = KindCheck
		}
		return Op{Kind: kind, Line: lineNo}, nil

	default:
		return fail("unknown operation")
	}
}
