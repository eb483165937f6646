package trace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"unsafe"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	// ErrUnknownName indicates a free of a name with no live payload.
	ErrUnknownName = errors.New("trace: name not allocated")

	// ErrNameInUse indicates an alloc to a name that still holds a payload.
	ErrNameInUse = errors.New("trace: name already allocated")
)

// Event describes one executed operation.
type Event struct {
	Op   Op
	Addr uintptr // payload address of a successful alloc or free
	Err  error   // ErrNoSpace for a failed alloc; nil otherwise
}

// Options controls a Runner.
type Options struct {
	// CheckEach validates the heap after every operation.
	CheckEach bool

	// OnEvent observes every alloc and free.
	OnEvent func(Event)

	// OnPrint handles print operations. Nil ignores them.
	OnPrint func(*heap.Heap) error

	// Logger receives one debug record per operation. Nil selects logger.L.
	Logger *slog.Logger
}

// Result summarizes a replay.
type Result struct {
	Ops          int      `json:"ops"`
	Allocs       int      `json:"allocs"`
	FailedAllocs int      `json:"failed_allocs"`
	Frees        int      `json:"frees"`
	Checks       int      `json:"checks"`
	Live         []string `json:"live"`
}

// Runner replays scripts against one heap, keeping the name bindings
// between calls to Run.
type Runner struct {
	h    *heap.Heap
	opts Options
	live map[string][]byte
	log  *slog.Logger
}

// NewRunner returns a Runner over h.
func NewRunner(h *heap.Heap, opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = logger.L
	}
	return &Runner{
		h:    h,
		opts: opts,
		live: make(map[string][]byte),
		log:  log,
	}
}

// Run executes ops in order. A failed alloc is reported through OnEvent and
// counted, not returned. Freeing an unbound name, rebinding a live name and
// a failed check stop the replay with an error naming the script line.
func (r *Runner) Run(ctx context.Context, ops []Op) (Result, error) {
	var res Result
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return r.finish(res), err
		}
		if err := r.step(op, &res); err != nil {
			return r.finish(res), fmt.Errorf("line %d (%s): %w", op.Line, op, err)
		}
		res.Ops++

		if r.opts.CheckEach && op.Kind != KindCheck {
			res.Checks++
			if err := verify.AllInvariants(r.h); err != nil {
				return r.finish(res), fmt.Errorf("line %d (%s): %w", op.Line, op, err)
			}
		}
	}
	return r.finish(res), nil
}

// Release frees every payload still bound to a name.
func (r *Runner) Release() {
	for name, p := range r.live {
		r.h.Free(p)
		delete(r.live, name)
	}
}

func (r *Runner) step(op Op, res *Result) error {
	r.log.Debug("trace op", "line", op.Line, "op", op.Kind.String(), "name", op.Name, "size", op.Size)

	switch op.Kind {
	case KindAlloc:
		if _, ok := r.live[op.Name]; ok {
			return ErrNameInUse
		}
		res.Allocs++
		p, err := r.h.Alloc(op.Size)
		if err != nil {
			if !errors.Is(err, heap.ErrNoSpace) {
				return err
			}
			res.FailedAllocs++
			r.emit(Event{Op: op, Err: err})
			return nil
		}
		r.live[op.Name] = p
		r.emit(Event{Op: op, Addr: addrOf(p)})

	case KindFree:
		p, ok := r.live[op.Name]
		if !ok {
			return ErrUnknownName
		}
		delete(r.live, op.Name)
		r.h.Free(p)
		res.Frees++
		r.emit(Event{Op: op, Addr: addrOf(p)})

	case KindPrint:
		if r.opts.OnPrint != nil {
			return r.opts.OnPrint(r.h)
		}

	case KindCheck:
		res.Checks++
		return verify.AllInvariants(r.h)

	default:
		return fmt.Errorf("unsupported operation %v", op.Kind)
	}
	return nil
}

func (r *Runner) emit(ev Event) {
	if r.opts.OnEvent != nil {
		r.opts.OnEvent(ev)
	}
}

func (r *Runner) finish(res Result) Result {
	res.Live = make([]string, 0, len(r.live))
	for name := range r.live {
		res.Live = append(res.Live, name)
	}
	sort.Strings(res.Live)
	return res
}

func addrOf(p []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(p)))
}
