package bus

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/frame"
	"github.com/hupe1980/sframe/index"
	"github.com/hupe1980/sframe/resource"
)

// slot is the per-name state of a bus. Slots are addressed by the name's
// position in the bus index.
type slot struct {
	name   index.Label
	frame  *frame.Frame // nil while not resident
	shape  core.Shape
	known  bool  // shape has been observed
	nbytes int64 // memory reserved for frame
	elem   *list.Element
}

// Status describes one entry of a bus or yarn.
type Status struct {
	Name   index.Label
	Loaded bool
	// Shape is nil until the frame has been loaded once, unless the shape
	// was recorded when the bus was persisted.
	Shape *core.Shape
	// NBytes is the estimated size of the resident frame, 0 when unloaded.
	NBytes int
}

// Bus is a collection of named frames with bounded residency.
type Bus struct {
	mu          sync.Mutex
	name        index.Label
	names       *index.Level
	slots       []slot
	recency     *list.List // front is most recently used; values are slot positions
	maxResident int        // 0 is unbounded
	source      Source
	observer    Observer
	rc          *resource.Controller
	opts        options
}

// New creates a bus holding frames, keyed by their names. All frames are
// resident and there is no source, so WithMaxResident is rejected.
func New(frames []*frame.Frame, optFns ...Option) (*Bus, error) {
	opts := newOptions(optFns)
	if opts.err != nil {
		return nil, opts.err
	}
	if opts.maxResident > 0 {
		return nil, core.NewStructuralError("new bus", "max resident requires a source to reload evicted frames")
	}
	labels := make([]index.Label, len(frames))
	for i, f := range frames {
		if f == nil {
			return nil, core.NewStructuralError("new bus", "frame %d is nil", i)
		}
		labels[i] = f.Name()
	}
	names, err := index.New(labels)
	if err != nil {
		return nil, err
	}

	b := newBus(names, nil, opts)
	for i, f := range frames {
		nbytes := int64(f.NBytes())
		if !b.rc.TryAcquireMemory(nbytes) {
			b.releaseAll()
			return nil, fmt.Errorf("new bus: frame %s: %w", index.Format(labels[i]), resource.ErrMemoryLimit)
		}
		b.install(i, f, nbytes)
	}
	return b, nil
}

// NewLazy creates a bus whose frames are loaded from src on first access.
// Every entry starts unloaded with an unknown shape.
func NewLazy(names []index.Label, src Source, optFns ...Option) (*Bus, error) {
	if src == nil {
		return nil, core.NewStructuralError("new bus", "nil source")
	}
	opts := newOptions(optFns)
	if opts.err != nil {
		return nil, opts.err
	}
	lvl, err := index.New(names)
	if err != nil {
		return nil, err
	}
	return newBus(lvl, src, opts), nil
}

func newBus(names *index.Level, src Source, opts options) *Bus {
	b := &Bus{
		name:        opts.name,
		names:       names,
		slots:       make([]slot, names.Len()),
		recency:     list.New(),
		maxResident: opts.maxResident,
		source:      src,
		observer:    opts.observer,
		rc:          opts.rc,
		opts:        opts,
	}
	for i := range b.slots {
		b.slots[i].name = names.Label(i)
	}
	return b
}

// Name returns the bus name.
func (b *Bus) Name() index.Label { return b.name }

// Rename returns a bus with the given name over the same entries. A bus
// with a source starts with nothing resident and keeps known shapes; a bus
// without one shares its frames. A BusObserver is rebound to the new name.
func (b *Bus) Rename(name index.Label) *Bus {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := newBus(b.names, b.source, b.opts)
	out.name = index.Normalize(name)
	if bo, ok := b.observer.(BusObserver); ok {
		out.observer = bo.ForBus(out.name)
	}
	for i, s := range b.slots {
		out.slots[i].shape = s.shape
		out.slots[i].known = s.known
	}
	if b.source == nil {
		// Frames stay accounted to b.
		out.rc = nil
		for e := b.recency.Back(); e != nil; e = e.Prev() {
			pos := e.Value.(int)
			out.install(pos, b.slots[pos].frame, 0)
		}
	}
	return out
}

// Index returns the name index.
func (b *Bus) Index() *index.Level { return b.names }

// MaxResident returns the residency bound, 0 when unbounded.
func (b *Bus) MaxResident() int { return b.maxResident }

// Len returns the number of entries.
func (b *Bus) Len() int { return len(b.slots) }

// Keys returns the entry names in order.
func (b *Bus) Keys() []index.Label {
	return append([]index.Label(nil), b.names.Labels()...)
}

// Contains reports whether name is an entry of the bus.
func (b *Bus) Contains(name index.Label) bool { return b.names.Contains(name) }

// Get returns the frame stored under name, loading it if necessary.
func (b *Bus) Get(ctx context.Context, name index.Label) (*frame.Frame, error) {
	pos, err := b.names.Position(name)
	if err != nil {
		return nil, err
	}
	return b.getAt(ctx, pos)
}

func (b *Bus) getAt(ctx context.Context, pos int) (*frame.Frame, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &b.slots[pos]
	if s.frame != nil {
		b.recency.MoveToFront(s.elem)
		b.observer.OnHit(s.name)
		return s.frame, nil
	}

	start := time.Now()
	f, err := b.source.Load(ctx, s.name)
	if err != nil {
		b.observer.OnLoad(s.name, time.Since(start), 0, err)
		return nil, fmt.Errorf("bus: load %s: %w", index.Format(s.name), err)
	}
	nbytes := int64(f.NBytes())
	if err := b.reserve(nbytes); err != nil {
		b.observer.OnLoad(s.name, time.Since(start), int(nbytes), err)
		return nil, fmt.Errorf("bus: load %s: %w", index.Format(s.name), err)
	}
	b.install(pos, f, nbytes)
	b.observer.OnLoad(s.name, time.Since(start), int(nbytes), nil)

	if b.maxResident > 0 {
		// The loaded slot is at the front, so the back is always another one.
		for b.recency.Len() > b.maxResident {
			b.evict(b.recency.Back().Value.(int))
		}
	}
	return f, nil
}

// reserve takes nbytes from the memory budget, evicting least recently used
// frames while it does not fit.
func (b *Bus) reserve(nbytes int64) error {
	for !b.rc.TryAcquireMemory(nbytes) {
		back := b.recency.Back()
		if back == nil || b.source == nil {
			return resource.ErrMemoryLimit
		}
		b.evict(back.Value.(int))
	}
	return nil
}

func (b *Bus) install(pos int, f *frame.Frame, nbytes int64) {
	s := &b.slots[pos]
	s.frame = f
	s.shape = f.Shape()
	s.known = true
	s.nbytes = nbytes
	s.elem = b.recency.PushFront(pos)
}

func (b *Bus) evict(pos int) {
	s := &b.slots[pos]
	b.recency.Remove(s.elem)
	b.rc.ReleaseMemory(s.nbytes)
	s.frame = nil
	s.elem = nil
	s.nbytes = 0
	b.observer.OnEvict(s.name)
}

func (b *Bus) releaseAll() {
	for e := b.recency.Front(); e != nil; e = e.Next() {
		b.rc.ReleaseMemory(b.slots[e.Value.(int)].nbytes)
	}
}

// Status reports residency and shape for every entry without loading or
// evicting anything.
func (b *Bus) Status() []Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Status, len(b.slots))
	for i := range b.slots {
		out[i] = b.statusAt(i)
	}
	return out
}

func (b *Bus) statusAt(pos int) Status {
	s := &b.slots[pos]
	st := Status{Name: s.name, Loaded: s.frame != nil}
	if s.known {
		shape := s.shape
		st.Shape = &shape
	}
	if s.frame != nil {
		st.NBytes = s.frame.NBytes()
	}
	return st
}

// Loaded returns the number of resident frames.
func (b *Bus) Loaded() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recency.Len()
}

// NBytes returns the estimated size of all resident frames.
func (b *Bus) NBytes() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := 0
	for e := b.recency.Front(); e != nil; e = e.Next() {
		total += b.slots[e.Value.(int)].frame.NBytes()
	}
	return total
}

// Items calls fn for every entry in order, loading each frame through Get.
// Iteration stops at the first error.
func (b *Bus) Items(ctx context.Context, fn func(name index.Label, f *frame.Frame) error) error {
	for pos := range b.slots {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := b.getAt(ctx, pos)
		if err != nil {
			return err
		}
		if err := fn(b.slots[pos].name, f); err != nil {
			return err
		}
	}
	return nil
}

// Unpersist releases every resident frame of a bus that has a source.
// Shapes stay known. Without a source it does nothing.
func (b *Bus) Unpersist() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.source == nil {
		return
	}
	for b.recency.Len() > 0 {
		b.evict(b.recency.Back().Value.(int))
	}
}

// String renders a short description.
func (b *Bus) String() string {
	return fmt.Sprintf("Bus(%s, %d frames, %d loaded)", index.Format(b.name), len(b.slots), b.Loaded())
}
