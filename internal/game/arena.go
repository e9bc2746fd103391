package game

// Handle is a generational reference into an Arena. The low 32 bits hold the
// slot index, the high 32 bits the slot generation. The zero Handle never
// resolves.
type Handle uint64

func makeHandle(index, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(index))
}

func (h Handle) index() uint32 { return uint32(h) }
func (h Handle) gen() uint32   { return uint32(h >> 32) }

type arenaSlot[T any] struct {
	gen  uint32
	used bool
	val  T
}

// Arena is a slot map with stable handles. Released slots go onto a free list
// and are handed out again with a bumped generation, so a stale handle to a
// recycled slot fails to resolve instead of aliasing the new occupant.
type Arena[T any] struct {
	slots []arenaSlot[T]
	free  []uint32
	live  int
}

// NewArena creates an empty arena with room for capacity entries.
func NewArena[T any](capacity int) *Arena[T] {
	return &Arena[T]{slots: make([]arenaSlot[T], 0, capacity)}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, arenaSlot[T]{})
	}
	s := &a.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1 // generation 0 is reserved for the zero Handle
	}
	s.used = true
	s.val = v
	a.live++
	return makeHandle(idx, s.gen)
}

// Get resolves h. ok is false for the zero handle, released slots and stale
// generations.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	var zero T
	idx := h.index()
	if h == 0 || int(idx) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[idx]
	if !s.used || s.gen != h.gen() {
		return zero, false
	}
	return s.val, true
}

// Release frees the slot behind h. Returns false if h did not resolve.
func (a *Arena[T]) Release(h Handle) bool {
	if _, ok := a.Get(h); !ok {
		return false
	}
	var zero T
	s := &a.slots[h.index()]
	s.used = false
	s.val = zero
	a.free = append(a.free, h.index())
	a.live--
	return true
}

// Len returns the number of occupied slots.
func (a *Arena[T]) Len() int { return a.live }

// Reset drops every entry. Generations are kept so handles issued before the
// reset stay unresolvable.
func (a *Arena[T]) Reset() {
	var zero T
	a.free = a.free[:0]
	for i := len(a.slots) - 1; i >= 0; i-- {
		a.slots[i].used = false
		a.slots[i].val = zero
		a.free = append(a.free, uint32(i))
	}
	a.live = 0
}
