package dcel

import "iter"

// handle addresses a slot in an arena. A generation of zero is never issued,
// so the zero handle is the nil reference.
type handle struct {
	idx int32
	gen uint32
}

type slot[T any] struct {
	item *T
	gen  uint32
}

// arena stores items behind stable handles. Slots are appended and never
// reused; a removed slot keeps its position so iteration order stays the
// order of creation. Every handle the arena issues carries a generation
// drawn from a counter that only grows, so a handle that outlives its item,
// or the numbering it was issued under, fails lookup instead of aliasing.
type arena[T any] struct {
	slots []slot[T]
	live  int
	gen   uint32
}

func (a *arena[T]) add(item *T) handle {
	a.gen++
	a.slots = append(a.slots, slot[T]{item: item, gen: a.gen})
	a.live++
	return handle{idx: int32(len(a.slots) - 1), gen: a.gen}
}

func (a *arena[T]) get(h handle) (*T, bool) {
	if h.gen == 0 || h.idx < 0 || int(h.idx) >= len(a.slots) {
		return nil, false
	}
	s := a.slots[h.idx]
	if s.item == nil || s.gen != h.gen {
		return nil, false
	}
	return s.item, true
}

func (a *arena[T]) remove(h handle) bool {
	if _, ok := a.get(h); !ok {
		return false
	}
	a.slots[h.idx].item = nil
	a.live--
	return true
}

// all yields live items in slot order. Items added during iteration are not
// visited; items removed before they are reached are skipped.
func (a *arena[T]) all() iter.Seq2[handle, *T] {
	return func(yield func(handle, *T) bool) {
		n := len(a.slots)
		for i := 0; i < n; i++ {
			s := a.slots[i]
			if s.item == nil {
				continue
			}
			if !yield(handle{idx: int32(i), gen: s.gen}, s.item) {
				return
			}
		}
	}
}

// move records where a live item went during compaction.
type move struct {
	from, to handle
}

// compact drops dead slots. Survivors keep their relative order, so the item
// at old index i lands at i minus the number of dead slots below i. Every
// survivor gets a fresh generation, which invalidates all old handles.
func (a *arena[T]) compact() []move {
	moves := make([]move, 0, a.live)
	slots := make([]slot[T], 0, a.live)
	for i, s := range a.slots {
		if s.item == nil {
			continue
		}
		a.gen++
		to := handle{idx: int32(len(slots)), gen: a.gen}
		moves = append(moves, move{from: handle{idx: int32(i), gen: s.gen}, to: to})
		slots = append(slots, slot[T]{item: s.item, gen: a.gen})
	}
	a.slots = slots
	return moves
}

// clone copies the arena with fresh item storage. Handles issued by a remain
// valid against the copy.
func (a *arena[T]) clone() arena[T] {
	c := arena[T]{
		slots: make([]slot[T], len(a.slots)),
		live:  a.live,
		gen:   a.gen,
	}
	for i, s := range a.slots {
		c.slots[i].gen = s.gen
		if s.item != nil {
			item := *s.item
			c.slots[i].item = &item
		}
	}
	return c
}
