package bencode

import (
	"iter"
	"strings"
)

// List is an ordered sequence of slots. A slot may be absent (nil).
type List struct {
	items []Item
}

// NewList returns a List adopting items in order.
func NewList(items ...Item) *List {
	l := &List{items: make([]Item, 0, len(items))}
	l.items = append(l.items, items...)
	return l
}

func (l *List) Type() Type { return TypeList }

// Len returns the number of slots, absent ones included.
func (l *List) Len() int { return len(l.items) }

// extend grows the list with absent slots until index is valid.
func (l *List) extend(index int) {
	for len(l.items) <= index {
		l.items = append(l.items, nil)
	}
}

// Get returns the item at index. Reading past the end extends the
// list with absent slots up to and including index. A negative index
// reads as absent.
func (l *List) Get(index int) Item {
	if index < 0 {
		return nil
	}
	l.extend(index)
	return l.items[index]
}

// Slot returns a handle on the slot at index, extending the list like
// Get does. A slot at a negative index is always absent and ignores
// assignment.
func (l *List) Slot(index int) Slot {
	if index >= 0 {
		l.extend(index)
	}
	return Slot{list: l, index: index}
}

// Set stores item at index, extending the list if needed. The previous
// occupant is dropped. A negative index leaves the list unchanged.
func (l *List) Set(index int, item Item) {
	if index < 0 {
		return
	}
	l.extend(index)
	l.items[index] = item
}

func (l *List) SetString(index int, value string) {
	l.Set(index, NewString(value))
}

func (l *List) SetInt(index int, value int64) {
	l.Set(index, NewInteger(value))
}

// Insert adopts item at position before, shifting later slots up.
// A position past the end extends the list first; a negative one
// inserts at the front.
func (l *List) Insert(before int, item Item) {
	before = max(before, 0)
	if before > len(l.items) {
		l.extend(before - 1)
	}
	l.items = append(l.items, nil)
	copy(l.items[before+1:], l.items[before:])
	l.items[before] = item
}

func (l *List) InsertString(before int, value string) {
	l.Insert(before, NewString(value))
}

func (l *List) InsertInt(before int, value int64) {
	l.Insert(before, NewInteger(value))
}

// Remove takes the item at index out of the list and returns it. An
// index out of range leaves the list unchanged and returns nil.
func (l *List) Remove(index int) Item {
	if index < 0 || index >= len(l.items) {
		return nil
	}
	item := l.items[index]
	copy(l.items[index:], l.items[index+1:])
	l.items[len(l.items)-1] = nil
	l.items = l.items[:len(l.items)-1]
	return item
}

// Push appends item.
func (l *List) Push(item Item) {
	l.items = append(l.items, item)
}

func (l *List) PushString(value string) {
	l.Push(NewString(value))
}

func (l *List) PushInt(value int64) {
	l.Push(NewInteger(value))
}

// Pop removes and returns the last item, or nil when the list is empty.
func (l *List) Pop() Item {
	return l.Remove(len(l.items) - 1)
}

// All iterates over index and item pairs without extending the list.
func (l *List) All() iter.Seq2[int, Item] {
	return func(yield func(int, Item) bool) {
		for i, item := range l.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

func (l *List) ComponentCount() int {
	count := 0
	for _, item := range l.items {
		count += componentCount(item)
	}
	return count
}

func (l *List) Component(index int) []byte {
	for _, item := range l.items {
		n := componentCount(item)
		if index < n {
			return component(item, index)
		}
		index -= n
	}
	return nil
}

func (l *List) appendComponents(dst [][]byte) [][]byte {
	for _, item := range l.items {
		dst = components(item, dst)
	}
	return dst
}

func (l *List) Clone() Item {
	clone := &List{items: make([]Item, len(l.items))}
	for i, item := range l.items {
		clone.items[i] = Clone(item)
	}
	return clone
}

func (l *List) Display() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range l.items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Display(item))
	}
	b.WriteByte(']')
	return b.String()
}
