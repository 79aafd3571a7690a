package bencode

import (
	"iter"
	"sort"
	"strings"
)

type entry struct {
	key   Item
	value Item
}

// Dictionary holds key/value pairs sorted ascending by key under
// Compare, with no two keys comparing equal. Keys may be any Item and
// either side of a pair may be absent.
//
// At and All hand out the stored key nodes. Mutating one of them, for
// example pushing onto a *List key, breaks the ordering and lookups
// silently. Keys yields copies for callers that need to keep or modify
// keys.
type Dictionary struct {
	entries []entry
}

// NewDictionary returns an empty Dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{}
}

func (d *Dictionary) Type() Type { return TypeDictionary }

// Len returns the number of pairs.
func (d *Dictionary) Len() int { return len(d.entries) }

// Find returns the position of key and whether it is present. When
// absent, the position is where key would be inserted.
func (d *Dictionary) Find(key Item) (int, bool) {
	i := sort.Search(len(d.entries), func(i int) bool {
		return Compare(d.entries[i].key, key) >= 0
	})
	return i, i < len(d.entries) && Equal(d.entries[i].key, key)
}

// Has reports whether key is present.
func (d *Dictionary) Has(key Item) bool {
	_, ok := d.Find(key)
	return ok
}

func (d *Dictionary) HasString(key string) bool {
	return d.Has(NewString(key))
}

// Get returns the value stored under key without inserting anything.
// A present key with an absent value returns (nil, true).
func (d *Dictionary) Get(key Item) (Item, bool) {
	i, ok := d.Find(key)
	if !ok {
		return nil, false
	}
	return d.entries[i].value, true
}

func (d *Dictionary) GetString(key string) (Item, bool) {
	return d.Get(NewString(key))
}

// getOrInsert returns the position of key, inserting a pair holding a
// clone of key and an absent value when it is missing.
func (d *Dictionary) getOrInsert(key Item) int {
	i, ok := d.Find(key)
	if !ok {
		d.entries = append(d.entries, entry{})
		copy(d.entries[i+1:], d.entries[i:])
		d.entries[i] = entry{key: Clone(key)}
	}
	return i
}

// adopt stores value under key, taking ownership of key itself rather
// than a clone. Used by the decoder, which owns the keys it builds.
func (d *Dictionary) adopt(key, value Item) {
	i, ok := d.Find(key)
	if ok {
		d.entries[i].value = value
		return
	}
	d.entries = append(d.entries, entry{})
	copy(d.entries[i+1:], d.entries[i:])
	d.entries[i] = entry{key: key, value: value}
}

// Slot returns a handle on the value stored under key, creating the
// pair with an absent value if key is missing.
func (d *Dictionary) Slot(key Item) Slot {
	i := d.getOrInsert(key)
	return Slot{dict: d, key: d.entries[i].key}
}

func (d *Dictionary) SlotString(key string) Slot {
	return d.Slot(NewString(key))
}

// Set adopts value under a clone of key, dropping any previous value.
func (d *Dictionary) Set(key, value Item) {
	d.entries[d.getOrInsert(key)].value = value
}

func (d *Dictionary) SetString(key string, value Item) {
	d.Set(NewString(key), value)
}

// Remove deletes the pair for key and returns its value. A missing key
// returns nil and changes nothing.
func (d *Dictionary) Remove(key Item) Item {
	i, ok := d.Find(key)
	if !ok {
		return nil
	}
	value := d.entries[i].value
	copy(d.entries[i:], d.entries[i+1:])
	d.entries[len(d.entries)-1] = entry{}
	d.entries = d.entries[:len(d.entries)-1]
	return value
}

func (d *Dictionary) RemoveString(key string) Item {
	return d.Remove(NewString(key))
}

// At returns the pair at position i in key order. The returned key is
// owned by the dictionary and must not be modified.
func (d *Dictionary) At(i int) (key, value Item) {
	e := d.entries[i]
	return e.key, e.value
}

// Keys iterates over copies of the keys in ascending order.
func (d *Dictionary) Keys() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for _, e := range d.entries {
			if !yield(Clone(e.key)) {
				return
			}
		}
	}
}

// All iterates over pairs in ascending key order.
func (d *Dictionary) All() iter.Seq2[Item, Item] {
	return func(yield func(Item, Item) bool) {
		for _, e := range d.entries {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

func (d *Dictionary) ComponentCount() int {
	count := 0
	for _, e := range d.entries {
		count += componentCount(e.key) + componentCount(e.value)
	}
	return count
}

func (d *Dictionary) Component(index int) []byte {
	for _, e := range d.entries {
		n := componentCount(e.key)
		if index < n {
			return component(e.key, index)
		}
		index -= n
		n = componentCount(e.value)
		if index < n {
			return component(e.value, index)
		}
		index -= n
	}
	return nil
}

func (d *Dictionary) appendComponents(dst [][]byte) [][]byte {
	for _, e := range d.entries {
		dst = components(e.key, dst)
		dst = components(e.value, dst)
	}
	return dst
}

// Clone copies pairs in stored order; the copy is already sorted.
func (d *Dictionary) Clone() Item {
	clone := &Dictionary{entries: make([]entry, len(d.entries))}
	for i, e := range d.entries {
		clone.entries[i] = entry{key: Clone(e.key), value: Clone(e.value)}
	}
	return clone
}

func (d *Dictionary) Display() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range d.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Display(e.key))
		b.WriteByte(':')
		b.WriteString(Display(e.value))
	}
	b.WriteByte('}')
	return b.String()
}
