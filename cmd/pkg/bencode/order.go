package bencode

import "bytes"

// Every Item, absent slots included, flattens into a sequence of leaf
// byte strings. Two Items are ordered by comparing those sequences
// element by element; when one is a prefix of the other, the shorter
// sorts first. This gives a single total order across all variants,
// which dictionaries rely on to keep arbitrary keys sorted.

// components flattens item. An absent slot is one empty component.
func components(item Item, dst [][]byte) [][]byte {
	if item == nil {
		return append(dst, nil)
	}
	return item.appendComponents(dst)
}

// componentCount is the nil-safe form of Item.ComponentCount.
func componentCount(item Item) int {
	if item == nil {
		return 1
	}
	return item.ComponentCount()
}

// component is the nil-safe form of Item.Component.
func component(item Item, index int) []byte {
	if item == nil {
		return nil
	}
	return item.Component(index)
}

// Compare returns -1, 0 or +1 as a sorts before, equal to, or after b.
func Compare(a, b Item) int {
	if a == b {
		return 0
	}
	ca := components(a, nil)
	cb := components(b, nil)
	for i := range min(len(ca), len(cb)) {
		if c := bytes.Compare(ca[i], cb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(ca) < len(cb):
		return -1
	case len(ca) > len(cb):
		return 1
	}
	return 0
}

// Equal reports whether a and b compare equal. An absent slot equals
// an empty String.
func Equal(a, b Item) bool {
	return Compare(a, b) == 0
}

// Less reports whether a sorts before b.
func Less(a, b Item) bool {
	return Compare(a, b) < 0
}
