package bencode

import (
	"strconv"
)

// Type identifies the variant of an Item.
type Type int

const (
	TypeString Type = iota
	TypeInteger
	TypeList
	TypeDictionary
	// TypeInvalid is reported for an absent slot.
	TypeInvalid
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeList:
		return "list"
	case TypeDictionary:
		return "dictionary"
	default:
		return "invalid"
	}
}

// Item is a node of a decoded bencode tree. The concrete types are
// *String, *Integer, *List and *Dictionary; a nil Item stands for an
// absent slot and behaves like an empty string on the wire and in
// comparisons.
//
// Containers own their children. An Item handed to a container must
// not be stored anywhere else afterwards; use Clone to share a value.
type Item interface {
	Type() Type
	// ComponentCount and Component expose the flattened leaf strings
	// that define the ordering between Items.
	ComponentCount() int
	Component(index int) []byte
	// Encode writes the bencode form of the Item to sink.
	Encode(sink Sink) error
	// Clone returns a deep copy sharing no nodes with the receiver.
	Clone() Item
	// Display renders the Item for humans. It is not the wire format.
	Display() string

	appendComponents(dst [][]byte) [][]byte
}

// String is a raw byte string. It need not be valid UTF-8.
type String struct {
	Value []byte
}

// NewString returns a String holding s.
func NewString(s string) *String {
	return &String{Value: []byte(s)}
}

// NewBytes returns a String holding a copy of b.
func NewBytes(b []byte) *String {
	return &String{Value: append([]byte(nil), b...)}
}

func (s *String) Type() Type { return TypeString }

func (s *String) ComponentCount() int { return 1 }

func (s *String) Component(index int) []byte {
	if index != 0 {
		return nil
	}
	return s.Value
}

func (s *String) appendComponents(dst [][]byte) [][]byte {
	return append(dst, s.Value)
}

func (s *String) Clone() Item {
	return NewBytes(s.Value)
}

func (s *String) Display() string {
	return strconv.Quote(string(s.Value))
}

// Integer is a signed 64-bit integer.
type Integer struct {
	Value int64
}

// NewInteger returns an Integer holding v.
func NewInteger(v int64) *Integer {
	return &Integer{Value: v}
}

func (n *Integer) Type() Type { return TypeInteger }

func (n *Integer) ComponentCount() int { return 1 }

func (n *Integer) Component(index int) []byte {
	if index != 0 {
		return nil
	}
	return []byte(FormatInt(n.Value, 10))
}

func (n *Integer) appendComponents(dst [][]byte) [][]byte {
	return append(dst, []byte(FormatInt(n.Value, 10)))
}

func (n *Integer) Clone() Item {
	return NewInteger(n.Value)
}

func (n *Integer) Display() string {
	return FormatInt(n.Value, 10)
}

// TypeOf returns the type of item, or TypeInvalid for an absent slot.
func TypeOf(item Item) Type {
	if item == nil {
		return TypeInvalid
	}
	return item.Type()
}

// Clone deep-copies item. Cloning an absent slot yields nil.
func Clone(item Item) Item {
	if item == nil {
		return nil
	}
	return item.Clone()
}

// Display renders item, printing an absent slot as [NULL].
func Display(item Item) string {
	if item == nil {
		return "[NULL]"
	}
	return item.Display()
}

const digits = "0123456789abcdef"

// FormatInt renders v in the given base, 2 through 16, with lowercase
// digits and a leading '-' for negative values. Any other base yields
// the empty string.
func FormatInt(v int64, base int) string {
	if base < 2 || base > 16 {
		return ""
	}
	var buf [65]byte
	i := len(buf)
	q := v
	for {
		d := q % int64(base)
		if d < 0 {
			d = -d
		}
		i--
		buf[i] = digits[d]
		q /= int64(base)
		if q == 0 {
			break
		}
	}
	if v < 0 {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
