package bencode

// Slot addresses one owning position inside a List (by index) or a
// Dictionary (by key). Assigning through a Slot replaces whatever the
// position held before.
type Slot struct {
	list  *List
	index int

	dict *Dictionary
	key  Item
}

// Get returns the current occupant, nil when absent. A dictionary slot
// whose pair has since been removed reads as absent.
func (s Slot) Get() Item {
	if s.list != nil {
		return s.list.Get(s.index)
	}
	value, _ := s.dict.Get(s.key)
	return value
}

// Absent reports whether the slot holds no Item.
func (s Slot) Absent() bool {
	return s.Get() == nil
}

// Set adopts item into the slot. A dictionary slot whose pair was
// removed is recreated.
func (s Slot) Set(item Item) {
	if s.list != nil {
		s.list.Set(s.index, item)
		return
	}
	s.dict.Set(s.key, item)
}

func (s Slot) SetString(value string) {
	s.Set(NewString(value))
}

func (s Slot) SetBytes(value []byte) {
	s.Set(NewBytes(value))
}

func (s Slot) SetInt(value int64) {
	s.Set(NewInteger(value))
}
