package bencode

import "bytes"

// nullEntry is written for an absent slot. It is the encoding of an
// empty string, so absent and empty are indistinguishable once decoded.
var nullEntry = []byte("0:")

// Write encodes item to sink. A nil item writes an absent slot.
func Write(sink Sink, item Item) error {
	if item == nil {
		return writeAll(sink, nullEntry)
	}
	return item.Encode(sink)
}

// Encode returns the bencode form of item.
func Encode(item Item) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, item); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *String) Encode(sink Sink) error {
	if err := writeAll(sink, []byte(FormatInt(int64(len(s.Value)), 10))); err != nil {
		return err
	}
	if err := sink.WriteByte(':'); err != nil {
		return err
	}
	return writeAll(sink, s.Value)
}

func (n *Integer) Encode(sink Sink) error {
	if err := sink.WriteByte('i'); err != nil {
		return err
	}
	if err := writeAll(sink, []byte(FormatInt(n.Value, 10))); err != nil {
		return err
	}
	return sink.WriteByte('e')
}

func (l *List) Encode(sink Sink) error {
	if err := sink.WriteByte('l'); err != nil {
		return err
	}
	for _, item := range l.items {
		if err := Write(sink, item); err != nil {
			return err
		}
	}
	return sink.WriteByte('e')
}

// Encode writes pairs in stored order, which is already sorted.
func (d *Dictionary) Encode(sink Sink) error {
	if err := sink.WriteByte('d'); err != nil {
		return err
	}
	for _, e := range d.entries {
		if err := Write(sink, e.key); err != nil {
			return err
		}
		if err := Write(sink, e.value); err != nil {
			return err
		}
	}
	return sink.WriteByte('e')
}
