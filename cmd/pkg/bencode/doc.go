// Package bencode reads and writes the bencode format used by
// BitTorrent metainfo files and tracker responses.
//
// Decoded values form a tree of Items:
//
//   - *String: a raw byte string, "4:spam"
//   - *Integer: a signed 64-bit integer, "i-42e"
//   - *List: an ordered sequence, "l4:spam4:eggse"
//   - *Dictionary: key/value pairs kept sorted by key, "d3:cow3:mooe"
//
// Containers own their children, and a nil Item marks an absent slot,
// which encodes as "0:" just like an empty string.
//
// All Items share one total order (see Compare). It works by flattening
// each Item into leaf byte strings, and it lets a Dictionary hold keys
// of any type in a single sorted sequence. Because pairs are stored in
// that order, decoding and re-encoding a dictionary whose keys were out
// of order on the wire yields its canonical form.
//
// Decoding reads from a Source and encoding writes to a Sink:
//
//	item, n, err := bencode.Decode(data)
//	out, err := bencode.Encode(item)
//
//	dec := bencode.NewDecoder(bencode.NewReaderSource(file))
//	item, err := dec.Decode()
//
// A failed decode never returns a partial tree. Errors are
// *SyntaxError values that wrap ErrMalformed, or one of its
// refinements ErrEndOfInput, ErrIntegerOverflow and ErrDepthExceeded.
//
// Items are not safe for concurrent mutation.
package bencode
