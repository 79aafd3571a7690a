package bencode

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
)

var logger = slog.New(slog.DiscardHandler)

// SetLogger routes the package's debug output to l. Passing nil
// restores the default, which discards everything.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger = l
}

// maxNumberText is the longest integer body or length prefix accepted,
// enough for "-9223372036854775808".
const maxNumberText = 20

// DefaultMaxDepth bounds how deeply lists and dictionaries may nest.
const DefaultMaxDepth = 512

// Option configures a Decoder.
type Option func(*Decoder)

// WithMaxDepth sets the nesting limit. Zero or less removes it.
func WithMaxDepth(depth int) Option {
	return func(d *Decoder) {
		d.maxDepth = depth
	}
}

// Decoder reads bencode values from a Source. Each call to Decode
// consumes exactly one value and nothing past it.
type Decoder struct {
	src      Source
	offset   int64
	maxDepth int
}

// NewDecoder returns a Decoder reading from src.
func NewDecoder(src Source, opts ...Option) *Decoder {
	d := &Decoder{src: src, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Offset returns the number of bytes this Decoder has consumed.
func (d *Decoder) Offset() int64 {
	return d.offset
}

// Decode reads one complete value. On failure nothing is returned and
// the partially built tree is discarded.
func (d *Decoder) Decode() (Item, error) {
	start := d.offset
	tag, err := d.readByte(0)
	if err != nil {
		return nil, err
	}
	item, err := d.decodeValue(tag, 0)
	if err != nil {
		logger.Debug("decode failed", "start", start, "error", err)
		return nil, err
	}
	logger.Debug("decoded value", "type", item.Type(), "start", start, "consumed", d.offset-start)
	return item, nil
}

// Read decodes one value from src with default options.
func Read(src Source) (Item, error) {
	return NewDecoder(src).Decode()
}

// Decode decodes the value at the start of data and reports how many
// bytes it occupied. Trailing bytes are left alone.
func Decode(data []byte) (Item, int, error) {
	if len(data) == 0 {
		return nil, 0, &SyntaxError{Msg: "input is empty", Err: ErrEndOfInput}
	}
	src := NewBytesSource(data)
	item, err := Read(src)
	if err != nil {
		return nil, 0, err
	}
	return item, src.Offset(), nil
}

func (d *Decoder) fail(tag byte, msg string, err error) error {
	return &SyntaxError{Offset: d.offset, Tag: tag, Msg: msg, Err: err}
}

func (d *Decoder) readByte(tag byte) (byte, error) {
	b, err := d.src.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, d.fail(tag, "unexpected end of input", ErrEndOfInput)
		}
		return 0, d.fail(tag, "read failed", err)
	}
	d.offset++
	return b, nil
}

func (d *Decoder) decodeValue(tag byte, depth int) (Item, error) {
	switch {
	case tag == 'i':
		return d.decodeInteger()
	case tag >= '0' && tag <= '9':
		return d.decodeString(tag)
	case tag == 'l':
		return d.decodeList(depth + 1)
	case tag == 'd':
		return d.decodeDict(depth + 1)
	}
	return nil, d.fail(0, "invalid type tag "+strconv.QuoteRune(rune(tag)), ErrMalformed)
}

func (d *Decoder) decodeInteger() (Item, error) {
	var text []byte
	for {
		b, err := d.readByte('i')
		if err != nil {
			return nil, err
		}
		if b == 'e' {
			break
		}
		if len(text) == maxNumberText {
			return nil, d.fail('i', "integer longer than "+strconv.Itoa(maxNumberText)+" bytes", ErrIntegerOverflow)
		}
		text = append(text, b)
	}
	if !isIntegerText(text) {
		return nil, d.fail('i', "invalid integer "+strconv.Quote(string(text)), ErrMalformed)
	}
	v, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil {
		return nil, d.fail('i', "integer "+string(text)+" does not fit in 64 bits", ErrIntegerOverflow)
	}
	return NewInteger(v), nil
}

// isIntegerText matches -?[0-9]+.
func isIntegerText(text []byte) bool {
	if len(text) > 0 && text[0] == '-' {
		text = text[1:]
	}
	if len(text) == 0 {
		return false
	}
	for _, b := range text {
		if b < '0' || b > '9' {
			return false
		}
	}
	return true
}

func (d *Decoder) decodeString(first byte) (Item, error) {
	length := []byte{first}
	for {
		b, err := d.readByte(first)
		if err != nil {
			return nil, err
		}
		if b == ':' {
			break
		}
		if b < '0' || b > '9' {
			return nil, d.fail(first, "non-digit "+strconv.QuoteRune(rune(b))+" in string length", ErrMalformed)
		}
		if len(length) == maxNumberText {
			return nil, d.fail(first, "string length longer than "+strconv.Itoa(maxNumberText)+" digits", ErrIntegerOverflow)
		}
		length = append(length, b)
	}
	n, err := strconv.Atoi(string(length))
	if err != nil {
		return nil, d.fail(first, "string length "+string(length)+" out of range", ErrIntegerOverflow)
	}
	value, err := d.src.ReadN(n, make([]byte, 0, min(n, readChunk)))
	d.offset += int64(len(value))
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, d.fail(first, "string shorter than declared length "+string(length), ErrEndOfInput)
		}
		return nil, d.fail(first, "read failed", err)
	}
	return &String{Value: value}, nil
}

func (d *Decoder) checkDepth(tag byte, depth int) error {
	if d.maxDepth > 0 && depth > d.maxDepth {
		return d.fail(tag, "nesting exceeds "+strconv.Itoa(d.maxDepth)+" levels", ErrDepthExceeded)
	}
	return nil
}

func (d *Decoder) decodeList(depth int) (Item, error) {
	if err := d.checkDepth('l', depth); err != nil {
		return nil, err
	}
	list := NewList()
	for {
		tag, err := d.readByte('l')
		if err != nil {
			return nil, err
		}
		if tag == 'e' {
			return list, nil
		}
		item, err := d.decodeValue(tag, depth)
		if err != nil {
			return nil, err
		}
		list.Push(item)
	}
}

func (d *Decoder) decodeDict(depth int) (Item, error) {
	if err := d.checkDepth('d', depth); err != nil {
		return nil, err
	}
	dict := NewDictionary()
	for {
		tag, err := d.readByte('d')
		if err != nil {
			return nil, err
		}
		if tag == 'e' {
			return dict, nil
		}
		key, err := d.decodeValue(tag, depth)
		if err != nil {
			return nil, err
		}
		tag, err = d.readByte('d')
		if err != nil {
			return nil, err
		}
		value, err := d.decodeValue(tag, depth)
		if err != nil {
			return nil, err
		}
		// Keys may arrive in any order; a repeated key keeps the
		// last value.
		dict.adopt(key, value)
	}
}
