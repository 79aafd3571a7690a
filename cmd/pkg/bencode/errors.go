package bencode

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is the umbrella for every grammar violation. Every
	// decode failure other than a read error from the Source satisfies
	// errors.Is(err, ErrMalformed).
	ErrMalformed = errors.New("malformed bencode")

	// ErrEndOfInput means the source ran out in the middle of a value.
	ErrEndOfInput = fmt.Errorf("%w: unexpected end of input", ErrMalformed)

	// ErrIntegerOverflow means an integer literal or string length
	// does not fit in 64 bits.
	ErrIntegerOverflow = fmt.Errorf("%w: integer out of range", ErrMalformed)

	// ErrDepthExceeded means lists and dictionaries nest deeper than
	// the decoder's configured limit.
	ErrDepthExceeded = fmt.Errorf("%w: nesting too deep", ErrMalformed)
)

// SyntaxError describes where and why decoding stopped.
type SyntaxError struct {
	// Offset is the number of bytes consumed when the failure was
	// detected.
	Offset int64
	// Tag is the type tag of the value being decoded, or 0 at the root.
	Tag byte
	Msg string
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Tag != 0 {
		return fmt.Sprintf("bencode: %s at offset %d (in %q value): %v", e.Msg, e.Offset, e.Tag, e.Err)
	}
	return fmt.Sprintf("bencode: %s at offset %d: %v", e.Msg, e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
