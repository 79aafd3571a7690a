package bencode

import (
	"bufio"
	"errors"
	"io"
)

// Source is the byte stream the decoder reads from. Only one byte of
// lookahead is ever needed (the type tag), so there is no Peek or Seek.
type Source interface {
	// ReadByte returns the next byte, or io.EOF when the source is
	// exhausted.
	ReadByte() (byte, error)
	// ReadN appends up to n bytes to dst and returns the extended
	// slice. Existing contents of dst are never cleared. Fewer than n
	// bytes are appended only when the source runs out, in which case
	// the error is io.EOF or io.ErrUnexpectedEOF.
	ReadN(n int, dst []byte) ([]byte, error)
	// AtEnd reports whether no more bytes are available.
	AtEnd() bool
}

// Sink is the byte stream the encoder writes to. Any io.ByteWriter
// qualifies; sinks that also implement io.Writer receive bulk writes.
type Sink interface {
	io.ByteWriter
}

// writeAll writes p to sink in one call when the sink supports it,
// otherwise one byte at a time.
func writeAll(sink Sink, p []byte) error {
	if w, ok := sink.(io.Writer); ok {
		_, err := w.Write(p)
		return err
	}
	for _, b := range p {
		if err := sink.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

// BytesSource reads from an in-memory buffer. The buffer is not
// copied and must not be modified while the source is in use.
type BytesSource struct {
	buf []byte
	pos int
}

// NewBytesSource returns a Source over data.
func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{buf: data}
}

func (s *BytesSource) ReadByte() (byte, error) {
	if s.pos >= len(s.buf) {
		return 0, io.EOF
	}
	b := s.buf[s.pos]
	s.pos++
	return b, nil
}

func (s *BytesSource) ReadN(n int, dst []byte) ([]byte, error) {
	if n <= 0 {
		return dst, nil
	}
	available := len(s.buf) - s.pos
	if available == 0 {
		return dst, io.EOF
	}
	if n > available {
		dst = append(dst, s.buf[s.pos:]...)
		s.pos = len(s.buf)
		return dst, io.ErrUnexpectedEOF
	}
	dst = append(dst, s.buf[s.pos:s.pos+n]...)
	s.pos += n
	return dst, nil
}

// AtEnd is true exactly when every byte of the buffer has been read.
func (s *BytesSource) AtEnd() bool {
	return s.pos >= len(s.buf)
}

// Offset returns the number of bytes consumed so far.
func (s *BytesSource) Offset() int {
	return s.pos
}

// Remaining returns the unread tail of the buffer.
func (s *BytesSource) Remaining() []byte {
	return s.buf[s.pos:]
}

// ReaderSource adapts an io.Reader. Reads are buffered, so the
// underlying reader may be advanced past the last decoded value.
type ReaderSource struct {
	r *bufio.Reader
}

// NewReaderSource returns a Source reading from r.
func NewReaderSource(r io.Reader) *ReaderSource {
	if br, ok := r.(*bufio.Reader); ok {
		return &ReaderSource{r: br}
	}
	return &ReaderSource{r: bufio.NewReader(r)}
}

func (s *ReaderSource) ReadByte() (byte, error) {
	return s.r.ReadByte()
}

// readChunk bounds each allocation so a hostile length prefix cannot
// force a huge buffer before the data actually arrives.
const readChunk = 64 << 10

func (s *ReaderSource) ReadN(n int, dst []byte) ([]byte, error) {
	start := len(dst)
	for n > 0 {
		step := min(n, readChunk)
		dst = append(dst, make([]byte, step)...)
		read, err := io.ReadFull(s.r, dst[len(dst)-step:])
		dst = dst[:len(dst)-step+read]
		n -= read
		if err != nil {
			if errors.Is(err, io.EOF) && len(dst) > start {
				err = io.ErrUnexpectedEOF
			}
			return dst, err
		}
	}
	return dst, nil
}

func (s *ReaderSource) AtEnd() bool {
	_, err := s.r.Peek(1)
	return err != nil
}

// writerSink gives a plain io.Writer the WriteByte method.
type writerSink struct {
	w       io.Writer
	scratch [1]byte
}

// NewWriterSink adapts w into a Sink. Writers that already implement
// io.ByteWriter are returned unchanged.
func NewWriterSink(w io.Writer) Sink {
	if bw, ok := w.(io.ByteWriter); ok {
		return bw
	}
	return &writerSink{w: w}
}

func (s *writerSink) WriteByte(c byte) error {
	s.scratch[0] = c
	_, err := s.w.Write(s.scratch[:])
	return err
}

func (s *writerSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}
