// Package compression handles the frame formats bencoded dumps are
// commonly stored in. Input is sniffed by frame magic so callers never
// need to say how a file was packed.
package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies a frame format.
type Codec uint8

const (
	None Codec = iota
	Zstd
	LZ4
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// String returns the codec name accepted by ParseCodec.
func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// ParseCodec parses a codec name.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "none", "":
		return None, nil
	case "zstd":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// MaxDecompressedSize caps what Decompress will unpack from one frame.
const MaxDecompressedSize = 256 << 20

// ErrTooLarge is returned when a frame unpacks past the size limit.
var ErrTooLarge = errors.New("decompressed data exceeds size limit")

var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("compression: zstd encoder initialization failed: " + err.Error())
	}
}

// Detect reports the frame format data starts with. Bencode never
// begins with either magic, so plain input is always None.
func Detect(data []byte) Codec {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return Zstd
	case bytes.HasPrefix(data, lz4Magic):
		return LZ4
	}
	return None
}

// Compress packs data in a single frame of codec c.
func Compress(data []byte, c Codec) ([]byte, error) {
	switch c {
	case None:
		return data, nil
	case Zstd:
		return zstdEncoder.EncodeAll(data, nil), nil
	case LZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported compression: %s", c)
}

// Decompress unpacks data if it starts with a known frame magic and
// returns it unchanged otherwise. Output is limited to
// MaxDecompressedSize.
func Decompress(data []byte) ([]byte, Codec, error) {
	return DecompressLimit(data, MaxDecompressedSize)
}

// DecompressLimit is Decompress with an explicit output limit in bytes.
func DecompressLimit(data []byte, limit int64) ([]byte, Codec, error) {
	c := Detect(data)
	var r io.Reader
	switch c {
	case Zstd:
		dec, err := zstd.NewReader(bytes.NewReader(data),
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(uint64(max(limit, 1))),
		)
		if err != nil {
			return nil, c, fmt.Errorf("zstd decompress: %w", err)
		}
		defer dec.Close()
		r = dec
	case LZ4:
		r = lz4.NewReader(bytes.NewReader(data))
	default:
		return data, None, nil
	}

	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
		return nil, c, fmt.Errorf("%s decompress: %w", c, ErrTooLarge)
	}
	if err != nil {
		return nil, c, fmt.Errorf("%s decompress: %w", c, err)
	}
	if int64(len(out)) > limit {
		return nil, c, fmt.Errorf("%s decompress: %w", c, ErrTooLarge)
	}
	return out, c, nil
}
