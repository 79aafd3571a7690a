package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("d4:spaml1:a1:bee"), 256)

	for _, c := range []Codec{None, Zstd, LZ4} {
		t.Run(c.String(), func(t *testing.T) {
			packed, err := Compress(payload, c)
			require.NoError(t, err)
			assert.Equal(t, c, Detect(packed))

			got, detected, err := Decompress(packed)
			require.NoError(t, err)
			assert.Equal(t, c, detected)
			assert.Equal(t, payload, got)
		})
	}
}

func TestDetect_PlainBencode(t *testing.T) {
	for _, input := range []string{"", "i1e", "0:", "le", "de"} {
		assert.Equal(t, None, Detect([]byte(input)), input)
	}
}

func TestDecompress_Corrupt(t *testing.T) {
	_, c, err := Decompress(append(bytes.Clone(zstdMagic), 0xff, 0xff, 0xff))
	assert.Equal(t, Zstd, c)
	assert.ErrorContains(t, err, "zstd decompress")

	_, c, err = Decompress(append(bytes.Clone(lz4Magic), 0xff))
	assert.Equal(t, LZ4, c)
	assert.ErrorContains(t, err, "lz4 decompress")
}

func TestParseCodec(t *testing.T) {
	for _, c := range []Codec{None, Zstd, LZ4} {
		got, err := ParseCodec(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCodec("gzip")
	assert.Error(t, err)
	assert.Equal(t, "unknown(9)", Codec(9).String())
}

func TestDecompressLimit(t *testing.T) {
	payload := make([]byte, 1<<20)

	for _, c := range []Codec{Zstd, LZ4} {
		t.Run(c.String(), func(t *testing.T) {
			packed, err := Compress(payload, c)
			require.NoError(t, err)
			require.Less(t, len(packed), 64<<10)

			_, detected, err := DecompressLimit(packed, 64<<10)
			assert.Equal(t, c, detected)
			assert.ErrorIs(t, err, ErrTooLarge)

			got, _, err := DecompressLimit(packed, int64(len(payload)))
			require.NoError(t, err)
			assert.Len(t, got, len(payload))
		})
	}
}
