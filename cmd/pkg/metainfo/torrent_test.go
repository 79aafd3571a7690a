package metainfo

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bencodec/cmd/pkg/bencode"
)

func pieceBytes(n int) []byte {
	return bytes.Repeat([]byte{0xab}, n*PieceHashSize)
}

func singleFileTorrent(t *testing.T) []byte {
	t.Helper()
	info := bencode.NewDictionary()
	info.SlotString("name").SetString("big-buck-bunny.mp4")
	info.SlotString("length").SetInt(1 << 20)
	info.SlotString("piece length").SetInt(1 << 18)
	info.SlotString("pieces").SetBytes(pieceBytes(4))

	root := bencode.NewDictionary()
	root.SlotString("announce").SetString("http://tracker.example/announce")
	root.SetString("info", info)

	data, err := bencode.Encode(root)
	require.NoError(t, err)
	return data
}

func TestParse_SingleFile(t *testing.T) {
	data := singleFileTorrent(t)
	torrent, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "http://tracker.example/announce", torrent.Announce)
	assert.Equal(t, "big-buck-bunny.mp4", torrent.Name)
	assert.Equal(t, int64(1<<20), torrent.Length)
	assert.Equal(t, int64(1<<18), torrent.PieceLength)
	require.Len(t, torrent.Pieces, 4)
	assert.Equal(t, hex.EncodeToString(pieceBytes(1)), torrent.PieceHashHex(0))
	assert.Empty(t, torrent.Files)
}

// TestParse_InfoHash verifies the info-hash is SHA-1 over the raw info
// dictionary bytes of a canonical file.
func TestParse_InfoHash(t *testing.T) {
	data := singleFileTorrent(t)
	torrent, err := Parse(data)
	require.NoError(t, err)

	start := bytes.Index(data, []byte("4:infod")) + len("4:info")
	infoBytes := data[start : len(data)-1]
	want := sha1.Sum(infoBytes)
	assert.Equal(t, hex.EncodeToString(want[:]), torrent.InfoHash.Hex())
}

func TestParse_MultiFile(t *testing.T) {
	file := func(length int64, path ...string) bencode.Item {
		d := bencode.NewDictionary()
		d.SlotString("length").SetInt(length)
		p := bencode.NewList()
		for _, part := range path {
			p.PushString(part)
		}
		d.SetString("path", p)
		return d
	}

	info := bencode.NewDictionary()
	info.SlotString("name").SetString("album")
	info.SetString("files", bencode.NewList(file(100, "disc1", "a.flac"), file(250, "b.flac")))
	info.SlotString("piece length").SetInt(256)
	info.SlotString("pieces").SetBytes(pieceBytes(2))

	tier := bencode.NewList()
	tier.PushString("udp://one.example:80")
	tier.PushString("udp://two.example:80")

	root := bencode.NewDictionary()
	root.SetString("announce-list", bencode.NewList(tier))
	root.SetString("info", info)

	torrent, err := FromItem(root)
	require.NoError(t, err)
	assert.Equal(t, int64(350), torrent.Length)
	require.Len(t, torrent.Files, 2)
	assert.Equal(t, []string{"disc1", "a.flac"}, torrent.Files[0].Path)
	assert.Equal(t, [][]string{{"udp://one.example:80", "udp://two.example:80"}}, torrent.AnnounceList)
	assert.Empty(t, torrent.Announce)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"root not dictionary", "le"},
		{"no announce", "d4:infod4:name1:a6:lengthi1e12:piece lengthi1e6:pieces0:ee"},
		{"no info", "d8:announce1:xe"},
		{"info not dictionary", "d8:announce1:x4:infoi1ee"},
		{"no name", "d8:announce1:x4:infod6:lengthi1e12:piece lengthi1e6:pieces0:ee"},
		{"no length or files", "d8:announce1:x4:infod4:name1:a12:piece lengthi1e6:pieces0:ee"},
		{"length not integer", "d8:announce1:x4:infod6:length1:14:name1:a12:piece lengthi1e6:pieces0:ee"},
		{"bad pieces size", "d8:announce1:x4:infod6:lengthi1e4:name1:a12:piece lengthi1e6:pieces3:abcee"},
		{"zero piece length", "d8:announce1:x4:infod6:lengthi1e4:name1:a12:piece lengthi0e6:pieces0:ee"},
		{"negative length", "d8:announce1:x4:infod6:lengthi-5e4:name1:a12:piece lengthi1e6:pieces0:ee"},
		{"negative file length", "d8:announce1:x4:infod5:filesld6:lengthi-1e4:pathl1:aeee4:name1:a12:piece lengthi1e6:pieces0:ee"},
		{"total length overflow", "d8:announce1:x4:infod5:filesld6:lengthi9223372036854775807e4:pathl1:aeed6:lengthi1e4:pathl1:beee4:name1:a12:piece lengthi1e6:pieces0:ee"},
		{"trailing bytes", "d8:announce1:x4:infod6:lengthi1e4:name1:a12:piece lengthi1e6:pieces0:eexx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParse_MalformedBencode(t *testing.T) {
	_, err := Parse([]byte("d8:announce"))
	assert.ErrorIs(t, err, bencode.ErrEndOfInput)
}

func TestParse_DecoderOptions(t *testing.T) {
	data := singleFileTorrent(t)

	_, err := Parse(data, bencode.WithMaxDepth(1))
	assert.ErrorIs(t, err, bencode.ErrDepthExceeded)

	_, err = Parse(data, bencode.WithMaxDepth(2))
	assert.NoError(t, err)
}
