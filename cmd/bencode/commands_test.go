package main

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bencodec/cmd/pkg/bencode"
)

// run executes the root command with stdin as input and returns what
// it wrote to stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() { bencode.SetLogger(nil) })

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

const metainfoFile = "d8:announce31:http://tracker.example/announce4:infod6:lengthi2048e4:name5:a.txt12:piece lengthi1024e6:pieces40:" +
	"aaaaaaaaaaaaaaaaaaaabbbbbbbbbbbbbbbbbbbbee"

func TestShow_Display(t *testing.T) {
	out, _, err := run(t, "d4:spam4:eggs3:cow3:mooe", "show")
	require.NoError(t, err)
	assert.Equal(t, "{\"cow\":\"moo\", \"spam\":\"eggs\"}\n", out)
}

func TestShow_YAML(t *testing.T) {
	out, _, err := run(t, "d1:bi2e1:ali1ei2eee", "show", "-", "--format", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "a:\n    - 1\n    - 2\nb: 2\n", out)
}

func TestShow_CBOR(t *testing.T) {
	out, _, err := run(t, "l4:spami-7ee", "show", "-f", "cbor")
	require.NoError(t, err)
	assert.Equal(t, "[\"spam\", -7]\n", out)
}

func TestShow_UnknownFormat(t *testing.T) {
	_, _, err := run(t, "i1e", "show", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestShow_Malformed(t *testing.T) {
	_, _, err := run(t, "l4:spam", "show")
	assert.ErrorIs(t, err, bencode.ErrEndOfInput)
}

func TestShow_MaxDepth(t *testing.T) {
	_, _, err := run(t, "lllleeee", "show", "--max-depth", "2")
	assert.ErrorIs(t, err, bencode.ErrDepthExceeded)
}

func TestShow_TrailingBytesWarns(t *testing.T) {
	out, stderr, err := run(t, "i1ejunk", "show")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
	assert.Contains(t, stderr, "trailing bytes")
}

func TestShow_VerboseLogsDecoder(t *testing.T) {
	_, stderr, err := run(t, "i1e", "show", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "decoded value")
}

func TestCanon(t *testing.T) {
	out, _, err := run(t, "d4:spam4:eggs3:cow3:mooe", "canon")
	require.NoError(t, err)
	assert.Equal(t, "d3:cow3:moo4:spam4:eggse", out)
}

func TestCanon_DuplicateKeys(t *testing.T) {
	out, _, err := run(t, "d1:ai1e1:ai2ee", "canon")
	require.NoError(t, err)
	assert.Equal(t, "d1:ai2ee", out)
}

func TestCanon_TrailingBytes(t *testing.T) {
	_, _, err := run(t, "i1ei2e", "canon")
	assert.ErrorContains(t, err, "3 trailing bytes")
}

func TestCanon_OutputFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bencode")
	outPath := filepath.Join(dir, "out.bencode")
	require.NoError(t, os.WriteFile(in, []byte("d1:bi1e1:ai2ee"), 0o644))

	out, _, err := run(t, "", "canon", in, "-o", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "d1:ai2e1:bi1ee", string(got))
}

func TestCanon_MissingFile(t *testing.T) {
	_, _, err := run(t, "", "canon", filepath.Join(t.TempDir(), "absent"))
	assert.ErrorContains(t, err, "read input")
}

func TestHash(t *testing.T) {
	out, _, err := run(t, "d4:spam4:eggs3:cow3:mooe", "hash")
	require.NoError(t, err)
	sum := sha1.Sum([]byte("d3:cow3:moo4:spam4:eggse"))
	assert.Equal(t, "sha1:"+hex.EncodeToString(sum[:])+"\n", out)
}

func TestHash_Info(t *testing.T) {
	out, _, err := run(t, metainfoFile, "hash", "--info")
	require.NoError(t, err)

	start := strings.Index(metainfoFile, "4:infod") + len("4:info")
	sum := sha1.Sum([]byte(metainfoFile[start : len(metainfoFile)-1]))
	assert.Equal(t, "sha1:"+hex.EncodeToString(sum[:])+"\n", out)
}

func TestHash_Errors(t *testing.T) {
	_, _, err := run(t, "i1e", "hash", "--algo", "md5")
	assert.ErrorContains(t, err, "unknown hash algorithm")

	_, _, err = run(t, "i1e", "hash", "--info")
	assert.ErrorContains(t, err, "dictionary root")

	_, _, err = run(t, "de", "hash", "--info")
	assert.ErrorContains(t, err, "no info key")
}

func TestHash_Blake3(t *testing.T) {
	out, _, err := run(t, "i1e", "hash", "-a", "BLAKE3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "blake3:"))
	assert.Len(t, strings.TrimSpace(out), len("blake3:")+64)
}

func TestTorrent(t *testing.T) {
	out, _, err := run(t, metainfoFile, "torrent", "--pieces")
	require.NoError(t, err)

	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "http://tracker.example/announce")
	assert.Contains(t, out, "2.0 KiB (2048 bytes)")
	assert.Contains(t, out, "Piece Hashes:\n"+hex.EncodeToString([]byte(strings.Repeat("a", 20)))+"\n")
	assert.Contains(t, out, hex.EncodeToString([]byte(strings.Repeat("b", 20))))
}

func TestTorrent_AnnounceURL(t *testing.T) {
	out, _, err := run(t, metainfoFile, "torrent", "--announce-url", "--port", "51413")
	require.NoError(t, err)
	assert.Contains(t, out, "http://tracker.example/announce?compact=1")
	assert.Contains(t, out, "port=51413")
}

func TestTorrent_Invalid(t *testing.T) {
	_, _, err := run(t, "d8:announce1:xe", "torrent")
	assert.ErrorContains(t, err, "invalid metainfo")
}

func TestPeers(t *testing.T) {
	body := "d8:completei5e10:incompletei2e8:intervali1800e5:peers6:" + string([]byte{127, 0, 0, 1, 0x1a, 0xe1}) + "e"
	out, _, err := run(t, body, "peers")
	require.NoError(t, err)
	assert.Equal(t, "interval 1800s, 5 seeders, 2 leechers\n127.0.0.1:6881\n", out)
}

func TestPeers_Failure(t *testing.T) {
	_, _, err := run(t, "d14:failure reason9:not founde", "peers")
	assert.EqualError(t, err, "tracker: not found")
}

func TestPeers_Warning(t *testing.T) {
	_, stderr, err := run(t, "d8:intervali60e15:warning message4:slowe", "peers")
	require.NoError(t, err)
	assert.Contains(t, stderr, "tracker warning")
}

func TestCanon_CompressedRoundTrip(t *testing.T) {
	for _, codec := range []string{"zstd", "lz4"} {
		t.Run(codec, func(t *testing.T) {
			packed, _, err := run(t, "d4:spam4:eggs3:cow3:mooe", "canon", "--compress", codec)
			require.NoError(t, err)
			assert.NotEqual(t, "d3:cow3:moo4:spam4:eggse", packed)

			out, _, err := run(t, packed, "canon")
			require.NoError(t, err)
			assert.Equal(t, "d3:cow3:moo4:spam4:eggse", out)
		})
	}
}

func TestCanon_UnknownCompression(t *testing.T) {
	_, _, err := run(t, "i1e", "canon", "--compress", "gzip")
	assert.ErrorContains(t, err, "unknown compression")
}

func TestTorrent_NegativeLength(t *testing.T) {
	_, _, err := run(t, "d8:announce1:x4:infod6:lengthi-5e4:name1:a12:piece lengthi1e6:pieces0:ee", "torrent")
	assert.ErrorContains(t, err, "negative")
}

func TestMaxDepth_MetainfoCommands(t *testing.T) {
	_, _, err := run(t, metainfoFile, "torrent", "--max-depth", "1")
	assert.ErrorIs(t, err, bencode.ErrDepthExceeded)

	_, _, err = run(t, "d5:peersld2:ip9:127.0.0.14:porti1eeee", "peers", "--max-depth", "2")
	assert.ErrorIs(t, err, bencode.ErrDepthExceeded)
}
