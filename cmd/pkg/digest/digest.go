// Package digest names the hash functions the tools work with and
// wraps their output in a comparable, printable value.
//
// SHA-1 is what BitTorrent v1 uses for info-hashes and piece hashes.
// SHA-256 and BLAKE3 are offered for content fingerprints.
package digest

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/zeebo/blake3"

	"bencodec/cmd/pkg/bencode"
)

// Algorithm identifies a hash function.
type Algorithm string

const (
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{SHA1, SHA256, BLAKE3}

// ParseAlgorithm resolves a case-insensitive algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(name))
	switch a {
	case SHA1, SHA256, BLAKE3:
		return a, nil
	}
	return "", fmt.Errorf("unknown hash algorithm %q (want one of sha1, sha256, blake3)", name)
}

// New returns a fresh hash.Hash for a.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	case BLAKE3:
		return blake3.New(), nil
	}
	return nil, fmt.Errorf("unknown hash algorithm %q", string(a))
}

// Size returns the digest length in bytes, or 0 for an unknown
// algorithm.
func (a Algorithm) Size() int {
	switch a {
	case SHA1:
		return sha1.Size
	case SHA256:
		return sha256.Size
	case BLAKE3:
		return 32
	}
	return 0
}

// Digest is the output of one hash computation.
type Digest struct {
	algorithm Algorithm
	sum       []byte
}

// Algorithm returns the function that produced d.
func (d Digest) Algorithm() Algorithm { return d.algorithm }

// Bytes returns a copy of the raw digest.
func (d Digest) Bytes() []byte { return bytes.Clone(d.sum) }

// Size returns the digest length in bytes.
func (d Digest) Size() int { return len(d.sum) }

// Hex returns the lowercase hex encoding of the digest.
func (d Digest) Hex() string { return hex.EncodeToString(d.sum) }

// String formats d as "algorithm:hex".
func (d Digest) String() string {
	return string(d.algorithm) + ":" + d.Hex()
}

// IsZero reports whether d holds no digest.
func (d Digest) IsZero() bool { return len(d.sum) == 0 }

// Equal reports whether d and other come from the same algorithm and
// hold the same bytes.
func (d Digest) Equal(other Digest) bool {
	return d.algorithm == other.algorithm && bytes.Equal(d.sum, other.sum)
}

// Sum hashes data with a.
func Sum(a Algorithm, data []byte) (Digest, error) {
	h, err := a.New()
	if err != nil {
		return Digest{}, err
	}
	h.Write(data)
	return Digest{algorithm: a, sum: h.Sum(nil)}, nil
}

// SumReader streams r through a, keeping memory use constant
// regardless of input size.
func SumReader(a Algorithm, r io.Reader) (Digest, error) {
	h, err := a.New()
	if err != nil {
		return Digest{}, err
	}
	if _, err := io.Copy(h, r); err != nil {
		return Digest{}, fmt.Errorf("hashing with %s: %w", a, err)
	}
	return Digest{algorithm: a, sum: h.Sum(nil)}, nil
}

// SumItem hashes the bencode encoding of item without materializing it.
func SumItem(a Algorithm, item bencode.Item) (Digest, error) {
	h, err := a.New()
	if err != nil {
		return Digest{}, err
	}
	if err := bencode.Write(bencode.NewWriterSink(h), item); err != nil {
		return Digest{}, fmt.Errorf("encoding item for %s: %w", a, err)
	}
	return Digest{algorithm: a, sum: h.Sum(nil)}, nil
}

// FromBytes wraps an existing raw digest, checking its length.
func FromBytes(a Algorithm, sum []byte) (Digest, error) {
	if a.Size() == 0 {
		return Digest{}, fmt.Errorf("unknown hash algorithm %q", string(a))
	}
	if len(sum) != a.Size() {
		return Digest{}, fmt.Errorf("%s digest is %d bytes, want %d", a, len(sum), a.Size())
	}
	return Digest{algorithm: a, sum: bytes.Clone(sum)}, nil
}

// Parse decodes a hex digest for a. Both "hex" and "algorithm:hex"
// forms are accepted; in the latter the prefix must match a.
func Parse(a Algorithm, text string) (Digest, error) {
	if prefix, rest, ok := strings.Cut(text, ":"); ok {
		if Algorithm(strings.ToLower(prefix)) != a {
			return Digest{}, fmt.Errorf("digest %q is not %s", text, a)
		}
		text = rest
	}
	sum, err := hex.DecodeString(text)
	if err != nil {
		return Digest{}, fmt.Errorf("parsing %s digest: %w", a, err)
	}
	return FromBytes(a, sum)
}
