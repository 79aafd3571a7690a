// Package metainfo reads BitTorrent metainfo (.torrent) files and
// tracker announce responses on top of the bencode item tree.
package metainfo

import (
	"errors"
	"fmt"
	"math"

	"bencodec/cmd/pkg/bencode"
	"bencodec/cmd/pkg/digest"
)

// PieceHashSize is the length of one SHA-1 piece hash.
const PieceHashSize = 20

// ErrInvalid wraps every structural problem found in a metainfo file
// or tracker response.
var ErrInvalid = errors.New("invalid metainfo")

// File is one entry of a multi-file torrent.
type File struct {
	Path   []string
	Length int64
}

// Torrent is the subset of a metainfo file the tools report on.
type Torrent struct {
	Announce     string
	AnnounceList [][]string
	Name         string
	// Length is the total payload size, summed over Files for
	// multi-file torrents.
	Length      int64
	PieceLength int64
	Pieces      [][PieceHashSize]byte
	// Files is empty for single-file torrents.
	Files []File
	// InfoHash is the SHA-1 of the canonical encoding of the info
	// dictionary. It matches the swarm's info-hash whenever the file
	// stored that dictionary canonically, which well-formed torrents do.
	InfoHash digest.Digest
	// Info is the decoded info dictionary.
	Info *bencode.Dictionary
}

// Parse decodes a metainfo file. Trailing bytes after the root
// dictionary are rejected. opts configure the bencode decoder.
func Parse(data []byte, opts ...bencode.Option) (*Torrent, error) {
	item, trailing, err := decode(data, opts)
	if err != nil {
		return nil, err
	}
	if trailing > 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after root value", ErrInvalid, trailing)
	}
	return FromItem(item)
}

// decode reads the value at the start of data and reports how many
// bytes follow it.
func decode(data []byte, opts []bencode.Option) (bencode.Item, int, error) {
	src := bencode.NewBytesSource(data)
	item, err := bencode.NewDecoder(src, opts...).Decode()
	if err != nil {
		return nil, 0, err
	}
	return item, len(src.Remaining()), nil
}

// FromItem extracts a Torrent from an already decoded root value.
func FromItem(item bencode.Item) (*Torrent, error) {
	root, ok := item.(*bencode.Dictionary)
	if !ok {
		return nil, fmt.Errorf("%w: root is %s, not dictionary", ErrInvalid, bencode.TypeOf(item))
	}

	announce, err := optionalString(root, "announce")
	if err != nil {
		return nil, err
	}
	announceList, err := parseAnnounceList(root)
	if err != nil {
		return nil, err
	}
	if announce == "" && len(announceList) == 0 {
		return nil, fmt.Errorf("%w: announce missing", ErrInvalid)
	}

	info, err := requireDict(root, "info")
	if err != nil {
		return nil, err
	}
	infoHash, err := digest.SumItem(digest.SHA1, info)
	if err != nil {
		return nil, err
	}

	name, err := requireString(info, "name")
	if err != nil {
		return nil, err
	}
	length, files, err := extractLength(info)
	if err != nil {
		return nil, err
	}
	pieceLength, pieces, err := extractPieces(info)
	if err != nil {
		return nil, err
	}

	return &Torrent{
		Announce:     announce,
		AnnounceList: announceList,
		Name:         name,
		Length:       length,
		PieceLength:  pieceLength,
		Pieces:       pieces,
		Files:        files,
		InfoHash:     infoHash,
		Info:         info,
	}, nil
}

func parseAnnounceList(root *bencode.Dictionary) ([][]string, error) {
	item, ok := root.GetString("announce-list")
	if !ok {
		return nil, nil
	}
	tiers, ok := item.(*bencode.List)
	if !ok {
		return nil, fmt.Errorf("%w: announce-list is %s, not list", ErrInvalid, bencode.TypeOf(item))
	}
	var result [][]string
	for i, tier := range tiers.All() {
		urls, ok := tier.(*bencode.List)
		if !ok {
			return nil, fmt.Errorf("%w: announce-list tier %d is not a list", ErrInvalid, i)
		}
		var group []string
		for _, url := range urls.All() {
			s, ok := url.(*bencode.String)
			if !ok {
				return nil, fmt.Errorf("%w: announce-list tier %d holds a non-string", ErrInvalid, i)
			}
			group = append(group, string(s.Value))
		}
		result = append(result, group)
	}
	return result, nil
}

func extractLength(info *bencode.Dictionary) (int64, []File, error) {
	// single-file torrent
	if _, ok := info.GetString("length"); ok {
		length, err := requireInt(info, "length")
		if err != nil {
			return 0, nil, err
		}
		if length < 0 {
			return 0, nil, fmt.Errorf("%w: length %d is negative", ErrInvalid, length)
		}
		return length, nil, nil
	}

	// multi-file torrent
	item, ok := info.GetString("files")
	if !ok {
		return 0, nil, fmt.Errorf("%w: no length or files field", ErrInvalid)
	}
	list, ok := item.(*bencode.List)
	if !ok {
		return 0, nil, fmt.Errorf("%w: files is %s, not list", ErrInvalid, bencode.TypeOf(item))
	}

	var total int64
	files := make([]File, 0, list.Len())
	for i, entry := range list.All() {
		fileDict, ok := entry.(*bencode.Dictionary)
		if !ok {
			return 0, nil, fmt.Errorf("%w: file entry %d is not a dictionary", ErrInvalid, i)
		}
		length, err := requireInt(fileDict, "length")
		if err != nil {
			return 0, nil, fmt.Errorf("file entry %d: %w", i, err)
		}
		if length < 0 {
			return 0, nil, fmt.Errorf("%w: file entry %d length %d is negative", ErrInvalid, i, length)
		}
		if length > math.MaxInt64-total {
			return 0, nil, fmt.Errorf("%w: total length overflows at file entry %d", ErrInvalid, i)
		}
		path, err := requireStringList(fileDict, "path")
		if err != nil {
			return 0, nil, fmt.Errorf("file entry %d: %w", i, err)
		}
		files = append(files, File{Path: path, Length: length})
		total += length
	}
	return total, files, nil
}

func extractPieces(info *bencode.Dictionary) (int64, [][PieceHashSize]byte, error) {
	pieceLength, err := requireInt(info, "piece length")
	if err != nil {
		return 0, nil, err
	}
	if pieceLength <= 0 {
		return 0, nil, fmt.Errorf("%w: piece length %d is not positive", ErrInvalid, pieceLength)
	}

	item, ok := info.GetString("pieces")
	if !ok {
		return 0, nil, fmt.Errorf("%w: pieces missing", ErrInvalid)
	}
	raw, ok := item.(*bencode.String)
	if !ok {
		return 0, nil, fmt.Errorf("%w: pieces is %s, not string", ErrInvalid, bencode.TypeOf(item))
	}
	if len(raw.Value)%PieceHashSize != 0 {
		return 0, nil, fmt.Errorf("%w: pieces length %d is not a multiple of %d", ErrInvalid, len(raw.Value), PieceHashSize)
	}

	hashes := make([][PieceHashSize]byte, len(raw.Value)/PieceHashSize)
	for i := range hashes {
		copy(hashes[i][:], raw.Value[i*PieceHashSize:])
	}
	return pieceLength, hashes, nil
}

// PieceHashHex returns the hex form of piece i.
func (t *Torrent) PieceHashHex(i int) string {
	d, err := digest.FromBytes(digest.SHA1, t.Pieces[i][:])
	if err != nil {
		return ""
	}
	return d.Hex()
}
