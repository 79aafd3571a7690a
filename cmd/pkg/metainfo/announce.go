package metainfo

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
)

// DefaultPort is the listen port advertised when none is given.
const DefaultPort = 6881

// PeerIDPrefix is the Azureus-style client tag at the start of
// generated peer ids.
const PeerIDPrefix = "-BC0001-"

// Announce holds the query parameters of an HTTP tracker announce.
type Announce struct {
	InfoHash   [20]byte
	PeerID     [20]byte
	Port       uint16
	Uploaded   int64
	Downloaded int64
	Left       int64
	Compact    bool
}

// NewPeerID returns PeerIDPrefix followed by random digits.
func NewPeerID() [20]byte {
	var id [20]byte
	n := copy(id[:], PeerIDPrefix)
	for i := n; i < len(id); i++ {
		id[i] = '0' + byte(rand.IntN(10))
	}
	return id
}

// NewAnnounce prepares a first announce for t: nothing transferred yet
// and the whole payload left.
func NewAnnounce(t *Torrent, peerID [20]byte) Announce {
	a := Announce{
		PeerID:  peerID,
		Port:    DefaultPort,
		Left:    t.Length,
		Compact: true,
	}
	copy(a.InfoHash[:], t.InfoHash.Bytes())
	return a
}

// URL appends the announce parameters to the tracker URL.
func (a Announce) URL(tracker string) (string, error) {
	u, err := url.Parse(tracker)
	if err != nil {
		return "", fmt.Errorf("parse announce URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("announce URL scheme %q is not http", u.Scheme)
	}

	params := u.Query()
	params.Set("info_hash", string(a.InfoHash[:]))
	params.Set("peer_id", string(a.PeerID[:]))
	params.Set("port", strconv.Itoa(int(a.Port)))
	params.Set("uploaded", strconv.FormatInt(a.Uploaded, 10))
	params.Set("downloaded", strconv.FormatInt(a.Downloaded, 10))
	params.Set("left", strconv.FormatInt(a.Left, 10))
	if a.Compact {
		params.Set("compact", "1")
	} else {
		params.Set("compact", "0")
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// Trackers lists every announce URL of t, the announce-list tiers first
// and the single announce URL last if it is not already among them.
func (t *Torrent) Trackers() []string {
	seen := make(map[string]bool)
	var out []string
	for _, tier := range t.AnnounceList {
		for _, u := range tier {
			if !seen[u] {
				seen[u] = true
				out = append(out, u)
			}
		}
	}
	if t.Announce != "" && !seen[t.Announce] {
		out = append(out, t.Announce)
	}
	return out
}
