package metainfo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"

	"bencodec/cmd/pkg/bencode"
)

// ErrTrackerFailure is returned when the tracker answered with a
// "failure reason" instead of peers.
var ErrTrackerFailure = errors.New("tracker reported failure")

// Peer is one swarm member from an announce response.
type Peer struct {
	Addr netip.AddrPort
	// ID is only present in non-compact responses.
	ID []byte
}

// TrackerResponse is a decoded HTTP tracker announce response.
type TrackerResponse struct {
	Interval       int64
	MinInterval    int64
	Complete       int64
	Incomplete     int64
	WarningMessage string
	FailureReason  string
	Peers          []Peer
}

// ParseTrackerResponse decodes an announce response body. Peers may be
// in compact form (6 bytes per IPv4 peer, 18 per IPv6 peer in
// "peers6") or a list of dictionaries. opts configure the bencode
// decoder.
func ParseTrackerResponse(body []byte, opts ...bencode.Option) (*TrackerResponse, error) {
	item, _, err := decode(body, opts)
	if err != nil {
		return nil, err
	}
	dict, ok := item.(*bencode.Dictionary)
	if !ok {
		return nil, fmt.Errorf("%w: tracker response is %s, not dictionary", ErrInvalid, bencode.TypeOf(item))
	}

	resp := &TrackerResponse{}
	if resp.FailureReason, err = optionalString(dict, "failure reason"); err != nil {
		return nil, err
	}
	if resp.FailureReason != "" {
		return resp, fmt.Errorf("%w: %s", ErrTrackerFailure, resp.FailureReason)
	}
	if resp.WarningMessage, err = optionalString(dict, "warning message"); err != nil {
		return nil, err
	}
	for key, dst := range map[string]*int64{
		"interval":     &resp.Interval,
		"min interval": &resp.MinInterval,
		"complete":     &resp.Complete,
		"incomplete":   &resp.Incomplete,
	} {
		if *dst, err = optionalInt(dict, key); err != nil {
			return nil, err
		}
	}

	if item, ok := dict.GetString("peers"); ok {
		peers, err := parsePeers(item, 4)
		if err != nil {
			return nil, err
		}
		resp.Peers = append(resp.Peers, peers...)
	}
	if item, ok := dict.GetString("peers6"); ok {
		peers, err := parsePeers(item, 16)
		if err != nil {
			return nil, err
		}
		resp.Peers = append(resp.Peers, peers...)
	}
	return resp, nil
}

func parsePeers(item bencode.Item, addrLen int) ([]Peer, error) {
	switch v := item.(type) {
	case *bencode.String:
		return parseCompactPeers(v.Value, addrLen)
	case *bencode.List:
		return parsePeerList(v)
	}
	return nil, fmt.Errorf("%w: peers is %s", ErrInvalid, bencode.TypeOf(item))
}

func parseCompactPeers(raw []byte, addrLen int) ([]Peer, error) {
	stride := addrLen + 2
	if len(raw)%stride != 0 {
		return nil, fmt.Errorf("%w: compact peers length %d is not a multiple of %d", ErrInvalid, len(raw), stride)
	}
	peers := make([]Peer, 0, len(raw)/stride)
	for i := 0; i+stride <= len(raw); i += stride {
		addr, _ := netip.AddrFromSlice(raw[i : i+addrLen])
		port := binary.BigEndian.Uint16(raw[i+addrLen : i+stride])
		peers = append(peers, Peer{Addr: netip.AddrPortFrom(addr, port)})
	}
	return peers, nil
}

func parsePeerList(list *bencode.List) ([]Peer, error) {
	peers := make([]Peer, 0, list.Len())
	for i, entry := range list.All() {
		d, ok := entry.(*bencode.Dictionary)
		if !ok {
			return nil, fmt.Errorf("%w: peer %d is not a dictionary", ErrInvalid, i)
		}
		ip, err := requireString(d, "ip")
		if err != nil {
			return nil, fmt.Errorf("peer %d: %w", i, err)
		}
		addr, err := netip.ParseAddr(ip)
		if err != nil {
			return nil, fmt.Errorf("%w: peer %d: %w", ErrInvalid, i, err)
		}
		port, err := requireInt(d, "port")
		if err != nil {
			return nil, fmt.Errorf("peer %d: %w", i, err)
		}
		if port < 0 || port > 0xffff {
			return nil, fmt.Errorf("%w: peer %d port %d out of range", ErrInvalid, i, port)
		}
		peer := Peer{Addr: netip.AddrPortFrom(addr, uint16(port))}
		if id, ok := d.GetString("peer id"); ok {
			if s, ok := id.(*bencode.String); ok {
				peer.ID = s.Value
			}
		}
		peers = append(peers, peer)
	}
	return peers, nil
}
