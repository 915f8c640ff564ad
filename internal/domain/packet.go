package domain

import "fmt"

// Peer identifies the side of a followed stream a packet came from.
type Peer uint8

const (
	// Peer0 is the side that sent the first packet of the stream.
	Peer0 Peer = 0
	// Peer1 is the other side.
	Peer1 Peer = 1
)

// String returns "peer0" or "peer1".
func (p Peer) String() string {
	return fmt.Sprintf("peer%d", uint8(p))
}

// Packet is a single parsed record. Bytes holds the peer tag as its first
// element followed by the payload, which is also exactly what gets written
// to the separated output stream.
type Packet struct {
	Bytes []byte
}

// NewPacket builds a packet from a peer tag and payload.
func NewPacket(peer Peer, payload []byte) Packet {
	b := make([]byte, 0, len(payload)+1)
	b = append(b, byte(peer))
	b = append(b, payload...)
	return Packet{Bytes: b}
}

// Peer returns the tag byte interpreted as a peer, and false when the packet
// is empty or the tag is not 0 or 1.
func (p Packet) Peer() (Peer, bool) {
	if len(p.Bytes) == 0 || p.Bytes[0] > 1 {
		return 0, false
	}
	return Peer(p.Bytes[0]), true
}

// Payload returns the bytes after the peer tag.
func (p Packet) Payload() []byte {
	if len(p.Bytes) == 0 {
		return nil
	}
	return p.Bytes[1:]
}

// Len returns the encoded length of the packet, tag included.
func (p Packet) Len() int {
	return len(p.Bytes)
}

// Contains reports whether b occurs anywhere in the packet.
func (p Packet) Contains(b byte) bool {
	for _, v := range p.Bytes {
		if v == b {
			return true
		}
	}
	return false
}
