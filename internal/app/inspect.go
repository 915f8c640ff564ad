package app

import (
	"context"
	"fmt"
	"os"

	"github.com/bft-labs/pktsep/internal/domain"
	"github.com/bft-labs/pktsep/internal/photon"
	"github.com/bft-labs/pktsep/internal/ports"
	"github.com/bft-labs/pktsep/pkg/sepstream"
)

// PacketInfo is the decoded view of one packet.
type PacketInfo struct {
	Index  int
	Peer   string
	Length int
	// Photon is nil when the payload does not decode.
	Photon *photon.Packet
	Err    error
}

// Describe decodes every packet's payload as a Photon packet.
func Describe(packets []domain.Packet) []PacketInfo {
	out := make([]PacketInfo, 0, len(packets))
	for i, p := range packets {
		info := PacketInfo{Index: i, Length: p.Len(), Peer: "?"}
		if peer, ok := p.Peer(); ok {
			info.Peer = peer.String()
		}
		info.Photon, info.Err = photon.Decode(p.Payload())
		if info.Err != nil {
			info.Photon = nil
		}
		out = append(out, info)
	}
	return out
}

// Inspect parses a dump and describes its packets.
func Inspect(ctx context.Context, source ports.PacketSource, path string) ([]PacketInfo, error) {
	parsed, err := source.ReadPackets(ctx, path)
	if err != nil {
		return nil, err
	}
	return Describe(parsed.Packets), nil
}

// SplitFile reads a separated stream written by Convert and returns its packets.
func SplitFile(path string, sep int) ([]domain.Packet, error) {
	if sep < 0 || sep > 255 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidSeparator, sep)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return sepstream.Split(data, byte(sep)), nil
}
