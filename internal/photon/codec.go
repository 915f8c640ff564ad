package photon

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when the buffer ends inside a header.
	ErrTruncated = errors.New("photon: truncated")
	// ErrBadCommandSize is returned when a command size is smaller than its
	// header or larger than the rest of the packet.
	ErrBadCommandSize = errors.New("photon: bad command size")
)

// Decode parses a packet. The peer tag used in separated streams must
// already be stripped.
func Decode(data []byte) (*Packet, error) {
	if len(data) < PacketHeaderSize {
		return nil, fmt.Errorf("%w: packet header needs %d bytes, have %d", ErrTruncated, PacketHeaderSize, len(data))
	}
	pkt := &Packet{
		Header: Header{
			PeerID:       binary.BigEndian.Uint16(data[0:2]),
			CRCEnabled:   data[2] != 0,
			CommandCount: data[3],
			SendTime:     binary.BigEndian.Uint32(data[4:8]),
			Challenge:    binary.BigEndian.Uint32(data[8:12]),
		},
	}

	off := PacketHeaderSize
	for off < len(data) {
		cmd, n, err := decodeCommand(data[off:])
		if err != nil {
			return pkt, fmt.Errorf("command %d at offset %d: %w", len(pkt.Commands), off, err)
		}
		pkt.Commands = append(pkt.Commands, cmd)
		off += n
	}
	return pkt, nil
}

func decodeCommand(b []byte) (Command, int, error) {
	if len(b) < CommandHeaderSize {
		return Command{}, 0, ErrTruncated
	}
	cmd := Command{
		Type:        CommandType(b[0]),
		ChannelID:   b[1],
		Flags:       b[2],
		Reserved:    b[3],
		Size:        binary.BigEndian.Uint32(b[4:8]),
		ReliableSeq: binary.BigEndian.Uint32(b[8:12]),
	}

	hl := cmd.Type.HeaderLen()
	if len(b) < hl {
		return Command{}, 0, ErrTruncated
	}
	if int64(cmd.Size) < int64(hl) || int64(cmd.Size) > int64(len(b)) {
		return Command{}, 0, fmt.Errorf("%w: %d", ErrBadCommandSize, cmd.Size)
	}

	switch cmd.Type {
	case CommandUnreliable:
		cmd.UnreliableSeq = binary.BigEndian.Uint32(b[12:16])
	case CommandFragmented:
		cmd.Fragment = &Fragment{
			StartSeq:    binary.BigEndian.Uint32(b[12:16]),
			Count:       binary.BigEndian.Uint32(b[16:20]),
			Number:      binary.BigEndian.Uint32(b[20:24]),
			TotalLength: binary.BigEndian.Uint32(b[24:28]),
			Offset:      binary.BigEndian.Uint32(b[28:32]),
		}
	}

	size := int(cmd.Size)
	if size > hl {
		cmd.Payload = make([]byte, size-hl)
		copy(cmd.Payload, b[hl:size])
	}
	return cmd, size, nil
}

// Encode serializes a packet. Command sizes are recomputed from the
// payloads and the command count from the number of commands.
func Encode(pkt *Packet) []byte {
	size := PacketHeaderSize
	for _, c := range pkt.Commands {
		size += c.Type.HeaderLen() + len(c.Payload)
	}

	buf := make([]byte, size)
	binary.BigEndian.PutUint16(buf[0:2], pkt.Header.PeerID)
	if pkt.Header.CRCEnabled {
		buf[2] = 1
	}
	buf[3] = uint8(len(pkt.Commands))
	binary.BigEndian.PutUint32(buf[4:8], pkt.Header.SendTime)
	binary.BigEndian.PutUint32(buf[8:12], pkt.Header.Challenge)

	off := PacketHeaderSize
	for _, c := range pkt.Commands {
		hl := c.Type.HeaderLen()
		b := buf[off : off+hl+len(c.Payload)]
		b[0] = uint8(c.Type)
		b[1] = c.ChannelID
		b[2] = c.Flags
		b[3] = c.Reserved
		binary.BigEndian.PutUint32(b[4:8], uint32(len(b)))
		binary.BigEndian.PutUint32(b[8:12], c.ReliableSeq)
		switch c.Type {
		case CommandUnreliable:
			binary.BigEndian.PutUint32(b[12:16], c.UnreliableSeq)
		case CommandFragmented:
			f := c.Fragment
			if f == nil {
				f = &Fragment{}
			}
			binary.BigEndian.PutUint32(b[12:16], f.StartSeq)
			binary.BigEndian.PutUint32(b[16:20], f.Count)
			binary.BigEndian.PutUint32(b[20:24], f.Number)
			binary.BigEndian.PutUint32(b[24:28], f.TotalLength)
			binary.BigEndian.PutUint32(b[28:32], f.Offset)
		}
		copy(b[hl:], c.Payload)
		off += len(b)
	}
	return buf
}
