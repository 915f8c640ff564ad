// Package photon decodes the reliable-UDP framing carried in captured game
// traffic: a 12 byte packet header followed by a list of commands.
package photon

import "fmt"

// CommandType identifies a command inside a packet.
type CommandType uint8

const (
	CommandAck           CommandType = 1
	CommandConnect       CommandType = 2
	CommandVerifyConnect CommandType = 3
	CommandDisconnect    CommandType = 4
	CommandPing          CommandType = 5
	CommandReliable      CommandType = 6
	CommandUnreliable    CommandType = 7
	CommandFragmented    CommandType = 8
)

func (t CommandType) String() string {
	switch t {
	case CommandAck:
		return "ack"
	case CommandConnect:
		return "connect"
	case CommandVerifyConnect:
		return "verify-connect"
	case CommandDisconnect:
		return "disconnect"
	case CommandPing:
		return "ping"
	case CommandReliable:
		return "reliable"
	case CommandUnreliable:
		return "unreliable"
	case CommandFragmented:
		return "fragmented"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(t))
	}
}

// HeaderLen returns the size of the command header for t.
func (t CommandType) HeaderLen() int {
	switch t {
	case CommandUnreliable:
		return UnreliableHeaderSize
	case CommandFragmented:
		return FragmentHeaderSize
	default:
		return CommandHeaderSize
	}
}

const (
	// PacketHeaderSize is PeerID(2) + CRC flag(1) + CommandCount(1) + SendTime(4) + Challenge(4).
	PacketHeaderSize = 12
	// CommandHeaderSize is Type, Channel, Flags, Reserved (1 each) + Size(4) + ReliableSeq(4).
	CommandHeaderSize = 12
	// UnreliableHeaderSize adds UnreliableSeq(4).
	UnreliableHeaderSize = 16
	// FragmentHeaderSize adds StartSeq, FragmentCount, FragmentNumber, TotalLength, FragmentOffset (4 each).
	FragmentHeaderSize = 32

	// MessageMagic starts every Photon message inside a command payload.
	MessageMagic = 0xf3
)

// Header is the packet header.
type Header struct {
	PeerID       uint16
	CRCEnabled   bool
	CommandCount uint8
	SendTime     uint32
	Challenge    uint32
}

// Fragment holds the extra fields of a fragmented command.
type Fragment struct {
	StartSeq    uint32
	Count       uint32
	Number      uint32
	TotalLength uint32
	Offset      uint32
}

// Command is one decoded command.
type Command struct {
	Type          CommandType
	ChannelID     uint8
	Flags         uint8
	Reserved      uint8
	Size          uint32
	ReliableSeq   uint32
	UnreliableSeq uint32    // CommandUnreliable only
	Fragment      *Fragment // CommandFragmented only
	Payload       []byte
}

// MessageKind returns byte 1 of a payload starting with MessageMagic.
func (c Command) MessageKind() (uint8, bool) {
	if len(c.Payload) < 2 || c.Payload[0] != MessageMagic {
		return 0, false
	}
	return c.Payload[1], true
}

// Packet is a decoded packet.
type Packet struct {
	Header   Header
	Commands []Command
}
