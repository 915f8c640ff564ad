package photon

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MessageType is the byte following MessageMagic.
type MessageType uint8

const (
	MessageAppID MessageType = 0
	MessageAck   MessageType = 1
)

// appIDOffset is where the NUL padded application id starts. Byte 8 is unused.
const appIDOffset = 9

var (
	// ErrNotMessage is returned for payloads that do not start with MessageMagic.
	ErrNotMessage = errors.New("photon: not a message")
	// ErrUnknownMessage is returned for message types without a decoder.
	ErrUnknownMessage = errors.New("photon: unknown message type")
	// ErrBadAppID is returned when the application id is not valid UTF-8.
	ErrBadAppID = errors.New("photon: application id is not utf-8")
)

// Message is a decoded Photon message.
type Message interface {
	Type() MessageType
	String() string
}

// AppID is sent by the client to announce its versions and application.
type AppID struct {
	ProtocolVersion [2]uint8
	SDKVersion      uint8
	// ClientVersion is major.minor.build.revision; major and minor share
	// one byte on the wire, a nibble each.
	ClientVersion [4]uint8
	AppID         string
}

func (AppID) Type() MessageType { return MessageAppID }

func (m AppID) String() string {
	return fmt.Sprintf("app-id proto=%d.%d sdk=%d client=%d.%d.%d.%d id=%q",
		m.ProtocolVersion[0], m.ProtocolVersion[1], m.SDKVersion,
		m.ClientVersion[0], m.ClientVersion[1], m.ClientVersion[2], m.ClientVersion[3],
		m.AppID)
}

// Ack acknowledges an AppID.
type Ack struct {
	Value uint8
}

func (Ack) Type() MessageType { return MessageAck }

func (m Ack) String() string {
	return fmt.Sprintf("ack=%d", m.Value)
}

// DecodeMessage decodes a command payload starting with MessageMagic.
func DecodeMessage(payload []byte) (Message, error) {
	if len(payload) < 2 {
		return nil, fmt.Errorf("%w: message needs 2 bytes, have %d", ErrTruncated, len(payload))
	}
	if payload[0] != MessageMagic {
		return nil, fmt.Errorf("%w: starts with 0x%02x", ErrNotMessage, payload[0])
	}

	switch t := MessageType(payload[1]); t {
	case MessageAppID:
		if len(payload) < appIDOffset {
			return nil, fmt.Errorf("%w: app id message needs %d bytes, have %d", ErrTruncated, appIDOffset, len(payload))
		}
		raw := payload[appIDOffset:]
		if !utf8.Valid(raw) {
			return nil, ErrBadAppID
		}
		return AppID{
			ProtocolVersion: [2]uint8{payload[2], payload[3]},
			SDKVersion:      payload[4],
			ClientVersion:   [4]uint8{payload[5] >> 4, payload[5] & 0x0f, payload[6], payload[7]},
			AppID:           strings.ReplaceAll(string(raw), "\x00", ""),
		}, nil
	case MessageAck:
		if len(payload) < 3 {
			return nil, fmt.Errorf("%w: ack message needs 3 bytes, have %d", ErrTruncated, len(payload))
		}
		return Ack{Value: payload[2]}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMessage, uint8(t))
	}
}

// Message decodes the command payload as a Photon message.
func (c Command) Message() (Message, error) {
	return DecodeMessage(c.Payload)
}
