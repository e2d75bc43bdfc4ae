package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

const (
	// Version is carried in the top 4 bits of every command word.
	Version = 1

	PayloadSize = 25
	FrameSize   = 2 + 1 + 1 + PayloadSize + 2
)

// Reserved tube ids.
const (
	BroadcastID  = 0   // unsolicited, never a master
	DesignatedID = 254 // designated master device
	EphemeralID  = 255 // one-shot command source, not a real tube

	minTubeID = 10
	maxTubeID = 250 // exclusive
)

var (
	ErrShortMessage  = errors.New("protocol: short message")
	ErrPayloadTooBig = errors.New("protocol: payload too big")
	ErrVersion       = errors.New("protocol: version mismatch")
	ErrBadCRC        = errors.New("protocol: bad crc")
)

// Command is a 12-bit opcode.
type Command uint16

const (
	Hello      Command = 0x000
	Update     Command = 0x411
	Next       Command = 0x321
	Options    Command = 0x123
	Brightness Command = 0x888
	Reset      Command = 0x911
	Firework   Command = 0xFFF
)

var commandNames = map[Command]string{
	Hello:      "hello",
	Update:     "update",
	Next:       "next",
	Options:    "options",
	Brightness: "brightness",
	Reset:      "reset",
	Firework:   "firework",
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return fmt.Sprintf("cmd(%03x)", uint16(c))
}

// Message is one radio frame. Relay is zero for direct messages and holds
// the originating tube for relayed ones, in which case Sender is the relay.
type Message struct {
	Version uint8
	Command Command
	Sender  uint8
	Relay   uint8
	Payload [PayloadSize]byte
	CRC     uint16
}

// NewMessage builds a current-version message with a zero-padded payload
// and its CRC.
func NewMessage(cmd Command, sender, relay uint8, payload []byte) (Message, error) {
	if len(payload) > PayloadSize {
		return Message{}, fmt.Errorf("%s payload of %d bytes: %w", cmd, len(payload), ErrPayloadTooBig)
	}
	m := Message{Version: Version, Command: cmd & 0xFFF, Sender: sender, Relay: relay}
	copy(m.Payload[:], payload)
	m.CRC = CRC16(m.Payload[:])
	return m, nil
}

// Origin is the tube that authored the message.
func (m Message) Origin() uint8 {
	if m.Relay != BroadcastID {
		return m.Relay
	}
	return m.Sender
}

func (m Message) Relayed() bool { return m.Relay != BroadcastID }

// Validate checks version and payload CRC.
func (m Message) Validate() error {
	if m.Version != Version {
		return fmt.Errorf("version %d: %w", m.Version, ErrVersion)
	}
	if crc := CRC16(m.Payload[:]); crc != m.CRC {
		return fmt.Errorf("crc %04x, want %04x: %w", m.CRC, crc, ErrBadCRC)
	}
	return nil
}

// Marshal encodes m in its little-endian wire layout.
func (m Message) Marshal() []byte {
	b := make([]byte, FrameSize)
	binary.LittleEndian.PutUint16(b[0:], uint16(m.Version)<<12|uint16(m.Command&0xFFF))
	b[2] = m.Sender
	b[3] = m.Relay
	copy(b[4:], m.Payload[:])
	binary.LittleEndian.PutUint16(b[4+PayloadSize:], m.CRC)
	return b
}

// Decode parses a frame without validating it.
func Decode(b []byte) (Message, error) {
	if len(b) < FrameSize {
		return Message{}, fmt.Errorf("decode %d bytes: %w", len(b), ErrShortMessage)
	}
	word := binary.LittleEndian.Uint16(b[0:])
	m := Message{
		Version: uint8(word >> 12),
		Command: Command(word & 0xFFF),
		Sender:  b[2],
		Relay:   b[3],
		CRC:     binary.LittleEndian.Uint16(b[4+PayloadSize:]),
	}
	copy(m.Payload[:], b[4:4+PayloadSize])
	return m, nil
}

func (m Message) MarshalZerologObject(e *zerolog.Event) {
	e.Stringer("cmd", m.Command).Uint8("from", m.Sender)
	if m.Relayed() {
		e.Uint8("relay", m.Relay)
	}
}
