package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageWireLayout(t *testing.T) {
	m, err := NewMessage(Update, 42, 7, []byte{0xAA, 0xBB})
	require.NoError(t, err)

	b := m.Marshal()
	require.Len(t, b, FrameSize)
	assert.Equal(t, []byte{0x11, 0x14}, b[:2], "version 1 over opcode 0x411, little endian")
	assert.Equal(t, byte(42), b[2])
	assert.Equal(t, byte(7), b[3])
	assert.Equal(t, []byte{0xAA, 0xBB, 0}, b[4:7])
	assert.Equal(t, m.CRC, uint16(b[29])|uint16(b[30])<<8)

	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, m, got)
	assert.NoError(t, got.Validate())
	assert.True(t, got.Relayed())
	assert.Equal(t, uint8(7), got.Origin())
}

func TestDecodeShortFrame(t *testing.T) {
	_, err := Decode(make([]byte, FrameSize-1))
	assert.ErrorIs(t, err, ErrShortMessage)
}

func TestValidate(t *testing.T) {
	m, err := NewMessage(Hello, 1, 0, nil)
	require.NoError(t, err)
	assert.False(t, m.Relayed())
	assert.Equal(t, uint8(1), m.Origin())

	bad := m
	bad.Payload[3] ^= 0x10
	assert.ErrorIs(t, bad.Validate(), ErrBadCRC)

	old := m
	old.Version = 2
	assert.ErrorIs(t, old.Validate(), ErrVersion)
}

func TestCRC16OfEmptyPayload(t *testing.T) {
	assert.Equal(t, uint16(0xFFFF), CRC16(nil))
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "update", Update.String())
	assert.Equal(t, "cmd(777)", Command(0x777).String())
}
