package transport

import (
	"math/rand"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAirBroadcast(t *testing.T) {
	air := NewAir(0, rand.New(rand.NewSource(1)))
	a, b, c := air.Join(), air.Join(), air.Join()
	require.Equal(t, 3, air.Ports())

	frame := []byte{1, 2, 3}
	require.NoError(t, a.Send(frame))
	frame[0] = 9

	for _, p := range []*Port{b, c} {
		got, ok := p.Poll()
		require.True(t, ok)
		assert.Equal(t, []byte{1, 2, 3}, got, "delivered frames are copies")
		_, ok = p.Poll()
		assert.False(t, ok)
	}
	_, ok := a.Poll()
	assert.False(t, ok, "a port does not hear itself")
}

func TestAirLossAndOverflow(t *testing.T) {
	air := NewAir(1, rand.New(rand.NewSource(1)))
	a, b := air.Join(), air.Join()
	require.NoError(t, a.Send([]byte{1}))
	_, ok := b.Poll()
	assert.False(t, ok)
	_, lost, _ := b.Stats()
	assert.Equal(t, uint64(1), lost)

	air.SetLoss(0)
	for i := 0; i < DefaultDepth+5; i++ {
		require.NoError(t, a.Send([]byte{byte(i)}))
	}
	_, _, overflow := b.Stats()
	assert.Equal(t, uint64(5), overflow)
	sent, _, _ := a.Stats()
	assert.Equal(t, uint64(DefaultDepth+6), sent)
}

func TestAirClose(t *testing.T) {
	air := NewAir(0, rand.New(rand.NewSource(1)))
	a, b := air.Join(), air.Join()
	require.NoError(t, b.Close())
	assert.ErrorIs(t, b.Close(), ErrClosed)
	assert.ErrorIs(t, b.Send([]byte{1}), ErrClosed)
	assert.Equal(t, 1, air.Ports())
	require.NoError(t, a.Send([]byte{1}))
}

func freePort(t *testing.T) int {
	t.Helper()
	c, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	port := c.LocalAddr().(*net.UDPAddr).Port
	require.NoError(t, c.Close())
	return port
}

func TestUDPEchoAndReceive(t *testing.T) {
	port := freePort(t)
	u, err := ListenUDP("127.0.0.1", port, 4, zerolog.Nop())
	require.NoError(t, err)
	defer u.Close()

	require.NoError(t, u.Send([]byte("self")))
	require.Eventually(t, func() bool { return u.Stats().Echoes == 1 }, time.Second, 5*time.Millisecond)
	_, ok := u.Poll()
	assert.False(t, ok)

	peer, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port})
	require.NoError(t, err)
	defer peer.Close()
	_, err = peer.Write([]byte("peer"))
	require.NoError(t, err)

	var got []byte
	require.Eventually(t, func() bool {
		f, ok := u.Poll()
		got = f
		return ok
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []byte("peer"), got)
	assert.Equal(t, uint64(1), u.Stats().Received)
}

func TestUDPClose(t *testing.T) {
	u, err := ListenUDP("127.0.0.1", freePort(t), 0, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, u.Close())
	assert.ErrorIs(t, u.Close(), ErrClosed)
	assert.ErrorIs(t, u.Send([]byte{1}), ErrClosed)
}

func TestUDPBadAddress(t *testing.T) {
	_, err := ListenUDP("not-an-ip", freePort(t), 0, zerolog.Nop())
	assert.Error(t, err)
}
