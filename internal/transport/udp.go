package transport

import (
	"errors"
	"fmt"
	"net"
	"syscall"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

const (
	DefaultPort = 7331
	maxDatagram = 64
	echoCache   = 16
)

// UDPStats are counters updated by the reader goroutine.
type UDPStats struct {
	Received uint64
	Dropped  uint64
	Echoes   uint64
	Errors   uint64
}

// UDP broadcasts frames on a LAN. A reader goroutine feeds a bounded inbox
// which Poll drains without blocking; frames arriving at a full inbox are
// dropped.
type UDP struct {
	conn  *net.UDPConn
	bcast *net.UDPAddr
	inbox chan []byte
	sent  *lru.Cache[string, struct{}]
	done  chan struct{}
	log   zerolog.Logger

	received *atomic.Uint64
	dropped  *atomic.Uint64
	echoes   *atomic.Uint64
	errors   *atomic.Uint64
	closed   *atomic.Bool
}

// ListenUDP binds port on all interfaces and broadcasts to bcast:port.
// An empty bcast means the limited broadcast address.
func ListenUDP(bcast string, port int, depth int, log zerolog.Logger) (*UDP, error) {
	if port <= 0 {
		port = DefaultPort
	}
	if depth <= 0 {
		depth = DefaultDepth
	}
	ip := net.IPv4bcast
	if bcast != "" {
		ip = net.ParseIP(bcast)
		if ip == nil {
			return nil, fmt.Errorf("invalid broadcast address %q", bcast)
		}
	}
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: port})
	if err != nil {
		return nil, fmt.Errorf("listen udp :%d: %w", port, err)
	}
	if raw, err := conn.SyscallConn(); err == nil {
		raw.Control(func(fd uintptr) {
			_ = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_BROADCAST, 1)
		})
	}
	sent, err := lru.New[string, struct{}](echoCache)
	if err != nil {
		conn.Close()
		return nil, err
	}
	u := &UDP{
		conn:     conn,
		bcast:    &net.UDPAddr{IP: ip, Port: port},
		inbox:    make(chan []byte, depth),
		sent:     sent,
		done:     make(chan struct{}),
		log:      log.With().Str("component", "udp").Logger(),
		received: atomic.NewUint64(0),
		dropped:  atomic.NewUint64(0),
		echoes:   atomic.NewUint64(0),
		errors:   atomic.NewUint64(0),
		closed:   atomic.NewBool(false),
	}
	go u.readLoop()
	u.log.Info().Str("addr", conn.LocalAddr().String()).Str("broadcast", u.bcast.String()).Msg("udp transport up")
	return u, nil
}

func (u *UDP) readLoop() {
	defer close(u.done)
	buf := make([]byte, maxDatagram)
	for {
		n, _, err := u.conn.ReadFromUDP(buf)
		if err != nil {
			if u.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			u.errors.Inc()
			u.log.Debug().Err(err).Msg("read")
			continue
		}
		frame := append([]byte(nil), buf[:n]...)
		// Broadcasts loop back to the sender.
		if key := string(frame); u.sent.Contains(key) {
			u.sent.Remove(key)
			u.echoes.Inc()
			continue
		}
		select {
		case u.inbox <- frame:
			u.received.Inc()
		default:
			u.dropped.Inc()
		}
	}
}

func (u *UDP) Send(frame []byte) error {
	if u.closed.Load() {
		return ErrClosed
	}
	u.sent.Add(string(frame), struct{}{})
	if _, err := u.conn.WriteToUDP(frame, u.bcast); err != nil {
		u.sent.Remove(string(frame))
		return fmt.Errorf("udp send: %w", err)
	}
	return nil
}

func (u *UDP) Poll() ([]byte, bool) {
	select {
	case f := <-u.inbox:
		return f, true
	default:
		return nil, false
	}
}

// Close stops the reader and releases the socket.
func (u *UDP) Close() error {
	if !u.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	err := u.conn.Close()
	<-u.done
	return err
}

func (u *UDP) LocalAddr() net.Addr { return u.conn.LocalAddr() }

func (u *UDP) Stats() UDPStats {
	return UDPStats{
		Received: u.received.Load(),
		Dropped:  u.dropped.Load(),
		Echoes:   u.echoes.Load(),
		Errors:   u.errors.Load(),
	}
}
