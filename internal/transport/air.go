// Package transport provides broadcast links for the tube radio protocol:
// an in-memory lossy medium for tests and simulation, and UDP broadcast.
package transport

import (
	"errors"
	"math/rand"
	"sync"
)

var ErrClosed = errors.New("transport: closed")

// DefaultDepth is the per-port inbox size. Frames arriving at a full inbox
// are dropped, like a radio FIFO overflowing.
const DefaultDepth = 32

// Air is a shared broadcast medium. Every frame sent by one port is
// delivered to every other open port unless lost.
type Air struct {
	mu    sync.Mutex
	ports map[*Port]struct{}
	loss  float64
	depth int
	rng   *rand.Rand
}

// NewAir creates a medium that drops each delivery with probability loss.
func NewAir(loss float64, rng *rand.Rand) *Air {
	return &Air{
		ports: make(map[*Port]struct{}),
		loss:  loss,
		depth: DefaultDepth,
		rng:   rng,
	}
}

func (a *Air) SetLoss(loss float64) {
	a.mu.Lock()
	a.loss = loss
	a.mu.Unlock()
}

// Join attaches a new port to the medium.
func (a *Air) Join() *Port {
	p := &Port{air: a}
	a.mu.Lock()
	a.ports[p] = struct{}{}
	a.mu.Unlock()
	return p
}

// Ports is the number of open ports.
func (a *Air) Ports() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.ports)
}

func (a *Air) broadcast(from *Port, frame []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for p := range a.ports {
		if p == from {
			continue
		}
		if a.loss > 0 && a.rng.Float64() < a.loss {
			p.lost++
			continue
		}
		if len(p.inbox) >= a.depth {
			p.overflow++
			continue
		}
		p.inbox = append(p.inbox, append([]byte(nil), frame...))
	}
}

// Port is one node's attachment to an Air.
type Port struct {
	air    *Air
	closed bool

	// guarded by air.mu
	inbox    [][]byte
	lost     uint64
	overflow uint64
	sent     uint64
}

func (p *Port) Send(frame []byte) error {
	p.air.mu.Lock()
	if p.closed {
		p.air.mu.Unlock()
		return ErrClosed
	}
	p.sent++
	p.air.mu.Unlock()
	p.air.broadcast(p, frame)
	return nil
}

func (p *Port) Poll() ([]byte, bool) {
	p.air.mu.Lock()
	defer p.air.mu.Unlock()
	if len(p.inbox) == 0 {
		return nil, false
	}
	f := p.inbox[0]
	p.inbox[0] = nil
	p.inbox = p.inbox[1:]
	return f, true
}

func (p *Port) Close() error {
	p.air.mu.Lock()
	defer p.air.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.closed = true
	p.inbox = nil
	delete(p.air.ports, p)
	return nil
}

// Stats reports frames sent, lost in the air and dropped on overflow.
func (p *Port) Stats() (sent, lost, overflow uint64) {
	p.air.mu.Lock()
	defer p.air.mu.Unlock()
	return p.sent, p.lost, p.overflow
}
