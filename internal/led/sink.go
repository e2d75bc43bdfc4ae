// Package led holds the strip sinks: periph SPI output with a console
// fallback, an in-memory sink, fan-out and the refresh cadence gate.
package led

import (
	"image"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/coreman2200/funtimes-tubes/internal/color"
)

// Sink displays one frame of pixels.
type Sink interface {
	Show(px []color.RGB) error
	Close() error
}

// Pack appends px to dst as consecutive r, g, b bytes.
func Pack(dst []byte, px []color.RGB) []byte {
	for _, c := range px {
		dst = append(dst, c.R, c.G, c.B)
	}
	return dst
}

// Image renders px into a one-row image, reusing im when it fits.
func Image(im *image.NRGBA, px []color.RGB) *image.NRGBA {
	if im == nil || im.Rect.Dx() != len(px) {
		im = image.NewNRGBA(image.Rect(0, 0, len(px), 1))
	}
	for i, c := range px {
		o := i * 4
		im.Pix[o], im.Pix[o+1], im.Pix[o+2], im.Pix[o+3] = c.R, c.G, c.B, 0xFF
	}
	return im
}

// Memory keeps the last frame shown. It is safe for concurrent readers.
type Memory struct {
	mu     sync.RWMutex
	frame  []color.RGB
	frames int
	closed bool
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Show(px []color.RGB) error {
	m.mu.Lock()
	m.frame = append(m.frame[:0], px...)
	m.frames++
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Frame returns a copy of the last frame.
func (m *Memory) Frame() []color.RGB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]color.RGB(nil), m.frame...)
}

func (m *Memory) Frames() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frames
}

func (m *Memory) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Tee shows every frame on all sinks.
type Tee []Sink

func (t Tee) Show(px []color.RGB) error {
	var result error
	for _, s := range t {
		if err := s.Show(px); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

func (t Tee) Close() error {
	var result error
	for _, s := range t {
		if err := s.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}
