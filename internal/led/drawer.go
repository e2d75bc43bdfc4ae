package led

import (
	"fmt"
	"image"
	"io"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-tubes/internal/color"
)

// DefaultFreq drives WS2812 strips over SPI.
const DefaultFreq = 2500 * physic.KiloHertz

// DrawerSink shows frames on a periph display.Drawer: an nrzled strip on
// SPI, or the terminal when no SPI port is present.
type DrawerSink struct {
	drawer display.Drawer
	port   io.Closer
	im     *image.NRGBA
	n      int
	spi    bool
}

// OpenSPI initialises the host drivers and opens the named SPI port ("" for
// the first one). Without a usable port it falls back to the console.
func OpenSPI(dev string, n int, freq physic.Frequency, log zerolog.Logger) (*DrawerSink, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(dev)
	if err != nil {
		log.Warn().Err(err).Str("dev", dev).Msg("no spi port, printing at the console")
		return NewConsoleSink(n), nil
	}
	s, err := NewSPISink(p, n, freq)
	if err != nil {
		p.Close()
		return nil, err
	}
	s.port = p
	log.Info().Str("dev", p.String()).Int("leds", n).Stringer("freq", freq).Msg("spi strip ready")
	return s, nil
}

// NewSPISink drives n WS2812 pixels through p.
func NewSPISink(p spi.Port, n int, freq physic.Frequency) (*DrawerSink, error) {
	if freq == 0 {
		freq = DefaultFreq
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{NumPixels: n, Channels: 3, Freq: freq})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	if err := d.Halt(); err != nil {
		return nil, fmt.Errorf("nrzled halt: %w", err)
	}
	return &DrawerSink{drawer: d, n: n, spi: true}, nil
}

// NewConsoleSink draws n pixels as ANSI colored blocks on stdout.
func NewConsoleSink(n int) *DrawerSink {
	return &DrawerSink{drawer: screen.New(n), n: n}
}

// SPI reports whether frames go to real hardware.
func (s *DrawerSink) SPI() bool { return s.spi }

func (s *DrawerSink) String() string { return s.drawer.String() }

func (s *DrawerSink) Show(px []color.RGB) error {
	if len(px) > s.n {
		px = px[:s.n]
	}
	s.im = Image(s.im, px)
	if err := s.drawer.Draw(s.drawer.Bounds(), s.im, image.Point{}); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the port.
func (s *DrawerSink) Close() error {
	err := s.drawer.Halt()
	if s.port != nil {
		if cerr := s.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
