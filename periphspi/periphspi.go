// Package periphspi provides a cc1101.Bus on top of periph.io SPI ports,
// for boards where the spidev-based default is not available.
package periphspi

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DefaultSpeed is the SPI clock used when Open is given zero.
const DefaultSpeed = 50 * physic.KiloHertz

// Bus is an open SPI connection to a CC1101.
type Bus struct {
	port spi.PortCloser
	conn spi.Conn
}

// Open initializes the host drivers and opens the named SPI port
// (the first one available if name is empty) in mode 0 with 8-bit words.
func Open(name string, speed physic.Frequency) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize periph host drivers")
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open SPI port %q", name)
	}
	if speed == 0 {
		speed = DefaultSpeed
	}
	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		_ = p.Close()
		return nil, errors.Wrap(err, "failed to connect to CC1101 over SPI")
	}
	return New(p, c), nil
}

// New wraps an existing connection. Close closes port.
func New(port spi.PortCloser, conn spi.Conn) *Bus {
	return &Bus{port: port, conn: conn}
}

// Transfer exchanges buf with the chip in a single transaction.
func (b *Bus) Transfer(buf []byte) error {
	r := make([]byte, len(buf))
	if err := b.conn.Tx(buf, r); err != nil {
		return err
	}
	copy(buf, r)
	return nil
}

// Close releases the SPI port.
func (b *Bus) Close() error {
	return b.port.Close()
}

// String returns the name of the underlying connection.
func (b *Bus) String() string {
	return b.conn.String()
}
