package cc1101

import (
	"context"
	"time"

	"github.com/ecc1/radio"
	"github.com/pkg/errors"
)

const receivePollInterval = 1 * time.Millisecond

// Generic drives a Radio through radio.Interface, the blocking API
// shared by the other ecc1 radio drivers.
// The first error is kept and turns later calls into no-ops until SetError(nil).
type Generic struct {
	r   *Radio
	ctx context.Context
	err error
}

var _ radio.Interface = (*Generic)(nil)

// NewGeneric returns a radio.Interface view of r.
func NewGeneric(r *Radio) *Generic {
	return &Generic{r: r, ctx: context.Background()}
}

// Radio returns the underlying device.
func (g *Generic) Radio() *Radio {
	return g.r
}

// Init resets the chip, checks its identity, loads the default
// configuration, and tunes it to frequency.
func (g *Generic) Init(frequency uint32) {
	g.Reset()
	if g.err != nil {
		return
	}
	if g.err = g.r.SelfTest(); g.err != nil {
		return
	}
	if g.err = g.r.LoadDefaultConfiguration(); g.err != nil {
		return
	}
	g.SetFrequency(frequency)
}

// Reset resets the chip and waits until it is idle.
func (g *Generic) Reset() {
	if g.err != nil {
		return
	}
	if g.err = g.r.Reset(); g.err != nil {
		return
	}
	_, g.err = g.r.WaitForState(g.ctx, StateIdle)
}

// Close closes the radio device.
func (g *Generic) Close() {
	g.err = g.r.Close()
}

// Frequency returns the radio's current frequency, in Hertz.
func (g *Generic) Frequency() uint32 {
	if g.err != nil {
		return 0
	}
	var f uint32
	f, g.err = g.r.Frequency()
	return f
}

// SetFrequency sets the radio to the given frequency, in Hertz.
func (g *Generic) SetFrequency(freq uint32) {
	if g.err != nil {
		return
	}
	g.err = g.r.SetFrequency(freq)
}

// Send transmits the given packet.
// A transmission the chip could not complete is not an error.
func (g *Generic) Send(data []byte) {
	if g.err != nil {
		return
	}
	ok, err := g.r.Send(g.ctx, data)
	if err != nil {
		g.err = err
		return
	}
	if !ok {
		g.r.log.WithField("length", len(data)).Debug("packet not sent")
	}
}

// Receive listens with the given timeout for an incoming packet.
// It returns the packet and the associated RSSI in dBm.
func (g *Generic) Receive(timeout time.Duration) ([]byte, int) {
	if g.err != nil {
		return nil, 0
	}
	if g.err = g.r.StartRX(g.ctx); g.err != nil {
		return nil, 0
	}
	var p *Packet
	g.err = g.r.poll(g.ctx, "packet", receivePollInterval, timeout, func() (bool, error) {
		var err error
		p, err = g.r.Receive(g.ctx)
		if errors.Is(err, ErrPayloadTooLarge) {
			g.r.log.WithError(err).Debug("packet dropped")
			return false, nil
		}
		return p != nil, err
	})
	if errors.Is(g.err, ErrTimeout) {
		g.err = nil
		return nil, 0
	}
	if g.err != nil || p == nil {
		return nil, 0
	}
	return p.Data, g.rssi(p)
}

func (g *Generic) rssi(p *Packet) int {
	if p.Status != nil {
		return p.Status.RSSIdBm()
	}
	raw, err := g.r.ReadRSSI()
	if err != nil {
		g.err = err
		return 0
	}
	return RSSIToDBm(raw)
}

// SendAndReceive sends the given packet,
// then listens with the given timeout for an incoming packet.
// It returns the packet and the associated RSSI in dBm.
func (g *Generic) SendAndReceive(p []byte, timeout time.Duration) ([]byte, int) {
	g.Send(p)
	return g.Receive(timeout)
}

// State returns the name of the chip's MARCSTATE.
func (g *Generic) State() string {
	if g.err != nil {
		return ""
	}
	s, err := g.r.State()
	if err != nil {
		g.err = err
		return ""
	}
	return s.String()
}

// Error returns the error state of the radio device.
func (g *Generic) Error() error {
	return g.err
}

// SetError sets the error state of the radio device.
func (g *Generic) SetError(err error) {
	g.err = err
}

// Name returns the radio's name.
func (g *Generic) Name() string {
	return g.r.Name()
}

// Device returns the pathname of the radio's device.
func (g *Generic) Device() string {
	return g.r.Device()
}
