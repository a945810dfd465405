package cc1101

import (
	"sync"
	"time"

	"github.com/ecc1/gpio"
	"github.com/ecc1/spi"
	"github.com/sirupsen/logrus"
)

// Bus is a full-duplex byte exchange with the chip.
// Transfer shifts buf out and replaces it with the bytes shifted in,
// framed by a single chip-select assertion.
type Bus interface {
	Transfer(buf []byte) error
	Close() error
}

// duplexDevice is the shape of *spi.Device: separate send and receive buffers.
type duplexDevice interface {
	Transfer(snd, rcv []byte) error
	Close() error
}

var _ duplexDevice = (*spi.Device)(nil)

// spidevBus adapts a Linux spidev device to Bus.
type spidevBus struct {
	dev duplexDevice
	rcv []byte
}

func (b *spidevBus) Transfer(buf []byte) error {
	if cap(b.rcv) < len(buf) {
		b.rcv = make([]byte, len(buf))
	}
	rcv := b.rcv[:len(buf)]
	if err := b.dev.Transfer(buf, rcv); err != nil {
		return err
	}
	copy(buf, rcv)
	return nil
}

func (b *spidevBus) Close() error {
	return b.dev.Close()
}

// Options controls timing and hardware details of a Radio.
// Zero fields are replaced by the values from DefaultOptions.
// A negative TXSettle or RecoveryDelay disables that delay.
type Options struct {
	// SPIDevice and SPISpeed are used by Open only.
	SPIDevice string
	SPISpeed  int // Hz

	// Oscillator is the crystal frequency in Hz.
	Oscillator uint32

	// StatePollInterval is the delay between MARCSTATE reads while waiting for a state.
	StatePollInterval time.Duration
	// StateTimeout bounds every wait for a chip state.
	StateTimeout time.Duration

	// TXSettle is the delay between filling the TX FIFO and strobing STX.
	TXSettle time.Duration
	// TXPollInterval is the delay between TXBYTES reads while a packet drains.
	TXPollInterval time.Duration
	// TXTimeout bounds the wait for the TX FIFO to drain.
	TXTimeout time.Duration
	// RecoveryDelay is the pause before re-entering RX after a failed transmission.
	RecoveryDelay time.Duration

	// TXEnable is driven high while transmitting, for modules with an
	// external PA/LNA switch. Open sets it up from the platform
	// configuration when it is nil.
	TXEnable gpio.OutputPin

	Clock  Clock
	Logger logrus.FieldLogger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		SPIDevice:         spiDevice,
		SPISpeed:          50000,
		Oscillator:        FXOSC,
		StatePollInterval: 100 * time.Microsecond,
		StateTimeout:      500 * time.Millisecond,
		TXSettle:          2 * time.Millisecond,
		TXPollInterval:    1 * time.Millisecond,
		TXTimeout:         1 * time.Second,
		RecoveryDelay:     5 * time.Second,
		Clock:             SystemClock(),
		Logger:            logrus.StandardLogger(),
	}
}

func (o *Options) fillDefaults() {
	d := DefaultOptions()
	if o.SPIDevice == "" {
		o.SPIDevice = d.SPIDevice
	}
	if o.SPISpeed == 0 {
		o.SPISpeed = d.SPISpeed
	}
	if o.Oscillator == 0 {
		o.Oscillator = d.Oscillator
	}
	if o.StatePollInterval == 0 {
		o.StatePollInterval = d.StatePollInterval
	}
	if o.StateTimeout == 0 {
		o.StateTimeout = d.StateTimeout
	}
	o.TXSettle = delayOrDefault(o.TXSettle, d.TXSettle)
	if o.TXPollInterval == 0 {
		o.TXPollInterval = d.TXPollInterval
	}
	if o.TXTimeout == 0 {
		o.TXTimeout = d.TXTimeout
	}
	o.RecoveryDelay = delayOrDefault(o.RecoveryDelay, d.RecoveryDelay)
	if o.Clock == nil {
		o.Clock = d.Clock
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
}

func delayOrDefault(d, def time.Duration) time.Duration {
	switch {
	case d < 0:
		return 0
	case d == 0:
		return def
	}
	return d
}

// Counts holds sent and received totals.
type Counts struct {
	Sent     int
	Received int
}

// Statistics contains the byte and packet counts for a radio device.
type Statistics struct {
	Bytes   Counts
	Packets Counts
}

// Radio represents an open CC1101 device.
// Operations are serialized; a Radio must be the only user of its bus.
type Radio struct {
	mu       sync.Mutex
	bus      Bus
	opts     Options
	log      *logrus.Entry
	txEnable gpio.OutputPin
	stats    Statistics
}

// Open opens the SPI device named in opts (or the platform default)
// and returns a Radio that owns it.
// The chip is not reset; call Reset, SelfTest and LoadDefaultConfiguration as needed.
func Open(opts Options) (*Radio, error) {
	opts.fillDefaults()
	dev, err := spi.Open(opts.SPIDevice, opts.SPISpeed, customCS)
	if err != nil {
		return nil, &TransportError{Op: "open " + opts.SPIDevice, Err: err}
	}
	if opts.TXEnable == nil && txEnablePin >= 0 {
		opts.TXEnable, err = gpio.Output(txEnablePin, false, false)
		if err != nil {
			_ = dev.Close()
			return nil, err
		}
	}
	return New(&spidevBus{dev: dev}, opts), nil
}

// New returns a Radio that drives the chip through bus.
// The Radio takes ownership of bus and closes it in Close.
func New(bus Bus, opts Options) *Radio {
	opts.fillDefaults()
	return &Radio{
		bus:      bus,
		opts:     opts,
		log:      opts.Logger.WithField("radio", "cc1101"),
		txEnable: opts.TXEnable,
	}
}

// Close releases the bus.
func (r *Radio) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setTXEnable(false)
	return r.bus.Close()
}

// Name returns the radio's name.
func (r *Radio) Name() string {
	return "CC1101"
}

// Device returns the pathname of the radio's device.
func (r *Radio) Device() string {
	return r.opts.SPIDevice
}

// Statistics returns the byte and packet counts for the radio device.
func (r *Radio) Statistics() Statistics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *Radio) setTXEnable(on bool) {
	if r.txEnable == nil {
		return
	}
	if err := r.txEnable.Write(on); err != nil {
		r.log.WithError(err).Warn("cannot drive TX enable pin")
	}
}
