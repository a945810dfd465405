package cc1101

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// fakeChip simulates a CC1101 behind the SPI bus: a register file,
// the two FIFOs and enough of the main radio state machine for the driver.
type fakeChip struct {
	regs    [NumConfigRegisters]byte
	patable byte
	state   State
	partnum byte
	version byte
	rssi    byte

	rxFIFO     []byte
	rxOverflow bool
	txFIFO     []byte
	sent       [][]byte

	frames     [][]byte // every frame as shifted out by the driver
	strobes    []Strobe
	writes     int // register and FIFO write transactions
	fifoWrites int
	closed     bool

	// Behaviour knobs.
	err          error // returned by every Transfer when set
	ignoreIdle   bool  // SIDLE leaves the state unchanged
	ignoreTX     bool  // STX leaves the state unchanged
	stuckTX      bool  // TX FIFO never drains
	underflowTX  bool  // TX FIFO reports underflow
	overflowOnRX int   // number of SRX strobes that land in RXFIFO_OVERFLOW
}

func newFakeChip() *fakeChip {
	c := &fakeChip{}
	c.reset()
	return c
}

// reset loads the datasheet reset values of the registers used in tests.
func (c *fakeChip) reset() {
	c.regs = [NumConfigRegisters]byte{}
	c.regs[SYNC1] = 0xD3
	c.regs[SYNC0] = 0x91
	c.regs[PKTLEN] = 0xFF
	c.regs[PKTCTRL1] = 0x04
	c.regs[PKTCTRL0] = 0x45
	c.regs[FREQ2] = 0x1E
	c.regs[FREQ1] = 0xC4
	c.regs[FREQ0] = 0xEC
	c.regs[MDMCFG2] = 0x13
	c.regs[MDMCFG1] = 0x22
	c.state = StateIdle
	c.partnum = expectedPartnum
	c.version = expectedVersion
	c.rxFIFO = nil
	c.txFIFO = nil
	c.rxOverflow = false
}

func (c *fakeChip) Transfer(buf []byte) error {
	if c.err != nil {
		return c.err
	}
	c.frames = append(c.frames, append([]byte(nil), buf...))
	hdr := buf[0]
	addr := hdr & 0x3F
	read := hdr&0x80 != 0
	burst := hdr&0x40 != 0
	out := make([]byte, len(buf))
	out[0] = 0x0F // chip status byte, ignored by the driver
	switch {
	case addr >= 0x30 && addr <= 0x3D && read && burst:
		out[1] = c.status(StatusRegister(hdr))
	case addr >= 0x30 && addr <= 0x3D:
		c.strobe(Strobe(addr))
	case read:
		for i := 1; i < len(buf); i++ {
			a := addr
			if burst && addr < 0x3E {
				a += byte(i - 1)
			}
			out[i] = c.read(a)
		}
	default:
		c.writes++
		if addr == byte(TXFIFO) {
			c.fifoWrites++
		}
		for i := 1; i < len(buf); i++ {
			a := addr
			if burst && addr < 0x3E {
				a += byte(i - 1)
			}
			c.write(a, buf[i])
		}
	}
	copy(buf, out)
	return nil
}

func (c *fakeChip) Close() error {
	c.closed = true
	return nil
}

func (c *fakeChip) read(addr byte) byte {
	switch {
	case addr == byte(RXFIFO):
		if len(c.rxFIFO) == 0 {
			return 0
		}
		b := c.rxFIFO[0]
		c.rxFIFO = c.rxFIFO[1:]
		return b
	case addr == byte(PATABLE):
		return c.patable
	case int(addr) < NumConfigRegisters:
		return c.regs[addr]
	}
	return 0
}

func (c *fakeChip) write(addr byte, v byte) {
	switch {
	case addr == byte(TXFIFO):
		c.txFIFO = append(c.txFIFO, v)
	case addr == byte(PATABLE):
		c.patable = v
	case int(addr) < NumConfigRegisters:
		c.regs[addr] = v
	}
}

func (c *fakeChip) status(s StatusRegister) byte {
	switch s {
	case PARTNUM:
		return c.partnum
	case VERSION:
		return c.version
	case MARCSTATE:
		return 0xE0 | byte(c.state)
	case RSSI:
		return c.rssi
	case TXBYTES:
		if c.state == StateTX && !c.stuckTX && !c.underflowTX {
			c.sent = append(c.sent, c.txFIFO)
			c.txFIFO = nil
			c.state = StateIdle
		}
		n := byte(len(c.txFIFO))
		if c.underflowTX {
			n |= fifoErrorBit
		}
		return n
	case RXBYTES:
		n := byte(len(c.rxFIFO))
		if c.rxOverflow {
			n |= fifoErrorBit
		}
		return n
	}
	return 0
}

func (c *fakeChip) strobe(s Strobe) {
	c.strobes = append(c.strobes, s)
	switch s {
	case SRES:
		c.reset()
	case SIDLE:
		if !c.ignoreIdle {
			c.state = StateIdle
		}
	case SRX:
		if c.overflowOnRX > 0 {
			c.overflowOnRX--
			c.state = StateRXFIFOOverflow
		} else {
			c.state = StateRX
		}
	case STX:
		if !c.ignoreTX {
			c.state = StateTX
		}
	case SFRX:
		c.rxFIFO = nil
		c.rxOverflow = false
		if c.state == StateRXFIFOOverflow {
			c.state = StateIdle
		}
	case SFTX:
		c.txFIFO = nil
	case SCAL:
		c.state = StateIdle
	case SPWD:
		c.state = StateSleep
	}
}

func (c *fakeChip) strobeCount(s Strobe) int {
	n := 0
	for _, t := range c.strobes {
		if t == s {
			n++
		}
	}
	return n
}

// framesWithHeader returns the recorded frames that start with hdr.
func (c *fakeChip) framesWithHeader(hdr byte) [][]byte {
	var frames [][]byte
	for _, f := range c.frames {
		if f[0] == hdr {
			frames = append(frames, f)
		}
	}
	return frames
}

// fakeClock advances only when slept on.
type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	c.slept += d
	return nil
}

func newTestRadio(t *testing.T) (*Radio, *fakeChip, *fakeClock, *test.Hook) {
	t.Helper()
	chip := newFakeChip()
	clock := &fakeClock{now: time.Unix(0, 0)}
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	r := New(chip, Options{Clock: clock, Logger: logger})
	return r, chip, clock, hook
}
