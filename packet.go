package cc1101

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Packet is a frame read from the RX FIFO.
type Packet struct {
	Data []byte

	// Address is the destination address byte, present when
	// address filtering was enabled at the time of reception.
	Address    byte
	HasAddress bool

	// Status is nil unless PKTCTRL1.APPEND_STATUS is set.
	Status *PacketStatus
}

// PacketStatus holds the two status bytes the chip appends to a received packet.
type PacketStatus struct {
	RSSI  byte // raw RSSI, see RSSIToDBm
	LQI   byte
	CRCOK bool
}

// RSSIdBm returns the packet's signal strength in dBm.
func (s *PacketStatus) RSSIdBm() int {
	return RSSIToDBm(s.RSSI)
}

const (
	lqiMask  = 0x7F
	crcOKBit = 0x80
)

// States in which the chip is transmitting or has just finished.
var transmitStates = []State{StateTX, StateTXEnd, StateRXTXSwitch}

// StartRX strobes SRX to put the chip in receive mode without waiting.
func (r *Radio) StartRX(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setRX(ctx)
}

// enterRX puts the chip in RX and waits until it gets there,
// clearing an RX FIFO overflow on the way.
func (r *Radio) enterRX(ctx context.Context) error {
	if err := r.setRX(ctx); err != nil {
		return err
	}
	return r.poll(ctx, "state RX", r.opts.StatePollInterval, r.opts.StateTimeout, func() (bool, error) {
		s, err := r.state()
		if err != nil {
			return false, err
		}
		switch s {
		case StateRX:
			return true, nil
		case StateRXFIFOOverflow:
			r.log.Debug("RX FIFO overflow while waiting for RX")
			if err := r.flushRX(ctx); err != nil {
				return false, err
			}
			return false, r.setRX(ctx)
		}
		return false, nil
	})
}

// frame builds the bytes to load into the TX FIFO for data,
// according to the current packet length and address filtering modes.
func (r *Radio) frame(data []byte) ([]byte, error) {
	mode, err := r.packetMode()
	if err != nil {
		return nil, err
	}
	filter, err := r.addressFiltering()
	if err != nil {
		return nil, err
	}
	var header []byte
	if filter.Enabled() && mode != PacketInfinite {
		addr, err := r.readRegister(ADDR)
		if err != nil {
			return nil, err
		}
		header = []byte{addr}
	}
	switch mode {
	case PacketFixed:
		pktlen, err := r.readRegister(PKTLEN)
		if err != nil {
			return nil, err
		}
		n := len(header) + len(data)
		if n > int(pktlen) {
			return nil, newError(ErrPayloadTooLarge, "%d-byte frame in %d-byte fixed packet", n, pktlen)
		}
		if int(pktlen) > fifoSize {
			return nil, newError(ErrPayloadTooLarge, "%d-byte fixed packet exceeds TX FIFO", pktlen)
		}
		frame := make([]byte, pktlen)
		copy(frame, header)
		copy(frame[len(header):], data)
		return frame, nil
	case PacketVariable:
		n := len(header) + len(data)
		if n > 0xFF || 1+n > fifoSize {
			return nil, newError(ErrPayloadTooLarge, "%d-byte variable packet exceeds TX FIFO", n)
		}
		frame := make([]byte, 0, 1+n)
		frame = append(frame, byte(n))
		frame = append(frame, header...)
		return append(frame, data...), nil
	case PacketInfinite:
		return nil, newError(ErrNotImplemented, "infinite packet length mode")
	}
	return nil, newError(ErrNotImplemented, "reserved packet length config %d", byte(mode))
}

// Send transmits data as one packet framed for the current packet mode.
// It returns false without error when the chip fails to transmit,
// in which case the caller may retry the whole packet.
// Errors are returned for invalid payloads, unsupported modes,
// bus failures, and timeouts.
func (r *Radio) Send(ctx context.Context, data []byte) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(data) == 0 {
		r.log.Debug("no data to send")
		return false, nil
	}
	frame, err := r.frame(data)
	if err != nil {
		return false, err
	}
	if err := r.enterRX(ctx); err != nil {
		return false, err
	}
	r.log.WithField("length", len(data)).Debugf("sending frame % X", frame)
	if err := r.writeBurst(byte(TXFIFO), frame); err != nil {
		return false, err
	}
	if err := r.sleep(ctx, r.opts.TXSettle); err != nil {
		return false, err
	}
	r.setTXEnable(true)
	defer r.setTXEnable(false)
	if err := r.setTX(ctx); err != nil {
		return false, err
	}
	s, err := r.state()
	if err != nil {
		return false, err
	}
	if !s.in(transmitStates) {
		r.log.WithField("state", s).Debug("transmission did not start")
		return false, r.abortTX(ctx, 0)
	}
	underflow := false
	err = r.poll(ctx, "TX FIFO to drain", r.opts.TXPollInterval, r.opts.TXTimeout, func() (bool, error) {
		n, err := r.readStatus(TXBYTES)
		if err != nil {
			return false, err
		}
		underflow = n&fifoErrorBit != 0
		return underflow || n&numBytesMask == 0, nil
	})
	switch {
	case underflow:
		r.log.Debug("TX FIFO underflow")
		return false, r.abortTX(ctx, r.opts.RecoveryDelay)
	case errors.Is(err, ErrTimeout):
		r.log.WithError(err).Debug("transmission did not complete")
		if rerr := r.abortTX(ctx, r.opts.RecoveryDelay); rerr != nil {
			return false, rerr
		}
		return false, err
	case err != nil:
		return false, err
	}
	r.stats.Packets.Sent++
	r.stats.Bytes.Sent += len(data)
	r.log.Debug("packet sent")
	return true, nil
}

// abortTX returns the chip to RX with an empty TX FIFO after a failed transmission.
func (r *Radio) abortTX(ctx context.Context, delay time.Duration) error {
	if err := r.idle(ctx); err != nil {
		return err
	}
	if err := r.flushTX(ctx); err != nil {
		return err
	}
	if delay > 0 {
		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return r.setRX(ctx)
}

// Receive reads one packet from the RX FIFO.
// It returns nil without error when the FIFO is empty or has overflowed.
// The RX FIFO is flushed whenever a packet was read or rejected.
// A packet already read is returned even if ctx ends during the flush.
func (r *Radio) Receive(ctx context.Context) (*Packet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := r.readStatus(RXBYTES)
	if err != nil {
		return nil, err
	}
	if n&fifoErrorBit != 0 {
		r.log.Debug("RX FIFO overflow")
		return nil, r.flushRX(ctx)
	}
	if n&numBytesMask == 0 {
		return nil, nil
	}
	p, err := r.readPacket()
	if ferr := r.strobe(SFRX); ferr != nil && err == nil {
		err = ferr
	}
	if err != nil {
		return nil, err
	}
	if serr := r.sleep(ctx, strobeDelay); serr != nil {
		r.log.WithError(serr).Debug("RX flush settle interrupted")
	}
	r.stats.Packets.Received++
	r.stats.Bytes.Received += len(p.Data)
	return p, nil
}

// readPacket reads the packet at the head of the RX FIFO
// and its status bytes, if any.
func (r *Radio) readPacket() (*Packet, error) {
	length, err := r.receiveLength()
	if err != nil {
		return nil, err
	}
	data, err := r.readBurst(byte(RXFIFO), int(length))
	if err != nil {
		return nil, err
	}
	p := &Packet{Data: data}
	ctrl1, err := r.readRegister(PKTCTRL1)
	if err != nil {
		return nil, err
	}
	if AddressFilter(fieldAdrChk.get(ctrl1)).Enabled() && len(data) > 0 {
		p.Address, p.HasAddress = data[0], true
		p.Data = data[1:]
	}
	if fieldAppendStatus.get(ctrl1) == 1 {
		rssi, err := r.readByte(byte(RXFIFO))
		if err != nil {
			return nil, err
		}
		v, err := r.readByte(byte(RXFIFO))
		if err != nil {
			return nil, err
		}
		p.Status = &PacketStatus{RSSI: rssi, LQI: v & lqiMask, CRCOK: v&crcOKBit != 0}
		r.log.WithFields(logrus.Fields{
			"rssi": p.Status.RSSIdBm(),
			"lqi":  p.Status.LQI,
			"crc":  p.Status.CRCOK,
		}).Debug("packet status")
	}
	r.log.WithField("length", length).Debugf("received % X", data)
	return p, nil
}

// receiveLength returns the number of bytes to read from the RX FIFO
// for the packet at its head.
func (r *Radio) receiveLength() (byte, error) {
	mode, err := r.packetMode()
	if err != nil {
		return 0, err
	}
	pktlen, err := r.readRegister(PKTLEN)
	if err != nil {
		return 0, err
	}
	switch mode {
	case PacketFixed:
		return pktlen, nil
	case PacketVariable:
		n, err := r.readByte(byte(RXFIFO))
		if err != nil {
			return 0, err
		}
		if n > pktlen {
			return 0, newError(ErrPayloadTooLarge, "received length %d exceeds maximum %d", n, pktlen)
		}
		return n, nil
	case PacketInfinite:
		return 0, newError(ErrNotImplemented, "infinite packet length mode")
	}
	return 0, newError(ErrNotImplemented, "reserved packet length config %d", byte(mode))
}
