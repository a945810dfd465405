package cc1101

import (
	"github.com/sirupsen/logrus"
)

// burstStride is the address increment between slots of a burst read frame.
// The chip ignores everything after the header byte while clocking out burst
// data, so the filler only has to match what existing drivers put on the wire.
const burstStride = 8

func (r *Radio) xfer(op string, addr byte, buf []byte) error {
	if !r.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		return r.transfer(op, addr, buf)
	}
	out := append([]byte(nil), buf...)
	if err := r.transfer(op, addr, buf); err != nil {
		return err
	}
	r.log.Tracef("%s: % X -> % X", op, out, buf)
	return nil
}

func (r *Radio) transfer(op string, addr byte, buf []byte) error {
	if err := r.bus.Transfer(buf); err != nil {
		return &TransportError{Op: op, Addr: addr, Err: err}
	}
	return nil
}

func (r *Radio) readByte(addr byte) (byte, error) {
	buf := []byte{addr | readSingleByte, 0}
	if err := r.xfer("read", addr, buf); err != nil {
		return 0, err
	}
	return buf[1], nil
}

// readStatus reads a status register. Their addresses already carry
// the read and burst bits.
func (r *Radio) readStatus(s StatusRegister) (byte, error) {
	buf := []byte{byte(s), 0}
	if err := r.xfer("read status", byte(s), buf); err != nil {
		return 0, err
	}
	return buf[1], nil
}

func (r *Radio) writeByte(addr byte, value byte) error {
	return r.xfer("write", addr, []byte{addr | writeSingleByte, value})
}

func (r *Radio) readBurst(addr byte, n int) ([]byte, error) {
	buf := make([]byte, n+1)
	for i := range buf {
		buf[i] = (addr + byte(i*burstStride)) | readBurst
	}
	if err := r.xfer("read burst", addr, buf); err != nil {
		return nil, err
	}
	return buf[1:], nil
}

func (r *Radio) writeBurst(addr byte, data []byte) error {
	buf := make([]byte, 1+len(data))
	buf[0] = addr | writeBurst
	copy(buf[1:], data)
	return r.xfer("write burst", addr, buf)
}

func (r *Radio) strobe(s Strobe) error {
	return r.xfer("strobe "+s.String(), byte(s), []byte{byte(s), 0})
}

func (r *Radio) readRegister(reg Register) (byte, error) {
	return r.readByte(byte(reg))
}

func (r *Radio) writeRegister(reg Register, value byte) error {
	return r.writeByte(byte(reg), value)
}

// updateRegister replaces one bit field of reg, leaving the other bits unchanged.
func (r *Radio) updateRegister(reg Register, f field, v byte) error {
	old, err := r.readRegister(reg)
	if err != nil {
		return err
	}
	return r.writeRegister(reg, f.set(old, v))
}

func (r *Radio) registerField(reg Register, f field) (byte, error) {
	b, err := r.readRegister(reg)
	if err != nil {
		return 0, err
	}
	return f.get(b), nil
}

// ReadRegister returns the value of a configuration register.
func (r *Radio) ReadRegister(reg Register) (byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readRegister(reg)
}

// WriteRegister writes a value to a configuration register.
func (r *Radio) WriteRegister(reg Register, value byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeRegister(reg, value)
}

// ReadStatus returns the value of a status register.
func (r *Radio) ReadStatus(s StatusRegister) (byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readStatus(s)
}

// Command issues a command strobe.
func (r *Radio) Command(s Strobe) error {
	if !s.Valid() {
		return newError(ErrInvalidArgument, "strobe %02X", byte(s))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.strobe(s)
}
