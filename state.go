package cc1101

import (
	"context"
	"time"
)

// Settling time after a strobe (datasheet table 22).
const strobeDelay = 2 * time.Microsecond

func (r *Radio) sleep(ctx context.Context, d time.Duration) error {
	return r.opts.Clock.Sleep(ctx, d)
}

// poll calls done every interval until it reports true, it fails,
// ctx is done, or timeout has elapsed.
func (r *Radio) poll(ctx context.Context, what string, interval, timeout time.Duration, done func() (bool, error)) error {
	deadline := r.opts.Clock.Now().Add(timeout)
	for {
		ok, err := done()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !r.opts.Clock.Now().Before(deadline) {
			return newError(ErrTimeout, "waiting for %s after %v", what, timeout)
		}
		if err := r.sleep(ctx, interval); err != nil {
			return err
		}
	}
}

func (r *Radio) state() (State, error) {
	b, err := r.readStatus(MARCSTATE)
	if err != nil {
		return 0, err
	}
	return State(b & marcStateMask), nil
}

// State returns the current state of the main radio control state machine.
func (r *Radio) State() (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state()
}

func (r *Radio) waitForState(ctx context.Context, want ...State) (State, error) {
	var cur State
	err := r.poll(ctx, "state "+stateList(want), r.opts.StatePollInterval, r.opts.StateTimeout, func() (bool, error) {
		var err error
		cur, err = r.state()
		if err != nil {
			return false, err
		}
		return cur.in(want), nil
	})
	return cur, err
}

// WaitForState polls MARCSTATE until it matches one of the given states.
// It returns the last state read.
func (r *Radio) WaitForState(ctx context.Context, want ...State) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.waitForState(ctx, want...)
}

func (s State) in(states []State) bool {
	for _, t := range states {
		if s == t {
			return true
		}
	}
	return false
}

func stateList(states []State) string {
	s := ""
	for i, t := range states {
		if i > 0 {
			s += "|"
		}
		s += t.String()
	}
	return s
}

// Reset issues the SRES strobe.
// The chip is not ready for further commands until it reports StateIdle.
func (r *Radio) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.Debug("reset")
	return r.strobe(SRES)
}

// SelfTest checks the chip identification registers against
// the CC1101 reset values.
func (r *Radio) SelfTest() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	part, err := r.readStatus(PARTNUM)
	if err != nil {
		return err
	}
	version, err := r.readStatus(VERSION)
	if err != nil {
		return err
	}
	if part != expectedPartnum || version != expectedVersion {
		return newError(ErrSelfTest, "partnum %02X version %02X", part, version)
	}
	r.log.WithField("partnum", part).WithField("version", version).Debug("self test OK")
	return nil
}

func (r *Radio) idle(ctx context.Context) error {
	if err := r.strobe(SIDLE); err != nil {
		return err
	}
	if _, err := r.waitForState(ctx, StateIdle); err != nil {
		return err
	}
	if err := r.strobe(SFTX); err != nil {
		return err
	}
	return r.sleep(ctx, r.opts.StatePollInterval)
}

// Idle leaves RX or TX, waits for the chip to reach IDLE, and flushes the TX FIFO.
func (r *Radio) Idle(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.idle(ctx)
}

// PowerDown enters IDLE and then the power down state.
// Registers 0x29-0x2E lose their contents.
func (r *Radio) PowerDown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.idle(ctx); err != nil {
		return err
	}
	return r.strobe(SPWD)
}

// Calibrate enters IDLE, runs a frequency synthesizer calibration,
// and waits for it to finish.
func (r *Radio) Calibrate(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.idle(ctx); err != nil {
		return err
	}
	if err := r.strobe(SCAL); err != nil {
		return err
	}
	_, err := r.waitForState(ctx, StateIdle)
	return err
}

func (r *Radio) strobeAndSettle(ctx context.Context, s Strobe) error {
	if err := r.strobe(s); err != nil {
		return err
	}
	return r.sleep(ctx, strobeDelay)
}

func (r *Radio) setRX(ctx context.Context) error {
	return r.strobeAndSettle(ctx, SRX)
}

func (r *Radio) setTX(ctx context.Context) error {
	return r.strobeAndSettle(ctx, STX)
}

func (r *Radio) flushRX(ctx context.Context) error {
	return r.strobeAndSettle(ctx, SFRX)
}

func (r *Radio) flushTX(ctx context.Context) error {
	return r.strobeAndSettle(ctx, SFTX)
}
