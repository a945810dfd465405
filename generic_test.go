package cc1101

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeneric(t *testing.T) (*Generic, *fakeChip, *fakeClock) {
	t.Helper()
	r, chip, clock, _ := newTestRadio(t)
	g := NewGeneric(r)
	g.Init(868000000)
	require.NoError(t, g.Error())
	return g, chip, clock
}

func TestGenericInit(t *testing.T) {
	g, chip, _ := newTestGeneric(t)
	assert.Equal(t, SRES, chip.strobes[0])
	assert.Equal(t, []byte{0x21, 0x62, 0x76}, chip.regs[FREQ2:FREQ0+1])
	assert.Equal(t, byte(20), chip.regs[PKTLEN])
	assert.InDelta(t, 868000000, g.Frequency(), 200)
	assert.Equal(t, "IDLE", g.State())
	assert.Equal(t, "CC1101", g.Name())
	assert.Equal(t, spiDevice, g.Device())
}

// wrongVersionBus reports a VERSION that is not a CC1101's.
type wrongVersionBus struct {
	*fakeChip
}

func (b wrongVersionBus) Transfer(buf []byte) error {
	hdr := buf[0]
	if err := b.fakeChip.Transfer(buf); err != nil {
		return err
	}
	if hdr == byte(VERSION) {
		buf[1] = 0x07
	}
	return nil
}

func TestGenericInitSelfTestFails(t *testing.T) {
	r, chip, _, _ := newTestRadio(t)
	r.bus = wrongVersionBus{chip}
	g := NewGeneric(r)
	g.Init(433000000)
	assert.True(t, errors.Is(g.Error(), ErrSelfTest))
	// The configuration is not loaded after a failed self test.
	assert.Equal(t, byte(0xFF), chip.regs[PKTLEN])
	assert.Equal(t, []byte{0x1E, 0xC4, 0xEC}, chip.regs[FREQ2:FREQ0+1])
}

func TestGenericSendReceive(t *testing.T) {
	g, chip, _ := newTestGeneric(t)
	g.Send([]byte{1, 2, 3})
	require.NoError(t, g.Error())
	require.Len(t, chip.sent, 1)
	assert.Len(t, chip.sent[0], 20)
	assert.Equal(t, []byte{1, 2, 3}, chip.sent[0][:3])

	chip.rxFIFO = append(append([]byte(nil), chip.sent[0]...), 0xEC, 0x80|0x30)
	data, rssi := g.Receive(100 * time.Millisecond)
	require.NoError(t, g.Error())
	assert.Equal(t, chip.sent[0], data)
	assert.Equal(t, -84, rssi)
	assert.Equal(t, StateRX, chip.state)
}

func TestGenericReceiveTimeout(t *testing.T) {
	g, _, clock := newTestGeneric(t)
	start := clock.slept
	data, rssi := g.Receive(10 * time.Millisecond)
	assert.Nil(t, data)
	assert.Zero(t, rssi)
	assert.NoError(t, g.Error())
	assert.GreaterOrEqual(t, int64(clock.slept-start), int64(10*time.Millisecond))
}

func TestGenericReceiveSkipsOversizePacket(t *testing.T) {
	g, chip, _ := newTestGeneric(t)
	configure(chip, variableLength, noAddress, 4, 0)
	chip.rxFIFO = []byte{9, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	data, _ := g.Receive(5 * time.Millisecond)
	assert.Nil(t, data)
	assert.NoError(t, g.Error())
	assert.Equal(t, 1, chip.strobeCount(SFRX))
}

func TestGenericSendAndReceive(t *testing.T) {
	g, chip, _ := newTestGeneric(t)
	configure(chip, variableLength, noAddress, 0x3D, 0)
	chip.rssi = 0x00
	chip.rxFIFO = []byte{2, 0xAB, 0xCD}
	data, rssi := g.SendAndReceive([]byte{1}, 50*time.Millisecond)
	require.NoError(t, g.Error())
	assert.Equal(t, [][]byte{{1, 1}}, chip.sent)
	assert.Equal(t, []byte{0xAB, 0xCD}, data)
	assert.Equal(t, -74, rssi)
}

func TestGenericStickyError(t *testing.T) {
	g, chip, _ := newTestGeneric(t)
	busErr := errors.New("bus error")
	chip.err = busErr
	assert.Equal(t, "", g.State())
	assert.True(t, errors.Is(g.Error(), busErr))

	chip.err = nil
	frames := len(chip.frames)
	assert.Zero(t, g.Frequency())
	g.SetFrequency(915000000)
	g.Send([]byte{1})
	data, _ := g.Receive(time.Millisecond)
	assert.Nil(t, data)
	assert.Equal(t, frames, len(chip.frames))

	g.SetError(nil)
	g.SetFrequency(915000000)
	require.NoError(t, g.Error())
	assert.InDelta(t, 915000000, g.Frequency(), 200)

	g.SetFrequency(1)
	assert.True(t, errors.Is(g.Error(), ErrUnsupportedFrequency))
}

func TestGenericClose(t *testing.T) {
	g, chip, _ := newTestGeneric(t)
	g.Close()
	assert.NoError(t, g.Error())
	assert.True(t, chip.closed)
}
