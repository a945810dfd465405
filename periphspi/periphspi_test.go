package periphspi

import (
	"testing"

	"github.com/ecc1/cc1101"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

func playback(ops ...conntest.IO) (*Bus, error) {
	p := &spitest.Playback{Playback: conntest.Playback{Ops: ops}}
	c, err := p.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}
	return New(p, c), nil
}

func TestTransferInPlace(t *testing.T) {
	b, err := playback(conntest.IO{W: []byte{0xF1, 0x00}, R: []byte{0x0F, 0x14}})
	require.NoError(t, err)
	buf := []byte{0xF1, 0x00}
	require.NoError(t, b.Transfer(buf))
	assert.Equal(t, []byte{0x0F, 0x14}, buf)
	require.NoError(t, b.Close())
}

func TestSelfTestOverPeriph(t *testing.T) {
	b, err := playback(
		conntest.IO{W: []byte{0xF0, 0x00}, R: []byte{0x0F, 0x00}},
		conntest.IO{W: []byte{0xF1, 0x00}, R: []byte{0x0F, 0x14}},
	)
	require.NoError(t, err)
	r := cc1101.New(b, cc1101.Options{})
	assert.NoError(t, r.SelfTest())
	require.NoError(t, r.Close())
}

func TestSetSyncWordOverPeriph(t *testing.T) {
	b, err := playback(
		conntest.IO{W: []byte{0x04, 0xD3}, R: []byte{0x0F, 0x0F}},
		conntest.IO{W: []byte{0x05, 0x91}, R: []byte{0x0F, 0x0F}},
	)
	require.NoError(t, err)
	r := cc1101.New(b, cc1101.Options{})
	assert.NoError(t, r.SetSyncWord("D391"))
	require.NoError(t, r.Close())
}
