package cc1101

import (
	"encoding/hex"
	"math"
)

// Frequency bands supported by the CC1101, in Hz.
var bands = [...]struct{ low, high uint32 }{
	{300000000, 348000000},
	{387000000, 464000000},
	{779000000, 928000000},
}

func supportedFrequency(freq uint32) bool {
	for _, b := range bands {
		if b.low <= freq && freq <= b.high {
			return true
		}
	}
	return false
}

// frequencyControlWord returns round(freq * 2^16 / xosc).
func frequencyControlWord(freq uint32, xosc uint32) uint32 {
	return uint32((uint64(freq)<<16 + uint64(xosc)/2) / uint64(xosc))
}

// ComputeFrequencyControlWords returns the FREQ2, FREQ1 and FREQ0 values
// for a carrier frequency in MHz with the standard 26 MHz crystal.
func ComputeFrequencyControlWords(freqMHz float64) (byte, byte, byte) {
	b := marshalUint24(frequencyControlWord(mhzToHz(freqMHz), FXOSC))
	return b[0], b[1], b[2]
}

func mhzToHz(freqMHz float64) uint32 {
	return uint32(math.Round(freqMHz * 1e6))
}

// Frequency returns the radio's current frequency, in Hertz.
func (r *Radio) Frequency() (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, 3)
	for i, reg := range []Register{FREQ2, FREQ1, FREQ0} {
		v, err := r.readRegister(reg)
		if err != nil {
			return 0, err
		}
		b[i] = v
	}
	f := unmarshalUint24(b)
	xosc := uint64(r.opts.Oscillator)
	return uint32((uint64(f)*xosc + 1<<15) >> 16), nil
}

// SetFrequency sets the radio to the given frequency, in Hertz.
func (r *Radio) SetFrequency(freq uint32) error {
	if !supportedFrequency(freq) {
		return newError(ErrUnsupportedFrequency, "%d Hz", freq)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setFrequency(freq)
}

func (r *Radio) setFrequency(freq uint32) error {
	b := marshalUint24(frequencyControlWord(freq, r.opts.Oscillator))
	if err := r.writeRegister(FREQ2, b[0]); err != nil {
		return err
	}
	if err := r.writeRegister(FREQ1, b[1]); err != nil {
		return err
	}
	return r.writeRegister(FREQ0, b[2])
}

// SetCarrierFrequency sets the radio to the given frequency, in MHz.
func (r *Radio) SetCarrierFrequency(freqMHz float64) error {
	if math.IsNaN(freqMHz) || freqMHz <= 0 || freqMHz > math.MaxUint32/1e6 {
		return newError(ErrUnsupportedFrequency, "%v MHz", freqMHz)
	}
	return r.SetFrequency(mhzToHz(freqMHz))
}

// Channel returns the channel number.
func (r *Radio) Channel() (byte, error) {
	return r.ReadRegister(CHANNR)
}

// SetChannel sets the channel number, which is multiplied by the
// channel spacing and added to the base frequency.
func (r *Radio) SetChannel(channel byte) error {
	return r.WriteRegister(CHANNR, channel)
}

// SyncWord returns the 16-bit sync word.
func (r *Radio) SyncWord() (uint16, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hi, err := r.readRegister(SYNC1)
	if err != nil {
		return 0, err
	}
	lo, err := r.readRegister(SYNC0)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// SetSyncWord sets the sync word from exactly four hex digits, such as "D391".
func (r *Radio) SetSyncWord(word string) error {
	if len(word) != 4 {
		return newError(ErrInvalidArgument, "sync word %q must have 4 hex digits", word)
	}
	b, err := hex.DecodeString(word)
	if err != nil {
		return newError(ErrInvalidArgument, "sync word %q: %v", word, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setSyncWord(uint16(b[0])<<8 | uint16(b[1]))
}

func (r *Radio) setSyncWord(word uint16) error {
	b := marshalUint16(word)
	if err := r.writeRegister(SYNC1, b[0]); err != nil {
		return err
	}
	return r.writeRegister(SYNC0, b[1])
}

// SyncMode returns the sync word qualifier mode.
func (r *Radio) SyncMode() (SyncMode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, err := r.registerField(MDMCFG2, fieldSyncMode)
	return SyncMode(v), err
}

// SetSyncMode sets the sync word qualifier mode.
func (r *Radio) SetSyncMode(mode SyncMode) error {
	if mode > SyncCarrier30of32 {
		return newError(ErrInvalidArgument, "sync mode %d", mode)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateRegister(MDMCFG2, fieldSyncMode, byte(mode))
}

// Modulation returns the modulation format.
func (r *Radio) Modulation() (Modulation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, err := r.registerField(MDMCFG2, fieldModFormat)
	return Modulation(v), err
}

// SetModulation sets the modulation format.
func (r *Radio) SetModulation(mod Modulation) error {
	if !mod.valid() {
		return newError(ErrUnsupportedModulation, "code %d", byte(mod))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateRegister(MDMCFG2, fieldModFormat, byte(mod))
}

func (r *Radio) packetMode() (PacketMode, error) {
	v, err := r.registerField(PKTCTRL0, fieldLengthConfig)
	return PacketMode(v), err
}

// PacketMode returns the packet length configuration.
func (r *Radio) PacketMode() (PacketMode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.packetMode()
}

// SetPacketMode sets the packet length configuration.
func (r *Radio) SetPacketMode(mode PacketMode) error {
	if !mode.valid() {
		return newError(ErrInvalidArgument, "packet mode %d", byte(mode))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateRegister(PKTCTRL0, fieldLengthConfig, byte(mode))
}

func (r *Radio) addressFiltering() (AddressFilter, error) {
	v, err := r.registerField(PKTCTRL1, fieldAdrChk)
	return AddressFilter(v), err
}

// AddressFiltering returns the address check configuration.
func (r *Radio) AddressFiltering() (AddressFilter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addressFiltering()
}

// ConfigureAddressFiltering sets the address check configuration.
func (r *Radio) ConfigureAddressFiltering(mode AddressFilter) error {
	if !mode.valid() {
		return newError(ErrInvalidArgument, "address filter %d", byte(mode))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateRegister(PKTCTRL1, fieldAdrChk, byte(mode))
}

// FilteringAddress returns the device address used for packet filtration.
func (r *Radio) FilteringAddress() (byte, error) {
	return r.ReadRegister(ADDR)
}

// SetFilteringAddress sets the device address used for packet filtration.
func (r *Radio) SetFilteringAddress(addr byte) error {
	return r.WriteRegister(ADDR, addr)
}

// PacketLength returns PKTLEN: the packet length in fixed mode,
// or the maximum length in variable mode.
func (r *Radio) PacketLength() (byte, error) {
	return r.ReadRegister(PKTLEN)
}

// SetPacketLength sets PKTLEN.
func (r *Radio) SetPacketLength(n byte) error {
	if n == 0 {
		return newError(ErrInvalidArgument, "packet length 0")
	}
	return r.WriteRegister(PKTLEN, n)
}

// SetAppendStatus controls whether RSSI and LQI/CRC status bytes
// are appended to received packets.
func (r *Radio) SetAppendStatus(on bool) error {
	var v byte
	if on {
		v = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateRegister(PKTCTRL1, fieldAppendStatus, v)
}

// ReadRSSI returns the raw RSSI status register.
// Use RSSIToDBm to convert it.
func (r *Radio) ReadRSSI() (byte, error) {
	return r.ReadStatus(RSSI)
}

const rssiOffset = 74 // see data sheet section 17.3, table 31

// RSSIToDBm converts a raw RSSI reading (two's complement, 0.5 dB steps) to dBm.
func RSSIToDBm(raw byte) int {
	return int(int8(raw))/2 - rssiOffset
}

// RegisterFields reads a register and decodes its bit fields.
func (r *Radio) RegisterFields(reg Register) ([]FieldValue, error) {
	b, err := r.ReadRegister(reg)
	if err != nil {
		return nil, err
	}
	return DecodeRegister(reg, b), nil
}

// ReadConfiguration returns the contents of all configuration registers.
func (r *Radio) ReadConfiguration() ([NumConfigRegisters]byte, error) {
	var config [NumConfigRegisters]byte
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range config {
		b, err := r.readRegister(Register(i))
		if err != nil {
			return config, err
		}
		config[i] = b
	}
	return config, nil
}

// Register values from SmartRF Studio 7 and the panStamp defaults:
// GFSK, 38.4 kBaud, CRC enabled, fixed 20-byte packets.
var defaultConfiguration = []struct {
	reg   Register
	value byte
}{
	{IOCFG2, 0x2E},
	{IOCFG1, 0x2E},
	{IOCFG0, 0x06},
	{FIFOTHR, 0x07},
	{PKTLEN, 20},
	{PKTCTRL1, 0x06},
	{PKTCTRL0, 0x04},
	{FSCTRL1, 0x08},
	{FSCTRL0, 0x00},
	{MDMCFG4, 0xCA},
	{MDMCFG3, 0x83},
	{MDMCFG2, 0x93},
	{MDMCFG1, 0x22},
	{MDMCFG0, 0xF8},
	{DEVIATN, 0x35},
	{MCSM2, 0x07},
	{MCSM1, 0x20},
	{MCSM0, 0x18},
	{FOCCFG, 0x16},
	{BSCFG, 0x6C},
	{AGCCTRL2, 0x43},
	{AGCCTRL1, 0x40},
	{AGCCTRL0, 0x91},
	{WOREVT1, 0x87},
	{WOREVT0, 0x6B},
	{WORCTRL, 0xFB},
	{FREND1, 0x56},
	{FREND0, 0x10},
	{FSCAL3, 0xE9},
	{FSCAL2, 0x2A},
	{FSCAL1, 0x00},
	{FSCAL0, 0x1F},
	{RCCTRL1, 0x41},
	{RCCTRL0, 0x00},
	{FSTEST, 0x59},
	{PTEST, 0x7F},
	{AGCTEST, 0x3F},
	{TEST2, 0x81},
	{TEST1, 0x35},
	{TEST0, 0x09},
	{PATABLE, 0xC0}, // 10 dBm
}

const (
	defaultSyncWord      = 0xFAFA
	defaultChannel       = 0
	defaultCarrierFreqHz = 433000000
)

// LoadDefaultConfiguration writes a known-good register set:
// 433 MHz, channel 0, sync word FAFA, address filtering disabled,
// fixed 20-byte packets with appended status, and 10 dBm output power.
func (r *Radio) LoadDefaultConfiguration() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range defaultConfiguration {
		if err := r.writeRegister(c.reg, c.value); err != nil {
			return err
		}
	}
	if err := r.setSyncWord(defaultSyncWord); err != nil {
		return err
	}
	if err := r.writeRegister(CHANNR, defaultChannel); err != nil {
		return err
	}
	if err := r.updateRegister(PKTCTRL1, fieldAdrChk, byte(AddressDisabled)); err != nil {
		return err
	}
	return r.setFrequency(defaultCarrierFreqHz)
}
