package cc1101

import "fmt"

// CC1101 hardware-related constants.
const (
	FXOSC = 26000000 // Crystal frequency in Hz

	fifoSize = 64 // Depth of each of the TX and RX FIFOs
)

// Header byte flags for SPI transactions (datasheet section 10).
const (
	writeSingleByte = 0x00
	writeBurst      = 0x40
	readSingleByte  = 0x80
	readBurst       = 0xC0
)

// Register is the address of a CC1101 configuration register.
type Register byte

// Configuration registers (datasheet table 43).
const (
	IOCFG2   Register = 0x00 // GDO2 output pin configuration
	IOCFG1   Register = 0x01 // GDO1 output pin configuration
	IOCFG0   Register = 0x02 // GDO0 output pin configuration
	FIFOTHR  Register = 0x03 // RX FIFO and TX FIFO thresholds
	SYNC1    Register = 0x04 // Sync word, high byte
	SYNC0    Register = 0x05 // Sync word, low byte
	PKTLEN   Register = 0x06 // Packet length
	PKTCTRL1 Register = 0x07 // Packet automation control
	PKTCTRL0 Register = 0x08 // Packet automation control
	ADDR     Register = 0x09 // Device address
	CHANNR   Register = 0x0A // Channel number
	FSCTRL1  Register = 0x0B // Frequency synthesizer control
	FSCTRL0  Register = 0x0C // Frequency synthesizer control
	FREQ2    Register = 0x0D // Frequency control word, high byte
	FREQ1    Register = 0x0E // Frequency control word, middle byte
	FREQ0    Register = 0x0F // Frequency control word, low byte
	MDMCFG4  Register = 0x10 // Modem configuration
	MDMCFG3  Register = 0x11 // Modem configuration
	MDMCFG2  Register = 0x12 // Modem configuration
	MDMCFG1  Register = 0x13 // Modem configuration
	MDMCFG0  Register = 0x14 // Modem configuration
	DEVIATN  Register = 0x15 // Modem deviation setting
	MCSM2    Register = 0x16 // Main radio control state machine configuration
	MCSM1    Register = 0x17 // Main radio control state machine configuration
	MCSM0    Register = 0x18 // Main radio control state machine configuration
	FOCCFG   Register = 0x19 // Frequency offset compensation configuration
	BSCFG    Register = 0x1A // Bit synchronization configuration
	AGCCTRL2 Register = 0x1B // AGC control
	AGCCTRL1 Register = 0x1C // AGC control
	AGCCTRL0 Register = 0x1D // AGC control
	WOREVT1  Register = 0x1E // High byte event0 timeout
	WOREVT0  Register = 0x1F // Low byte event0 timeout
	WORCTRL  Register = 0x20 // Wake on radio control
	FREND1   Register = 0x21 // Front end RX configuration
	FREND0   Register = 0x22 // Front end TX configuration
	FSCAL3   Register = 0x23 // Frequency synthesizer calibration
	FSCAL2   Register = 0x24 // Frequency synthesizer calibration
	FSCAL1   Register = 0x25 // Frequency synthesizer calibration
	FSCAL0   Register = 0x26 // Frequency synthesizer calibration
	RCCTRL1  Register = 0x27 // RC oscillator configuration
	RCCTRL0  Register = 0x28 // RC oscillator configuration

	// These lose their programming in SLEEP state.
	FSTEST  Register = 0x29 // Frequency synthesizer calibration control
	PTEST   Register = 0x2A // Production test
	AGCTEST Register = 0x2B // AGC test
	TEST2   Register = 0x2C // Various test settings
	TEST1   Register = 0x2D // Various test settings
	TEST0   Register = 0x2E // Various test settings

	PATABLE Register = 0x3E // Power amplifier table
	TXFIFO  Register = 0x3F // TX FIFO (write access)
	RXFIFO  Register = 0x3F // RX FIFO (read access)
)

// NumConfigRegisters is the number of configuration registers, 0x00 through 0x2E.
const NumConfigRegisters = int(TEST0) + 1

var registerNames = [...]string{
	"IOCFG2", "IOCFG1", "IOCFG0", "FIFOTHR", "SYNC1", "SYNC0", "PKTLEN",
	"PKTCTRL1", "PKTCTRL0", "ADDR", "CHANNR", "FSCTRL1", "FSCTRL0",
	"FREQ2", "FREQ1", "FREQ0", "MDMCFG4", "MDMCFG3", "MDMCFG2", "MDMCFG1",
	"MDMCFG0", "DEVIATN", "MCSM2", "MCSM1", "MCSM0", "FOCCFG", "BSCFG",
	"AGCCTRL2", "AGCCTRL1", "AGCCTRL0", "WOREVT1", "WOREVT0", "WORCTRL",
	"FREND1", "FREND0", "FSCAL3", "FSCAL2", "FSCAL1", "FSCAL0", "RCCTRL1",
	"RCCTRL0", "FSTEST", "PTEST", "AGCTEST", "TEST2", "TEST1", "TEST0",
}

func (r Register) String() string {
	switch {
	case int(r) < len(registerNames):
		return registerNames[r]
	case r == PATABLE:
		return "PATABLE"
	case r == TXFIFO:
		return "FIFO"
	}
	return fmt.Sprintf("Register(%02X)", byte(r))
}

// StatusRegister is the address of a read-only CC1101 status register.
// Status registers share addresses 0x30-0x3D with the command strobes;
// they are distinguished by the burst bit, so the header byte is used as is.
type StatusRegister byte

// Status registers (datasheet table 44).
const (
	PARTNUM        StatusRegister = 0xF0 // Chip ID
	VERSION        StatusRegister = 0xF1 // Chip version
	FREQEST        StatusRegister = 0xF2 // Frequency offset estimate from demodulator
	LQI            StatusRegister = 0xF3 // Demodulator estimate for link quality
	RSSI           StatusRegister = 0xF4 // Received signal strength indication
	MARCSTATE      StatusRegister = 0xF5 // Main radio control state machine state
	WORTIME1       StatusRegister = 0xF6 // High byte of WOR time
	WORTIME0       StatusRegister = 0xF7 // Low byte of WOR time
	PKTSTATUS      StatusRegister = 0xF8 // Current GDOx status and packet status
	VCO_VC_DAC     StatusRegister = 0xF9 // Current setting from PLL calibration module
	TXBYTES        StatusRegister = 0xFA // Underflow and number of bytes
	RXBYTES        StatusRegister = 0xFB // Overflow and number of bytes
	RCCTRL1_STATUS StatusRegister = 0xFC // Last RC oscillator calibration result
	RCCTRL0_STATUS StatusRegister = 0xFD // Last RC oscillator calibration result
)

var statusNames = [...]string{
	"PARTNUM", "VERSION", "FREQEST", "LQI", "RSSI", "MARCSTATE", "WORTIME1",
	"WORTIME0", "PKTSTATUS", "VCO_VC_DAC", "TXBYTES", "RXBYTES",
	"RCCTRL1_STATUS", "RCCTRL0_STATUS",
}

func (r StatusRegister) String() string {
	if r >= PARTNUM && r <= RCCTRL0_STATUS {
		return statusNames[r-PARTNUM]
	}
	return fmt.Sprintf("StatusRegister(%02X)", byte(r))
}

// Strobe is a command strobe address.
type Strobe byte

// Command strobes (datasheet table 42).
const (
	SRES    Strobe = 0x30 // Reset chip
	SFSTXON Strobe = 0x31 // Enable and calibrate frequency synthesizer
	SXOFF   Strobe = 0x32 // Turn off crystal oscillator
	SCAL    Strobe = 0x33 // Calibrate frequency synthesizer and turn it off
	SRX     Strobe = 0x34 // Enable RX
	STX     Strobe = 0x35 // Enable TX
	SIDLE   Strobe = 0x36 // Exit RX/TX, turn off frequency synthesizer
	SWOR    Strobe = 0x38 // Start automatic RX polling sequence (wake-on-radio)
	SPWD    Strobe = 0x39 // Enter power down mode when CSn goes high
	SFRX    Strobe = 0x3A // Flush the RX FIFO buffer
	SFTX    Strobe = 0x3B // Flush the TX FIFO buffer
	SWORRST Strobe = 0x3C // Reset real time clock to Event1 value
	SNOP    Strobe = 0x3D // No operation
)

var strobeNames = map[Strobe]string{
	SRES:    "SRES",
	SFSTXON: "SFSTXON",
	SXOFF:   "SXOFF",
	SCAL:    "SCAL",
	SRX:     "SRX",
	STX:     "STX",
	SIDLE:   "SIDLE",
	SWOR:    "SWOR",
	SPWD:    "SPWD",
	SFRX:    "SFRX",
	SFTX:    "SFTX",
	SWORRST: "SWORRST",
	SNOP:    "SNOP",
}

func (s Strobe) String() string {
	if name, ok := strobeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strobe(%02X)", byte(s))
}

// Valid reports whether s is one of the defined command strobes.
func (s Strobe) Valid() bool {
	_, ok := strobeNames[s]
	return ok
}

// State represents the main radio control state machine state (MARCSTATE).
type State byte

// MARCSTATE values (datasheet table 45).
const (
	StateSleep           State = 0x00
	StateIdle            State = 0x01
	StateXOff            State = 0x02
	StateVCOOnMC         State = 0x03
	StateRegOnMC         State = 0x04
	StateManCal          State = 0x05
	StateVCOOn           State = 0x06
	StateRegOn           State = 0x07
	StateStartCal        State = 0x08
	StateBWBoost         State = 0x09
	StateFSLock          State = 0x0A
	StateIFADCOn         State = 0x0B
	StateEndCal          State = 0x0C
	StateRX              State = 0x0D
	StateRXEnd           State = 0x0E
	StateRXRst           State = 0x0F
	StateTXRXSwitch      State = 0x10
	StateRXFIFOOverflow  State = 0x11
	StateFSTXOn          State = 0x12
	StateTX              State = 0x13
	StateTXEnd           State = 0x14
	StateRXTXSwitch      State = 0x15
	StateTXFIFOUnderflow State = 0x16
)

const marcStateMask = 0x1F

var stateNames = [...]string{
	"SLEEP", "IDLE", "XOFF", "VCOON_MC", "REGON_MC", "MANCAL", "VCOON",
	"REGON", "STARTCAL", "BWBOOST", "FS_LOCK", "IFADCON", "ENDCAL", "RX",
	"RX_END", "RX_RST", "TXRX_SWITCH", "RXFIFO_OVERFLOW", "FSTXON", "TX",
	"TX_END", "RXTX_SWITCH", "TXFIFO_UNDERFLOW",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%02X)", byte(s))
}

// Bits of the TXBYTES and RXBYTES status registers.
const (
	numBytesMask = 0x7F
	fifoErrorBit = 0x80 // TXFIFO_UNDERFLOW or RXFIFO_OVERFLOW
)

// Expected identification of a CC1101 after reset.
const (
	expectedPartnum = 0x00
	expectedVersion = 0x14
)
