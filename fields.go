package cc1101

import "fmt"

// A field is a run of bits within a register byte.
// Bit positions follow the datasheet diagrams read left to right:
// start 0 is the most significant bit.
type field struct {
	name  string
	start uint8
	width uint8
}

func (f field) shift() uint8 {
	return 8 - f.start - f.width
}

func (f field) mask() byte {
	return byte((1<<f.width)-1) << f.shift()
}

func (f field) get(b byte) byte {
	return (b & f.mask()) >> f.shift()
}

// set returns b with the field replaced by v. Bits of v beyond the field width are discarded.
func (f field) set(b byte, v byte) byte {
	return b&^f.mask() | (v<<f.shift())&f.mask()
}

// PKTCTRL1
var (
	fieldPQT          = field{"PQT", 0, 3}
	fieldCRCAutoflush = field{"CRC_AUTOFLUSH", 4, 1}
	fieldAppendStatus = field{"APPEND_STATUS", 5, 1}
	fieldAdrChk       = field{"ADR_CHK", 6, 2}
)

// PKTCTRL0
var (
	fieldWhiteData    = field{"WHITE_DATA", 1, 1}
	fieldPktFormat    = field{"PKT_FORMAT", 2, 2}
	fieldCRCEn        = field{"CRC_EN", 5, 1}
	fieldLengthConfig = field{"LENGTH_CONFIG", 6, 2}
)

// MDMCFG2
var (
	fieldDemDCFiltOff = field{"DEM_DCFILT_OFF", 0, 1}
	fieldModFormat    = field{"MOD_FORMAT", 1, 3}
	fieldManchesterEn = field{"MANCHESTER_EN", 4, 1}
	fieldSyncMode     = field{"SYNC_MODE", 5, 3}
)

// MDMCFG1
var (
	fieldFECEn       = field{"FEC_EN", 0, 1}
	fieldNumPreamble = field{"NUM_PREAMBLE", 1, 3}
	fieldChanSpcE    = field{"CHANSPC_E", 6, 2}
)

// PKTSTATUS
var (
	fieldCRCOK      = field{"CRC_OK", 0, 1}
	fieldCS         = field{"CS", 1, 1}
	fieldPQTReached = field{"PQT_REACHED", 2, 1}
	fieldCCA        = field{"CCA", 3, 1}
	fieldSFD        = field{"SFD", 4, 1}
	fieldGDO2       = field{"GDO2", 5, 1}
	fieldGDO0       = field{"GDO0", 7, 1}
)

var registerFields = map[Register][]field{
	PKTCTRL1: {fieldPQT, fieldCRCAutoflush, fieldAppendStatus, fieldAdrChk},
	PKTCTRL0: {fieldWhiteData, fieldPktFormat, fieldCRCEn, fieldLengthConfig},
	MDMCFG2:  {fieldDemDCFiltOff, fieldModFormat, fieldManchesterEn, fieldSyncMode},
	MDMCFG1:  {fieldFECEn, fieldNumPreamble, fieldChanSpcE},
	ADDR:     {{"DEVICE_ADDR", 0, 8}},
	CHANNR:   {{"CHAN", 0, 8}},
}

var pktStatusFields = []field{
	fieldCRCOK, fieldCS, fieldPQTReached, fieldCCA, fieldSFD, fieldGDO2, fieldGDO0,
}

// FieldValue is the decoded value of one named bit field.
type FieldValue struct {
	Name  string
	Start uint8 // most significant bit is 0
	Width uint8
	Value byte
}

func (v FieldValue) String() string {
	if v.Width == 1 {
		return fmt.Sprintf("%s = %d", v.Name, v.Value)
	}
	return fmt.Sprintf("%s[%d:0] = %0*b", v.Name, v.Width-1, int(v.Width), v.Value)
}

func decodeFields(fields []field, b byte) []FieldValue {
	values := make([]FieldValue, len(fields))
	for i, f := range fields {
		values[i] = FieldValue{Name: f.name, Start: f.start, Width: f.width, Value: f.get(b)}
	}
	return values
}

// DecodeRegister splits a register value into its documented bit fields.
// It returns nil for registers without a field description.
func DecodeRegister(reg Register, b byte) []FieldValue {
	fields, ok := registerFields[reg]
	if !ok {
		return nil
	}
	return decodeFields(fields, b)
}

// DecodePacketStatus splits a PKTSTATUS value into its bit fields.
func DecodePacketStatus(b byte) []FieldValue {
	return decodeFields(pktStatusFields, b)
}

// PacketMode is the packet length configuration (PKTCTRL0.LENGTH_CONFIG).
type PacketMode byte

const (
	PacketFixed    PacketMode = 0 // Length configured in PKTLEN
	PacketVariable PacketMode = 1 // Length given by the first byte after sync word
	PacketInfinite PacketMode = 2 // Infinite packet length
)

func (m PacketMode) String() string {
	switch m {
	case PacketFixed:
		return "fixed"
	case PacketVariable:
		return "variable"
	case PacketInfinite:
		return "infinite"
	}
	return fmt.Sprintf("PacketMode(%d)", byte(m))
}

func (m PacketMode) valid() bool {
	return m <= PacketInfinite
}

// AddressFilter is the address check configuration (PKTCTRL1.ADR_CHK).
type AddressFilter byte

const (
	AddressDisabled         AddressFilter = 0 // No address check
	AddressNoBroadcast      AddressFilter = 1 // Address check, no broadcast
	AddressBroadcast00      AddressFilter = 2 // Address check and 0x00 broadcast
	AddressBroadcast00AndFF AddressFilter = 3 // Address check and 0x00 and 0xFF broadcast
)

func (a AddressFilter) String() string {
	switch a {
	case AddressDisabled:
		return "disabled"
	case AddressNoBroadcast:
		return "enabled, no broadcast"
	case AddressBroadcast00:
		return "enabled, 00 broadcast"
	case AddressBroadcast00AndFF:
		return "enabled, 00 and 255 broadcast"
	}
	return fmt.Sprintf("AddressFilter(%d)", byte(a))
}

func (a AddressFilter) valid() bool {
	return a <= AddressBroadcast00AndFF
}

// Enabled reports whether received packets are filtered by address,
// in which case transmitted frames carry an address byte.
func (a AddressFilter) Enabled() bool {
	return a != AddressDisabled
}

// Modulation is the modulation format (MDMCFG2.MOD_FORMAT).
type Modulation byte

// Codes 2, 5 and 6 are reserved by the chip.
const (
	Mod2FSK   Modulation = 0
	ModGFSK   Modulation = 1
	ModASKOOK Modulation = 3
	Mod4FSK   Modulation = 4
	ModMSK    Modulation = 7
)

var modulationNames = map[Modulation]string{
	Mod2FSK:   "2-FSK",
	ModGFSK:   "GFSK",
	ModASKOOK: "ASK/OOK",
	Mod4FSK:   "4-FSK",
	ModMSK:    "MSK",
}

func (m Modulation) String() string {
	if name, ok := modulationNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Modulation(%d)", byte(m))
}

func (m Modulation) valid() bool {
	_, ok := modulationNames[m]
	return ok
}

// ParseModulation maps a modulation name to its code.
// "ASK" and "OOK" are accepted as aliases for "ASK/OOK".
func ParseModulation(name string) (Modulation, error) {
	switch name {
	case "ASK", "OOK":
		return ModASKOOK, nil
	}
	for m, s := range modulationNames {
		if s == name {
			return m, nil
		}
	}
	return 0, newError(ErrUnsupportedModulation, "%q", name)
}

// SyncMode is the sync word qualifier mode (MDMCFG2.SYNC_MODE).
type SyncMode byte

const (
	SyncNone          SyncMode = 0 // No preamble/sync
	Sync15of16        SyncMode = 1 // 15/16 sync word bits detected
	Sync16of16        SyncMode = 2 // 16/16 sync word bits detected
	Sync30of32        SyncMode = 3 // 30/32 sync word bits detected
	SyncCarrier       SyncMode = 4 // No preamble/sync, carrier-sense above threshold
	SyncCarrier15of16 SyncMode = 5 // 15/16 + carrier-sense above threshold
	SyncCarrier16of16 SyncMode = 6 // 16/16 + carrier-sense above threshold
	SyncCarrier30of32 SyncMode = 7 // 30/32 + carrier-sense above threshold
)
