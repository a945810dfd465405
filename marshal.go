package cc1101

// Marshaling of multi-register values, most significant byte first.

func marshalUint16(n uint16) []byte {
	return []byte{byte(n >> 8), byte(n & 0xFF)}
}

// marshalUint24 returns the low 24 bits of n, as stored in FREQ2/FREQ1/FREQ0.
func marshalUint24(n uint32) []byte {
	return append([]byte{byte(n >> 16)}, marshalUint16(uint16(n&0xFFFF))...)
}

func unmarshalUint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}
