package cc1101

// Configuration for Raspberry Pi 3/4 (64-bit) with a CC1101 module on SPI0.

const (
	spiDevice   = "/dev/spidev0.0"
	customCS    = 0
	txEnablePin = -1
)
