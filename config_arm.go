package cc1101

// Configuration for Raspberry Pi Zero W with a CC1101 module on SPI0
// and a PA/LNA front end whose TX enable line is wired to GPIO 25.

const (
	spiDevice   = "/dev/spidev0.0"
	customCS    = 0
	txEnablePin = 25
)
