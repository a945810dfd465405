package cc1101

// Configuration for Intel Edison in 64-bit mode with a CC1101 breakout.

const (
	spiDevice   = "/dev/spidev5.1"
	customCS    = 110
	txEnablePin = -1
)
