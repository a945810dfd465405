// txrx sends a counter once per interval, or prints received packets.
//
// Examples:
//
//	# Transmit fixed-length packets addressed to 0x0A
//	./txrx -m send -addr 0x0A
//
//	# Receive them on a Raspberry Pi through periph.io
//	./txrx -m recv -addr 0x0A -periph SPI0.0
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ecc1/cc1101"
	"github.com/ecc1/cc1101/periphspi"
)

var (
	mode      = flag.String("m", "", "mode: 'send' or 'recv' (required)")
	address   = flag.Uint("addr", 0x0A, "device address used for packet filtering")
	freq      = flag.Float64("f", 433, "carrier frequency in MHz")
	variable  = flag.Bool("variable", false, "use variable-length packets")
	interval  = flag.Duration("interval", time.Second, "delay between transmissions or RX polls")
	periphDev = flag.String("periph", "", "open this periph.io SPI port instead of spidev")
	verbose   = flag.Bool("v", false, "log packet flow")
	trace     = flag.Bool("trace", false, "log every SPI transaction")
)

func main() {
	flag.Parse()
	if *mode != "send" && *mode != "recv" {
		fmt.Fprintln(os.Stderr, "Error: mode (-m) must be 'send' or 'recv'")
		flag.PrintDefaults()
		os.Exit(1)
	}
	switch {
	case *trace:
		logrus.SetLevel(logrus.TraceLevel)
	case *verbose:
		logrus.SetLevel(logrus.DebugLevel)
	}

	r, err := open()
	if err != nil {
		logrus.Fatal(err)
	}
	defer r.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := setup(ctx, r); err != nil {
		logrus.Fatal(err)
	}
	switch *mode {
	case "send":
		err = sendLoop(ctx, r)
	case "recv":
		err = recvLoop(ctx, r)
	}
	if err != nil && ctx.Err() == nil {
		logrus.Fatal(err)
	}
	st := r.Statistics()
	fmt.Printf("sent %d packets (%d bytes), received %d packets (%d bytes)\n",
		st.Packets.Sent, st.Bytes.Sent, st.Packets.Received, st.Bytes.Received)
}

func open() (*cc1101.Radio, error) {
	if *periphDev == "" {
		return cc1101.Open(cc1101.Options{})
	}
	bus, err := periphspi.Open(*periphDev, periphspi.DefaultSpeed)
	if err != nil {
		return nil, err
	}
	opts := cc1101.DefaultOptions()
	opts.SPIDevice = bus.String()
	return cc1101.New(bus, opts), nil
}

func setup(ctx context.Context, r *cc1101.Radio) error {
	if err := r.Reset(); err != nil {
		return err
	}
	if _, err := r.WaitForState(ctx, cc1101.StateIdle); err != nil {
		return err
	}
	if err := r.SelfTest(); err != nil {
		return err
	}
	if err := r.LoadDefaultConfiguration(); err != nil {
		return err
	}
	if err := r.SetCarrierFrequency(*freq); err != nil {
		return err
	}
	if err := r.SetFilteringAddress(byte(*address)); err != nil {
		return err
	}
	pm := cc1101.PacketFixed
	if *variable {
		pm = cc1101.PacketVariable
	}
	if err := r.SetPacketMode(pm); err != nil {
		return err
	}
	return r.ConfigureAddressFiltering(cc1101.AddressNoBroadcast)
}

func sendLoop(ctx context.Context, r *cc1101.Radio) error {
	data := make([]byte, 4)
	for count := uint32(0); ; count++ {
		binary.LittleEndian.PutUint32(data, count)
		ok, err := r.Send(ctx, data)
		if err != nil {
			return err
		}
		if !ok {
			logrus.WithField("count", count).Warn("packet not sent")
		}
		if err := wait(ctx); err != nil {
			return err
		}
	}
}

func recvLoop(ctx context.Context, r *cc1101.Radio) error {
	for {
		if err := r.StartRX(ctx); err != nil {
			return err
		}
		p, err := r.Receive(ctx)
		var te *cc1101.TransportError
		switch {
		case errors.As(err, &te):
			return err
		case err != nil:
			logrus.WithError(err).Warn("packet dropped")
		case p != nil:
			printPacket(p)
		}
		if err := wait(ctx); err != nil {
			return err
		}
	}
}

func printPacket(p *cc1101.Packet) {
	fmt.Printf("% X", p.Data)
	if p.HasAddress {
		fmt.Printf("  addr %02X", p.Address)
	}
	if p.Status != nil {
		fmt.Printf("  rssi %d dBm  lqi %d  crc %v", p.Status.RSSIdBm(), p.Status.LQI, p.Status.CRCOK)
	}
	fmt.Println()
}

func wait(ctx context.Context) error {
	return cc1101.SystemClock().Sleep(ctx, *interval)
}
