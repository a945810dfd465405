package main

import (
	"context"
	"fmt"
	"log"

	"github.com/ecc1/cc1101"
)

func main() {
	r, err := cc1101.Open(cc1101.Options{})
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()
	if err := r.Reset(); err != nil {
		log.Fatal(err)
	}
	if _, err := r.WaitForState(context.Background(), cc1101.StateIdle); err != nil {
		log.Fatal(err)
	}
	if err := r.SelfTest(); err != nil {
		log.Fatal(err)
	}
	s, err := r.State()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("state: %s\n", s)
	f, err := r.Frequency()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("frequency: %d\n", f)
	for _, reg := range []cc1101.Register{cc1101.PKTCTRL1, cc1101.PKTCTRL0, cc1101.MDMCFG2, cc1101.MDMCFG1} {
		fields, err := r.RegisterFields(reg)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s:\n", reg)
		for _, v := range fields {
			fmt.Printf("  %s\n", v)
		}
	}
}
