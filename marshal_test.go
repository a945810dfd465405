package cc1101

import (
	"bytes"
	"fmt"
	"math"
	"testing"
)

func TestMarshalUint16(t *testing.T) {
	cases := []struct {
		val uint16
		rep []byte
	}{
		{0x1234, []byte{0x12, 0x34}},
		{0xFAFA, []byte{0xFA, 0xFA}},
		{0, []byte{0, 0}},
		{math.MaxUint16, []byte{0xFF, 0xFF}},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("marshal16_%d", c.val), func(t *testing.T) {
			rep := marshalUint16(c.val)
			if !bytes.Equal(rep, c.rep) {
				t.Errorf("marshalUint16(%04X) == % X, want % X", c.val, rep, c.rep)
			}
		})
	}
}

func TestMarshalUint24(t *testing.T) {
	cases := []struct {
		val uint32
		rep []byte
	}{
		{0x10A762, []byte{0x10, 0xA7, 0x62}},
		{0x216276, []byte{0x21, 0x62, 0x76}},
		{0, []byte{0, 0, 0}},
		{0xFFFFFF, []byte{0xFF, 0xFF, 0xFF}},
		{0x12345678, []byte{0x34, 0x56, 0x78}},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("marshal24_%d", c.val), func(t *testing.T) {
			rep := marshalUint24(c.val)
			if !bytes.Equal(rep, c.rep) {
				t.Errorf("marshalUint24(%06X) == % X, want % X", c.val, rep, c.rep)
			}
			if c.val <= 0xFFFFFF {
				if n := unmarshalUint24(rep); n != c.val {
					t.Errorf("unmarshalUint24(% X) == %06X, want %06X", rep, n, c.val)
				}
			}
		})
	}
}
