// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package netaddr

import (
	"strings"
	"testing"
)

func TestParseIPv4(t *testing.T) {
	for s, want := range map[string]uint32{
		"192.168.10.2":    0xC0A80A02,
		"0.0.0.0":         0,
		"255.255.255.255": 0xFFFFFFFF,
	} {
		got, err := ParseIPv4(s)
		if err != nil {
			t.Error(s, ": unexpected error:", err)
		}
		if got != want {
			t.Errorf("%s: got 0x%08X want 0x%08X", s, got, want)
		}
		if back := IPv4String(got); back != s {
			t.Error(s, ": round trip gave", back)
		}
	}
	for _, s := range []string{"", "192.168.10", "fe80::1", "host"} {
		if _, err := ParseIPv4(s); err == nil {
			t.Error(s, ": expected error")
		}
	}
}

func TestParseMAC(t *testing.T) {
	got, err := ParseMAC("aa:bb:cc:dd:ee:ff")
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xAABBCCDDEEFF {
		t.Errorf("got 0x%012X", got)
	}
	upper, err := ParseMAC("AA-BB-CC-DD-EE-FF")
	if err != nil {
		t.Fatal(err)
	}
	if upper != got {
		t.Error("case/separator sensitivity")
	}
	if s := MACString(got); s != "aa:bb:cc:dd:ee:ff" {
		t.Error("round trip gave", s)
	}
	if _, err = ParseMAC("aa:bb:cc:dd:ee"); err == nil {
		t.Error("expected error for short MAC")
	}
	if _, err = ParseMAC("02:00:5e:10:00:00:00:01"); err == nil {
		t.Error("expected error for EUI-64")
	}
}

const arpSample = `IP address       HW type     Flags       HW address            Mask     Device
192.168.10.2     0x1         0x2         aa:bb:cc:dd:ee:ff     *        eth0
192.168.10.9     0x1         0x0         00:00:00:00:00:00     *        eth0
10.0.0.7         0x1         0x2         02:11:22:33:44:55     *        sfp0
`

func TestScanNeighbors(t *testing.T) {
	mac, found := scanNeighbors(strings.NewReader(arpSample), "192.168.10.2")
	if !found || mac != "aa:bb:cc:dd:ee:ff" {
		t.Error("got", mac, found)
	}
	if _, found = scanNeighbors(strings.NewReader(arpSample), "192.168.10.9"); found {
		t.Error("incomplete entry must not resolve")
	}
	if _, found = scanNeighbors(strings.NewReader(arpSample), "192.168.10.3"); found {
		t.Error("missing entry must not resolve")
	}
}
