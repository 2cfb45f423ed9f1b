// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ethdisp

import (
	"errors"
	"testing"

	"github.com/turcofran/uhd/dlog"
)

type write struct {
	offset uint32
	value  uint32
}

// fakeRegs records pokes in order so tests can check both the addresses
// and the write sequence.
type fakeRegs struct {
	writes []write
	mem    map[uint32]uint32
}

func newFakeRegs() *fakeRegs {
	return &fakeRegs{mem: make(map[uint32]uint32)}
}

func (f *fakeRegs) Peek32(offset uint32) uint32 { return f.mem[offset] }

func (f *fakeRegs) Poke32(offset, value uint32) {
	f.writes = append(f.writes, write{offset, value})
	f.mem[offset] = value
}

func testTable() (*Table, *fakeRegs) {
	regs := newFakeRegs()
	return New(regs, dlog.NewWith("eth-dispatch", func(...interface{}) {})), regs
}

func TestSetIPv4Addr(t *testing.T) {
	tbl, regs := testTable()
	if err := tbl.SetIPv4Addr("192.168.10.1"); err != nil {
		t.Fatal(err)
	}
	if got := regs.mem[OwnIPOffset]; got != 0xC0A80A01 {
		t.Errorf("own IP: got 0x%08X", got)
	}
	if err := tbl.SetIPv4Addr("not-an-ip"); err == nil {
		t.Error("expected address format error")
	}
	if len(regs.writes) != 1 {
		t.Error("failed parse must not write registers")
	}
}

func TestSetVitaPortDefaults(t *testing.T) {
	tbl, regs := testTable()
	if err := tbl.SetVitaPort(0, 0); err != nil {
		t.Fatal(err)
	}
	if got := regs.mem[OwnPort0Offset]; got != 49153 {
		t.Error("slot 0 default: got", got)
	}
	if err := tbl.SetVitaPort(0, 1); err != nil {
		t.Fatal(err)
	}
	if got := regs.mem[OwnPort1Offset]; got != 49154 {
		t.Error("slot 1 default: got", got)
	}
	if err := tbl.SetVitaPort(1234, 1); err != nil {
		t.Fatal(err)
	}
	if got := regs.mem[OwnPort1Offset]; got != 1234 {
		t.Error("explicit port: got", got)
	}
	if err := tbl.SetVitaPort(0, 2); err == nil {
		t.Error("expected error for slot 2")
	}
}

func TestSetRoute(t *testing.T) {
	tbl, regs := testTable()
	sid := NewSID(2, 0, 0, 5)
	err := tbl.SetRoute(sid, "192.168.10.2", 49153, "aa:bb:cc:dd:ee:ff")
	if err != nil {
		t.Fatal(err)
	}
	want := []write{
		{0x1014, 0xC0A80A02},
		{0x1814, 0xCCDDEEFF},
		{0x1414, 49153<<16 | 0xAABB},
	}
	if len(regs.writes) != len(want) {
		t.Fatal("got", len(regs.writes), "writes, want", len(want))
	}
	for i, w := range want {
		if regs.writes[i] != w {
			t.Errorf("write %d: got {0x%04X 0x%08X} want {0x%04X 0x%08X}",
				i, regs.writes[i].offset, regs.writes[i].value,
				w.offset, w.value)
		}
	}
}

func TestSetRouteUnresolvedMAC(t *testing.T) {
	defer func(f func(string) (uint64, error)) { resolveMAC = f }(resolveMAC)
	resolveMAC = func(ip string) (uint64, error) {
		return 0, errors.New("no neighbor")
	}
	tbl, regs := testTable()
	if err := tbl.SetRoute(NewSID(2, 0, 0, 5), "192.168.10.2", 49153, ""); err != nil {
		t.Fatal(err)
	}
	// the route still lands, with a zero MAC, repairable later
	want := []write{
		{0x1014, 0xC0A80A02},
		{0x1814, 0},
		{0x1414, 49153 << 16},
	}
	if len(regs.writes) != len(want) {
		t.Fatal("got", len(regs.writes), "writes, want", len(want))
	}
	for i, w := range want {
		if regs.writes[i] != w {
			t.Errorf("write %d: got {0x%04X 0x%08X} want {0x%04X 0x%08X}",
				i, regs.writes[i].offset, regs.writes[i].value,
				w.offset, w.value)
		}
	}
}

func TestSetRouteEndpointZero(t *testing.T) {
	tbl, regs := testTable()
	if err := tbl.SetRoute(NewSID(2, 0, 0, 0), "10.0.0.1", 1000, "02:00:00:00:00:01"); err != nil {
		t.Fatal(err)
	}
	if got := regs.mem[EpIPOffset]; got != 0x0A000001 {
		t.Errorf("ep 0 dest IP: got 0x%08X", got)
	}
	if got := regs.mem[EpPortMACHiOffset]; got != 1000<<16|0x0200 {
		t.Errorf("ep 0 port/mac hi: got 0x%08X", got)
	}
}

func TestSetRouteBadInput(t *testing.T) {
	tbl, regs := testTable()
	if err := tbl.SetRoute(NewSID(0, 0, 0, 1), "999.1.2.3", 1, "aa:bb:cc:dd:ee:ff"); err == nil {
		t.Error("expected error for bad IP")
	}
	if err := tbl.SetRoute(NewSID(0, 0, 0, 1), "10.0.0.1", 1, "zz:bb:cc:dd:ee:ff"); err == nil {
		t.Error("expected error for bad MAC")
	}
	if len(regs.writes) != 0 {
		t.Error("failed validation must not write registers")
	}
}

func TestSID(t *testing.T) {
	s := NewSID(0x02, 0x01, 0x00, 0x35)
	if s != 0x02010035 {
		t.Errorf("packed: got 0x%08X", uint32(s))
	}
	if s.DstEp() != 0x35 || s.DstAddr() != 0 || s.SrcAddr() != 2 || s.SrcEp() != 1 {
		t.Error("field extraction:", s)
	}
	if s.String() != "02:01>00:35" {
		t.Error("string form:", s.String())
	}
}
