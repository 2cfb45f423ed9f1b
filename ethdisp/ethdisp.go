// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package ethdisp programs the FPGA Ethernet dispatcher: the table that
// routes outgoing sample streams, by destination endpoint, to an
// IPv4/MAC/UDP-port tuple. State lives entirely in hardware; every call
// is a direct, idempotent register write.
package ethdisp

import (
	"fmt"

	"github.com/turcofran/uhd/dlog"
	"github.com/turcofran/uhd/netaddr"
	"github.com/turcofran/uhd/uio"
)

type Table struct {
	regs uio.Regs
	log  *dlog.Logger
}

// swapped in tests
var resolveMAC = netaddr.ResolveMAC

// New wraps an open register window. The caller owns the window and must
// serialize access; Table itself keeps no state and takes no locks.
func New(regs uio.Regs, log *dlog.Logger) *Table {
	return &Table{regs: regs, log: log}
}

// SetIPv4Addr sets the dispatcher's own IP address. Outgoing packets
// carry it as the source address.
func (t *Table) SetIPv4Addr(ipAddr string) error {
	u, err := netaddr.ParseIPv4(ipAddr)
	if err != nil {
		return err
	}
	t.log.Debugf("setting my own IP address to %s", ipAddr)
	t.poke(OwnIPOffset, u)
	return nil
}

// SetVitaPort sets the UDP port that selects FPGA-bound VITA traffic on
// receive. Port 0 means the default for the slot (49153 or 49154).
func (t *Table) SetVitaPort(port uint32, slot int) error {
	if slot != 0 && slot != 1 {
		return fmt.Errorf("vita port slot %d not in (0, 1)", slot)
	}
	if port == 0 {
		port = defaultVitaPort[slot]
	}
	off := uint32(OwnPort0Offset)
	if slot == 1 {
		off = OwnPort1Offset
	}
	t.log.Debugf("setting vita port [%d] to %d", slot, port)
	t.poke(off, port)
	return nil
}

// SetRoute directs all traffic for sid's destination endpoint to
// ipAddr/udpPort. With an empty macAddr the neighbor's MAC is resolved
// through the kernel table; if that fails the route is still written,
// with a zero MAC, so that board bring-up can proceed and the entry be
// repaired once the neighbor answers ARP.
func (t *Table) SetRoute(sid SID, ipAddr string, udpPort int, macAddr string) error {
	ep := sid.DstEp()
	if ep > MaxEndpoint {
		return fmt.Errorf("endpoint %d exceeds table size (%d entries)",
			ep, MaxEndpoint+1)
	}
	ipInt, err := netaddr.ParseIPv4(ipAddr)
	if err != nil {
		return err
	}
	var macInt uint64
	if macAddr == "" {
		macInt, err = resolveMAC(ipAddr)
		if err != nil {
			t.log.Errorf("could not resolve a MAC address for %s: %v",
				ipAddr, err)
			macInt = 0
		}
	} else if macInt, err = netaddr.ParseMAC(macAddr); err != nil {
		return err
	}
	t.log.Debugf("routing %s to %s port %d mac %s",
		sid, ipAddr, udpPort, netaddr.MACString(macInt))
	off := 4 * uint32(ep)
	t.poke(EpIPOffset+off, ipInt)
	t.poke(EpMACLoOffset+off, uint32(macInt&0xFFFFFFFF))
	t.poke(EpPortMACHiOffset+off,
		uint32(udpPort)<<16|uint32(macInt>>32)&0xFFFF)
	return nil
}

func (t *Table) poke(offset, value uint32) {
	t.log.Tracef("writing to address 0x%04X: 0x%08X", offset, value)
	t.regs.Poke32(offset, value)
}
