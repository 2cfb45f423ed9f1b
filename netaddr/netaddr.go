// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package netaddr converts between the string and integer forms of IPv4
// and MAC addresses used by the FPGA dispatcher registers, and resolves
// destination MACs through the kernel neighbor table.
package netaddr

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/jpillora/backoff"
	"github.com/tatsushid/go-fastping"
)

const arpTable = "/proc/net/arp"

// ParseIPv4 returns the address packed into host order, most significant
// octet first, as the dispatcher expects it.
func ParseIPv4(s string) (uint32, error) {
	ip := net.ParseIP(s)
	if ip != nil {
		ip = ip.To4()
	}
	if ip == nil {
		return 0, fmt.Errorf("invalid IPv4 address %q", s)
	}
	return uint32(ip[0])<<24 | uint32(ip[1])<<16 |
		uint32(ip[2])<<8 | uint32(ip[3]), nil
}

func IPv4String(u uint32) string {
	return net.IPv4(byte(u>>24), byte(u>>16), byte(u>>8), byte(u)).String()
}

// ParseMAC accepts the usual ':' or '-' separated forms, any case, and
// packs the six octets into the low 48 bits.
func ParseMAC(s string) (uint64, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return 0, err
	}
	if len(hw) != 6 {
		return 0, fmt.Errorf("%q: not a 48-bit MAC", s)
	}
	var u uint64
	for _, b := range hw {
		u = u<<8 | uint64(b)
	}
	return u, nil
}

func MACString(u uint64) string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		byte(u>>40), byte(u>>32), byte(u>>24),
		byte(u>>16), byte(u>>8), byte(u))
}

// ResolveMAC returns the MAC address of an IPv4 neighbor. The kernel
// table is consulted first; on a miss the neighbor is primed with a
// single ICMP echo and the table re-read with backoff. Callers decide
// whether an unresolved neighbor is fatal.
func ResolveMAC(ip string) (uint64, error) {
	if _, err := ParseIPv4(ip); err != nil {
		return 0, err
	}
	if mac, found := lookupNeighbor(ip); found {
		return ParseMAC(mac)
	}
	ping(ip)
	b := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    time.Second,
		Factor: 2,
		Jitter: false,
	}
	for i := 0; i < 4; i++ {
		time.Sleep(b.Duration())
		if mac, found := lookupNeighbor(ip); found {
			return ParseMAC(mac)
		}
	}
	return 0, fmt.Errorf("no neighbor table entry for %s", ip)
}

func lookupNeighbor(ip string) (string, bool) {
	f, err := os.Open(arpTable)
	if err != nil {
		return "", false
	}
	defer f.Close()
	return scanNeighbors(f, ip)
}

// scanNeighbors reads a /proc/net/arp style table. Entries whose flags
// are zero are incomplete and skipped.
func scanNeighbors(r io.Reader, ip string) (string, bool) {
	scanner := bufio.NewScanner(r)
	scanner.Scan() // header
	for scanner.Scan() {
		f := strings.Fields(scanner.Text())
		if len(f) < 4 || f[0] != ip {
			continue
		}
		if f[2] == "0x0" || f[3] == "00:00:00:00:00:00" {
			continue
		}
		return f[3], true
	}
	return "", false
}

func ping(dest string) error {
	da, err := net.ResolveIPAddr("ip4:icmp", dest)
	if err != nil {
		return err
	}
	pinger := fastping.NewPinger()
	pinger.Size = 64
	pinger.MaxRTT = time.Second
	pinger.AddIPAddr(da)
	err = syscall.ETIMEDOUT
	pinger.OnRecv = func(*net.IPAddr, time.Duration) { err = nil }
	pinger.OnIdle = func() {}
	if rerr := pinger.Run(); err == nil {
		err = rerr
	}
	return err
}
