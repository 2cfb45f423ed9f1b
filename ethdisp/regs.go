// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ethdisp

// Dispatcher register map. Byte offsets into the UIO window; every
// register is 32 bits wide. This layout is a binary contract with the
// FPGA image, any change here must match a gateware change.
const (
	OwnIPOffset = 0x0000

	// Two receive ports distinguish FPGA-bound VITA traffic from
	// traffic destined to the ARM core.
	OwnPort0Offset = 0x0004
	OwnPort1Offset = 0x0008

	// Per-endpoint forwarding tables, indexed by 4*endpoint.
	EpIPOffset        = 0x1000 // destination IPv4
	EpPortMACHiOffset = 0x1400 // (udp port << 16) | MAC bits 47:32
	EpMACLoOffset     = 0x1800 // MAC bits 31:0

	// Each table bank is allocated 0x400 bytes of address space.
	epTableSize = 0x400
	MaxEndpoint = epTableSize/4 - 1
)

var defaultVitaPort = [2]uint32{49153, 49154}
