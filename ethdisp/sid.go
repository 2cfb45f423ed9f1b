// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ethdisp

import "fmt"

// SID is the 32-bit stream identifier carried in sample packet headers:
// source address and endpoint in the upper half, destination address and
// endpoint in the lower half, 8 bits each. The dispatcher only cares
// about the destination endpoint.
type SID uint32

func NewSID(srcAddr, srcEp, dstAddr, dstEp int) SID {
	return SID(uint32(srcAddr&0xFF)<<24 | uint32(srcEp&0xFF)<<16 |
		uint32(dstAddr&0xFF)<<8 | uint32(dstEp&0xFF))
}

func (s SID) SrcAddr() int { return int(s>>24) & 0xFF }
func (s SID) SrcEp() int   { return int(s>>16) & 0xFF }
func (s SID) DstAddr() int { return int(s>>8) & 0xFF }
func (s SID) DstEp() int   { return int(s) & 0xFF }

func (s SID) String() string {
	return fmt.Sprintf("%02X:%02X>%02X:%02X",
		s.SrcAddr(), s.SrcEp(), s.DstAddr(), s.DstEp())
}
