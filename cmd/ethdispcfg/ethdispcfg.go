// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package ethdispcfg configures a running ethdispd through its RPC
// socket.
package ethdispcfg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/platinasystems/atsock"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"

	"github.com/turcofran/uhd/cmd/ethdispd"
	"github.com/turcofran/uhd/lang"
)

type Command struct{}

func (Command) String() string { return "ethdispcfg" }

func (Command) Usage() string {
	return "ethdispcfg [-l LABEL] [-ip ADDR] [-port PORT [-slot SLOT]] " +
		"[-route SID,ADDR,UDPPORT [-mac MAC]]"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "configure the ethernet dispatcher",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Program the FPGA Ethernet dispatcher through ethdispd.

	-l LABEL
		UIO window the daemon was started with (default ` +
			ethdispd.DefaultLabel + `)
	-ip ADDR
		set the dispatcher's own IPv4 address
	-port PORT
		set the VITA traffic port of -slot (0 or 1, default 0);
		PORT 0 selects the slot's default port
	-route SID,ADDR,UDPPORT
		route the SID's destination endpoint to ADDR:UDPPORT.
		SID accepts 0x prefixed hex. Without -mac the
		neighbor's MAC is resolved through ARP.
	-defaults
		program both VITA ports with their default values

	Example:
	ethdispcfg -ip 192.168.10.1 -route 0x0235,192.168.10.2,49153`,
	}
}

func (c Command) Main(args ...string) error {
	flag, args := flags.New(args, "-defaults")
	parm, args := parms.New(args,
		"-l", "-ip", "-port", "-slot", "-route", "-mac")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	label := parm.ByName["-l"]
	if label == "" {
		label = ethdispd.DefaultLabel
	}

	cl, err := atsock.NewRpcClient(ethdispd.SockName(label))
	if err != nil {
		return fmt.Errorf("is ethdispd running? %v", err)
	}
	defer cl.Close()

	if flag.ByName["-defaults"] {
		for slot := 0; slot < 2; slot++ {
			err = cl.Call("Dispatch.SetVitaPort",
				&ethdispd.PortArgs{Slot: slot}, &struct{}{})
			if err != nil {
				return err
			}
		}
	}
	if ip := parm.ByName["-ip"]; ip != "" {
		err = cl.Call("Dispatch.SetIPv4Addr",
			&ethdispd.IPArgs{IP: ip}, &struct{}{})
		if err != nil {
			return err
		}
	}
	if s := parm.ByName["-port"]; s != "" {
		port, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return fmt.Errorf("-port %s: %v", s, err)
		}
		slot := 0
		if s := parm.ByName["-slot"]; s != "" {
			if slot, err = strconv.Atoi(s); err != nil {
				return fmt.Errorf("-slot %s: %v", s, err)
			}
		}
		err = cl.Call("Dispatch.SetVitaPort",
			&ethdispd.PortArgs{Port: uint32(port), Slot: slot},
			&struct{}{})
		if err != nil {
			return err
		}
	}
	if s := parm.ByName["-route"]; s != "" {
		route, err := parseRoute(s, parm.ByName["-mac"])
		if err != nil {
			return err
		}
		err = cl.Call("Dispatch.SetRoute", route, &struct{}{})
		if err != nil {
			return err
		}
	}
	return nil
}

func parseRoute(s, mac string) (*ethdispd.RouteArgs, error) {
	f := strings.Split(s, ",")
	if len(f) != 3 {
		return nil, fmt.Errorf("-route %s: want SID,ADDR,UDPPORT", s)
	}
	sid, err := strconv.ParseUint(f[0], 0, 32)
	if err != nil {
		return nil, fmt.Errorf("-route sid %s: %v", f[0], err)
	}
	port, err := strconv.Atoi(f[2])
	if err != nil || port <= 0 || port > 0xFFFF {
		return nil, fmt.Errorf("-route udp port %s: invalid", f[2])
	}
	return &ethdispd.RouteArgs{
		SID:     uint32(sid),
		IP:      f[1],
		UDPPort: port,
		MAC:     mac,
	}, nil
}
