// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package ethdispd is the Ethernet dispatcher daemon. It owns the
// dispatcher's UIO register window and takes configuration over an
// abstract-socket RPC, so that exactly one process programs the table.
package ethdispd

import (
	"fmt"
	"net/rpc"
	"sync"

	"github.com/platinasystems/atsock"

	"github.com/turcofran/uhd/cmd"
	"github.com/turcofran/uhd/dlog"
	"github.com/turcofran/uhd/ethdisp"
	"github.com/turcofran/uhd/lang"
	"github.com/turcofran/uhd/uio"
)

const DefaultLabel = "misc-enet-regs0"

// SockName is the daemon's RPC socket for a given register window.
func SockName(label string) string { return "ethdispd." + label }

type Command struct {
	Dispatch

	rpc    *atsock.RpcServer
	region *uio.Region
	stop   chan struct{}
}

// Dispatch is the RPC service. The mutex is the serialization point for
// all register access; the table itself takes no locks.
type Dispatch struct {
	mutex sync.Mutex
	tbl   *ethdisp.Table
}

type IPArgs struct {
	IP string
}

type PortArgs struct {
	Port uint32
	Slot int
}

type RouteArgs struct {
	SID     uint32
	IP      string
	UDPPort int
	MAC     string
}

func (*Command) String() string { return "ethdispd" }

func (*Command) Usage() string { return "ethdispd [LABEL]" }

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "ethernet dispatcher daemon, takes routes over rpc",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Maps the named UIO register window of the FPGA Ethernet
	dispatcher (default ` + DefaultLabel + `) and serves the
	Dispatch RPC on @` + SockName("LABEL") + `.

	Use ethdispcfg to set the dispatcher's own address, VITA ports
	and per-endpoint routes.`,
	}
}

func (*Command) Kind() cmd.Kind { return cmd.Daemon }

func (c *Command) Main(args ...string) (err error) {
	label := DefaultLabel
	switch len(args) {
	case 0:
	case 1:
		label = args[0]
	default:
		return fmt.Errorf("%v: unexpected", args[1:])
	}

	log := dlog.New(label)
	if c.region, err = uio.Open(label); err != nil {
		return err
	}
	defer c.region.Close()
	c.tbl = ethdisp.New(c.region, log)

	if c.rpc, err = atsock.NewRpcServer(SockName(label)); err != nil {
		return err
	}
	defer c.rpc.Close()
	rpc.Register(&c.Dispatch)

	log.Infof("serving dispatcher rpc on @%s", SockName(label))
	c.stop = make(chan struct{})
	<-c.stop
	return nil
}

// Close may race an early Main failure, so tolerate a never-made stop.
func (c *Command) Close() error {
	if c.stop != nil {
		close(c.stop)
	}
	return nil
}

func (d *Dispatch) SetIPv4Addr(args *IPArgs, _ *struct{}) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.tbl.SetIPv4Addr(args.IP)
}

func (d *Dispatch) SetVitaPort(args *PortArgs, _ *struct{}) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.tbl.SetVitaPort(args.Port, args.Slot)
}

func (d *Dispatch) SetRoute(args *RouteArgs, _ *struct{}) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.tbl.SetRoute(ethdisp.SID(args.SID),
		args.IP, args.UDPPort, args.MAC)
}
