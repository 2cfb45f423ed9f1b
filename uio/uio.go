// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package uio maps FPGA register windows exported through the Linux UIO
// framework. A window is located by the device name the kernel driver
// registered (e.g. "misc-enet-regs0"), mmapped read/write, and accessed
// with single 32-bit loads and stores.
package uio

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"
	"syscall"
	"unsafe"
)

const sysClassUio = "/sys/class/uio"

// Regs is the access contract every register-mapped controller consumes.
// Accesses are synchronous and blocking; offsets are in bytes. An offset
// outside the mapped window is a programming error and panics.
type Regs interface {
	Peek32(offset uint32) uint32
	Poke32(offset uint32, value uint32)
}

// Region is an open, mapped UIO window.
type Region struct {
	Label string

	f   *os.File
	mem []byte
}

// Open scans /sys/class/uio for a device whose name matches label and
// maps its first register window.
func Open(label string) (*Region, error) {
	fis, err := ioutil.ReadDir(sysClassUio)
	if err != nil {
		return nil, err
	}
	for _, fi := range fis {
		name, err := ioutil.ReadFile(
			sysClassUio + "/" + fi.Name() + "/name")
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(name)) == label {
			return openDev(label, fi.Name())
		}
	}
	return nil, fmt.Errorf("uio: no device named %q", label)
}

func openDev(label, dev string) (*Region, error) {
	size, err := mapSize(dev)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile("/dev/"+dev, os.O_RDWR|syscall.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	mem, err := syscall.Mmap(int(f.Fd()), 0, size,
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("uio: mmap %s: %v", dev, err)
	}
	return &Region{Label: label, f: f, mem: mem}, nil
}

func mapSize(dev string) (int, error) {
	b, err := ioutil.ReadFile(sysClassUio + "/" + dev + "/maps/map0/size")
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(string(b))
	size, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("uio: %s map0 size %q: %v", dev, s, err)
	}
	return int(size), nil
}

func (r *Region) Close() error {
	if r.mem != nil {
		if err := syscall.Munmap(r.mem); err != nil {
			return err
		}
		r.mem = nil
	}
	return r.f.Close()
}

// Size returns the length in bytes of the mapped window.
func (r *Region) Size() uint32 { return uint32(len(r.mem)) }

func (r *Region) check(offset uint32) {
	if offset+4 > uint32(len(r.mem)) || offset&3 != 0 {
		panic(fmt.Errorf("uio: %s: bad register offset 0x%x",
			r.Label, offset))
	}
}

func (r *Region) Peek32(offset uint32) uint32 {
	r.check(offset)
	return *(*uint32)(unsafe.Pointer(&r.mem[offset]))
}

func (r *Region) Poke32(offset uint32, value uint32) {
	r.check(offset)
	*(*uint32)(unsafe.Pointer(&r.mem[offset])) = value
}
