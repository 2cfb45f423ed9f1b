// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ethdispd

import (
	"fmt"
	"testing"
)

func ExampleCommand() {
	c := &Command{}
	fmt.Println(c)
	fmt.Println(c.Usage())
	fmt.Println(c.Apropos())
	fmt.Println(c.Kind())
	// Output:
	// ethdispd
	// ethdispd [LABEL]
	// ethernet dispatcher daemon, takes routes over rpc
	// daemon
}

func TestSockName(t *testing.T) {
	if s := SockName("misc-enet-regs0"); s != "ethdispd.misc-enet-regs0" {
		t.Error("sock name:", s)
	}
}

func TestMainArgs(t *testing.T) {
	c := &Command{}
	if err := c.Main("a", "b"); err == nil {
		t.Error("expected error for extra args")
	}
}

func TestCloseBeforeMain(t *testing.T) {
	c := &Command{}
	if err := c.Close(); err != nil {
		t.Error("close before main:", err)
	}
}
