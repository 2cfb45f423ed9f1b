// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package dboardd

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
	// dboardd
	// dboardd [-slot SLOT]
	// daughterboard daemon, publishes sensors to redis
	// daemon
}

func TestMainArgs(t *testing.T) {
	c := &Command{}
	if err := c.Main("extra"); err == nil {
		t.Error("expected error for extra args")
	}
	if err := c.Main("-slot", "x"); err == nil {
		t.Error("expected error for non-numeric slot")
	}
}

func TestCloseBeforeMain(t *testing.T) {
	c := &Command{}
	if err := c.Close(); err != nil {
		t.Error("close before main:", err)
	}
}
