// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ethdispcfg

import (
	"fmt"
	"testing"
)

func ExampleCommand() {
	c := Command{}
	fmt.Println(c)
	fmt.Println(c.Usage())
	fmt.Println(c.Apropos())
	// Output:
	// ethdispcfg
	// ethdispcfg [-l LABEL] [-ip ADDR] [-port PORT [-slot SLOT]] [-route SID,ADDR,UDPPORT [-mac MAC]]
	// configure the ethernet dispatcher
}

func TestParseRoute(t *testing.T) {
	r, err := parseRoute("0x0235,192.168.10.2,49153", "aa:bb:cc:dd:ee:ff")
	if err != nil {
		t.Fatal(err)
	}
	if r.SID != 0x0235 || r.IP != "192.168.10.2" ||
		r.UDPPort != 49153 || r.MAC != "aa:bb:cc:dd:ee:ff" {
		t.Error("parsed route:", r)
	}
	r, err = parseRoute("565,10.0.0.2,1000", "")
	if err != nil {
		t.Fatal(err)
	}
	if r.SID != 565 || r.MAC != "" {
		t.Error("decimal sid route:", r)
	}
	for _, s := range []string{
		"",
		"0x0235,192.168.10.2",
		"zz,192.168.10.2,49153",
		"0x0235,192.168.10.2,0",
		"0x0235,192.168.10.2,99999",
	} {
		if _, err = parseRoute(s, ""); err == nil {
			t.Error(s, ": expected error")
		}
	}
}
