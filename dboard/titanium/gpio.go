// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package titanium

import (
	"io/ioutil"
	"strconv"
	"strings"
	"sync"

	"github.com/platinasystems/fdt"
	"github.com/platinasystems/gpio"
)

// DtbFile may be set before the first Init for machines that keep the
// blob somewhere else.
var DtbFile = "/boot/linux.dtb"

var gpioOnce sync.Once

// gpioInit parses the device tree once to populate the process-wide
// gpio pin map with this machine's daughterboard control lines.
func gpioInit() {
	gpioOnce.Do(func() {
		b, err := ioutil.ReadFile(DtbFile)
		if err != nil {
			return
		}
		t := &fdt.Tree{Debug: false, IsLittleEndian: false}
		t.Parse(b)
		t.MatchNode("aliases", gatherAliases)
		t.EachProperty("gpio-controller", "", gatherPins)
		// set pin directions; a pin that refuses may still work
		// as wired, so errors are not fatal here
		for _, p := range gpio.Pins {
			p.SetDirection()
		}
	})
}

func gatherAliases(n *fdt.Node) {
	for p, pn := range n.Properties {
		if strings.Contains(p, "gpio") {
			val := strings.Split(string(pn), "\x00")
			v := strings.Split(val[0], "/")
			gpio.Aliases[p] = v[len(v)-1]
		}
	}
}

func gatherPins(n *fdt.Node, name string, value string) {
	var pn []string
	var mode string

	for na, al := range gpio.Aliases {
		if al != n.Name {
			continue
		}
		for _, c := range n.Children {
			for p := range c.Properties {
				switch p {
				case "gpio-pin-desc":
					pn = strings.Split(c.Name, "@")
				case "output-high", "output-low", "input":
					mode = p
				}
			}
			if mode != "" && len(pn) == 2 {
				i, _ := strconv.Atoi(pn[1])
				gpio.Pins[pn[0]] = gpio.GpioPinMode[mode] |
					gpio.GpioBankToBase[na] |
					gpio.Pin(i)
			}
			mode = ""
		}
	}
}

func pins() map[string]gpio.Pin { return gpio.Pins }

// setPin drives a named pin, reporting whether the pin exists on this
// machine.
func setPin(name string, value bool) bool {
	pin, found := gpio.Pins[name]
	if !found {
		return false
	}
	pin.SetValue(value)
	return true
}
