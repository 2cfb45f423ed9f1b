// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package dboard

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"

	"github.com/platinasystems/fdt"

	"github.com/turcofran/uhd/dlog"
)

const sysClassSpidev = "/sys/class/spidev"

// ChipSelectMap maps logical SPI device names to spidev node paths,
// name -> nodes[chipSelect[name]]. It does not open anything.
//
// Too few nodes is a soft failure: the error is logged and an empty map
// returned so that board bring-up continues with degraded SPI access.
// A select index beyond the node list is configuration rot and also
// yields an empty map, loudly.
func ChipSelectMap(log *dlog.Logger, nodes []string, chipSelect map[string]int) map[string]string {
	distinct := make(map[int]struct{}, len(chipSelect))
	for _, cs := range chipSelect {
		distinct[cs] = struct{}{}
	}
	if len(nodes) < len(distinct) {
		log.Errorf("expected %d spi devices, found %d",
			len(distinct), len(nodes))
		log.Error("not enough SPI devices found")
		return map[string]string{}
	}
	for name, cs := range chipSelect {
		if cs < 0 || cs >= len(nodes) {
			log.Errorf("chip select %d for %q outside the %d available spi nodes",
				cs, name, len(nodes))
			return map[string]string{}
		}
	}
	m := make(map[string]string, len(chipSelect))
	for name, cs := range chipSelect {
		m[name] = nodes[cs]
	}
	return m
}

// SpiNodes lists every spidev device node on the system, in stable
// (sorted) order.
func SpiNodes() []string {
	return spiNodesUnder("")
}

// SpiNodesOf lists the spidev nodes behind one SPI master, identified
// by its sysfs device path, e.g. /sys/devices/soc0/spi@e0006000.
func SpiNodesOf(master string) []string {
	return spiNodesUnder(master)
}

// SpiNodesFromDTB lists the spidev device nodes a device tree blob
// declares, without touching sysfs. Useful before the spidev driver has
// bound. Slaves render as /dev/spidevBUS.CS with BUS taken from the
// spiN alias and CS from the slave's reg property.
func SpiNodesFromDTB(path string) []string {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil
	}
	t := &fdt.Tree{Debug: false, IsLittleEndian: false}
	if err = t.Parse(b); err != nil {
		return nil
	}
	return spiNodesFromTree(t)
}

func spiNodesFromTree(t *fdt.Tree) []string {
	// controller node name -> bus number, from the spiN aliases
	buses := make(map[string]string)
	t.MatchNode("aliases", func(n *fdt.Node) {
		for p, pn := range n.Properties {
			if !strings.HasPrefix(p, "spi") {
				continue
			}
			val := strings.Split(string(pn), "\x00")
			v := strings.Split(val[0], "/")
			buses[v[len(v)-1]] = strings.TrimPrefix(p, "spi")
		}
	})
	var nodes []string
	for name, bus := range buses {
		t.MatchNode(name, func(n *fdt.Node) {
			for _, c := range n.Children {
				reg, found := c.Properties["reg"]
				if !found || len(reg) < 4 {
					continue
				}
				nodes = append(nodes, fmt.Sprintf(
					"/dev/spidev%s.%d", bus, t.PropUint32(reg)))
			}
		})
	}
	sort.Strings(nodes)
	return nodes
}

func spiNodesUnder(master string) []string {
	fis, err := ioutil.ReadDir(sysClassSpidev)
	if err != nil {
		return nil
	}
	var nodes []string
	for _, fi := range fis {
		if master != "" {
			dev, err := filepath.EvalSymlinks(
				sysClassSpidev + "/" + fi.Name() + "/device")
			if err != nil || !strings.HasPrefix(dev, master) {
				continue
			}
		}
		nodes = append(nodes, "/dev/"+fi.Name())
	}
	sort.Strings(nodes)
	return nodes
}
