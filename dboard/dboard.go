// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package dboard is the base for daughterboard (RF front-end)
// controllers. A concrete board embeds Base, supplies a Config with its
// static identity and sensor tables, and overrides the lifecycle hooks
// its hardware needs; everything else comes with defaults.
package dboard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/turcofran/uhd/dlog"
)

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrUnknownSensor  = errors.New("unknown sensor")
	ErrBadDirection   = errors.New("direction must be rx or tx")
)

// deviceInfoKeys is the fixed key set of DeviceInfo; absent EEPROM
// metadata yields "n/a".
var deviceInfoKeys = [...]string{"pid", "serial", "rev", "eeprom_version"}

type State int

const (
	Uninitialized State = iota
	Ready
	PoweredDown
)

// Revision identifies the first shipped board revision; revision ids
// and letters advance together, (2, 'B'), (3, 'C'), ...
type Revision struct {
	ID     int
	Letter byte
}

// Reading is a single sensor result in the name/type/unit/value form
// the session layer forwards to clients unmodified.
type Reading map[string]string

// SensorFunc reads one sensor on the given channel.
type SensorFunc func(chn int) (Reading, error)

// Sensor binds a sensor name to its accessor. Tables are ordered; the
// name list reported to clients keeps this order.
type Sensor struct {
	Name string
	Get  SensorFunc
}

// Config is a board variant's static description.
type Config struct {
	// PIDs of the hardware this controller drives.
	PIDs []uint16

	FirstRevision Revision

	RXSensors []Sensor
	TXSensors []Sensor

	// ChipSelect maps logical SPI device names to chip select lines.
	ChipSelect map[string]int

	// MasterClockRate of the variant, in Hz. Zero means the variant
	// must override MasterClockRate() itself.
	MasterClockRate float64
}

// Manager is the control surface a motherboard manager drives. Base
// provides everything except Init, which every variant must supply.
type Manager interface {
	Init(args map[string]string) (bool, error)
	Deinit()
	TearDown()
	Serial() string
	Revision() int
	RevisionString() string
	Sensors(direction string) ([]string, error)
	Sensor(direction, name string, chn int) (Reading, error)
	MasterClockRate() (float64, error)
	ResetClock(value bool)
	UpdateRefClockFreq(freq float64)
}

type Base struct {
	Log  *dlog.Logger
	Slot int

	cfg        Config
	deviceInfo map[string]string
	spiNodes   map[string]string
	state      State
}

// NewBase builds the shared daughterboard state: the four-key device
// info from EEPROM metadata and the chip-select to spidev-node map.
// Both are immutable afterwards.
func NewBase(log *dlog.Logger, slot int, cfg Config, eepromMD map[string]string, spiNodes []string) *Base {
	if eepromMD == nil {
		log.Debug("no EEPROM metadata given")
	}
	info := make(map[string]string, len(deviceInfoKeys))
	for _, k := range deviceInfoKeys {
		v, found := eepromMD[k]
		if !found {
			v = "n/a"
		}
		info[k] = v
	}
	b := &Base{
		Log:        log,
		Slot:       slot,
		cfg:        cfg,
		deviceInfo: info,
		spiNodes:   ChipSelectMap(log, spiNodes, cfg.ChipSelect),
	}
	b.Log.Tracef("dboard device info: %v", b.deviceInfo)
	b.Log.Debugf("spidev device node map: %v", b.spiNodes)
	return b
}

func (b *Base) Config() Config { return b.cfg }

// DeviceInfo returns a copy; the underlying map never changes after
// construction.
func (b *Base) DeviceInfo() map[string]string {
	m := make(map[string]string, len(b.deviceInfo))
	for k, v := range b.deviceInfo {
		m[k] = v
	}
	return m
}

// SpiNode returns the spidev path mapped to a logical device name.
func (b *Base) SpiNode(name string) (string, bool) {
	node, found := b.spiNodes[name]
	return node, found
}

func (b *Base) State() State     { return b.state }
func (b *Base) SetState(s State) { b.state = s }

// Init must be overridden by the variant; it runs at the beginning of a
// session and reports hardware success or failure.
func (b *Base) Init(args map[string]string) (bool, error) {
	return false, fmt.Errorf("dboard init: %w", ErrNotImplemented)
}

// Deinit powers down the board. The default does nothing; overrides
// must stay safe to call repeatedly.
func (b *Base) Deinit() {
	b.Log.Debug("deinit() called, but not implemented")
}

// TearDown releases anything needing special handling before
// destruction; callable from any state, repeatably.
func (b *Base) TearDown() {}

// Serial returns the board serial number, empty when unknown.
func (b *Base) Serial() string {
	s := b.deviceInfo["serial"]
	if s == "n/a" {
		return ""
	}
	return s
}

// Revision returns the numeric board revision, -1 when the EEPROM field
// is absent or not an integer.
func (b *Base) Revision() int {
	rev, err := strconv.Atoi(b.deviceInfo["rev"])
	if err != nil {
		return -1
	}
	return rev
}

// RevisionString renders the revision as its letter. Revisions outside
// the known alphabet come back as "?" rather than arbitrary bytes.
func (b *Base) RevisionString() string {
	first := b.cfg.FirstRevision
	delta := b.Revision() - first.ID
	c := int(first.Letter) + delta
	if delta < 0 || c > 'Z' {
		return "?"
	}
	return string(byte(c))
}

func (b *Base) sensorTable(direction string) ([]Sensor, error) {
	switch strings.ToLower(direction) {
	case "rx":
		return b.cfg.RXSensors, nil
	case "tx":
		return b.cfg.TXSensors, nil
	}
	return nil, fmt.Errorf("%q: %w", direction, ErrBadDirection)
}

// Sensors lists the sensor names of one direction, in table order.
func (b *Base) Sensors(direction string) ([]string, error) {
	table, err := b.sensorTable(direction)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(table))
	for i, s := range table {
		names[i] = s.Name
	}
	return names, nil
}

// Sensor reads one named sensor. An unknown name is a caller bug and
// propagates; hardware trouble comes back from the accessor itself.
func (b *Base) Sensor(direction, name string, chn int) (Reading, error) {
	table, err := b.sensorTable(direction)
	if err != nil {
		return nil, err
	}
	for _, s := range table {
		if s.Name == name {
			return s.Get(chn)
		}
	}
	err = fmt.Errorf("was asked for non-existent %s sensor %q: %w",
		strings.ToLower(direction), name, ErrUnknownSensor)
	b.Log.Error(err)
	return nil, err
}

// MasterClockRate reports the variant's master clock. Boards that tune
// it at runtime override this.
func (b *Base) MasterClockRate() (float64, error) {
	if b.cfg.MasterClockRate > 0 {
		return b.cfg.MasterClockRate, nil
	}
	return 0, fmt.Errorf("dboard master clock rate: %w", ErrNotImplemented)
}

// ResetClock is called while the motherboard reconfigures its clocks.
func (b *Base) ResetClock(value bool) {}

// UpdateRefClockFreq is called when the reference clock frequency
// changes. Variants that care must override; ignoring the change would
// silently detune downstream DSP.
func (b *Base) UpdateRefClockFreq(freq float64) {
	b.Log.Warning("update_ref_clock_freq() called but not implemented")
}
