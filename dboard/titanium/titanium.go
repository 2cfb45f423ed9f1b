// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package titanium controls the Titanium two-channel RF daughterboard:
// an LMK clock chip, CPLD and ADC on the slot's SPI bus, an LM75-class
// temperature sensor and the ID EEPROM on i2c, and power/reset lines on
// GPIO.
package titanium

import (
	"fmt"

	"github.com/platinasystems/i2c"

	"github.com/turcofran/uhd/dboard"
	"github.com/turcofran/uhd/dlog"
	"github.com/turcofran/uhd/eeprom"
)

const (
	PID = 0x0150

	masterClockRate = 122.88e6

	// slot 0 i2c addresses; slot 1 is offset by one
	tempSensorAddr = 0x48
	idEepromAddr   = 0x50
)

type Dboard struct {
	*dboard.Base

	i2cBus   int
	refClock float64

	initialized bool
}

// New builds the controller for the daughterboard in the given slot.
// When no EEPROM metadata is passed in, the ID EEPROM is read directly.
func New(log *dlog.Logger, slot int, eepromMD map[string]string, spiNodes []string) *Dboard {
	d := &Dboard{i2cBus: slot, refClock: 10e6}
	cfg := dboard.Config{
		PIDs:          []uint16{PID},
		FirstRevision: dboard.Revision{ID: 1, Letter: 'A'},
		RXSensors: []dboard.Sensor{
			{Name: "temp", Get: d.readTemp},
			{Name: "lo_locked", Get: d.loLocked},
		},
		TXSensors: []dboard.Sensor{
			{Name: "temp", Get: d.readTemp},
		},
		ChipSelect:      map[string]int{"lmk": 0, "cpld": 1, "adc": 2},
		MasterClockRate: masterClockRate,
	}
	if eepromMD == nil {
		eepromMD = d.readEeprom(log, slot)
	}
	d.Base = dboard.NewBase(log, slot, cfg, eepromMD, spiNodes)
	return d
}

func (d *Dboard) readEeprom(log *dlog.Logger, slot int) map[string]string {
	dev := eeprom.Device{
		BusIndex:   slot,
		BusAddress: idEepromAddr + slot,
	}
	if err := dev.GetInfo(); err != nil {
		log.Debugf("no ID EEPROM readable in slot %d: %v", slot, err)
		return nil
	}
	return dev.Fields.DeviceInfoMap()
}

// Init powers the board and checks that its peripherals answer. An
// absent or unpowered board is an expected condition and reports
// failure without error.
func (d *Dboard) Init(args map[string]string) (bool, error) {
	gpioInit()
	if !setPin(d.powerPin(), true) {
		d.Log.Warningf("%s not found, cannot power the daughterboard",
			d.powerPin())
		return false, nil
	}
	setPin(d.resetPin(), false)
	if _, err := d.tempRaw(); err != nil {
		d.Log.Warningf("temperature sensor not responding: %v", err)
		setPin(d.powerPin(), false)
		return false, nil
	}
	if _, found := d.SpiNode("lmk"); !found {
		d.Log.Warning("no spidev node for the lmk, clocking is degraded")
	}
	d.initialized = true
	d.SetState(dboard.Ready)
	d.Log.Infof("daughterboard slot %d initialized, serial %q rev %s",
		d.Slot, d.Serial(), d.RevisionString())
	return true, nil
}

// Deinit drops the power line. Safe to repeat; only the first call
// after a successful Init does anything.
func (d *Dboard) Deinit() {
	if !d.initialized {
		return
	}
	setPin(d.resetPin(), true)
	setPin(d.powerPin(), false)
	d.initialized = false
	d.SetState(dboard.PoweredDown)
	d.Log.Debug("daughterboard powered down")
}

func (d *Dboard) TearDown() {
	d.Deinit()
}

// ResetClock holds the clock chip in reset while the motherboard
// reconfigures its clocks.
func (d *Dboard) ResetClock(value bool) {
	setPin(d.resetPin(), value)
}

// UpdateRefClockFreq accepts the two reference frequencies the LMK can
// lock to.
func (d *Dboard) UpdateRefClockFreq(freq float64) {
	switch freq {
	case 10e6, 20e6:
		d.refClock = freq
		d.Log.Debugf("reference clock now %.0f Hz", freq)
	default:
		d.Log.Warningf("reference clock %.0f Hz not supported, keeping %.0f Hz",
			freq, d.refClock)
	}
}

func (d *Dboard) powerPin() string { return fmt.Sprintf("DB%d_PWR_EN", d.Slot) }
func (d *Dboard) resetPin() string { return fmt.Sprintf("DB%d_RESET_L", d.Slot) }

func (d *Dboard) tempRaw() (uint16, error) {
	var bus i2c.Bus
	err := bus.Open(d.i2cBus)
	if err != nil {
		return 0, err
	}
	defer bus.Close()
	if err = bus.ForceSlaveAddress(tempSensorAddr + d.Slot); err != nil {
		return 0, err
	}
	var data i2c.SMBusData
	if err = bus.Do(i2c.Read, 0, i2c.WordData, &data); err != nil {
		return 0, err
	}
	// the sensor answers big endian
	return uint16(data[0])<<8 | uint16(data[1]), nil
}

// lm75Temp converts the sensor's 11-bit left-justified reading to
// degrees C, 0.125 per LSB.
func lm75Temp(raw uint16) float64 {
	return float64(int16(raw)>>5) * 0.125
}

func (d *Dboard) readTemp(chn int) (dboard.Reading, error) {
	raw, err := d.tempRaw()
	if err != nil {
		return nil, err
	}
	return dboard.Reading{
		"name":  "temp",
		"type":  "REALNUM",
		"unit":  "C",
		"value": fmt.Sprintf("%.3f", lm75Temp(raw)),
	}, nil
}

func (d *Dboard) loLocked(chn int) (dboard.Reading, error) {
	// lock indicator is wired to a GPIO per channel
	locked := false
	if pin, found := pins()[fmt.Sprintf("DB%d_CH%d_LO_LOCK", d.Slot, chn)]; found {
		v, err := pin.Value()
		if err != nil {
			return nil, err
		}
		locked = v
	}
	return dboard.Reading{
		"name":  "lo_locked",
		"type":  "BOOLEAN",
		"unit":  "locked",
		"value": fmt.Sprint(locked),
	}, nil
}
