// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package eeprom reads the daughterboard ID EEPROM, a TLV-formatted
// blob behind an i2c address, and exposes the identity fields the
// daughterboard controllers key off (PID, serial, revision, EEPROM
// format version).
//
// The caller sets the i2c bus and address before GetInfo(); afterwards
// the decoded Fields are stable for the life of the Device.
package eeprom

import (
	"fmt"

	"github.com/platinasystems/i2c"
)

// ID EEPROM TLV codes
const (
	productName   = 0x21
	productID     = 0x22
	serialNumber  = 0x23
	mfgDate       = 0x25
	deviceVersion = 0x26
	labelRevision = 0x27
	crc           = 0xfe
)

// magic preceding the format version and TLV section
var header = [4]byte{'D', 'B', 'I', 'D'}

type Fields struct {
	FormatVersion byte
	ProductName   string
	ProductID     uint16
	SerialNumber  string
	DeviceVersion string
	LabelRevision string
	MfgDate       string
	CRC32         uint
}

// i2c bus id, bus address, and decoded identity fields
type Device struct {
	BusIndex   int
	BusAddress int
	Fields     Fields
	rawData    []byte
}

func (d *Device) i2cDo(rw i2c.RW, regOffset uint8, size i2c.SMBusSize, data *i2c.SMBusData) (err error) {
	var bus i2c.Bus

	err = bus.Open(d.BusIndex)
	if err != nil {
		return
	}
	defer bus.Close()

	err = bus.ForceSlaveAddress(d.BusAddress)
	if err != nil {
		return
	}

	// always write the 'address' to location 0
	err = bus.Do(i2c.Write, 0, i2c.ByteData, data)
	if err != nil {
		return
	}

	err = bus.Do(rw, regOffset, size, data)
	return
}

// the address register is a single byte, so reads past 0xFF would wrap
const maxAddr = 0x100

func (d *Device) getByte(i uint) byte {
	if i >= maxAddr {
		panic(fmt.Errorf(
			"ID EEPROM address %#x beyond single-byte addressing", i))
	}
	var data i2c.SMBusData
	data[0] = uint8(i)
	if err := d.i2cDo(i2c.Read, uint8(0), i2c.Byte, &data); err != nil {
		panic(err)
	}
	return byte(data[0])
}

func (d *Device) getUint16(i uint) uint {
	b0 := uint(d.getByte(i + 0))
	b1 := uint(d.getByte(i + 1))
	return (b0 << 8) | b1
}

// GetInfo reads and decodes the EEPROM contents into d.Fields.
func (d *Device) GetInfo() (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = e.(error)
		}
	}()
	d.getInfo()
	return
}

func (d *Device) getInfo() {
	var i uint
	for i = 0; i < uint(len(header)); i++ {
		if b := d.getByte(i); b != header[i] {
			panic(fmt.Errorf("bad ID EEPROM magic byte %d: %#x", i, b))
		}
	}
	d.Fields.FormatVersion = d.getByte(i)
	dataLen := d.getUint16(i + 1)
	i += 3
	if i+dataLen > maxAddr {
		panic(fmt.Errorf("ID EEPROM claims %d data bytes, only %d addressable",
			dataLen, maxAddr-i))
	}
	for j := uint(0); j < dataLen; j++ {
		d.rawData = append(d.rawData, d.getByte(i+j))
	}
	if err := d.Fields.decode(d.rawData); err != nil {
		panic(err)
	}
}

func (f *Fields) decode(raw []byte) error {
	i := uint(0)
	for i < uint(len(raw)) {
		if i+2 > uint(len(raw)) {
			return fmt.Errorf("truncated tlv header at %d", i)
		}
		tlv, tlen := raw[i], uint(raw[i+1])
		if i+2+tlen > uint(len(raw)) {
			return fmt.Errorf("truncated tlv %#x at %d", tlv, i)
		}
		v := raw[i+2 : i+2+tlen]
		i += 2 + tlen
		switch tlv {
		case productName:
			f.ProductName = string(v)
		case productID:
			if len(v) != 2 {
				return fmt.Errorf("pid tlv length %d", len(v))
			}
			f.ProductID = uint16(v[0])<<8 | uint16(v[1])
		case serialNumber:
			f.SerialNumber = string(v)
		case mfgDate:
			f.MfgDate = string(v)
		case deviceVersion:
			f.DeviceVersion = string(v)
		case labelRevision:
			f.LabelRevision = string(v)
		case crc:
			if len(v) != 4 {
				return fmt.Errorf("crc tlv length %d", len(v))
			}
			f.CRC32 = uint(v[0])<<24 | uint(v[1])<<16 |
				uint(v[2])<<8 | uint(v[3])
		default:
			return fmt.Errorf("unknown tlv in eeprom: %x %x", tlv, v)
		}
	}
	return nil
}

// DeviceInfoMap renders the fields the way the daughterboard base
// expects its device info: the four fixed keys, "n/a" where the EEPROM
// had nothing.
func (f *Fields) DeviceInfoMap() map[string]string {
	m := map[string]string{
		"pid":            "n/a",
		"serial":         "n/a",
		"rev":            "n/a",
		"eeprom_version": "n/a",
	}
	if f.ProductID != 0 {
		m["pid"] = fmt.Sprint(f.ProductID)
	}
	if f.SerialNumber != "" {
		m["serial"] = f.SerialNumber
	}
	if f.DeviceVersion != "" {
		m["rev"] = f.DeviceVersion
	}
	if f.FormatVersion != 0 {
		m["eeprom_version"] = fmt.Sprint(f.FormatVersion)
	}
	return m
}
