// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package eeprom

import "testing"

func tlv(code byte, v []byte) []byte {
	return append([]byte{code, byte(len(v))}, v...)
}

func TestDecode(t *testing.T) {
	var raw []byte
	raw = append(raw, tlv(productName, []byte("TwinRF"))...)
	raw = append(raw, tlv(productID, []byte{0x01, 0x50})...)
	raw = append(raw, tlv(serialNumber, []byte("3133F8A"))...)
	raw = append(raw, tlv(deviceVersion, []byte("3"))...)
	raw = append(raw, tlv(labelRevision, []byte("C"))...)
	raw = append(raw, tlv(crc, []byte{0xDE, 0xAD, 0xBE, 0xEF})...)

	var f Fields
	if err := f.decode(raw); err != nil {
		t.Fatal(err)
	}
	if f.ProductName != "TwinRF" {
		t.Error("product name:", f.ProductName)
	}
	if f.ProductID != 0x0150 {
		t.Errorf("pid: %#x", f.ProductID)
	}
	if f.SerialNumber != "3133F8A" {
		t.Error("serial:", f.SerialNumber)
	}
	if f.DeviceVersion != "3" || f.LabelRevision != "C" {
		t.Error("revision fields:", f.DeviceVersion, f.LabelRevision)
	}
	if f.CRC32 != 0xDEADBEEF {
		t.Errorf("crc: %#x", f.CRC32)
	}
}

func TestDecodeBad(t *testing.T) {
	var f Fields
	if err := f.decode([]byte{0x99, 2, 0, 0}); err == nil {
		t.Error("unknown tlv must error")
	}
	if err := f.decode([]byte{serialNumber, 9, 'x'}); err == nil {
		t.Error("truncated tlv must error")
	}
	if err := f.decode([]byte{serialNumber}); err == nil {
		t.Error("truncated header must error")
	}
}

func TestAddressGuard(t *testing.T) {
	d := new(Device)
	err := func() (err error) {
		defer func() {
			if e := recover(); e != nil {
				err = e.(error)
			}
		}()
		d.getByte(maxAddr)
		return
	}()
	if err == nil {
		t.Error("read past the addressable window must not wrap")
	}
}

func TestDeviceInfoMap(t *testing.T) {
	f := Fields{
		FormatVersion: 2,
		ProductID:     0x0150,
		SerialNumber:  "3133F8A",
		DeviceVersion: "3",
	}
	m := f.DeviceInfoMap()
	if len(m) != 4 {
		t.Fatal("device info must have exactly four keys, got", len(m))
	}
	if m["pid"] != "336" || m["serial"] != "3133F8A" ||
		m["rev"] != "3" || m["eeprom_version"] != "2" {
		t.Error("populated map:", m)
	}
	m = new(Fields).DeviceInfoMap()
	for _, k := range []string{"pid", "serial", "rev", "eeprom_version"} {
		if m[k] != "n/a" {
			t.Error(k, "default: got", m[k])
		}
	}
}
