// go-nci
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-nci.
//
// go-nci is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-nci is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-nci; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package testutil builds synthetic polling frames for tests. It is the
// encoding counterpart of the production decoder and is not meant for
// production use.
package testutil

import "encoding/binary"

// Record type codes, mirroring what controllers put on the wire
const (
	TagFieldChange byte = 0x00
	TagNfcA        byte = 0x01
	TagNfcB        byte = 0x02
	TagNfcF        byte = 0x03
	TagNfcUnknown  byte = 0x07
)

// Record describes one TLV record to serialize. Payload feeds the
// variable data area starting at record offset 8; for TagFieldChange the
// first payload byte selects field-on (nonzero) or field-off (zero).
type Record struct {
	Payload   []byte
	Timestamp uint32
	Gain      int8
	Type      byte
}

// recordHeaderSize is the fixed part of a record: length, reserved,
// type, 4-byte timestamp and gain.
const recordHeaderSize = 8

// Encode serializes the record into its wire form: the declared length
// covers the type, timestamp, gain and payload bytes.
func (rec Record) Encode() []byte {
	out := make([]byte, recordHeaderSize+len(rec.Payload))
	out[0] = byte(recordHeaderSize - 2 + len(rec.Payload))
	out[2] = rec.Type
	binary.LittleEndian.PutUint32(out[3:7], rec.Timestamp)
	out[7] = byte(rec.Gain)
	copy(out[recordHeaderSize:], rec.Payload)
	return out
}

// BuildFrame assembles a complete polling frame: the two-byte header
// followed by the given records back to back.
func BuildFrame(records ...Record) []byte {
	frame := []byte{0x00, 0x00}
	for _, rec := range records {
		frame = append(frame, rec.Encode()...)
	}
	return frame
}

// FieldChangeFrame builds a single-record frame reporting a field change
func FieldChangeFrame(on bool, gain int8, timestamp uint32) []byte {
	data := byte(0x00)
	if on {
		data = 0x01
	}
	return BuildFrame(Record{
		Type:      TagFieldChange,
		Gain:      gain,
		Timestamp: timestamp,
		Payload:   []byte{data},
	})
}
