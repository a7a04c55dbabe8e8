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

package frame

import "fmt"

// MessageType is the NCI message type carried in the top bits of the
// first header octet.
type MessageType uint8

// NCI message types
const (
	MessageData         MessageType = 0
	MessageCommand      MessageType = 1
	MessageResponse     MessageType = 2
	MessageNotification MessageType = 3
)

// NCI group identifiers
const (
	GroupCore        uint8 = 0x00
	GroupRF          uint8 = 0x01
	GroupProprietary uint8 = 0x0F
)

// Proprietary opcode identifiers
const (
	// OIDPollingFrame is the proprietary notification carrying raw
	// polling-loop telemetry from the controller.
	OIDPollingFrame uint8 = 0x33
)

// NCI header layout
const (
	// HeaderLen is the NCI packet header size: MT/PBF/GID, OID, length.
	HeaderLen = 3

	msgTypeShift = 5
	msgTypeMask  = 0x03
	gidMask      = 0x0F
	oidMask      = 0x3F

	// MaxPayloadLen is the largest payload an NCI control packet can
	// declare (single-octet length field).
	MaxPayloadLen = 0xFF
)

// Packet is one parsed NCI packet. Payload is always a copy of the wire
// bytes, never a view into the read buffer.
type Packet struct {
	Payload []byte
	MT      MessageType
	GID     uint8
	OID     uint8
}

// ParsePacket parses an NCI packet from raw bytes. The declared payload
// length is validated against the data actually present before any read.
func ParsePacket(data []byte) (Packet, error) {
	if len(data) < HeaderLen {
		return Packet{}, fmt.Errorf("short NCI packet: %d bytes", len(data))
	}
	length := int(data[2])
	if len(data) < HeaderLen+length {
		return Packet{}, fmt.Errorf("NCI payload truncated: declared %d, have %d", length, len(data)-HeaderLen)
	}
	payload := make([]byte, length)
	copy(payload, data[HeaderLen:HeaderLen+length])
	return Packet{
		MT:      MessageType(data[0]>>msgTypeShift) & msgTypeMask,
		GID:     data[0] & gidMask,
		OID:     data[1] & oidMask,
		Payload: payload,
	}, nil
}

// Build assembles an NCI packet from its parts. Payloads longer than
// MaxPayloadLen are rejected with a nil return.
func Build(mt MessageType, gid, oid uint8, payload []byte) []byte {
	if len(payload) > MaxPayloadLen {
		return nil
	}
	packet := make([]byte, HeaderLen+len(payload))
	packet[0] = (uint8(mt)&msgTypeMask)<<msgTypeShift | gid&gidMask
	packet[1] = oid & oidMask
	packet[2] = uint8(len(payload))
	copy(packet[HeaderLen:], payload)
	return packet
}

// IsPollingFrame reports whether the packet is the proprietary
// polling-loop telemetry notification.
func (p Packet) IsPollingFrame() bool {
	return p.MT == MessageNotification && p.GID == GroupProprietary && p.OID == OIDPollingFrame
}
