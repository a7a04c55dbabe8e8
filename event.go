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

package nci

import "fmt"

// PollingType identifies the kind of polling-loop activity a record
// describes.
type PollingType byte

const (
	// PollingTypeOn indicates the remote RF field turned on.
	PollingTypeOn PollingType = 'O'
	// PollingTypeOff indicates the remote RF field turned off.
	PollingTypeOff PollingType = 'o'
	// PollingTypeA indicates an NFC-A technology poll.
	PollingTypeA PollingType = 'A'
	// PollingTypeB indicates an NFC-B technology poll.
	PollingTypeB PollingType = 'B'
	// PollingTypeF indicates an NFC-F (FeliCa) technology poll.
	PollingTypeF PollingType = 'F'
	// PollingTypeUnknown indicates a poll the controller could not
	// classify; the raw record payload is carried alongside.
	PollingTypeUnknown PollingType = 'U'
)

// String returns a human-readable name for the polling type
func (t PollingType) String() string {
	switch t {
	case PollingTypeOn:
		return "field-on"
	case PollingTypeOff:
		return "field-off"
	case PollingTypeA:
		return "nfc-a"
	case PollingTypeB:
		return "nfc-b"
	case PollingTypeF:
		return "nfc-f"
	case PollingTypeUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("invalid(0x%02X)", byte(t))
	}
}

// PollingEvent is the decoded form of one polling frame. Every field is
// optional: a frame may legitimately carry none of them. When a frame
// contains multiple TLV records, later records overwrite earlier ones
// field by field (last write wins).
type PollingEvent struct {
	// Payload carries the raw record bytes of an unclassified poll.
	// Nil when absent. Always a copy, never a view into the input buffer.
	Payload []byte

	// Timestamp is the controller's capture timestamp for the record,
	// in controller ticks. Valid only when HasTimestamp is set.
	Timestamp uint32

	// Gain is the RF front-end gain measured during the poll. Valid only
	// when HasGain is set.
	Gain int8

	// Type classifies the polling activity. Valid only when HasType is set.
	Type PollingType

	// HasType reports whether Type was present in the frame.
	HasType bool
	// HasGain reports whether Gain was present in the frame.
	HasGain bool
	// HasTimestamp reports whether Timestamp was present in the frame.
	HasTimestamp bool
}

// IsEmpty returns true if no record in the frame contributed any field.
func (e PollingEvent) IsEmpty() bool {
	return !e.HasType && !e.HasGain && !e.HasTimestamp && e.Payload == nil
}

// String returns a human-readable summary of the event
func (e PollingEvent) String() string {
	if e.IsEmpty() {
		return "PollingEvent{}"
	}
	s := "PollingEvent{"
	if e.HasType {
		s += fmt.Sprintf("type:%s ", e.Type)
	}
	if e.HasGain {
		s += fmt.Sprintf("gain:%d ", e.Gain)
	}
	if e.HasTimestamp {
		s += fmt.Sprintf("timestamp:%d ", e.Timestamp)
	}
	if e.Payload != nil {
		s += fmt.Sprintf("payload:% 02X ", e.Payload)
	}
	return s[:len(s)-1] + "}"
}

func (e *PollingEvent) setType(t PollingType) {
	e.Type = t
	e.HasType = true
}

// PollingListener receives decoded polling-loop events. Implementations
// must not retain the event's Payload slice beyond the call if they
// modify it; the decoder itself hands over ownership of a fresh copy.
type PollingListener interface {
	// OnPollingLoopDetected is called once per polling frame that met the
	// minimum frame size, carrying whatever fields could be decoded.
	OnPollingLoopDetected(event PollingEvent)
}

// PollingListenerFunc adapts a plain function to the PollingListener
// interface.
type PollingListenerFunc func(PollingEvent)

// OnPollingLoopDetected calls f(event).
func (f PollingListenerFunc) OnPollingLoopDetected(event PollingEvent) {
	f(event)
}
