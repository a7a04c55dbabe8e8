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

import (
	"io"
	"log/slog"

	"github.com/ZaparooProject/go-nci/internal/frame"
)

// Polling frame layout. A frame is a two-byte header followed by TLV
// records; all record field offsets are relative to the record start.
const (
	// minPollingFrameTLVSize is the smallest frame worth decoding.
	// Anything shorter produces no event at all.
	minPollingFrameTLVSize = 5

	// pollingFrameHeaderLen is the fixed frame header, never interpreted.
	pollingFrameHeaderLen = 2

	tlvLenOffset       = 0
	tlvTypeOffset      = 2
	tlvTimestampOffset = 3
	tlvGainOffset      = 7
	tlvDataOffset      = 8
)

// Record type codes as reported by the controller
const (
	tagFieldChange byte = 0x00
	tagNfcA        byte = 0x01
	tagNfcB        byte = 0x02
	tagNfcF        byte = 0x03
	tagNfcUnknown  byte = 0x07
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// PollingFrameDecoder decodes raw polling frames and dispatches the
// result to a listener. It holds no state between calls; a single decoder
// may be shared across goroutines.
type PollingFrameDecoder struct {
	listener PollingListener
	logger   *slog.Logger
}

// NewPollingFrameDecoder creates a decoder that delivers decoded events
// to listener. A nil listener is allowed; decoding still happens but
// nothing is dispatched.
func NewPollingFrameDecoder(listener PollingListener, opts ...DecoderOption) *PollingFrameDecoder {
	decoder := &PollingFrameDecoder{
		listener: listener,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(decoder)
	}
	return decoder
}

// Notify decodes one raw polling frame and, when the frame meets the
// minimum size, makes exactly one OnPollingLoopDetected call with the
// accumulated event. Returns true if a notification was dispatched.
//
// The buffer is only read for the duration of the call; the caller keeps
// ownership and may reuse it immediately after Notify returns.
func (d *PollingFrameDecoder) Notify(buf []byte) bool {
	event, ok := decodePollingFrame(buf, d.logger)
	if !ok {
		return false
	}
	if d.listener != nil {
		d.listener.OnPollingLoopDetected(event)
	}
	return true
}

// DecodePollingFrame decodes a raw polling frame into an event. ok is
// false only when the frame is below the minimum size; any other byte
// pattern yields ok=true with whatever fields could be decoded, which may
// be none (see PollingEvent.IsEmpty).
func DecodePollingFrame(buf []byte) (PollingEvent, bool) {
	return decodePollingFrame(buf, discardLogger)
}

// decodePollingFrame walks the TLV records of one frame, accumulating
// fields into a single event with last-write-wins semantics. L and the
// type code come from untrusted hardware, so every read goes through the
// bounds-checked reader and a declared length is never trusted: a record
// whose footprint exceeds the buffer stops the walk, keeping what has
// accumulated so far.
func decodePollingFrame(buf []byte, logger *slog.Logger) (PollingEvent, bool) {
	n := len(buf)
	if n < minPollingFrameTLVSize {
		return PollingEvent{}, false
	}

	var event PollingEvent
	r := frame.NewReader(buf)

	for pos := pollingFrameHeaderLen; pos < n; {
		// pos < n, so the length byte is always in range.
		lenByte, _ := r.ByteAt(pos + tlvLenOffset)
		length := int(lenByte)
		recType, ok := r.ByteAt(pos + tlvTypeOffset)
		if !ok || pos+length+1 > n {
			logger.Warn("polling frame record longer than buffer",
				slog.Int("pos", pos),
				slog.Int("length", length),
				slog.Int("buffer", n))
			break
		}

		switch recType {
		case tagFieldChange:
			if b, ok := r.ByteAt(pos + tlvDataOffset); ok {
				if b != 0x00 {
					event.setType(PollingTypeOn)
				} else {
					event.setType(PollingTypeOff)
				}
			}
		case tagNfcA:
			event.setType(PollingTypeA)
		case tagNfcB:
			event.setType(PollingTypeB)
		case tagNfcF:
			event.setType(PollingTypeF)
		case tagNfcUnknown:
			event.setType(PollingTypeUnknown)
			event.Payload = r.Bytes(pos+tlvDataOffset, pos+tlvTimestampOffset+length)
		default:
			logger.Warn("unknown polling loop record type",
				slog.Int("pos", pos),
				slog.Int("type", int(recType)))
		}

		// Gain and timestamp are independent of the record type and are
		// extracted whenever they fit in the buffer.
		if gain, ok := r.ByteAt(pos + tlvGainOffset); ok {
			event.Gain = int8(gain)
			event.HasGain = true
		}
		if ts, ok := r.Uint32LE(pos + tlvTimestampOffset); ok {
			event.Timestamp = ts
			event.HasTimestamp = true
		}

		pos += length + 2
	}

	return event, true
}
