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

// Package frame provides NCI packet framing and bounds-checked access to
// raw controller buffers
package frame

import "encoding/binary"

// Reader is a bounds-checked cursor over an immutable byte buffer. All
// accessors verify availability against the buffer length before reading,
// so untrusted offsets and lengths can never cause a panic. Reads past the
// end report ok=false instead.
type Reader struct {
	buf []byte
}

// NewReader wraps buf. The reader aliases buf and must not outlive the
// caller's ownership of it; accessors that return bytes always copy.
func NewReader(buf []byte) Reader {
	return Reader{buf: buf}
}

// Len returns the buffer length.
func (r Reader) Len() int {
	return len(r.buf)
}

// ByteAt returns the byte at pos, or ok=false if pos is out of range.
func (r Reader) ByteAt(pos int) (byte, bool) {
	if pos < 0 || pos >= len(r.buf) {
		return 0, false
	}
	return r.buf[pos], true
}

// Uint32LE reads a little-endian unsigned 32-bit value at pos, or
// ok=false if any of the four bytes is out of range.
func (r Reader) Uint32LE(pos int) (uint32, bool) {
	if pos < 0 || pos+4 > len(r.buf) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(r.buf[pos : pos+4]), true
}

// Bytes copies the range [from, to) out of the buffer, clamping both ends
// to what is actually available. Returns nil when the clamped range is
// empty.
func (r Reader) Bytes(from, to int) []byte {
	if from < 0 {
		from = 0
	}
	if to > len(r.buf) {
		to = len(r.buf)
	}
	if from >= to {
		return nil
	}
	out := make([]byte, to-from)
	copy(out, r.buf[from:to])
	return out
}
