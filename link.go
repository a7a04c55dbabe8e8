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

import "time"

// Link defines the interface for receiving NCI packets from a controller.
// This can be implemented by UART or I2C backends.
type Link interface {
	// ReadPacket blocks until one complete NCI packet (header plus
	// declared payload) has been read, or the read timeout expires.
	// The returned slice is owned by the caller.
	ReadPacket() ([]byte, error)

	// Close closes the link connection
	Close() error

	// SetTimeout sets the read timeout for the link
	SetTimeout(timeout time.Duration) error

	// IsConnected returns true if the link is connected
	IsConnected() bool

	// Type returns the link type
	Type() LinkType
}

// LinkType represents the type of link
type LinkType string

const (
	// LinkUART represents UART/serial links.
	LinkUART LinkType = "uart"
	// LinkI2C represents I2C bus links.
	LinkI2C LinkType = "i2c"
	// LinkMock represents a mock link for testing
	LinkMock LinkType = "mock"
)
