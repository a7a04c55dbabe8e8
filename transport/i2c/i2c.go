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

// Package i2c provides an I2C Link to an NCI controller
package i2c

import (
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	nci "github.com/ZaparooProject/go-nci"
	"github.com/ZaparooProject/go-nci/internal/frame"
)

const (
	// Default I2C address used by PN7150-style NCI controllers.
	defaultAddr = 0x28

	// Max clock frequency (400 kHz).
	maxClockFreq = 400 * physic.KiloHertz

	defaultTimeout = 500 * time.Millisecond

	// Delay between header polls while waiting for the controller to
	// have a packet ready.
	pollInterval = 2 * time.Millisecond
)

// Link implements the nci.Link interface for I2C communication
type Link struct {
	dev     *i2c.Dev
	busName string
	addr    uint16
	timeout time.Duration
	closed  bool
}

// Option is a functional option for configuring a Link
type Option func(*Link)

// WithAddress overrides the default controller I2C address
func WithAddress(addr uint16) Option {
	return func(l *Link) {
		if addr != 0 {
			l.addr = addr
		}
	}
}

// New creates a new I2C link on the named bus
func New(busName string, opts ...Option) (*Link, error) {
	link := &Link{
		busName: busName,
		addr:    defaultAddr,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(link)
	}

	// Initialize host
	if _, err := host.Init(); err != nil {
		return nil, nci.NewTransportError("open", busName, err, nci.ErrorTypePermanent)
	}

	// Open I2C bus
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, nci.NewTransportError("open", busName, err, nci.ErrorTypePermanent)
	}

	// Set maximum frequency
	_ = bus.SetSpeed(maxClockFreq) // Ignore error, continue with default speed

	link.dev = &i2c.Dev{Addr: link.addr, Bus: bus}
	return link, nil
}

// ReadPacket polls the controller for one NCI packet. NCI over I2C is
// read header-first: a 3-byte header transaction, then a second read for
// exactly the declared payload length. An all-zero header means the
// controller has nothing queued yet.
func (l *Link) ReadPacket() ([]byte, error) {
	header := make([]byte, frame.HeaderLen)
	deadline := time.Now().Add(l.timeout)
	for {
		if err := l.dev.Tx(nil, header); err != nil {
			return nil, nci.NewTransportError("read", l.busName, err, nci.ErrorTypeTransient)
		}
		if header[0]|header[1]|header[2] != 0 {
			break
		}
		if time.Now().After(deadline) {
			return nil, nci.NewTimeoutError("read", l.busName)
		}
		time.Sleep(pollInterval)
	}

	length := int(header[2])
	packet := make([]byte, frame.HeaderLen+length)
	copy(packet, header)
	if length > 0 {
		if err := l.dev.Tx(nil, packet[frame.HeaderLen:]); err != nil {
			return nil, nci.NewTransportError("read", l.busName, err, nci.ErrorTypeTransient)
		}
	}
	return packet, nil
}

// SetTimeout sets how long ReadPacket waits for a packet to appear
func (l *Link) SetTimeout(timeout time.Duration) error {
	l.timeout = timeout
	return nil
}

// Close releases the bus device
func (l *Link) Close() error {
	l.closed = true
	return nil
}

// IsConnected returns true until Close is called
func (l *Link) IsConnected() bool {
	return l.dev != nil && !l.closed
}

// Type returns nci.LinkI2C
func (*Link) Type() nci.LinkType {
	return nci.LinkI2C
}
