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

// Package uart provides a serial Link to an NCI controller
package uart

import (
	"time"

	"go.bug.st/serial"

	nci "github.com/ZaparooProject/go-nci"
	"github.com/ZaparooProject/go-nci/internal/frame"
)

const (
	defaultBaudRate = 115200
	defaultTimeout  = 500 * time.Millisecond
)

// Link implements the nci.Link interface over a serial port
type Link struct {
	port     serial.Port
	portName string
	baudRate int
	timeout  time.Duration
	closed   bool
}

// Option is a functional option for configuring a Link
type Option func(*Link)

// WithBaudRate overrides the default baud rate
func WithBaudRate(baudRate int) Option {
	return func(l *Link) {
		if baudRate > 0 {
			l.baudRate = baudRate
		}
	}
}

// New opens a serial link to the controller at portName
func New(portName string, opts ...Option) (*Link, error) {
	link := &Link{
		portName: portName,
		baudRate: defaultBaudRate,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(link)
	}

	mode := &serial.Mode{
		BaudRate: link.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, nci.NewTransportError("open", portName, err, nci.ErrorTypePermanent)
	}
	if err := port.SetReadTimeout(link.timeout); err != nil {
		_ = port.Close()
		return nil, nci.NewTransportError("open", portName, err, nci.ErrorTypePermanent)
	}

	link.port = port
	return link, nil
}

// ReadPacket reads one NCI packet: the 3-byte header, then exactly the
// declared payload length. The declared length is a single octet and is
// bounded by frame.MaxPayloadLen, so it cannot size an allocation beyond
// that.
func (l *Link) ReadPacket() ([]byte, error) {
	header := make([]byte, frame.HeaderLen)
	if err := l.readFull(header); err != nil {
		return nil, err
	}

	length := int(header[2])
	packet := make([]byte, frame.HeaderLen+length)
	copy(packet, header)
	if length > 0 {
		if err := l.readFull(packet[frame.HeaderLen:]); err != nil {
			return nil, err
		}
	}
	return packet, nil
}

// readFull fills buf from the port. go.bug.st/serial reports an expired
// read timeout as a zero-byte read, which is mapped to a timeout error;
// a partial packet followed by silence surfaces the same way.
func (l *Link) readFull(buf []byte) error {
	total := 0
	for total < len(buf) {
		n, err := l.port.Read(buf[total:])
		if err != nil {
			return nci.NewTransportError("read", l.portName, err, nci.ErrorTypeTransient)
		}
		if n == 0 {
			return nci.NewTimeoutError("read", l.portName)
		}
		total += n
	}
	return nil
}

// SetTimeout sets the read timeout for the link
func (l *Link) SetTimeout(timeout time.Duration) error {
	l.timeout = timeout
	if err := l.port.SetReadTimeout(timeout); err != nil {
		return nci.NewTransportError("set_timeout", l.portName, err, nci.ErrorTypePermanent)
	}
	return nil
}

// Close closes the serial port
func (l *Link) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	if err := l.port.Close(); err != nil {
		return nci.NewTransportError("close", l.portName, err, nci.ErrorTypePermanent)
	}
	return nil
}

// IsConnected returns true if the port is open
func (l *Link) IsConnected() bool {
	return l.port != nil && !l.closed
}

// Type returns nci.LinkUART
func (*Link) Type() nci.LinkType {
	return nci.LinkUART
}
