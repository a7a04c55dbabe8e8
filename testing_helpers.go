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
	"sync"
	"time"
)

// MockLink is a scripted Link for tests. Queued items are returned from
// ReadPacket in order; once the queue drains, reads fail with ErrLinkClosed
// so pump loops terminate deterministically.
type MockLink struct {
	mu      sync.Mutex
	queue   []mockItem
	timeout time.Duration
	closed  bool
}

type mockItem struct {
	err    error
	packet []byte
}

// NewMockLink creates an empty mock link
func NewMockLink() *MockLink {
	return &MockLink{timeout: time.Second}
}

// QueuePacket appends a packet to be returned by a future ReadPacket call.
// The packet is copied.
func (m *MockLink) QueuePacket(packet []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockItem{packet: append([]byte(nil), packet...)})
}

// QueueError appends an error to be returned by a future ReadPacket call
func (m *MockLink) QueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockItem{err: err})
}

// ReadPacket pops the next scripted item
func (m *MockLink) ReadPacket() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrLinkClosed
	}
	if len(m.queue) == 0 {
		return nil, ErrLinkClosed
	}
	item := m.queue[0]
	m.queue = m.queue[1:]
	if item.err != nil {
		return nil, item.err
	}
	return item.packet, nil
}

// Close marks the link closed; further reads fail with ErrLinkClosed
func (m *MockLink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetTimeout records the timeout; the mock never actually blocks
func (m *MockLink) SetTimeout(timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
	return nil
}

// IsConnected returns true until Close is called
func (m *MockLink) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Type returns LinkMock
func (*MockLink) Type() LinkType {
	return LinkMock
}
