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

// Package monitor pumps NCI notifications from a link and dispatches
// polling-loop telemetry through a decoder to a listener.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	nci "github.com/ZaparooProject/go-nci"
	"github.com/ZaparooProject/go-nci/internal/frame"
	"github.com/ZaparooProject/go-nci/internal/metrics"
)

// Config contains configuration options for the Monitor
type Config struct {
	// Logger receives monitor and decode diagnostics. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Metrics, when set, receives pipeline counters.
	Metrics *metrics.Metrics

	// ReadTimeout bounds each link read so the loop can observe context
	// cancellation.
	ReadTimeout time.Duration
}

// DefaultConfig returns default monitor configuration
func DefaultConfig() *Config {
	return &Config{
		ReadTimeout: 500 * time.Millisecond,
	}
}

// Monitor reads NCI packets from a Link and feeds polling-loop
// notifications to the decoder, which notifies the listener. All other
// traffic is counted and dropped; this component deliberately knows
// nothing about command forwarding or discovery control.
type Monitor struct {
	link    nci.Link
	decoder *nci.PollingFrameDecoder
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a monitor delivering events from link to listener
func New(link nci.Link, listener nci.PollingListener, config *Config) *Monitor {
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.ReadTimeout > 0 {
		_ = link.SetTimeout(config.ReadTimeout)
	}
	return &Monitor{
		link:    link,
		decoder: nci.NewPollingFrameDecoder(listener, nci.WithLogger(logger)),
		logger:  logger,
		metrics: config.Metrics,
	}
}

// Run pumps the link until the context is cancelled or a non-retryable
// link error occurs. Read timeouts and transient errors keep the loop
// going.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		packet, err := m.link.ReadPacket()
		if err != nil {
			if nci.GetErrorType(err) == nci.ErrorTypeTimeout {
				continue
			}
			if nci.IsRetryable(err) {
				m.incReadErrors()
				m.logger.Warn("link read failed, retrying", slog.String("error", err.Error()))
				continue
			}
			return fmt.Errorf("link read failed: %w", err)
		}

		m.handlePacket(packet)
	}
}

// Close closes the underlying link
func (m *Monitor) Close() error {
	if err := m.link.Close(); err != nil {
		return fmt.Errorf("failed to close link: %w", err)
	}
	return nil
}

func (m *Monitor) handlePacket(data []byte) {
	packet, err := frame.ParsePacket(data)
	if err != nil {
		m.incReadErrors()
		m.logger.Warn("discarding unparseable NCI packet", slog.String("error", err.Error()))
		return
	}

	if !packet.IsPollingFrame() {
		if m.metrics != nil {
			m.metrics.OtherPackets.Inc()
		}
		m.logger.Debug("ignoring non-polling packet",
			slog.Int("mt", int(packet.MT)),
			slog.Int("gid", int(packet.GID)),
			slog.Int("oid", int(packet.OID)))
		return
	}

	if m.metrics != nil {
		m.metrics.FramesReceived.Inc()
	}
	if m.decoder.Notify(packet.Payload) {
		if m.metrics != nil {
			m.metrics.EventsDelivered.Inc()
		}
	} else if m.metrics != nil {
		m.metrics.ShortFrames.Inc()
	}
}

func (m *Monitor) incReadErrors() {
	if m.metrics != nil {
		m.metrics.ReadErrors.Inc()
	}
}
