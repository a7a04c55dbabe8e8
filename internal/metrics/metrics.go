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

// Package metrics provides prometheus instrumentation for the polling
// telemetry pipeline
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the prometheus counters for one monitor pipeline
type Metrics struct {
	// FramesReceived counts polling-loop telemetry notifications seen
	// on the link.
	FramesReceived prometheus.Counter

	// EventsDelivered counts listener notifications dispatched.
	EventsDelivered prometheus.Counter

	// ShortFrames counts polling frames below the minimum TLV size,
	// which are dropped without notification.
	ShortFrames prometheus.Counter

	// OtherPackets counts NCI packets that were not polling telemetry.
	OtherPackets prometheus.Counter

	// ReadErrors counts link read and framing failures.
	ReadErrors prometheus.Counter
}

// New creates metrics registered on the default prometheus registry
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates metrics registered on reg. Tests use a private registry
// to avoid duplicate-registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FramesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "nci_polling_frames_received_total",
			Help: "Total number of polling-loop telemetry frames received",
		}),
		EventsDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "nci_polling_events_delivered_total",
			Help: "Total number of polling events delivered to the listener",
		}),
		ShortFrames: factory.NewCounter(prometheus.CounterOpts{
			Name: "nci_polling_short_frames_total",
			Help: "Total number of polling frames dropped for being below the minimum TLV size",
		}),
		OtherPackets: factory.NewCounter(prometheus.CounterOpts{
			Name: "nci_link_other_packets_total",
			Help: "Total number of NCI packets that carried no polling telemetry",
		}),
		ReadErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "nci_link_read_errors_total",
			Help: "Total number of link read and framing errors",
		}),
	}
}
