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

package monitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nci "github.com/ZaparooProject/go-nci"
	"github.com/ZaparooProject/go-nci/internal/frame"
	"github.com/ZaparooProject/go-nci/internal/metrics"
	"github.com/ZaparooProject/go-nci/internal/testutil"
)

type recordingListener struct {
	events []nci.PollingEvent
}

func (r *recordingListener) OnPollingLoopDetected(event nci.PollingEvent) {
	r.events = append(r.events, event)
}

func quietConfig(m *metrics.Metrics) *Config {
	cfg := DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg.Metrics = m
	return cfg
}

func pollingNotification(framePayload []byte) []byte {
	return frame.Build(frame.MessageNotification, frame.GroupProprietary, frame.OIDPollingFrame, framePayload)
}

func TestMonitorDeliversPollingEvents(t *testing.T) {
	t.Parallel()

	link := nci.NewMockLink()
	link.QueuePacket(pollingNotification(testutil.FieldChangeFrame(true, 4, 1000)))

	listener := &recordingListener{}
	m := New(link, listener, quietConfig(nil))

	err := m.Run(context.Background())
	require.ErrorIs(t, err, nci.ErrLinkClosed)

	require.Len(t, listener.events, 1)
	event := listener.events[0]
	assert.Equal(t, nci.PollingTypeOn, event.Type)
	assert.Equal(t, int8(4), event.Gain)
	assert.Equal(t, uint32(1000), event.Timestamp)
}

func TestMonitorIgnoresOtherTraffic(t *testing.T) {
	t.Parallel()

	link := nci.NewMockLink()
	// A core response and an RF notification must not reach the listener.
	link.QueuePacket(frame.Build(frame.MessageResponse, frame.GroupCore, 0x01, []byte{0x00}))
	link.QueuePacket(frame.Build(frame.MessageNotification, frame.GroupRF, 0x05, []byte{0x01, 0x02}))
	link.QueuePacket(pollingNotification(testutil.FieldChangeFrame(false, 0, 0)))

	listener := &recordingListener{}
	pipelineMetrics := metrics.NewWith(prometheus.NewRegistry())
	m := New(link, listener, quietConfig(pipelineMetrics))

	err := m.Run(context.Background())
	require.ErrorIs(t, err, nci.ErrLinkClosed)

	require.Len(t, listener.events, 1)
	assert.Equal(t, nci.PollingTypeOff, listener.events[0].Type)
	assert.Equal(t, float64(2), promtestutil.ToFloat64(pipelineMetrics.OtherPackets))
	assert.Equal(t, float64(1), promtestutil.ToFloat64(pipelineMetrics.FramesReceived))
	assert.Equal(t, float64(1), promtestutil.ToFloat64(pipelineMetrics.EventsDelivered))
}

func TestMonitorCountsShortFrames(t *testing.T) {
	t.Parallel()

	link := nci.NewMockLink()
	link.QueuePacket(pollingNotification([]byte{0x00, 0x00, 0x01}))

	listener := &recordingListener{}
	pipelineMetrics := metrics.NewWith(prometheus.NewRegistry())
	m := New(link, listener, quietConfig(pipelineMetrics))

	err := m.Run(context.Background())
	require.ErrorIs(t, err, nci.ErrLinkClosed)

	assert.Empty(t, listener.events)
	assert.Equal(t, float64(1), promtestutil.ToFloat64(pipelineMetrics.FramesReceived))
	assert.Equal(t, float64(1), promtestutil.ToFloat64(pipelineMetrics.ShortFrames))
	assert.Equal(t, float64(0), promtestutil.ToFloat64(pipelineMetrics.EventsDelivered))
}

func TestMonitorDiscardsCorruptPackets(t *testing.T) {
	t.Parallel()

	link := nci.NewMockLink()
	// Declared payload length exceeds what was read.
	link.QueuePacket([]byte{0x6F, 0x33, 0x20, 0xAA})
	link.QueuePacket(pollingNotification(testutil.FieldChangeFrame(true, 1, 2)))

	listener := &recordingListener{}
	pipelineMetrics := metrics.NewWith(prometheus.NewRegistry())
	m := New(link, listener, quietConfig(pipelineMetrics))

	err := m.Run(context.Background())
	require.ErrorIs(t, err, nci.ErrLinkClosed)

	require.Len(t, listener.events, 1)
	assert.Equal(t, float64(1), promtestutil.ToFloat64(pipelineMetrics.ReadErrors))
}

func TestMonitorContinuesAfterRetryableErrors(t *testing.T) {
	t.Parallel()

	link := nci.NewMockLink()
	link.QueueError(nci.NewTimeoutError("read", "mock"))
	link.QueueError(nci.NewTransportError("read", "mock", errors.New("hiccup"), nci.ErrorTypeTransient))
	link.QueuePacket(pollingNotification(testutil.FieldChangeFrame(true, 8, 3)))

	listener := &recordingListener{}
	pipelineMetrics := metrics.NewWith(prometheus.NewRegistry())
	m := New(link, listener, quietConfig(pipelineMetrics))

	err := m.Run(context.Background())
	require.ErrorIs(t, err, nci.ErrLinkClosed)

	require.Len(t, listener.events, 1)
	// Only the transient failure counts; timeouts are routine pacing.
	assert.Equal(t, float64(1), promtestutil.ToFloat64(pipelineMetrics.ReadErrors))
}

func TestMonitorStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(nci.NewMockLink(), &recordingListener{}, quietConfig(nil))
	err := m.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMonitorClose(t *testing.T) {
	t.Parallel()

	link := nci.NewMockLink()
	m := New(link, &recordingListener{}, quietConfig(nil))

	require.NoError(t, m.Close())
	assert.False(t, link.IsConnected())
}
