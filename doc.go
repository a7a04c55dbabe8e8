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

/*
Package nci decodes polling-loop telemetry emitted by NCI-compliant NFC
controllers.

NCI (NFC Controller Interface) controllers periodically probe for nearby
fields and tags. Some controllers report this activity to the host as raw
telemetry buffers: a two-byte frame header followed by a sequence of
tag-length-value (TLV) records describing field changes, detected
technologies, RF gain and capture timestamps. These buffers originate from
uncontrolled hardware/firmware and must never be trusted; this package
decodes them defensively into structured events.

Basic Usage:

	import "github.com/ZaparooProject/go-nci"

	decoder := nci.NewPollingFrameDecoder(
	    nci.PollingListenerFunc(func(event nci.PollingEvent) {
	        if event.HasType {
	            fmt.Printf("polling: %s\n", event.Type)
	        }
	    }),
	)

	// buf is a raw polling frame handed over by the controller.
	decoder.Notify(buf)

The pure decode form is also available when no listener dispatch is wanted:

	event, ok := nci.DecodePollingFrame(buf)
	if ok && event.HasGain {
	    fmt.Printf("gain: %d\n", event.Gain)
	}

Live Capture:

The monitor subpackage pumps notification packets from a Link (UART or I2C
backed, see the transport subpackages) and feeds polling-loop notifications
through a decoder:

	link, err := uart.New("/dev/ttyUSB0")
	if err != nil {
	    log.Fatal(err)
	}
	defer link.Close()

	m := monitor.New(link, listener, nil)
	if err := m.Run(ctx); err != nil {
	    log.Fatal(err)
	}

Error Handling:

The decoder itself never fails: malformed input degrades to a partial or
empty event, because a hardware-supplied byte pattern must not be able to
crash the host process. Link operations return meaningful errors that can
be inspected:

	if errors.Is(err, nci.ErrTransportTimeout) {
	    // Handle timeout
	}

Thread Safety:

Decoding holds no state between calls and is safe to invoke concurrently
from independent calls. Link implementations are not thread-safe; drive
each link from a single goroutine.
*/
package nci
