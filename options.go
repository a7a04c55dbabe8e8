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

import "log/slog"

// DecoderOption is a functional option for configuring a PollingFrameDecoder
type DecoderOption func(*PollingFrameDecoder)

// WithLogger sets the logger used for decode warnings. Nil restores the
// default logger.
func WithLogger(logger *slog.Logger) DecoderOption {
	return func(d *PollingFrameDecoder) {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
	}
}

// WithSilentDecode drops decode warnings entirely. Useful when feeding the
// decoder with known-hostile input, e.g. fuzzing or replayed captures.
func WithSilentDecode() DecoderOption {
	return func(d *PollingFrameDecoder) {
		d.logger = discardLogger
	}
}
