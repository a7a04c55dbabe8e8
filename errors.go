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
	"errors"
	"fmt"
)

// Link errors
var (
	// ErrTransportTimeout indicates a read deadline expired before a full
	// packet arrived.
	ErrTransportTimeout = errors.New("transport timeout")
	// ErrTransportRead indicates a read from the underlying port failed.
	ErrTransportRead = errors.New("transport read failed")
	// ErrTransportWrite indicates a write to the underlying port failed.
	ErrTransportWrite = errors.New("transport write failed")
	// ErrFrameCorrupted indicates packet framing could not be recovered.
	ErrFrameCorrupted = errors.New("frame corrupted")
	// ErrLinkClosed indicates the link was closed, locally or by the
	// device going away.
	ErrLinkClosed = errors.New("link closed")
	// ErrDeviceNotFound indicates the named port does not exist.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrInvalidParameter indicates a caller-supplied parameter was
	// rejected before touching the device.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ErrorType classifies an error for retry decisions
type ErrorType int

const (
	// ErrorTypeUnknown means the error could not be classified.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeTransient errors may succeed if the operation is retried.
	ErrorTypeTransient
	// ErrorTypeTimeout errors are deadline expirations.
	ErrorTypeTimeout
	// ErrorTypePermanent errors will not be fixed by retrying.
	ErrorTypePermanent
)

// TransportError wraps a link-level failure with enough context to decide
// whether retrying makes sense.
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError, deriving retryability from
// the error type.
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient || errType == ErrorTypeTimeout,
	}
}

// NewTimeoutError creates a retryable timeout TransportError.
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportTimeout, ErrorTypeTimeout)
}

// IsRetryable reports whether err is worth retrying. A TransportError's
// explicit Retryable flag wins over the sentinel classification of its
// underlying error.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Retryable
	}
	switch {
	case errors.Is(err, ErrTransportTimeout),
		errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrFrameCorrupted):
		return true
	default:
		return false
	}
}

// GetErrorType classifies err for retry decisions.
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Type
	}
	switch {
	case errors.Is(err, ErrTransportTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrTransportRead), errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrFrameCorrupted):
		return ErrorTypeTransient
	case errors.Is(err, ErrLinkClosed), errors.Is(err, ErrDeviceNotFound),
		errors.Is(err, ErrInvalidParameter):
		return ErrorTypePermanent
	default:
		return ErrorTypeUnknown
	}
}
