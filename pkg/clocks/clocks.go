// Zaparoo Nixie
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Nixie.
//
// Zaparoo Nixie is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Nixie is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Nixie.  If not, see <http://www.gnu.org/licenses/>.

// Package clocks holds the types shared between the time authority and the
// time source drivers under it.
package clocks

import (
	"errors"
	"fmt"
	"time"
)

// FailureKind classifies a failed network time sync.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureUnreachable
	FailureBadAddress
	FailureSendError
	FailureResponseError
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureUnreachable:
		return "unreachable"
	case FailureBadAddress:
		return "bad-address"
	case FailureSendError:
		return "send-error"
	case FailureResponseError:
		return "response-error"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

var (
	ErrSyncUnreachable   = errors.New("time server unreachable")
	ErrSyncBadAddress    = errors.New("bad time server address")
	ErrSyncSendError     = errors.New("failed to send time request")
	ErrSyncResponseError = errors.New("invalid time server response")
)

// Err returns the sentinel error for a failure kind, nil for FailureNone.
func (k FailureKind) Err() error {
	switch k {
	case FailureUnreachable:
		return ErrSyncUnreachable
	case FailureBadAddress:
		return ErrSyncBadAddress
	case FailureSendError:
		return ErrSyncSendError
	case FailureResponseError:
		return ErrSyncResponseError
	default:
		return nil
	}
}

// SyncResult is the outcome of one network time query. It is a plain value
// so it can be handed across goroutines by copy.
type SyncResult struct {
	// RequestedAt is when the query was sent, on the collaborator's clock.
	RequestedAt time.Time
	// Err carries the underlying error on failure.
	Err    error
	Server string
	// Epoch is the network time in seconds, valid on success only.
	Epoch int64
	Kind  FailureKind
}

// OK reports whether the sync succeeded.
func (r SyncResult) OK() bool {
	return r.Kind == FailureNone
}

// Success builds a successful result.
func Success(server string, epoch int64, requestedAt time.Time) SyncResult {
	return SyncResult{Server: server, Epoch: epoch, RequestedAt: requestedAt}
}

// Failure builds a failed result wrapping err with the kind's sentinel.
func Failure(server string, kind FailureKind, err error, requestedAt time.Time) SyncResult {
	wrapped := kind.Err()
	if err != nil {
		wrapped = fmt.Errorf("%w: %w", kind.Err(), err)
	}
	return SyncResult{Server: server, Kind: kind, Err: wrapped, RequestedAt: requestedAt}
}
