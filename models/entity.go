// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "cmp"

// Entity is any value mirrored between the local cache and a remote source.
// Its identifier must be unique and stable for the lifetime of the value.
type Entity[ID cmp.Ordered] interface {
	EntityID() ID
}

// ConnectStatus is the outcome of a realtime connect or heartbeat attempt.
type ConnectStatus uint8

const (
	// ConnectDisconnected means the attempt failed.
	ConnectDisconnected ConnectStatus = iota
	// ConnectConnecting means a connection is being established and should
	// be polled again shortly.
	ConnectConnecting
	// ConnectConnected means the channel is live.
	ConnectConnected
	// ConnectUnsupported means the remote side has no realtime channel.
	ConnectUnsupported
)

func (s ConnectStatus) String() string {
	switch s {
	case ConnectDisconnected:
		return "disconnected"
	case ConnectConnecting:
		return "connecting"
	case ConnectConnected:
		return "connected"
	case ConnectUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}
