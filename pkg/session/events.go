/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package session

import (
	"errors"
	"sync"
)

// ErrNilChannel is returned when a nil channel is registered.
var ErrNilChannel = errors.New("channel is nil")

// statusEvents is a thread-safe register of status event channels.
type statusEvents struct {
	mu     sync.RWMutex
	events []chan<- Status
}

func (m *statusEvents) channels() []chan<- Status {
	m.mu.RLock()
	events := append(m.events[:0:0], m.events...)
	m.mu.RUnlock()

	return events
}

// RegisterStatusEvent registers a channel that receives every status change. Sends never block: a receiver
// that is not ready misses the update, so use a buffered channel.
func (m *statusEvents) RegisterStatusEvent(ch chan<- Status) error {
	if ch == nil {
		return ErrNilChannel
	}

	m.mu.Lock()
	m.events = append(m.events, ch)
	m.mu.Unlock()

	return nil
}

// UnregisterStatusEvent removes a channel registered with RegisterStatusEvent.
func (m *statusEvents) UnregisterStatusEvent(ch chan<- Status) error {
	m.mu.Lock()
	for i := 0; i < len(m.events); i++ {
		if m.events[i] == ch {
			m.events = append(m.events[:i], m.events[i+1:]...)
			i--
		}
	}
	m.mu.Unlock()

	return nil
}

func (m *statusEvents) notify(status Status) {
	for _, ch := range m.channels() {
		select {
		case ch <- status:
		default:
			logger.Warnf("status event receiver not ready, dropping %s status of session %s",
				status.State, status.SessionID)
		}
	}
}
