/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ghostid/wallet-agent/pkg/didcomm/protocol/authorization"
)

// Status is a snapshot of a session, as observed by the UI layer.
type Status struct {
	SessionID       string                 `json:"sessionId,omitempty"`
	RequestID       string                 `json:"requestId,omitempty"`
	State           State                  `json:"state"`
	ErrorKind       authorization.Kind     `json:"errorKind,omitempty"`
	LastError       string                 `json:"lastError,omitempty"`
	CreatedAt       *time.Time             `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time             `json:"updatedAt,omitempty"`
	Acknowledgement map[string]interface{} `json:"acknowledgement,omitempty"`
}

// Session is a single scan, from payload to verifier acknowledgement.
type Session struct {
	id        string
	createdAt time.Time
	cancel    context.CancelFunc
	done      chan struct{}

	mu        sync.RWMutex
	current   state
	requestID string
	updatedAt time.Time
	err       error
	ack       map[string]interface{}
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		id:        id,
		createdAt: now,
		updatedAt: now,
		cancel:    func() {},
		done:      make(chan struct{}),
		current:   &idle{},
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.Name()
}

// Err returns the error that ended the session, if any.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.err
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	created, updated := s.createdAt, s.updatedAt

	status := Status{
		SessionID:       s.id,
		RequestID:       s.requestID,
		State:           s.current.Name(),
		CreatedAt:       &created,
		UpdatedAt:       &updated,
		Acknowledgement: s.ack,
	}

	if s.err != nil {
		status.ErrorKind = authorization.KindOf(s.err)
		status.LastError = s.err.Error()
	}

	return status
}

// Done is closed once the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session is terminal or ctx ends.
func (s *Session) Wait(ctx context.Context) (Status, error) {
	select {
	case <-s.done:
		return s.Status(), nil
	case <-ctx.Done():
		return s.Status(), ctx.Err()
	}
}

func (s *Session) transition(next state, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transitionLocked(next, now)
}

func (s *Session) transitionLocked(next state, now time.Time) error {
	if !s.current.CanTransitionTo(next) {
		return fmt.Errorf("invalid state transition: %s -> %s", s.current.Name(), next.Name())
	}

	s.current = next
	s.updatedAt = now

	if next.Name().Terminal() {
		close(s.done)
	}

	return nil
}

func (s *Session) setRequestID(id string) {
	s.mu.Lock()
	s.requestID = id
	s.mu.Unlock()
}

// end moves the session to its terminal state for err; a nil err is success.
func (s *Session) end(ctx context.Context, err error, ack map[string]interface{}, now time.Time) error {
	var next state

	switch {
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		next = &cancelled{}
		err = authorization.NewError(authorization.KindCancelled, "session cancelled")
	case err != nil:
		next = &failed{}
	default:
		next = &succeeded{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.transitionLocked(next, now); e != nil {
		return e
	}

	s.err = err
	s.ack = ack

	return nil
}
