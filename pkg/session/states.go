/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package session

// State is the name of a session state.
type State string

// Session states.
const (
	StateIdle       State = "idle"
	StateParsing    State = "parsing"
	StateProving    State = "proving"
	StateDelivering State = "delivering"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
)

// Terminal reports whether no further transition can leave the state.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

// the session's state.
type state interface {
	// Name of this state.
	Name() State
	// Whether this state allows transitioning into the next state.
	CanTransitionTo(next state) bool
}

// idle state.
type idle struct{}

func (s *idle) Name() State {
	return StateIdle
}

// failing from idle covers the wallet precondition.
func (s *idle) CanTransitionTo(next state) bool {
	switch next.Name() {
	case StateParsing, StateFailed, StateCancelled:
		return true
	}

	return false
}

// parsing state.
type parsing struct{}

func (s *parsing) Name() State {
	return StateParsing
}

func (s *parsing) CanTransitionTo(next state) bool {
	switch next.Name() {
	case StateProving, StateFailed, StateCancelled:
		return true
	}

	return false
}

// proving state.
type proving struct{}

func (s *proving) Name() State {
	return StateProving
}

func (s *proving) CanTransitionTo(next state) bool {
	switch next.Name() {
	case StateDelivering, StateFailed, StateCancelled:
		return true
	}

	return false
}

// delivering state.
type delivering struct{}

func (s *delivering) Name() State {
	return StateDelivering
}

func (s *delivering) CanTransitionTo(next state) bool {
	switch next.Name() {
	case StateSucceeded, StateFailed, StateCancelled:
		return true
	}

	return false
}

// succeeded state.
type succeeded struct{}

func (s *succeeded) Name() State {
	return StateSucceeded
}

func (s *succeeded) CanTransitionTo(state) bool {
	return false
}

// failed state.
type failed struct{}

func (s *failed) Name() State {
	return StateFailed
}

func (s *failed) CanTransitionTo(state) bool {
	return false
}

// cancelled state.
type cancelled struct{}

func (s *cancelled) Name() State {
	return StateCancelled
}

func (s *cancelled) CanTransitionTo(state) bool {
	return false
}
