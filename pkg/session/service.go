/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package session drives authorization sessions: parse a scanned payload, prove its scopes and deliver the
// response to the verifier. At most one session is active at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/ghostid/wallet-agent/pkg/didcomm/protocol/authorization"
	transport "github.com/ghostid/wallet-agent/pkg/didcomm/transport/http"
	"github.com/ghostid/wallet-agent/pkg/wallet"
)

const defaultMaxRetries = 2

var logger = log.New("ghostid/session")

// ErrNoActiveSession is returned by Cancel when there is nothing to cancel.
var ErrNoActiveSession = errors.New("no active session")

// ParserFunc parses a scanned payload.
type ParserFunc func(raw string) (*authorization.AuthorizationRequest, error)

// ProofEngine proves an authorization request for an identity.
type ProofEngine interface {
	Prove(ctx context.Context, req *authorization.AuthorizationRequest,
		identity *wallet.Identity) (*authorization.VerificationResponse, error)
}

// Deliverer sends a response to a verifier callback.
type Deliverer interface {
	Deliver(ctx context.Context, resp *authorization.VerificationResponse,
		callbackURL string) (*transport.DeliveryResult, error)
}

// IdentityProvider reports the wallet identity.
type IdentityProvider interface {
	Identity() (*wallet.Identity, error)
}

// Option configures a Service.
type Option func(s *Service)

// WithParser replaces the payload parser.
func WithParser(parse ParserFunc) Option {
	return func(s *Service) {
		s.parse = parse
	}
}

// WithMaxRetries sets how many times a failed delivery is retried.
func WithMaxRetries(retries int) Option {
	return func(s *Service) {
		if retries >= 0 {
			s.maxRetries = retries
		}
	}
}

// WithBackOff sets the delivery retry back-off policy.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(s *Service) {
		s.newBackOff = newBackOff
	}
}

// WithMetrics records session metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service runs authorization sessions.
type Service struct {
	statusEvents

	identities IdentityProvider
	engine     ProofEngine
	deliverer  Deliverer
	parse      ParserFunc
	maxRetries int
	newBackOff func() backoff.BackOff
	metrics    *Metrics
	now        func() time.Time

	mu      sync.Mutex
	current *Session
}

// New returns a Service.
func New(identities IdentityProvider, engine ProofEngine, deliverer Deliverer, opts ...Option) *Service {
	s := &Service{
		identities: identities,
		engine:     engine,
		deliverer:  deliverer,
		parse:      authorization.Parse,
		maxRetries: defaultMaxRetries,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		metrics:    NewMetrics(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Scan starts a session for a scanned payload and returns without waiting for it to finish. It fails with
// SessionBusy while another session is active, and with WalletNotInitialized when the wallet has no identity;
// in the latter case the returned session has already failed. The session outlives ctx; use Cancel to stop it.
func (s *Service) Scan(ctx context.Context, payload string) (*Session, error) {
	s.mu.Lock()

	if s.current != nil && !s.current.State().Terminal() {
		busy := s.current

		s.mu.Unlock()

		return nil, authorization.NewError(authorization.KindSessionBusy,
			"session %s is %s", busy.ID(), busy.State())
	}

	sess := newSession(uuid.NewString(), s.now())
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sess.cancel = cancel
	s.current = sess

	s.mu.Unlock()

	identity, err := s.identities.Identity()
	if err != nil {
		if !errors.Is(err, authorization.ErrWalletNotInitialized) {
			err = authorization.WrapError(authorization.KindInternal, fmt.Errorf("load identity: %w", err))
		}

		s.finish(context.Background(), sess, err, nil)
		cancel()

		return sess, sess.Err()
	}

	s.notify(sess.Status())

	go s.run(runCtx, cancel, sess, payload, identity)

	return sess, nil
}

// Status returns the status of the current session, or an idle status when there is none.
func (s *Service) Status() Status {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()

	if sess == nil {
		return Status{State: StateIdle}
	}

	return sess.Status()
}

// Current returns the current session, nil when idle.
func (s *Service) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

// WithIdle runs fn while no session is active and holds off new sessions until fn returns. It fails with
// SessionBusy, without calling fn, when a session is in flight.
func (s *Service) WithIdle(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && !s.current.State().Terminal() {
		return authorization.NewError(authorization.KindSessionBusy,
			"session %s is %s", s.current.ID(), s.current.State())
	}

	return fn()
}

// Cancel cancels the active session. The session ends in the cancelled state once its in-flight stage returns.
func (s *Service) Cancel() error {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()

	if sess == nil || sess.State().Terminal() {
		return ErrNoActiveSession
	}

	logger.Infof("cancelling session %s", sess.ID())
	sess.cancel()

	return nil
}

// Dismiss discards a finished session, returning the status to idle.
func (s *Service) Dismiss() error {
	s.mu.Lock()

	if s.current != nil && !s.current.State().Terminal() {
		busy := s.current

		s.mu.Unlock()

		return authorization.NewError(authorization.KindSessionBusy,
			"session %s is %s", busy.ID(), busy.State())
	}

	s.current = nil

	s.mu.Unlock()

	s.notify(Status{State: StateIdle})

	return nil
}

func (s *Service) run(ctx context.Context, cancel context.CancelFunc, sess *Session, payload string,
	identity *wallet.Identity) {
	defer cancel()

	ack, err := s.execute(ctx, sess, payload, identity)

	s.finish(ctx, sess, err, ack)
}

func (s *Service) execute(ctx context.Context, sess *Session, payload string,
	identity *wallet.Identity) (map[string]interface{}, error) {
	if err := s.advance(ctx, sess, &parsing{}); err != nil {
		return nil, err
	}

	req, err := s.parse(payload)
	if err != nil {
		return nil, err
	}

	sess.setRequestID(req.ID)

	if err = s.advance(ctx, sess, &proving{}); err != nil {
		return nil, err
	}

	start := time.Now()

	resp, err := s.engine.Prove(ctx, req, identity)

	s.metrics.provingDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}

	if err = s.advance(ctx, sess, &delivering{}); err != nil {
		return nil, err
	}

	result, err := s.deliver(ctx, resp, req.CallbackURL)
	if err != nil || result == nil {
		return nil, err
	}

	return result.Acknowledgement, nil
}

// advance enters the next stage unless the session was cancelled.
func (s *Service) advance(ctx context.Context, sess *Session, next state) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := sess.transition(next, s.now()); err != nil {
		return authorization.WrapError(authorization.KindInternal, err)
	}

	s.notify(sess.Status())

	return nil
}

// deliver sends the same response until it is accepted, a non-retryable error occurs or retries run out.
func (s *Service) deliver(ctx context.Context, resp *authorization.VerificationResponse,
	callbackURL string) (*transport.DeliveryResult, error) {
	var (
		result  *transport.DeliveryResult
		attempt int
	)

	operation := func() error {
		attempt++

		r, err := s.deliverer.Deliver(ctx, resp, callbackURL)
		if err != nil {
			s.metrics.deliveryAttempts.WithLabelValues(string(authorization.KindOf(err))).Inc()

			if !authorization.IsRetryable(err) {
				return backoff.Permanent(err)
			}

			logger.Infof("delivery attempt %d of response %s failed: %s", attempt, resp.ID, err)

			return err
		}

		s.metrics.deliveryAttempts.WithLabelValues("delivered").Inc()

		result = r

		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), uint64(s.maxRetries)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) finish(ctx context.Context, sess *Session, err error, ack map[string]interface{}) {
	if e := sess.end(ctx, err, ack, s.now()); e != nil {
		logger.Errorf("session %s: %s", sess.ID(), e)

		return
	}

	status := sess.Status()

	s.metrics.sessions.WithLabelValues(string(status.State), string(status.ErrorKind)).Inc()

	if status.State == StateSucceeded {
		logger.Infof("session %s succeeded for request %s", status.SessionID, status.RequestID)
	} else {
		logger.Warnf("session %s %s: %s", status.SessionID, status.State, status.LastError)
	}

	s.notify(status)
}
