/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package agent wires the wallet, proof engine, delivery client and session service into one agent.
package agent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/prometheus/client_golang/prometheus"

	transport "github.com/ghostid/wallet-agent/pkg/didcomm/transport/http"
	"github.com/ghostid/wallet-agent/pkg/proof"
	"github.com/ghostid/wallet-agent/pkg/proof/groth16"
	"github.com/ghostid/wallet-agent/pkg/session"
	"github.com/ghostid/wallet-agent/pkg/store/credential"
	"github.com/ghostid/wallet-agent/pkg/store/namespace"
	"github.com/ghostid/wallet-agent/pkg/wallet"
)

var logger = log.New("ghostid/agent")

// Agent holds the wired components.
type Agent struct {
	storeProvider storage.Provider
	namespace     string
	didMethod     string
	prover        proof.Prover
	outboundOpts  []transport.OutboundHTTPOpt
	sessionOpts   []session.Option
	registerer    prometheus.Registerer

	store       *namespace.Store
	lifecycle   *wallet.Lifecycle
	credentials *credential.Store
	engine      *proof.Engine
	outbound    *transport.OutboundHTTPClient
	sessions    *session.Service
}

// Option configures the agent.
type Option func(opts *Agent) error

// New creates an agent. Unset options default to an in-memory store, the polygonid namespace and DID method,
// and the in-process groth16 prover.
func New(opts ...Option) (*Agent, error) {
	a := &Agent{
		namespace: wallet.DefaultNamespace,
		didMethod: wallet.DefaultDIDMethod,
	}

	for _, option := range opts {
		if err := option(a); err != nil {
			return nil, fmt.Errorf("error in option passed to New: %w", err)
		}
	}

	if a.storeProvider == nil {
		a.storeProvider = mem.NewProvider()
	}

	if a.prover == nil {
		a.prover = groth16.New()
	}

	if err := a.initialize(); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Agent) initialize() error {
	store, err := namespace.Open(a, a.namespace)
	if err != nil {
		return fmt.Errorf("open wallet namespace: %w", err)
	}

	a.store = store
	a.lifecycle = wallet.NewLifecycle(store, wallet.WithDIDMethod(a.didMethod))
	a.credentials = credential.New(store)
	a.engine = proof.NewEngine(a.prover, a.credentials, a.lifecycle.KeyStore())

	a.outbound, err = transport.NewOutbound(a.outboundOpts...)
	if err != nil {
		return fmt.Errorf("http outbound transport initialization failed: %w", err)
	}

	metrics := session.NewMetrics()

	if a.registerer != nil {
		if err = register(a.registerer, metrics.Collectors()...); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
	}

	sessionOpts := append([]session.Option{session.WithMetrics(metrics)}, a.sessionOpts...)
	a.sessions = session.New(a.lifecycle, a.engine, a.outbound, sessionOpts...)

	logger.Infof("agent ready: namespace=%s didMethod=%s", a.namespace, a.didMethod)

	return nil
}

func register(reg prometheus.Registerer, collectors ...prometheus.Collector) error {
	for _, c := range collectors {
		err := reg.Register(c)

		var already prometheus.AlreadyRegisteredError
		if err != nil && !errors.As(err, &already) {
			return err
		}
	}

	return nil
}

// WithStoreProvider sets the storage provider.
func WithStoreProvider(prov storage.Provider) Option {
	return func(opts *Agent) error {
		opts.storeProvider = prov

		return nil
	}
}

// WithNamespace sets the wallet storage namespace.
func WithNamespace(name string) Option {
	return func(opts *Agent) error {
		if name == "" {
			return errors.New("namespace is empty")
		}

		opts.namespace = name

		return nil
	}
}

// WithDIDMethod sets the DID method (with network) of generated identities.
func WithDIDMethod(method string) Option {
	return func(opts *Agent) error {
		if method == "" {
			return errors.New("DID method is empty")
		}

		if strings.HasPrefix(method, "did:") {
			return fmt.Errorf("DID method %q must not start with did:", method)
		}

		opts.didMethod = method

		return nil
	}
}

// WithProver sets the prover.
func WithProver(p proof.Prover) Option {
	return func(opts *Agent) error {
		opts.prover = p

		return nil
	}
}

// WithOutboundOptions configures the delivery client.
func WithOutboundOptions(outboundOpts ...transport.OutboundHTTPOpt) Option {
	return func(opts *Agent) error {
		opts.outboundOpts = append(opts.outboundOpts, outboundOpts...)

		return nil
	}
}

// WithDeliveryRetries sets how many times a failed delivery is retried.
func WithDeliveryRetries(retries int) Option {
	return func(opts *Agent) error {
		if retries < 0 {
			return fmt.Errorf("invalid delivery retries %d", retries)
		}

		opts.sessionOpts = append(opts.sessionOpts, session.WithMaxRetries(retries))

		return nil
	}
}

// WithSessionOptions passes options to the session service.
func WithSessionOptions(sessionOpts ...session.Option) Option {
	return func(opts *Agent) error {
		opts.sessionOpts = append(opts.sessionOpts, sessionOpts...)

		return nil
	}
}

// WithPrometheusRegisterer registers the agent metrics.
func WithPrometheusRegisterer(reg prometheus.Registerer) Option {
	return func(opts *Agent) error {
		opts.registerer = reg

		return nil
	}
}

// StorageProvider returns the storage provider.
func (a *Agent) StorageProvider() storage.Provider {
	return a.storeProvider
}

// Wallet returns the wallet lifecycle.
func (a *Agent) Wallet() *wallet.Lifecycle {
	return a.lifecycle
}

// Credentials returns the credential store.
func (a *Agent) Credentials() *credential.Store {
	return a.credentials
}

// Sessions returns the session service.
func (a *Agent) Sessions() *session.Service {
	return a.sessions
}

// Close cancels the active session and closes the store.
func (a *Agent) Close() error {
	if err := a.sessions.Cancel(); err != nil && !errors.Is(err, session.ErrNoActiveSession) {
		return err
	}

	if err := a.storeProvider.Close(); err != nil {
		return fmt.Errorf("failed to close the store: %w", err)
	}

	return nil
}
