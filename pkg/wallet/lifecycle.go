/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package wallet manages the wallet identity: its key material, its DID and their lifecycle.
package wallet

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/kms"

	"github.com/ghostid/wallet-agent/pkg/didcomm/protocol/authorization"
	"github.com/ghostid/wallet-agent/pkg/store/namespace"
)

var logger = log.New("ghostid/wallet")

// Option configures a Lifecycle.
type Option func(l *Lifecycle)

// WithDIDMethod sets the DID method, including any network segments, e.g. "polygonid:polygon:mumbai".
func WithDIDMethod(method string) Option {
	return func(l *Lifecycle) {
		l.method = method
	}
}

// WithIdentityRepository overrides the repository the identity is persisted in.
func WithIdentityRepository(repo IdentityRepository) Option {
	return func(l *Lifecycle) {
		l.repo = repo
	}
}

// Lifecycle creates and destroys the wallet identity. Initialize and Reset never interleave.
type Lifecycle struct {
	mu        sync.Mutex
	namespace string
	method    string
	repo      IdentityRepository
	keys      *KeyStore
	identity  *Identity
}

// NewLifecycle returns a Lifecycle for the wallet stored in the given namespace.
func NewLifecycle(store *namespace.Store, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		namespace: store.Name(),
		method:    DefaultDIDMethod,
		repo:      NewIdentityRepository(store),
		keys:      NewKeyStore(store),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// KeyStore returns the key store holding the identity's private key.
func (l *Lifecycle) KeyStore() *KeyStore {
	return l.keys
}

// Initialize returns the existing identity, or creates and persists a new one.
func (l *Lifecycle) Initialize() (*Identity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	identity, err := l.load()
	if err == nil {
		return identity, nil
	}

	if !errors.Is(err, ErrIdentityNotFound) {
		return nil, err
	}

	keyID, pub, err := l.keys.Create()
	if err != nil {
		return nil, fmt.Errorf("initialize wallet: %w", err)
	}

	did, err := DeriveDID(l.method, l.namespace, pub)
	if err != nil {
		return nil, fmt.Errorf("initialize wallet: %w", err)
	}

	identity = &Identity{
		DID:       did,
		PublicKey: pub,
		KeyType:   kms.ED25519Type,
		KeyID:     keyID,
		CreatedAt: time.Now().UTC(),
	}

	if err := l.repo.Put(identity); err != nil {
		if delErr := l.keys.Delete(keyID); delErr != nil {
			logger.Warnf("failed to remove key %s of unsaved identity: %s", keyID, delErr)
		}

		return nil, fmt.Errorf("initialize wallet: %w", err)
	}

	l.identity = identity

	logger.Infof("wallet initialized with DID %s", did)

	return copyIdentity(identity), nil
}

// Identity returns the wallet identity, or an error of kind WalletNotInitialized.
func (l *Lifecycle) Identity() (*Identity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	identity, err := l.load()
	if errors.Is(err, ErrIdentityNotFound) {
		return nil, authorization.WrapError(authorization.KindWalletNotInitialized, err)
	}

	return identity, err
}

// Reset deletes every entry of the wallet namespace. On failure the stored state is left unchanged.
func (l *Lifecycle) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.repo.DeleteNamespace(); err != nil {
		return fmt.Errorf("reset wallet: %w", err)
	}

	l.identity = nil
	l.keys.forget()

	logger.Infof("wallet namespace %s reset", l.namespace)

	return nil
}

func (l *Lifecycle) load() (*Identity, error) {
	if l.identity == nil {
		identity, err := l.repo.Get()
		if err != nil {
			return nil, err
		}

		l.identity = identity
	}

	return copyIdentity(l.identity), nil
}

func copyIdentity(identity *Identity) *Identity {
	c := *identity
	c.PublicKey = append([]byte(nil), identity.PublicKey...)

	return &c
}
