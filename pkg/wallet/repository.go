/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package wallet

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ghostid/wallet-agent/pkg/store/namespace"
)

const identityKey = "identity"

// ErrIdentityNotFound is returned by IdentityRepository.Get when no identity is stored.
var ErrIdentityNotFound = errors.New("identity not found")

// IdentityRepository persists the wallet Identity.
type IdentityRepository interface {
	Get() (*Identity, error)
	Put(identity *Identity) error
	// DeleteNamespace removes the identity together with every other entry of the wallet namespace.
	DeleteNamespace() error
}

type identityRepository struct {
	store *namespace.Store
}

// NewIdentityRepository returns an IdentityRepository backed by the given namespace.
func NewIdentityRepository(store *namespace.Store) IdentityRepository {
	return &identityRepository{store: store}
}

func (r *identityRepository) Get() (*Identity, error) {
	raw, err := r.store.Get(identityKey)
	if errors.Is(err, namespace.ErrDataNotFound) {
		return nil, ErrIdentityNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}

	identity := &Identity{}
	if err := json.Unmarshal(raw, identity); err != nil {
		return nil, fmt.Errorf("unmarshal identity: %w", err)
	}

	return identity, nil
}

func (r *identityRepository) Put(identity *Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	if err := r.store.Put(identityKey, raw); err != nil {
		return fmt.Errorf("put identity: %w", err)
	}

	return nil
}

func (r *identityRepository) DeleteNamespace() error {
	return r.store.DeleteAll()
}
