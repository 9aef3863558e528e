/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/spi/kms"
	"golang.org/x/crypto/blake2b"

	"github.com/ghostid/wallet-agent/pkg/store/namespace"
)

const walletKey = "wallet"

// ErrKeyNotFound is returned when KeyStore does not hold the requested key.
var ErrKeyNotFound = errors.New("key not found")

type keyRecord struct {
	KeyID   string      `json:"keyId"`
	KeyType kms.KeyType `json:"keyType"`
	Seed    []byte      `json:"seed"`
}

// KeyStore owns the wallet's private key. Callers address the key by its ID and never see the private
// key itself.
type KeyStore struct {
	store *namespace.Store
	rand  io.Reader

	mu  sync.RWMutex
	rec *keyRecord
}

// NewKeyStore creates a KeyStore persisting into the given namespace.
func NewKeyStore(store *namespace.Store) *KeyStore {
	return &KeyStore{store: store, rand: rand.Reader}
}

// Create generates a new Ed25519 key, replacing any key the store holds, and returns its ID and public key.
func (k *KeyStore) Create() (string, []byte, error) {
	seed := make([]byte, ed25519.SeedSize)

	if _, err := io.ReadFull(k.rand, seed); err != nil {
		return "", nil, fmt.Errorf("generate key: %w", err)
	}

	rec := &keyRecord{KeyID: uuid.NewString(), KeyType: kms.ED25519Type, Seed: seed}

	raw, err := json.Marshal(rec)
	if err != nil {
		return "", nil, fmt.Errorf("marshal key: %w", err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.store.Put(walletKey, raw); err != nil {
		return "", nil, fmt.Errorf("store key: %w", err)
	}

	k.rec = rec

	return rec.KeyID, ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey), nil
}

// Delete removes keyID from the store.
func (k *KeyStore) Delete(keyID string) error {
	if _, err := k.record(keyID); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.store.Delete(walletKey); err != nil {
		return fmt.Errorf("delete key: %w", err)
	}

	k.rec = nil

	return nil
}

// PublicKey returns the public key of keyID.
func (k *KeyStore) PublicKey(keyID string) ([]byte, error) {
	rec, err := k.record(keyID)
	if err != nil {
		return nil, err
	}

	return ed25519.NewKeyFromSeed(rec.Seed).Public().(ed25519.PublicKey), nil
}

// Sign signs msg with keyID.
func (k *KeyStore) Sign(keyID string, msg []byte) ([]byte, error) {
	rec, err := k.record(keyID)
	if err != nil {
		return nil, err
	}

	return ed25519.Sign(ed25519.NewKeyFromSeed(rec.Seed), msg), nil
}

// DeriveSecret returns a 32 byte secret bound to keyID and info, computed as keyed blake2b-256 over info.
func (k *KeyStore) DeriveSecret(keyID string, info []byte) ([]byte, error) {
	rec, err := k.record(keyID)
	if err != nil {
		return nil, err
	}

	h, err := blake2b.New256(rec.Seed)
	if err != nil {
		return nil, err
	}

	h.Write(info) //nolint:errcheck

	return h.Sum(nil), nil
}

// forget drops the cached key after the namespace has been deleted.
func (k *KeyStore) forget() {
	k.mu.Lock()
	k.rec = nil
	k.mu.Unlock()
}

func (k *KeyStore) record(keyID string) (*keyRecord, error) {
	k.mu.RLock()
	rec := k.rec
	k.mu.RUnlock()

	if rec == nil {
		raw, err := k.store.Get(walletKey)
		if errors.Is(err, namespace.ErrDataNotFound) {
			return nil, ErrKeyNotFound
		}

		if err != nil {
			return nil, fmt.Errorf("load key: %w", err)
		}

		rec = &keyRecord{}
		if err := json.Unmarshal(raw, rec); err != nil {
			return nil, fmt.Errorf("unmarshal key: %w", err)
		}

		k.mu.Lock()
		k.rec = rec
		k.mu.Unlock()
	}

	if rec.KeyID != keyID {
		return nil, ErrKeyNotFound
	}

	return rec, nil
}
