/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package namespace scopes a storage.Store to a wallet namespace. Every entry is stored under
// "<namespace>:<name>" and tagged with the namespace so the whole region can be enumerated and removed.
package namespace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"
)

const (
	// StoreName is the storage database shared by all wallet namespaces.
	StoreName = "ghostid"
	// Tag is the tag name carrying the namespace of an entry.
	Tag = "namespace"
	// CredentialTypeTag is the tag name credentials are indexed by.
	CredentialTypeTag = "credentialType"

	separator = ":"
)

var logger = log.New("ghostid/store/namespace")

// ErrDataNotFound is returned when an entry is not present in the namespace.
var ErrDataNotFound = storage.ErrDataNotFound

type provider interface {
	StorageProvider() storage.Provider
}

// Store is a namespaced view over a storage.Store.
type Store struct {
	store storage.Store
	name  string
}

// Entry is a stored key/value pair with its tags.
type Entry struct {
	Key   string
	Value []byte
	Tags  []storage.Tag
}

// Open opens the shared wallet database and scopes it to the given namespace.
func Open(ctx provider, name string) (*Store, error) {
	if name == "" || strings.Contains(name, separator) {
		return nil, fmt.Errorf("invalid namespace %q", name)
	}

	store, err := ctx.StorageProvider().OpenStore(StoreName)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet store: %w", err)
	}

	err = ctx.StorageProvider().SetStoreConfig(StoreName,
		storage.StoreConfiguration{TagNames: []string{Tag, CredentialTypeTag}})
	if err != nil {
		return nil, fmt.Errorf("failed to set wallet store config: %w", err)
	}

	return &Store{store: store, name: name}, nil
}

// Name returns the namespace.
func (s *Store) Name() string {
	return s.name
}

// Key returns the fully qualified storage key of name.
func (s *Store) Key(name string) string {
	return s.name + separator + name
}

// Put stores value under name, tagged with the namespace and any extra tags.
func (s *Store) Put(name string, value []byte, tags ...storage.Tag) error {
	tags = append([]storage.Tag{{Name: Tag, Value: s.name}}, tags...)

	return s.store.Put(s.Key(name), value, tags...)
}

// Get fetches the value stored under name.
func (s *Store) Get(name string) ([]byte, error) {
	return s.store.Get(s.Key(name))
}

// Delete removes the value stored under name.
func (s *Store) Delete(name string) error {
	return s.store.Delete(s.Key(name))
}

// Query returns the entries of this namespace carrying the given tag.
func (s *Store) Query(tagName, tagValue string) ([]Entry, error) {
	iter, err := s.store.Query(tagName + separator + tagValue)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", tagName, err)
	}

	defer storage.Close(iter, logger)

	prefix := s.name + separator

	var entries []Entry

	for {
		ok, err := iter.Next()
		if err != nil {
			return nil, fmt.Errorf("iterate %s: %w", tagName, err)
		}

		if !ok {
			return entries, nil
		}

		key, err := iter.Key()
		if err != nil {
			return nil, err
		}

		if !strings.HasPrefix(key, prefix) {
			continue
		}

		value, err := iter.Value()
		if err != nil {
			return nil, err
		}

		tags, err := iter.Tags()
		if err != nil {
			return nil, err
		}

		entries = append(entries, Entry{Key: key, Value: value, Tags: tags})
	}
}

// DeleteAll removes every entry of the namespace in a single batch. If the batch fails, the entries are
// written back so the namespace is either fully removed or left as it was.
func (s *Store) DeleteAll() error {
	entries, err := s.Query(Tag, s.name)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return nil
	}

	deletes := make([]storage.Operation, len(entries))
	restores := make([]storage.Operation, len(entries))

	for i, e := range entries {
		deletes[i] = storage.Operation{Key: e.Key}
		restores[i] = storage.Operation{Key: e.Key, Value: e.Value, Tags: e.Tags}
	}

	err = s.store.Batch(deletes)
	if err == nil {
		logger.Debugf("deleted %d entries of namespace %s", len(entries), s.name)

		return nil
	}

	if restoreErr := s.store.Batch(restores); restoreErr != nil {
		return errors.Join(fmt.Errorf("delete namespace %s: %w", s.name, err),
			fmt.Errorf("restore namespace %s: %w", s.name, restoreErr))
	}

	return fmt.Errorf("delete namespace %s: %w", s.name, err)
}
