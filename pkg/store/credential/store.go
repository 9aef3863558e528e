/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package credential stores the wallet's credentials inside the wallet namespace.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"

	"github.com/ghostid/wallet-agent/pkg/store/namespace"
)

const keyPrefix = "credentials:"

// ErrNotFound is returned when no credential matches.
var ErrNotFound = errors.New("credential not found")

// Credential is a stored credential. Document keeps the full JSON document for predicate lookups.
type Credential struct {
	ID           string                 `json:"id" mapstructure:"id"`
	Types        []string               `json:"type" mapstructure:"type"`
	Issuer       string                 `json:"issuer,omitempty" mapstructure:"-"`
	IssuanceDate string                 `json:"issuanceDate,omitempty" mapstructure:"issuanceDate"`
	Subject      map[string]interface{} `json:"credentialSubject" mapstructure:"credentialSubject"`
	Document     map[string]interface{} `json:"-" mapstructure:"-"`
	AddedAt      time.Time              `json:"addedAt" mapstructure:"-"`
}

type record struct {
	AddedAt  time.Time              `json:"addedAt"`
	Document map[string]interface{} `json:"document"`
}

// Store stores credentials.
type Store struct {
	store *namespace.Store
	now   func() time.Time
}

// New returns a credential store over the given namespace.
func New(store *namespace.Store) *Store {
	return &Store{store: store, now: time.Now}
}

// Save decodes and stores a JSON credential document. A document without an id gets a urn:uuid id.
func (s *Store) Save(raw []byte) (*Credential, error) {
	var doc map[string]interface{}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal credential: %w", err)
	}

	if doc == nil {
		return nil, fmt.Errorf("credential must be a JSON object")
	}

	if _, ok := doc["id"]; !ok {
		doc["id"] = "urn:uuid:" + uuid.NewString()
	}

	rec := &record{AddedAt: s.now().UTC(), Document: doc}

	c, err := decode(rec)
	if err != nil {
		return nil, err
	}

	if len(c.Types) == 0 {
		return nil, errors.New("credential has no type")
	}

	value, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal credential: %w", err)
	}

	tags := lo.Map(c.Types, func(t string, _ int) storage.Tag {
		return storage.Tag{Name: namespace.CredentialTypeTag, Value: tagValue(t)}
	})

	if err := s.store.Put(keyPrefix+c.ID, value, tags...); err != nil {
		return nil, fmt.Errorf("put credential: %w", err)
	}

	return c, nil
}

// Get returns the credential with the given id.
func (s *Store) Get(id string) (*Credential, error) {
	value, err := s.store.Get(keyPrefix + id)
	if errors.Is(err, namespace.ErrDataNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}

	return unmarshal(value)
}

// FindByType returns the first stored credential of the given type. Credentials are ordered by the time
// they were added, oldest first.
func (s *Store) FindByType(credentialType string) (*Credential, error) {
	entries, err := s.store.Query(namespace.CredentialTypeTag, tagValue(credentialType))
	if err != nil {
		return nil, err
	}

	credentials, err := s.decodeAll(entries)
	if err != nil {
		return nil, err
	}

	if len(credentials) == 0 {
		return nil, ErrNotFound
	}

	return credentials[0], nil
}

// List returns all stored credentials, oldest first.
func (s *Store) List() ([]*Credential, error) {
	entries, err := s.store.Query(namespace.Tag, s.store.Name())
	if err != nil {
		return nil, err
	}

	prefix := s.store.Key(keyPrefix)

	return s.decodeAll(lo.Filter(entries, func(e namespace.Entry, _ int) bool {
		return strings.HasPrefix(e.Key, prefix)
	}))
}

func (s *Store) decodeAll(entries []namespace.Entry) ([]*Credential, error) {
	credentials := make([]*Credential, 0, len(entries))

	for _, e := range entries {
		c, err := unmarshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Key, err)
		}

		credentials = append(credentials, c)
	}

	sort.SliceStable(credentials, func(i, j int) bool {
		if credentials[i].AddedAt.Equal(credentials[j].AddedAt) {
			return credentials[i].ID < credentials[j].ID
		}

		return credentials[i].AddedAt.Before(credentials[j].AddedAt)
	})

	return credentials, nil
}

func unmarshal(value []byte) (*Credential, error) {
	rec := &record{}
	if err := json.Unmarshal(value, rec); err != nil {
		return nil, fmt.Errorf("unmarshal credential: %w", err)
	}

	return decode(rec)
}

func decode(rec *record) (*Credential, error) {
	c := &Credential{Document: rec.Document, AddedAt: rec.AddedAt}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           c,
	})
	if err != nil {
		return nil, err
	}

	if err := dec.Decode(rec.Document); err != nil {
		return nil, fmt.Errorf("decode credential: %w", err)
	}

	switch issuer := rec.Document["issuer"].(type) {
	case string:
		c.Issuer = issuer
	case map[string]interface{}:
		c.Issuer, _ = issuer["id"].(string) //nolint:errcheck
	}

	return c, nil
}

// tagValue escapes ':' which storage tag values may not contain.
func tagValue(credentialType string) string {
	return strings.ReplaceAll(credentialType, ":", "%3A")
}
