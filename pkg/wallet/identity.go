/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package wallet

import (
	"fmt"
	"strings"
	"time"

	"github.com/hyperledger/aries-framework-go/spi/kms"
	"github.com/multiformats/go-multibase"
	"golang.org/x/crypto/blake2b"
)

const (
	// DefaultNamespace is the storage namespace used when none is configured.
	DefaultNamespace = "polygonid"
	// DefaultDIDMethod is the DID method (with network) used when none is configured.
	DefaultDIDMethod = "polygonid:polygon:mumbai"
)

// Identity is the wallet's identity. KeyID is a handle to the private key held by KeyStore.
type Identity struct {
	DID       string      `json:"did"`
	PublicKey []byte      `json:"publicKey"`
	KeyType   kms.KeyType `json:"keyType"`
	KeyID     string      `json:"keyId"`
	CreatedAt time.Time   `json:"createdAt"`
}

// DeriveDID computes the DID of a public key. The identifier is the base58btc multibase encoding of
// blake2b-256(namespace || 0x00 || publicKey), so equal keys in different namespaces never collide.
func DeriveDID(method, namespace string, publicKey []byte) (string, error) {
	if method == "" || strings.HasPrefix(method, "did:") {
		return "", fmt.Errorf("invalid DID method %q", method)
	}

	if len(publicKey) == 0 {
		return "", fmt.Errorf("empty public key")
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}

	h.Write([]byte(namespace)) //nolint:errcheck
	h.Write([]byte{0})         //nolint:errcheck
	h.Write(publicKey)         //nolint:errcheck

	id, err := multibase.Encode(multibase.Base58BTC, h.Sum(nil))
	if err != nil {
		return "", fmt.Errorf("encode DID identifier: %w", err)
	}

	return "did:" + method + ":" + id, nil
}
