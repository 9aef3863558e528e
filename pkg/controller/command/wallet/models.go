/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package wallet

import (
	"encoding/json"

	"github.com/ghostid/wallet-agent/pkg/store/credential"
	walletpkg "github.com/ghostid/wallet-agent/pkg/wallet"
)

// IdentityResponse model
//
// This is used for returning the wallet identity.
//
// swagger:response identityRes
type IdentityResponse struct {
	*walletpkg.Identity
}

// SaveCredentialRequest model
//
// This is used for storing a credential in the wallet.
//
// swagger:parameters saveCredentialReq
type SaveCredentialRequest struct {
	// Credential is the JSON credential document.
	Credential json.RawMessage `json:"credential"`
}

// CredentialResponse model
//
// swagger:response credentialRes
type CredentialResponse struct {
	Credential *credential.Credential `json:"credential"`
}

// CredentialsResponse model
//
// This is used for returning all stored credentials, oldest first.
//
// swagger:response credentialsRes
type CredentialsResponse struct {
	Credentials []*credential.Credential `json:"credentials"`
}
