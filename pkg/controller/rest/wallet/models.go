/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package wallet

import (
	"github.com/ghostid/wallet-agent/pkg/controller/command/wallet"
)

// identityResponse model
//
// swagger:response identityRes
type identityResponse struct { // nolint: unused,deadcode
	// in: body
	wallet.IdentityResponse
}

// saveCredentialRequest model
//
// swagger:parameters saveCredentialReq
type saveCredentialRequest struct { // nolint: unused,deadcode
	// in: body
	Params wallet.SaveCredentialRequest
}

// credentialsResponse model
//
// swagger:response credentialsRes
type credentialsResponse struct { // nolint: unused,deadcode
	// in: body
	wallet.CredentialsResponse
}
