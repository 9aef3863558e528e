/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package authorization

import (
	"github.com/ghostid/wallet-agent/pkg/controller/command/authorization"
)

// scanRequest model
//
// This is used for starting an authorization session.
//
// swagger:parameters scanReq
type scanRequest struct { // nolint: unused,deadcode
	// in: body
	Params authorization.ScanRequest
}

// statusResponse model
//
// Status of the current authorization session.
//
// swagger:response statusRes
type statusResponse struct { // nolint: unused,deadcode
	// in: body
	authorization.StatusResponse
}
