/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package authorization

import "github.com/ghostid/wallet-agent/pkg/session"

// ScanRequest model
//
// This is used for starting an authorization session from a scanned QR payload.
//
// swagger:parameters scanReq
type ScanRequest struct {
	// Payload is the scanned text: raw JSON, a didcomm:// or iden3comm:// URI, or a link with c_i.
	Payload string `json:"payload"`
}

// StatusResponse model
//
// This is used for returning the status of the current authorization session.
//
// swagger:response statusRes
type StatusResponse struct {
	session.Status
}
