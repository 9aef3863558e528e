/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hyperledger/aries-framework-go/spi/log"
)

var errNoRequest = errors.New("request body is empty")

// DecodeRequest decodes the JSON request of a wallet or authorization command into v.
func DecodeRequest(req io.Reader, v interface{}) error {
	if req == nil {
		return fmt.Errorf("request decode : %w", errNoRequest)
	}

	if err := json.NewDecoder(req).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			err = errNoRequest
		}

		return fmt.Errorf("request decode : %w", err)
	}

	return nil
}

// WriteNillableResponse encodes v as the command response. Commands without a result, such as wallet reset
// or session cancel, pass nil and answer with an empty object.
func WriteNillableResponse(w io.Writer, v interface{}, l log.Logger) {
	if v == nil {
		v = struct{}{}
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		l.Errorf("failed to write command response: %s", err)
	}
}
