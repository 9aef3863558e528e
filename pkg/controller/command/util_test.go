/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package command

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestDecodeRequest(t *testing.T) {
	var v struct {
		Payload string `json:"payload"`
	}

	require.NoError(t, DecodeRequest(bytes.NewBufferString(`{"payload":"didcomm://x"}`), &v))
	require.Equal(t, "didcomm://x", v.Payload)

	require.ErrorIs(t, DecodeRequest(nil, &v), errNoRequest)
	require.ErrorIs(t, DecodeRequest(bytes.NewBufferString(""), &v), errNoRequest)
	require.ErrorContains(t, DecodeRequest(bytes.NewBufferString(`{"payload":`), &v), "request decode")
}

func TestWriteNillableResponse(t *testing.T) {
	logger := log.New("ghostid/command/test")

	var b bytes.Buffer
	WriteNillableResponse(&b, nil, logger)
	require.Equal(t, "{}\n", b.String())

	b.Reset()
	WriteNillableResponse(&b, map[string]string{"state": "idle"}, logger)
	require.JSONEq(t, `{"state":"idle"}`, b.String())

	require.NotPanics(t, func() {
		WriteNillableResponse(failingWriter{}, nil, logger)
	})
}
