/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ghostid/wallet-agent/pkg/didcomm/protocol/authorization"
)

func sampleResponse() *authorization.VerificationResponse {
	return &authorization.VerificationResponse{
		ID:       "response-1",
		ThreadID: "1",
		FromDID:  "did:polygonid:polygon:mumbai:zHolder",
		ToDID:    "did:x:issuer",
		Body: []authorization.ProofArtifact{{
			ScopeID:        1,
			CircuitID:      "credentialAtomicQueryMTP",
			CredentialType: "KYCAgeCredential",
			Proof:          &authorization.Proof{A: []string{"1"}, Protocol: "groth16"},
			PubSignals:     []string{"18"},
		}},
	}
}

func TestWithOutboundOpts(t *testing.T) {
	clOpts := &outboundCommHTTPOpts{timeout: DefaultTimeout}

	WithOutboundTimeout(0)(clOpts)
	require.Equal(t, DefaultTimeout, clOpts.timeout)

	WithOutboundTimeout(time.Second)(clOpts)
	require.Equal(t, time.Second, clOpts.timeout)

	WithOutboundHTTPClient(http.DefaultClient)(clOpts)
	require.Equal(t, http.DefaultClient, clOpts.client)

	WithOutboundTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})(clOpts)
	require.NotEqual(t, http.DefaultClient, clOpts.client)
}

func TestNewOutbound(t *testing.T) {
	ot, err := NewOutbound()
	require.NoError(t, err)
	require.NotNil(t, ot.client)
	require.Equal(t, 30*time.Second, ot.Timeout())
}

func TestOutboundHTTPClient_Deliver(t *testing.T) {
	t.Run("accepted with acknowledgement", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			msg := &authorization.ResponseMessage{}
			require.NoError(t, json.Unmarshal(body, msg))
			require.Equal(t, "response-1", msg.ID)
			require.Equal(t, "1", msg.ThreadID)
			require.Equal(t, authorization.MediaTypePlainMessage, msg.Typ)
			require.Equal(t, authorization.ResponseMsgType, msg.Type)
			require.Equal(t, 1, msg.Body.Scope[0].ID)

			w.WriteHeader(http.StatusAccepted)
			_, err = w.Write([]byte(`{"status":"ok"}`))
			require.NoError(t, err)
		}))
		defer srv.Close()

		ot, err := NewOutbound()
		require.NoError(t, err)

		res, err := ot.Deliver(context.Background(), sampleResponse(), srv.URL)
		require.NoError(t, err)
		require.Equal(t, http.StatusAccepted, res.StatusCode)
		require.Equal(t, "ok", res.Acknowledgement["status"])
	})

	t.Run("empty body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
		defer srv.Close()

		ot, err := NewOutbound()
		require.NoError(t, err)

		res, err := ot.Deliver(context.Background(), sampleResponse(), srv.URL)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)
		require.Nil(t, res.Acknowledgement)
		require.Empty(t, res.Raw)
	})

	t.Run("non-json body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("thanks")) //nolint:errcheck
		}))
		defer srv.Close()

		ot, err := NewOutbound()
		require.NoError(t, err)

		res, err := ot.Deliver(context.Background(), sampleResponse(), srv.URL)
		require.NoError(t, err)
		require.Nil(t, res.Acknowledgement)
		require.Equal(t, "thanks", string(res.Raw))
	})

	t.Run("rejected by verifier", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "proof invalid", http.StatusBadRequest)
		}))
		defer srv.Close()

		ot, err := NewOutbound()
		require.NoError(t, err)

		_, err = ot.Deliver(context.Background(), sampleResponse(), srv.URL)
		require.ErrorIs(t, err, authorization.ErrRejectedByVerifier)
		require.Contains(t, err.Error(), "proof invalid")

		var authErr *authorization.Error
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, http.StatusBadRequest, authErr.StatusCode)
		require.False(t, authorization.IsRetryable(err))
	})

	t.Run("verifier unavailable is retryable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		ot, err := NewOutbound()
		require.NoError(t, err)

		_, err = ot.Deliver(context.Background(), sampleResponse(), srv.URL)
		require.ErrorIs(t, err, authorization.ErrRejectedByVerifier)
		require.True(t, authorization.IsRetryable(err))
	})

	t.Run("network unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
		url := srv.URL
		srv.Close()

		ot, err := NewOutbound()
		require.NoError(t, err)

		_, err = ot.Deliver(context.Background(), sampleResponse(), url)
		require.ErrorIs(t, err, authorization.ErrNetworkUnavailable)
	})

	t.Run("verifier never responds", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		ot, err := NewOutbound(WithOutboundTimeout(50 * time.Millisecond))
		require.NoError(t, err)

		start := time.Now()
		_, err = ot.Deliver(context.Background(), sampleResponse(), srv.URL)
		require.ErrorIs(t, err, authorization.ErrDeliveryTimeout)
		require.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("cancelled by caller", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		ot, err := NewOutbound()
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)

		_, err = ot.Deliver(ctx, sampleResponse(), srv.URL)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid callback url", func(t *testing.T) {
		ot, err := NewOutbound()
		require.NoError(t, err)

		_, err = ot.Deliver(context.Background(), sampleResponse(), "http://[::1")
		require.ErrorIs(t, err, authorization.ErrMalformedPayload)
	})
}
