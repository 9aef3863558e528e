/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	mockstorage "github.com/hyperledger/aries-framework-go/component/storageutil/mock/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ghostid/wallet-agent/pkg/didcomm/protocol/authorization"
	transport "github.com/ghostid/wallet-agent/pkg/didcomm/transport/http"
	"github.com/ghostid/wallet-agent/pkg/session"
	"github.com/ghostid/wallet-agent/pkg/wallet"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		a, err := New()
		require.NoError(t, err)
		require.NotNil(t, a.StorageProvider())
		require.NotNil(t, a.Wallet())
		require.NotNil(t, a.Credentials())
		require.NotNil(t, a.Sessions())
		require.Equal(t, wallet.DefaultNamespace, a.namespace)
		require.Equal(t, transport.DefaultTimeout, a.outbound.Timeout())
		require.NoError(t, a.Close())
	})

	t.Run("options", func(t *testing.T) {
		reg := prometheus.NewRegistry()

		a, err := New(
			WithStoreProvider(mem.NewProvider()),
			WithNamespace("test"),
			WithDIDMethod("example"),
			WithOutboundOptions(transport.WithOutboundTimeout(time.Second)),
			WithDeliveryRetries(0),
			WithPrometheusRegisterer(reg),
		)
		require.NoError(t, err)
		require.Equal(t, time.Second, a.outbound.Timeout())

		identity, err := a.Wallet().Initialize()
		require.NoError(t, err)
		require.Regexp(t, "^did:example:z", identity.DID)

		_, err = New(WithPrometheusRegisterer(reg))
		require.NoError(t, err)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := New(WithNamespace(""))
		require.EqualError(t, err, "error in option passed to New: namespace is empty")

		_, err = New(WithDIDMethod("did:example"))
		require.Error(t, err)

		_, err = New(WithDIDMethod(""))
		require.Error(t, err)

		_, err = New(WithDeliveryRetries(-1))
		require.Error(t, err)
	})

	t.Run("store failure", func(t *testing.T) {
		_, err := New(WithStoreProvider(&mockstorage.MockStoreProvider{
			ErrOpenStoreHandle: errors.New("open"),
			Store:              &mockstorage.MockStore{Store: map[string]mockstorage.DBEntry{}},
		}))
		require.Error(t, err)
		require.Contains(t, err.Error(), "open wallet namespace")
	})
}

func TestAgent_AgeVerification(t *testing.T) {
	received := make(chan authorization.ResponseMessage, 1)

	verifier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg authorization.ResponseMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		received <- msg

		_, _ = fmt.Fprint(w, `{"status":"verified"}`) //nolint:errcheck
	}))
	defer verifier.Close()

	a, err := New()
	require.NoError(t, err)

	sess, err := a.Sessions().Scan(context.Background(), "{}")
	require.ErrorIs(t, err, authorization.ErrWalletNotInitialized)
	require.Equal(t, session.StateFailed, sess.State())
	require.NoError(t, a.Sessions().Dismiss())

	identity, err := a.Wallet().Initialize()
	require.NoError(t, err)

	_, err = a.Credentials().Save([]byte(`{"type":["VerifiableCredential","KYCAgeCredential"],` +
		`"issuer":"did:x:issuer","credentialSubject":{"age":25}}`))
	require.NoError(t, err)

	request := fmt.Sprintf(`{"id":"1","thid":"1","callbackUrl":%q,"from":"did:x:issuer","body":{"scope":`+
		`[{"id":1,"type":"KYCAgeCredential","circuitId":"credentialAtomicQueryMTP","rules":{"age":{"$gte":18}}}]}}`,
		verifier.URL)

	sess, err = a.Sessions().Scan(context.Background(), request)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	status, err := sess.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, session.StateSucceeded, status.State, status.LastError)
	require.Equal(t, "verified", status.Acknowledgement["status"])

	msg := <-received
	require.Equal(t, "response-1", msg.ID)
	require.Equal(t, "1", msg.ThreadID)
	require.Equal(t, identity.DID, msg.From)
	require.Equal(t, "did:x:issuer", msg.To)
	require.Len(t, msg.Body.Scope, 1)
	require.Equal(t, 1, msg.Body.Scope[0].ID)
	require.NotEmpty(t, msg.Body.Scope[0].Proof.A)

	require.NoError(t, a.Close())
}
