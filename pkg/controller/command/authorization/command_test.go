/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package authorization

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/ghostid/wallet-agent/pkg/controller/command"
	authz "github.com/ghostid/wallet-agent/pkg/didcomm/protocol/authorization"
	transport "github.com/ghostid/wallet-agent/pkg/didcomm/transport/http"
	mocks "github.com/ghostid/wallet-agent/pkg/internal/gomocks/session"
	"github.com/ghostid/wallet-agent/pkg/session"
	"github.com/ghostid/wallet-agent/pkg/wallet"
)

const ageRequest = `{"id":"1","thid":"1","callbackUrl":"https://v.example/cb","from":"did:x:issuer",` +
	`"body":{"scope":[{"id":1,"type":"KYCAgeCredential","circuitId":"credentialAtomicQueryMTP",` +
	`"rules":{"age":{"$gte":18}}}]}}`

var holder = &wallet.Identity{DID: "did:polygonid:polygon:mumbai:zHolder", KeyID: "key-1"}

type mockProvider struct {
	sessions *session.Service
}

func (p *mockProvider) Sessions() *session.Service {
	return p.sessions
}

type fixture struct {
	identities *mocks.MockIdentityProvider
	engine     *mocks.MockProofEngine
	deliverer  *mocks.MockDeliverer
	sessions   *session.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		identities: mocks.NewMockIdentityProvider(ctrl),
		engine:     mocks.NewMockProofEngine(ctrl),
		deliverer:  mocks.NewMockDeliverer(ctrl),
	}

	f.sessions = session.New(f.identities, f.engine, f.deliverer,
		session.WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }))

	return f
}

func (f *fixture) command() *Command {
	return New(&mockProvider{sessions: f.sessions})
}

// blockProving makes the engine wait until the session is cancelled or release is closed.
func (f *fixture) blockProving() (proving, release chan struct{}) {
	proving, release = make(chan struct{}), make(chan struct{})

	f.engine.EXPECT().Prove(gomock.Any(), gomock.Any(), holder).
		DoAndReturn(func(ctx context.Context, _ *authz.AuthorizationRequest,
			_ *wallet.Identity) (*authz.VerificationResponse, error) {
			close(proving)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-release:
				return nil, authz.NewError(authz.KindProverFailure, "constraints not satisfied")
			}
		})

	return proving, release
}

func waitTerminal(t *testing.T, svc *session.Service) session.Status {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status, err := svc.Current().Wait(ctx)
	require.NoError(t, err)

	return status
}

func decodeStatus(t *testing.T, b *bytes.Buffer) StatusResponse {
	t.Helper()

	var response StatusResponse
	require.NoError(t, json.Unmarshal(b.Bytes(), &response))

	return response
}

func TestNew(t *testing.T) {
	cmd := newFixture(t).command()

	handlers := cmd.GetHandlers()
	require.Len(t, handlers, 4)

	methods := make([]string, 0, len(handlers))
	for _, h := range handlers {
		require.Equal(t, CommandName, h.Name())
		methods = append(methods, h.Method())
	}

	require.Equal(t, []string{ScanCommandMethod, StatusCommandMethod, CancelCommandMethod, DismissCommandMethod},
		methods)
}

func TestCommand_Scan(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)

		f.identities.EXPECT().Identity().Return(holder, nil)
		f.engine.EXPECT().Prove(gomock.Any(), gomock.Any(), holder).
			Return(&authz.VerificationResponse{ID: "r1", ThreadID: "1", FromDID: holder.DID}, nil)
		f.deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any(), "https://v.example/cb").
			Return(&transport.DeliveryResult{
				StatusCode:      http.StatusOK,
				Acknowledgement: map[string]interface{}{"status": "ok"},
			}, nil)

		cmd := f.command()

		var b bytes.Buffer
		require.Nil(t, cmd.Scan(&b, bytes.NewBufferString(`{"payload":`+jsonString(ageRequest)+`}`)))

		started := decodeStatus(t, &b)
		require.NotEmpty(t, started.SessionID)

		final := waitTerminal(t, f.sessions)
		require.Equal(t, session.StateSucceeded, final.State)

		var status bytes.Buffer
		require.Nil(t, cmd.Status(&status, nil))

		response := decodeStatus(t, &status)
		require.Equal(t, started.SessionID, response.SessionID)
		require.Equal(t, session.StateSucceeded, response.State)
		require.Equal(t, "1", response.RequestID)
		require.Equal(t, map[string]interface{}{"status": "ok"}, response.Acknowledgement)
	})

	t.Run("invalid request", func(t *testing.T) {
		cmd := newFixture(t).command()

		for _, req := range []string{`{"payload":`, `{}`, `{"payload":""}`} {
			var b bytes.Buffer
			cmdErr := cmd.Scan(&b, bytes.NewBufferString(req))
			require.NotNil(t, cmdErr, req)
			require.Equal(t, command.ValidationError, cmdErr.Type(), req)
			require.Equal(t, InvalidRequestErrorCode, cmdErr.Code(), req)
		}

		var b bytes.Buffer
		cmdErr := cmd.Scan(&b, nil)
		require.NotNil(t, cmdErr)
		require.Equal(t, command.ValidationError, cmdErr.Type())
		require.Contains(t, cmdErr.Error(), "request body is empty")

		cmdErr = cmd.Scan(&b, bytes.NewBufferString(""))
		require.NotNil(t, cmdErr)
		require.Contains(t, cmdErr.Error(), "request body is empty")
	})

	t.Run("wallet not initialized", func(t *testing.T) {
		f := newFixture(t)

		f.identities.EXPECT().Identity().
			Return(nil, authz.WrapError(authz.KindWalletNotInitialized, errors.New("identity not found")))

		var b bytes.Buffer
		cmdErr := f.command().Scan(&b, bytes.NewBufferString(`{"payload":`+jsonString(ageRequest)+`}`))
		require.NotNil(t, cmdErr)
		require.Equal(t, command.PreconditionError, cmdErr.Type())
		require.Equal(t, WalletNotInitializedErrorCode, cmdErr.Code())
	})

	t.Run("session busy", func(t *testing.T) {
		f := newFixture(t)

		f.identities.EXPECT().Identity().Return(holder, nil)
		proving, release := f.blockProving()

		cmd := f.command()

		var b bytes.Buffer
		require.Nil(t, cmd.Scan(&b, bytes.NewBufferString(`{"payload":`+jsonString(ageRequest)+`}`)))
		<-proving

		cmdErr := cmd.Scan(&b, bytes.NewBufferString(`{"payload":`+jsonString(ageRequest)+`}`))
		require.NotNil(t, cmdErr)
		require.Equal(t, command.ConflictError, cmdErr.Type())
		require.Equal(t, SessionBusyErrorCode, cmdErr.Code())

		cmdErr = cmd.Dismiss(&b, nil)
		require.NotNil(t, cmdErr)
		require.Equal(t, SessionBusyErrorCode, cmdErr.Code())

		close(release)

		final := waitTerminal(t, f.sessions)
		require.Equal(t, session.StateFailed, final.State)
		require.Equal(t, authz.KindProverFailure, final.ErrorKind)
	})
}

func TestCommand_Cancel(t *testing.T) {
	t.Run("no active session", func(t *testing.T) {
		var b bytes.Buffer
		cmdErr := newFixture(t).command().Cancel(&b, nil)
		require.NotNil(t, cmdErr)
		require.Equal(t, command.ConflictError, cmdErr.Type())
		require.Equal(t, CancelErrorCode, cmdErr.Code())
	})

	t.Run("cancel then dismiss", func(t *testing.T) {
		f := newFixture(t)

		f.identities.EXPECT().Identity().Return(holder, nil)
		proving, _ := f.blockProving()

		cmd := f.command()

		var b bytes.Buffer
		require.Nil(t, cmd.Scan(&b, bytes.NewBufferString(`{"payload":`+jsonString(ageRequest)+`}`)))
		<-proving

		b.Reset()
		require.Nil(t, cmd.Cancel(&b, nil))

		final := waitTerminal(t, f.sessions)
		require.Equal(t, session.StateCancelled, final.State)
		require.Equal(t, authz.KindCancelled, final.ErrorKind)

		b.Reset()
		require.Nil(t, cmd.Dismiss(&b, nil))
		require.Equal(t, session.StateIdle, decodeStatus(t, &b).State)

		b.Reset()
		require.Nil(t, cmd.Status(&b, nil))
		require.Equal(t, session.StateIdle, decodeStatus(t, &b).State)
	})
}

func TestSessionError(t *testing.T) {
	cmdErr := sessionError(errors.New("boom"), ScanErrorCode)
	require.Equal(t, command.ExecuteError, cmdErr.Type())
	require.Equal(t, ScanErrorCode, cmdErr.Code())
	require.EqualError(t, cmdErr, "boom")
}

func jsonString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}

	return string(b)
}
