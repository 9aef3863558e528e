/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package wallet

import (
	"io"
	"net/http"

	"github.com/ghostid/wallet-agent/pkg/controller/command"
	cmdwallet "github.com/ghostid/wallet-agent/pkg/controller/command/wallet"
	"github.com/ghostid/wallet-agent/pkg/controller/internal/cmdutil"
	"github.com/ghostid/wallet-agent/pkg/controller/rest"
	"github.com/ghostid/wallet-agent/pkg/session"
	"github.com/ghostid/wallet-agent/pkg/store/credential"
	walletpkg "github.com/ghostid/wallet-agent/pkg/wallet"
)

// constants for wallet operations.
const (
	OperationID     = "/wallet"
	InitializePath  = OperationID + "/initialize"
	ResetPath       = OperationID + "/reset"
	IdentityPath    = OperationID + "/identity"
	CredentialsPath = OperationID + "/credentials"
)

// provider contains dependencies for the wallet command and is typically the agent.
type provider interface {
	Wallet() *walletpkg.Lifecycle
	Credentials() *credential.Store
	Sessions() *session.Service
}

type walletCommand interface {
	Initialize(rw io.Writer, req io.Reader) command.Error
	Reset(rw io.Writer, req io.Reader) command.Error
	Identity(rw io.Writer, req io.Reader) command.Error
	SaveCredential(rw io.Writer, req io.Reader) command.Error
	GetCredentials(rw io.Writer, req io.Reader) command.Error
}

// Operation contains wallet operations provided by controller REST API.
type Operation struct {
	handlers []rest.Handler
	command  walletCommand
}

// New returns new wallet operations rest client instance.
func New(p provider) *Operation {
	o := &Operation{command: cmdwallet.New(p)}
	o.registerHandler()

	return o
}

// GetRESTHandlers get all controller API handler available for this service.
func (o *Operation) GetRESTHandlers() []rest.Handler {
	return o.handlers
}

// registerHandler register handlers to be exposed from this protocol service as REST API endpoints.
func (o *Operation) registerHandler() {
	o.handlers = []rest.Handler{
		cmdutil.NewHTTPHandler(InitializePath, http.MethodPost, o.Initialize),
		cmdutil.NewHTTPHandler(ResetPath, http.MethodPost, o.Reset),
		cmdutil.NewHTTPHandler(IdentityPath, http.MethodGet, o.Identity),
		cmdutil.NewHTTPHandler(CredentialsPath, http.MethodPost, o.SaveCredential),
		cmdutil.NewHTTPHandler(CredentialsPath, http.MethodGet, o.GetCredentials),
	}
}

// Initialize swagger:route POST /wallet/initialize wallet initialize
//
// Creates the wallet identity, or returns the existing one.
//
// Responses:
//    default: genericError
//        200: identityRes
func (o *Operation) Initialize(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.Initialize, rw, req.Body)
}

// Reset swagger:route POST /wallet/reset wallet reset
//
// Deletes the identity, keys and credentials of the wallet.
//
// Responses:
//    default: genericError
func (o *Operation) Reset(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.Reset, rw, req.Body)
}

// Identity swagger:route GET /wallet/identity wallet identity
//
// Returns the wallet identity.
//
// Responses:
//    default: genericError
//        200: identityRes
func (o *Operation) Identity(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.Identity, rw, req.Body)
}

// SaveCredential swagger:route POST /wallet/credentials wallet saveCredentialReq
//
// Stores a credential.
//
// Responses:
//    default: genericError
func (o *Operation) SaveCredential(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.SaveCredential, rw, req.Body)
}

// GetCredentials swagger:route GET /wallet/credentials wallet getCredentials
//
// Lists stored credentials, oldest first.
//
// Responses:
//    default: genericError
//        200: credentialsRes
func (o *Operation) GetCredentials(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.GetCredentials, rw, req.Body)
}
