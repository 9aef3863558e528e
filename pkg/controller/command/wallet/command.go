/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/tidwall/gjson"

	"github.com/ghostid/wallet-agent/pkg/controller/command"
	"github.com/ghostid/wallet-agent/pkg/controller/internal/cmdutil"
	"github.com/ghostid/wallet-agent/pkg/didcomm/protocol/authorization"
	"github.com/ghostid/wallet-agent/pkg/internal/logutil"
	"github.com/ghostid/wallet-agent/pkg/session"
	"github.com/ghostid/wallet-agent/pkg/store/credential"
	walletpkg "github.com/ghostid/wallet-agent/pkg/wallet"
)

var logger = log.New("ghostid/command/wallet")

// Error codes.
const (
	// InvalidRequestErrorCode is typically a code for invalid requests.
	InvalidRequestErrorCode = command.Code(iota + command.Wallet)

	// InitializeErrorCode for errors creating the identity.
	InitializeErrorCode

	// ResetErrorCode for errors resetting the wallet.
	ResetErrorCode

	// IdentityErrorCode for errors reading the identity.
	IdentityErrorCode

	// WalletNotInitializedErrorCode when the wallet has no identity.
	WalletNotInitializedErrorCode

	// SaveCredentialErrorCode for errors storing a credential.
	SaveCredentialErrorCode

	// GetCredentialsErrorCode for errors listing credentials.
	GetCredentialsErrorCode

	// SessionBusyErrorCode when a reset is attempted during an authorization session.
	SessionBusyErrorCode
)

const (
	// CommandName is the name of the wallet command.
	CommandName = "wallet"

	// command methods.
	InitializeCommandMethod     = "Initialize"
	ResetCommandMethod          = "Reset"
	IdentityCommandMethod       = "Identity"
	SaveCredentialCommandMethod = "SaveCredential"
	GetCredentialsCommandMethod = "GetCredentials"

	// log constants.
	didString          = "did"
	credentialIDString = "credentialID"
)

// provider contains dependencies for the wallet command.
type provider interface {
	Wallet() *walletpkg.Lifecycle
	Credentials() *credential.Store
	Sessions() *session.Service
}

// Command contains command operations provided by the wallet controller.
type Command struct {
	lifecycle   *walletpkg.Lifecycle
	credentials *credential.Store
	sessions    *session.Service
}

// New returns new wallet controller command instance.
func New(p provider) *Command {
	return &Command{
		lifecycle:   p.Wallet(),
		credentials: p.Credentials(),
		sessions:    p.Sessions(),
	}
}

// GetHandlers returns list of all commands supported by this controller command.
func (c *Command) GetHandlers() []command.Handler {
	return []command.Handler{
		cmdutil.NewCommandHandler(CommandName, InitializeCommandMethod, c.Initialize),
		cmdutil.NewCommandHandler(CommandName, ResetCommandMethod, c.Reset),
		cmdutil.NewCommandHandler(CommandName, IdentityCommandMethod, c.Identity),
		cmdutil.NewCommandHandler(CommandName, SaveCredentialCommandMethod, c.SaveCredential),
		cmdutil.NewCommandHandler(CommandName, GetCredentialsCommandMethod, c.GetCredentials),
	}
}

// Initialize creates the wallet identity, or returns the existing one.
func (c *Command) Initialize(rw io.Writer, _ io.Reader) command.Error {
	identity, err := c.lifecycle.Initialize()
	if err != nil {
		logutil.LogError(logger, CommandName, InitializeCommandMethod, err.Error())

		return command.NewExecuteError(InitializeErrorCode, err)
	}

	command.WriteNillableResponse(rw, &IdentityResponse{Identity: identity}, logger)

	logutil.LogInfo(logger, CommandName, InitializeCommandMethod, "success",
		logutil.CreateKeyValueString(didString, identity.DID))

	return nil
}

// Reset deletes the wallet identity, keys and credentials. It is refused while a session is active.
func (c *Command) Reset(rw io.Writer, _ io.Reader) command.Error {
	err := c.sessions.WithIdle(c.lifecycle.Reset)
	if authorization.KindOf(err) == authorization.KindSessionBusy {
		err = fmt.Errorf("cannot reset wallet: %w", err)

		logutil.LogInfo(logger, CommandName, ResetCommandMethod, err.Error())

		return command.NewConflictError(SessionBusyErrorCode, err)
	}

	if err != nil {
		logutil.LogError(logger, CommandName, ResetCommandMethod, err.Error())

		return command.NewExecuteError(ResetErrorCode, err)
	}

	command.WriteNillableResponse(rw, nil, logger)

	logutil.LogInfo(logger, CommandName, ResetCommandMethod, "success")

	return nil
}

// Identity returns the wallet identity.
func (c *Command) Identity(rw io.Writer, _ io.Reader) command.Error {
	identity, err := c.lifecycle.Identity()
	if err != nil {
		logutil.LogDebug(logger, CommandName, IdentityCommandMethod, err.Error())

		if authorization.KindOf(err) == authorization.KindWalletNotInitialized {
			return command.NewPreconditionError(WalletNotInitializedErrorCode, err)
		}

		return command.NewExecuteError(IdentityErrorCode, err)
	}

	command.WriteNillableResponse(rw, &IdentityResponse{Identity: identity}, logger)

	return nil
}

// SaveCredential stores a credential document.
func (c *Command) SaveCredential(rw io.Writer, req io.Reader) command.Error {
	var request SaveCredentialRequest

	if err := command.DecodeRequest(req, &request); err != nil {
		logutil.LogInfo(logger, CommandName, SaveCredentialCommandMethod, err.Error())

		return command.NewValidationError(InvalidRequestErrorCode, err)
	}

	if err := validateCredential(request.Credential); err != nil {
		logutil.LogInfo(logger, CommandName, SaveCredentialCommandMethod, err.Error())

		return command.NewValidationError(InvalidRequestErrorCode, err)
	}

	cred, err := c.credentials.Save(request.Credential)
	if err != nil {
		logutil.LogError(logger, CommandName, SaveCredentialCommandMethod, err.Error())

		return command.NewExecuteError(SaveCredentialErrorCode, err)
	}

	command.WriteNillableResponse(rw, &CredentialResponse{Credential: cred}, logger)

	logutil.LogDebug(logger, CommandName, SaveCredentialCommandMethod, "success",
		logutil.CreateKeyValueString(credentialIDString, cred.ID))

	return nil
}

// GetCredentials returns all stored credentials.
func (c *Command) GetCredentials(rw io.Writer, _ io.Reader) command.Error {
	credentials, err := c.credentials.List()
	if err != nil {
		logutil.LogError(logger, CommandName, GetCredentialsCommandMethod, err.Error())

		return command.NewExecuteError(GetCredentialsErrorCode, err)
	}

	if credentials == nil {
		credentials = []*credential.Credential{}
	}

	command.WriteNillableResponse(rw, &CredentialsResponse{Credentials: credentials}, logger)

	return nil
}

func validateCredential(raw json.RawMessage) error {
	if len(raw) == 0 {
		return errors.New("credential is mandatory")
	}

	doc := gjson.ParseBytes(raw)
	if !gjson.ValidBytes(raw) || !doc.IsObject() {
		return errors.New("credential must be a JSON object")
	}

	if t := doc.Get("type"); !t.Exists() || (t.IsArray() && len(t.Array()) == 0) {
		return errors.New("credential has no type")
	}

	return nil
}
