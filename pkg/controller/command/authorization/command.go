/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package authorization

import (
	"context"
	"errors"
	"io"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/ghostid/wallet-agent/pkg/controller/command"
	"github.com/ghostid/wallet-agent/pkg/controller/internal/cmdutil"
	authz "github.com/ghostid/wallet-agent/pkg/didcomm/protocol/authorization"
	"github.com/ghostid/wallet-agent/pkg/internal/logutil"
	"github.com/ghostid/wallet-agent/pkg/session"
)

var logger = log.New("ghostid/command/authorization")

// Error codes.
const (
	// InvalidRequestErrorCode is typically a code for invalid requests.
	InvalidRequestErrorCode = command.Code(iota + command.Authorization)

	// ScanErrorCode for errors starting a session.
	ScanErrorCode

	// SessionBusyErrorCode when another session is active.
	SessionBusyErrorCode

	// WalletNotInitializedErrorCode when the wallet has no identity.
	WalletNotInitializedErrorCode

	// CancelErrorCode for cancel errors.
	CancelErrorCode

	// DismissErrorCode for dismiss errors.
	DismissErrorCode
)

const (
	// CommandName is the name of the authorization command.
	CommandName = "authorization"

	// command methods.
	ScanCommandMethod    = "Scan"
	StatusCommandMethod  = "Status"
	CancelCommandMethod  = "Cancel"
	DismissCommandMethod = "Dismiss"

	// error messages.
	errEmptyPayload = "payload is mandatory"

	// log constants.
	sessionIDString = "sessionID"
)

// SessionService runs authorization sessions.
type SessionService interface {
	Scan(ctx context.Context, payload string) (*session.Session, error)
	Status() session.Status
	Cancel() error
	Dismiss() error
}

// provider contains dependencies for the authorization command.
type provider interface {
	Sessions() *session.Service
}

// Command contains command operations provided by the authorization controller.
type Command struct {
	sessions SessionService
}

// New returns new authorization controller command instance.
func New(p provider) *Command {
	return &Command{sessions: p.Sessions()}
}

// GetHandlers returns list of all commands supported by this controller command.
func (c *Command) GetHandlers() []command.Handler {
	return []command.Handler{
		cmdutil.NewCommandHandler(CommandName, ScanCommandMethod, c.Scan),
		cmdutil.NewCommandHandler(CommandName, StatusCommandMethod, c.Status),
		cmdutil.NewCommandHandler(CommandName, CancelCommandMethod, c.Cancel),
		cmdutil.NewCommandHandler(CommandName, DismissCommandMethod, c.Dismiss),
	}
}

// Scan starts an authorization session for a scanned payload.
func (c *Command) Scan(rw io.Writer, req io.Reader) command.Error {
	var request ScanRequest

	if err := command.DecodeRequest(req, &request); err != nil {
		logutil.LogInfo(logger, CommandName, ScanCommandMethod, err.Error())

		return command.NewValidationError(InvalidRequestErrorCode, err)
	}

	if request.Payload == "" {
		logutil.LogDebug(logger, CommandName, ScanCommandMethod, errEmptyPayload)

		return command.NewValidationError(InvalidRequestErrorCode, errors.New(errEmptyPayload))
	}

	sess, err := c.sessions.Scan(context.Background(), request.Payload)
	if err != nil {
		logutil.LogError(logger, CommandName, ScanCommandMethod, err.Error())

		return sessionError(err, ScanErrorCode)
	}

	command.WriteNillableResponse(rw, &StatusResponse{Status: sess.Status()}, logger)

	logutil.LogDebug(logger, CommandName, ScanCommandMethod, "success",
		logutil.CreateKeyValueString(sessionIDString, sess.ID()))

	return nil
}

// Status returns the status of the current session.
func (c *Command) Status(rw io.Writer, _ io.Reader) command.Error {
	command.WriteNillableResponse(rw, &StatusResponse{Status: c.sessions.Status()}, logger)

	return nil
}

// Cancel cancels the active session.
func (c *Command) Cancel(rw io.Writer, _ io.Reader) command.Error {
	if err := c.sessions.Cancel(); err != nil {
		logutil.LogError(logger, CommandName, CancelCommandMethod, err.Error())

		return command.NewConflictError(CancelErrorCode, err)
	}

	command.WriteNillableResponse(rw, &StatusResponse{Status: c.sessions.Status()}, logger)

	logutil.LogInfo(logger, CommandName, CancelCommandMethod, "success")

	return nil
}

// Dismiss discards a finished session.
func (c *Command) Dismiss(rw io.Writer, _ io.Reader) command.Error {
	if err := c.sessions.Dismiss(); err != nil {
		logutil.LogError(logger, CommandName, DismissCommandMethod, err.Error())

		return sessionError(err, DismissErrorCode)
	}

	command.WriteNillableResponse(rw, &StatusResponse{Status: c.sessions.Status()}, logger)

	return nil
}

func sessionError(err error, fallback command.Code) command.Error {
	switch authz.KindOf(err) {
	case authz.KindSessionBusy:
		return command.NewConflictError(SessionBusyErrorCode, err)
	case authz.KindWalletNotInitialized:
		return command.NewPreconditionError(WalletNotInitializedErrorCode, err)
	default:
		return command.NewExecuteError(fallback, err)
	}
}
