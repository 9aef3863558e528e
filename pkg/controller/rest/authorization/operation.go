/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package authorization

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/ghostid/wallet-agent/pkg/controller/command"
	cmdauthz "github.com/ghostid/wallet-agent/pkg/controller/command/authorization"
	"github.com/ghostid/wallet-agent/pkg/controller/internal/cmdutil"
	"github.com/ghostid/wallet-agent/pkg/controller/rest"
	"github.com/ghostid/wallet-agent/pkg/session"
)

var logger = log.New("ghostid/rest/authorization")

// constants for authorization operations.
const (
	OperationID      = "/authorization"
	ScanPath         = OperationID + "/scan"
	StatusPath       = OperationID + "/status"
	StatusStreamPath = StatusPath + "/stream"
	CancelPath       = OperationID + "/cancel"
	DismissPath      = OperationID + "/dismiss"

	statusBufferSize  = 16
	statusSendTimeout = 5 * time.Second
)

// provider contains dependencies for the authorization command and is typically the agent.
type provider interface {
	Sessions() *session.Service
}

type authorizationCommand interface {
	Scan(rw io.Writer, req io.Reader) command.Error
	Status(rw io.Writer, req io.Reader) command.Error
	Cancel(rw io.Writer, req io.Reader) command.Error
	Dismiss(rw io.Writer, req io.Reader) command.Error
}

type statusSource interface {
	Status() session.Status
	RegisterStatusEvent(ch chan<- session.Status) error
	UnregisterStatusEvent(ch chan<- session.Status) error
}

// Operation contains authorization operations provided by controller REST API.
type Operation struct {
	handlers []rest.Handler
	command  authorizationCommand
	statuses statusSource
}

// New returns new authorization operations rest client instance.
func New(p provider) *Operation {
	o := &Operation{
		command:  cmdauthz.New(p),
		statuses: p.Sessions(),
	}
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
		cmdutil.NewHTTPHandler(ScanPath, http.MethodPost, o.Scan),
		cmdutil.NewHTTPHandler(StatusPath, http.MethodGet, o.Status),
		cmdutil.NewHTTPHandler(StatusStreamPath, http.MethodGet, o.StatusStream),
		cmdutil.NewHTTPHandler(CancelPath, http.MethodPost, o.Cancel),
		cmdutil.NewHTTPHandler(DismissPath, http.MethodPost, o.Dismiss),
	}
}

// Scan swagger:route POST /authorization/scan authorization scanReq
//
// Starts an authorization session for a scanned QR payload.
//
// Responses:
//    default: genericError
//        200: statusRes
func (o *Operation) Scan(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.Scan, rw, req.Body)
}

// Status swagger:route GET /authorization/status authorization status
//
// Returns the status of the current authorization session.
//
// Responses:
//    default: genericError
//        200: statusRes
func (o *Operation) Status(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.Status, rw, req.Body)
}

// Cancel swagger:route POST /authorization/cancel authorization cancel
//
// Cancels the active authorization session.
//
// Responses:
//    default: genericError
//        200: statusRes
func (o *Operation) Cancel(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.Cancel, rw, req.Body)
}

// Dismiss swagger:route POST /authorization/dismiss authorization dismiss
//
// Discards a finished authorization session.
//
// Responses:
//    default: genericError
//        200: statusRes
func (o *Operation) Dismiss(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.Dismiss, rw, req.Body)
}

// StatusStream upgrades the connection to a websocket and writes the current status followed by every
// status change until the client goes away.
func (o *Operation) StatusStream(rw http.ResponseWriter, req *http.Request) {
	conn, err := websocket.Accept(rw, req, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		logger.Infof("failed to upgrade the status stream connection : %v", err)

		return
	}

	events := make(chan session.Status, statusBufferSize)

	if err = o.statuses.RegisterStatusEvent(events); err != nil {
		logger.Errorf("register status stream: %v", err)
		closeConn(conn, websocket.StatusInternalError, "")

		return
	}

	defer func() {
		if e := o.statuses.UnregisterStatusEvent(events); e != nil {
			logger.Warnf("unregister status stream: %v", e)
		}
	}()

	ctx := conn.CloseRead(req.Context())

	logger.Debugf("status stream client connected")

	if err = writeStatus(ctx, conn, o.statuses.Status()); err != nil {
		logger.Infof("writing to status stream client failed: %v", err)

		return
	}

	for {
		select {
		case <-ctx.Done():
			logger.Debugf("status stream client dropped")

			return
		case status := <-events:
			if err = writeStatus(ctx, conn, status); err != nil {
				logger.Infof("writing to status stream client failed: %v", err)
				closeConn(conn, websocket.StatusInternalError, "")

				return
			}
		}
	}
}

func writeStatus(parent context.Context, conn *websocket.Conn, status session.Status) error {
	ctx, cancel := context.WithTimeout(parent, statusSendTimeout)
	defer cancel()

	return wsjson.Write(ctx, conn, &cmdauthz.StatusResponse{Status: status})
}

func closeConn(conn *websocket.Conn, code websocket.StatusCode, reason string) {
	if err := conn.Close(code, reason); err != nil {
		logger.Debugf("closing status stream client failed: %v", err)
	}
}
