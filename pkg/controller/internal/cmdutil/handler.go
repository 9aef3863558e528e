/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package cmdutil holds the route and command descriptors the wallet and authorization controllers register.
package cmdutil

import (
	"net/http"

	"github.com/ghostid/wallet-agent/pkg/controller/command"
)

// HTTPHandler binds a REST path and method, such as POST /authorization/scan, to its handler.
type HTTPHandler struct {
	path, method string
	handle       http.HandlerFunc
}

// NewHTTPHandler returns an HTTPHandler for path and method.
func NewHTTPHandler(path, method string, handle http.HandlerFunc) *HTTPHandler {
	return &HTTPHandler{path: path, method: method, handle: handle}
}

// Path of the route.
func (h *HTTPHandler) Path() string { return h.path }

// Method of the route.
func (h *HTTPHandler) Method() string { return h.method }

// Handle returns the route handler.
func (h *HTTPHandler) Handle() http.HandlerFunc { return h.handle }

// CommandHandler binds a controller command, addressed by command name and method (e.g. "wallet" and
// "Reset"), to its Exec.
type CommandHandler struct {
	name, method string
	exec         command.Exec
}

// NewCommandHandler returns a CommandHandler for the given command name and method.
func NewCommandHandler(name, method string, exec command.Exec) *CommandHandler {
	return &CommandHandler{name: name, method: method, exec: exec}
}

// Name of the command group.
func (c *CommandHandler) Name() string { return c.name }

// Method of the command.
func (c *CommandHandler) Method() string { return c.method }

// Handle returns the command's Exec.
func (c *CommandHandler) Handle() command.Exec { return c.exec }
