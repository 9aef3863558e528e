/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package controller

import (
	"github.com/ghostid/wallet-agent/pkg/controller/command"
	authzcmd "github.com/ghostid/wallet-agent/pkg/controller/command/authorization"
	walletcmd "github.com/ghostid/wallet-agent/pkg/controller/command/wallet"
	"github.com/ghostid/wallet-agent/pkg/controller/rest"
	authzrest "github.com/ghostid/wallet-agent/pkg/controller/rest/authorization"
	walletrest "github.com/ghostid/wallet-agent/pkg/controller/rest/wallet"
	"github.com/ghostid/wallet-agent/pkg/session"
	"github.com/ghostid/wallet-agent/pkg/store/credential"
	"github.com/ghostid/wallet-agent/pkg/wallet"
)

// provider is typically the agent.
type provider interface {
	Wallet() *wallet.Lifecycle
	Credentials() *credential.Store
	Sessions() *session.Service
}

// GetRESTHandlers returns all REST handlers provided by controller.
func GetRESTHandlers(p provider) []rest.Handler {
	var allHandlers []rest.Handler
	allHandlers = append(allHandlers, authzrest.New(p).GetRESTHandlers()...)
	allHandlers = append(allHandlers, walletrest.New(p).GetRESTHandlers()...)

	return allHandlers
}

// GetCommandHandlers returns all command handlers provided by controller.
func GetCommandHandlers(p provider) []command.Handler {
	var allHandlers []command.Handler
	allHandlers = append(allHandlers, authzcmd.New(p).GetHandlers()...)
	allHandlers = append(allHandlers, walletcmd.New(p).GetHandlers()...)

	return allHandlers
}
