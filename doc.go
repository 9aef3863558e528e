/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ghostid is a wallet agent that answers iden3comm/DIDComm authorization requests with
// zero-knowledge proofs.
//
// Packages for end developer usage
//
// pkg/framework/agent: Wires the wallet, proof engine, delivery client and session service into one agent.
//
// pkg/session: Runs one authorization session at a time, from a scanned payload to verifier delivery.
//
// pkg/controller/rest: Exposes sessions and the wallet through a REST API.
//
// Basic workflow
//
//      1) Create an agent with agent.New, passing options.
//      2) Initialize the wallet with agent.Wallet().Initialize().
//      3) Store credentials with agent.Credentials().Save.
//      4) Start a session with agent.Sessions().Scan and wait for it to finish.
//      5) Call agent.Close() to release resources.
package ghostid
