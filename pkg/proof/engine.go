/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package proof turns an authorization request into a verification response by proving every requested
// scope against the wallet's credentials.
package proof

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/ghostid/wallet-agent/pkg/didcomm/protocol/authorization"
	"github.com/ghostid/wallet-agent/pkg/store/credential"
	"github.com/ghostid/wallet-agent/pkg/wallet"
)

var logger = log.New("ghostid/proof")

// CredentialFinder looks up the credential a scope is proven with.
type CredentialFinder interface {
	FindByType(credentialType string) (*credential.Credential, error)
}

// SecretDeriver derives holder secrets from the identity's private key without exposing it.
type SecretDeriver interface {
	DeriveSecret(keyID string, info []byte) ([]byte, error)
}

// Option configures an Engine.
type Option func(e *Engine)

// WithCircuits replaces the circuit registry.
func WithCircuits(circuits ...Circuit) Option {
	return func(e *Engine) {
		e.circuits = make(map[string]Circuit, len(circuits))

		for _, c := range circuits {
			e.circuits[c.ID] = c
		}
	}
}

// Engine generates proofs for authorization requests.
type Engine struct {
	prover      Prover
	credentials CredentialFinder
	secrets     SecretDeriver
	circuits    map[string]Circuit
}

// NewEngine returns an Engine using the given prover and wallet collaborators.
func NewEngine(prover Prover, credentials CredentialFinder, secrets SecretDeriver, opts ...Option) *Engine {
	e := &Engine{
		prover:      prover,
		credentials: credentials,
		secrets:     secrets,
		circuits:    supportedCircuits,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

type scopeJob struct {
	scope   authorization.ScopeQuery
	circuit Circuit
	cred    *credential.Credential
}

// Prove proves every scope of req, in order. Either all scopes are proven or an error is returned.
// If ctx is cancelled the context error is returned as is.
func (e *Engine) Prove(ctx context.Context, req *authorization.AuthorizationRequest,
	identity *wallet.Identity) (*authorization.VerificationResponse, error) {
	jobs := make([]scopeJob, 0, len(req.Scopes))

	// resolve everything before the first prover call so a bad scope fails fast
	for _, scope := range req.Scopes {
		job, err := e.resolve(scope)
		if err != nil {
			return nil, fmt.Errorf("scope %d: %w", scope.ScopeID, err)
		}

		jobs = append(jobs, job)
	}

	artifacts := make([]authorization.ProofArtifact, 0, len(jobs))

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		artifact, err := e.proveScope(ctx, job, identity)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			return nil, fmt.Errorf("scope %d: %w", job.scope.ScopeID, err)
		}

		artifacts = append(artifacts, *artifact)
	}

	logger.Debugf("proved %d scopes of request %s", len(artifacts), req.ID)

	return &authorization.VerificationResponse{
		ID:       authorization.ResponseID(req.ID),
		ThreadID: req.ThreadID,
		FromDID:  identity.DID,
		ToDID:    req.IssuerDID,
		Body:     artifacts,
	}, nil
}

func (e *Engine) resolve(scope authorization.ScopeQuery) (scopeJob, error) {
	circuit, ok := e.circuits[scope.CircuitID]
	if !ok {
		return scopeJob{}, authorization.NewError(authorization.KindUnsupportedCircuit,
			"circuit %q is not supported", scope.CircuitID)
	}

	cred, err := e.credentials.FindByType(scope.CredentialType)
	if errors.Is(err, credential.ErrNotFound) {
		return scopeJob{}, authorization.NewError(authorization.KindNoMatchingCredential,
			"no credential of type %q", scope.CredentialType)
	}

	if err != nil {
		return scopeJob{}, fmt.Errorf("find credential: %w", err)
	}

	return scopeJob{scope: scope, circuit: circuit, cred: cred}, nil
}

func (e *Engine) proveScope(ctx context.Context, job scopeJob,
	identity *wallet.Identity) (*authorization.ProofArtifact, error) {
	secret, err := e.secrets.DeriveSecret(identity.KeyID, []byte("holder:"+job.circuit.ID))
	if err != nil {
		return nil, fmt.Errorf("derive holder secret: %w", err)
	}

	if len(secret) < fieldElementBytes {
		return nil, fmt.Errorf("holder secret too short: %d bytes", len(secret))
	}

	public, private, err := buildInputs(job.scope, job.cred, secret)
	if err != nil {
		return nil, err
	}

	result, err := e.prover.Prove(ctx, job.circuit.ID, public, private)
	if err != nil {
		return nil, authorization.WrapError(authorization.KindProverFailure, err)
	}

	if result == nil || result.Proof == nil {
		return nil, authorization.NewError(authorization.KindProverFailure, "prover returned no proof")
	}

	return &authorization.ProofArtifact{
		ScopeID:        job.scope.ScopeID,
		CircuitID:      job.circuit.ID,
		CredentialType: job.scope.CredentialType,
		Proof:          result.Proof,
		PubSignals:     result.PubSignals,
	}, nil
}
