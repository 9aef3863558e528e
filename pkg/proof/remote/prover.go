/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package remote is a proof.Prover that delegates proving to an HTTP proving service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/ghostid/wallet-agent/pkg/proof"
)

const (
	defaultTimeout = 2 * time.Minute
	maxErrorBody   = 1 << 10
)

var logger = log.New("ghostid/proof/remote")

type proveRequest struct {
	CircuitID     string       `json:"circuitId"`
	PublicInputs  proof.Inputs `json:"publicInputs"`
	PrivateInputs proof.Inputs `json:"privateInputs"`
}

// Option configures a Prover.
type Option func(p *Prover)

// WithHTTPClient sets the HTTP client used to reach the proving service.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Prover) {
		p.client = client
	}
}

// WithTimeout bounds each prove call.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Prover) {
		p.timeout = timeout
	}
}

// Prover calls a remote proving service.
type Prover struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// New returns a Prover posting to url.
func New(url string, opts ...Option) (*Prover, error) {
	if url == "" {
		return nil, fmt.Errorf("prover url is required")
	}

	p := &Prover{url: url, client: &http.Client{}, timeout: defaultTimeout}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Prove implements proof.Prover.
func (p *Prover) Prove(ctx context.Context, circuitID string, public, private proof.Inputs) (*proof.Result, error) {
	body, err := json.Marshal(&proveRequest{CircuitID: circuitID, PublicInputs: public, PrivateInputs: private})
	if err != nil {
		return nil, fmt.Errorf("marshal prove request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new prove request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post prove request: %w", err)
	}

	defer func() {
		if e := resp.Body.Close(); e != nil {
			logger.Errorf("failed to close response body: %s", e)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck

		return nil, fmt.Errorf("prover returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	result := &proof.Result{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("decode prove response: %w", err)
	}

	if result.Proof == nil {
		return nil, fmt.Errorf("prove response has no proof")
	}

	return result, nil
}
