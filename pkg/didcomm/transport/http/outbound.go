/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package http delivers authorization responses to verifier callback URLs.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/ghostid/wallet-agent/pkg/didcomm/protocol/authorization"
)

const (
	// DefaultTimeout bounds a single delivery attempt.
	DefaultTimeout = 30 * time.Second

	contentType = "application/json"

	maxResponseBody = 1 << 20
	maxErrorSnippet = 256
)

var logger = log.New("ghostid/transport/http")

// outboundCommHTTPOpts holds options for the outbound HTTP client.
type outboundCommHTTPOpts struct {
	client  *http.Client
	timeout time.Duration
}

// OutboundHTTPOpt is an outbound HTTP client option.
type OutboundHTTPOpt func(opts *outboundCommHTTPOpts)

// WithOutboundHTTPClient sets the http.Client used for delivery.
func WithOutboundHTTPClient(client *http.Client) OutboundHTTPOpt {
	return func(opts *outboundCommHTTPOpts) {
		opts.client = client
	}
}

// WithOutboundTimeout sets the per-delivery timeout. Non-positive values keep the default.
func WithOutboundTimeout(timeout time.Duration) OutboundHTTPOpt {
	return func(opts *outboundCommHTTPOpts) {
		if timeout > 0 {
			opts.timeout = timeout
		}
	}
}

// WithOutboundTLSConfig uses a client with the given tls.Config.
func WithOutboundTLSConfig(tlsConfig *tls.Config) OutboundHTTPOpt {
	return func(opts *outboundCommHTTPOpts) {
		opts.client = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: tlsConfig,
			},
		}
	}
}

// DeliveryResult is the verifier's answer to a delivered response.
type DeliveryResult struct {
	StatusCode int
	// Acknowledgement is the decoded JSON body, nil when the body is empty or not a JSON object.
	Acknowledgement map[string]interface{}
	Raw             []byte
}

// OutboundHTTPClient posts authorization responses to verifiers.
type OutboundHTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// NewOutbound creates an outbound HTTP client.
func NewOutbound(opts ...OutboundHTTPOpt) (*OutboundHTTPClient, error) {
	clOpts := &outboundCommHTTPOpts{timeout: DefaultTimeout}

	for _, opt := range opts {
		opt(clOpts)
	}

	if clOpts.client == nil {
		clOpts.client = &http.Client{}
	}

	return &OutboundHTTPClient{
		client:  clOpts.client,
		timeout: clOpts.timeout,
	}, nil
}

// Timeout returns the per-delivery timeout.
func (cs *OutboundHTTPClient) Timeout() time.Duration {
	return cs.timeout
}

// Deliver posts the canonical wire form of resp to callbackURL. A 2xx status is a success; any other status
// is a RejectedByVerifier error carrying the code. Failing to reach the verifier is NetworkUnavailable and
// exceeding the timeout is DeliveryTimeout. If ctx itself ends, its error is returned.
func (cs *OutboundHTTPClient) Deliver(ctx context.Context, resp *authorization.VerificationResponse,
	callbackURL string) (*DeliveryResult, error) {
	body, err := json.Marshal(resp.Message())
	if err != nil {
		return nil, authorization.WrapError(authorization.KindInternal, fmt.Errorf("marshal response: %w", err))
	}

	callCtx, cancel := context.WithTimeout(ctx, cs.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, callbackURL, bytes.NewReader(body))
	if err != nil {
		return nil, authorization.NewError(authorization.KindMalformedPayload, "invalid callback url: %s", err)
	}

	req.Header.Set("Content-Type", contentType)

	httpResp, err := cs.client.Do(req)
	if err != nil {
		logger.Warnf("failed to post response %s to [%s]: %s", resp.ID, callbackURL, err)

		return nil, cs.classify(ctx, callCtx, err)
	}

	defer func() {
		if e := httpResp.Body.Close(); e != nil {
			logger.Errorf("failed to close response body: %s", e)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, cs.classify(ctx, callCtx, err)
	}

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		return nil, authorization.RejectedByVerifier(httpResp.StatusCode,
			"verifier at [%s] returned %s: %s", callbackURL, httpResp.Status, snippet(raw))
	}

	result := &DeliveryResult{StatusCode: httpResp.StatusCode, Raw: raw}

	if len(bytes.TrimSpace(raw)) > 0 {
		var ack map[string]interface{}
		if json.Unmarshal(raw, &ack) == nil {
			result.Acknowledgement = ack
		}
	}

	logger.Debugf("delivered response %s to [%s]: %d", resp.ID, callbackURL, httpResp.StatusCode)

	return result, nil
}

func (cs *OutboundHTTPClient) classify(parent, call context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}

	var netErr net.Error
	if errors.Is(call.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return authorization.NewError(authorization.KindDeliveryTimeout, "no response within %s", cs.timeout)
	}

	return authorization.WrapError(authorization.KindNetworkUnavailable, err)
}

func snippet(raw []byte) string {
	s := bytes.TrimSpace(raw)
	if len(s) > maxErrorSnippet {
		s = s[:maxErrorSnippet]
	}

	return string(s)
}
