/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package authorization

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/tidwall/gjson"
)

var logger = log.New("ghostid/authorization")

const (
	didcommScheme   = "didcomm://"
	iden3commScheme = "iden3comm://"
	ciParam         = "c_i="
)

// payloadForm is one of the supported QR encodings. Forms are tried in declaration order and the first
// matching form decides the outcome; a decoding failure inside a matched form is final.
type payloadForm struct {
	name   string
	match  func(raw string) bool
	decode func(raw string) ([]byte, error)
}

var payloadForms = []payloadForm{
	{name: "json", match: isJSONObject, decode: func(raw string) ([]byte, error) { return []byte(raw), nil }},
	{name: "uri", match: hasMessageScheme, decode: decodeSchemePayload},
	{name: "query", match: hasCIParam, decode: decodeCIParam},
}

// Parse decodes a scanned QR payload into an AuthorizationRequest.
func Parse(raw string) (*AuthorizationRequest, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, NewError(KindMalformedPayload, "empty payload")
	}

	for _, form := range payloadForms {
		if !form.match(raw) {
			continue
		}

		logger.Debugf("decoding authorization request as %s form", form.name)

		data, err := form.decode(raw)
		if err != nil {
			return nil, err
		}

		return parseMessage(data)
	}

	return nil, NewError(KindMalformedPayload, "unrecognized payload encoding")
}

func isJSONObject(raw string) bool {
	return strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}")
}

// hasMessageScheme matches didcomm://<base64url> and iden3comm://<base64url>. A scheme followed by a query
// string carries its message in a parameter and is left to the query form.
func hasMessageScheme(raw string) bool {
	rest, ok := trimMessageScheme(raw)

	return ok && !strings.HasPrefix(rest, "?")
}

func trimMessageScheme(raw string) (string, bool) {
	for _, scheme := range []string{didcommScheme, iden3commScheme} {
		if strings.HasPrefix(raw, scheme) {
			return strings.TrimPrefix(raw, scheme), true
		}
	}

	return "", false
}

func decodeSchemePayload(raw string) ([]byte, error) {
	rest, _ := trimMessageScheme(raw)

	data, err := decodeBase64URL(rest)
	if err != nil {
		return nil, NewError(KindMalformedPayload, "decode uri payload: %w", err)
	}

	return data, nil
}

func hasCIParam(raw string) bool {
	return strings.Contains(raw, ciParam)
}

func decodeCIParam(raw string) ([]byte, error) {
	value := raw[strings.Index(raw, ciParam)+len(ciParam):]

	if i := strings.IndexByte(value, '&'); i >= 0 {
		value = value[:i]
	}

	// '+' is a base64 character here, not an escaped space.
	value, err := url.PathUnescape(value)
	if err != nil {
		return nil, NewError(KindMalformedPayload, "unescape c_i parameter: %w", err)
	}

	data, err := decodeBase64URL(value)
	if err != nil {
		return nil, NewError(KindMalformedPayload, "decode c_i parameter: %w", err)
	}

	return data, nil
}

// decodeBase64URL accepts base64url with or without padding, as well as standard base64.
func decodeBase64URL(s string) ([]byte, error) {
	s = strings.NewReplacer("-", "+", "_", "/").Replace(s)
	s = strings.TrimRight(s, "=")

	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}

	if s == "" {
		return nil, fmt.Errorf("empty base64 payload")
	}

	return base64.StdEncoding.DecodeString(s)
}

func parseMessage(data []byte) (*AuthorizationRequest, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, NewError(KindInvalidJSON, "payload is not a JSON object")
	}

	doc := gjson.ParseBytes(data)

	for _, field := range []string{"id", "thid"} {
		if doc.Get(field).String() == "" {
			return nil, NewError(KindMissingField, "%s is required", field)
		}
	}

	callback := doc.Get("callbackUrl")
	if !callback.Exists() {
		callback = doc.Get("body.callbackUrl")
	}

	if callback.String() == "" {
		return nil, NewError(KindMissingField, "callbackUrl is required")
	}

	if scope := doc.Get("body.scope"); !scope.IsArray() || len(scope.Array()) == 0 {
		return nil, NewError(KindMissingField, "body.scope is required")
	}

	var msg RequestMessage

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := dec.Decode(&msg); err != nil {
		return nil, WrapError(KindInvalidJSON, fmt.Errorf("decode request: %w", err))
	}

	callbackURL := callback.String()
	if err := validateCallbackURL(callbackURL); err != nil {
		return nil, err
	}

	scopes := make([]ScopeQuery, 0, len(msg.Body.Scope))
	rawScopes := doc.Get("body.scope").Array()

	for i, item := range msg.Body.Scope {
		if !rawScopes[i].Get("id").Exists() {
			return nil, NewError(KindMissingField, "body.scope[%d]: id is required", i)
		}

		scope, err := toScopeQuery(item)
		if err != nil {
			return nil, WrapError(KindMissingField, fmt.Errorf("body.scope[%d]: %w", i, err))
		}

		scopes = append(scopes, scope)
	}

	return &AuthorizationRequest{
		ID:          msg.ID,
		ThreadID:    msg.ThreadID,
		Type:        msg.Type,
		Reason:      msg.Body.Reason,
		IssuerDID:   msg.From,
		SubjectDID:  msg.To,
		CallbackURL: callbackURL,
		Scopes:      scopes,
	}, nil
}

func validateCallbackURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return NewError(KindMalformedPayload, "callbackUrl: %w", err)
	}

	if !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return NewError(KindMalformedPayload, "callbackUrl %q is not an absolute http(s) URL", raw)
	}

	return nil
}

func toScopeQuery(item ScopeRequestItem) (ScopeQuery, error) {
	credentialType, rules := item.Type, item.Rules

	if item.Query != nil {
		if credentialType == "" {
			credentialType = item.Query.Type
		}

		if rules == nil {
			rules = item.Query.CredentialSubject
		}
	}

	if item.CircuitID == "" {
		return ScopeQuery{}, fmt.Errorf("circuitId is required")
	}

	if credentialType == "" {
		return ScopeQuery{}, fmt.Errorf("type is required")
	}

	return ScopeQuery{
		ScopeID:        item.ID,
		CredentialType: credentialType,
		CircuitID:      item.CircuitID,
		Rules:          rules,
	}, nil
}
