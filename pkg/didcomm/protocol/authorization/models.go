/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package authorization

const (
	// MediaTypePlainMessage is the envelope type of unencrypted, unsigned iden3comm messages.
	MediaTypePlainMessage = "application/iden3comm-plain-json"
	// RequestMsgType is the authorization request message type.
	RequestMsgType = "https://iden3-communication.io/authorization/1.0/request"
	// ResponseMsgType is the authorization response message type.
	ResponseMsgType = "https://iden3-communication.io/authorization/1.0/response"

	responseIDPrefix = "response-"
)

// AuthorizationRequest is a validated authorization request. It is not modified after parsing.
type AuthorizationRequest struct { //nolint:revive
	ID          string
	ThreadID    string
	Type        string
	Reason      string
	IssuerDID   string
	SubjectDID  string
	CallbackURL string
	Scopes      []ScopeQuery
}

// ScopeQuery is one disclosure requirement of a request.
type ScopeQuery struct {
	ScopeID        int
	CredentialType string
	CircuitID      string
	// Rules maps a credential subject field to its predicate, e.g. {"age": {"$gte": 18}}.
	Rules map[string]map[string]interface{}
}

// Proof is a groth16 proof in the snarkjs JSON layout.
type Proof struct {
	A        []string   `json:"pi_a"`
	B        [][]string `json:"pi_b"`
	C        []string   `json:"pi_c"`
	Protocol string     `json:"protocol"`
	Curve    string     `json:"curve,omitempty"`
}

// ProofArtifact is the proof produced for a single scope.
type ProofArtifact struct {
	ScopeID        int
	CircuitID      string
	CredentialType string
	Proof          *Proof
	PubSignals     []string
}

// VerificationResponse is the response delivered to the verifier.
type VerificationResponse struct {
	ID       string
	ThreadID string
	FromDID  string
	ToDID    string
	Body     []ProofArtifact
}

// ResponseID returns the response identifier for the given request.
func ResponseID(requestID string) string {
	return responseIDPrefix + requestID
}

// RequestMessage is the wire form of an authorization request.
type RequestMessage struct {
	ID          string      `json:"id"`
	Typ         string      `json:"typ,omitempty"`
	Type        string      `json:"type,omitempty"`
	ThreadID    string      `json:"thid"`
	From        string      `json:"from,omitempty"`
	To          string      `json:"to,omitempty"`
	CallbackURL string      `json:"callbackUrl,omitempty"`
	Body        RequestBody `json:"body"`
}

// RequestBody is the body of RequestMessage.
type RequestBody struct {
	CallbackURL string             `json:"callbackUrl,omitempty"`
	Reason      string             `json:"reason,omitempty"`
	Scope       []ScopeRequestItem `json:"scope"`
}

// ScopeRequestItem is the wire form of a scope query.
type ScopeRequestItem struct {
	ID        int                               `json:"id"`
	Type      string                            `json:"type,omitempty"`
	CircuitID string                            `json:"circuitId"`
	Rules     map[string]map[string]interface{} `json:"rules,omitempty"`
	Query     *ScopeQueryItem                   `json:"query,omitempty"`
}

// ScopeQueryItem is the iden3comm `query` object some verifiers send instead of type/rules.
type ScopeQueryItem struct {
	Type              string                            `json:"type"`
	Context           string                            `json:"context,omitempty"`
	AllowedIssuers    []string                          `json:"allowedIssuers,omitempty"`
	CredentialSubject map[string]map[string]interface{} `json:"credentialSubject,omitempty"`
}

// ResponseMessage is the wire form of VerificationResponse.
type ResponseMessage struct {
	ID       string       `json:"id"`
	Typ      string       `json:"typ"`
	Type     string       `json:"type"`
	ThreadID string       `json:"thid"`
	Body     ResponseBody `json:"body"`
	From     string       `json:"from"`
	To       string       `json:"to,omitempty"`
}

// ResponseBody is the body of ResponseMessage.
type ResponseBody struct {
	Scope []ScopeResponseItem `json:"scope"`
}

// ScopeResponseItem is the wire form of a ProofArtifact.
type ScopeResponseItem struct {
	ID         int      `json:"id"`
	Type       string   `json:"type,omitempty"`
	CircuitID  string   `json:"circuitId"`
	Proof      *Proof   `json:"proof"`
	PubSignals []string `json:"pub_signals,omitempty"`
}

// Message returns the canonical wire form of the response.
func (r *VerificationResponse) Message() *ResponseMessage {
	scope := make([]ScopeResponseItem, 0, len(r.Body))

	for _, a := range r.Body {
		scope = append(scope, ScopeResponseItem{
			ID:         a.ScopeID,
			Type:       a.CredentialType,
			CircuitID:  a.CircuitID,
			Proof:      a.Proof,
			PubSignals: a.PubSignals,
		})
	}

	return &ResponseMessage{
		ID:       r.ID,
		Typ:      MediaTypePlainMessage,
		Type:     ResponseMsgType,
		ThreadID: r.ThreadID,
		Body:     ResponseBody{Scope: scope},
		From:     r.FromDID,
		To:       r.ToDID,
	}
}
