/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package proof

import (
	"context"

	"github.com/ghostid/wallet-agent/pkg/didcomm/protocol/authorization"
)

// Input names shared by the engine and the provers. Each value is a []string of decimal field elements,
// except InputFields and InputOperators which hold names.
const (
	InputFields       = "fields"
	InputOperators    = "operators"
	InputOperands     = "operands"
	InputValues       = "values"
	InputHolderSecret = "holderSecret"
)

// Predicate operators.
const (
	OpEqual          = "$eq"
	OpNotEqual       = "$ne"
	OpLessThan       = "$lt"
	OpLessOrEqual    = "$lte"
	OpGreaterThan    = "$gt"
	OpGreaterOrEqual = "$gte"
)

// Inputs is a named set of circuit inputs.
type Inputs map[string]interface{}

// Result is the output of a prover.
type Result struct {
	Proof      *authorization.Proof `json:"proof"`
	PubSignals []string             `json:"pub_signals"`
}

// Prover executes a circuit over public and private inputs. It must honour ctx cancellation.
type Prover interface {
	Prove(ctx context.Context, circuitID string, public, private Inputs) (*Result, error)
}
