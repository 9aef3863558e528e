/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package groth16

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/ghostid/wallet-agent/pkg/proof"
)

// queryCircuit proves that private credential values satisfy public operands under fixed operators,
// bound to a non-zero holder secret.
type queryCircuit struct {
	Values       []frontend.Variable `gnark:",secret"`
	Operands     []frontend.Variable `gnark:",public"`
	HolderSecret frontend.Variable   `gnark:",secret"`

	Operators []string `gnark:"-"`
}

func newQueryCircuit(operators []string) *queryCircuit {
	return &queryCircuit{
		Values:    make([]frontend.Variable, len(operators)),
		Operands:  make([]frontend.Variable, len(operators)),
		Operators: append([]string(nil), operators...),
	}
}

// Define implements frontend.Circuit.
func (c *queryCircuit) Define(api frontend.API) error {
	api.AssertIsDifferent(c.HolderSecret, 0)

	for i, op := range c.Operators {
		value, operand := c.Values[i], c.Operands[i]

		switch op {
		case proof.OpEqual:
			api.AssertIsEqual(value, operand)
		case proof.OpNotEqual:
			api.AssertIsDifferent(value, operand)
		case proof.OpLessOrEqual:
			api.AssertIsLessOrEqual(value, operand)
		case proof.OpGreaterOrEqual:
			api.AssertIsLessOrEqual(operand, value)
		case proof.OpLessThan:
			api.AssertIsLessOrEqual(api.Add(value, 1), operand)
		case proof.OpGreaterThan:
			api.AssertIsLessOrEqual(api.Add(operand, 1), value)
		default:
			return fmt.Errorf("unsupported operator %q", op)
		}
	}

	return nil
}

func checkOperators(operators []string) error {
	for _, op := range operators {
		switch op {
		case proof.OpEqual, proof.OpNotEqual, proof.OpLessOrEqual, proof.OpGreaterOrEqual,
			proof.OpLessThan, proof.OpGreaterThan:
		default:
			return fmt.Errorf("unsupported operator %q", op)
		}
	}

	return nil
}
