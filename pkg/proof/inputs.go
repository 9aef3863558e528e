/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package proof

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"

	"github.com/PaesslerAG/jsonpath"

	"github.com/ghostid/wallet-agent/pkg/didcomm/protocol/authorization"
	"github.com/ghostid/wallet-agent/pkg/store/credential"
)

// fieldElementBytes keeps encoded values below the BN254 scalar field modulus.
const fieldElementBytes = 31

var errMissingField = errors.New("credential does not contain the queried field")

type predicate struct {
	field    string
	operator string
	operand  interface{}
}

// predicates flattens scope rules into a deterministic list ordered by field, then operator.
func predicates(rules map[string]map[string]interface{}) []predicate {
	var list []predicate

	for field, ops := range rules {
		for op, operand := range ops {
			list = append(list, predicate{field: field, operator: op, operand: operand})
		}
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].field == list[j].field {
			return list[i].operator < list[j].operator
		}

		return list[i].field < list[j].field
	})

	return list
}

// buildInputs assembles the public and private inputs of a scope from the matched credential.
func buildInputs(scope authorization.ScopeQuery, cred *credential.Credential, holderSecret []byte) (Inputs, Inputs, error) {
	preds := predicates(scope.Rules)

	fields := make([]string, len(preds))
	operators := make([]string, len(preds))
	operands := make([]string, len(preds))
	values := make([]string, len(preds))

	for i, p := range preds {
		raw, err := jsonpath.Get(fmt.Sprintf("$.credentialSubject[%q]", p.field), cred.Document)
		if err != nil {
			return nil, nil, authorization.WrapError(authorization.KindNoMatchingCredential,
				fmt.Errorf("%s %q: %w", cred.ID, p.field, errMissingField))
		}

		value, err := fieldElement(raw)
		if err != nil {
			return nil, nil, authorization.WrapError(authorization.KindProverFailure,
				fmt.Errorf("credential field %q: %w", p.field, err))
		}

		operand, err := fieldElement(p.operand)
		if err != nil {
			return nil, nil, authorization.WrapError(authorization.KindProverFailure,
				fmt.Errorf("operand of %s %s: %w", p.field, p.operator, err))
		}

		fields[i], operators[i], operands[i], values[i] = p.field, p.operator, operand, value
	}

	public := Inputs{
		InputFields:    fields,
		InputOperators: operators,
		InputOperands:  operands,
	}

	private := Inputs{
		InputValues:       values,
		InputHolderSecret: new(big.Int).SetBytes(holderSecret[:fieldElementBytes]).String(),
	}

	return public, private, nil
}

// fieldElement encodes a JSON value as a decimal field element. Strings are hashed.
func fieldElement(v interface{}) (string, error) {
	switch x := v.(type) {
	case json.Number:
		if n, ok := new(big.Int).SetString(x.String(), 10); ok {
			return nonNegative(n)
		}

		f, err := x.Float64()
		if err != nil {
			return "", err
		}

		return fieldElement(f)
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return "", fmt.Errorf("%v is not an integer", x)
		}

		n, _ := big.NewFloat(x).Int(nil)

		return nonNegative(n)
	case int:
		return nonNegative(big.NewInt(int64(x)))
	case int64:
		return nonNegative(big.NewInt(x))
	case bool:
		if x {
			return "1", nil
		}

		return "0", nil
	case string:
		h := sha256.Sum256([]byte(x))

		return new(big.Int).SetBytes(h[:fieldElementBytes]).String(), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

func nonNegative(n *big.Int) (string, error) {
	if n.Sign() < 0 {
		return "", fmt.Errorf("negative value %s", n)
	}

	return n.String(), nil
}
