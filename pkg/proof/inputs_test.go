/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package proof

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghostid/wallet-agent/pkg/didcomm/protocol/authorization"
	"github.com/ghostid/wallet-agent/pkg/store/credential"
)

func TestPredicates(t *testing.T) {
	preds := predicates(map[string]map[string]interface{}{
		"country": {"$ne": "DE"},
		"age":     {"$lte": 65, "$gte": 18},
	})

	require.Equal(t, []predicate{
		{field: "age", operator: "$gte", operand: 18},
		{field: "age", operator: "$lte", operand: 65},
		{field: "country", operator: "$ne", operand: "DE"},
	}, preds)

	require.Empty(t, predicates(nil))
}

func TestFieldElement(t *testing.T) {
	ok := map[string]struct {
		in   interface{}
		want string
	}{
		"json number":    {json.Number("18"), "18"},
		"json float int": {json.Number("1e3"), "1000"},
		"float":          {float64(42), "42"},
		"int":            {7, "7"},
		"int64":          {int64(9), "9"},
		"true":           {true, "1"},
		"false":          {false, "0"},
	}

	for name, tc := range ok {
		t.Run(name, func(t *testing.T) {
			got, err := fieldElement(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	t.Run("strings are hashed deterministically", func(t *testing.T) {
		a, err := fieldElement("CH")
		require.NoError(t, err)

		b, err := fieldElement("CH")
		require.NoError(t, err)

		c, err := fieldElement("DE")
		require.NoError(t, err)

		require.Equal(t, a, b)
		require.NotEqual(t, a, c)
	})

	bad := map[string]interface{}{
		"fraction":        1.5,
		"negative":        -1,
		"negative number": json.Number("-3"),
		"object":          map[string]interface{}{},
		"nil":             nil,
	}

	for name, in := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := fieldElement(in)
			require.Error(t, err)
		})
	}
}

func TestBuildInputs(t *testing.T) {
	cred := &credential.Credential{
		ID: "urn:uuid:1",
		Document: map[string]interface{}{
			"credentialSubject": map[string]interface{}{"age": json.Number("30"), "over18": true},
		},
	}

	scope := authorization.ScopeQuery{
		ScopeID: 1,
		Rules: map[string]map[string]interface{}{
			"age":    {"$lt": json.Number("65"), "$gt": json.Number("17")},
			"over18": {"$eq": true},
		},
	}

	secret := make([]byte, 32)
	secret[30] = 1

	public, private, err := buildInputs(scope, cred, secret)
	require.NoError(t, err)
	require.Equal(t, []string{"age", "age", "over18"}, public[InputFields])
	require.Equal(t, []string{"$gt", "$lt", "$eq"}, public[InputOperators])
	require.Equal(t, []string{"17", "65", "1"}, public[InputOperands])
	require.Equal(t, []string{"30", "30", "1"}, private[InputValues])
	require.Equal(t, "1", private[InputHolderSecret])

	t.Run("bad operand", func(t *testing.T) {
		_, _, err := buildInputs(authorization.ScopeQuery{
			Rules: map[string]map[string]interface{}{"age": {"$lt": "x"}},
		}, &credential.Credential{Document: map[string]interface{}{
			"credentialSubject": map[string]interface{}{"age": []interface{}{1}},
		}}, secret)
		require.ErrorIs(t, err, authorization.ErrProverFailure)
	})
}
