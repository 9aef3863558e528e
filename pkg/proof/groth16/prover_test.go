/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package groth16

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghostid/wallet-agent/pkg/proof"
)

func ageInputs(age string, op string) (proof.Inputs, proof.Inputs) {
	public := proof.Inputs{
		proof.InputFields:    []string{"age"},
		proof.InputOperators: []string{op},
		proof.InputOperands:  []string{"18"},
	}

	private := proof.Inputs{
		proof.InputValues:       []string{age},
		proof.InputHolderSecret: "123456789",
	}

	return public, private
}

func TestProver_Prove(t *testing.T) {
	p := New()

	t.Run("satisfied predicate", func(t *testing.T) {
		public, private := ageInputs("25", proof.OpGreaterOrEqual)

		res, err := p.Prove(context.Background(), "credentialAtomicQueryMTP", public, private)
		require.NoError(t, err)
		require.Equal(t, []string{"18"}, res.PubSignals)
		require.Equal(t, proof.ProtocolGroth16, res.Proof.Protocol)
		require.Equal(t, "bn128", res.Proof.Curve)
		require.Len(t, res.Proof.A, 3)
		require.Len(t, res.Proof.B, 3)
		require.Len(t, res.Proof.C, 3)
		require.NotEmpty(t, res.Proof.A[0])
	})

	t.Run("keys are cached per operator layout", func(t *testing.T) {
		public, private := ageInputs("30", proof.OpGreaterOrEqual)

		_, err := p.Prove(context.Background(), "credentialAtomicQueryMTP", public, private)
		require.NoError(t, err)
		require.Equal(t, 1, p.keys.Len(false))
	})

	t.Run("unsatisfied predicate", func(t *testing.T) {
		public, private := ageInputs("16", proof.OpGreaterOrEqual)

		_, err := p.Prove(context.Background(), "credentialAtomicQueryMTP", public, private)
		require.Error(t, err)
	})

	t.Run("zero holder secret", func(t *testing.T) {
		public, private := ageInputs("25", proof.OpGreaterOrEqual)
		private[proof.InputHolderSecret] = "0"

		_, err := p.Prove(context.Background(), "credentialAtomicQueryMTP", public, private)
		require.Error(t, err)
	})

	t.Run("unsupported operator", func(t *testing.T) {
		public, private := ageInputs("25", "$in")

		_, err := p.Prove(context.Background(), "credentialAtomicQueryMTP", public, private)
		require.EqualError(t, err, `unsupported operator "$in"`)
	})

	t.Run("length mismatch", func(t *testing.T) {
		public, private := ageInputs("25", proof.OpGreaterOrEqual)
		private[proof.InputValues] = []string{"25", "26"}

		_, err := p.Prove(context.Background(), "credentialAtomicQueryMTP", public, private)
		require.Error(t, err)
		require.Contains(t, err.Error(), "input length mismatch")
	})

	t.Run("invalid number", func(t *testing.T) {
		public, private := ageInputs("twenty", proof.OpGreaterOrEqual)

		_, err := p.Prove(context.Background(), "credentialAtomicQueryMTP", public, private)
		require.Error(t, err)
		require.Contains(t, err.Error(), "is not a decimal number")
	})

	t.Run("missing holder secret", func(t *testing.T) {
		public, private := ageInputs("25", proof.OpGreaterOrEqual)
		delete(private, proof.InputHolderSecret)

		_, err := p.Prove(context.Background(), "credentialAtomicQueryMTP", public, private)
		require.Error(t, err)
	})

	t.Run("wrong input type", func(t *testing.T) {
		public, private := ageInputs("25", proof.OpGreaterOrEqual)
		public[proof.InputOperators] = "$gte"

		_, err := p.Prove(context.Background(), "credentialAtomicQueryMTP", public, private)
		require.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		public, private := ageInputs("25", proof.OpLessThan)
		private[proof.InputValues] = []string{"5"}

		_, err := New().Prove(ctx, "credentialAtomicQuerySig", public, private)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestQueryCircuit_Operators(t *testing.T) {
	p := New(WithCacheSize(8))

	tests := []struct {
		op      string
		value   string
		operand string
		ok      bool
	}{
		{proof.OpEqual, "7", "7", true},
		{proof.OpEqual, "7", "8", false},
		{proof.OpNotEqual, "7", "8", true},
		{proof.OpNotEqual, "7", "7", false},
		{proof.OpLessThan, "7", "8", true},
		{proof.OpLessThan, "8", "8", false},
		{proof.OpLessOrEqual, "8", "8", true},
		{proof.OpGreaterThan, "9", "8", true},
		{proof.OpGreaterThan, "8", "8", false},
		{proof.OpGreaterOrEqual, "7", "8", false},
	}

	for _, tc := range tests {
		t.Run(tc.op+" "+tc.value+" "+tc.operand, func(t *testing.T) {
			public := proof.Inputs{
				proof.InputOperators: []string{tc.op},
				proof.InputOperands:  []string{tc.operand},
			}
			private := proof.Inputs{
				proof.InputValues:       []string{tc.value},
				proof.InputHolderSecret: "1",
			}

			_, err := p.Prove(context.Background(), "credentialAtomicQueryV3", public, private)
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestCacheKey(t *testing.T) {
	key := cacheKey("c", []string{"$eq", "$lt"})
	require.Equal(t, "c|$eq,$lt", key)
	require.Equal(t, []string{"$eq", "$lt"}, operatorsOf(key))
	require.Nil(t, operatorsOf(cacheKey("c", nil)))
}
