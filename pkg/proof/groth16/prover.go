/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package groth16 is an in-process proof.Prover over BN254. Circuit keys are generated locally on first
// use of an operator layout and kept in an LRU cache, which suits development and tests; production
// wallets use pkg/proof/remote against a prover holding ceremony keys.
package groth16

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/bluele/gcache"
	"github.com/consensys/gnark-crypto/ecc"
	g16 "github.com/consensys/gnark/backend/groth16"
	g16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/ghostid/wallet-agent/pkg/didcomm/protocol/authorization"
	"github.com/ghostid/wallet-agent/pkg/proof"
)

const (
	curveID = ecc.BN254

	// curveName is the name verifiers use for BN254.
	curveName = "bn128"

	defaultCacheSize = 16
)

var logger = log.New("ghostid/proof/groth16")

type circuitKeys struct {
	ccs constraint.ConstraintSystem
	pk  g16.ProvingKey
	vk  g16.VerifyingKey
}

// Option configures a Prover.
type Option func(p *Prover)

// WithCacheSize sets how many compiled circuits are kept.
func WithCacheSize(size int) Option {
	return func(p *Prover) {
		p.cacheSize = size
	}
}

// Prover proves scopes in-process.
type Prover struct {
	cacheSize int
	keys      gcache.Cache
}

// New returns an in-process groth16 prover.
func New(opts ...Option) *Prover {
	p := &Prover{cacheSize: defaultCacheSize}

	for _, opt := range opts {
		opt(p)
	}

	p.keys = gcache.New(p.cacheSize).LRU().LoaderFunc(func(key interface{}) (interface{}, error) {
		k, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("invalid cache key %v", key)
		}

		return setup(operatorsOf(k))
	}).Build()

	return p
}

// Prove implements proof.Prover.
func (p *Prover) Prove(ctx context.Context, circuitID string, public, private proof.Inputs) (*proof.Result, error) {
	operators, err := stringsInput(public, proof.InputOperators)
	if err != nil {
		return nil, err
	}

	if err = checkOperators(operators); err != nil {
		return nil, err
	}

	assignment, err := assign(operators, public, private)
	if err != nil {
		return nil, err
	}

	signals, err := stringsInput(public, proof.InputOperands)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		result *proof.Result
		err    error
	}

	done := make(chan outcome, 1)

	go func() {
		r, e := p.prove(circuitID, operators, signals, assignment)
		done <- outcome{result: r, err: e}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-done:
		return o.result, o.err
	}
}

func (p *Prover) prove(circuitID string, operators, signals []string,
	assignment *queryCircuit) (*proof.Result, error) {
	v, err := p.keys.Get(cacheKey(circuitID, operators))
	if err != nil {
		return nil, fmt.Errorf("setup circuit %s: %w", circuitID, err)
	}

	keys, ok := v.(*circuitKeys)
	if !ok {
		return nil, fmt.Errorf("unexpected cache entry %T", v)
	}

	fullWitness, err := frontend.NewWitness(assignment, curveID.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("new witness: %w", err)
	}

	publicWitness, err := fullWitness.Public()
	if err != nil {
		return nil, fmt.Errorf("public witness: %w", err)
	}

	prf, err := g16.Prove(keys.ccs, keys.pk, fullWitness)
	if err != nil {
		return nil, fmt.Errorf("groth16 prove: %w", err)
	}

	if err = g16.Verify(prf, keys.vk, publicWitness); err != nil {
		return nil, fmt.Errorf("groth16 verify: %w", err)
	}

	logger.Debugf("proved %s with %d predicates", circuitID, len(operators))

	encoded, err := encodeProof(prf)
	if err != nil {
		return nil, err
	}

	return &proof.Result{Proof: encoded, PubSignals: signals}, nil
}

func setup(operators []string) (*circuitKeys, error) {
	ccs, err := frontend.Compile(curveID.ScalarField(), r1cs.NewBuilder, newQueryCircuit(operators))
	if err != nil {
		return nil, fmt.Errorf("compile circuit: %w", err)
	}

	pk, vk, err := g16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup: %w", err)
	}

	return &circuitKeys{ccs: ccs, pk: pk, vk: vk}, nil
}

func assign(operators []string, public, private proof.Inputs) (*queryCircuit, error) {
	operands, err := numbersInput(public, proof.InputOperands)
	if err != nil {
		return nil, err
	}

	values, err := numbersInput(private, proof.InputValues)
	if err != nil {
		return nil, err
	}

	if len(operands) != len(operators) || len(values) != len(operators) {
		return nil, fmt.Errorf("input length mismatch: %d operators, %d operands, %d values",
			len(operators), len(operands), len(values))
	}

	secret, ok := private[proof.InputHolderSecret].(string)
	if !ok {
		return nil, fmt.Errorf("missing %s input", proof.InputHolderSecret)
	}

	holder, err := number(secret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", proof.InputHolderSecret, err)
	}

	c := newQueryCircuit(operators)
	c.HolderSecret = holder

	for i := range operators {
		c.Operands[i] = operands[i]
		c.Values[i] = values[i]
	}

	return c, nil
}

func encodeProof(p g16.Proof) (*authorization.Proof, error) {
	bn, ok := p.(*g16bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("unexpected proof type %T", p)
	}

	return &authorization.Proof{
		A: []string{bn.Ar.X.String(), bn.Ar.Y.String(), "1"},
		B: [][]string{
			{bn.Bs.X.A0.String(), bn.Bs.X.A1.String()},
			{bn.Bs.Y.A0.String(), bn.Bs.Y.A1.String()},
			{"1", "0"},
		},
		C:        []string{bn.Krs.X.String(), bn.Krs.Y.String(), "1"},
		Protocol: proof.ProtocolGroth16,
		Curve:    curveName,
	}, nil
}

func cacheKey(circuitID string, operators []string) string {
	return circuitID + "|" + strings.Join(operators, ",")
}

func operatorsOf(key string) []string {
	_, ops, _ := strings.Cut(key, "|")
	if ops == "" {
		return nil
	}

	return strings.Split(ops, ",")
}

func stringsInput(in proof.Inputs, name string) ([]string, error) {
	switch v := in[name].(type) {
	case []string:
		return v, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("input %s: unexpected type %T", name, v)
	}
}

func numbersInput(in proof.Inputs, name string) ([]*big.Int, error) {
	raw, err := stringsInput(in, name)
	if err != nil {
		return nil, err
	}

	nums := make([]*big.Int, len(raw))

	for i, s := range raw {
		if nums[i], err = number(s); err != nil {
			return nil, fmt.Errorf("input %s[%d]: %w", name, i, err)
		}
	}

	return nums, nil
}

func number(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%q is not a decimal number", s)
	}

	return n, nil
}
