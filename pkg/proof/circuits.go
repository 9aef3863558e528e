/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package proof

import "sort"

// ProtocolGroth16 is the proving system of all supported circuits.
const ProtocolGroth16 = "groth16"

// Circuit describes a supported circuit.
type Circuit struct {
	ID          string
	Description string
	Protocol    string
}

var supportedCircuits = map[string]Circuit{
	"credentialAtomicQueryMTP": {
		ID:          "credentialAtomicQueryMTP",
		Description: "atomic query on a credential issued into the issuer's claims tree",
		Protocol:    ProtocolGroth16,
	},
	"credentialAtomicQuerySig": {
		ID:          "credentialAtomicQuerySig",
		Description: "atomic query on a credential signed by the issuer",
		Protocol:    ProtocolGroth16,
	},
	"credentialAtomicQueryMTPV2": {
		ID:          "credentialAtomicQueryMTPV2",
		Description: "atomic query on a merklized credential issued into the issuer's claims tree",
		Protocol:    ProtocolGroth16,
	},
	"credentialAtomicQuerySigV2": {
		ID:          "credentialAtomicQuerySigV2",
		Description: "atomic query on a merklized credential signed by the issuer",
		Protocol:    ProtocolGroth16,
	},
	"credentialAtomicQueryV3": {
		ID:          "credentialAtomicQueryV3",
		Description: "atomic query supporting both issuance proof types",
		Protocol:    ProtocolGroth16,
	},
}

// LookupCircuit returns the supported circuit with the given id.
func LookupCircuit(id string) (Circuit, bool) {
	c, ok := supportedCircuits[id]

	return c, ok
}

// SupportedCircuits returns the ids of all supported circuits, sorted.
func SupportedCircuits() []string {
	ids := make([]string, 0, len(supportedCircuits))

	for id := range supportedCircuits {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
