/*
Package nativehashes contains hashes of all native contracts in their LE and
Uint160 representation.
*/
package nativehashes

import (
	"github.com/r3e-network/neokit/pkg/core/native/nativenames"
	"github.com/r3e-network/neokit/pkg/smartcontract"
	"github.com/r3e-network/neokit/pkg/util"
)

// Hashes of all native contracts.
var (
	Management  = CreateNativeContractHash(nativenames.Management)
	Ledger      = CreateNativeContractHash(nativenames.Ledger)
	Neo         = CreateNativeContractHash(nativenames.Neo)
	Gas         = CreateNativeContractHash(nativenames.Gas)
	Policy      = CreateNativeContractHash(nativenames.Policy)
	Oracle      = CreateNativeContractHash(nativenames.Oracle)
	Designation = CreateNativeContractHash(nativenames.Designation)
	Notary      = CreateNativeContractHash(nativenames.Notary)
	CryptoLib   = CreateNativeContractHash(nativenames.CryptoLib)
	StdLib      = CreateNativeContractHash(nativenames.StdLib)
)

// CreateNativeContractHash calculates the hash for the native contract with the
// given name.
func CreateNativeContractHash(name string) util.Uint160 {
	return smartcontract.CreateContractHash(util.Uint160{}, 0, name)
}
