// Package nativenames contains names of the native contracts deployed on
// every N3 network.
package nativenames

// Names of all native contracts.
const (
	Management  = "ContractManagement"
	Ledger      = "LedgerContract"
	Neo         = "NeoToken"
	Gas         = "GasToken"
	Policy      = "PolicyContract"
	Oracle      = "OracleContract"
	Designation = "RoleManagement"
	Notary      = "Notary"
	CryptoLib   = "CryptoLib"
	StdLib      = "StdLib"
)

// All is the list of all native contract names.
var All = []string{Management, StdLib, CryptoLib, Ledger, Neo, Gas, Policy, Designation, Oracle, Notary}

// IsValid checks if the name is a valid native contract's name.
func IsValid(name string) bool {
	for _, n := range All {
		if n == name {
			return true
		}
	}
	return false
}
