package keytestcases

// Ktype represents key testcase values (different encodings of the key).
// ScriptHash is the LE string of the standard verification script hash.
type Ktype struct {
	Address,
	ScriptHash,
	PrivateKey,
	PublicKey,
	Wif string
	Invalid bool
}

// Arr contains a set of known keys in Ktype format.
var Arr = []Ktype{
	{
		Address:    "NPTmAHDxo6Pkyic8Nvu3kwyXoYJCvcCB6i",
		ScriptHash: "a7cbfee3f01f89d58c042644b0b6df2d59a6eb26",
		PrivateKey: "7d128a6d096f0c14c3a25a2b0c41cf79661bfcb4a8cc95aaaea28bde4d732344",
		PublicKey:  "02028a99826edc0c97d18e22b6932373d908d323aa7f92656a77ec26e8861699ef",
		Wif:        "L1QqQJnpBwbsPGAuutuzPTac8piqvbR1HRjrY5qHup48TBCBFe4g",
	},
	{
		Address:    "NMBfzaEq2c5zodiNbLPoohVENARMbJim1r",
		ScriptHash: "118ba6f59931a56ec469770f7fc790ece96df00d",
		PrivateKey: "9ab7e154840daca3a2efadaf0df93cd3a5b51768c632f5433f86909d9b994a69",
		PublicKey:  "031d8e1630ce640966967bc6d95223d21f44304133003140c3b52004dc981349c9",
		Wif:        "L2QTooFoDFyRFTxmtiVHt5CfsXfVnexdbENGDkkrrgTTryiLsPMG",
	},
	{
		Address:    "NfVdwyaJbijrWkRagrvs4eSRQUpP7WpukT",
		ScriptHash: "d709822c653eb57c740fe568f9e321714f79c8d6",
		PrivateKey: "3edee7036b8fd9cef91de47386b191dd76db2888a553e7736bb02808932a915b",
		PublicKey:  "02232ce8d2e2063dce0451131851d47421bfc4fc1da4db116fca5302c0756462fa",
		Wif:        "KyKvWLZsNwBJx5j9nurHYRwhYfdQUu9tTEDsLCUHDbYBL8cHxMiG",
	},
	{
		Address:    "NfVdwyaJbijrWkRagrvs4eSRQUpP7WpukT",
		ScriptHash: "d709822c653eb57c740fe568f9e321714f79c8d6",
		PrivateKey: "3edee7036b8fd9cef91de47386b191dd76db2888a553e7736bb02808932a915",
		PublicKey:  "02232ce8d2e2063dce0451131851d47421bfc4fc1da4db116fca5302c0756462fa",
		Wif:        "KyKvWLZsNwBJx5j9nurHYRwhYfdQUu9tTEDsLCUHDbYBL8cHxMiS",
		Invalid:    true,
	},
}
