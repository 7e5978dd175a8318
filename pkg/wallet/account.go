/*
Package wallet provides accounts able to witness transactions: standard
signature accounts backed by a private key, multisignature accounts and
deployed contract accounts. Wallet file (NEP-6) handling is not a part of it.
*/
package wallet

import (
	"fmt"

	"github.com/r3e-network/neokit/pkg/core/transaction"
	"github.com/r3e-network/neokit/pkg/crypto/hash"
	"github.com/r3e-network/neokit/pkg/crypto/hd"
	"github.com/r3e-network/neokit/pkg/crypto/keys"
	"github.com/r3e-network/neokit/pkg/encoding/address"
	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/smartcontract"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/r3e-network/neokit/pkg/vm/emit"
	"github.com/r3e-network/neokit/pkg/vm/opcode"
)

// Account represents a NEO account. It holds the private key (if any) along
// with the contract used to verify account's witnesses.
type Account struct {
	// NEO private key.
	privateKey *keys.PrivateKey

	scriptHash util.Uint160

	// NEO public address.
	Address string `json:"address"`

	// Label is a label the user had made for this account.
	Label string `json:"label"`

	// Contract is a Contract object which describes the details of the contract.
	// This field can be nil (for watch-only address).
	Contract *Contract `json:"contract"`

	// Indicates whether the account is locked by the user.
	// the client shouldn't spend the funds in a locked account.
	Locked bool `json:"lock"`

	// Indicates whether the account is the default change account.
	Default bool `json:"isDefault"`
}

// ErrAccountLocked is returned on attempt to sign with a locked account.
var ErrAccountLocked = fmt.Errorf("%w: account is locked", neoerr.ErrUnsupportedOperation)

// NewAccount creates a new Account with a random generated PrivateKey.
func NewAccount() (*Account, error) {
	priv, err := keys.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(priv), nil
}

// NewAccountFromWIF creates a new Account from the given WIF.
func NewAccountFromWIF(wif string) (*Account, error) {
	privKey, err := keys.NewPrivateKeyFromWIF(wif)
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(privKey), nil
}

// NewAccountFromHDKey creates a new Account from the private extended key.
func NewAccountFromHDKey(k *hd.ExtendedKey) (*Account, error) {
	priv, err := k.PrivateKey()
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(priv), nil
}

// NewAccountFromPrivateKey creates a standard signature account from the given
// PrivateKey. The account owns the key, it's destroyed by Close.
func NewAccountFromPrivateKey(p *keys.PrivateKey) *Account {
	pubKey := p.PublicKey()

	return &Account{
		privateKey: p,
		scriptHash: pubKey.GetScriptHash(),
		Address:    pubKey.Address(),
		Contract: &Contract{
			Script:     pubKey.GetVerificationScript(),
			Parameters: getContractParams(1),
		},
	}
}

// NewContractAccount creates a watch-only account for a deployed contract
// with the given hash. Invocation parameters are pushed as is into the
// invocation script of the contract witness when transaction is signed.
func NewContractAccount(h util.Uint160, params ...smartcontract.Parameter) *Account {
	cparams := make([]ContractParam, len(params))
	for i := range params {
		cparams[i] = ContractParam{
			Name: fmt.Sprintf("parameter%d", i),
			Type: params[i].Type,
		}
	}
	return &Account{
		scriptHash: h,
		Address:    address.Uint160ToString(h),
		Contract: &Contract{
			Parameters:       cparams,
			Deployed:         true,
			InvocationParams: params,
		},
	}
}

// ConvertMultisig sets a's contract to multisig contract with m sufficient
// signatures. Own public key must be among the keys given.
func (a *Account) ConvertMultisig(m int, pubs keys.PublicKeys) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if a.privateKey == nil {
		return fmt.Errorf("%w: account key is not available", neoerr.ErrCrypto)
	}
	if !pubs.Contains(a.privateKey.PublicKey()) {
		return fmt.Errorf("%w: own public key was not found among multisig keys", neoerr.ErrConfiguration)
	}

	script, err := smartcontract.CreateMultiSigRedeemScript(m, pubs)
	if err != nil {
		return err
	}

	a.scriptHash = hash.Hash160(script)
	a.Address = address.Uint160ToString(a.scriptHash)
	a.Contract = &Contract{
		Script:     script,
		Parameters: getContractParams(m),
	}

	return nil
}

// ScriptHash returns the script hash (account) of the Account.
func (a *Account) ScriptHash() util.Uint160 {
	if a.scriptHash.Equals(util.Uint160{}) && a.Contract != nil && len(a.Contract.Script) != 0 {
		return a.Contract.ScriptHash()
	}
	return a.scriptHash
}

// PrivateKey returns private key corresponding to the account if it's
// available.
func (a *Account) PrivateKey() *keys.PrivateKey {
	return a.privateKey
}

// PublicKey returns the public key corresponding to the private key of the
// account if it's available.
func (a *Account) PublicKey() *keys.PublicKey {
	if a.privateKey == nil {
		return nil
	}
	return a.privateKey.PublicKey()
}

// IsMultiSig checks whether the account is a multisignature one.
func (a *Account) IsMultiSig() bool {
	return a.Contract != nil && !a.Contract.Deployed && smartcontract.IsMultiSigContract(a.Contract.Script)
}

// CanSign returns true when account is not locked and can produce a complete
// witness for transactions: it either has a private key for a standard
// signature contract or it's a deployed contract account.
func (a *Account) CanSign() bool {
	if a.Locked || a.Contract == nil {
		return false
	}
	if a.Contract.Deployed {
		return true
	}
	return a.privateKey != nil && !a.IsMultiSig()
}

// SignTx signs transaction t and updates it's Witnesses. The account must be
// among t's signers, witnesses of preceding signers must already be present.
func (a *Account) SignTx(net uint32, t *transaction.Transaction) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if a.Contract == nil {
		return fmt.Errorf("%w: account has no contract", neoerr.ErrConfiguration)
	}
	accHash := a.ScriptHash()
	pos := -1
	for i := range t.Signers {
		if t.Signers[i].Account.Equals(accHash) {
			pos = i
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("%w: transaction is not signed by this account", neoerr.ErrConfiguration)
	}
	if len(t.Scripts) < pos {
		return fmt.Errorf("%w: transaction is not yet signed by the previous signer", neoerr.ErrConfiguration)
	}

	var wit transaction.Witness
	switch {
	case a.Contract.Deployed:
		invoc, err := a.Contract.InvocationScript()
		if err != nil {
			return err
		}
		wit.InvocationScript = invoc
	case a.IsMultiSig():
		return fmt.Errorf("%w: multisignature account %s can't be signed automatically",
			neoerr.ErrUnsupportedOperation, a.Address)
	case a.privateKey == nil:
		return fmt.Errorf("%w: account key is not available", neoerr.ErrCrypto)
	default:
		sign := a.privateKey.SignHashable(net, t)
		wit.InvocationScript = append([]byte{byte(opcode.PUSHDATA1), keys.SignatureLen}, sign...)
		wit.VerificationScript = a.Contract.Script
	}
	if len(t.Scripts) == pos {
		t.Scripts = append(t.Scripts, wit)
	} else {
		t.Scripts[pos] = wit
	}
	return nil
}

// Close destroys the private key of the account (if any), it can't sign
// anything after that.
func (a *Account) Close() {
	if a.privateKey == nil {
		return
	}
	a.privateKey.Destroy()
	a.privateKey = nil
}

// InvocationScript returns an invocation script pushing InvocationParams of
// a deployed contract.
func (c *Contract) InvocationScript() ([]byte, error) {
	if len(c.InvocationParams) != len(c.Parameters) {
		return nil, fmt.Errorf("%w: %d parameters must be provided to construct invocation script, got %d",
			neoerr.ErrConfiguration, len(c.Parameters), len(c.InvocationParams))
	}
	w := io.NewBufBinWriter()
	for _, p := range c.InvocationParams {
		v, err := smartcontract.ExpandParameterToEmitable(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", neoerr.ErrConfiguration, err)
		}
		emit.Any(w.BinWriter, v)
	}
	if w.Err != nil {
		return nil, fmt.Errorf("%w: %w", neoerr.ErrConfiguration, w.Err)
	}
	return w.Bytes(), nil
}

func getContractParams(n int) []ContractParam {
	params := make([]ContractParam, n)
	for i := range params {
		params[i].Name = fmt.Sprintf("parameter%d", i)
		params[i].Type = smartcontract.SignatureType
	}

	return params
}
