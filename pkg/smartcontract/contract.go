package smartcontract

import (
	"fmt"
	"sort"

	"github.com/r3e-network/neokit/pkg/core/interop/interopnames"
	"github.com/r3e-network/neokit/pkg/crypto/hash"
	"github.com/r3e-network/neokit/pkg/crypto/keys"
	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/smartcontract/callflag"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/r3e-network/neokit/pkg/vm/emit"
	"github.com/r3e-network/neokit/pkg/vm/opcode"
)

// MaxMultisigKeys is the maximum number of keys in a multisignature contract.
const MaxMultisigKeys = 1024

// ErrInvalidMultisig is returned for bad multisignature contract parameters.
var ErrInvalidMultisig = fmt.Errorf("%w: invalid multisignature parameters", neoerr.ErrValidation)

// CreateSignatureRedeemScript creates a standard signature verification
// script for the given key.
func CreateSignatureRedeemScript(pub *keys.PublicKey) []byte {
	return pub.GetVerificationScript()
}

// CreateMultiSigRedeemScript creates an "m out of n" type verification script
// where n is the length of publicKeys. Keys are sorted in the resulting
// script, the given slice is not changed.
func CreateMultiSigRedeemScript(m int, publicKeys keys.PublicKeys) ([]byte, error) {
	if m < 1 {
		return nil, fmt.Errorf("%w: m cannot be smaller than 1, got %d", ErrInvalidMultisig, m)
	}
	if m > len(publicKeys) {
		return nil, fmt.Errorf("%w: length of the signatures (%d) is higher then the number of public keys", ErrInvalidMultisig, m)
	}
	if len(publicKeys) > MaxMultisigKeys {
		return nil, fmt.Errorf("%w: too many public keys: %d", ErrInvalidMultisig, len(publicKeys))
	}

	buf := io.NewBufBinWriter()
	emit.Int(buf.BinWriter, int64(m))
	publicKeys = publicKeys.Copy()
	sort.Sort(publicKeys)
	for _, pubKey := range publicKeys {
		emit.Bytes(buf.BinWriter, pubKey.Bytes())
	}
	emit.Int(buf.BinWriter, int64(len(publicKeys)))
	emit.Syscall(buf.BinWriter, interopnames.SystemCryptoCheckMultisig)

	if buf.Err != nil {
		return nil, buf.Err
	}
	return buf.Bytes(), nil
}

// GetDefaultHonestNodeCount returns minimum number of honest nodes
// required for network of size n.
func GetDefaultHonestNodeCount(n int) int {
	return n - (n-1)/3
}

// GetMajorityHonestNodeCount returns minimum number of honest nodes
// required for majority-style agreement.
func GetMajorityHonestNodeCount(n int) int {
	return n - (n-1)/2
}

// CreateDefaultMultiSigRedeemScript creates an "m out of n" type verification script
// using publicKeys length with the default BFT assumptions of (n - (n-1)/3) for m.
func CreateDefaultMultiSigRedeemScript(publicKeys keys.PublicKeys) ([]byte, error) {
	n := len(publicKeys)
	m := GetDefaultHonestNodeCount(n)
	return CreateMultiSigRedeemScript(m, publicKeys)
}

// CreateMajorityMultiSigRedeemScript creates an "m out of n" type verification script
// using publicKeys length with m set to majority.
func CreateMajorityMultiSigRedeemScript(publicKeys keys.PublicKeys) ([]byte, error) {
	n := len(publicKeys)
	m := GetMajorityHonestNodeCount(n)
	return CreateMultiSigRedeemScript(m, publicKeys)
}

// CreateContractHash creates a deployed contract hash from the transaction
// sender and the contract NEF checksum and name.
func CreateContractHash(sender util.Uint160, checksum uint32, name string) util.Uint160 {
	w := io.NewBufBinWriter()
	emit.Opcodes(w.BinWriter, opcode.ABORT)
	emit.Bytes(w.BinWriter, sender.BytesBE())
	emit.Int(w.BinWriter, int64(checksum))
	emit.String(w.BinWriter, name)
	if w.Err != nil {
		panic(w.Err)
	}
	return hash.Hash160(w.Bytes())
}

// CreateCallScript returns a script that calls contract's method with
// the specified parameters. Whatever this method returns remains on the stack.
func CreateCallScript(contract util.Uint160, method string, params ...any) ([]byte, error) {
	b := NewBuilder()
	b.InvokeMethod(contract, method, params...)
	return b.Script()
}

// CreateCallWithAssertScript returns a script that calls contract's method with
// the specified parameters expecting a Boolean value to be return that then is
// used for ASSERT. See also (*Builder).InvokeWithAssert.
func CreateCallWithAssertScript(contract util.Uint160, method string, params ...any) ([]byte, error) {
	b := NewBuilder()
	b.InvokeWithAssert(contract, method, params...)
	return b.Script()
}

// CreateCallWithFlagsScript is the same as CreateCallScript, but uses the
// given call flags instead of callflag.All.
func CreateCallWithFlagsScript(contract util.Uint160, method string, f callflag.CallFlag, params ...any) ([]byte, error) {
	b := NewBuilder()
	b.InvokeMethodWithFlags(contract, method, f, params...)
	return b.Script()
}
