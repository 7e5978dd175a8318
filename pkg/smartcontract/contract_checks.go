package smartcontract

import (
	"encoding/binary"

	"github.com/r3e-network/neokit/pkg/core/interop/interopnames"
	"github.com/r3e-network/neokit/pkg/crypto/keys"
	"github.com/r3e-network/neokit/pkg/vm/opcode"
)

var (
	checkSigID      = interopnames.ToID([]byte(interopnames.SystemCryptoCheckSig))
	checkMultisigID = interopnames.ToID([]byte(interopnames.SystemCryptoCheckMultisig))
)

// scriptReader walks the subset of instructions standard verification
// scripts consist of.
type scriptReader struct {
	script []byte
	ip     int
}

func (r *scriptReader) next() (opcode.Opcode, []byte, bool) {
	if r.ip >= len(r.script) {
		return 0, nil, false
	}
	op := opcode.Opcode(r.script[r.ip])
	r.ip++
	var n int
	switch op {
	case opcode.PUSHINT8:
		n = 1
	case opcode.PUSHINT16:
		n = 2
	case opcode.SYSCALL:
		n = 4
	case opcode.PUSHDATA1:
		if r.ip >= len(r.script) {
			return 0, nil, false
		}
		n = int(r.script[r.ip])
		r.ip++
	}
	if r.ip+n > len(r.script) {
		return 0, nil, false
	}
	param := r.script[r.ip : r.ip+n]
	r.ip += n
	return op, param, true
}

func (r *scriptReader) atEnd() bool {
	return r.ip == len(r.script)
}

func getNumOfThingsFromInstr(op opcode.Opcode, param []byte) (int, bool) {
	var nthings int

	switch {
	case opcode.PUSH1 <= op && op <= opcode.PUSH16:
		nthings = int(op-opcode.PUSH1) + 1
	case op == opcode.PUSHINT8:
		nthings = int(int8(param[0]))
	case op == opcode.PUSHINT16:
		nthings = int(int16(binary.LittleEndian.Uint16(param)))
	default:
		return 0, false
	}
	if nthings < 1 || nthings > MaxMultisigKeys {
		return 0, false
	}
	return nthings, true
}

// IsMultiSigContract checks whether the passed script is a multi-signature
// contract.
func IsMultiSigContract(script []byte) bool {
	_, _, ok := ParseMultiSigContract(script)
	return ok
}

// ParseMultiSigContract returns the number of signatures and a list of public keys
// from the verification script of the contract.
func ParseMultiSigContract(script []byte) (int, [][]byte, bool) {
	var nkeys int

	r := &scriptReader{script: script}
	op, param, ok := r.next()
	if !ok {
		return 0, nil, false
	}
	nsigs, ok := getNumOfThingsFromInstr(op, param)
	if !ok {
		return 0, nil, false
	}
	var pubs [][]byte
	for {
		op, param, ok = r.next()
		if !ok {
			return 0, nil, false
		}
		if op != opcode.PUSHDATA1 {
			break
		}
		if len(param) < 33 {
			return 0, nil, false
		}
		pubs = append(pubs, param)
		nkeys++
		if nkeys > MaxMultisigKeys {
			return 0, nil, false
		}
	}
	if nkeys < nsigs {
		return 0, nil, false
	}
	nkeys2, ok := getNumOfThingsFromInstr(op, param)
	if !ok || nkeys2 != nkeys {
		return 0, nil, false
	}
	op, param, ok = r.next()
	if !ok || op != opcode.SYSCALL || binary.LittleEndian.Uint32(param) != checkMultisigID {
		return 0, nil, false
	}
	return nsigs, pubs, r.atEnd()
}

// ParseMultiSigContractKeys is the same as ParseMultiSigContract, but
// also decodes public keys.
func ParseMultiSigContractKeys(script []byte) (int, keys.PublicKeys, bool) {
	m, raw, ok := ParseMultiSigContract(script)
	if !ok {
		return 0, nil, false
	}
	pubs := make(keys.PublicKeys, len(raw))
	for i := range raw {
		pubs[i] = new(keys.PublicKey)
		if err := pubs[i].DecodeBytes(raw[i]); err != nil {
			return 0, nil, false
		}
	}
	return m, pubs, true
}

// IsSignatureContract checks whether the passed script is a signature check
// contract.
func IsSignatureContract(script []byte) bool {
	_, ok := ParseSignatureContract(script)
	return ok
}

// ParseSignatureContract parses a simple signature contract and returns
// a public key.
func ParseSignatureContract(script []byte) ([]byte, bool) {
	if len(script) != 40 {
		return nil, false
	}
	r := &scriptReader{script: script}
	op, param, ok := r.next()
	if !ok || op != opcode.PUSHDATA1 || len(param) != 33 {
		return nil, false
	}
	pub := param
	op, param, ok = r.next()
	if !ok || op != opcode.SYSCALL || binary.LittleEndian.Uint32(param) != checkSigID {
		return nil, false
	}
	return pub, r.atEnd()
}

// IsStandardContract checks whether the passed script is a signature or
// multi-signature contract.
func IsStandardContract(script []byte) bool {
	return IsSignatureContract(script) || IsMultiSigContract(script)
}
