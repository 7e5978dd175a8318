/*
Package emit implements helpers for NeoVM script creation. Every function
writes to the given BinWriter and reports failures through its Err.
*/
package emit

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/r3e-network/neokit/pkg/core/interop/interopnames"
	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/smartcontract/callflag"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/r3e-network/neokit/pkg/vm/opcode"
)

// ErrUnsupportedType is returned by Array for parameters that can't be
// pushed.
var ErrUnsupportedType = errors.New("unsupported type")

// Instruction emits a VM Instruction with data to the given buffer.
func Instruction(w *io.BinWriter, op opcode.Opcode, b []byte) {
	w.WriteB(byte(op))
	w.WriteBytes(b)
}

// Opcodes emits a single VM Instruction without arguments to the given buffer.
func Opcodes(w *io.BinWriter, ops ...opcode.Opcode) {
	for _, op := range ops {
		w.WriteB(byte(op))
	}
}

// Bool emits a bool type to the given buffer.
func Bool(w *io.BinWriter, ok bool) {
	var opVal = opcode.PUSHT
	if !ok {
		opVal = opcode.PUSHF
	}
	Opcodes(w, opVal)
}

// Int emits an int type to the given buffer.
func Int(w *io.BinWriter, i int64) {
	if smallInt(w, i) {
		return
	}
	bigInt(w, big.NewInt(i))
}

// BigInt emits a big-integer to the given buffer, values that don't fit into
// 256 bits make an error.
func BigInt(w *io.BinWriter, n *big.Int) {
	if n.IsInt64() && smallInt(w, n.Int64()) {
		return
	}
	bigInt(w, n)
}

func smallInt(w *io.BinWriter, i int64) bool {
	switch {
	case i == -1:
		Opcodes(w, opcode.PUSHM1)
	case i >= 0 && i <= 16:
		Opcodes(w, opcode.PUSH0+opcode.Opcode(i))
	default:
		return false
	}
	return true
}

func bigInt(w *io.BinWriter, n *big.Int) {
	if w.Err != nil {
		return
	}
	buf := toLE(n)
	for op, size := opcode.PUSHINT8, 1; op <= opcode.PUSHINT256; op, size = op+1, size*2 {
		if len(buf) <= size {
			Instruction(w, op, padRight(size, buf, n.Sign() < 0))
			return
		}
	}
	w.Err = fmt.Errorf("%w: integer is too big (%d bytes)", ErrUnsupportedType, len(buf))
}

// toLE returns minimal two's complement LE representation of n.
func toLE(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{0}
	}
	var abs = n
	if n.Sign() < 0 {
		// Two's complement of -x is ^(x-1).
		abs = new(big.Int).Neg(n)
		abs.Sub(abs, big.NewInt(1))
	}
	be := abs.Bytes()
	res := make([]byte, len(be), len(be)+1)
	for i := range be {
		res[i] = be[len(be)-1-i]
	}
	if len(res) == 0 || res[len(res)-1]&0x80 != 0 {
		res = append(res, 0)
	}
	if n.Sign() < 0 {
		for i := range res {
			res[i] = ^res[i]
		}
	}
	return res
}

func padRight(s int, buf []byte, negative bool) []byte {
	res := make([]byte, s)
	copy(res, buf)
	if negative {
		for i := len(buf); i < s; i++ {
			res[i] = 0xFF
		}
	}
	return res
}

// Array emits an array of elements to the given buffer.
func Array(w *io.BinWriter, es ...any) {
	if len(es) == 0 {
		Opcodes(w, opcode.NEWARRAY0)
		return
	}
	for i := len(es) - 1; i >= 0; i-- {
		Any(w, es[i])
		if w.Err != nil {
			return
		}
	}
	Int(w, int64(len(es)))
	Opcodes(w, opcode.PACK)
}

// Any emits a single value of any type supported by Array, nil is emitted
// as PUSHNULL.
func Any(w *io.BinWriter, e any) {
	switch e := e.(type) {
	case []any:
		Array(w, e...)
	case int64:
		Int(w, e)
	case int:
		Int(w, int64(e))
	case uint32:
		Int(w, int64(e))
	case *big.Int:
		BigInt(w, e)
	case string:
		String(w, e)
	case util.Uint160:
		Bytes(w, e.BytesBE())
	case util.Uint256:
		Bytes(w, e.BytesBE())
	case []byte:
		Bytes(w, e)
	case bool:
		Bool(w, e)
	case nil:
		Opcodes(w, opcode.PUSHNULL)
	default:
		w.Err = fmt.Errorf("%w: %T", ErrUnsupportedType, e)
	}
}

// String emits a string to the given buffer.
func String(w *io.BinWriter, s string) {
	Bytes(w, []byte(s))
}

// Bytes emits a byte array to the given buffer.
func Bytes(w *io.BinWriter, b []byte) {
	var n = len(b)

	switch {
	case n < 0x100:
		Instruction(w, opcode.PUSHDATA1, []byte{byte(n)})
	case n < 0x10000:
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(n))
		Instruction(w, opcode.PUSHDATA2, buf)
	default:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(n))
		Instruction(w, opcode.PUSHDATA4, buf)
	}
	w.WriteBytes(b)
}

// Syscall emits the syscall API to the given buffer.
// Syscall API string cannot be 0.
func Syscall(w *io.BinWriter, api string) {
	if w.Err != nil {
		return
	} else if len(api) == 0 {
		w.Err = errors.New("syscall api cannot be of length 0")
		return
	}
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, interopnames.ToID([]byte(api)))
	Instruction(w, opcode.SYSCALL, buf)
}

// AppCall emits SYSCALL with System.Contract.Call parameter for given contract, operation, call flag and arguments.
func AppCall(w *io.BinWriter, scriptHash util.Uint160, operation string, f callflag.CallFlag, args ...any) {
	Array(w, args...)
	Int(w, int64(f))
	String(w, operation)
	Bytes(w, scriptHash.BytesBE())
	Syscall(w, interopnames.SystemContractCall)
}

// AppCallNoArgs emits call to the provided contract without arguments.
func AppCallNoArgs(w *io.BinWriter, scriptHash util.Uint160, operation string, f callflag.CallFlag) {
	Opcodes(w, opcode.NEWARRAY0)
	Int(w, int64(f))
	String(w, operation)
	Bytes(w, scriptHash.BytesBE())
	Syscall(w, interopnames.SystemContractCall)
}
