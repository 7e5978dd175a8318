package smartcontract

import (
	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/smartcontract/callflag"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/r3e-network/neokit/pkg/vm/emit"
	"github.com/r3e-network/neokit/pkg/vm/opcode"
)

// Builder is used to create transaction entry scripts from contract calls.
// Calls can be composed together to perform several actions in the same
// transaction, the end result depends only on the script contents. Calls
// emitted by InvokeMethod don't limit flags in any way (callflag.All is used).
type Builder struct {
	bw *io.BufBinWriter
}

// NewBuilder creates a new Builder instance.
func NewBuilder() *Builder {
	return &Builder{bw: io.NewBufBinWriter()}
}

// InvokeMethod packs all of the arguments given into an array and calls some
// method of the contract. Whatever the method returns remains on the stack.
func (b *Builder) InvokeMethod(contract util.Uint160, method string, params ...any) {
	b.InvokeMethodWithFlags(contract, method, callflag.All, params...)
}

// InvokeMethodWithFlags is the same as InvokeMethod, but with the given
// call flags.
func (b *Builder) InvokeMethodWithFlags(contract util.Uint160, method string, f callflag.CallFlag, params ...any) {
	emit.AppCall(b.bw.BinWriter, contract, method, f, params...)
}

// Assert emits an ASSERT opcode that expects a Boolean value to be on the stack,
// checks if it's true and aborts the transaction if it's not.
func (b *Builder) Assert() {
	emit.Opcodes(b.bw.BinWriter, opcode.ASSERT)
}

// InvokeWithAssert emits an invocation of the method (see InvokeMethod) with
// an ASSERT after the invocation. NEP-17 'transfer' is a typical method to
// be used this way, a failed transfer then fails the whole transaction.
func (b *Builder) InvokeWithAssert(contract util.Uint160, method string, params ...any) {
	b.InvokeMethod(contract, method, params...)
	b.Assert()
}

// Len returns the current script length.
func (b *Builder) Len() int {
	return b.bw.Len()
}

// Script return current script, you can't use Builder after invoking this method
// unless you Reset it.
func (b *Builder) Script() ([]byte, error) {
	err := b.bw.Err
	return b.bw.Bytes(), err
}

// Reset resets the Builder, allowing to reuse the same script buffer (but
// previous script will be overwritten there).
func (b *Builder) Reset() {
	b.bw.Reset()
}
