package nef

import (
	"errors"
	"fmt"
	"strings"

	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/smartcontract/callflag"
	"github.com/r3e-network/neokit/pkg/util"
)

// maxMethodLength is the maximum length of method.
const maxMethodLength = 32

var (
	errInvalidMethodName = errors.New("method name should't start with '_'")
	errInvalidCallFlag   = errors.New("invalid call flag")
)

// MethodToken is contract method description.
type MethodToken struct {
	// Hash is contract hash.
	Hash util.Uint160 `json:"hash"`
	// Method is method name.
	Method string `json:"method"`
	// ParamCount is method parameter count.
	ParamCount uint16 `json:"paramcount"`
	// HasReturn is true if method returns value.
	HasReturn bool `json:"hasreturnvalue"`
	// CallFlag is a set of call flags the method will be called with.
	CallFlag callflag.CallFlag `json:"callflags"`
}

// Validate checks method name and call flags of the token.
func (t *MethodToken) Validate() error {
	if len(t.Method) > maxMethodLength {
		return fmt.Errorf("%w: method name is %d bytes long, max %d", neoerr.ErrValidation, len(t.Method), maxMethodLength)
	}
	if strings.HasPrefix(t.Method, "_") {
		return fmt.Errorf("%w: %w: %q", neoerr.ErrValidation, errInvalidMethodName, t.Method)
	}
	if !t.CallFlag.IsValid() {
		return fmt.Errorf("%w: %w: %d", neoerr.ErrValidation, errInvalidCallFlag, t.CallFlag)
	}
	return nil
}

// EncodeBinary implements io.Serializable.
func (t *MethodToken) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(t.Hash[:])
	w.WriteString(t.Method)
	w.WriteU16LE(t.ParamCount)
	w.WriteBool(t.HasReturn)
	w.WriteB(byte(t.CallFlag))
}

// DecodeBinary implements io.Serializable.
func (t *MethodToken) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(t.Hash[:])
	t.Method = r.ReadString(maxMethodLength)
	if r.Err == nil && strings.HasPrefix(t.Method, "_") {
		r.Err = fmt.Errorf("%w: %w", neoerr.ErrFormat, errInvalidMethodName)
		return
	}
	t.ParamCount = r.ReadU16LE()
	t.HasReturn = r.ReadBool()
	t.CallFlag = callflag.CallFlag(r.ReadB())
	if r.Err == nil && !t.CallFlag.IsValid() {
		r.Err = fmt.Errorf("%w: %w", neoerr.ErrFormat, errInvalidCallFlag)
	}
}
