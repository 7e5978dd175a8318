package transaction

import (
	"fmt"

	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/neoerr"
)

// AttrValue represents a Transaction Attribute value.
type AttrValue interface {
	io.Serializable
	// Copy returns a deep copy of the attribute value.
	Copy() AttrValue
}

// Attribute represents a Transaction attribute.
type Attribute struct {
	Type  AttrType
	Value AttrValue
}

// DecodeBinary implements the Serializable interface.
func (attr *Attribute) DecodeBinary(br *io.BinReader) {
	attr.Type = AttrType(br.ReadB())
	if br.Err != nil {
		return
	}

	var val AttrValue
	switch t := attr.Type; t {
	case HighPriority:
		return
	case OracleResponseT:
		val = new(OracleResponse)
	case NotValidBeforeT:
		val = new(NotValidBefore)
	case ConflictsT:
		val = new(Conflicts)
	default:
		br.Err = fmt.Errorf("%w: failed decoding TX attribute usage: 0x%2x", neoerr.ErrFormat, int(attr.Type))
		return
	}
	val.DecodeBinary(br)
	attr.Value = val
}

// EncodeBinary implements the Serializable interface.
func (attr *Attribute) EncodeBinary(bw *io.BinWriter) {
	bw.WriteB(byte(attr.Type))
	switch t := attr.Type; t {
	case HighPriority:
	case OracleResponseT, NotValidBeforeT, ConflictsT:
		attr.Value.EncodeBinary(bw)
	default:
		bw.Err = fmt.Errorf("%w: failed encoding TX attribute usage: 0x%2x", neoerr.ErrValidation, attr.Type)
	}
}

// Copy creates a deep copy of the Attribute.
func (attr *Attribute) Copy() *Attribute {
	if attr == nil {
		return nil
	}
	cp := &Attribute{
		Type: attr.Type,
	}
	if attr.Value != nil {
		cp.Value = attr.Value.Copy()
	}
	return cp
}
