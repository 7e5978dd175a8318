package transaction

import (
	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/util"
)

// Conflicts represents attribute for conflicting transactions.
type Conflicts struct {
	Hash util.Uint256 `json:"hash"`
}

// DecodeBinary implements the io.Serializable interface.
func (c *Conflicts) DecodeBinary(br *io.BinReader) {
	c.Hash.DecodeBinary(br)
}

// EncodeBinary implements the io.Serializable interface.
func (c *Conflicts) EncodeBinary(w *io.BinWriter) {
	c.Hash.EncodeBinary(w)
}

// Copy implements the AttrValue interface.
func (c *Conflicts) Copy() AttrValue {
	cp := *c
	return &cp
}
