package transaction

import (
	"fmt"
	"slices"

	"github.com/r3e-network/neokit/pkg/crypto/keys"
	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/util"
)

// Signer implements a Transaction signer.
type Signer struct {
	Account          util.Uint160      `json:"account"`
	Scopes           WitnessScope      `json:"scopes"`
	AllowedContracts []util.Uint160    `json:"allowedcontracts,omitempty"`
	AllowedGroups    []*keys.PublicKey `json:"allowedgroups,omitempty"`
	Rules            []WitnessRule     `json:"rules,omitempty"`
}

// EncodeBinary implements the Serializable interface.
func (c *Signer) EncodeBinary(bw *io.BinWriter) {
	bw.WriteBytes(c.Account[:])
	bw.WriteB(byte(c.Scopes))
	if c.Scopes&CustomContracts != 0 {
		bw.WriteArray(c.AllowedContracts)
	}
	if c.Scopes&CustomGroups != 0 {
		bw.WriteArray(c.AllowedGroups)
	}
	if c.Scopes&Rules != 0 {
		bw.WriteArray(c.Rules)
	}
}

// DecodeBinary implements the Serializable interface.
func (c *Signer) DecodeBinary(br *io.BinReader) {
	br.ReadBytes(c.Account[:])
	if br.Err != nil {
		return
	}
	c.Scopes, br.Err = ScopesFromByte(br.ReadB())
	if br.Err != nil {
		return
	}
	if c.Scopes&CustomContracts != 0 {
		br.ReadArray(&c.AllowedContracts, MaxSubitems)
	}
	if c.Scopes&CustomGroups != 0 {
		br.ReadArray(&c.AllowedGroups, MaxSubitems)
	}
	if c.Scopes&Rules != 0 {
		br.ReadArray(&c.Rules, MaxSubitems)
	}
}

// Validate checks signer scopes against the data provided for them.
func (c *Signer) Validate() error {
	if _, err := ScopesFromByte(byte(c.Scopes)); err != nil {
		return fmt.Errorf("%w: %w", neoerr.ErrValidation, err)
	}
	if len(c.AllowedContracts) > MaxSubitems || len(c.AllowedGroups) > MaxSubitems || len(c.Rules) > MaxSubitems {
		return fmt.Errorf("%w: too many subitems in signer %s", neoerr.ErrValidation, c.Account.StringLE())
	}
	for i := range c.Rules {
		if c.Rules[i].Condition == nil {
			return fmt.Errorf("%w: rule %d has no condition", neoerr.ErrValidation, i)
		}
		if err := checkDepth(c.Rules[i].Condition); err != nil {
			return err
		}
	}
	return nil
}

// Copy creates a deep copy of the Signer.
func (c *Signer) Copy() *Signer {
	if c == nil {
		return nil
	}
	cp := *c
	cp.AllowedContracts = slices.Clone(c.AllowedContracts)
	cp.AllowedGroups = slices.Clone(c.AllowedGroups)
	if c.Rules != nil {
		cp.Rules = make([]WitnessRule, len(c.Rules))
		for i, rule := range c.Rules {
			cp.Rules[i] = *rule.Copy()
		}
	}
	return &cp
}
