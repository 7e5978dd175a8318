package transaction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/r3e-network/neokit/pkg/neoerr"
)

// WitnessScope represents set of witness flags for Transaction signer.
type WitnessScope byte

const (
	// None specifies that no contract was witnessed. Only sign the transaction.
	None WitnessScope = 0
	// CalledByEntry witness is only valid in entry script and ones directly called by it.
	// No params is needed, as the witness/permission/signature given on first invocation will
	// automatically expire if entering deeper internal invokes. This can be default safe
	// choice for native NEO/GAS (previously used on Neo 2 as "attach" mode).
	CalledByEntry WitnessScope = 0x01
	// CustomContracts define custom hash for contract-specific.
	CustomContracts WitnessScope = 0x10
	// CustomGroups define custom pubkey for group members.
	CustomGroups WitnessScope = 0x20
	// Rules is a set of conditions with boolean operators.
	Rules WitnessScope = 0x40
	// Global allows this witness in all contexts (default Neo2 behavior).
	// This cannot be combined with other flags.
	Global WitnessScope = 0x80
)

var scopeNames = []struct {
	scope WitnessScope
	name  string
}{
	{CalledByEntry, "CalledByEntry"},
	{CustomContracts, "CustomContracts"},
	{CustomGroups, "CustomGroups"},
	{Rules, "WitnessRules"},
	{Global, "Global"},
}

// ScopesFromByte converts byte to a set of WitnessScopes and performs validity
// check.
func ScopesFromByte(b byte) (WitnessScope, error) {
	var res = WitnessScope(b)
	if (res&Global != 0) && (res&(None|CalledByEntry|CustomContracts|CustomGroups|Rules) != 0) {
		return 0, fmt.Errorf("%w: Global scope can not be combined with other scopes", neoerr.ErrFormat)
	}
	if res&^(None|CalledByEntry|CustomContracts|CustomGroups|Rules|Global) != 0 {
		return 0, fmt.Errorf("%w: invalid scope %d", neoerr.ErrFormat, b)
	}
	return res, nil
}

// ScopesFromString converts string of comma-separated scopes to a set of scopes
// (case-sensitive). String can combine several scopes, e.g. be any of: 'Global',
// 'CalledByEntry,CustomGroups' etc. In case of an empty string an error will be
// returned.
func ScopesFromString(s string) (WitnessScope, error) {
	var result WitnessScope
	scopes := strings.Split(s, ",")
	var isGlobal bool
	for _, scopeStr := range scopes {
		scopeStr = strings.TrimSpace(scopeStr)
		scope, ok := scopeFromName(scopeStr)
		if !ok {
			return result, fmt.Errorf("%w: invalid witness scope: %v", neoerr.ErrFormat, scopeStr)
		}
		if isGlobal && !(scope == Global) {
			return result, fmt.Errorf("%w: Global scope can not be combined with other scopes", neoerr.ErrFormat)
		}
		result |= scope
		if scope == Global {
			isGlobal = true
		}
	}
	return result, nil
}

func scopeFromName(s string) (WitnessScope, bool) {
	if s == "None" {
		return None, true
	}
	for _, sn := range scopeNames {
		if sn.name == s {
			return sn.scope, true
		}
	}
	return 0, false
}

// String converts witness scope to its string representation. It uses
// `, ` to separate scope names.
func (s WitnessScope) String() string {
	if s == None {
		return "None"
	}
	var res []string
	for _, sn := range scopeNames {
		if s&sn.scope != 0 {
			res = append(res, sn.name)
		}
	}
	return strings.Join(res, ", ")
}

// MarshalJSON implements the json.Marshaler interface.
func (s WitnessScope) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *WitnessScope) UnmarshalJSON(data []byte) error {
	var js string
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	scopes, err := ScopesFromString(js)
	if err != nil {
		return err
	}
	*s = scopes
	return nil
}
