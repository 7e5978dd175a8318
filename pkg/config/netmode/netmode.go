package netmode

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// MainNet contains magic code used in the Neo main official network.
	MainNet Magic = 0x334f454e // NEO3
	// TestNet contains magic code used in the Neo testing network.
	TestNet Magic = 0x3554334e // N3T5
	// PrivNet contains magic code usually used for Neo private networks.
	PrivNet Magic = 56753 // docker privnet
	// UnitTestNet is a stub magic code used for testing purposes.
	UnitTestNet Magic = 42
)

// Magic describes the network the blockchain will operate on.
type Magic uint32

// String implements the stringer interface.
func (n Magic) String() string {
	switch n {
	case PrivNet:
		return "privnet"
	case TestNet:
		return "testnet"
	case MainNet:
		return "mainnet"
	case UnitTestNet:
		return "unit_testnet"
	default:
		return "net 0x" + strconv.FormatUint(uint64(n), 16)
	}
}

// FromString parses network name (as returned by String) or a decimal/0x-prefixed
// hexadecimal magic number.
func FromString(s string) (Magic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "privnet":
		return PrivNet, nil
	case "testnet":
		return TestNet, nil
	case "mainnet":
		return MainNet, nil
	case "unit_testnet":
		return UnitTestNet, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid network %q", s)
	}
	return Magic(n), nil
}

// MarshalYAML implements the yaml.Marshaler interface.
func (n Magic) MarshalYAML() (any, error) {
	return uint32(n), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (n *Magic) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	m, err := FromString(s)
	if err != nil {
		return err
	}
	*n = m
	return nil
}
