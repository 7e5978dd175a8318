package smartcontract

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/r3e-network/neokit/pkg/crypto/keys"
	"github.com/r3e-network/neokit/pkg/encoding/address"
	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/r3e-network/neokit/pkg/vm/emit"
	"github.com/r3e-network/neokit/pkg/vm/opcode"
)

// ParamType represents the Type of the smart contract parameter.
type ParamType int

// A list of supported smart contract parameter types.
const (
	UnknownType          ParamType = -1
	AnyType              ParamType = 0x00
	BoolType             ParamType = 0x10
	IntegerType          ParamType = 0x11
	ByteArrayType        ParamType = 0x12
	StringType           ParamType = 0x13
	Hash160Type          ParamType = 0x14
	Hash256Type          ParamType = 0x15
	PublicKeyType        ParamType = 0x16
	SignatureType        ParamType = 0x17
	ArrayType            ParamType = 0x20
	MapType              ParamType = 0x22
	InteropInterfaceType ParamType = 0x30
	VoidType             ParamType = 0xff
)

// maxIntegerBits is the NeoVM integer size limit.
const maxIntegerBits = 255

var paramTypeNames = map[ParamType]string{
	AnyType:              "Any",
	BoolType:             "Boolean",
	IntegerType:          "Integer",
	ByteArrayType:        "ByteArray",
	StringType:           "String",
	Hash160Type:          "Hash160",
	Hash256Type:          "Hash256",
	PublicKeyType:        "PublicKey",
	SignatureType:        "Signature",
	ArrayType:            "Array",
	MapType:              "Map",
	InteropInterfaceType: "InteropInterface",
	VoidType:             "Void",
}

// String implements the stringer interface.
func (pt ParamType) String() string {
	return paramTypeNames[pt]
}

// MarshalJSON implements the json.Marshaler interface.
func (pt ParamType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + pt.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (pt *ParamType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	p, err := ParseParamType(s)
	if err != nil {
		return err
	}

	*pt = p
	return nil
}

// EncodeBinary implements the io.Serializable interface.
func (pt ParamType) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(pt))
}

// DecodeBinary implements the io.Serializable interface.
func (pt *ParamType) DecodeBinary(r *io.BinReader) {
	*pt = ParamType(r.ReadB())
}

// EncodeDefaultValue writes a script pushing a placeholder value of the type
// into the given writer. It's used for dummy invocation scripts in network
// fee estimation where real values are not known yet: signatures, strings,
// byte arrays and "any" get 64 zero bytes, hashes and keys get zero values of
// their size, integers are 32-byte PUSHINT256 and booleans are PUSHT. Other
// types produce no code.
func (pt ParamType) EncodeDefaultValue(w *io.BinWriter) {
	var b [64]byte

	switch pt {
	case AnyType, SignatureType, StringType, ByteArrayType:
		emit.Bytes(w, b[:])
	case BoolType:
		emit.Bool(w, true)
	case IntegerType:
		emit.Instruction(w, opcode.PUSHINT256, b[:32])
	case Hash160Type:
		emit.Bytes(w, b[:20])
	case Hash256Type:
		emit.Bytes(w, b[:32])
	case PublicKeyType:
		emit.Bytes(w, b[:33])
	case ArrayType, MapType, InteropInterfaceType, VoidType:
	}
}

// ParseParamType is a user-friendly case-insensitive string to ParamType
// converter, it accepts canonical names and short aliases like "int",
// "bool", "bytes" or "key".
func ParseParamType(typ string) (ParamType, error) {
	switch strings.ToLower(typ) {
	case "signature":
		return SignatureType, nil
	case "bool", "boolean":
		return BoolType, nil
	case "int", "integer":
		return IntegerType, nil
	case "hash160":
		return Hash160Type, nil
	case "hash256":
		return Hash256Type, nil
	case "bytes", "bytearray", "bytestring":
		return ByteArrayType, nil
	case "key", "publickey":
		return PublicKeyType, nil
	case "string":
		return StringType, nil
	case "array", "struct":
		return ArrayType, nil
	case "map":
		return MapType, nil
	case "interopinterface":
		return InteropInterfaceType, nil
	case "void":
		return VoidType, nil
	case "any":
		return AnyType, nil
	default:
		return UnknownType, fmt.Errorf("bad parameter type: %s", typ)
	}
}

// adjustValToType is a value type-checker and converter.
func adjustValToType(typ ParamType, val string) (any, error) {
	switch typ {
	case SignatureType:
		b, err := hex.DecodeString(val)
		if err != nil {
			return nil, err
		}
		if len(b) != keys.SignatureLen {
			return nil, errors.New("not a signature")
		}
		return b, nil
	case BoolType:
		switch val {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, errors.New("invalid boolean value")
		}
	case IntegerType:
		bi, ok := new(big.Int).SetString(val, 10)
		if !ok || bi.BitLen() > maxIntegerBits {
			return nil, errors.New("invalid integer value")
		}
		return bi, nil
	case Hash160Type:
		u, err := address.StringToUint160(val)
		if err == nil {
			return u, nil
		}
		return util.Uint160DecodeStringLE(val)
	case Hash256Type:
		return util.Uint256DecodeStringLE(val)
	case ByteArrayType:
		return hex.DecodeString(val)
	case PublicKeyType:
		pub, err := keys.NewPublicKeyFromString(val)
		if err != nil {
			return nil, err
		}
		return pub.Bytes(), nil
	case StringType:
		return val, nil
	case AnyType:
		if len(val) != 0 {
			return nil, errors.New("Any parameter can only be null")
		}
		return nil, nil
	default:
		return nil, errors.New("unsupported parameter type")
	}
}

// inferParamType tries to infer the value type from its contents: decimal
// integers, booleans, addresses and hex strings of hash/key/signature sizes
// are recognized, any other hex is a byte array and the rest are strings.
func inferParamType(val string) ParamType {
	var err error

	bi, ok := new(big.Int).SetString(val, 10)
	if ok && bi.BitLen() <= maxIntegerBits {
		return IntegerType
	}

	if val == "true" || val == "false" {
		return BoolType
	}

	_, err = address.StringToUint160(val)
	if err == nil {
		return Hash160Type
	}

	_, err = keys.NewPublicKeyFromString(val)
	if err == nil {
		return PublicKeyType
	}

	unhexed, err := hex.DecodeString(val)
	if err == nil {
		switch len(unhexed) {
		case 20:
			return Hash160Type
		case 32:
			return Hash256Type
		case 64:
			return SignatureType
		default:
			return ByteArrayType
		}
	}
	// Anything can be a string.
	return StringType
}

// ConvertToParamType converts the provided value to the parameter type if it's a valid type.
func ConvertToParamType(val int) (ParamType, error) {
	if _, ok := paramTypeNames[ParamType(val)]; ok || ParamType(val) == UnknownType {
		return ParamType(val), nil
	}
	return UnknownType, errors.New("unknown parameter type")
}
