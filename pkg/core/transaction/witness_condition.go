package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/r3e-network/neokit/pkg/crypto/keys"
	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/util"
)

// WitnessConditionType encodes a type of witness condition.
type WitnessConditionType byte

const (
	// WitnessBoolean is a generic boolean condition.
	WitnessBoolean WitnessConditionType = 0x00 // Boolean
	// WitnessNot reverses another condition.
	WitnessNot WitnessConditionType = 0x01 // Not
	// WitnessAnd means that all conditions must be met.
	WitnessAnd WitnessConditionType = 0x02 // And
	// WitnessOr means that any of conditions must be met.
	WitnessOr WitnessConditionType = 0x03 // Or
	// WitnessScriptHash matches executing contract's script hash.
	WitnessScriptHash WitnessConditionType = 0x18 // ScriptHash
	// WitnessGroup matches executing contract's group key.
	WitnessGroup WitnessConditionType = 0x19 // Group
	// WitnessCalledByEntry matches when current script is an entry script or is called by an entry script.
	WitnessCalledByEntry WitnessConditionType = 0x20 // CalledByEntry
	// WitnessCalledByContract matches when current script is called by the specified contract.
	WitnessCalledByContract WitnessConditionType = 0x28 // CalledByContract
	// WitnessCalledByGroup matches when current script is called by contract belonging to the specified group.
	WitnessCalledByGroup WitnessConditionType = 0x29 // CalledByGroup
)

const (
	// MaxConditionNesting limits the number of composite (Not, And, Or)
	// condition levels in a single condition tree.
	MaxConditionNesting = 2
	// MaxSubitems is the maximum number of sub-conditions of And and Or
	// conditions, it's also used to limit AllowedContracts, AllowedGroups
	// and Rules of a Signer.
	MaxSubitems = 16
)

var (
	errEmptyConditions = errors.New("empty array of conditions")
	errTooManyConds    = errors.New("too many expressions")
	errTooDeep         = errors.New("too many nesting levels")
	errNilCondition    = errors.New("nil condition")
)

// WitnessCondition is a condition of WitnessRule. The set of implementations
// is closed, it's the nine Condition* types of this package.
type WitnessCondition interface {
	// Type returns a type of this condition.
	Type() WitnessConditionType
	// EncodeBinary allows to serialize condition to its binary
	// representation (including type data).
	EncodeBinary(*io.BinWriter)
	// MarshalJSON is a part of json.Marshaler interface.
	MarshalJSON() ([]byte, error)

	// depth returns the number of composite levels of the condition.
	depth() int
	// decodeBinarySpecific reads condition's type-specific payload, the
	// tag is already consumed. maxDepth is the number of composite levels
	// still allowed.
	decodeBinarySpecific(r *io.BinReader, maxDepth int)
}

type conditionAux struct {
	Expression  json.RawMessage   `json:"expression,omitempty"`
	Expressions []json.RawMessage `json:"expressions,omitempty"`
	Group       *keys.PublicKey   `json:"group,omitempty"`
	Hash        *util.Uint160     `json:"hash,omitempty"`
	Type        string            `json:"type"`
}

type (
	// ConditionBoolean is a boolean condition type.
	ConditionBoolean bool
	// ConditionNot inverses the meaning of contained condition.
	ConditionNot struct {
		Expression WitnessCondition
	}
	// ConditionAnd is a set of conditions required to match.
	ConditionAnd []WitnessCondition
	// ConditionOr is a set of conditions one of which is required to match.
	ConditionOr []WitnessCondition
	// ConditionScriptHash is a condition matching executing script hash.
	ConditionScriptHash util.Uint160
	// ConditionGroup is a condition matching executing script group.
	ConditionGroup keys.PublicKey
	// ConditionCalledByEntry is a condition matching entry script or one directly called by it.
	ConditionCalledByEntry struct{}
	// ConditionCalledByContract is a condition matching calling script hash.
	ConditionCalledByContract util.Uint160
	// ConditionCalledByGroup is a condition matching calling script group.
	ConditionCalledByGroup keys.PublicKey
)

// NewConditionNot creates a Not condition checking nesting depth of the
// result.
func NewConditionNot(c WitnessCondition) (*ConditionNot, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: %w", neoerr.ErrValidation, errNilCondition)
	}
	res := &ConditionNot{Expression: c}
	if err := checkDepth(res); err != nil {
		return nil, err
	}
	return res, nil
}

// NewConditionAnd creates an And condition from 1 to MaxSubitems
// sub-conditions checking nesting depth of the result.
func NewConditionAnd(cs ...WitnessCondition) (*ConditionAnd, error) {
	if err := checkSubitems(cs); err != nil {
		return nil, err
	}
	res := ConditionAnd(cs)
	if err := checkDepth(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// NewConditionOr creates an Or condition from 1 to MaxSubitems
// sub-conditions checking nesting depth of the result.
func NewConditionOr(cs ...WitnessCondition) (*ConditionOr, error) {
	if err := checkSubitems(cs); err != nil {
		return nil, err
	}
	res := ConditionOr(cs)
	if err := checkDepth(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func checkSubitems(cs []WitnessCondition) error {
	if len(cs) == 0 {
		return fmt.Errorf("%w: %w", neoerr.ErrValidation, errEmptyConditions)
	}
	if len(cs) > MaxSubitems {
		return fmt.Errorf("%w: %w: %d, max %d", neoerr.ErrValidation, errTooManyConds, len(cs), MaxSubitems)
	}
	for i := range cs {
		if cs[i] == nil {
			return fmt.Errorf("%w: %w at %d", neoerr.ErrValidation, errNilCondition, i)
		}
	}
	return nil
}

func checkDepth(c WitnessCondition) error {
	if d := c.depth(); d > MaxConditionNesting {
		return fmt.Errorf("%w: %w: %d, max %d", neoerr.ErrValidation, errTooDeep, d, MaxConditionNesting)
	}
	return nil
}

// checkCondition validates a condition tree that may have been built without
// constructors: no nil nodes, 1 to MaxSubitems items in And/Or and no more
// than maxDepth composite levels.
func checkCondition(c WitnessCondition, maxDepth int) error {
	switch c := c.(type) {
	case nil:
		return fmt.Errorf("%w: %w", neoerr.ErrValidation, errNilCondition)
	case *ConditionNot:
		if c == nil {
			return fmt.Errorf("%w: %w", neoerr.ErrValidation, errNilCondition)
		}
		if maxDepth <= 0 {
			return fmt.Errorf("%w: %w", neoerr.ErrValidation, errTooDeep)
		}
		return checkCondition(c.Expression, maxDepth-1)
	case *ConditionAnd:
		if c == nil {
			return fmt.Errorf("%w: %w", neoerr.ErrValidation, errNilCondition)
		}
		return checkConditions(*c, maxDepth)
	case *ConditionOr:
		if c == nil {
			return fmt.Errorf("%w: %w", neoerr.ErrValidation, errNilCondition)
		}
		return checkConditions(*c, maxDepth)
	}
	return nil
}

func checkConditions(cs []WitnessCondition, maxDepth int) error {
	if maxDepth <= 0 {
		return fmt.Errorf("%w: %w", neoerr.ErrValidation, errTooDeep)
	}
	if err := checkSubitems(cs); err != nil {
		return err
	}
	for _, c := range cs {
		if err := checkCondition(c, maxDepth-1); err != nil {
			return err
		}
	}
	return nil
}

func maxDepthOf(cs []WitnessCondition) int {
	var res int
	for _, c := range cs {
		if d := c.depth(); d > res {
			res = d
		}
	}
	return res
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionBoolean) Type() WitnessConditionType {
	return WitnessBoolean
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionBoolean) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBool(bool(*c))
}

func (c *ConditionBoolean) depth() int { return 0 }

func (c *ConditionBoolean) decodeBinarySpecific(r *io.BinReader, _ int) {
	*c = ConditionBoolean(r.ReadBool())
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionBoolean) MarshalJSON() ([]byte, error) {
	boolJSON, _ := json.Marshal(bool(*c))
	aux := conditionAux{
		Type:       c.Type().String(),
		Expression: json.RawMessage(boolJSON),
	}
	return json.Marshal(aux)
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionNot) Type() WitnessConditionType {
	return WitnessNot
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionNot) EncodeBinary(w *io.BinWriter) {
	if c.Expression == nil {
		w.Err = fmt.Errorf("%w: %w", neoerr.ErrValidation, errNilCondition)
		return
	}
	w.WriteB(byte(c.Type()))
	c.Expression.EncodeBinary(w)
}

func (c *ConditionNot) depth() int { return 1 + c.Expression.depth() }

func (c *ConditionNot) decodeBinarySpecific(r *io.BinReader, maxDepth int) {
	e := decodeBinaryCondition(r, maxDepth-1)
	if r.Err == nil {
		c.Expression = e
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionNot) MarshalJSON() ([]byte, error) {
	if c.Expression == nil {
		return nil, fmt.Errorf("%w: %w", neoerr.ErrValidation, errNilCondition)
	}
	condJSON, err := json.Marshal(c.Expression)
	if err != nil {
		return nil, err
	}
	aux := conditionAux{
		Type:       c.Type().String(),
		Expression: json.RawMessage(condJSON),
	}
	return json.Marshal(aux)
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionAnd) Type() WitnessConditionType {
	return WitnessAnd
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionAnd) EncodeBinary(w *io.BinWriter) {
	if err := checkSubitems(*c); err != nil {
		w.Err = err
		return
	}
	w.WriteB(byte(c.Type()))
	w.WriteArray([]WitnessCondition(*c))
}

func (c *ConditionAnd) depth() int { return 1 + maxDepthOf(*c) }

func readArrayOfConditions(r *io.BinReader, maxDepth int) []WitnessCondition {
	l := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if l == 0 {
		r.Err = fmt.Errorf("%w: %w", neoerr.ErrFormat, errEmptyConditions)
		return nil
	}
	if l > MaxSubitems {
		r.Err = fmt.Errorf("%w: %w: %d", neoerr.ErrFormat, errTooManyConds, l)
		return nil
	}
	a := make([]WitnessCondition, l)
	for i := range a {
		a[i] = decodeBinaryCondition(r, maxDepth-1)
		if r.Err != nil {
			return nil
		}
	}
	return a
}

func (c *ConditionAnd) decodeBinarySpecific(r *io.BinReader, maxDepth int) {
	a := readArrayOfConditions(r, maxDepth)
	if r.Err == nil {
		*c = a
	}
}

func arrayToJSON(c WitnessCondition, a []WitnessCondition) ([]byte, error) {
	if err := checkSubitems(a); err != nil {
		return nil, err
	}
	exprs := make([]json.RawMessage, len(a))
	for i := range a {
		b, err := a[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		exprs[i] = json.RawMessage(b)
	}
	aux := conditionAux{
		Type:        c.Type().String(),
		Expressions: exprs,
	}
	return json.Marshal(aux)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionAnd) MarshalJSON() ([]byte, error) {
	return arrayToJSON(c, []WitnessCondition(*c))
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionOr) Type() WitnessConditionType {
	return WitnessOr
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionOr) EncodeBinary(w *io.BinWriter) {
	if err := checkSubitems(*c); err != nil {
		w.Err = err
		return
	}
	w.WriteB(byte(c.Type()))
	w.WriteArray([]WitnessCondition(*c))
}

func (c *ConditionOr) depth() int { return 1 + maxDepthOf(*c) }

func (c *ConditionOr) decodeBinarySpecific(r *io.BinReader, maxDepth int) {
	a := readArrayOfConditions(r, maxDepth)
	if r.Err == nil {
		*c = a
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionOr) MarshalJSON() ([]byte, error) {
	return arrayToJSON(c, []WitnessCondition(*c))
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionScriptHash) Type() WitnessConditionType {
	return WitnessScriptHash
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionScriptHash) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBytes(c[:])
}

func (c *ConditionScriptHash) depth() int { return 0 }

func (c *ConditionScriptHash) decodeBinarySpecific(r *io.BinReader, _ int) {
	r.ReadBytes(c[:])
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionScriptHash) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type: c.Type().String(),
		Hash: (*util.Uint160)(c),
	}
	return json.Marshal(aux)
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionGroup) Type() WitnessConditionType {
	return WitnessGroup
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	(*keys.PublicKey)(c).EncodeBinary(w)
}

func (c *ConditionGroup) depth() int { return 0 }

func (c *ConditionGroup) decodeBinarySpecific(r *io.BinReader, _ int) {
	(*keys.PublicKey)(c).DecodeBinary(r)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionGroup) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type:  c.Type().String(),
		Group: (*keys.PublicKey)(c),
	}
	return json.Marshal(aux)
}

// Type implements the WitnessCondition interface and returns condition type.
func (c ConditionCalledByEntry) Type() WitnessConditionType {
	return WitnessCalledByEntry
}

// EncodeBinary implements the WitnessCondition interface.
func (c ConditionCalledByEntry) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
}

func (c ConditionCalledByEntry) depth() int { return 0 }

func (c ConditionCalledByEntry) decodeBinarySpecific(_ *io.BinReader, _ int) {
}

// MarshalJSON implements the json.Marshaler interface.
func (c ConditionCalledByEntry) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type: c.Type().String(),
	}
	return json.Marshal(aux)
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionCalledByContract) Type() WitnessConditionType {
	return WitnessCalledByContract
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionCalledByContract) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBytes(c[:])
}

func (c *ConditionCalledByContract) depth() int { return 0 }

func (c *ConditionCalledByContract) decodeBinarySpecific(r *io.BinReader, _ int) {
	r.ReadBytes(c[:])
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionCalledByContract) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type: c.Type().String(),
		Hash: (*util.Uint160)(c),
	}
	return json.Marshal(aux)
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionCalledByGroup) Type() WitnessConditionType {
	return WitnessCalledByGroup
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionCalledByGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	(*keys.PublicKey)(c).EncodeBinary(w)
}

func (c *ConditionCalledByGroup) depth() int { return 0 }

func (c *ConditionCalledByGroup) decodeBinarySpecific(r *io.BinReader, _ int) {
	(*keys.PublicKey)(c).DecodeBinary(r)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionCalledByGroup) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type:  c.Type().String(),
		Group: (*keys.PublicKey)(c),
	}
	return json.Marshal(aux)
}

// newConditionOfType returns an empty condition of the given type.
func newConditionOfType(t WitnessConditionType) (WitnessCondition, bool) {
	switch t {
	case WitnessBoolean:
		return new(ConditionBoolean), true
	case WitnessNot:
		return new(ConditionNot), true
	case WitnessAnd:
		return new(ConditionAnd), true
	case WitnessOr:
		return new(ConditionOr), true
	case WitnessScriptHash:
		return new(ConditionScriptHash), true
	case WitnessGroup:
		return new(ConditionGroup), true
	case WitnessCalledByEntry:
		return new(ConditionCalledByEntry), true
	case WitnessCalledByContract:
		return new(ConditionCalledByContract), true
	case WitnessCalledByGroup:
		return new(ConditionCalledByGroup), true
	default:
		return nil, false
	}
}

func isComposite(t WitnessConditionType) bool {
	return t == WitnessNot || t == WitnessAnd || t == WitnessOr
}

// DecodeBinaryCondition decodes and returns condition from the given binary stream.
func DecodeBinaryCondition(r *io.BinReader) WitnessCondition {
	return decodeBinaryCondition(r, MaxConditionNesting)
}

func decodeBinaryCondition(r *io.BinReader, maxDepth int) WitnessCondition {
	t := WitnessConditionType(r.ReadB())
	if r.Err != nil {
		return nil
	}
	res, ok := newConditionOfType(t)
	if !ok {
		r.Err = fmt.Errorf("%w: %d", neoerr.ErrUnknownConditionType, t)
		return nil
	}
	if isComposite(t) && maxDepth <= 0 {
		r.Err = fmt.Errorf("%w: %w", neoerr.ErrFormat, errTooDeep)
		return nil
	}
	res.decodeBinarySpecific(r, maxDepth)
	if r.Err != nil {
		return nil
	}
	return res
}

// EncodeBinaryCondition encodes the given condition into a byte slice. The
// tree is checked against MaxSubitems and MaxConditionNesting first.
func EncodeBinaryCondition(c WitnessCondition) ([]byte, error) {
	if err := checkCondition(c, MaxConditionNesting); err != nil {
		return nil, err
	}
	w := io.NewBufBinWriter()
	c.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// ConditionFromBytes decodes a single condition from its complete binary
// representation.
func ConditionFromBytes(b []byte) (WitnessCondition, error) {
	r := io.NewBinReaderFromBuf(b)
	c := DecodeBinaryCondition(r)
	if r.Err != nil {
		if !errors.Is(r.Err, neoerr.ErrFormat) {
			return nil, fmt.Errorf("%w: %w", neoerr.ErrFormat, r.Err)
		}
		return nil, r.Err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", neoerr.ErrFormat, r.Len())
	}
	return c, nil
}

func unmarshalArrayOfConditionJSONs(arr []json.RawMessage, maxDepth int) ([]WitnessCondition, error) {
	l := len(arr)
	if l == 0 {
		return nil, fmt.Errorf("%w: %w", neoerr.ErrFormat, errEmptyConditions)
	}
	if l > MaxSubitems {
		return nil, fmt.Errorf("%w: %w: %d", neoerr.ErrFormat, errTooManyConds, l)
	}
	res := make([]WitnessCondition, l)
	for i := range arr {
		e, err := unmarshalConditionJSON(arr[i], maxDepth-1)
		if err != nil {
			return nil, err
		}
		res[i] = e
	}
	return res, nil
}

// UnmarshalConditionJSON unmarshalls condition from the given JSON data.
func UnmarshalConditionJSON(data []byte) (WitnessCondition, error) {
	return unmarshalConditionJSON(data, MaxConditionNesting)
}

func unmarshalConditionJSON(data []byte, maxDepth int) (WitnessCondition, error) {
	aux := &conditionAux{}
	err := json.Unmarshal(data, aux)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", neoerr.ErrFormat, err)
	}
	t, err := witnessConditionTypeFromString(aux.Type)
	if err != nil {
		return nil, err
	}
	if isComposite(t) && maxDepth <= 0 {
		return nil, fmt.Errorf("%w: %w", neoerr.ErrFormat, errTooDeep)
	}
	var res WitnessCondition
	switch t {
	case WitnessBoolean:
		var v bool
		if err = json.Unmarshal(aux.Expression, &v); err != nil {
			return nil, fmt.Errorf("%w: %w", neoerr.ErrFormat, err)
		}
		res = (*ConditionBoolean)(&v)
	case WitnessNot:
		e, err := unmarshalConditionJSON(aux.Expression, maxDepth-1)
		if err != nil {
			return nil, err
		}
		res = &ConditionNot{Expression: e}
	case WitnessAnd:
		exprs, err := unmarshalArrayOfConditionJSONs(aux.Expressions, maxDepth)
		if err != nil {
			return nil, err
		}
		res = (*ConditionAnd)(&exprs)
	case WitnessOr:
		exprs, err := unmarshalArrayOfConditionJSONs(aux.Expressions, maxDepth)
		if err != nil {
			return nil, err
		}
		res = (*ConditionOr)(&exprs)
	case WitnessScriptHash:
		if aux.Hash == nil {
			return nil, fmt.Errorf("%w: no hash specified", neoerr.ErrFormat)
		}
		res = (*ConditionScriptHash)(aux.Hash)
	case WitnessGroup:
		if aux.Group == nil {
			return nil, fmt.Errorf("%w: no group specified", neoerr.ErrFormat)
		}
		res = (*ConditionGroup)(aux.Group)
	case WitnessCalledByEntry:
		res = new(ConditionCalledByEntry)
	case WitnessCalledByContract:
		if aux.Hash == nil {
			return nil, fmt.Errorf("%w: no hash specified", neoerr.ErrFormat)
		}
		res = (*ConditionCalledByContract)(aux.Hash)
	case WitnessCalledByGroup:
		if aux.Group == nil {
			return nil, fmt.Errorf("%w: no group specified", neoerr.ErrFormat)
		}
		res = (*ConditionCalledByGroup)(aux.Group)
	}
	return res, nil
}
