package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/neoerr"
)

// WitnessAction represents an action to perform in WitnessRule if
// witness condition matches.
type WitnessAction byte

const (
	// WitnessDeny rejects current witness if condition is met.
	WitnessDeny WitnessAction = 0
	// WitnessAllow approves current witness if condition is met.
	WitnessAllow WitnessAction = 1
)

// WitnessRule represents a single rule for Rules witness scope.
type WitnessRule struct {
	Action    WitnessAction    `json:"action"`
	Condition WitnessCondition `json:"condition"`
}

type witnessRuleAux struct {
	Action    string          `json:"action"`
	Condition json.RawMessage `json:"condition"`
}

var errInvalidAction = errors.New("unknown witness rule action")

// String returns a human-readable action name.
func (a WitnessAction) String() string {
	switch a {
	case WitnessDeny:
		return "Deny"
	case WitnessAllow:
		return "Allow"
	default:
		return fmt.Sprintf("WitnessAction(%d)", byte(a))
	}
}

// EncodeBinary implements the Serializable interface.
func (w *WitnessRule) EncodeBinary(bw *io.BinWriter) {
	if err := checkCondition(w.Condition, MaxConditionNesting); err != nil {
		bw.Err = err
		return
	}
	bw.WriteB(byte(w.Action))
	w.Condition.EncodeBinary(bw)
}

// DecodeBinary implements the Serializable interface.
func (w *WitnessRule) DecodeBinary(br *io.BinReader) {
	w.Action = WitnessAction(br.ReadB())
	if br.Err == nil && w.Action != WitnessDeny && w.Action != WitnessAllow {
		br.Err = fmt.Errorf("%w: %w: %d", neoerr.ErrFormat, errInvalidAction, w.Action)
		return
	}
	w.Condition = DecodeBinaryCondition(br)
}

// MarshalJSON implements the json.Marshaler interface.
func (w *WitnessRule) MarshalJSON() ([]byte, error) {
	if w.Condition == nil {
		return nil, fmt.Errorf("%w: %w", neoerr.ErrValidation, errNilCondition)
	}
	cond, err := w.Condition.MarshalJSON()
	if err != nil {
		return nil, err
	}
	aux := &witnessRuleAux{
		Action:    w.Action.String(),
		Condition: cond,
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (w *WitnessRule) UnmarshalJSON(data []byte) error {
	aux := &witnessRuleAux{}
	err := json.Unmarshal(data, aux)
	if err != nil {
		return fmt.Errorf("%w: %w", neoerr.ErrFormat, err)
	}
	var action WitnessAction
	switch aux.Action {
	case WitnessDeny.String():
		action = WitnessDeny
	case WitnessAllow.String():
		action = WitnessAllow
	default:
		return fmt.Errorf("%w: %w: %q", neoerr.ErrFormat, errInvalidAction, aux.Action)
	}
	cond, err := UnmarshalConditionJSON(aux.Condition)
	if err != nil {
		return err
	}
	w.Action = action
	w.Condition = cond
	return nil
}

// Copy creates a deep copy of the WitnessRule. Conditions are shared since
// they're never modified in place.
func (w *WitnessRule) Copy() *WitnessRule {
	return &WitnessRule{
		Action:    w.Action,
		Condition: w.Condition,
	}
}
