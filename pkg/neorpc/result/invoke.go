package result

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// VM states reported by the node.
const (
	StateHalt  = "HALT"
	StateFault = "FAULT"
)

// Invoke represents a code invocation result and is used by several RPC calls
// that invoke functions, scripts and generic bytecode.
type Invoke struct {
	State          string
	GasConsumed    int64
	Script         []byte
	Stack          []StackItem
	FaultException string
	Session        uuid.UUID
}

// StackItem is a resulting stack item in its JSON form. Only the type and the
// raw value are kept, the client doesn't run a VM to interpret them.
type StackItem struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type invokeAux struct {
	State          string      `json:"state"`
	GasConsumed    int64       `json:"gasconsumed,string"`
	Script         []byte      `json:"script"`
	Stack          []StackItem `json:"stack"`
	FaultException *string     `json:"exception"`
	Session        string      `json:"session,omitempty"`
}

// Stack item types used by the client.
const (
	IntegerT   = "Integer"
	BooleanT   = "Boolean"
	ByteArrayT = "ByteString"
	BufferT    = "Buffer"
	AnyT       = "Any"
)

// ErrUnexpectedStackItem is returned when the resulting stack doesn't match
// expectations of the caller.
var ErrUnexpectedStackItem = errors.New("unexpected stack item")

// HasFaulted returns true if the script execution ended in the FAULT state.
func (r *Invoke) HasFaulted() bool {
	return r.State == StateFault
}

// MarshalJSON implements the json.Marshaler.
func (r Invoke) MarshalJSON() ([]byte, error) {
	var session string
	if r.Session != (uuid.UUID{}) {
		session = r.Session.String()
	}
	aux := &invokeAux{
		GasConsumed: r.GasConsumed,
		Script:      r.Script,
		State:       r.State,
		Stack:       r.Stack,
		Session:     session,
	}
	if r.State == StateFault || r.FaultException != "" {
		fe := r.FaultException
		aux.FaultException = &fe
	}
	if aux.Stack == nil {
		aux.Stack = []StackItem{}
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements the json.Unmarshaler.
func (r *Invoke) UnmarshalJSON(data []byte) error {
	aux := new(invokeAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if len(aux.Session) != 0 {
		s, err := uuid.Parse(aux.Session)
		if err != nil {
			return fmt.Errorf("failed to parse session ID: %w", err)
		}
		r.Session = s
	} else {
		r.Session = uuid.UUID{}
	}
	r.GasConsumed = aux.GasConsumed
	r.Script = aux.Script
	r.State = aux.State
	r.Stack = aux.Stack
	r.FaultException = ""
	if aux.FaultException != nil {
		r.FaultException = *aux.FaultException
	}
	return nil
}

// TopIntFromStack returns the integer value of the top-level single-item
// stack, the way contract getters (like balanceOf) return their results.
func (r *Invoke) TopIntFromStack() (*big.Int, error) {
	item, err := r.topItem()
	if err != nil {
		return nil, err
	}
	switch item.Type {
	case IntegerT:
		var s string
		if err := json.Unmarshal(item.Value, &s); err != nil {
			return nil, fmt.Errorf("%w: bad integer: %w", ErrUnexpectedStackItem, err)
		}
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("%w: bad integer %q", ErrUnexpectedStackItem, s)
		}
		return v, nil
	case BooleanT:
		var b bool
		if err := json.Unmarshal(item.Value, &b); err != nil {
			return nil, fmt.Errorf("%w: bad boolean: %w", ErrUnexpectedStackItem, err)
		}
		if b {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	default:
		return nil, fmt.Errorf("%w: %s is not an integer", ErrUnexpectedStackItem, item.Type)
	}
}

// TopBytesFromStack returns the byte value of the top-level single-item stack.
func (r *Invoke) TopBytesFromStack() ([]byte, error) {
	item, err := r.topItem()
	if err != nil {
		return nil, err
	}
	if item.Type != ByteArrayT && item.Type != BufferT {
		return nil, fmt.Errorf("%w: %s is not a byte string", ErrUnexpectedStackItem, item.Type)
	}
	var s string
	if err := json.Unmarshal(item.Value, &s); err != nil {
		return nil, fmt.Errorf("%w: bad byte string: %w", ErrUnexpectedStackItem, err)
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: bad byte string: %w", ErrUnexpectedStackItem, err)
	}
	return b, nil
}

func (r *Invoke) topItem() (StackItem, error) {
	if r.State != StateHalt {
		return StackItem{}, fmt.Errorf("invocation failed: %s", r.FaultException)
	}
	if len(r.Stack) != 1 {
		return StackItem{}, fmt.Errorf("%w: result stack length %d", ErrUnexpectedStackItem, len(r.Stack))
	}
	return r.Stack[0], nil
}
