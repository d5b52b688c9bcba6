package contract

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of every feasibility query and every apply/remove
// call. It is a closed three-way switch; the backing codes are wire values,
// not a severity order.
type Result uint8

const (
	// Possible means the effect may proceed (or did proceed).
	Possible Result = 0x00
	// TemporarilyNotPossible means transient game state blocks the effect and
	// the caller should retry later.
	TemporarilyNotPossible Result = 0x01
	// NotPossible means the effect can never succeed for this parameter block
	// and the caller must not retry.
	NotPossible Result = 0xFF
)

// OK reports whether r is Possible.
func (r Result) OK() bool {
	return r == Possible
}

// Retryable reports whether the caller should try again later.
func (r Result) Retryable() bool {
	return r == TemporarilyNotPossible
}

// Valid reports whether r is one of the three defined codes.
func (r Result) Valid() bool {
	switch r {
	case Possible, TemporarilyNotPossible, NotPossible:
		return true
	default:
		return false
	}
}

func (r Result) String() string {
	switch r {
	case Possible:
		return "possible"
	case TemporarilyNotPossible:
		return "temporarily_not_possible"
	case NotPossible:
		return "not_possible"
	default:
		return fmt.Sprintf("result(0x%02x)", uint8(r))
	}
}

// MarshalJSON renders the result as its text form.
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("contract: invalid result code 0x%02x", uint8(r))
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts the text form produced by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, ok := ParseResult(text)
	if !ok {
		return fmt.Errorf("contract: unknown result %q", text)
	}
	*r = parsed
	return nil
}

// ParseResult converts a text form back into a Result.
func ParseResult(text string) (Result, bool) {
	switch text {
	case "possible":
		return Possible, true
	case "temporarily_not_possible":
		return TemporarilyNotPossible, true
	case "not_possible":
		return NotPossible, true
	default:
		return NotPossible, false
	}
}

// ParamCount is the fixed size of every parameter block.
const ParamCount = 3

// Params is the caller-supplied parameter block. Its meaning is defined by
// each effect kind. Hooks receive it by value so an effect cannot rewrite
// the block owned by its instance.
type Params [ParamCount]int32

// ParamsFrom copies up to ParamCount values into a block. Missing values are
// zero and extra values are ignored.
func ParamsFrom(values ...int32) Params {
	var p Params
	copy(p[:], values)
	return p
}

// Kind names an effect variant in the registry.
type Kind string
