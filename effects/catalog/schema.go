package catalog

import (
	"encoding/json"
	"errors"
	"fmt"

	"game-interactor/effects/contract"
)

var (
	// ErrParamOutOfRange reports a parameter outside the designer-declared range.
	ErrParamOutOfRange = errors.New("catalog: parameter out of range")
	// ErrTooManyParams reports a request carrying more than contract.ParamCount values.
	ErrTooManyParams = errors.New("catalog: too many parameters")
	// ErrUnknownKind reports an entry naming a kind the registry does not hold.
	ErrUnknownKind = errors.New("catalog: unknown kind")
)

// ParamSpec documents one slot of the parameter block and optionally bounds it.
type ParamSpec struct {
	Name        string `json:"name" yaml:"name" jsonschema:"title=Parameter name,minLength=1"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Min         *int32 `json:"min,omitempty" yaml:"min,omitempty" jsonschema:"description=Inclusive lower bound accepted from callers"`
	Max         *int32 `json:"max,omitempty" yaml:"max,omitempty" jsonschema:"description=Inclusive upper bound accepted from callers"`
}

func (s ParamSpec) allows(value int32) bool {
	if s.Min != nil && value < *s.Min {
		return false
	}
	if s.Max != nil && value > *s.Max {
		return false
	}
	return true
}

// Definition is the designer-authored metadata attached to an interaction.
type Definition struct {
	Title       string      `json:"title,omitempty" yaml:"title,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Params      []ParamSpec `json:"params,omitempty" yaml:"params,omitempty" jsonschema:"maxItems=3"`
	Defaults    []int32     `json:"defaults,omitempty" yaml:"defaults,omitempty" jsonschema:"maxItems=3,description=Parameter block used when a request supplies none"`
	// DurationTicks is the default lifetime of a removable interaction; zero
	// keeps it active until explicitly removed.
	DurationTicks int  `json:"durationTicks,omitempty" yaml:"durationTicks,omitempty" jsonschema:"minimum=0"`
	Disabled      bool `json:"disabled,omitempty" yaml:"disabled,omitempty" jsonschema:"description=Reject requests for this entry without consulting the game"`
}

// EntryDocument represents a single catalog entry as it appears on disk. The
// struct is exported so the schema generator can reflect over it.
type EntryDocument struct {
	ID         string                     `json:"id" yaml:"id" jsonschema:"title=Catalog Entry ID,description=Caller-facing identifier for the interaction.,pattern=^[a-z0-9-]+$,minLength=1,required"`
	Kind       string                     `json:"kind" yaml:"kind" jsonschema:"title=Effect Kind,description=Registered effect kind this entry triggers.,pattern=^[a-z][a-z0-9_]*$,minLength=1,required"`
	Definition Definition                 `json:"definition" yaml:"definition" jsonschema:"title=Interaction Definition,required"`
	Blocks     map[string]json.RawMessage `json:"-" yaml:"-" jsonschema:"-"`
}

// FileDefinitions represents the contents of a catalog file. The loader
// accepts either arrays or objects keyed by id; the schema models the array
// form.
type FileDefinitions []EntryDocument

// Entry is a resolved catalog entry.
type Entry struct {
	ID         string
	Kind       contract.Kind
	Removable  bool
	Definition Definition
	Blocks     map[string]json.RawMessage
}

// Params merges supplied values over the entry defaults and checks the
// declared ranges. An empty supply selects the defaults.
func (e Entry) Params(supplied []int32) (contract.Params, error) {
	if len(supplied) > contract.ParamCount {
		return contract.Params{}, fmt.Errorf("%w: %d supplied", ErrTooManyParams, len(supplied))
	}
	values := supplied
	if len(values) == 0 {
		values = e.Definition.Defaults
	}
	params := contract.ParamsFrom(values...)
	for i, spec := range e.Definition.Params {
		if i >= contract.ParamCount {
			break
		}
		if !spec.allows(params[i]) {
			return contract.Params{}, fmt.Errorf("%w: %s=%d", ErrParamOutOfRange, spec.Name, params[i])
		}
	}
	return params, nil
}

func (e Entry) clone() Entry {
	clone := e
	clone.Blocks = cloneRawMap(e.Blocks)
	clone.Definition.Params = append([]ParamSpec(nil), e.Definition.Params...)
	clone.Definition.Defaults = append([]int32(nil), e.Definition.Defaults...)
	return clone
}

func cloneRawMap(src map[string]json.RawMessage) map[string]json.RawMessage {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]json.RawMessage, len(src))
	for key, value := range src {
		if len(value) == 0 {
			dst[key] = nil
			continue
		}
		copied := make(json.RawMessage, len(value))
		copy(copied, value)
		dst[key] = copied
	}
	return dst
}
