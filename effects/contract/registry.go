package contract

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

var (
	errEmptyKind       = errors.New("definition kind must not be empty")
	errInvalidKind     = errors.New("definition kind must be lower snake case")
	errNilConstructor  = errors.New("definition constructor must not be nil")
	errNilConstruction = errors.New("definition constructor returned nil")
)

var kindPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Definition associates a kind with the constructor of its variant. Each call
// to New must return a fresh effect value.
type Definition[W any] struct {
	Kind Kind
	New  func() Effect[W]
}

// Removable reports whether the variant built by this definition has an
// inverse.
func (d Definition[W]) Removable() bool {
	if d.New == nil {
		return false
	}
	return IsRemovable(d.New())
}

// Instantiate builds a new instance bound to params.
func (d Definition[W]) Instantiate(params Params) *Instance[W] {
	return NewInstance(d.Kind, d.New(), params)
}

func (d Definition[W]) validate() error {
	if d.Kind == "" {
		return errEmptyKind
	}
	if !kindPattern.MatchString(string(d.Kind)) {
		return fmt.Errorf("%w (%q)", errInvalidKind, d.Kind)
	}
	if d.New == nil {
		return errNilConstructor
	}
	if d.New() == nil {
		return errNilConstruction
	}
	return nil
}

// Registry is the closed set of effect variants known to a host. Callers
// should Validate (or Index) before use.
type Registry[W any] []Definition[W]

// Validate ensures kinds are unique and every definition is constructible.
func (r Registry[W]) Validate() error {
	seen := make(map[Kind]struct{}, len(r))
	for _, def := range r {
		if err := def.validate(); err != nil {
			return fmt.Errorf("contract: %q: %w", def.Kind, err)
		}
		if _, exists := seen[def.Kind]; exists {
			return fmt.Errorf("contract: duplicate definition kind %q", def.Kind)
		}
		seen[def.Kind] = struct{}{}
	}
	return nil
}

// Index materialises a lookup map from the registry after validation.
func (r Registry[W]) Index() (map[Kind]Definition[W], error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	out := make(map[Kind]Definition[W], len(r))
	for _, def := range r {
		out[def.Kind] = def
	}
	return out, nil
}

// MustIndex materialises the registry and panics if validation fails. Useful for tests.
func (r Registry[W]) MustIndex() map[Kind]Definition[W] {
	index, err := r.Index()
	if err != nil {
		panic(err)
	}
	return index
}

// Kinds returns the registered kinds in lexical order.
func (r Registry[W]) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r))
	for _, def := range r {
		kinds = append(kinds, def.Kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
