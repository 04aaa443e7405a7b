// Package unit implements the named regular-expression validators
// referenced by schema properties (spec component B).
//
// Unit patterns are matched against candidate values as a full match, and
// may use look-ahead/look-behind assertions (e.g. a memory-size unit that
// requires a numeric prefix followed by one of a fixed set of suffixes
// without consuming the suffix twice). Go's stdlib `regexp` package is
// RE2-based and does not support those constructs, so patterns are compiled
// with dlclark/regexp2 instead.
package unit

import (
	"fmt"

	"github.com/dlclark/regexp2"

	cfgerrors "github.com/stackabletech/product-config/pkg/errors"
)

// Unit is a single named pattern, e.g. "memory" -> `\d+(?=[kmgKMG]i?b)[kmgKMG]i?b`.
type Unit struct {
	Name     string
	Pattern  string
	Examples []string

	re *regexp2.Regexp
}

// Compile builds a Unit from a name and pattern, anchoring the pattern so
// Matches performs a full-string match rather than a search. The pattern
// itself is used verbatim between the anchors, so authors may still write
// their own look-ahead/look-behind assertions inside it.
func Compile(name, pattern string, examples ...string) (*Unit, error) {
	anchored := fmt.Sprintf(`\A(?:%s)\z`, pattern)
	re, err := regexp2.Compile(anchored, regexp2.None)
	if err != nil {
		return nil, cfgerrors.WrapWithContext(cfgerrors.ErrCodeInvalidUnitRegex,
			fmt.Sprintf("unit %q has an invalid pattern", name), err,
			map[string]any{"unit": name, "pattern": pattern})
	}
	return &Unit{Name: name, Pattern: pattern, Examples: examples, re: re}, nil
}

// Matches reports whether value fully matches the unit's pattern.
func (u *Unit) Matches(value string) (bool, error) {
	ok, err := u.re.MatchString(value)
	if err != nil {
		return false, cfgerrors.WrapWithContext(cfgerrors.ErrCodeInvalidUnitRegex,
			fmt.Sprintf("unit %q failed to evaluate against value", u.Name), err,
			map[string]any{"unit": u.Name, "value": value})
	}
	return ok, nil
}

// Registry is the set of units declared by a schema, keyed by name.
type Registry struct {
	units map[string]*Unit
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{units: make(map[string]*Unit)}
}

// Add registers u, returning ErrCodeInvalidUnitRegex-shaped error if a unit
// with the same name is already present.
func (r *Registry) Add(u *Unit) error {
	if _, exists := r.units[u.Name]; exists {
		return cfgerrors.New(cfgerrors.ErrCodeInvalidUnitRegex,
			fmt.Sprintf("duplicate unit name %q", u.Name))
	}
	r.units[u.Name] = u
	return nil
}

// Get returns the unit registered under name, if any.
func (r *Registry) Get(name string) (*Unit, bool) {
	u, ok := r.units[name]
	return u, ok
}

// Len returns the number of registered units.
func (r *Registry) Len() int {
	return len(r.units)
}
