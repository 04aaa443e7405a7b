// Package expand implements the dependency-graph expansion of spec
// component F: given a set of user-supplied property values, it applies
// schema-declared defaults, walks every `expandsTo` edge reachable from a
// role-applicable, version-supported property that ended up with an
// effective value, and marks `no_copy`
// targets Hidden for the requesting role.
package expand

import (
	"github.com/agnivade/levenshtein"

	"github.com/stackabletech/product-config/pkg/defaults"
	"github.com/stackabletech/product-config/pkg/schema"
	"github.com/stackabletech/product-config/pkg/version"
)

// Source identifies where a property's effective value came from.
type Source int

const (
	SourceUser Source = iota
	SourceDefault
	SourceExpansion
)

func (s Source) String() string {
	switch s {
	case SourceUser:
		return "user"
	case SourceDefault:
		return "default"
	case SourceExpansion:
		return "expansion"
	default:
		return "unknown"
	}
}

// UserValue is a single user-supplied property assignment.
type UserValue struct {
	Name  schema.PropertyID
	Value string
}

// Effective is a property's resolved value after expansion, before
// datatype validation runs.
type Effective struct {
	Name   schema.PropertyID
	Value  string
	Source Source

	// ExpandedFrom is the owning property whose expandsTo edge produced
	// this value, set only when Source is SourceExpansion.
	ExpandedFrom schema.PropertyID

	// Hidden marks a value suppressed from rendered output for the
	// requesting role via a no_copy role binding.
	Hidden bool
}

// UnknownName is a user-supplied property name absent from the schema.
type UnknownName struct {
	Name       string
	Value      string
	Suggestion string // nearest known property name, empty if none is close
}

// Conflict records a target property that already carried an explicit
// user-supplied value when an expandsTo edge tried to force it to a
// different value (§4.F step 4, §8 scenario S6).
type Conflict struct {
	Target schema.PropertyID
	// UserValue is the value the user explicitly supplied for Target.
	UserValue string
	// ForcedValue is the conflicting value the expansion edge declared.
	ForcedValue string
	// Source is the property whose expandsTo edge produced the conflict.
	Source schema.PropertyID
}

// Result is the outcome of a single Expand call.
type Result struct {
	// Effectives holds one entry per property name that ended up with a
	// value, in the order described by Order.
	Effectives map[schema.PropertyID]Effective

	// Order lists effective property names in insertion order: user input
	// first, then properties introduced by expansion, then remaining
	// schema-declared defaults.
	Order []schema.PropertyID

	Unknown []UnknownName

	// Conflicts lists every target property where a forced_value expansion
	// disagreed with an explicit user-supplied value. A conflicted target
	// keeps its user value in Effectives; the conflict itself is reported
	// as an error by the validator.
	Conflicts []Conflict
}

// Expand computes the effective value set for role at productVersion,
// given the user's raw input.
func Expand(sch *schema.Schema, productVersion version.Version, role string, userValues []UserValue) *Result {
	res := &Result{Effectives: make(map[schema.PropertyID]Effective)}

	seen := make(map[schema.PropertyID]bool)
	appendOrder := func(name schema.PropertyID) {
		if !seen[name] {
			seen[name] = true
			res.Order = append(res.Order, name)
		}
	}

	// Step 1: seat user-supplied values, flagging names the schema doesn't
	// recognize instead of dropping them silently. A value for a property
	// not applicable to role or not yet supported at productVersion is
	// still seated here (the validator reports it Warn/Error against the
	// property itself), but step 3 below excludes it from the expansion
	// worklist.
	for _, uv := range userValues {
		if _, ok := sch.Lookup(uv.Name); !ok {
			res.Unknown = append(res.Unknown, UnknownName{
				Name:       string(uv.Name),
				Value:      uv.Value,
				Suggestion: nearestName(string(uv.Name), sch),
			})
			continue
		}
		res.Effectives[uv.Name] = Effective{Name: uv.Name, Value: uv.Value, Source: SourceUser}
		appendOrder(uv.Name)
	}

	// Step 2: seat schema-declared defaults for every property the user
	// left unset. A property that isn't applicable to role, or isn't yet
	// supported at productVersion, never receives a default: it is not
	// part of this rendering at all, so it must not seed step 3's
	// expansion worklist either. Defaulted names join Order only after
	// step 3, so properties introduced by expansion come before them.
	var defaulted []schema.PropertyID
	for _, name := range sch.Names() {
		if _, ok := res.Effectives[name]; ok {
			continue
		}
		p, _ := sch.Lookup(name)
		if !p.AppliesToRole(role) || !p.SupportedAt(productVersion) {
			continue
		}
		if def, ok := p.DefaultFor(productVersion); ok {
			res.Effectives[name] = Effective{Name: name, Value: def, Source: SourceDefault}
			defaulted = append(defaulted, name)
		}
	}

	// Step 3: walk expandsTo edges from every property that currently has
	// an effective value, following newly-introduced targets transitively.
	// A property whose value came from a prior expansion still expands its
	// own edges, so this is a worklist, not a single pass. §4.F steps 2-3
	// filter role/version-inapplicable properties out of the closure
	// entirely, and that applies to everything seated in step 1, not just
	// schema defaults: a user-supplied value for a property that isn't
	// applicable to role, or isn't yet supported at productVersion, stays
	// in Effectives (so the validator can still flag it Warn/Error), but
	// must not seed the worklist and so can never expand its dependents.
	// The worklist is seeded in user-input order, then in schema order of
	// the defaults, so expansion is deterministic.
	worklist := make([]schema.PropertyID, 0, len(res.Effectives))
	for _, name := range append(append([]schema.PropertyID{}, res.Order...), defaulted...) {
		p, ok := sch.Lookup(name)
		if !ok || !p.AppliesToRole(role) || !p.SupportedAt(productVersion) {
			continue
		}
		worklist = append(worklist, name)
	}

	visitedEdges := make(map[[2]schema.PropertyID]bool)
	for i := 0; i < len(worklist) && i < defaults.MaxExpansionIterations; i++ {
		name := worklist[i]
		p, ok := sch.Lookup(name)
		if !ok {
			continue
		}
		src := res.Effectives[name]
		for _, edge := range p.ExpandsTo {
			key := [2]schema.PropertyID{name, edge.Target}
			if visitedEdges[key] {
				continue
			}
			visitedEdges[key] = true

			value := src.Value
			if edge.ForcedValue != nil {
				value = *edge.ForcedValue
			}

			if existing, already := res.Effectives[edge.Target]; already {
				if existing.Source == SourceUser {
					// The user's own value always wins over an expansion,
					// but a forced_value that disagrees with it is a
					// reportable conflict, not a silent no-op.
					if edge.ForcedValue != nil && *edge.ForcedValue != existing.Value {
						res.Conflicts = append(res.Conflicts, Conflict{
							Target:      edge.Target,
							UserValue:   existing.Value,
							ForcedValue: *edge.ForcedValue,
							Source:      name,
						})
					}
					continue
				}
				if existing.Value == value {
					continue
				}
			}

			res.Effectives[edge.Target] = Effective{
				Name:         edge.Target,
				Value:        value,
				Source:       SourceExpansion,
				ExpandedFrom: name,
			}
			appendOrder(edge.Target)
			worklist = append(worklist, edge.Target)
		}
	}
	for _, name := range defaulted {
		appendOrder(name)
	}

	// Step 4: mark no_copy targets Hidden for the requesting role. Hidden
	// properties keep their effective value (they can still be the source
	// of further expansion) but are excluded from rendered projections.
	for name, eff := range res.Effectives {
		p, ok := sch.Lookup(name)
		if !ok {
			continue
		}
		if p.NoCopyForRole(role) {
			eff.Hidden = true
			res.Effectives[name] = eff
		}
	}

	return res
}

// nearestName finds the closest known property name to want by Levenshtein
// edit distance, returning "" if nothing is reasonably close.
func nearestName(want string, sch *schema.Schema) string {
	best := ""
	bestDist := defaults.MaxUnknownPropertySuggestionDistance + 1
	for _, name := range sch.Names() {
		d := levenshtein.ComputeDistance(want, string(name))
		if d < bestDist {
			bestDist = d
			best = string(name)
		}
	}
	if bestDist > defaults.MaxUnknownPropertySuggestionDistance {
		return ""
	}
	return best
}
