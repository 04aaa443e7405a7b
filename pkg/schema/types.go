// Package schema implements the immutable schema model of spec component D
// (property declarations, version-scoped defaults/recommendations, role
// bindings, and expansion targets) plus the default/recommendation picker
// of component E.
package schema

import (
	"github.com/stackabletech/product-config/pkg/datatype"
	"github.com/stackabletech/product-config/pkg/defaults"
	"github.com/stackabletech/product-config/pkg/unit"
	"github.com/stackabletech/product-config/pkg/version"
)

// PropertyID is the stable identity of a schema property, matched
// case-sensitively against user-supplied configuration keys, expandsTo
// targets, and role bindings. PropertyID is distinct from PropertyName: the
// ID is how a property is referenced, PropertyName is how it is rendered.
type PropertyID string

// NameKind is the file-target family a PropertyName is scoped to.
type NameKind string

const (
	// KindEnv scopes a PropertyName to the "env" file target.
	KindEnv NameKind = "env"
	// KindFile scopes a PropertyName to one specific named file target.
	KindFile NameKind = "file"
)

// PropertyName is one literal name a property is rendered under. A property
// may declare several: the same logical setting can be an env var under one
// literal name and a properties-file key under a different one. Kind
// selects which family of file target a name applies to; File further
// narrows a KindFile name to a single file.
type PropertyName struct {
	Kind NameKind
	Name string
	File string // set only when Kind is KindFile
}

// ValueRange pairs a version window with the value that applies during it,
// used for both defaults and recommendations (§4.E).
type ValueRange struct {
	Range version.Range
	Value string
}

// RoleBinding scopes a property to a deployment role (e.g. "master",
// "worker"), optionally marking it required for that role or suppressed
// ("no_copy") from that role's rendered output once expanded.
type RoleBinding struct {
	Role     string
	Required bool
	NoCopy   bool
}

// ExpansionTarget is one edge of the `expandsTo` dependency graph: setting
// the owning property also sets Target, either by copying the owning
// property's own effective value or, if ForcedValue is non-nil, by setting
// Target to that fixed value instead.
type ExpansionTarget struct {
	Target      PropertyID
	ForcedValue *string
}

// Property is a single schema-declared configuration property.
type Property struct {
	ID          PropertyID
	Description string

	Datatype datatype.Constraint

	// AsOfVersion is the product version this property was introduced in.
	// A nil AsOfVersion means "always available".
	AsOfVersion *version.Version

	// DeprecatedSince, if set, is the product version from which this
	// property is considered deprecated (still valid, but flagged).
	DeprecatedSince *version.Version

	Roles []RoleBinding

	Defaults        []ValueRange
	Recommendations []ValueRange

	ExpandsTo []ExpansionTarget

	// Names lists the literal rendered names this property projects to. A
	// property that declares no Names projects under its own ID to every
	// file target, matching a plain single-name property.
	Names []PropertyName
}

// HasRole returns the RoleBinding declared for role, if any.
func (p *Property) HasRole(role string) (RoleBinding, bool) {
	for _, rb := range p.Roles {
		if rb.Role == role {
			return rb, true
		}
	}
	return RoleBinding{}, false
}

// AppliesToRole reports whether p is applicable to role at all: a property
// with no role bindings applies to every role, otherwise role must be one
// of the roles it explicitly binds to.
func (p *Property) AppliesToRole(role string) bool {
	if len(p.Roles) == 0 {
		return true
	}
	_, ok := p.HasRole(role)
	return ok
}

// RequiredForRole reports whether p must have an effective value when
// validating for role.
func (p *Property) RequiredForRole(role string) bool {
	rb, ok := p.HasRole(role)
	return ok && rb.Required
}

// NoCopyForRole reports whether p's effective value should be marked Hidden
// for role once expansion has run.
func (p *Property) NoCopyForRole(role string) bool {
	rb, ok := p.HasRole(role)
	return ok && rb.NoCopy
}

// NamesForFileTarget returns the literal PropertyNames p projects to when
// rendering fileTarget. fileTarget equal to defaults.EnvFileTarget selects
// KindEnv names; any other value selects KindFile names whose File matches.
// A property with no declared Names projects under its own ID to every file
// target, so it always returns exactly one entry in that case; otherwise it
// may return zero, one, or several names for a given file target.
func (p *Property) NamesForFileTarget(fileTarget string) []PropertyName {
	if len(p.Names) == 0 {
		return []PropertyName{{Name: string(p.ID)}}
	}
	var out []PropertyName
	for _, n := range p.Names {
		switch n.Kind {
		case KindEnv:
			if fileTarget == defaults.EnvFileTarget {
				out = append(out, n)
			}
		case KindFile:
			if n.File == fileTarget {
				out = append(out, n)
			}
		}
	}
	return out
}

// AppliesToFile reports whether p projects at least one name for the given
// file target.
func (p *Property) AppliesToFile(fileTarget string) bool {
	return len(p.NamesForFileTarget(fileTarget)) > 0
}

// DefaultFor returns the default value that applies at productVersion, if
// any of p's version-scoped defaults covers it.
func (p *Property) DefaultFor(productVersion version.Version) (string, bool) {
	return pickForVersion(p.Defaults, productVersion)
}

// RecommendedFor returns the recommended value that applies at
// productVersion, if any of p's version-scoped recommendations covers it.
func (p *Property) RecommendedFor(productVersion version.Version) (string, bool) {
	return pickForVersion(p.Recommendations, productVersion)
}

func pickForVersion(ranges []ValueRange, v version.Version) (string, bool) {
	for _, vr := range ranges {
		if vr.Range.Contains(v) {
			return vr.Value, true
		}
	}
	return "", false
}

// SupportedAt reports whether p may be set at all at productVersion, i.e.
// productVersion is not older than AsOfVersion.
func (p *Property) SupportedAt(productVersion version.Version) bool {
	if p.AsOfVersion == nil {
		return true
	}
	return !productVersion.Less(*p.AsOfVersion)
}

// DeprecatedAt reports whether p is deprecated as of productVersion.
func (p *Property) DeprecatedAt(productVersion version.Version) bool {
	if p.DeprecatedSince == nil {
		return false
	}
	return p.DeprecatedSince.LessOrEqual(productVersion)
}

// Schema is the fully resolved, immutable set of properties and units
// loaded from a document. Once returned by Load, a Schema is never mutated
// and is safe for concurrent use by multiple validation calls.
type Schema struct {
	properties map[PropertyID]*Property
	order      []PropertyID
	units      *unit.Registry
}

// Lookup returns the property registered under id, if any.
func (s *Schema) Lookup(id PropertyID) (*Property, bool) {
	p, ok := s.properties[id]
	return p, ok
}

// Names returns every declared property ID in schema-declaration order.
func (s *Schema) Names() []PropertyID {
	out := make([]PropertyID, len(s.order))
	copy(out, s.order)
	return out
}

// Units returns the schema's unit registry.
func (s *Schema) Units() *unit.Registry {
	return s.units
}

// Len returns the number of declared properties.
func (s *Schema) Len() int {
	return len(s.order)
}
