package schema

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/stackabletech/product-config/pkg/datatype"
	"github.com/stackabletech/product-config/pkg/defaults"
	cfgerrors "github.com/stackabletech/product-config/pkg/errors"
	"github.com/stackabletech/product-config/pkg/unit"
	"github.com/stackabletech/product-config/pkg/version"
)

// SupportedFormatVersion is the only schema document formatVersion this
// loader accepts.
const SupportedFormatVersion = defaults.SupportedSchemaFormatVersion

// Load parses and validates a schema document, returning the fully resolved
// Schema or an *errors.LoadReport aggregating every problem found. Load
// performs two passes over the document: the first collects every unit and
// property declaration, the second resolves cross-references between them
// (unit names used by properties, expandsTo targets) and checks the
// document-level invariants of §4.D.
func Load(r io.Reader) (*Schema, error) {
	report := &cfgerrors.LoadReport{}

	data, err := io.ReadAll(r)
	if err != nil {
		report.Add(cfgerrors.Wrap(cfgerrors.ErrCodeInternal, "failed to read schema document", err))
		return nil, report.AsReport()
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		report.Add(cfgerrors.Wrap(cfgerrors.ErrCodeUnknownSchemaField, "failed to decode schema document", err))
		return nil, report.AsReport()
	}

	if doc.FormatVersion != "" && doc.FormatVersion != SupportedFormatVersion {
		report.Add(cfgerrors.New(cfgerrors.ErrCodeUnknownSchemaField,
			fmt.Sprintf("unsupported schema formatVersion %q, expected %q", doc.FormatVersion, SupportedFormatVersion)))
		return nil, report.AsReport()
	}

	// Pass 1: collect units.
	units := unit.NewRegistry()
	for _, ud := range doc.Units {
		u, err := unit.Compile(ud.Name, ud.Pattern, ud.Examples...)
		if err != nil {
			report.Add(err.(*cfgerrors.StructuredError))
			continue
		}
		if err := units.Add(u); err != nil {
			report.Add(err.(*cfgerrors.StructuredError))
		}
	}

	// Pass 1 (continued): collect properties, deferring cross-reference
	// resolution to pass 2 so forward references (a property referencing a
	// unit or expandsTo target declared later in the document) resolve
	// correctly.
	props := make(map[PropertyID]*Property, len(doc.Properties))
	order := make([]PropertyID, 0, len(doc.Properties))
	for _, pd := range doc.Properties {
		name := PropertyID(pd.Name)
		if name == "" {
			report.Add(cfgerrors.New(cfgerrors.ErrCodeUnknownSchemaField, "property declared with empty name"))
			continue
		}
		if _, dup := props[name]; dup {
			report.Add(cfgerrors.New(cfgerrors.ErrCodeUnknownSchemaField, fmt.Sprintf("duplicate property name %q", name)))
			continue
		}

		names, nErrs := resolveNames(name, pd.Names)
		for _, e := range nErrs {
			report.Add(e)
		}

		p := &Property{
			ID:          name,
			Description: pd.Description,
			Names:       names,
		}

		if pd.AsOfVersion != "" {
			v, err := version.Parse(pd.AsOfVersion)
			if err != nil {
				report.Add(cfgerrors.Wrap(cfgerrors.ErrCodeBadVersion, fmt.Sprintf("property %q asOfVersion", name), err))
			} else {
				p.AsOfVersion = &v
			}
		}
		if pd.DeprecatedSince != "" {
			v, err := version.Parse(pd.DeprecatedSince)
			if err != nil {
				report.Add(cfgerrors.Wrap(cfgerrors.ErrCodeBadVersion, fmt.Sprintf("property %q deprecatedSince", name), err))
			} else {
				p.DeprecatedSince = &v
			}
		}

		for _, rd := range pd.Roles {
			p.Roles = append(p.Roles, RoleBinding{Role: rd.Role, Required: rd.Required, NoCopy: rd.NoCopy})
		}

		defaults, dErrs := resolveValueRanges(name, "default", pd.Defaults)
		p.Defaults = defaults
		for _, e := range dErrs {
			report.Add(e)
		}
		recs, rErrs := resolveValueRanges(name, "recommendation", pd.Recommendations)
		p.Recommendations = recs
		for _, e := range rErrs {
			report.Add(e)
		}

		if err := checkOverlaps(name, "default", p.Defaults); err != nil {
			report.Add(err)
		}
		if err := checkOverlaps(name, "recommendation", p.Recommendations); err != nil {
			report.Add(err)
		}

		dt, err := resolveDatatype(name, pd.Datatype, units)
		if err != nil {
			report.Add(err)
		}
		p.Datatype = dt

		// Invariant 5 (§3): every default, recommendation, and allowed value
		// must itself satisfy the property's own datatype constraint. This
		// is checked here, at load time, rather than deferred to whenever a
		// consumer happens to hit that particular default at validate time.
		for _, vr := range p.Defaults {
			if e := checkSchemaValue(name, "default", p.Datatype, vr.Value); e != nil {
				report.Add(e)
			}
		}
		for _, vr := range p.Recommendations {
			if e := checkSchemaValue(name, "recommendation", p.Datatype, vr.Value); e != nil {
				report.Add(e)
			}
		}
		for _, av := range p.Datatype.AllowedValues {
			if e := checkSchemaValue(name, "allowed value", p.Datatype, av); e != nil {
				report.Add(e)
			}
		}

		props[name] = p
		order = append(order, name)
	}

	// Pass 2: resolve expandsTo targets now that every property name is
	// known, and check for dangling references and cycles.
	for _, pd := range doc.Properties {
		name := PropertyID(pd.Name)
		p, ok := props[name]
		if !ok {
			continue
		}
		for _, ed := range pd.ExpandsTo {
			target := PropertyID(ed.Target)
			targetProp, exists := props[target]
			if !exists {
				report.Add(cfgerrors.WrapWithContext(cfgerrors.ErrCodeDanglingPropertyReference,
					fmt.Sprintf("property %q expandsTo unknown property %q", name, target), nil,
					map[string]any{"property": string(name), "target": string(target)}))
				continue
			}
			if ed.ForcedValue != nil {
				if e := checkSchemaValue(target, fmt.Sprintf("expandsTo forced_value from %q", name),
					targetProp.Datatype, *ed.ForcedValue); e != nil {
					report.Add(e)
				}
			}
			p.ExpandsTo = append(p.ExpandsTo, ExpansionTarget{Target: target, ForcedValue: ed.ForcedValue})
		}
	}

	if cyc := findCycle(props); cyc != "" {
		report.Add(cfgerrors.New(cfgerrors.ErrCodeCyclicExpansion,
			fmt.Sprintf("expandsTo graph contains a cycle reachable from %q", cyc)))
	}

	if report.HasErrors() {
		return nil, report.AsReport()
	}

	return &Schema{properties: props, order: order, units: units}, nil
}

// checkSchemaValue revalidates value (a default, recommendation, allowed
// value, or expandsTo forced_value) against dt, the datatype constraint it
// is supposed to already satisfy. context names which kind of value failed,
// for the error message.
func checkSchemaValue(prop PropertyID, context string, dt datatype.Constraint, value string) *cfgerrors.StructuredError {
	if checkErr := dt.Check(value); checkErr != nil {
		return cfgerrors.WrapWithContext(cfgerrors.ErrCodeSchemaDefaultFailsValidation,
			fmt.Sprintf("property %q %s %q fails its own datatype constraint: %s", prop, context, value, checkErr.Message),
			checkErr, map[string]any{"property": string(prop), "context": context, "value": value})
	}
	return nil
}

// resolveNames converts a property's declared names document into
// PropertyName values, rejecting an unknown kind or a file-kind name
// missing its file (or an env-kind name that declares one).
func resolveNames(prop PropertyID, docs []nameDoc) ([]PropertyName, []*cfgerrors.StructuredError) {
	var out []PropertyName
	var errs []*cfgerrors.StructuredError
	for _, nd := range docs {
		switch NameKind(nd.Kind) {
		case KindEnv:
			if nd.File != "" {
				errs = append(errs, cfgerrors.New(cfgerrors.ErrCodeUnknownSchemaField,
					fmt.Sprintf("property %q declares an env name with a file set", prop)))
				continue
			}
			out = append(out, PropertyName{Kind: KindEnv, Name: nd.Name})
		case KindFile:
			if nd.File == "" {
				errs = append(errs, cfgerrors.New(cfgerrors.ErrCodeUnknownSchemaField,
					fmt.Sprintf("property %q declares a file name with no file", prop)))
				continue
			}
			out = append(out, PropertyName{Kind: KindFile, Name: nd.Name, File: nd.File})
		default:
			errs = append(errs, cfgerrors.New(cfgerrors.ErrCodeUnknownSchemaField,
				fmt.Sprintf("property %q declares a name with unknown kind %q", prop, nd.Kind)))
		}
	}
	return out, errs
}

// LoadFile reads and loads the schema document at path, deduplicating
// concurrent calls for the same path against a single underlying Load.
func LoadFile(path string) (*Schema, error) {
	v, err, _ := loadGroup.Do(path, func() (any, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, cfgerrors.Wrap(cfgerrors.ErrCodeInternal, "failed to open schema file "+path, err)
		}
		defer f.Close()
		return Load(f)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Schema), nil
}

var loadGroup singleflight.Group

func resolveDatatype(prop PropertyID, dd datatypeDoc, units *unit.Registry) (datatype.Constraint, *cfgerrors.StructuredError) {
	c := datatype.Constraint{Kind: datatype.Kind(dd.Kind), AllowedValues: dd.AllowedValues}

	switch c.Kind {
	case datatype.KindInteger, datatype.KindFloat:
		if dd.Min != nil {
			if d, err := decimalOrError(*dd.Min); err == nil {
				c.Min = d
			}
		}
		if dd.Max != nil {
			if d, err := decimalOrError(*dd.Max); err == nil {
				c.Max = d
			}
		}
	case datatype.KindString:
		c.MinLength = dd.MinLength
		c.MaxLength = dd.MaxLength
	case datatype.KindBool:
		// no bounds
	default:
		return c, cfgerrors.New(cfgerrors.ErrCodeUnknownSchemaField,
			fmt.Sprintf("property %q has unknown datatype kind %q", prop, dd.Kind))
	}

	if dd.Unit != "" {
		u, ok := units.Get(dd.Unit)
		if !ok {
			return c, cfgerrors.WrapWithContext(cfgerrors.ErrCodeDanglingUnitReference,
				fmt.Sprintf("property %q references unknown unit %q", prop, dd.Unit), nil,
				map[string]any{"property": string(prop), "unit": dd.Unit})
		}
		c.Unit = u
		c.UnitName = dd.Unit
	}
	return c, nil
}

func resolveValueRanges(prop PropertyID, kind string, docs []valueRangeDoc) ([]ValueRange, []*cfgerrors.StructuredError) {
	var out []ValueRange
	var errs []*cfgerrors.StructuredError
	for _, vd := range docs {
		from, err := version.Parse(vd.From)
		if err != nil {
			errs = append(errs, cfgerrors.Wrap(cfgerrors.ErrCodeBadVersion,
				fmt.Sprintf("property %q %s range \"from\"", prop, kind), err))
			continue
		}
		var to *version.Version
		if vd.To != "" {
			v, err := version.Parse(vd.To)
			if err != nil {
				errs = append(errs, cfgerrors.Wrap(cfgerrors.ErrCodeBadVersion,
					fmt.Sprintf("property %q %s range \"to\"", prop, kind), err))
				continue
			}
			to = &v
		}
		out = append(out, ValueRange{Range: version.Range{From: from, To: to}, Value: vd.Value})
	}
	return out, errs
}

func checkOverlaps(prop PropertyID, kind string, ranges []ValueRange) *cfgerrors.StructuredError {
	for i := 0; i < len(ranges); i++ {
		for j := i + 1; j < len(ranges); j++ {
			if ranges[i].Range.Overlaps(ranges[j].Range) {
				return cfgerrors.WrapWithContext(cfgerrors.ErrCodeOverlappingVersionRanges,
					fmt.Sprintf("property %q has overlapping %s ranges %s and %s", prop, kind,
						ranges[i].Range.String(), ranges[j].Range.String()), nil,
					map[string]any{"property": string(prop)})
			}
		}
	}
	return nil
}

// findCycle walks the expandsTo graph looking for any cycle, returning the
// name of a property on a discovered cycle, or "" if the graph is acyclic.
func findCycle(props map[PropertyID]*Property) PropertyID {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[PropertyID]int, len(props))

	var visit func(name PropertyID) PropertyID
	visit = func(name PropertyID) PropertyID {
		color[name] = gray
		if p, ok := props[name]; ok {
			for _, e := range p.ExpandsTo {
				switch color[e.Target] {
				case gray:
					return e.Target
				case white:
					if found := visit(e.Target); found != "" {
						return found
					}
				}
			}
		}
		color[name] = black
		return ""
	}

	for name := range props {
		if color[name] == white {
			if found := visit(name); found != "" {
				return found
			}
		}
	}
	return ""
}

func decimalOrError(s string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
