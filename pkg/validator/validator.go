/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"log/slog"
	"time"

	"github.com/stackabletech/product-config/pkg/expand"
	"github.com/stackabletech/product-config/pkg/outcome"
	"github.com/stackabletech/product-config/pkg/schema"
	"github.com/stackabletech/product-config/pkg/version"
)

// Option is a functional option for configuring Driver instances.
type Option func(*Driver)

// WithVersion returns an Option that stamps the driver/build version into
// every outcome.Map this Driver produces.
func WithVersion(v string) Option {
	return func(d *Driver) {
		d.version = v
	}
}

// Driver validates and expands user-supplied configuration values against
// a Schema (spec component G). A Driver holds no schema-specific or
// request-specific state and is safe for concurrent, repeated use.
type Driver struct {
	version string
}

// New creates a Driver with the provided options.
func New(opts ...Option) *Driver {
	d := &Driver{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Request bundles the inputs to a single Validate call.
type Request struct {
	ProductVersion version.Version
	Role           string
	FileTarget     string
	UserValues     []expand.UserValue
}

// Validate expands req.UserValues against sch and returns one outcome.Map
// entry per applicable property name. Validate does not accept a
// context.Context: the whole operation is synchronous, in-memory, and has
// no cancellable step.
func (d *Driver) Validate(sch *schema.Schema, req Request) (*outcome.Map, error) {
	start := time.Now()

	result := expand.Expand(sch, req.ProductVersion, req.Role, req.UserValues)

	m := outcome.NewMap(req.FileTarget)
	if d.version != "" {
		m.Metadata["driver-version"] = d.version
	}

	for _, u := range result.Unknown {
		offending := u.Value
		kind := outcome.ErrUnknownProperty
		msg := "unknown property"
		if u.Suggestion != "" {
			msg = "unknown property, did you mean \"" + u.Suggestion + "\"?"
		}
		m.Put(u.Name, outcome.Outcome{
			Status:    outcome.StatusError,
			ErrKind:   &kind,
			Offending: &offending,
		})
		slog.Warn(msg, "property", u.Name, "suggestion", u.Suggestion)
	}

	conflicts := make(map[schema.PropertyID]expand.Conflict, len(result.Conflicts))
	for _, c := range result.Conflicts {
		conflicts[c.Target] = c
	}

	present := make(map[schema.PropertyID]bool, len(result.Order))
	for _, name := range result.Order {
		eff := result.Effectives[name]
		p, ok := sch.Lookup(name)
		if !ok {
			continue
		}
		names := p.NamesForFileTarget(req.FileTarget)
		if len(names) == 0 {
			continue
		}
		present[name] = true

		var o outcome.Outcome
		if c, conflicted := conflicts[name]; conflicted {
			kind := outcome.ErrConflictingExpansion
			o = outcome.Outcome{
				Status:    outcome.StatusError,
				Value:     c.UserValue,
				ErrKind:   &kind,
				Offending: &c.ForcedValue,
			}
		} else {
			o = d.evaluate(p, eff.Value, eff.Source, eff.Hidden, req)
		}
		// Emit the same outcome once per matching rendered name (§4.G
		// step 4): a property may have zero or several names for a file
		// target, e.g. a distinct env-var name and properties-file key.
		for _, pn := range names {
			m.Put(pn.Name, o)
		}
	}

	// Schema-wide pass: any property required for this role that never
	// received an effective value at all (no user value, no default) is
	// either satisfied by its recommendation or reported missing.
	for _, name := range sch.Names() {
		if present[name] {
			continue
		}
		p, _ := sch.Lookup(name)
		names := p.NamesForFileTarget(req.FileTarget)
		if len(names) == 0 {
			continue
		}
		if !p.RequiredForRole(req.Role) || !p.SupportedAt(req.ProductVersion) {
			continue
		}
		var o outcome.Outcome
		if rec, ok := p.RecommendedFor(req.ProductVersion); ok {
			rv := rec
			o = outcome.Outcome{
				Status:      outcome.StatusRecommendedDefault,
				Value:       rec,
				Recommended: &rv,
			}
		} else {
			kind := outcome.ErrMissingRequired
			o = outcome.Outcome{
				Status:  outcome.StatusError,
				ErrKind: &kind,
			}
		}
		for _, pn := range names {
			m.Put(pn.Name, o)
		}
	}

	summary := m.Summarize()
	validateOutcomesTotal.WithLabelValues(outcome.StatusValid.String()).Add(float64(summary.Valid))
	validateOutcomesTotal.WithLabelValues(outcome.StatusDefault.String()).Add(float64(summary.Default))
	validateOutcomesTotal.WithLabelValues(outcome.StatusRecommendedDefault.String()).Add(float64(summary.RecommendedDefault))
	validateOutcomesTotal.WithLabelValues(outcome.StatusWarn.String()).Add(float64(summary.Warned))
	validateOutcomesTotal.WithLabelValues(outcome.StatusError.String()).Add(float64(summary.Errored))

	elapsed := time.Since(start)
	validateDuration.Observe(elapsed.Seconds())

	slog.Debug("validation completed",
		"total", summary.Total,
		"valid", summary.Valid,
		"default", summary.Default,
		"recommendedDefault", summary.RecommendedDefault,
		"warned", summary.Warned,
		"errored", summary.Errored,
		"hidden", summary.Hidden,
		"duration", elapsed)

	return m, nil
}

// evaluate produces the Outcome for a single property that has an
// effective value, running the version-window check, the datatype check,
// role-applicability, and deprecation in that order.
func (d *Driver) evaluate(p *schema.Property, value string, src expand.Source, hidden bool, req Request) outcome.Outcome {
	o := outcome.Outcome{Value: value, Hidden: hidden}

	if !p.SupportedAt(req.ProductVersion) {
		kind := outcome.ErrVersionTooLow
		o.Status = outcome.StatusError
		o.ErrKind = &kind
		o.Offending = &value
		return o
	}

	if checkErr := p.Datatype.Check(value); checkErr != nil {
		kind := checkErr.Kind
		o.Status = outcome.StatusError
		o.ErrKind = &kind
		o.Offending = &value
		return o
	}

	switch src {
	case expand.SourceDefault:
		o.Status = outcome.StatusDefault
	default:
		o.Status = outcome.StatusValid
	}

	if len(p.Roles) > 0 {
		if _, applicable := p.HasRole(req.Role); !applicable {
			kind := outcome.WarnNotApplicableToRole
			o.Status = outcome.StatusWarn
			o.WarnKind = &kind
		}
	}

	if o.Status != outcome.StatusWarn && p.DeprecatedAt(req.ProductVersion) {
		kind := outcome.WarnDeprecated
		o.Status = outcome.StatusWarn
		o.WarnKind = &kind
	}

	if rec, ok := p.RecommendedFor(req.ProductVersion); ok {
		rv := rec
		o.Recommended = &rv
	}

	return o
}
