// Package outcome defines the tagged per-property validation result (spec
// component H) and the ordered map of such results a validation call
// produces.
package outcome

import (
	"time"

	"github.com/google/uuid"

	"github.com/stackabletech/product-config/pkg/header"
)

// APIDomain and APIVersion mirror the teacher's resource-header convention,
// adapted to this domain instead of GPU cluster recipes.
const (
	APIDomain  = "product-config.stackable.tech"
	APIVersion = "v1"
	Kind       = "ValidationOutcome"
)

// ErrorKind is the stable taxonomy of fatal, per-property validation
// failures from §7 ("Validation errors").
type ErrorKind string

const (
	ErrUnknownProperty      ErrorKind = "UnknownProperty"
	ErrInvalidType          ErrorKind = "InvalidType"
	ErrOutOfBounds          ErrorKind = "OutOfBounds"
	ErrUnitMismatch         ErrorKind = "UnitMismatch"
	ErrNotAllowed           ErrorKind = "NotAllowed"
	ErrVersionTooLow        ErrorKind = "VersionTooLow"
	ErrMissingRequired      ErrorKind = "MissingRequired"
	ErrConflictingExpansion ErrorKind = "ConflictingExpansion"
	ErrCyclicExpansion      ErrorKind = "CyclicExpansion"
)

// WarnKind is the stable taxonomy of non-fatal, per-property validation
// warnings from §7 ("Validation warnings").
type WarnKind string

const (
	WarnDeprecated          WarnKind = "Deprecated"
	WarnNotApplicableToRole WarnKind = "NotApplicableToRole"
)

// Status is the tag of the outcome variant, per §4.H.
type Status int

const (
	StatusValid Status = iota
	StatusDefault
	StatusRecommendedDefault
	StatusWarn
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "Valid"
	case StatusDefault:
		return "Default"
	case StatusRecommendedDefault:
		return "RecommendedDefault"
	case StatusWarn:
		return "Warn"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// CheckError is the result of a failed datatype/unit/allowed-value check
// (spec component C). Kind is the primary failure reported on the Outcome;
// Kinds preserves every distinct failure kind detected for the same value,
// so a caller who wants full detail (e.g. both NotAllowed and UnitMismatch,
// per the §9 open question "both errors should be surfaced when both fail")
// can inspect it, while the Outcome model still carries one canonical Kind.
type CheckError struct {
	Kind    ErrorKind
	Kinds   []ErrorKind
	Message string
}

func (e *CheckError) Error() string {
	return e.Message
}

// Merge folds other into e (or returns other if e is nil), keeping the
// first-encountered Kind as primary and recording all kinds seen.
func (e *CheckError) Merge(other *CheckError) *CheckError {
	if other == nil {
		return e
	}
	if e == nil {
		return &CheckError{Kind: other.Kind, Kinds: append([]ErrorKind{}, other.Kinds...), Message: other.Message}
	}
	e.Kinds = append(e.Kinds, other.Kinds...)
	e.Message = e.Message + "; " + other.Message
	return e
}

// Outcome is the per-property-name result described in §4.H.
type Outcome struct {
	Status Status

	// Value is the effective value for Valid/Default/RecommendedDefault/Warn
	// outcomes. It is empty for a pure MissingRequired/UnknownProperty error
	// that never had a candidate value.
	Value string

	// Recommended is the advisory recommendation for this property at the
	// validated version (§4.G step 5). It is set on Valid, Default and Warn
	// outcomes when one applies, and on a RecommendedDefault outcome, where
	// it equals Value. Error outcomes do not carry it.
	Recommended *string

	WarnKind *WarnKind
	ErrKind  *ErrorKind
	// Offending holds the rejected value for Error outcomes that had one
	// (e.g. OutOfBounds carries the bad value; MissingRequired does not).
	Offending *string

	// Hidden marks a property whose RoleBinding.NoCopy suppressed emission
	// for the requesting role while its expansions still appear (§4.F
	// step 7). Hidden is an overlay on top of Status, not a replacement:
	// a Hidden property is still Valid/Default/etc.
	Hidden bool
}

// entry pairs a projected name with its outcome, preserving insertion order.
type entry struct {
	name    string
	outcome Outcome
}

// Map is the ordered, deterministic result of a validation call. The
// validator puts entries in this order: unknown user-supplied names, in
// user-input order; then known properties in expand.Result.Order (user
// input, then expansion, then schema-declared defaults); then required
// properties that had no effective value, in schema-declared order. Unknown
// names are not interleaved with known ones by their position in the input.
type Map struct {
	header.Header

	FileTarget string
	entries    []entry
	index      map[string]int
}

// NewMap creates an empty, initialized Map for the given file target.
func NewMap(fileTarget string) *Map {
	m := &Map{FileTarget: fileTarget, index: make(map[string]int)}
	m.Header.SetKind(Kind, APIDomain, APIVersion)
	m.Header.Metadata["correlation-id"] = uuid.NewString()
	m.Header.Metadata["validated-at"] = time.Now().UTC().Format(time.RFC3339)
	return m
}

// Put appends (or overwrites, if name was already present) an outcome for
// the given projected name.
func (m *Map) Put(name string, o Outcome) {
	if idx, ok := m.index[name]; ok {
		m.entries[idx].outcome = o
		return
	}
	m.index[name] = len(m.entries)
	m.entries = append(m.entries, entry{name: name, outcome: o})
}

// Get returns the outcome for name, if present.
func (m *Map) Get(name string) (Outcome, bool) {
	idx, ok := m.index[name]
	if !ok {
		return Outcome{}, false
	}
	return m.entries[idx].outcome, true
}

// Len returns the number of projected names in the map.
func (m *Map) Len() int {
	return len(m.entries)
}

// Names returns the projected names in deterministic insertion order.
func (m *Map) Names() []string {
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.name
	}
	return names
}

// Range calls fn for every (name, outcome) pair in deterministic order,
// stopping early if fn returns false.
func (m *Map) Range(fn func(name string, o Outcome) bool) {
	for _, e := range m.entries {
		if !fn(e.name, e.outcome) {
			return
		}
	}
}

// Summary tallies outcomes by status, mirroring the teacher's
// ValidationResult.Summary pattern.
type Summary struct {
	Total              int
	Valid              int
	Default            int
	RecommendedDefault int
	Warned             int
	Errored            int
	Hidden             int
}

// Summarize computes a Summary over the map's current contents.
func (m *Map) Summarize() Summary {
	var s Summary
	m.Range(func(_ string, o Outcome) bool {
		s.Total++
		switch o.Status {
		case StatusValid:
			s.Valid++
		case StatusDefault:
			s.Default++
		case StatusRecommendedDefault:
			s.RecommendedDefault++
		case StatusWarn:
			s.Warned++
		case StatusError:
			s.Errored++
		}
		if o.Hidden {
			s.Hidden++
		}
		return true
	})
	return s
}
