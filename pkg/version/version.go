// Package version implements the total order over product version strings
// used to gate properties by version window (spec component A).
package version

import (
	"strconv"
	"strings"

	cfgerrors "github.com/stackabletech/product-config/pkg/errors"
)

// Version is a dotted non-negative integer tuple, e.g. "1.0.0" -> [1, 0, 0].
// Components are compared numerically, not lexicographically, and a missing
// trailing component is treated as zero when comparing tuples of different
// length.
type Version struct {
	parts []int64
}

// Parse splits s on '.' and parses each component as a non-negative
// integer. Non-numeric components (including semver-style pre-release
// suffixes such as "1.0.0-rc1") are rejected with ErrCodeBadVersion rather
// than guessed at, per the corpus ambiguity noted in the design notes.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, cfgerrors.New(cfgerrors.ErrCodeBadVersion, "version string is empty")
	}
	fields := strings.Split(s, ".")
	parts := make([]int64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil || n < 0 {
			return Version{}, cfgerrors.Wrap(cfgerrors.ErrCodeBadVersion,
				"version component \""+f+"\" in \""+s+"\" is not a non-negative integer", err)
		}
		parts[i] = n
	}
	return Version{parts: parts}, nil
}

// MustParse is Parse but panics on error. Intended for constants in tests
// and callers that already know the version string is well-formed.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the version back to dotted form.
func (v Version) String() string {
	fields := make([]string, len(v.parts))
	for i, p := range v.parts {
		fields[i] = strconv.FormatInt(p, 10)
	}
	return strings.Join(fields, ".")
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other, comparing component by component and treating a missing component
// as zero.
func (v Version) Compare(other Version) int {
	n := len(v.parts)
	if len(other.parts) > n {
		n = len(other.parts)
	}
	for i := 0; i < n; i++ {
		var a, b int64
		if i < len(v.parts) {
			a = v.parts[i]
		}
		if i < len(other.parts) {
			b = other.parts[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

func (v Version) LessOrEqual(other Version) bool {
	return v.Compare(other) <= 0
}

func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// Range is the half-open interval [From, To) of §3. A nil To means
// unbounded above.
type Range struct {
	From Version
	To   *Version
}

// Contains reports whether v falls in [r.From, r.To).
func (r Range) Contains(v Version) bool {
	if v.Less(r.From) {
		return false
	}
	if r.To != nil && !v.Less(*r.To) {
		return false
	}
	return true
}

// Overlaps reports whether two ranges share any version.
func (r Range) Overlaps(other Range) bool {
	// r starts before other ends (or other is unbounded) AND
	// other starts before r ends (or r is unbounded).
	rStartsBeforeOtherEnds := other.To == nil || r.From.Less(*other.To)
	otherStartsBeforeREnds := r.To == nil || other.From.Less(*r.To)
	return rStartsBeforeOtherEnds && otherStartsBeforeREnds
}

func (r Range) String() string {
	to := "*"
	if r.To != nil {
		to = r.To.String()
	}
	return "[" + r.From.String() + ", " + to + ")"
}
