// Package header provides the small resource-header embedded by every
// top-level result type in this module (currently outcome.Map), following
// the Kind/APIVersion/Metadata convention the teacher uses for its own
// snapshot and recipe resources.
package header

import (
	"fmt"
	"strings"
	"time"
)

// ApiVersionDomain and ApiVersionV1 compose the default APIVersion string
// stamped by Set, adapted to this module's domain.
var (
	ApiVersionDomain = "product-config.stackable.tech"
	ApiVersionV1     = "v1"
)

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the
// Header. If the Metadata map is nil, it will be initialized.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind returns an Option that sets the Kind field of the Header.
func WithKind(kind string) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// WithAPIVersion returns an Option that sets the APIVersion field of the
// Header.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// New creates a new Header instance with the provided functional options.
// The Metadata map is initialized automatically.
func New(opts ...Option) *Header {
	h := &Header{
		Metadata: make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header carries identity metadata for a top-level result value.
type Header struct {
	// Kind is the type of the object, e.g. "ValidationOutcome".
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion identifies the schema of this result, e.g.
	// "validationoutcome.product-config.stackable.tech/v1".
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata holds free-form key-value annotations (correlation IDs,
	// timestamps).
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// SetKind sets Kind and derives APIVersion as "<kind-lower>.<domain>/<version>",
// initializing Metadata if it is nil. Callers add their own metadata entries
// afterward.
func (h *Header) SetKind(kind, domain, version string) {
	h.Kind = kind
	h.APIVersion = fmt.Sprintf("%s.%s/%s", strings.ToLower(kind), domain, version)
	if h.Metadata == nil {
		h.Metadata = make(map[string]string)
	}
}

// Set is SetKind against the package-level default domain and version,
// stamping a set-at timestamp the way the teacher's snapshot headers stamp
// a recommendation-timestamp.
func (h *Header) Set(kind string) {
	h.SetKind(kind, ApiVersionDomain, ApiVersionV1)
	h.Metadata["set-at"] = time.Now().UTC().Format(time.RFC3339)
}
