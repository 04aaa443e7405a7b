package defaults

// SupportedSchemaFormatVersion is the schema document formatVersion this
// module knows how to load. Mirrors schema.SupportedFormatVersion; kept
// here too so callers assembling a schema document don't need to import
// the schema package just to read the constant.
const SupportedSchemaFormatVersion = "v1"

// EnvFileTarget is the reserved file target denoting environment-variable
// rendering, as opposed to a named properties/config file.
const EnvFileTarget = "env"

// MaxExpansionIterations bounds the expandsTo worklist as a defensive
// backstop against a schema constructed outside of schema.Load, which
// already rejects cyclic expansion graphs at load time.
const MaxExpansionIterations = 10000

// MaxUnknownPropertySuggestionDistance is the largest Levenshtein edit
// distance for which an UnknownProperty error still suggests a nearest
// known property name.
const MaxUnknownPropertySuggestionDistance = 4
