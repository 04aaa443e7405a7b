package schema

// document is the raw YAML shape a schema file decodes into, before
// cross-references (unit names, expandsTo targets) are resolved and
// invariants are checked. Field names are decoded with
// yaml.Decoder.KnownFields(true), so an unrecognized field aborts the load
// with ErrCodeUnknownSchemaField rather than being silently ignored.
type document struct {
	FormatVersion string        `yaml:"formatVersion"`
	Units         []unitDoc     `yaml:"units"`
	Properties    []propertyDoc `yaml:"properties"`
}

type unitDoc struct {
	Name     string   `yaml:"name"`
	Pattern  string   `yaml:"pattern"`
	Examples []string `yaml:"examples"`
}

type datatypeDoc struct {
	Kind          string   `yaml:"kind"`
	Min           *string  `yaml:"min"`
	Max           *string  `yaml:"max"`
	MinLength     *int     `yaml:"minLength"`
	MaxLength     *int     `yaml:"maxLength"`
	Unit          string   `yaml:"unit"`
	AllowedValues []string `yaml:"allowedValues"`
}

type roleDoc struct {
	Role     string `yaml:"role"`
	Required bool   `yaml:"required"`
	NoCopy   bool   `yaml:"noCopy"`
}

type valueRangeDoc struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Value string `yaml:"value"`
}

type expansionDoc struct {
	Target      string  `yaml:"target"`
	ForcedValue *string `yaml:"forcedValue"`
}

// nameDoc is one entry of a property's "names" list: the literal name it
// renders to for a given file-target kind. File must be set when Kind is
// "file" and must be empty when Kind is "env".
type nameDoc struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

type propertyDoc struct {
	Name            string          `yaml:"name"`
	Description     string          `yaml:"description"`
	Datatype        datatypeDoc     `yaml:"datatype"`
	AsOfVersion     string          `yaml:"asOfVersion"`
	DeprecatedSince string          `yaml:"deprecatedSince"`
	Roles           []roleDoc       `yaml:"roles"`
	Defaults        []valueRangeDoc `yaml:"defaults"`
	Recommendations []valueRangeDoc `yaml:"recommendations"`
	ExpandsTo       []expansionDoc  `yaml:"expandsTo"`
	Names           []nameDoc       `yaml:"names"`
}
