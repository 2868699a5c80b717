package gml

// UnknownCodeSpace is the OGC nil URI used when a code space is not known.
// Identifiers carrying it are written without a code space.
const UnknownCodeSpace = "http://www.opengis.net/def/nil/OGC/0/unknown"

// CodeType is a gml:CodeType, a term with an optional dictionary reference.
type CodeType struct {
	Value     string `yaml:"value" json:"value"`
	CodeSpace string `yaml:"codespace,omitempty" json:"codespace,omitempty"`
}

// IsSetCodeSpace reports whether the code space is present and meaningful.
func (c CodeType) IsSetCodeSpace() bool {
	return c.CodeSpace != "" && c.CodeSpace != UnknownCodeSpace
}

// CodeWithAuthority is a gml identifier qualified by the authority that
// issued it.
type CodeWithAuthority struct {
	Value     string `yaml:"value" json:"value"`
	CodeSpace string `yaml:"codespace,omitempty" json:"codespace,omitempty"`
}

// NewIdentifier returns an identifier without code space.
func NewIdentifier(value string) CodeWithAuthority {
	return CodeWithAuthority{Value: value}
}

// IsSet reports whether the identifier has a value.
func (c CodeWithAuthority) IsSet() bool {
	return c.Value != ""
}

// IsSetCodeSpace reports whether the code space is present and meaningful.
func (c CodeWithAuthority) IsSetCodeSpace() bool {
	return c.CodeSpace != "" && c.CodeSpace != UnknownCodeSpace
}

// ReferenceType is an xlink reference.
type ReferenceType struct {
	Href  string `yaml:"href" json:"href"`
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	Role  string `yaml:"role,omitempty" json:"role,omitempty"`
}
