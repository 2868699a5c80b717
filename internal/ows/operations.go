package ows

// HTTP methods of a distributed computing platform.
const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// PossibleValues describes the values a Domain accepts.
type PossibleValues interface {
	isPossibleValues()
}

// AnyValue accepts every value.
type AnyValue struct{}

// NoValues accepts no value.
type NoValues struct{}

// Range is a closed interval of allowed values.
type Range struct {
	Min     string
	Max     string
	Spacing string
}

// AllowedValues lists the accepted values and ranges.
type AllowedValues struct {
	Values []string
	Ranges []Range
}

// ValuesReference points to an external list of values.
type ValuesReference struct {
	Reference string
	Value     string
}

func (AnyValue) isPossibleValues()        {}
func (NoValues) isPossibleValues()        {}
func (AllowedValues) isPossibleValues()   {}
func (ValuesReference) isPossibleValues() {}

// Domain is an operation parameter or constraint with its possible values.
type Domain struct {
	Name           string
	PossibleValues PossibleValues
	DefaultValue   string
}

// NewAllowedValuesDomain returns a domain restricted to values.
func NewAllowedValuesDomain(name string, values ...string) Domain {
	return Domain{Name: name, PossibleValues: AllowedValues{Values: values}}
}

// DCP is a distributed computing platform endpoint of an operation.
type DCP struct {
	Method      string
	Href        string
	Constraints []Domain
}

// Operation is the metadata of one service operation.
type Operation struct {
	Name        string
	DCPs        []DCP
	Parameters  []Domain
	Constraints []Domain
}

// OperationsMetadata is the ows:OperationsMetadata section.
type OperationsMetadata struct {
	Operations  []Operation
	Parameters  []Domain
	Constraints []Domain
}

// Operation returns the operation called name.
func (m *OperationsMetadata) Operation(name string) (*Operation, bool) {
	for i := range m.Operations {
		if m.Operations[i].Name == name {
			return &m.Operations[i], true
		}
	}
	return nil, false
}
