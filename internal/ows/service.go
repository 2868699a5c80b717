package ows

import "github.com/52North/SOS-sub013/internal/gml"

// ServiceIdentification is the ows:ServiceIdentification section.
type ServiceIdentification struct {
	Title               MultilingualString
	Abstract            MultilingualString
	Keywords            []string
	ServiceType         gml.CodeType
	ServiceTypeVersions []string
	Profiles            []string
	Fees                string
	AccessConstraints   []string
}

// ServiceProvider is the ows:ServiceProvider section.
type ServiceProvider struct {
	Name    string
	Site    string
	Contact *Contact
}

// Contact is the responsible party of a service provider.
type Contact struct {
	IndividualName      string
	PositionName        string
	Role                string
	Phone               *Phone
	Address             *Address
	OnlineResource      string
	HoursOfService      string
	ContactInstructions string
}

// Phone holds voice and facsimile numbers.
type Phone struct {
	Voice     []string
	Facsimile []string
}

// Address is a postal and electronic mail address.
type Address struct {
	DeliveryPoints        []string
	City                  string
	AdministrativeArea    string
	PostalCode            string
	Country               string
	ElectronicMailAddress []string
}
