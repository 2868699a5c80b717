package sos

import (
	"net/url"

	"golang.org/x/text/language"

	"github.com/52North/SOS-sub013/internal/ows"
	"github.com/52North/SOS-sub013/internal/settings"
)

// Setting keys of the service.
const (
	SettingServiceURL             = "service.sosUrl"
	SettingTitle                  = "serviceIdentification.title"
	SettingAbstract               = "serviceIdentification.abstract"
	SettingKeywords               = "serviceIdentification.keywords"
	SettingFees                   = "serviceIdentification.fees"
	SettingAccessConstraints      = "serviceIdentification.accessConstraints"
	SettingProviderName           = "serviceProvider.name"
	SettingProviderSite           = "serviceProvider.site"
	SettingProviderIndividualName = "serviceProvider.individualName"
	SettingProviderPositionName   = "serviceProvider.positionName"
	SettingProviderPhone          = "serviceProvider.phone"
	SettingProviderEmail          = "serviceProvider.email"
	SettingProviderCity           = "serviceProvider.city"
	SettingProviderCountry        = "serviceProvider.country"
	SettingTokenSeparator         = "service.encoding.tokenSeparator"
	SettingTupleSeparator         = "service.encoding.tupleSeparator"
	SettingDecimalSeparator       = "service.encoding.decimalSeparator"
)

// DefaultServiceURL is the endpoint advertised until service.sosUrl is set.
const DefaultServiceURL = "http://localhost:8080/service"

// Setting groups of the service.
var (
	ServiceSettingsGroup = settings.Group{
		Key:         "service",
		Title:       "Service",
		Description: "Endpoint and result encoding",
		Order:       1,
	}
	IdentificationSettingsGroup = settings.Group{
		Key:         "serviceIdentification",
		Title:       "Service Identification",
		Description: "Metadata describing the service",
		Order:       2,
	}
	ProviderSettingsGroup = settings.Group{
		Key:         "serviceProvider",
		Title:       "Service Provider",
		Description: "Organisation operating the service",
		Order:       3,
	}
)

// SettingsGroups returns the groups of the service settings.
func SettingsGroups() []settings.Group {
	return []settings.Group{ServiceSettingsGroup, IdentificationSettingsGroup, ProviderSettingsGroup}
}

// SettingDefinitions returns the definitions of the service settings.
func SettingDefinitions() []settings.Definition {
	defaultURL, _ := url.Parse(DefaultServiceURL)
	encoding := DefaultEncoding()

	str := func(key, group, title string, order float64, def string) settings.Definition {
		return settings.Definition{
			Key:      key,
			Type:     settings.TypeString,
			Title:    title,
			Group:    group,
			Order:    order,
			Optional: def == "",
			Default:  nilIfEmpty(def),
		}
	}

	defs := []settings.Definition{
		{
			Key:         SettingServiceURL,
			Type:        settings.TypeURI,
			Title:       "SOS URL",
			Description: "Endpoint advertised in the operations metadata.",
			Group:       ServiceSettingsGroup.Key,
			Order:       1,
			Default:     defaultURL,
		},
		str(SettingTokenSeparator, ServiceSettingsGroup.Key, "Token separator", 2, encoding.TokenSeparator),
		str(SettingTupleSeparator, ServiceSettingsGroup.Key, "Tuple separator", 3, encoding.BlockSeparator),
		str(SettingDecimalSeparator, ServiceSettingsGroup.Key, "Decimal separator", 4, encoding.DecimalSeparator),
		{
			Key:     SettingTitle,
			Type:    settings.TypeMultilingualString,
			Title:   "Title",
			Group:   IdentificationSettingsGroup.Key,
			Order:   1,
			Default: ows.NewMultilingualString(language.English, "52N SOS"),
		},
		{
			Key:      SettingAbstract,
			Type:     settings.TypeMultilingualString,
			Title:    "Abstract",
			Group:    IdentificationSettingsGroup.Key,
			Order:    2,
			Optional: true,
		},
		{
			Key:         SettingKeywords,
			Type:        settings.TypeString,
			Title:       "Keywords",
			Description: "Comma separated list of keywords.",
			Group:       IdentificationSettingsGroup.Key,
			Order:       3,
			Optional:    true,
		},
		str(SettingFees, IdentificationSettingsGroup.Key, "Fees", 4, "NONE"),
		str(SettingAccessConstraints, IdentificationSettingsGroup.Key, "Access constraints", 5, "NONE"),
		str(SettingProviderName, ProviderSettingsGroup.Key, "Name", 1, "52North"),
		{
			Key:      SettingProviderSite,
			Type:     settings.TypeURI,
			Title:    "Website",
			Group:    ProviderSettingsGroup.Key,
			Order:    2,
			Optional: true,
		},
		str(SettingProviderIndividualName, ProviderSettingsGroup.Key, "Responsible person", 3, ""),
		str(SettingProviderPositionName, ProviderSettingsGroup.Key, "Position", 4, ""),
		str(SettingProviderPhone, ProviderSettingsGroup.Key, "Phone", 5, ""),
		str(SettingProviderEmail, ProviderSettingsGroup.Key, "Mail address", 6, ""),
		str(SettingProviderCity, ProviderSettingsGroup.Key, "City", 7, ""),
		str(SettingProviderCountry, ProviderSettingsGroup.Key, "Country", 8, ""),
	}
	return defs
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Bindings returns the bindings applying the service settings to s.
func (s *Service) Bindings() []settings.Binding {
	return []settings.Binding{
		settings.Bind(SettingServiceURL, s.SetServiceURL),
		settings.Bind(SettingTokenSeparator, s.SetTokenSeparator),
		settings.Bind(SettingTupleSeparator, s.SetTupleSeparator),
		settings.Bind(SettingDecimalSeparator, s.SetDecimalSeparator),
		settings.Bind(SettingTitle, s.SetTitle),
		settings.Bind(SettingAbstract, s.SetAbstract),
		settings.Bind(SettingKeywords, s.SetKeywords),
		settings.Bind(SettingFees, s.SetFees),
		settings.Bind(SettingAccessConstraints, s.SetAccessConstraints),
		settings.Bind(SettingProviderName, s.SetProviderName),
		settings.Bind(SettingProviderSite, s.SetProviderSite),
		settings.Bind(SettingProviderIndividualName, s.contactSetter(func(c *ows.Contact, v string) { c.IndividualName = v })),
		settings.Bind(SettingProviderPositionName, s.contactSetter(func(c *ows.Contact, v string) { c.PositionName = v })),
		settings.Bind(SettingProviderPhone, s.contactSetter(func(c *ows.Contact, v string) { c.Phone = &ows.Phone{Voice: nonEmpty(v)} })),
		settings.Bind(SettingProviderEmail, s.addressSetter(func(a *ows.Address, v string) { a.ElectronicMailAddress = nonEmpty(v) })),
		settings.Bind(SettingProviderCity, s.addressSetter(func(a *ows.Address, v string) { a.City = v })),
		settings.Bind(SettingProviderCountry, s.addressSetter(func(a *ows.Address, v string) { a.Country = v })),
	}
}

func nonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}
