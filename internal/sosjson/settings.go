package sosjson

import (
	"github.com/52North/SOS-sub013/internal/settings"
)

// Setting keys of the encoder.
const (
	SettingDefaultSRID = "misc.defaultSrid"
	SettingCRSPrefix   = "misc.srsNamePrefixSosV2"
	SettingPrettyPrint = "misc.prettyPrint"
)

// SettingsGroup groups the encoder settings.
var SettingsGroup = settings.Group{
	Key:         "misc",
	Title:       "Miscellaneous",
	Description: "Encoding of responses",
	Order:       5,
}

// SettingDefinitions returns the definitions of the encoder settings.
func SettingDefinitions() []settings.Definition {
	return []settings.Definition{
		{
			Key:         SettingDefaultSRID,
			Type:        settings.TypeInteger,
			Title:       "Default EPSG code",
			Description: "Reference system of geometries that do not name one.",
			Group:       SettingsGroup.Key,
			Order:       1,
			Default:     int64(DefaultSRID),
		},
		{
			Key:         SettingCRSPrefix,
			Type:        settings.TypeString,
			Title:       "CRS prefix",
			Description: "Prefix of CRS links, followed by the EPSG code.",
			Group:       SettingsGroup.Key,
			Order:       2,
			Default:     DefaultCRSPrefix,
		},
		{
			Key:         SettingPrettyPrint,
			Type:        settings.TypeBoolean,
			Title:       "Pretty print JSON",
			Description: "Indent JSON responses.",
			Group:       SettingsGroup.Key,
			Order:       3,
			Default:     false,
		},
	}
}

// Bindings returns the bindings applying the encoder settings to e.
func (e *Encoder) Bindings() []settings.Binding {
	return []settings.Binding{
		settings.Bind(SettingDefaultSRID, e.SetDefaultSRID),
		settings.Bind(SettingCRSPrefix, e.SetCRSPrefix),
		settings.Bind(SettingPrettyPrint, e.SetPrettyPrint),
	}
}
