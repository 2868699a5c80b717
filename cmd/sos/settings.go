package main

import (
	"github.com/52North/SOS-sub013/internal/observability"
	"github.com/52North/SOS-sub013/internal/settings"
	"github.com/52North/SOS-sub013/internal/sosjson"
)

const settingLogLevel = "misc.logLevel"

var logLevels = []string{"debug", "info", "warn", "error", "dpanic", "panic", "fatal"}

// encoderDefinitions returns the encoder settings with the configured pretty
// printing as default.
func encoderDefinitions(prettyPrint bool) []settings.Definition {
	defs := sosjson.SettingDefinitions()
	for i := range defs {
		if defs[i].Key == sosjson.SettingPrettyPrint {
			defs[i].Default = prettyPrint
		}
	}
	return defs
}

func loggingDefinitions(level string) []settings.Definition {
	return []settings.Definition{{
		Key:         settingLogLevel,
		Type:        settings.TypeChoice,
		Title:       "Log level",
		Description: "Minimum level of log messages.",
		Group:       sosjson.SettingsGroup.Key,
		Order:       10,
		Default:     level,
		Options:     logLevels,
	}}
}

// loggingBindings binds the log level when logger supports changing it.
func loggingBindings(logger observability.Logger) []settings.Binding {
	setter, ok := logger.(observability.LevelSetter)
	if !ok {
		return nil
	}
	return []settings.Binding{settings.Bind(settingLogLevel, setter.SetLevel)}
}
