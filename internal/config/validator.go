package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// HasErrors returns true if there are validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates the service configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// ValidateConfig validates a service configuration.
func ValidateConfig(cfg *ServiceConfig) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(cfg *ServiceConfig) error {
	v.errors = make(ValidationErrors, 0)

	if cfg == nil {
		v.addError("", "configuration is nil")
		return v.errors
	}

	v.validateServer(&cfg.Server)
	v.validateLogging(&cfg.Logging)
	v.validateTracing(&cfg.Tracing)
	v.validateSettings(&cfg.Settings)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

func (v *Validator) validateServer(s *ServerConfig) {
	if s.Address == "" {
		v.addError("server.address", "address is required")
	}
	if s.ServicePath != "" && !strings.HasPrefix(s.ServicePath, "/") {
		v.addError("server.servicePath", "servicePath must start with '/'")
	}
	if s.ReadTimeout < 0 {
		v.addError("server.readTimeout", "readTimeout must not be negative")
	}
	if s.WriteTimeout < 0 {
		v.addError("server.writeTimeout", "writeTimeout must not be negative")
	}
}

func (v *Validator) validateLogging(l *LoggingConfig) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		v.addError("logging.level", fmt.Sprintf("unknown level %q", l.Level))
	}
	switch l.Format {
	case "json", "console":
	default:
		v.addError("logging.format", "format must be 'json' or 'console'")
	}
}

func (v *Validator) validateTracing(t *TracingConfig) {
	if t.SamplingRate < 0 || t.SamplingRate > 1 {
		v.addError("tracing.samplingRate", "samplingRate must be between 0 and 1")
	}
}

func (v *Validator) validateSettings(s *SettingsConfig) {
	switch s.Store {
	case StoreMemory:
	case StoreFile:
		if s.File == nil || s.File.Path == "" {
			v.addError("settings.file.path", "path is required for the file store")
		}
	case StoreRedis:
		if s.Redis == nil || s.Redis.Address == "" {
			v.addError("settings.redis.address", "address is required for the redis store")
		}
	case StorePostgres:
		if s.Postgres == nil || s.Postgres.DSN == "" {
			v.addError("settings.postgres.dsn", "dsn is required for the postgres store")
		}
	default:
		v.addError("settings.store", fmt.Sprintf("unknown store %q", s.Store))
	}
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}
