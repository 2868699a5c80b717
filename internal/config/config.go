package config

import "time"

// Content types served by the SOS.
const (
	// ContentTypeJSON is the JSON content type.
	ContentTypeJSON = "application/json"

	// ContentTypeXML is the XML content type.
	ContentTypeXML = "application/xml"

	// ContentTypeTextXML is the legacy XML content type still sent by
	// many OGC clients.
	ContentTypeTextXML = "text/xml"

	// ContentTypeSensorML is the SensorML 2.0 procedure description format.
	ContentTypeSensorML = "http://www.opengis.net/sensorml/2.0"
)

// Settings store kinds.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Default values.
const (
	DefaultAddress         = ":8080"
	DefaultServicePath     = "/service"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMetricsPath     = "/metrics"
	DefaultRedisKeyPrefix  = "sos:settings:"
	DefaultSettingsTable   = "sos_settings"
	DefaultWatchDebounce   = 100 * time.Millisecond
)

// ServiceConfig is the root of the service configuration file.
type ServiceConfig struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics" json:"metrics"`
	Tracing  TracingConfig  `yaml:"tracing" json:"tracing"`
	Encoding EncodingConfig `yaml:"encoding" json:"encoding"`
	Catalog  CatalogConfig  `yaml:"catalog" json:"catalog"`
	Settings SettingsConfig `yaml:"settings" json:"settings"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address         string   `yaml:"address" json:"address"`
	ServicePath     string   `yaml:"servicePath,omitempty" json:"servicePath,omitempty"`
	ReadTimeout     Duration `yaml:"readTimeout,omitempty" json:"readTimeout,omitempty"`
	WriteTimeout    Duration `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout,omitempty" json:"shutdownTimeout,omitempty"`
	EnableAdmin     bool     `yaml:"enableAdmin,omitempty" json:"enableAdmin,omitempty"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Path      string `yaml:"path,omitempty" json:"path,omitempty"`
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	ServiceName  string  `yaml:"serviceName,omitempty" json:"serviceName,omitempty"`
	OTLPEndpoint string  `yaml:"otlpEndpoint,omitempty" json:"otlpEndpoint,omitempty"`
	SamplingRate float64 `yaml:"samplingRate,omitempty" json:"samplingRate,omitempty"`
}

// EncodingConfig configures response encoding.
type EncodingConfig struct {
	// PrettyPrint is the initial value of the pretty print setting.
	PrettyPrint bool `yaml:"prettyPrint,omitempty" json:"prettyPrint,omitempty"`

	// SupportedContentTypes lists content types offered for negotiation
	// of exception reports.
	SupportedContentTypes []string `yaml:"supportedContentTypes,omitempty" json:"supportedContentTypes,omitempty"`
}

// CatalogConfig points to the observation catalog.
type CatalogConfig struct {
	Path string `yaml:"path" json:"path"`
}

// SettingsConfig selects and configures the settings store.
type SettingsConfig struct {
	Store    string            `yaml:"store" json:"store"`
	File     *FileStoreConfig  `yaml:"file,omitempty" json:"file,omitempty"`
	Redis    *RedisStoreConfig `yaml:"redis,omitempty" json:"redis,omitempty"`
	Postgres *PostgresConfig   `yaml:"postgres,omitempty" json:"postgres,omitempty"`
}

// FileStoreConfig configures the YAML settings file.
type FileStoreConfig struct {
	Path     string   `yaml:"path" json:"path"`
	Watch    bool     `yaml:"watch,omitempty" json:"watch,omitempty"`
	Debounce Duration `yaml:"debounce,omitempty" json:"debounce,omitempty"`
}

// RedisStoreConfig configures the Redis settings store.
type RedisStoreConfig struct {
	Address   string   `yaml:"address" json:"address"`
	Password  string   `yaml:"password,omitempty" json:"password,omitempty"`
	DB        int      `yaml:"db,omitempty" json:"db,omitempty"`
	KeyPrefix string   `yaml:"keyPrefix,omitempty" json:"keyPrefix,omitempty"`
	Timeout   Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// PostgresConfig configures the PostgreSQL settings store.
type PostgresConfig struct {
	DSN   string `yaml:"dsn" json:"dsn"`
	Table string `yaml:"table,omitempty" json:"table,omitempty"`
}

// DefaultConfig returns a configuration that serves an in-memory settings
// store on DefaultAddress.
func DefaultConfig() *ServiceConfig {
	cfg := &ServiceConfig{
		Logging: LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
		Metrics: MetricsConfig{Enabled: true},
		Settings: SettingsConfig{
			Store: StoreMemory,
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields with default values.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ServicePath == "" {
		c.Server.ServicePath = DefaultServicePath
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(DefaultReadTimeout)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(DefaultWriteTimeout)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(DefaultShutdownTimeout)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "sos"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "sos"
	}
	if len(c.Encoding.SupportedContentTypes) == 0 {
		c.Encoding.SupportedContentTypes = []string{ContentTypeJSON, ContentTypeXML}
	}
	if c.Settings.Store == "" {
		c.Settings.Store = StoreMemory
	}
	if c.Settings.File != nil && c.Settings.File.Debounce == 0 {
		c.Settings.File.Debounce = Duration(DefaultWatchDebounce)
	}
	if c.Settings.Redis != nil && c.Settings.Redis.KeyPrefix == "" {
		c.Settings.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if c.Settings.Postgres != nil && c.Settings.Postgres.Table == "" {
		c.Settings.Postgres.Table = DefaultSettingsTable
	}
}
