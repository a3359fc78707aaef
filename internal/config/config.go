package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Store  StoreConfig  `mapstructure:"store" validate:"required"`
	Corpus CorpusConfig `mapstructure:"corpus"`
	Watch  WatchConfig  `mapstructure:"watch" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port      int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel  string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"required,oneof=json text"`
}

// Supported persistence gateway backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
	BackendRedis    = "redis"
)

// StoreConfig selects and configures the snapshot store.
type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory file sqlite postgres badger redis"`
	// Key is the single logical key the corpus snapshot lives under.
	Key string `mapstructure:"key" validate:"required"`
	// Path is the data directory used by the file, sqlite and badger backends.
	Path        string `mapstructure:"path" validate:"required_if=Backend file,required_if=Backend sqlite,required_if=Backend badger"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Backend postgres"`
	RedisAddr   string `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
}

// CorpusConfig configures the reference corpus.
type CorpusConfig struct {
	// Path overrides the embedded corpus with a JSON or YAML file.
	Path string `mapstructure:"path" validate:"omitempty,file"`
}

// WatchConfig configures cross-process change detection.
type WatchConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required,min=100ms"`
	// FSNotify enables the filesystem watcher for the file backend.
	FSNotify bool `mapstructure:"fs_notify"`
}
