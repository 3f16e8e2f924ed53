// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration shared by the three service
// binaries. Fields that do not apply to a binary are ignored by it; the
// user and game services never read the peer addresses.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// DatabaseDSN is the Postgres connection string for the service's own store.
	DatabaseDSN string `koanf:"database_dsn"`

	// UserServiceBase and GameServiceBase are the base URLs of the peer
	// services consumed by the assignment service.
	UserServiceBase string `koanf:"user_service_base"`
	GameServiceBase string `koanf:"game_service_base"`

	// PeerTimeoutMS bounds each entity lookup against a peer service.
	PeerTimeoutMS int `koanf:"peer_timeout_ms"`

	// ProbeTimeoutMS bounds each liveness probe against a peer service.
	ProbeTimeoutMS int `koanf:"probe_timeout_ms"`

	// DBConnectTimeoutMS bounds the startup wait for the Postgres pool.
	DBConnectTimeoutMS int `koanf:"db_connect_timeout_ms"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8000",
		UserServiceBase:    "http://user-service:8000",
		GameServiceBase:    "http://game-service:8000",
		PeerTimeoutMS:      2000,
		ProbeTimeoutMS:     2000,
		DBConnectTimeoutMS: 30000,
		ShutdownTimeoutMS:  30000,
	}
}
