// Package config provides Viper-based configuration loading for the Xanadu server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds game-wide settings.
type ServerConfig struct {
	// Name is shown to players in the welcome message.
	Name string `mapstructure:"name"`
	// MaxPlayers caps the number of players admitted to the lobby.
	MaxPlayers int `mapstructure:"max_players"`
	// MinPlayers is the fewest ready players that start a match.
	MinPlayers int `mapstructure:"min_players"`
	// Seed drives character building. Zero derives a seed from the clock.
	Seed uint64 `mapstructure:"seed"`
	// UpdateInterval is how often the active context is polled for timed
	// updates. Zero disables polling.
	UpdateInterval time.Duration `mapstructure:"update_interval"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// Enabled turns on match roster persistence.
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// TelnetConfig holds Telnet acceptor settings.
type TelnetConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the "host:port" listen address.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// HTTPConfig holds the WebSocket and health endpoint listener settings.
type HTTPConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
}

// Addr returns the "host:port" listen address.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// LobbyConfig holds character configuration rules.
type LobbyConfig struct {
	// MaxNumModifiers is the cap applied to a requested modifier count.
	MaxNumModifiers int `mapstructure:"max_num_modifiers"`
	// FuzzyTolerance is the edit distance allowed when resolving class and
	// allegiance names.
	FuzzyTolerance int `mapstructure:"fuzzy_tolerance"`
	// ContentDir holds classes/, allegiances/ and modifiers/ YAML. Empty
	// selects the built-in catalog.
	ContentDir string `mapstructure:"content_dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Telnet   TelnetConfig   `mapstructure:"telnet"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Lobby    LobbyConfig    `mapstructure:"lobby"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	collect := func(found []string) { errs = append(errs, found...) }

	collect(validateServer(c.Server))
	if c.Database.Enabled {
		collect(validateDatabase(c.Database))
	}
	collect(validatePort("telnet.port", c.Telnet.Port))
	if c.Telnet.ReadTimeout < 0 {
		errs = append(errs, "telnet.read_timeout must not be negative")
	}
	if c.Telnet.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if c.HTTP.Enabled {
		collect(validatePort("http.port", c.HTTP.Port))
		if c.HTTP.Port == c.Telnet.Port && c.HTTP.Host == c.Telnet.Host {
			errs = append(errs, "http and telnet must not share an address")
		}
	}
	collect(validateLobby(c.Lobby))
	collect(validateLogging(c.Logging))

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validatePort(key string, port int) []string {
	if port < 1 || port > 65535 {
		return []string{fmt.Sprintf("%s must be 1-65535, got %d", key, port)}
	}
	return nil
}

func validateServer(s ServerConfig) []string {
	var errs []string
	if s.Name == "" {
		errs = append(errs, "server.name must not be empty")
	}
	if s.MaxPlayers < 2 {
		errs = append(errs, fmt.Sprintf("server.max_players must be >= 2, got %d", s.MaxPlayers))
	}
	if s.MinPlayers < 1 {
		errs = append(errs, fmt.Sprintf("server.min_players must be >= 1, got %d", s.MinPlayers))
	}
	if s.MinPlayers > s.MaxPlayers {
		errs = append(errs, "server.min_players must not exceed server.max_players")
	}
	if s.UpdateInterval < 0 {
		errs = append(errs, "server.update_interval must not be negative")
	}
	return errs
}

func validateDatabase(d DatabaseConfig) []string {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	errs = append(errs, validatePort("database.port", d.Port)...)
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	return errs
}

func validateLobby(l LobbyConfig) []string {
	var errs []string
	if l.MaxNumModifiers < 0 {
		errs = append(errs, fmt.Sprintf("lobby.max_num_modifiers must be >= 0, got %d", l.MaxNumModifiers))
	}
	if l.FuzzyTolerance < 0 || l.FuzzyTolerance > 3 {
		errs = append(errs, fmt.Sprintf("lobby.fuzzy_tolerance must be 0-3, got %d", l.FuzzyTolerance))
	}
	return errs
}

func validateLogging(l LoggingConfig) []string {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	return errs
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and XANADU_ environment
// overrides applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("XANADU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "Xanadu")
	v.SetDefault("server.max_players", 8)
	v.SetDefault("server.min_players", 2)
	v.SetDefault("server.seed", 0)
	v.SetDefault("server.update_interval", "0s")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "xanadu")
	v.SetDefault("database.password", "xanadu")
	v.SetDefault("database.name", "xanadu")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.read_timeout", "5m")
	v.SetDefault("telnet.write_timeout", "30s")

	v.SetDefault("http.enabled", true)
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_header_timeout", "10s")

	v.SetDefault("lobby.max_num_modifiers", 3)
	v.SetDefault("lobby.fuzzy_tolerance", 1)
	v.SetDefault("lobby.content_dir", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
