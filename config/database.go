package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// DatabaseType represents the type of database
type DatabaseType string

const (
	DatabaseTypeSQLite     DatabaseType = "sqlite"
	DatabaseTypePostgreSQL DatabaseType = "postgres"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type     DatabaseType   `json:"type" toml:"type"`
	SQLite   SQLiteConfig   `json:"sqlite" toml:"sqlite"`
	Postgres PostgresConfig `json:"postgres" toml:"postgres"`

	// ConnectRetries is how many extra attempts are made to reach the
	// database on startup, one second apart.
	ConnectRetries int `json:"connectRetries" toml:"connect_retries"`
}

// SQLiteConfig holds SQLite specific configuration
type SQLiteConfig struct {
	Path string `json:"path" toml:"path"`
}

// PostgresConfig holds PostgreSQL specific configuration
type PostgresConfig struct {
	Host     string `json:"host" toml:"host"`
	Port     int    `json:"port" toml:"port"`
	Database string `json:"database" toml:"database"`
	Username string `json:"username" toml:"username"`
	Password string `json:"password" toml:"password"`
	SSLMode  string `json:"sslMode" toml:"ssl_mode"`
	TimeZone string `json:"timeZone" toml:"time_zone"`
}

// fileConfig is the layout of the optional TOML file named by TODO_CONFIG_FILE.
type fileConfig struct {
	Database DatabaseConfig `toml:"database"`
}

// GetDSN returns the data source name for the database
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case DatabaseTypePostgreSQL:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
			c.Postgres.Host,
			c.Postgres.Username,
			c.Postgres.Password,
			c.Postgres.Database,
			c.Postgres.Port,
			c.Postgres.SSLMode,
			c.Postgres.TimeZone,
		)
	default:
		// foreign keys are per connection in SQLite, so they go in the DSN
		return c.SQLite.Path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	}
}

// GetDefaultDatabaseConfig returns default database configuration
func GetDefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Type: DatabaseTypeSQLite,
		SQLite: SQLiteConfig{
			Path: getDefaultSQLitePath(),
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "todo_api",
			Username: "postgres",
			Password: "postgres",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		ConnectRetries: 5,
	}
}

// LoadDatabaseConfig builds the database configuration from the defaults,
// then the TOML file named by TODO_CONFIG_FILE (if any), then environment
// overrides. The result is validated.
func LoadDatabaseConfig() (*DatabaseConfig, error) {
	c := GetDefaultDatabaseConfig()

	if path := GetConfigFile(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		fc := fileConfig{Database: *c}
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		*c = fc.Database
	}

	c.applyEnv()

	if err := c.ValidateConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *DatabaseConfig) applyEnv() {
	if v := os.Getenv("TODO_DB_TYPE"); v != "" {
		c.Type = DatabaseType(v)
	}
	if v := os.Getenv("TODO_DB_PATH"); v != "" {
		c.SQLite.Path = v
	}
	// Empty POSTGRES_HOST counts as unset.
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		c.Postgres.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Postgres.Port = port
		}
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		c.Postgres.Database = v
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		c.Postgres.Username = v
	}
	if v, ok := os.LookupEnv("POSTGRES_PASSWORD"); ok {
		c.Postgres.Password = v
	}
}

// getDefaultSQLitePath returns the default SQLite database path
func getDefaultSQLitePath() string {
	if IsDebug() {
		return "db/" + GetName() + ".db"
	}
	return GetDBPath()
}

// ValidateConfig validates the database configuration
func (c *DatabaseConfig) ValidateConfig() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLite path cannot be empty")
		}
	case DatabaseTypePostgreSQL:
		if c.Postgres.Host == "" {
			return fmt.Errorf("PostgreSQL host cannot be empty")
		}
		if c.Postgres.Database == "" {
			return fmt.Errorf("PostgreSQL database name cannot be empty")
		}
		if c.Postgres.Username == "" {
			return fmt.Errorf("PostgreSQL username cannot be empty")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			return fmt.Errorf("PostgreSQL port must be between 1 and 65535")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	if c.ConnectRetries < 0 {
		return fmt.Errorf("connect retries cannot be negative")
	}
	return nil
}

// IsPostgreSQL returns true if the database type is PostgreSQL
func (c *DatabaseConfig) IsPostgreSQL() bool {
	return c.Type == DatabaseTypePostgreSQL
}

// IsSQLite returns true if the database type is SQLite
func (c *DatabaseConfig) IsSQLite() bool {
	return c.Type == DatabaseTypeSQLite
}

// EnsureDirectoryExists ensures the directory for SQLite database exists
func (c *DatabaseConfig) EnsureDirectoryExists() error {
	if c.IsSQLite() {
		dir := filepath.Dir(c.SQLite.Path)
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}
