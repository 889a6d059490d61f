// Package config provides environment-driven configuration for the task API:
// application identity, log level, listen address, token settings and paths.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

const (
	defaultPort               = 8000
	defaultTokenExpireMinutes = 30
)

// LoadEnv reads variables from the given .env files into the process
// environment. Variables that are already set win. Missing files are ignored
// so a bare environment works without any .env file.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("TODO_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("TODO_DEBUG") == "true"
}

func GetListen() string {
	return os.Getenv("TODO_LISTEN")
}

// GetDomain returns the only Host the server answers, or "" for any.
func GetDomain() string {
	return os.Getenv("TODO_DOMAIN")
}

// GetPort returns the HTTP port, falling back to 8000 when TODO_PORT is unset
// or not a valid port number.
func GetPort() int {
	portStr := os.Getenv("TODO_PORT")
	if portStr == "" {
		return defaultPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return defaultPort
	}
	return port
}

// GetJWTSecret returns the signing secret for access tokens. An empty string
// means none is configured and the caller must generate one.
func GetJWTSecret() string {
	return os.Getenv("TODO_JWT_SECRET")
}

func GetTokenExpire() time.Duration {
	minutes := defaultTokenExpireMinutes
	if v := os.Getenv("TODO_TOKEN_EXPIRE_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			minutes = n
		}
	}
	return time.Duration(minutes) * time.Minute
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("TODO_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/todo-api"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("TODO_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

func GetConfigFile() string {
	return os.Getenv("TODO_CONFIG_FILE")
}
