package config

import "fmt"

// DefaultURL is the chat service endpoint used when nothing else is configured.
const DefaultURL = "ws://localhost:5000/ws"

const (
	defaultHandshakeTimeoutSeconds = 45
	defaultReadLimitBytes          = 64 * 1024
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			URL:                     DefaultURL,
			HandshakeTimeoutSeconds: defaultHandshakeTimeoutSeconds,
			ReadLimitBytes:          defaultReadLimitBytes,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}
