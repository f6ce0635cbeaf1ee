package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	// Server validation
	if cfg.Server.URL == "" {
		issues = append(issues, ValidationIssue{Path: "server.url", Message: "url is required"})
	} else if u, err := url.Parse(cfg.Server.URL); err != nil {
		issues = append(issues, ValidationIssue{
			Path:    "server.url",
			Message: fmt.Sprintf("invalid url: %v", err),
		})
	} else {
		if u.Scheme != "ws" && u.Scheme != "wss" {
			issues = append(issues, ValidationIssue{
				Path:    "server.url",
				Message: fmt.Sprintf("scheme must be ws or wss, got %q", u.Scheme),
			})
		}
		if u.Host == "" {
			issues = append(issues, ValidationIssue{Path: "server.url", Message: "host is required"})
		}
	}
	if cfg.Server.HandshakeTimeoutSeconds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "server.handshakeTimeoutSeconds",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.Server.HandshakeTimeoutSeconds),
		})
	}
	if cfg.Server.ReadLimitBytes < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "server.readLimitBytes",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.Server.ReadLimitBytes),
		})
	}

	// Logging validation
	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "compact", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	// Metrics validation
	if cfg.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Addr); err != nil {
			issues = append(issues, ValidationIssue{
				Path:    "metrics.addr",
				Message: fmt.Sprintf("must be host:port, got %q", cfg.Metrics.Addr),
			})
		}
	}

	// Hooks validation
	for _, list := range cfg.Hooks.Lists() {
		path := "hooks." + list.Key
		for i, h := range list.Entries {
			if h.Command == "" {
				issues = append(issues, ValidationIssue{
					Path:    fmt.Sprintf("%s[%d].command", path, i),
					Message: "command is required",
				})
			}
			if h.Timeout < 0 {
				issues = append(issues, ValidationIssue{
					Path:    fmt.Sprintf("%s[%d].timeout", path, i),
					Message: fmt.Sprintf("must not be negative, got %d", h.Timeout),
				})
			}
		}
	}

	return issues
}
