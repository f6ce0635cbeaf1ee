package config

// Config is the root configuration for lingochat.
type Config struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	Identity IdentityConfig `yaml:"identity,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Metrics  MetricsConfig  `yaml:"metrics,omitempty"`
	Hooks    HooksConfig    `yaml:"hooks,omitempty"`
}

// ServerConfig locates the chat service. URL is resolved once at startup.
type ServerConfig struct {
	URL                     string `yaml:"url,omitempty"` // ws:// or wss://
	HandshakeTimeoutSeconds int    `yaml:"handshakeTimeoutSeconds,omitempty"`
	ReadLimitBytes          int64  `yaml:"readLimitBytes,omitempty"`
}

// IdentityConfig supplies default session parameters for the chat command.
type IdentityConfig struct {
	Name     string `yaml:"name,omitempty"`
	Language string `yaml:"language,omitempty"` // "zh-Hans" | "vi" | "th" | "id" expected
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "compact" | "json"
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"` // empty disables
}

// HooksConfig maps session events to shell commands. Each command receives
// the event payload as JSON on stdin.
type HooksConfig struct {
	SessionStart    []HookEntry `yaml:"sessionStart,omitempty"`
	StateChanged    []HookEntry `yaml:"stateChanged,omitempty"`
	MessageReceived []HookEntry `yaml:"messageReceived,omitempty"`
	MessageSent     []HookEntry `yaml:"messageSent,omitempty"`
	FrameDropped    []HookEntry `yaml:"frameDropped,omitempty"`
	SessionEnd      []HookEntry `yaml:"sessionEnd,omitempty"`
}

// HookList is the hook entries configured for one event key.
type HookList struct {
	Key     string // yaml key under hooks, e.g. "messageReceived"
	Entries []HookEntry
}

// Lists returns every event's entries in a fixed order.
func (h HooksConfig) Lists() []HookList {
	return []HookList{
		{"sessionStart", h.SessionStart},
		{"stateChanged", h.StateChanged},
		{"messageReceived", h.MessageReceived},
		{"messageSent", h.MessageSent},
		{"frameDropped", h.FrameDropped},
		{"sessionEnd", h.SessionEnd},
	}
}

// HookEntry defines a single hook action.
type HookEntry struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout,omitempty"` // milliseconds
}
