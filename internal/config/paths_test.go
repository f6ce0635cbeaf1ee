package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"single segment", "server", []string{"server"}, false},
		{"two segments", "server.url", []string{"server", "url"}, false},
		{"empty", "", nil, true},
		{"empty segment", "server..url", nil, true},
		{"leading dot", ".server", nil, true},
		{"trailing dot", "server.", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfigPath(tt.input)
			if tt.wantErr {
				var ce *ConfigError
				assert.ErrorAs(t, err, &ce)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestGetValueAtPath(t *testing.T) {
	root := map[string]any{
		"server": map[string]any{
			"url": "ws://localhost:5000/ws",
		},
		"simple": "value",
	}

	tests := []struct {
		name string
		path []string
		want any
		ok   bool
	}{
		{"nested value", []string{"server", "url"}, "ws://localhost:5000/ws", true},
		{"top level", []string{"simple"}, "value", true},
		{"missing key", []string{"nonexistent"}, nil, false},
		{"missing nested", []string{"server", "nonexistent"}, nil, false},
		{"non-map intermediate", []string{"simple", "sub"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, ok := GetValueAtPath(root, tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, val)
			}
		})
	}
}

func TestSetValueAtPath(t *testing.T) {
	root := map[string]any{"identity": "not-a-map"}

	SetValueAtPath(root, []string{"identity", "name"}, "Alice")
	SetValueAtPath(root, []string{"server", "url"}, "wss://x/ws")

	val, ok := GetValueAtPath(root, []string{"identity", "name"})
	assert.True(t, ok)
	assert.Equal(t, "Alice", val)

	val, ok = GetValueAtPath(root, []string{"server", "url"})
	assert.True(t, ok)
	assert.Equal(t, "wss://x/ws", val)
}

func TestUnsetValueAtPath(t *testing.T) {
	root := map[string]any{
		"identity": map[string]any{
			"name":     "Alice",
			"language": "vi",
		},
		"flat": "x",
	}

	assert.True(t, UnsetValueAtPath(root, []string{"identity", "name"}))
	_, found := GetValueAtPath(root, []string{"identity", "name"})
	assert.False(t, found)

	val, found := GetValueAtPath(root, []string{"identity", "language"})
	assert.True(t, found)
	assert.Equal(t, "vi", val)

	assert.False(t, UnsetValueAtPath(root, []string{"identity", "missing"}))
	assert.False(t, UnsetValueAtPath(root, []string{"a", "b"}))
	assert.False(t, UnsetValueAtPath(root, []string{"flat", "b"}))
}

func TestResolvePaths_Default(t *testing.T) {
	t.Setenv("LINGOCHAT_HOME", "")

	paths, err := ResolvePaths()
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".lingochat"), paths.Base)
	assert.Equal(t, filepath.Join(home, ".lingochat", "config.yaml"), paths.Config)
	assert.Equal(t, filepath.Join(home, ".lingochat", ".env"), paths.Env)
}

func TestResolvePaths_CustomHome(t *testing.T) {
	t.Setenv("LINGOCHAT_HOME", "/tmp/lingo")

	paths, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lingo", paths.Base)
	assert.Equal(t, "/tmp/lingo/config.yaml", paths.Config)
}

func TestEnsureDirs(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "lingochat")
	paths := Paths{Base: base}

	require.NoError(t, paths.EnsureDirs())
	require.NoError(t, paths.EnsureDirs())

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
