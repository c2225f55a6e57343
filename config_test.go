package irctk

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "irctk.scfg")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
address ircs://irc.example.com:7000
nickname kylef
password hunter2
channel "#irctk" "#test"
owner kyle kyle!kyle@example.com
command-prefix .
flood {
	burst 10
	interval 500ms
}
database /tmp/irctk.db
log {
	file /tmp/irctk.log
	max-size 10
	level debug
}
metrics-listen :9100
debug true
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "irc.example.com:7000", cfg.Addr)
	assert.True(t, cfg.TLS)
	assert.False(t, cfg.WebSocket)
	assert.Equal(t, "kylef", cfg.Nick)
	assert.Equal(t, "kylef", cfg.User)
	assert.Equal(t, "kylef", cfg.Real)
	require.NotNil(t, cfg.Password)
	assert.Equal(t, "hunter2", *cfg.Password)
	assert.Equal(t, []string{"#irctk", "#test"}, cfg.Channels)
	assert.Equal(t, []string{"kyle", "kyle!kyle@example.com"}, cfg.Owners)
	assert.Equal(t, ".", cfg.CommandPrefix)
	assert.Equal(t, FloodConfig{Burst: 10, Interval: 500 * time.Millisecond}, cfg.Flood)
	assert.Equal(t, "/tmp/irctk.db", cfg.Database)
	assert.Equal(t, "/tmp/irctk.log", cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.MaxSize)
	assert.Equal(t, 8, cfg.Log.MaxBackups)
	assert.Equal(t, zerolog.DebugLevel, cfg.Log.Level)
	assert.Equal(t, ":9100", cfg.MetricsListen)
	assert.True(t, cfg.Debug)
}

func TestLoadConfigFileDefaults(t *testing.T) {
	cfg, err := LoadConfigFile(writeConfig(t, "address irc.example.com\nnickname bot\n"))
	require.NoError(t, err)
	assert.Equal(t, "irc.example.com", cfg.Addr)
	assert.True(t, cfg.TLS)
	assert.Nil(t, cfg.Password)
	assert.Equal(t, []string{"#test"}, cfg.Channels)
	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Equal(t, zerolog.InfoLevel, cfg.Log.Level)
}

func TestLoadConfigFileAddress(t *testing.T) {
	tests := []struct {
		address   string
		tls       string
		addr      string
		useTLS    bool
		websocket bool
		err       bool
	}{
		{address: "irc.example.com", addr: "irc.example.com", useTLS: true},
		{address: "irc://irc.example.com", tls: "false", addr: "irc.example.com"},
		{address: "irc://irc.example.com", addr: "irc.example.com", useTLS: true},
		{address: "ircs://irc.example.com", tls: "false", addr: "irc.example.com", useTLS: true},
		{address: "irc+insecure://irc.example.com:6667", addr: "irc.example.com:6667"},
		{address: "wss://irc.example.com/webirc", addr: "wss://irc.example.com/webirc", useTLS: true, websocket: true},
		{address: "ws://irc.example.com:8080", addr: "ws://irc.example.com:8080", websocket: true},
		{address: "http://irc.example.com", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			content := "address " + tt.address + "\nnickname bot\n"
			if tt.tls != "" {
				content += "tls " + tt.tls + "\n"
			}
			cfg, err := LoadConfigFile(writeConfig(t, content))
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addr, cfg.Addr)
			assert.Equal(t, tt.useTLS, cfg.TLS)
			assert.Equal(t, tt.websocket, cfg.WebSocket)
		})
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing address", "nickname bot\n"},
		{"missing nickname", "address irc.example.com\n"},
		{"unknown directive", "address irc.example.com\nnickname bot\ncolor red\n"},
		{"unknown child", "address irc.example.com\nnickname bot\nflood {\n\trate 3\n}\n"},
		{"bad bool", "address irc.example.com\nnickname bot\ntls maybe\n"},
		{"bad duration", "address irc.example.com\nnickname bot\nflood {\n\tinterval soon\n}\n"},
		{"negative size", "address irc.example.com\nnickname bot\nlog {\n\tmax-size -1\n}\n"},
		{"bad level", "address irc.example.com\nnickname bot\nlog {\n\tlevel loud\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFile(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigFileNotExist(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.scfg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigFilePasswordCmd(t *testing.T) {
	cfg, err := LoadConfigFile(writeConfig(t, `
address irc.example.com
nickname bot
password ignored
password-cmd echo s3cret
`))
	require.NoError(t, err)
	require.NotNil(t, cfg.Password)
	assert.Equal(t, "s3cret", *cfg.Password)
}

func TestLoadConfigFilePasswordKeyring(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set("irctk", "bot", "from-keyring"))

	cfg, err := LoadConfigFile(writeConfig(t, `
address irc.example.com
nickname bot
password ignored
password-keyring irctk bot
`))
	require.NoError(t, err)
	require.NotNil(t, cfg.Password)
	assert.Equal(t, "from-keyring", *cfg.Password)

	cfg, err = LoadConfigFile(writeConfig(t, `
address irc.example.com
nickname bot
password-keyring irctk nobody
`))
	require.NoError(t, err)
	assert.Nil(t, cfg.Password)
}
