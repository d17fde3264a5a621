package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holdem.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	c, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, "localhost:8080", c.ServerAddress())
	assert.Equal(t, 10, c.Table.SmallBlind)
	require.NoError(t, c.Validate())
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

table "friday" {
  big_blind        = 50
  max_players      = 6
  decision_timeout = "45s"
  starting_money   = 2000
}

player "alice" {}

player "bob" {
  money = 500
}
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "0.0.0.0:9000", c.ServerAddress())
	assert.Equal(t, "debug", c.Server.LogLevel)
	assert.Equal(t, TableConfig{
		Name:            "friday",
		BigBlind:        50,
		SmallBlind:      25,
		MaxPlayers:      6,
		DecisionTimeout: "45s",
		StartingMoney:   2000,
	}, c.Table)
	assert.Equal(t, []PlayerConfig{{Name: "alice", Money: 2000}, {Name: "bob", Money: 500}}, c.Players)

	d, err := c.Timeout()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)
}

func TestLoadServerBlockIsOptional(t *testing.T) {
	t.Parallel()
	c, err := Load(writeConfig(t, `table "main" { big_blind = 2 }`))
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, c.Server.Port)
	assert.Equal(t, 1, c.Table.SmallBlind)
	d, err := c.Timeout()
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `table "main" { big_blind = }`},
		{"missing table", `server { port = 80 }`},
		{"missing big blind", `table "main" {}`},
		{"unknown attribute", "table \"main\" {\n  big_blind = 2\n  ante = 1\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }, "invalid port"},
		{"log level", func(c *Config) { c.Server.LogLevel = "loud" }, "invalid log level"},
		{"big blind", func(c *Config) { c.Table.BigBlind = 0 }, "big blind must be positive"},
		{"small blind", func(c *Config) { c.Table.SmallBlind = 30 }, "small blind"},
		{"seats", func(c *Config) { c.Table.MaxPlayers = 12 }, "max players"},
		{"money", func(c *Config) { c.Table.StartingMoney = -1 }, "starting money"},
		{"timeout", func(c *Config) { c.Table.DecisionTimeout = "soon" }, "decision timeout"},
		{"negative timeout", func(c *Config) { c.Table.DecisionTimeout = "-1s" }, "negative"},
		{"duplicate player", func(c *Config) {
			c.Players = []PlayerConfig{{Name: "a", Money: 1}, {Name: "a", Money: 1}}
		}, "configured twice"},
		{"broke player", func(c *Config) { c.Players = []PlayerConfig{{Name: "a"}} }, "money must be positive"},
		{"too many players", func(c *Config) {
			c.Table.MaxPlayers = 2
			c.Players = []PlayerConfig{{Name: "a", Money: 1}, {Name: "b", Money: 1}, {Name: "c", Money: 1}}
		}, "3 players configured for 2 seats"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
