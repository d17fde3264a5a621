// Package config loads table settings from an HCL file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete configuration of a holdem session.
type Config struct {
	Server  *ServerSettings `hcl:"server,block"`
	Table   TableConfig     `hcl:"table,block"`
	Players []PlayerConfig  `hcl:"player,block"`
}

// ServerSettings configure the chat server and logging.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableConfig defines the blinds, seats and stacks of the table.
type TableConfig struct {
	Name            string `hcl:"name,label"`
	BigBlind        int    `hcl:"big_blind"`
	SmallBlind      int    `hcl:"small_blind,optional"`
	MaxPlayers      int    `hcl:"max_players,optional"`
	DecisionTimeout string `hcl:"decision_timeout,optional"`
	StartingMoney   int    `hcl:"starting_money,optional"`
}

// PlayerConfig seats a console player before the first round.
type PlayerConfig struct {
	Name  string `hcl:"name,label"`
	Money int    `hcl:"money,optional"`
}

const (
	DefaultAddress    = "localhost"
	DefaultPort       = 8080
	DefaultLogLevel   = "info"
	DefaultBigBlind   = 20
	DefaultMaxPlayers = 9
	DefaultMoney      = 1000
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{
		Table: TableConfig{Name: "main", BigBlind: DefaultBigBlind},
	}
	c.applyDefaults()
	return c
}

// Load reads an HCL configuration file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var c Config
	diags = gohcl.DecodeBody(file.Body, nil, &c)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}
	if c.Table.SmallBlind == 0 {
		c.Table.SmallBlind = c.Table.BigBlind / 2
	}
	if c.Table.MaxPlayers == 0 {
		c.Table.MaxPlayers = DefaultMaxPlayers
	}
	if c.Table.StartingMoney == 0 {
		c.Table.StartingMoney = DefaultMoney
	}
	for i := range c.Players {
		if c.Players[i].Money == 0 {
			c.Players[i].Money = c.Table.StartingMoney
		}
	}
}

// Validate checks the configuration for values the table cannot play with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Server.LogLevel)
	}

	t := c.Table
	if t.BigBlind <= 0 {
		return fmt.Errorf("table %s: big blind must be positive", t.Name)
	}
	if t.SmallBlind <= 0 || t.SmallBlind > t.BigBlind {
		return fmt.Errorf("table %s: small blind must be between 1 and the big blind", t.Name)
	}
	if t.MaxPlayers < 2 || t.MaxPlayers > 9 {
		return fmt.Errorf("table %s: max players must be between 2 and 9", t.Name)
	}
	if t.StartingMoney <= 0 {
		return fmt.Errorf("table %s: starting money must be positive", t.Name)
	}
	if _, err := c.Timeout(); err != nil {
		return fmt.Errorf("table %s: %w", t.Name, err)
	}

	if len(c.Players) > t.MaxPlayers {
		return fmt.Errorf("%d players configured for %d seats", len(c.Players), t.MaxPlayers)
	}
	seen := make(map[string]bool, len(c.Players))
	for _, p := range c.Players {
		if seen[p.Name] {
			return fmt.Errorf("player %s: configured twice", p.Name)
		}
		seen[p.Name] = true
		if p.Money <= 0 {
			return fmt.Errorf("player %s: money must be positive", p.Name)
		}
	}
	return nil
}

// Timeout parses the table's decision timeout. Zero means players may
// think for as long as they like.
func (c *Config) Timeout() (time.Duration, error) {
	if c.Table.DecisionTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Table.DecisionTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid decision timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid decision timeout: %s is negative", d)
	}
	return d, nil
}

// ServerAddress returns the address the chat server listens on.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
