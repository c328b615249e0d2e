// Package config loads the harvest bot configuration file.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

type Config struct {
	Bridge    BridgeConfig            `yaml:"bridge"`
	Bot       BotConfig               `yaml:"bot"`
	Positions map[string]RolePosition `yaml:"positions,omitempty"`
	Trace     TraceConfig             `yaml:"trace"`
	Stats     StatsConfig             `yaml:"stats"`
	Metrics   MetricsConfig           `yaml:"metrics"`
}

type BridgeConfig struct {
	URL          string        `yaml:"url"`
	Token        string        `yaml:"token,omitempty"`
	ActTimeout   time.Duration `yaml:"act_timeout"`
	YieldTimeout time.Duration `yaml:"yield_timeout"`
}

type BotConfig struct {
	ScanRadius   int           `yaml:"scan_radius"`
	Crops        []string      `yaml:"crops"`
	HostileTypes []string      `yaml:"hostile_types"`
	StartDelay   time.Duration `yaml:"start_delay"`

	// StonePositions pins the cobblestone generator cells instead of taking
	// the sides of the stone standing position.
	StonePositions [][3]int `yaml:"stone_positions,omitempty"`
}

// RolePosition pins a sign role to fixed coordinates, for farms where a
// MINION sign cannot be placed.
type RolePosition struct {
	Position [3]int  `yaml:"position"`
	Standing *[3]int `yaml:"standing,omitempty"`
}

type TraceConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Dir       string `yaml:"dir"`
	KeepHours int    `yaml:"keep_hours"`
}

type StatsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

func Defaults() Config {
	return Config{
		Bridge: BridgeConfig{
			URL:          "ws://127.0.0.1:8080/v1/bot",
			ActTimeout:   2 * time.Minute,
			YieldTimeout: 5 * time.Second,
		},
		Bot: BotConfig{
			ScanRadius:   50,
			Crops:        []string{"minecraft:potatoes", "minecraft:carrots"},
			HostileTypes: []string{"drowned", "zombie"},
			StartDelay:   10 * time.Second,
		},
		Trace:   TraceConfig{Enabled: true, Dir: "data/trace", KeepHours: 72},
		Stats:   StatsConfig{Enabled: true, Path: "data/stats.db"},
		Metrics: MetricsConfig{Addr: "127.0.0.1:2112"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := validateSchema(b); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Normalize() {
	def := Defaults()
	c.Bridge.URL = strings.TrimSpace(c.Bridge.URL)
	if c.Bridge.URL == "" {
		c.Bridge.URL = def.Bridge.URL
	}
	if c.Bridge.ActTimeout <= 0 {
		c.Bridge.ActTimeout = def.Bridge.ActTimeout
	}
	if c.Bridge.YieldTimeout <= 0 {
		c.Bridge.YieldTimeout = def.Bridge.YieldTimeout
	}
	c.Metrics.Addr = strings.TrimSpace(c.Metrics.Addr)
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = def.Metrics.Addr
	}
	if c.Bot.ScanRadius <= 0 {
		c.Bot.ScanRadius = def.Bot.ScanRadius
	}
	if len(c.Bot.Crops) == 0 {
		c.Bot.Crops = def.Bot.Crops
	}
	roles := make(map[string]RolePosition, len(c.Positions))
	for role, p := range c.Positions {
		roles[strings.ToLower(strings.TrimSpace(role))] = p
	}
	c.Positions = roles
}

// Validate checks what the schema cannot express.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.Bridge.URL, "ws://") && !strings.HasPrefix(c.Bridge.URL, "wss://") {
		return fmt.Errorf("bridge.url must be a ws:// or wss:// url, got %q", c.Bridge.URL)
	}
	seen := map[string]bool{}
	for _, crop := range c.Bot.Crops {
		if seen[crop] {
			return fmt.Errorf("bot.crops: %s listed twice", crop)
		}
		seen[crop] = true
	}
	if c.Trace.Enabled && c.Trace.Dir == "" {
		return fmt.Errorf("trace.dir is required when trace is enabled")
	}
	if c.Stats.Enabled && c.Stats.Path == "" {
		return fmt.Errorf("stats.path is required when stats are enabled")
	}
	return nil
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("config.schema.json", strings.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile("config.schema.json")
	})
	return schema, schemaErr
}

// validateSchema checks the raw YAML document against the embedded schema.
// The document goes through JSON so the validator sees JSON types.
func validateSchema(raw []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	j, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(j))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return s.Validate(v)
}
