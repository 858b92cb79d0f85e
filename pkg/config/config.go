package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quarry-storage/quarry/pkg/log"
	"github.com/quarry-storage/quarry/pkg/types"
)

// Defaults applied when a field is absent from the config file.
const (
	DefaultDataDir      = "/var/lib/quarry"
	DefaultMetricsAddr  = ":9502"
	DefaultPollInterval = 5 * time.Second
)

// NodeConfig identifies one io-engine node to poll.
type NodeConfig struct {
	ID       string `yaml:"id"`
	Endpoint string `yaml:"endpoint"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Config holds the control-plane configuration.
type Config struct {
	// DataDir is where the persistent nexus-info store lives.
	DataDir string `yaml:"dataDir"`
	// MetricsAddr is the listen address for the metrics and health endpoints.
	MetricsAddr string `yaml:"metricsAddr"`
	// PollInterval is the state cache refresh interval.
	PollInterval time.Duration `yaml:"pollInterval"`

	Nodes []NodeConfig `yaml:"nodes"`
	Log   LogConfig    `yaml:"log"`
}

// Default returns a config with every field at its default.
func Default() *Config {
	return &Config{
		DataDir:      DefaultDataDir,
		MetricsAddr:  DefaultMetricsAddr,
		PollInterval: DefaultPollInterval,
		Log:          LogConfig{Level: string(log.InfoLevel)},
	}
}

// Load reads a YAML config file, fills in defaults and validates it. An
// empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %v", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = DefaultMetricsAddr
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for inconsistencies.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Nodes))
	for _, node := range c.Nodes {
		if node.ID == "" {
			return fmt.Errorf("node with empty id")
		}
		if node.Endpoint == "" {
			return fmt.Errorf("node %s has no endpoint", node.ID)
		}
		if seen[node.ID] {
			return fmt.Errorf("duplicate node id %s", node.ID)
		}
		seen[node.ID] = true
	}
	switch log.Level(c.Log.Level) {
	case log.DebugLevel, log.InfoLevel, log.WarnLevel, log.ErrorLevel, "":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// NodeIDs returns the configured node ids.
func (c *Config) NodeIDs() []types.NodeID {
	ids := make([]types.NodeID, 0, len(c.Nodes))
	for _, node := range c.Nodes {
		ids = append(ids, types.NodeID(node.ID))
	}
	return ids
}
