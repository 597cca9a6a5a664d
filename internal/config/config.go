// Package config provides configuration management for Contagion.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then CONTAGION_* environment variables. The file carries deployment
// identity (listen address, database path, dataset location); simulation
// parameters in the file are only defaults and every API request may
// override them.
//
// Config file locations (priority order):
//  1. $CONTAGION_CONFIG
//  2. ./contagion.yaml
//  3. ~/.config/contagion/config.yaml
//  4. /etc/contagion/config.yaml
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"contagion/internal/sim"
)

// Config is the full server configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Addr string `yaml:"addr" env:"CONTAGION_ADDR"`
}

// DatabaseConfig locates the layout cache
type DatabaseConfig struct {
	Path string `yaml:"path" env:"CONTAGION_DB"`
}

// DatasetConfig controls contact-network construction. Source is
// "synthetic" or "real"; real datasets are edge-list files under Dir,
// subsampled to TargetNodes.
type DatasetConfig struct {
	Source      string `yaml:"source" env:"CONTAGION_DATASET_SOURCE"`
	Dir         string `yaml:"dir" env:"CONTAGION_DATASET_DIR"`
	TargetNodes int    `yaml:"target_nodes" env:"CONTAGION_TARGET_NODES"`
}

// SimulationConfig holds default transition parameters, overridable per
// simulation start request.
type SimulationConfig struct {
	InfectionRate   float64 `yaml:"infection_rate"`
	RecoveryRate    float64 `yaml:"recovery_rate"`
	DeathRate       float64 `yaml:"death_rate"`
	QuarantineRate  float64 `yaml:"quarantine_rate"`
	InitialInfected int     `yaml:"initial_infected"`
	IsolationLimit  int     `yaml:"isolation_limit"`
}

// Load finds and loads the config file, or returns defaults if none found.
// Environment variables overlay whatever the file provided.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		if err := env.Parse(cfg); err != nil {
			return nil, "", fmt.Errorf("parse environment: %w", err)
		}
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, path, fmt.Errorf("parse environment: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	params := sim.DefaultParameters()
	return &Config{
		Server:   ServerConfig{Addr: ":5000"},
		Database: DatabaseConfig{Path: "./contagion.db"},
		Dataset: DatasetConfig{
			Source:      "synthetic",
			Dir:         "./data",
			TargetNodes: 500,
		},
		Simulation: SimulationConfig{
			InfectionRate:   params.InfectionRate,
			RecoveryRate:    params.RecoveryRate,
			DeathRate:       params.DeathRate,
			QuarantineRate:  params.QuarantineRate,
			InitialInfected: params.InitialInfected,
			IsolationLimit:  params.IsolationLimit,
		},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Database.Path == "" {
		c.Database.Path = def.Database.Path
	}
	if c.Dataset.Source == "" {
		c.Dataset.Source = def.Dataset.Source
	}
	if c.Dataset.Dir == "" {
		c.Dataset.Dir = def.Dataset.Dir
	}
	if c.Dataset.TargetNodes <= 0 {
		c.Dataset.TargetNodes = def.Dataset.TargetNodes
	}
	if c.Simulation.InfectionRate == 0 {
		c.Simulation.InfectionRate = def.Simulation.InfectionRate
	}
	if c.Simulation.RecoveryRate == 0 {
		c.Simulation.RecoveryRate = def.Simulation.RecoveryRate
	}
	if c.Simulation.DeathRate == 0 {
		c.Simulation.DeathRate = def.Simulation.DeathRate
	}
	if c.Simulation.QuarantineRate == 0 {
		c.Simulation.QuarantineRate = def.Simulation.QuarantineRate
	}
	if c.Simulation.InitialInfected <= 0 {
		c.Simulation.InitialInfected = def.Simulation.InitialInfected
	}
	if c.Simulation.IsolationLimit <= 0 {
		c.Simulation.IsolationLimit = def.Simulation.IsolationLimit
	}
}

// Parameters converts the configured simulation defaults into engine
// parameters, filling the structural fields the file does not expose.
func (c *Config) Parameters() sim.Parameters {
	p := sim.DefaultParameters()
	p.InfectionRate = c.Simulation.InfectionRate
	p.RecoveryRate = c.Simulation.RecoveryRate
	p.DeathRate = c.Simulation.DeathRate
	p.QuarantineRate = c.Simulation.QuarantineRate
	p.InitialInfected = c.Simulation.InitialInfected
	p.IsolationLimit = c.Simulation.IsolationLimit
	return p
}
