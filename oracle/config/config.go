package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pelletier/go-toml/v2"
	tmdb "github.com/tendermint/tm-db"

	"github.com/GPTx-global/guru-oracle/oracle/log"
)

const fileName = "config.toml"

type Config struct {
	DB       DBConfig       `toml:"db"`
	Registry RegistryConfig `toml:"registry"`
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`

	home string
}

type DBConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
}

type RegistryConfig struct {
	Nodes     uint64   `toml:"nodes"`
	Addresses []string `toml:"addresses"`
}

type ServerConfig struct {
	Listen string `toml:"listen"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  bool   `toml:"file"`
}

// Load reads <home>/config.toml, writing a default one first if it does not
// exist.
func Load(home string) (*Config, error) {
	path := filepath.Join(home, fileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultConfig(home, path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := new(Config)
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	cfg.home = home

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration written on first start.
func Default(home string) *Config {
	return &Config{
		DB: DBConfig{
			Backend: string(tmdb.GoLevelDBBackend),
			Dir:     "data",
		},
		Registry: RegistryConfig{
			Nodes:     0,
			Addresses: []string{},
		},
		Log: LogConfig{
			Level: "info",
			File:  false,
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:8645",
		},
		home: home,
	}
}

func createDefaultConfig(home, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(Default(home))
	if err != nil {
		return fmt.Errorf("failed to marshal TOML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) Validate() error {
	switch tmdb.BackendType(c.DB.Backend) {
	case tmdb.GoLevelDBBackend, tmdb.MemDBBackend:
	default:
		return fmt.Errorf("unsupported db backend %q", c.DB.Backend)
	}

	if c.DB.Dir == "" && tmdb.BackendType(c.DB.Backend) != tmdb.MemDBBackend {
		return fmt.Errorf("db dir is required")
	}

	if uint64(len(c.Registry.Addresses)) > c.Registry.Nodes {
		return fmt.Errorf("%d registry addresses for %d nodes", len(c.Registry.Addresses), c.Registry.Nodes)
	}

	for _, addr := range c.Registry.Addresses {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid registry address %q", addr)
		}
	}

	return nil
}

func (c *Config) Home() string {
	return c.home
}

// DBDir resolves the database directory against the home directory.
func (c *Config) DBDir() string {
	if filepath.IsAbs(c.DB.Dir) {
		return c.DB.Dir
	}
	return filepath.Join(c.home, c.DB.Dir)
}

func (c *Config) Print() {
	log.Infof("%-15s: %s", "Home", c.home)
	log.Infof("%-15s: %s", "DB Backend", c.DB.Backend)
	log.Infof("%-15s: %s", "DB Dir", c.DBDir())
	log.Infof("%-15s: %d", "Nodes", c.Registry.Nodes)
	for i, addr := range c.Registry.Addresses {
		log.Infof("%-15s: %s", fmt.Sprintf("Node %d", i), addr)
	}
	log.Infof("%-15s: %s", "Log Level", c.Log.Level)
	log.Infof("%-15s: %s", "Listen", c.Server.Listen)
}

// SetForTesting returns an in-memory configuration for tests.
func SetForTesting(nodes uint64, addresses ...string) *Config {
	cfg := Default("")
	cfg.DB.Backend = string(tmdb.MemDBBackend)
	cfg.DB.Dir = ""
	cfg.Registry.Nodes = nodes
	cfg.Registry.Addresses = addresses
	return cfg
}
