package config

import (
	"encoding/json"
	"os"

	"github.com/fcurrie/memtool/pkg/mmap"
)

// EnvPath names the environment variable holding the configuration file path.
const EnvPath = "MEMTOOL_CONFIG"

// Config represents the tool configuration. Command-line flags override it.
type Config struct {
	// MemDev is the memory device mapped by every command.
	MemDev string `json:"mem_dev"`
	// Squeeze enables elision of repeated dump rows.
	Squeeze bool `json:"squeeze"`
	// Verbose logs each mapping.
	Verbose bool `json:"verbose"`
}

// LoadConfig loads the configuration from a file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, err
	}

	return config, nil
}

// FromEnv loads the file named by EnvPath, or returns the defaults when the
// variable is unset.
func FromEnv() (*Config, error) {
	path := os.Getenv(EnvPath)
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MemDev:  mmap.DefaultDevice,
		Squeeze: true,
	}
}
