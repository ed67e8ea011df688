package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// LocalConfigFile is the repository-local developer config filename. It holds
// operator preferences, never job state, and should be gitignored.
const LocalConfigFile = "depbump.local.toml"

// globalDir is the directory under the home directory holding global
// configuration and the optional credentials file.
const globalDir = ".depbump"

// DevConfig holds operator-specific configuration that is NOT committed to
// version control. It is resolved with Viper precedence:
// CLI flags > depbump.local.toml (repository-local) > ~/.depbump/config.toml.
type DevConfig struct {
	// Verbose enables debug logging.
	Verbose bool `toml:"verbose" mapstructure:"verbose"`

	// Credentials is the path to a TOML file with [[credentials]] entries,
	// merged with any credentials declared in the job file.
	Credentials string `toml:"credentials" mapstructure:"credentials"`
}

// LoadDevConfig resolves operator configuration using Viper's merge
// semantics. flagVerbose, if set, takes highest precedence.
func LoadDevConfig(flagVerbose bool) (*DevConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("determining home directory: %w", err)
	}
	globalPath := filepath.Join(home, globalDir, "config.toml")
	return loadDevConfig(flagVerbose, globalPath, LocalConfigFile)
}

// loadDevConfig is the internal implementation that accepts explicit paths,
// making it testable without touching the real home directory.
func loadDevConfig(flagVerbose bool, globalPath, localPath string) (*DevConfig, error) {
	v := viper.New()
	v.SetConfigType("toml")

	// Lowest priority: global config. Ignore if missing.
	v.SetConfigFile(globalPath)
	_ = v.ReadInConfig()

	// Higher priority: repository-local config.
	if _, err := os.Stat(localPath); err == nil {
		v.SetConfigFile(localPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", localPath, err)
		}
	}

	// Highest priority: CLI flags.
	if flagVerbose {
		v.Set("verbose", true)
	}

	cfg := &DevConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("resolving developer config: %w", err)
	}
	return cfg, nil
}

// WriteLocalDevConfig writes cfg to depbump.local.toml in dir.
func WriteLocalDevConfig(dir string, cfg *DevConfig) error {
	return writeDevConfig(filepath.Join(dir, LocalConfigFile), cfg)
}

// WriteGlobalDevConfig writes cfg to ~/.depbump/config.toml, creating the
// directory if needed.
func WriteGlobalDevConfig(cfg *DevConfig) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("determining home directory: %w", err)
	}
	dir := filepath.Join(home, globalDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return writeDevConfig(filepath.Join(dir, "config.toml"), cfg)
}

func writeDevConfig(path string, cfg *DevConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling developer config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

type credentialsFile struct {
	Credentials []Credential `toml:"credentials"`
}

// LoadCredentials reads per-host credentials from a TOML file with
// [[credentials]] entries.
func LoadCredentials(path string) ([]Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cf credentialsFile
	if err := toml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cf.Credentials, nil
}
