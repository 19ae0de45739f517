// Package config loads surbind CLI configuration.
//
// Precedence (highest to lowest): flags > env vars > config file >
// defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all CLI configuration options.
type Config struct {
	// Paths are the .surql files or directories to bind, in order.
	Paths []string `koanf:"paths"`
	// Driver is the driver naming scheme ("" disables the target).
	Driver string `koanf:"driver"`
	// Datastore is the datastore naming scheme.
	Datastore string `koanf:"datastore"`
	// Out is the generated file path.
	Out string `koanf:"out"`
	// Package is the generated package name.
	Package string `koanf:"package"`
	// StatePath is the state database path ("" disables state).
	StatePath string `koanf:"state_path"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultOut       = "bindings.gen.go"
	DefaultPackage   = "surqlfns"
	DefaultStateFile = ".surbind/state.db"
)

// configFileUsed tracks which config file was loaded, for verbose
// output.
var configFileUsed string

// ConfigFileUsed returns the path of the config file that was loaded,
// or empty when none was found.
func ConfigFileUsed() string {
	return configFileUsed
}

// findConfigFile finds the config file to use.
// Priority: explicit path > surbind.yaml > surbind.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"surbind.yaml", "surbind.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from defaults, the config file, SURBIND_
// environment variables, and the given flag set.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"out":        DefaultOut,
		"package":    DefaultPackage,
		"state_path": DefaultStateFile,
		"verbose":    false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return nil, fmt.Errorf("config file not found: %s", cfgFile)
		}
	}
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables: SURBIND_STATE_PATH -> state_path
	if err := k.Load(env.Provider("SURBIND_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SURBIND_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority); only flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
