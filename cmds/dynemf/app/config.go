package app

import (
	"os"
	"path/filepath"

	"github.com/drone/envsubst"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"sigs.k8s.io/yaml"
)

const CONFIG_FILE = ".dynemf"

type Config struct {
	Metamodels []string `json:"metamodels,omitempty"`
	LogLevel   *string  `json:"logLevel,omitempty"`
}

// GetConfig merges the configuration files found in the home
// directory, the user config directory and the working directory.
func GetConfig(fs vfs.FileSystem) *Config {
	var cfg Config

	dir, err := os.UserHomeDir()
	if err == nil {
		MergeConfig(&cfg, ReadConfig(fs, filepath.Join(dir, CONFIG_FILE)))
	}
	dir, err = os.UserConfigDir()
	if err == nil {
		MergeConfig(&cfg, ReadConfig(fs, filepath.Join(dir, CONFIG_FILE)))
	}
	MergeConfig(&cfg, ReadConfig(fs, CONFIG_FILE))
	return &cfg
}

// ReadConfig reads a configuration file. Environment variables
// are expanded before parsing. Missing or invalid files are ignored.
func ReadConfig(fs vfs.FileSystem, path string) *Config {
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil
	}
	s, err := envsubst.EvalEnv(string(data))
	if err != nil {
		log.Warn("cannot expand config {{path}}: {{error}}", "path", path, "error", err)
		return nil
	}
	var cfg Config
	err = yaml.Unmarshal([]byte(s), &cfg)
	if err != nil {
		log.Warn("invalid config {{path}}: {{error}}", "path", path, "error", err)
		return nil
	}
	return &cfg
}

func MergeConfig(cfg *Config, add *Config) {
	if add == nil {
		return
	}
	cfg.Metamodels = append(cfg.Metamodels, add.Metamodels...)
	if add.LogLevel != nil {
		cfg.LogLevel = add.LogLevel
	}
}
