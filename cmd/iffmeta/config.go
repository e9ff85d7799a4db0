package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the iffmeta configuration file
// (~/.config/iffmeta/config.yaml). Flags given on the command line win over
// values from the file.
type Config struct {
	// BufferSize bounds the memory used to move chunks during a write.
	BufferSize *int `yaml:"buffer_size"`

	// BackupSuffix, when set, makes every write copy the original first.
	BackupSuffix string `yaml:"backup_suffix"`

	// Format is the default output format.
	Format string `yaml:"format"`

	Validate bool `yaml:"validate"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "iffmeta", "config.yaml")
}

// LoadConfig reads the config file at path. A missing file yields a zero
// Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
