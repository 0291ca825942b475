package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen  ListenConfig  `yaml:"listen"`
	Backend BackendConfig `yaml:"backend"`
	Logging LoggingConfig `yaml:"logging"`
	Global  GlobalConfig  `yaml:"global"`
}

type ListenConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}
type BackendConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}
type LoggingConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

type GlobalConfig struct {
	Metrics            bool              `yaml:"metrics"`
	IgnoreVersionCheck string            `yaml:"ignore version check"`
	Debug              bool              `yaml:"debug"`
	DetailedError      bool              `yaml:"detailed error"`
	ChatWarnings       bool              `yaml:"chat warnings"`
	SuppressedReports  []string          `yaml:"suppressed reports"`
	AutoUpdater        AutoUpdaterConfig `yaml:"auto updater"`
}

type AutoUpdaterConfig struct {
	Notify   bool  `yaml:"notify"`
	Download bool  `yaml:"download"`
	Delay    int64 `yaml:"delay"` // seconds
}

// Default is the configuration written when none exists yet.
func Default() *Config {
	return &Config{
		Listen:  ListenConfig{Host: "0.0.0.0", Port: 25565},
		Backend: BackendConfig{Host: "127.0.0.1", Port: 25566},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Global: GlobalConfig{
			Metrics:           true,
			ChatWarnings:      true,
			SuppressedReports: []string{},
			AutoUpdater: AutoUpdaterConfig{
				Notify: true,
				Delay:  DefaultUpdaterDelay,
			},
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return cfg, nil
}
