// Package config loads the pagetrace configuration from a yml file or
// environment variables or both.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jakopako/pagetrace/internal/browser"
	"github.com/jakopako/pagetrace/internal/console"
	"github.com/jakopako/pagetrace/internal/fetch"
	"github.com/jakopako/pagetrace/internal/output"
	"github.com/jakopako/pagetrace/internal/panel"
)

type ConsoleConfig struct {
	Color console.ColorMode `yaml:"color" env:"CONSOLE_COLOR" env-default:"auto"`
}

// Config defines the overall structure of the configuration. Values are
// taken from a config yml file or environment variables or both.
type Config struct {
	Console ConsoleConfig       `yaml:"console"`
	Panel   panel.Config        `yaml:"panel"`
	Browser browser.Config      `yaml:"browser"`
	Fetcher fetch.FetcherConfig `yaml:"fetcher"`
	Writer  output.WriterConfig `yaml:"writer"`
}

// NewConfig reads the config file at configPath. If the path is empty or
// the file does not exist only the environment is read.
func NewConfig(configPath string) (*Config, error) {
	var config Config
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := cleanenv.ReadConfig(configPath, &config); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
			}
			return &config, config.validate()
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	return &config, config.validate()
}

func (c *Config) validate() error {
	switch c.Console.Color {
	case console.ColorAuto, console.ColorAlways, console.ColorNever:
	default:
		return fmt.Errorf("invalid console color mode %q", c.Console.Color)
	}
	return nil
}
