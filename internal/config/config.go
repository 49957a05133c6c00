// Package config holds the settings of the fat12 command.
// Values come from an optional YAML file and are overridden by flags
// given explicitly on the command line.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/aligator/fat12/internal/logger"
	"github.com/aligator/fat12/internal/render"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Output formats.
const (
	FormatText = render.FormatText
	FormatJSON = render.FormatJSON
	FormatYAML = render.FormatYAML
)

// Flag names shared with the command line.
const (
	FlagLogLevel = "log-level"
	FlagStrict   = "strict"
	FlagFormat   = "format"
	FlagRaw      = "raw"
)

type Config struct {
	// LogLevel is one of debug, info, warn and error.
	LogLevel string `yaml:"logLevel"`
	// Strict enables the full boot sector validation.
	Strict bool `yaml:"strict"`
	// Format of ls, info and chain.
	Format string `yaml:"format"`
	// Raw makes cat write the file content unescaped.
	Raw bool `yaml:"raw"`
}

func Default() Config {
	return Config{
		LogLevel: logger.DefaultLevel,
		Format:   FormatText,
	}
}

// Load reads the YAML file at path on top of the defaults.
// An empty path returns the defaults.
func Load(fs afero.Fs, path string) (Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, path, err)
	}

	return config, config.Validate()
}

// ApplyFlags overrides the values of all flags which were set explicitly.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(flag *pflag.Flag) {
		if err != nil {
			return
		}
		switch flag.Name {
		case FlagLogLevel:
			c.LogLevel, err = flags.GetString(FlagLogLevel)
		case FlagStrict:
			c.Strict, err = flags.GetBool(FlagStrict)
		case FlagFormat:
			c.Format, err = flags.GetString(FlagFormat)
		case FlagRaw:
			c.Raw, err = flags.GetBool(FlagRaw)
		}
	})
	if err != nil {
		return err
	}
	return c.Validate()
}

func (c Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: unsupported format %q (supported: text, json, yaml)", ErrInvalidConfig, c.Format)
	}
	return nil
}
