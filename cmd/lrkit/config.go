package main

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"github.com/lrkit/lrkit/grammar"
)

const defaultConfigPath = "lrkit.toml"

// config is read from a TOML file. Command-line flags take precedence over it.
type config struct {
	Class    string `toml:"class"`
	LogLevel string `toml:"log_level"`
	Color    bool   `toml:"color"`
	Trace    bool   `toml:"trace"`
}

func defaultConfig() *config {
	return &config{
		Class:    grammar.ClassLALR1.String(),
		LogLevel: zapcore.WarnLevel.String(),
		Color:    true,
	}
}

// loadConfig reads path over the defaults. An empty path means the default file, which
// may be absent.
func loadConfig(path string) (*config, error) {
	c := defaultConfig()
	if path == "" {
		_, err := os.Stat(defaultConfigPath)
		if os.IsNotExist(err) {
			return c, nil
		}
		path = defaultConfigPath
	}

	_, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read the configuration file %v", path)
	}
	return c, nil
}

func (c *config) validate() error {
	_, err := grammar.ParseClass(c.Class)
	if err != nil {
		return err
	}
	_, err = zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	return nil
}

func (c *config) class() grammar.Class {
	class, _ := grammar.ParseClass(c.Class)
	return class
}
