// SPDX-License-Identifier: Apache-2.0

package config

import (
	"net/url"
	"strings"

	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/spf13/viper"
)

// DefaultDownloadURL is the public endpoint serving the current kited
// package for Linux.
const DefaultDownloadURL = "https://linux.kite.com/dls/linux/current"

// Config holds the global configuration for the application.
type Config struct {
	Log      logx.LoggingConfig `yaml:"log" json:"log"`
	Download DownloadConfig     `yaml:"download" json:"download"`
	Verify   VerifyConfig       `yaml:"verify" json:"verify"`
}

// DownloadConfig represents the `download` configuration block.
type DownloadConfig struct {
	URL            string `yaml:"url" json:"url"`
	TimeoutMinutes int    `yaml:"timeoutMinutes" json:"timeoutMinutes"`
}

// VerifyConfig represents the `verify` configuration block controlling the
// post-install verification retry budget.
type VerifyConfig struct {
	Attempts      int `yaml:"attempts" json:"attempts"`
	BackoffMillis int `yaml:"backoffMillis" json:"backoffMillis"`
}

// Validate validates user-provided configuration before any workflow runs.
func (c Config) Validate() error {
	if c.Download.URL != "" {
		u, err := url.Parse(c.Download.URL)
		if err != nil {
			return errorx.IllegalArgument.Wrap(err, "invalid download url: %s", c.Download.URL)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errorx.IllegalArgument.New("download url must be http or https: %s", c.Download.URL)
		}
	}

	if c.Download.TimeoutMinutes < 0 {
		return errorx.IllegalArgument.New("download timeoutMinutes must not be negative: %d", c.Download.TimeoutMinutes)
	}

	if c.Verify.Attempts < 0 {
		return errorx.IllegalArgument.New("verify attempts must not be negative: %d", c.Verify.Attempts)
	}

	if c.Verify.BackoffMillis < 0 {
		return errorx.IllegalArgument.New("verify backoffMillis must not be negative: %d", c.Verify.BackoffMillis)
	}

	return nil
}

var globalConfig = Config{
	Log: logx.LoggingConfig{
		Level:          "Debug",
		ConsoleLogging: true,
		FileLogging:    false,
	},
	Download: DownloadConfig{
		URL:            DefaultDownloadURL,
		TimeoutMinutes: 10,
	},
	Verify: VerifyConfig{
		Attempts:      3,
		BackoffMillis: 500,
	},
}

// Initialize loads the configuration from the specified file.
//
// Parameters:
//   - path: The path to the configuration file.
//
// Returns:
//   - An error if the configuration cannot be loaded.
func Initialize(path string) error {
	if path == "" {
		return nil
	}

	viper.Reset()
	viper.SetConfigFile(path)
	viper.SetEnvPrefix("KITED_MANAGER")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err := viper.ReadInConfig()
	if err != nil {
		return NotFoundError.Wrap(err, "failed to read config file: %s", path).
			WithProperty(errorx.PropertyPayload(), path)
	}

	// load into a scratch value; the active configuration is replaced only
	// once the file has been read and parsed in full
	var loaded Config
	if err := viper.Unmarshal(&loaded); err != nil {
		return errorx.IllegalFormat.Wrap(err, "failed to parse configuration").
			WithProperty(errorx.PropertyPayload(), path)
	}

	if loaded.Download.URL == "" {
		loaded.Download.URL = DefaultDownloadURL
	}

	globalConfig = loaded

	return nil
}

// Get returns the loaded configuration.
//
// Returns:
//   - The global configuration.
func Get() Config {
	return globalConfig
}

func Set(c *Config) error {
	globalConfig = *c
	return nil
}
