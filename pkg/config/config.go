/*
Package config contains neokit configuration structures and loading helpers.
*/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/r3e-network/neokit/pkg/config/netmode"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultDialTimeout is the default RPC connection timeout.
	DefaultDialTimeout = 5 * time.Second
	// DefaultRequestTimeout is the default timeout of a single RPC request.
	DefaultRequestTimeout = 10 * time.Second
	// DefaultMaxConnsPerHost is the default limit of connections to the RPC node.
	DefaultMaxConnsPerHost = 10
)

// Version is the version of neokit, set at the build time.
var Version string

// Config top level struct representing the config for neokit.
type Config struct {
	// Network is the magic of the network used for signing, it's taken from
	// the node if not set.
	Network                  netmode.Magic            `yaml:"Network"`
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
	TransactionConfiguration TransactionConfiguration `yaml:"TransactionConfiguration"`
}

// ApplicationConfiguration contains logging and RPC connection settings.
type ApplicationConfiguration struct {
	LogLevel string `yaml:"LogLevel"`
	LogPath  string `yaml:"LogPath"`
	RPC      RPC    `yaml:"RPC"`
}

// RPC is an RPC node connection configuration.
type RPC struct {
	Endpoint        string        `yaml:"Endpoint"`
	DialTimeout     time.Duration `yaml:"DialTimeout"`
	RequestTimeout  time.Duration `yaml:"RequestTimeout"`
	MaxConnsPerHost int           `yaml:"MaxConnsPerHost"`
}

// TransactionConfiguration contains defaults for transactions created.
type TransactionConfiguration struct {
	AdditionalNetworkFee int64 `yaml:"AdditionalNetworkFee"`
	AdditionalSystemFee  int64 `yaml:"AdditionalSystemFee"`
	AllowFault           bool  `yaml:"AllowFault"`
	// DefaultVUBIncrement overrides MaxValidUntilBlockIncrement of the node
	// when non-zero.
	DefaultVUBIncrement uint32 `yaml:"DefaultVUBIncrement"`
}

// Default returns configuration with default values set.
func Default() Config {
	return Config{
		ApplicationConfiguration: ApplicationConfiguration{
			LogLevel: "info",
			RPC: RPC{
				DialTimeout:     DefaultDialTimeout,
				RequestTimeout:  DefaultRequestTimeout,
				MaxConnsPerHost: DefaultMaxConnsPerHost,
			},
		},
	}
}

// LoadFile loads config from the provided path. Fields missing from the file
// keep their default values, unknown fields are an error.
func LoadFile(configPath string) (Config, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	return Unmarshal(configData)
}

// Unmarshal decodes YAML configuration applying defaults and validates it.
func Unmarshal(configData []byte) (Config, error) {
	config := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(configData))
	decoder.KnownFields(true)
	err := decoder.Decode(&config)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: failed to unmarshal config YAML: %w", neoerr.ErrConfiguration, err)
	}

	err = config.Validate()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks Config for internal consistency.
func (c Config) Validate() error {
	if err := c.ApplicationConfiguration.Validate(); err != nil {
		return err
	}
	t := c.TransactionConfiguration
	if t.AdditionalNetworkFee < 0 || t.AdditionalSystemFee < 0 {
		return fmt.Errorf("%w: negative additional fee", neoerr.ErrConfiguration)
	}
	return nil
}

// Validate checks ApplicationConfiguration for internal consistency.
func (a ApplicationConfiguration) Validate() error {
	if len(a.LogLevel) != 0 {
		if _, err := zapcore.ParseLevel(a.LogLevel); err != nil {
			return fmt.Errorf("%w: log setting: %w", neoerr.ErrConfiguration, err)
		}
	}
	if a.RPC.DialTimeout < 0 || a.RPC.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative RPC timeout", neoerr.ErrConfiguration)
	}
	if a.RPC.MaxConnsPerHost < 0 {
		return fmt.Errorf("%w: negative MaxConnsPerHost", neoerr.ErrConfiguration)
	}
	return nil
}
