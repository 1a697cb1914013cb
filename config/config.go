package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	tmlog "github.com/tendermint/light-verifier/libs/log"
	tmmath "github.com/tendermint/light-verifier/libs/math"
	"github.com/tendermint/light-verifier/light"
	tmtime "github.com/tendermint/light-verifier/types/time"
)

// NOTE: Most of the structs & relevant comments + the
// default configuration options were used to manually
// generate the config.toml. Please reflect any changes
// made here in the defaultConfigTemplate constant in
// config/toml.go
// NOTE: libs/cli must know to look in the config dir!
var (
	DefaultVerifierDir = ".tmverify"
	defaultConfigDir   = "config"
	defaultDataDir     = "data"

	defaultConfigFileName = "config.toml"

	defaultConfigFilePath = filepath.Join(defaultConfigDir, defaultConfigFileName)
)

// DefaultHome is $HOME/.tmverify.
func DefaultHome() string {
	return os.ExpandEnv(filepath.Join("$HOME", DefaultVerifierDir))
}

// Config defines the top level configuration for the verifier
type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`

	// Options for the verification itself
	Light *LightConfig `mapstructure:"light"`
}

// DefaultConfig returns a default configuration for the verifier
func DefaultConfig() *Config {
	return &Config{
		BaseConfig: DefaultBaseConfig(),
		Light:      DefaultLightConfig(),
	}
}

// TestConfig returns a configuration that can be used for testing
func TestConfig() *Config {
	return &Config{
		BaseConfig: TestBaseConfig(),
		Light:      TestLightConfig(),
	}
}

// SetRoot sets the RootDir for all Config structs
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	return cfg
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *Config) ValidateBasic() error {
	if err := cfg.BaseConfig.ValidateBasic(); err != nil {
		return err
	}
	if cfg.Light == nil {
		return errors.New("missing [light] section")
	}
	return errors.Wrap(cfg.Light.ValidateBasic(), "error in [light] section")
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration for the verifier
type BaseConfig struct { //nolint: maligned
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	// The ID of the chain whose headers are verified
	ChainID string `mapstructure:"chain-id"`

	// Database backend: goleveldb | cleveldb | boltdb | rocksdb | badgerdb | memdb
	DBBackend string `mapstructure:"db-backend"`

	// Database directory
	DBPath string `mapstructure:"db-dir"`

	// Output level for logging
	LogLevel string `mapstructure:"log-level"`

	// Output format: 'plain' (text) or 'json'
	LogFormat string `mapstructure:"log-format"`
}

// DefaultBaseConfig returns a default base configuration for the verifier
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		DBBackend: "goleveldb",
		DBPath:    defaultDataDir,
		LogLevel:  tmlog.LogLevelInfo,
		LogFormat: tmlog.LogFormatPlain,
	}
}

// TestBaseConfig returns a base configuration for testing
func TestBaseConfig() BaseConfig {
	cfg := DefaultBaseConfig()
	cfg.ChainID = "tmverify_test"
	cfg.DBBackend = "memdb"
	return cfg
}

// DBDir returns the full path to the database directory
func (cfg BaseConfig) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

// ConfigFile returns the full path to the config.toml file
func (cfg BaseConfig) ConfigFile() string {
	return rootify(defaultConfigFilePath, cfg.RootDir)
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg BaseConfig) ValidateBasic() error {
	switch cfg.LogFormat {
	case tmlog.LogFormatPlain, tmlog.LogFormatText, tmlog.LogFormatJSON:
	default:
		return errors.New("unknown log format (must be 'plain', 'text' or 'json')")
	}
	switch cfg.LogLevel {
	case tmlog.LogLevelDebug, tmlog.LogLevelInfo, tmlog.LogLevelWarn, tmlog.LogLevelError:
	default:
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	if cfg.DBBackend == "" {
		return errors.New("db-backend can't be empty")
	}
	return nil
}

//-----------------------------------------------------------------------------
// LightConfig

// LightConfig defines the parameters of header verification.
type LightConfig struct {
	// Headers older than the trusting period can no longer be used to verify
	// new ones. Accepts Go durations ("336h") and plain seconds
	// ("315576000000s") for periods beyond time.Duration.
	TrustingPeriod string `mapstructure:"trusting-period"`

	// How far into the future a header time may be.
	MaxClockDrift string `mapstructure:"max-clock-drift"`

	// Share of the trusted validator set that must have signed a skipped
	// header, in [1/3, 1].
	TrustLevel string `mapstructure:"trust-level"`

	// Number of trusted light blocks kept in the store; older ones are pruned.
	MaxRetainedBlocks uint16 `mapstructure:"max-retained-blocks"`
}

// DefaultLightConfig returns a default configuration for verification
func DefaultLightConfig() *LightConfig {
	return &LightConfig{
		TrustingPeriod:    "336h",
		MaxClockDrift:     "10s",
		TrustLevel:        light.DefaultTrustLevel.String(),
		MaxRetainedBlocks: 1000,
	}
}

// TestLightConfig returns a configuration for testing
func TestLightConfig() *LightConfig {
	cfg := DefaultLightConfig()
	cfg.MaxRetainedBlocks = 10
	return cfg
}

// TrustingPeriodDuration parses TrustingPeriod.
func (cfg *LightConfig) TrustingPeriodDuration() (tmtime.Duration, error) {
	return tmtime.ParseDuration(cfg.TrustingPeriod)
}

// MaxClockDriftDuration parses MaxClockDrift.
func (cfg *LightConfig) MaxClockDriftDuration() (tmtime.Duration, error) {
	return tmtime.ParseDuration(cfg.MaxClockDrift)
}

// TrustLevelFraction parses TrustLevel and checks it is within [1/3, 1].
func (cfg *LightConfig) TrustLevelFraction() (tmmath.Fraction, error) {
	lvl, err := tmmath.ParseFraction(cfg.TrustLevel)
	if err != nil {
		return tmmath.Fraction{}, err
	}
	if err := light.ValidateTrustLevel(lvl); err != nil {
		return tmmath.Fraction{}, err
	}
	return lvl, nil
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *LightConfig) ValidateBasic() error {
	period, err := cfg.TrustingPeriodDuration()
	if err != nil {
		return errors.Wrap(err, "wrong trusting-period")
	}
	if period.IsNegative() || period == (tmtime.Duration{}) {
		return errors.New("trusting-period must be positive")
	}
	drift, err := cfg.MaxClockDriftDuration()
	if err != nil {
		return errors.Wrap(err, "wrong max-clock-drift")
	}
	if drift.IsNegative() {
		return errors.New("max-clock-drift can't be negative")
	}
	if _, err := cfg.TrustLevelFraction(); err != nil {
		return errors.Wrap(err, "wrong trust-level")
	}
	if cfg.MaxRetainedBlocks == 0 {
		return errors.New("max-retained-blocks must be greater than zero")
	}
	return nil
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
