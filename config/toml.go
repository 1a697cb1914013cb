package config

import (
	"bytes"
	"path/filepath"
	"text/template"

	tmos "github.com/tendermint/light-verifier/libs/os"
)

// defaultDirPerm is the default permissions used when creating directories.
const defaultDirPerm = 0700

var configTemplate *template.Template

func init() {
	var err error
	tmpl := template.New("configFileTemplate")
	if configTemplate, err = tmpl.Parse(defaultConfigTemplate); err != nil {
		panic(err)
	}
}

// EnsureRoot creates the root, config, and data directories if they don't exist.
func EnsureRoot(rootDir string) error {
	for _, dir := range []string{
		rootDir,
		filepath.Join(rootDir, defaultConfigDir),
		filepath.Join(rootDir, defaultDataDir),
	} {
		if err := tmos.EnsureDir(dir, defaultDirPerm); err != nil {
			return err
		}
	}
	return nil
}

// WriteConfigFile renders config using the template and writes it to
// configFilePath. This function is called by cmd/tmverify/commands/init.go
func WriteConfigFile(rootDir string, config *Config) error {
	return config.WriteToTemplate(filepath.Join(rootDir, defaultConfigFilePath))
}

// WriteDefaultConfigFileIfNone writes the default config unless a config
// file already exists under rootDir. It reports whether a file was written.
func WriteDefaultConfigFileIfNone(rootDir string, config *Config) (bool, error) {
	configFilePath := filepath.Join(rootDir, defaultConfigFilePath)
	if tmos.FileExists(configFilePath) {
		return false, nil
	}
	return true, WriteConfigFile(rootDir, config)
}

// WriteToTemplate writes the config to the exact file specified by
// the path, in the default toml template and does not mangle the path
// or filename at all.
func (cfg *Config) WriteToTemplate(path string) error {
	var buffer bytes.Buffer

	if err := configTemplate.Execute(&buffer, cfg); err != nil {
		return err
	}

	return tmos.WriteFileAtomic(path, buffer.Bytes(), 0644)
}

// Note: any changes to the comments/variables/mapstructure
// must be reflected in the appropriate struct in config/config.go
const defaultConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

# NOTE: Any path below can be absolute (e.g. "/var/tmverify/data") or
# relative to the home directory (e.g. "data"). The home directory is
# "$HOME/.tmverify" by default, but could be changed via $TMV_HOME env variable
# or --home cmd flag.

#######################################################################
###                   Main Base Config Options                      ###
#######################################################################

# The ID of the chain whose headers are verified
chain-id = "{{ js .BaseConfig.ChainID }}"

# Database backend: goleveldb | cleveldb | boltdb | rocksdb | badgerdb | memdb
# * goleveldb (github.com/syndtr/goleveldb - most popular implementation)
#   - pure go
#   - stable
# * cleveldb, boltdb, rocksdb, badgerdb
#   - use the matching build tag (go build -tags boltdb)
db-backend = "{{ .BaseConfig.DBBackend }}"

# Database directory
db-dir = "{{ js .BaseConfig.DBPath }}"

# Output level for logging: debug | info | warn | error
log-level = "{{ .BaseConfig.LogLevel }}"

# Output format: 'plain' (colored text) or 'json'
log-format = "{{ .BaseConfig.LogFormat }}"

#######################################################
###       Light Verification Configuration          ###
#######################################################
[light]

# Trusted headers older than this can no longer verify new ones.
# Go durations ("336h") or a plain number of seconds ("315576000000s").
trusting-period = "{{ .Light.TrustingPeriod }}"

# Maximum allowed difference between a header time and the local clock.
max-clock-drift = "{{ .Light.MaxClockDrift }}"

# Minimum share of the trusted validator set that must sign a header
# when intermediate headers are skipped. Must be within [1/3, 1].
trust-level = "{{ .Light.TrustLevel }}"

# Number of trusted light blocks kept in the store.
max-retained-blocks = {{ .Light.MaxRetainedBlocks }}
`
