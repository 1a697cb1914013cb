package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	dbm "github.com/tendermint/tm-db"

	"github.com/tendermint/light-verifier/config"
	"github.com/tendermint/light-verifier/libs/log"
	"github.com/tendermint/light-verifier/light/store"
	dbs "github.com/tendermint/light-verifier/light/store/db"
	"github.com/tendermint/light-verifier/types"
)

// EnvPrefix is the prefix of environment variables overriding the config,
// e.g. TMV_HOME or TMV_LOG_LEVEL.
const EnvPrefix = "TMV"

const lightDBName = "light"

// logger is replaced by the root command once the config is parsed.
var logger = log.NewNopLogger()

// ParseConfig retrieves the default environment configuration,
// sets up the verifier root and ensures that the root exists
func ParseConfig(conf *config.Config) (*config.Config, error) {
	if err := viper.Unmarshal(conf); err != nil {
		return nil, err
	}

	conf.SetRoot(conf.RootDir)

	if err := conf.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("error in config file: %w", err)
	}
	return conf, nil
}

// RootCommand constructs the root command-line entry point for tmverify.
// The caller is expected to pass it through cli.PrepareBaseCmd, which binds
// the --home and --trace flags and loads viper before this pre-run.
func RootCommand(conf *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tmverify",
		Short: "Verify Tendermint light blocks against a trusted one",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == VersionCmd.Name() {
				return nil
			}

			pconf, err := ParseConfig(conf)
			if err != nil {
				return err
			}
			*conf = *pconf
			if err := config.EnsureRoot(conf.RootDir); err != nil {
				return err
			}

			logger, err = log.NewLogger(conf.LogFormat, conf.LogLevel, cmd.ErrOrStderr())
			return err
		},
	}
	cmd.PersistentFlags().String("chain-id", conf.ChainID, "ID of the chain whose headers are verified")
	cmd.PersistentFlags().String("log-level", conf.LogLevel, "log level")
	cmd.PersistentFlags().String("log-format", conf.LogFormat, "log format (plain|text|json)")
	return cmd
}

// openStore opens the light block store described by conf. The returned DB
// must be closed by the caller.
func openStore(conf *config.Config) (store.Store, dbm.DB, error) {
	if conf.ChainID == "" {
		return nil, nil, fmt.Errorf("chain-id is not set; pass --chain-id or set it in %s", conf.ConfigFile())
	}
	db, err := config.DefaultDBProvider(&config.DBContext{ID: lightDBName, Config: conf})
	if err != nil {
		return nil, nil, fmt.Errorf("can't open light block db: %w", err)
	}
	return dbs.New(db, conf.ChainID), db, nil
}

// readLightBlock loads a JSON encoded light block. Nothing beyond its
// presence is checked here.
func readLightBlock(path string) (*types.LightBlock, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lb := new(types.LightBlock)
	if err := json.Unmarshal(bz, lb); err != nil {
		return nil, fmt.Errorf("can't decode light block %s: %w", path, err)
	}
	if lb.SignedHeader == nil || lb.Header == nil || lb.Commit == nil {
		return nil, fmt.Errorf("light block %s: missing signed header", path)
	}
	if lb.ValidatorSet == nil {
		return nil, fmt.Errorf("light block %s: missing validator set", path)
	}
	return lb, nil
}
