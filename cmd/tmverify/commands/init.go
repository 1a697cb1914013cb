package commands

import (
	"github.com/spf13/cobra"

	"github.com/tendermint/light-verifier/config"
)

// MakeInitCommand returns the command writing a config file into the home
// directory. An existing config file is left untouched.
func MakeInitCommand(conf *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the verifier home directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := config.WriteDefaultConfigFileIfNone(conf.RootDir, conf)
			if err != nil {
				return err
			}
			if written {
				logger.Info("Generated config", "path", conf.ConfigFile())
			} else {
				logger.Info("Found config", "path", conf.ConfigFile())
			}
			return nil
		},
	}
}
